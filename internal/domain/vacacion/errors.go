package vacacion

import "errors"

var (
	ErrSolicitudNotFound = errors.New("solicitud not found")
	ErrAlreadyProcessed  = errors.New("solicitud already processed")
)
