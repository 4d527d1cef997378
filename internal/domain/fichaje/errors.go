package fichaje

import "errors"

// Fichaje domain errors
var (
	// Check-in / check-out guards
	ErrAlreadyCheckedIn = errors.New("you already have an active fichaje")
	ErrNotCheckedIn     = errors.New("you have no active fichaje")

	// Correction guards
	ErrFichajeNotFound = errors.New("fichaje not found")
	ErrNotCorrectable  = errors.New("only closed fichajes in valid status can be corrected")
)
