package vacacion

import "time"

type Tipo string

const (
	TipoVacation  Tipo = "vacation"
	TipoSickLeave Tipo = "sick_leave"
	TipoPersonal  Tipo = "personal"
	TipoOther     Tipo = "other"
)

type Estado string

const (
	EstadoPending   Estado = "pending"
	EstadoApproved  Estado = "approved"
	EstadoRejected  Estado = "rejected"
	EstadoCancelled Estado = "cancelled"
)

// Vacacion entity: one leave/absence application. Dates are calendar days
// (inclusive range); DiasSolicitados and the derived booleans come from the
// server, which applies the business calendar.
type Vacacion struct {
	ID           int64
	UserID       int64
	UserEmail    string
	UserFullName string

	Tipo            Tipo
	FechaInicio     time.Time
	FechaFin        time.Time
	DiasSolicitados int
	Motivo          string

	Status         Estado
	ReviewedBy     *int64
	ReviewedByName *string
	ReviewedAt     *time.Time

	ComentariosRevision *string

	IsPending  bool
	IsApproved bool
	// IsActive means approved and covering today.
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance holds the server-computed leave-day aggregates for one user.
// Nothing here is derived locally.
type Balance struct {
	UserID                int64
	UserEmail             string
	UserFullName          string
	DiasAnuales           int
	DiasDisponibles       int
	DiasTomados           int
	DiasPendientes        int
	SolicitudesPendientes int
	SolicitudesAprobadas  int
	ProximoPeriodo        *time.Time
}
