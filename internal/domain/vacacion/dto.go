package vacacion

// ========================================
// WIRE DTOs (snake_case)
// ========================================

// VacacionAPI is a leave request as the backend serializes it. Range dates
// are calendar-only "YYYY-MM-DD"; review/audit instants are ISO-8601 UTC.
type VacacionAPI struct {
	ID                  int64   `json:"id"`
	UserID              int64   `json:"user_id"`
	UserEmail           string  `json:"user_email"`
	UserFullName        string  `json:"user_full_name"`
	Tipo                Tipo    `json:"tipo"`
	FechaInicio         string  `json:"fecha_inicio"`
	FechaFin            string  `json:"fecha_fin"`
	DiasSolicitados     int     `json:"dias_solicitados"`
	Motivo              string  `json:"motivo"`
	Status              Estado  `json:"status"`
	ReviewedBy          *int64  `json:"reviewed_by"`
	ReviewedByName      *string `json:"reviewed_by_name"`
	ReviewedAt          *string `json:"reviewed_at"`
	ComentariosRevision *string `json:"comentarios_revision"`
	IsPending           bool    `json:"is_pending"`
	IsApproved          bool    `json:"is_approved"`
	IsActive            bool    `json:"is_active"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// ListResponseAPI is the paginated envelope. Skip and limit echo the
// resolved values after server-side clamping.
type ListResponseAPI struct {
	Solicitudes []VacacionAPI `json:"solicitudes"`
	Total       int           `json:"total"`
	Skip        int           `json:"skip"`
	Limit       int           `json:"limit"`
}

// BalanceAPI is the balance envelope.
type BalanceAPI struct {
	UserID                int64   `json:"user_id"`
	UserEmail             string  `json:"user_email"`
	UserFullName          string  `json:"user_full_name"`
	DiasAnuales           int     `json:"dias_anuales"`
	DiasDisponibles       int     `json:"dias_disponibles"`
	DiasTomados           int     `json:"dias_tomados"`
	DiasPendientes        int     `json:"dias_pendientes"`
	SolicitudesPendientes int     `json:"solicitudes_pendientes"`
	SolicitudesAprobadas  int     `json:"solicitudes_aprobadas"`
	ProximoPeriodo        *string `json:"proximo_periodo"`
}

// CreateRequest is the body of POST /vacaciones.
type CreateRequest struct {
	Tipo        Tipo   `json:"tipo"`
	FechaInicio string `json:"fecha_inicio"`
	FechaFin    string `json:"fecha_fin"`
	Motivo      string `json:"motivo"`
}

// ReviewRequest is the body of POST /vacaciones/{id}/review.
type ReviewRequest struct {
	Approved            bool    `json:"approved"`
	ComentariosRevision *string `json:"comentarios_revision"`
}
