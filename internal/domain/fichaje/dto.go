package fichaje

// ========================================
// WIRE DTOs (snake_case, string instants)
// ========================================

// FichajeAPI is a fichaje as the backend serializes it. All instants are
// ISO-8601 strings with the UTC designator.
type FichajeAPI struct {
	ID                    int64    `json:"id"`
	UserID                int64    `json:"user_id"`
	UserEmail             string   `json:"user_email"`
	UserFullName          string   `json:"user_full_name"`
	CheckIn               string   `json:"check_in"`
	CheckOut              *string  `json:"check_out"`
	HoursWorked           *float64 `json:"hours_worked"`
	Status                Status   `json:"status"`
	Notes                 *string  `json:"notes"`
	CorrectionReason      *string  `json:"correction_reason"`
	CorrectionRequestedAt *string  `json:"correction_requested_at"`
	ApprovedBy            *int64   `json:"approved_by"`
	ApprovedAt            *string  `json:"approved_at"`
	ApprovalNotes         *string  `json:"approval_notes"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

// ListResponseAPI is the paginated history envelope.
type ListResponseAPI struct {
	Fichajes   []FichajeAPI `json:"fichajes"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalHours float64      `json:"total_hours"`
}

// StatsAPI is the aggregate stats envelope.
type StatsAPI struct {
	TotalFichajes       int     `json:"total_fichajes"`
	FichajesCompletos   int     `json:"fichajes_completos"`
	FichajesIncompletos int     `json:"fichajes_incompletos"`
	PendingCorrections  int     `json:"pending_corrections"`
	TotalHours          float64 `json:"total_hours"`
	AverageHoursPerDay  float64 `json:"average_hours_per_day"`
}

// CheckInRequest is the body of POST /fichajes/check-in.
type CheckInRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// CheckOutRequest is the body of POST /fichajes/check-out.
type CheckOutRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// CorrectionRequest is the body of POST /fichajes/{id}/correct.
type CorrectionRequest struct {
	CheckIn          string  `json:"check_in"`
	CheckOut         *string `json:"check_out,omitempty"`
	CorrectionReason string  `json:"correction_reason"`
}

// ApprovalRequest is the body of POST /fichajes/{id}/approve. Approved
// false means the correction is rejected.
type ApprovalRequest struct {
	Approved      bool    `json:"approved"`
	ApprovalNotes *string `json:"approval_notes,omitempty"`
}
