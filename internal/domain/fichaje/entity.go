package fichaje

import "time"

type Status string

const (
	StatusValid             Status = "valid"
	StatusPendingCorrection Status = "pending_correction"
	StatusCorrected         Status = "corrected"
	StatusRejected          Status = "rejected"
)

// Fichaje entity: one check-in/check-out work session for one user. The
// owning user is denormalized (id, email, name) for display; there is no
// live user object behind it.
type Fichaje struct {
	ID           int64
	UserID       int64
	UserEmail    string
	UserFullName string

	CheckIn  time.Time
	CheckOut *time.Time

	// HoursWorked is server-computed and only defined once checked out.
	HoursWorked *float64

	Status Status
	Notes  *string

	// Correction cycle
	CorrectionReason      *string
	CorrectionRequestedAt *time.Time

	// HR review
	ApprovedBy    *int64
	ApprovedAt    *time.Time
	ApprovalNotes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether this is the user's active entry.
func (f Fichaje) IsOpen() bool {
	return f.CheckOut == nil
}

// IsClosed reports whether the session has a check-out.
func (f Fichaje) IsClosed() bool {
	return f.CheckOut != nil
}

// CanRequestCorrection reports whether a correction cycle may start: only a
// closed, valid entry is eligible. An open entry or one already mid-cycle
// is not.
func (f Fichaje) CanRequestCorrection() bool {
	return f.IsClosed() && f.Status == StatusValid
}

// Stats is the aggregate view the backend computes over a date range.
type Stats struct {
	TotalFichajes       int
	FichajesCompletos   int
	FichajesIncompletos int
	PendingCorrections  int
	TotalHours          float64
	AverageHoursPerDay  float64
}
