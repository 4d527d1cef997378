package fichaje

import (
	"fmt"
	"time"
)

// The mapper is the single point of truth for the snake_case/RFC3339 wire
// shape versus the typed in-memory entity.

// FromAPI converts a wire fichaje to the in-memory entity.
func FromAPI(api FichajeAPI) (Fichaje, error) {
	checkIn, err := parseInstant(api.CheckIn)
	if err != nil {
		return Fichaje{}, fmt.Errorf("invalid check_in: %w", err)
	}
	createdAt, err := parseInstant(api.CreatedAt)
	if err != nil {
		return Fichaje{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := parseInstant(api.UpdatedAt)
	if err != nil {
		return Fichaje{}, fmt.Errorf("invalid updated_at: %w", err)
	}
	checkOut, err := parseInstantPtr(api.CheckOut)
	if err != nil {
		return Fichaje{}, fmt.Errorf("invalid check_out: %w", err)
	}
	correctionRequestedAt, err := parseInstantPtr(api.CorrectionRequestedAt)
	if err != nil {
		return Fichaje{}, fmt.Errorf("invalid correction_requested_at: %w", err)
	}
	approvedAt, err := parseInstantPtr(api.ApprovedAt)
	if err != nil {
		return Fichaje{}, fmt.Errorf("invalid approved_at: %w", err)
	}

	return Fichaje{
		ID:                    api.ID,
		UserID:                api.UserID,
		UserEmail:             api.UserEmail,
		UserFullName:          api.UserFullName,
		CheckIn:               checkIn,
		CheckOut:              checkOut,
		HoursWorked:           api.HoursWorked,
		Status:                api.Status,
		Notes:                 api.Notes,
		CorrectionReason:      api.CorrectionReason,
		CorrectionRequestedAt: correctionRequestedAt,
		ApprovedBy:            api.ApprovedBy,
		ApprovedAt:            approvedAt,
		ApprovalNotes:         api.ApprovalNotes,
		CreatedAt:             createdAt,
		UpdatedAt:             updatedAt,
	}, nil
}

// ToAPI converts an entity back to the wire shape.
func ToAPI(f Fichaje) FichajeAPI {
	return FichajeAPI{
		ID:                    f.ID,
		UserID:                f.UserID,
		UserEmail:             f.UserEmail,
		UserFullName:          f.UserFullName,
		CheckIn:               formatInstant(f.CheckIn),
		CheckOut:              formatInstantPtr(f.CheckOut),
		HoursWorked:           f.HoursWorked,
		Status:                f.Status,
		Notes:                 f.Notes,
		CorrectionReason:      f.CorrectionReason,
		CorrectionRequestedAt: formatInstantPtr(f.CorrectionRequestedAt),
		ApprovedBy:            f.ApprovedBy,
		ApprovedAt:            formatInstantPtr(f.ApprovedAt),
		ApprovalNotes:         f.ApprovalNotes,
		CreatedAt:             formatInstant(f.CreatedAt),
		UpdatedAt:             formatInstant(f.UpdatedAt),
	}
}

// ListFromAPI converts the paginated history envelope.
func ListFromAPI(api ListResponseAPI) ([]Fichaje, error) {
	fichajes := make([]Fichaje, 0, len(api.Fichajes))
	for i, item := range api.Fichajes {
		f, err := FromAPI(item)
		if err != nil {
			return nil, fmt.Errorf("fichaje %d: %w", i, err)
		}
		fichajes = append(fichajes, f)
	}
	return fichajes, nil
}

// StatsFromAPI converts the stats envelope.
func StatsFromAPI(api StatsAPI) Stats {
	return Stats{
		TotalFichajes:       api.TotalFichajes,
		FichajesCompletos:   api.FichajesCompletos,
		FichajesIncompletos: api.FichajesIncompletos,
		PendingCorrections:  api.PendingCorrections,
		TotalHours:          api.TotalHours,
		AverageHoursPerDay:  api.AverageHoursPerDay,
	}
}

// NewCorrectionRequest builds the correction body from proposed instants.
func NewCorrectionRequest(checkIn time.Time, checkOut *time.Time, reason string) CorrectionRequest {
	return CorrectionRequest{
		CheckIn:          formatInstant(checkIn),
		CheckOut:         formatInstantPtr(checkOut),
		CorrectionReason: reason,
	}
}

func parseInstant(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseInstantPtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseInstant(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatInstantPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatInstant(*t)
	return &s
}
