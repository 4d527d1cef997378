package fichaje

import (
	"context"
	"time"
)

// Query filters the history and stats endpoints. A negative Skip derives
// the offset from the current page; a Limit of zero or less uses the
// service page size.
type Query struct {
	Skip     int
	Limit    int
	DateFrom string // YYYY-MM-DD
	DateTo   string // YYYY-MM-DD
}

// Service defines the time-entry workflow for the current user.
type Service interface {
	// CheckIn opens a new work session.
	CheckIn(ctx context.Context, notes string) (Fichaje, error)

	// CheckOut closes the active session.
	CheckOut(ctx context.Context, notes string) (Fichaje, error)

	// LoadActive fetches the open entry; a confirmed absence clears the
	// read-model and is not an error.
	LoadActive(ctx context.Context) error

	// LoadFichajes fetches one page of the user's history.
	LoadFichajes(ctx context.Context, q Query) error

	// GoToPage navigates the history; out-of-range pages are a no-op.
	GoToPage(ctx context.Context, page int) error

	// LoadStats fetches aggregate figures for a date range.
	LoadStats(ctx context.Context, q Query) (Stats, error)

	// RequestCorrection starts a correction cycle on a closed entry.
	RequestCorrection(ctx context.Context, fichajeID int64, checkIn time.Time, checkOut *time.Time, reason string) (Fichaje, error)

	// ApproveCorrection resolves a pending correction as corrected (HR).
	ApproveCorrection(ctx context.Context, fichajeID int64, notes string) (Fichaje, error)

	// RejectCorrection resolves a pending correction as rejected (HR).
	RejectCorrection(ctx context.Context, fichajeID int64, notes string) (Fichaje, error)
}
