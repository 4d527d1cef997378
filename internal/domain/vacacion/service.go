package vacacion

import (
	"context"
	"time"
)

// CreateInput is the employee-facing submission. Dates are calendar days;
// the server computes the requested day count and checks the balance.
type CreateInput struct {
	Tipo        Tipo
	FechaInicio time.Time
	FechaFin    time.Time
	Motivo      string
}

// Query filters the "mine" and "pending" lists. A negative Skip derives
// the offset from the current page; a Limit of zero or less uses the
// service page size.
type Query struct {
	Tipo        string
	Status      string
	FechaDesde  string // YYYY-MM-DD
	FechaHasta  string // YYYY-MM-DD
	ActivasOnly *bool
	Skip        int
	Limit       int
}

// AllQuery filters the HR all-requests pool; it additionally narrows by
// user.
type AllQuery struct {
	UserID int64
	Query
}

// Service defines the leave-request workflow: the employee side plus the
// HR review pools.
type Service interface {
	// Create submits a new leave request.
	Create(ctx context.Context, input CreateInput) (Vacacion, error)

	// LoadMine fetches one page of the current user's requests.
	LoadMine(ctx context.Context, q Query) error

	// LoadBalance fetches the current user's day balance.
	LoadBalance(ctx context.Context) error

	// LoadBalanceFor fetches an arbitrary user's balance (HR).
	LoadBalanceFor(ctx context.Context, userID int64) (Balance, error)

	// LoadAll fetches one page of every user's requests (HR).
	LoadAll(ctx context.Context, q AllQuery) error

	// LoadPending fetches one page of the pending-only pool (HR).
	LoadPending(ctx context.Context, q Query) error

	// Review approves or rejects a pending request (HR). Comments are
	// required when rejecting.
	Review(ctx context.Context, solicitudID int64, approved bool, comentarios string) (Vacacion, error)

	// GoToPage navigates the "mine" list; out-of-range pages are a no-op.
	GoToPage(ctx context.Context, page int) error

	// GoToAllPage navigates the HR pool; out-of-range pages are a no-op.
	GoToAllPage(ctx context.Context, page int) error
}
