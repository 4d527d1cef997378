package vacacion

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/horario-app/portal-go/internal/apiclient"
	"github.com/horario-app/portal-go/internal/domain/vacacion"
	"github.com/horario-app/portal-go/internal/pkg/validator"
	"github.com/sirupsen/logrus"
)

const (
	motivoMinLen      = 10
	motivoMaxLen      = 1000
	comentariosMaxLen = 500
)

// pool is one independently paginated read-model over leave requests.
// The service keeps three: the user's own list and the two HR pools.
type pool struct {
	items       []vacacion.Vacacion
	total       int
	currentPage int
	pageSize    int
	loaded      bool
}

func (p *pool) totalPages() int {
	if p.pageSize <= 0 {
		return 0
	}
	return (p.total + p.pageSize - 1) / p.pageSize
}

// applyList replaces the pool from the response envelope; the resolved
// skip/limit are the server's, so the page is re-derived from them.
func (p *pool) applyList(items []vacacion.Vacacion, resp vacacion.ListResponseAPI) {
	p.items = items
	p.total = resp.Total
	if resp.Limit > 0 {
		p.currentPage = resp.Skip/resp.Limit + 1
		p.pageSize = resp.Limit
	}
	p.loaded = true
}

// ServiceImpl owns the leave-request read-models for the current session.
// Mirrors the time-entry workflow: state changes only after confirmed
// responses, and reviewing reloads whichever pools are loaded.
type ServiceImpl struct {
	client *apiclient.Client
	logger *logrus.Logger

	mu      sync.Mutex
	mine    pool
	all     pool
	pending pool
	balance *vacacion.Balance
	loading bool
	lastErr string

	// Last filters per pool, so reloads keep the user's view.
	mineQuery    vacacion.Query
	allQuery     vacacion.AllQuery
	pendingQuery vacacion.Query
}

func NewService(client *apiclient.Client, pageSize int, logger *logrus.Logger) *ServiceImpl {
	if logger == nil {
		logger = logrus.New()
	}
	if pageSize < 1 {
		pageSize = 10
	}
	s := &ServiceImpl{client: client, logger: logger}
	s.mine.currentPage, s.mine.pageSize = 1, pageSize
	s.all.currentPage, s.all.pageSize = 1, pageSize
	s.pending.currentPage, s.pending.pageSize = 1, pageSize
	return s
}

var _ vacacion.Service = (*ServiceImpl)(nil)

// Create implements vacacion.Service.
func (s *ServiceImpl) Create(ctx context.Context, input vacacion.CreateInput) (vacacion.Vacacion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	if err := validateCreate(input); err != nil {
		return vacacion.Vacacion{}, s.fail(err)
	}

	var resp vacacion.VacacionAPI
	req := vacacion.NewCreateRequest(input.Tipo, input.FechaInicio, input.FechaFin, input.Motivo)
	if err := s.client.Post(ctx, "/vacaciones", req, &resp); err != nil {
		return vacacion.Vacacion{}, s.fail(err)
	}

	created, err := vacacion.FromAPI(resp)
	if err != nil {
		return vacacion.Vacacion{}, s.fail(fmt.Errorf("failed to map solicitud: %w", err))
	}

	s.logger.WithField("solicitud_id", created.ID).Info("solicitud created")

	// Both the list and the balance changed server-side.
	if err := s.loadMineLocked(ctx, s.mineQuery); err != nil {
		return created, s.fail(fmt.Errorf("failed to reload solicitudes: %w", err))
	}
	if err := s.loadBalanceLocked(ctx); err != nil {
		return created, s.fail(err)
	}
	return created, nil
}

// LoadMine implements vacacion.Service.
func (s *ServiceImpl) LoadMine(ctx context.Context, q vacacion.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	if err := s.loadMineLocked(ctx, q); err != nil {
		return s.fail(err)
	}
	return nil
}

// LoadBalance implements vacacion.Service. A failed balance fetch clears
// the read-model but is reported rather than fatal: the balance is an
// ambient figure, not a workflow gate.
func (s *ServiceImpl) LoadBalance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadBalanceLocked(ctx)
}

func (s *ServiceImpl) loadBalanceLocked(ctx context.Context) error {
	var resp vacacion.BalanceAPI
	if err := s.client.Get(ctx, "/vacaciones/me/balance", nil, &resp); err != nil {
		s.balance = nil
		s.logger.WithError(err).Warn("failed to load balance")
		return fmt.Errorf("failed to load balance: %w", err)
	}

	balance, err := vacacion.BalanceFromAPI(resp)
	if err != nil {
		s.balance = nil
		return fmt.Errorf("failed to map balance: %w", err)
	}
	s.balance = &balance
	return nil
}

// LoadBalanceFor implements vacacion.Service.
func (s *ServiceImpl) LoadBalanceFor(ctx context.Context, userID int64) (vacacion.Balance, error) {
	var resp vacacion.BalanceAPI
	path := fmt.Sprintf("/vacaciones/balance/%d", userID)
	if err := s.client.Get(ctx, path, nil, &resp); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return vacacion.Balance{}, s.fail(err)
	}
	balance, err := vacacion.BalanceFromAPI(resp)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return vacacion.Balance{}, s.fail(fmt.Errorf("failed to map balance: %w", err))
	}
	return balance, nil
}

// LoadAll implements vacacion.Service.
func (s *ServiceImpl) LoadAll(ctx context.Context, q vacacion.AllQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	if err := s.loadAllLocked(ctx, q); err != nil {
		return s.fail(err)
	}
	return nil
}

// LoadPending implements vacacion.Service.
func (s *ServiceImpl) LoadPending(ctx context.Context, q vacacion.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	if err := s.loadPendingLocked(ctx, q); err != nil {
		return s.fail(err)
	}
	return nil
}

// Review implements vacacion.Service.
func (s *ServiceImpl) Review(ctx context.Context, solicitudID int64, approved bool, comentarios string) (vacacion.Vacacion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	if err := validateReview(approved, comentarios); err != nil {
		return vacacion.Vacacion{}, s.fail(err)
	}

	var resp vacacion.VacacionAPI
	req := vacacion.ReviewRequest{Approved: approved, ComentariosRevision: optional(comentarios)}
	path := fmt.Sprintf("/vacaciones/%d/review", solicitudID)
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return vacacion.Vacacion{}, s.fail(err)
	}

	reviewed, err := vacacion.FromAPI(resp)
	if err != nil {
		return vacacion.Vacacion{}, s.fail(fmt.Errorf("failed to map solicitud: %w", err))
	}

	s.logger.WithFields(logrus.Fields{
		"solicitud_id": reviewed.ID,
		"approved":     approved,
	}).Info("solicitud reviewed")

	if err := s.reloadLoadedPools(ctx); err != nil {
		return reviewed, s.fail(err)
	}
	return reviewed, nil
}

// reloadLoadedPools refreshes every pool that has been loaded this
// session, keeping each one's filters and page.
func (s *ServiceImpl) reloadLoadedPools(ctx context.Context) error {
	if s.mine.loaded {
		if err := s.loadMineLocked(ctx, s.mineQuery); err != nil {
			return fmt.Errorf("failed to reload solicitudes: %w", err)
		}
	}
	if s.all.loaded {
		if err := s.loadAllLocked(ctx, s.allQuery); err != nil {
			return fmt.Errorf("failed to reload all solicitudes: %w", err)
		}
	}
	if s.pending.loaded {
		if err := s.loadPendingLocked(ctx, s.pendingQuery); err != nil {
			return fmt.Errorf("failed to reload pending solicitudes: %w", err)
		}
	}
	return nil
}

// GoToPage implements vacacion.Service.
func (s *ServiceImpl) GoToPage(ctx context.Context, page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 || page > s.mine.totalPages() {
		return nil
	}

	s.beginOp()
	defer s.endOp()

	q := s.mineQuery
	q.Skip = (page - 1) * s.mine.pageSize
	q.Limit = s.mine.pageSize
	if err := s.loadMineLocked(ctx, q); err != nil {
		return s.fail(err)
	}
	return nil
}

// GoToAllPage implements vacacion.Service.
func (s *ServiceImpl) GoToAllPage(ctx context.Context, page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 || page > s.all.totalPages() {
		return nil
	}

	s.beginOp()
	defer s.endOp()

	q := s.allQuery
	q.Skip = (page - 1) * s.all.pageSize
	q.Limit = s.all.pageSize
	if err := s.loadAllLocked(ctx, q); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *ServiceImpl) loadMineLocked(ctx context.Context, q vacacion.Query) error {
	query := s.buildQuery(q, &s.mine)

	var resp vacacion.ListResponseAPI
	if err := s.client.Get(ctx, "/vacaciones/me", query, &resp); err != nil {
		return err
	}

	items, err := vacacion.ListFromAPI(resp)
	if err != nil {
		return fmt.Errorf("failed to map solicitud list: %w", err)
	}
	s.mine.applyList(items, resp)
	s.mineQuery = q
	return nil
}

func (s *ServiceImpl) loadAllLocked(ctx context.Context, q vacacion.AllQuery) error {
	query := s.buildQuery(q.Query, &s.all)
	if q.UserID > 0 {
		query.Set("user_id", strconv.FormatInt(q.UserID, 10))
	}

	var resp vacacion.ListResponseAPI
	if err := s.client.Get(ctx, "/vacaciones", query, &resp); err != nil {
		return err
	}

	items, err := vacacion.ListFromAPI(resp)
	if err != nil {
		return fmt.Errorf("failed to map solicitud list: %w", err)
	}
	s.all.applyList(items, resp)
	s.allQuery = q
	return nil
}

func (s *ServiceImpl) loadPendingLocked(ctx context.Context, q vacacion.Query) error {
	query := s.buildQuery(q, &s.pending)

	var resp vacacion.ListResponseAPI
	if err := s.client.Get(ctx, "/vacaciones/pending", query, &resp); err != nil {
		return err
	}

	items, err := vacacion.ListFromAPI(resp)
	if err != nil {
		return fmt.Errorf("failed to map solicitud list: %w", err)
	}
	s.pending.applyList(items, resp)
	s.pendingQuery = q
	return nil
}

func (s *ServiceImpl) buildQuery(q vacacion.Query, p *pool) url.Values {
	skip := q.Skip
	if skip < 0 {
		skip = (p.currentPage - 1) * p.pageSize
	}
	limit := q.Limit
	if limit <= 0 {
		limit = p.pageSize
	}

	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))
	if q.Tipo != "" {
		query.Set("tipo", q.Tipo)
	}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.FechaDesde != "" {
		query.Set("fecha_desde", q.FechaDesde)
	}
	if q.FechaHasta != "" {
		query.Set("fecha_hasta", q.FechaHasta)
	}
	if q.ActivasOnly != nil {
		query.Set("activas_only", strconv.FormatBool(*q.ActivasOnly))
	}
	return query
}

func validateCreate(input vacacion.CreateInput) error {
	var errs validator.ValidationErrors

	tipos := []string{
		string(vacacion.TipoVacation),
		string(vacacion.TipoSickLeave),
		string(vacacion.TipoPersonal),
		string(vacacion.TipoOther),
	}
	if !validator.IsInSlice(string(input.Tipo), tipos) {
		errs = append(errs, validator.ValidationError{
			Field:   "tipo",
			Message: "tipo must be one of vacation, sick_leave, personal, other",
		})
	}

	if input.FechaInicio.IsZero() || input.FechaFin.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "fecha_inicio",
			Message: "fecha_inicio and fecha_fin are required",
		})
	} else if input.FechaFin.Before(input.FechaInicio) {
		errs = append(errs, validator.ValidationError{
			Field:   "fecha_fin",
			Message: "fecha_fin cannot be before fecha_inicio",
		})
	}

	if !validator.LengthBetween(input.Motivo, motivoMinLen, motivoMaxLen) {
		errs = append(errs, validator.ValidationError{
			Field:   "motivo",
			Message: "motivo must be between 10 and 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateReview(approved bool, comentarios string) error {
	var errs validator.ValidationErrors

	// Comments are required when rejecting, optional when approving.
	if !approved && validator.IsEmpty(comentarios) {
		errs = append(errs, validator.ValidationError{
			Field:   "comentarios_revision",
			Message: "comments are required when rejecting",
		})
	}
	if !validator.LengthBetween(comentarios, 0, comentariosMaxLen) {
		errs = append(errs, validator.ValidationError{
			Field:   "comentarios_revision",
			Message: "comments must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *ServiceImpl) beginOp() {
	s.loading = true
	s.lastErr = ""
}

func (s *ServiceImpl) endOp() {
	s.loading = false
}

func (s *ServiceImpl) fail(err error) error {
	s.lastErr = err.Error()
	s.logger.WithError(err).Debug("vacacion operation failed")
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ========================================
// Read accessors
// ========================================

// Vacaciones returns the user's loaded requests.
func (s *ServiceImpl) Vacaciones() []vacacion.Vacacion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.mine.items)
}

// AllSolicitudes returns the loaded HR all-requests pool.
func (s *ServiceImpl) AllSolicitudes() []vacacion.Vacacion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.all.items)
}

// PendingSolicitudes returns the loaded HR pending-only pool.
func (s *ServiceImpl) PendingSolicitudes() []vacacion.Vacacion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.pending.items)
}

// Balance returns the loaded balance, or nil.
func (s *ServiceImpl) Balance() *vacacion.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance == nil {
		return nil
	}
	b := *s.balance
	return &b
}

func (s *ServiceImpl) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mine.total
}

func (s *ServiceImpl) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mine.currentPage
}

func (s *ServiceImpl) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mine.pageSize
}

// TotalPages derives the page count of the "mine" list; a zero page size
// yields zero pages.
func (s *ServiceImpl) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mine.totalPages()
}

func (s *ServiceImpl) AllTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all.total
}

func (s *ServiceImpl) AllCurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all.currentPage
}

func (s *ServiceImpl) AllTotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all.totalPages()
}

func (s *ServiceImpl) PendingTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.total
}

// Loading reports whether an operation is in flight.
func (s *ServiceImpl) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the transient error message from the last failed operation.
func (s *ServiceImpl) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError clears the transient error message.
func (s *ServiceImpl) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func copyItems(items []vacacion.Vacacion) []vacacion.Vacacion {
	out := make([]vacacion.Vacacion, len(items))
	copy(out, items)
	return out
}
