package fichaje

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/horario-app/portal-go/internal/apiclient"
	"github.com/horario-app/portal-go/internal/domain/fichaje"
	"github.com/horario-app/portal-go/internal/pkg/timeutil"
	"github.com/horario-app/portal-go/internal/pkg/validator"
	"github.com/sirupsen/logrus"
)

// Correction policy: fixed business rules, not configuration.
const (
	correctionWindow    = 30 * 24 * time.Hour
	correctionTolerance = 60 * time.Second

	reasonMinLen = 10
	reasonMaxLen = 1000
)

// ServiceImpl owns the time-entry read-model for the current user: the
// active entry, one page of history and its aggregates. State changes only
// after a confirmed server response; every mutating operation reloads the
// history page so the read-model tracks the source of truth.
type ServiceImpl struct {
	client *apiclient.Client
	logger *logrus.Logger

	// now is swappable for tests.
	now func() time.Time

	mu          sync.Mutex
	fichajes    []fichaje.Fichaje
	activo      *fichaje.Fichaje
	total       int
	totalHours  float64
	currentPage int
	pageSize    int
	loading     bool
	lastErr     string
}

func NewService(client *apiclient.Client, pageSize int, logger *logrus.Logger) *ServiceImpl {
	if logger == nil {
		logger = logrus.New()
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return &ServiceImpl{
		client:      client,
		logger:      logger,
		now:         time.Now,
		currentPage: 1,
		pageSize:    pageSize,
	}
}

var _ fichaje.Service = (*ServiceImpl)(nil)

// CheckIn implements fichaje.Service.
func (s *ServiceImpl) CheckIn(ctx context.Context, notes string) (fichaje.Fichaje, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	// Guard against a doomed request; the server enforces this too.
	if s.activo != nil {
		return fichaje.Fichaje{}, s.fail(fichaje.ErrAlreadyCheckedIn)
	}

	var resp fichaje.FichajeAPI
	req := fichaje.CheckInRequest{Notes: optional(notes)}
	if err := s.client.Post(ctx, "/fichajes/check-in", req, &resp); err != nil {
		return fichaje.Fichaje{}, s.fail(err)
	}

	entry, err := fichaje.FromAPI(resp)
	if err != nil {
		return fichaje.Fichaje{}, s.fail(fmt.Errorf("failed to map check-in response: %w", err))
	}

	s.activo = &entry
	s.logger.WithField("fichaje_id", entry.ID).Info("checked in")

	if err := s.reload(ctx); err != nil {
		return entry, s.fail(err)
	}
	return entry, nil
}

// CheckOut implements fichaje.Service.
func (s *ServiceImpl) CheckOut(ctx context.Context, notes string) (fichaje.Fichaje, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	if s.activo == nil {
		return fichaje.Fichaje{}, s.fail(fichaje.ErrNotCheckedIn)
	}

	var resp fichaje.FichajeAPI
	req := fichaje.CheckOutRequest{Notes: optional(notes)}
	if err := s.client.Post(ctx, "/fichajes/check-out", req, &resp); err != nil {
		return fichaje.Fichaje{}, s.fail(err)
	}

	entry, err := fichaje.FromAPI(resp)
	if err != nil {
		return fichaje.Fichaje{}, s.fail(fmt.Errorf("failed to map check-out response: %w", err))
	}

	s.activo = nil
	s.logger.WithField("fichaje_id", entry.ID).Info("checked out")

	if err := s.reload(ctx); err != nil {
		return entry, s.fail(err)
	}
	return entry, nil
}

// LoadActive implements fichaje.Service. A 404 is the confirmed-absence
// case: the read-model is cleared and no error is returned. Any other
// failure is reported and leaves the read-model untouched, so "unknown due
// to error" is never mistaken for "no active entry".
func (s *ServiceImpl) LoadActive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resp fichaje.FichajeAPI
	if err := s.client.Get(ctx, "/fichajes/me/active", nil, &resp); err != nil {
		if apiclient.IsNotFound(err) {
			s.activo = nil
			return nil
		}
		return s.fail(err)
	}

	entry, err := fichaje.FromAPI(resp)
	if err != nil {
		return s.fail(fmt.Errorf("failed to map active fichaje: %w", err))
	}
	s.activo = &entry
	return nil
}

// LoadFichajes implements fichaje.Service.
func (s *ServiceImpl) LoadFichajes(ctx context.Context, q fichaje.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	if err := s.loadFichajesLocked(ctx, q); err != nil {
		return s.fail(err)
	}
	return nil
}

// GoToPage implements fichaje.Service. Pages outside [1, TotalPages] issue
// no request and leave the read-model unchanged.
func (s *ServiceImpl) GoToPage(ctx context.Context, page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 || page > s.totalPagesLocked() {
		return nil
	}

	s.beginOp()
	defer s.endOp()

	q := fichaje.Query{Skip: (page - 1) * s.pageSize, Limit: s.pageSize}
	if err := s.loadFichajesLocked(ctx, q); err != nil {
		return s.fail(err)
	}
	return nil
}

// LoadStats implements fichaje.Service.
func (s *ServiceImpl) LoadStats(ctx context.Context, q fichaje.Query) (fichaje.Stats, error) {
	query := url.Values{}
	if q.DateFrom != "" {
		query.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		query.Set("date_to", q.DateTo)
	}

	var resp fichaje.StatsAPI
	if err := s.client.Get(ctx, "/fichajes/me/stats", query, &resp); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fichaje.Stats{}, s.fail(err)
	}
	return fichaje.StatsFromAPI(resp), nil
}

// RequestCorrection implements fichaje.Service. All six rules run locally,
// in order, short-circuiting at the first failure; no request is issued
// unless every rule passes.
func (s *ServiceImpl) RequestCorrection(ctx context.Context, fichajeID int64, checkIn time.Time, checkOut *time.Time, reason string) (fichaje.Fichaje, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	original, ok := s.findLocked(fichajeID)
	if !ok {
		return fichaje.Fichaje{}, s.fail(fichaje.ErrFichajeNotFound)
	}
	if !original.CanRequestCorrection() {
		return fichaje.Fichaje{}, s.fail(fichaje.ErrNotCorrectable)
	}

	if err := s.validateCorrection(original, checkIn, checkOut, reason); err != nil {
		return fichaje.Fichaje{}, s.fail(err)
	}

	var resp fichaje.FichajeAPI
	req := fichaje.NewCorrectionRequest(checkIn, checkOut, reason)
	path := fmt.Sprintf("/fichajes/%d/correct", fichajeID)
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return fichaje.Fichaje{}, s.fail(err)
	}

	entry, err := fichaje.FromAPI(resp)
	if err != nil {
		return fichaje.Fichaje{}, s.fail(fmt.Errorf("failed to map correction response: %w", err))
	}

	s.logger.WithField("fichaje_id", entry.ID).Info("correction requested")

	if err := s.reload(ctx); err != nil {
		return entry, s.fail(err)
	}
	return entry, nil
}

// ApproveCorrection implements fichaje.Service.
func (s *ServiceImpl) ApproveCorrection(ctx context.Context, fichajeID int64, notes string) (fichaje.Fichaje, error) {
	return s.review(ctx, fichajeID, true, notes)
}

// RejectCorrection implements fichaje.Service.
func (s *ServiceImpl) RejectCorrection(ctx context.Context, fichajeID int64, notes string) (fichaje.Fichaje, error) {
	return s.review(ctx, fichajeID, false, notes)
}

func (s *ServiceImpl) review(ctx context.Context, fichajeID int64, approved bool, notes string) (fichaje.Fichaje, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginOp()
	defer s.endOp()

	var resp fichaje.FichajeAPI
	req := fichaje.ApprovalRequest{Approved: approved, ApprovalNotes: optional(notes)}
	path := fmt.Sprintf("/fichajes/%d/approve", fichajeID)
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return fichaje.Fichaje{}, s.fail(err)
	}

	entry, err := fichaje.FromAPI(resp)
	if err != nil {
		return fichaje.Fichaje{}, s.fail(fmt.Errorf("failed to map review response: %w", err))
	}

	s.logger.WithFields(logrus.Fields{
		"fichaje_id": entry.ID,
		"approved":   approved,
	}).Info("correction reviewed")

	if err := s.reload(ctx); err != nil {
		return entry, s.fail(err)
	}
	return entry, nil
}

// validateCorrection applies the correction rules against the proposed
// instants, in the order the portal defines them.
func (s *ServiceImpl) validateCorrection(original fichaje.Fichaje, checkIn time.Time, checkOut *time.Time, reason string) error {
	now := s.now()

	if timeutil.DayAfter(checkIn, now) {
		return corrErr("check_in", "check-in date cannot be in the future")
	}
	if checkIn.Before(now.Add(-correctionWindow)) {
		return corrErr("check_in", "only fichajes from the last 30 days can be corrected")
	}
	if checkOut != nil && !checkOut.After(checkIn) {
		return corrErr("check_out", "check-out must be after check-in")
	}
	if checkOut != nil && timeutil.DayAfter(*checkOut, now) {
		return corrErr("check_out", "check-out date cannot be in the future")
	}
	if !correctionChanges(original, checkIn, checkOut) {
		return corrErr("check_in", "at least one of check-in or check-out must change")
	}
	if !validator.LengthBetween(reason, reasonMinLen, reasonMaxLen) {
		return corrErr("correction_reason", "correction reason must be between 10 and 1000 characters")
	}
	return nil
}

// correctionChanges reports whether the proposed values actually amend the
// original entry, beyond the 60-second tolerance.
func correctionChanges(original fichaje.Fichaje, checkIn time.Time, checkOut *time.Time) bool {
	if !timeutil.SameInstantWithin(checkIn, original.CheckIn, correctionTolerance) {
		return true
	}
	if original.CheckOut != nil {
		if checkOut == nil {
			return true
		}
		return !timeutil.SameInstantWithin(*checkOut, *original.CheckOut, correctionTolerance)
	}
	return checkOut != nil
}

func corrErr(field, message string) error {
	return validator.ValidationErrors{{Field: field, Message: message}}
}

// loadFichajesLocked fetches a history page and replaces the read-model
// from the response envelope, which is the source of truth for the
// resolved page and page size. Callers hold s.mu.
func (s *ServiceImpl) loadFichajesLocked(ctx context.Context, q fichaje.Query) error {
	skip := q.Skip
	if skip < 0 {
		skip = (s.currentPage - 1) * s.pageSize
	}
	limit := q.Limit
	if limit <= 0 {
		limit = s.pageSize
	}

	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))
	if q.DateFrom != "" {
		query.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		query.Set("date_to", q.DateTo)
	}

	var resp fichaje.ListResponseAPI
	if err := s.client.Get(ctx, "/fichajes/me", query, &resp); err != nil {
		return err
	}

	fichajes, err := fichaje.ListFromAPI(resp)
	if err != nil {
		return fmt.Errorf("failed to map fichaje list: %w", err)
	}

	s.fichajes = fichajes
	s.total = resp.Total
	s.totalHours = resp.TotalHours
	s.currentPage = resp.Page
	s.pageSize = resp.PageSize
	return nil
}

// reload refreshes the current history page after a confirmed mutation.
func (s *ServiceImpl) reload(ctx context.Context) error {
	if err := s.loadFichajesLocked(ctx, fichaje.Query{Skip: -1}); err != nil {
		return fmt.Errorf("failed to reload fichajes: %w", err)
	}
	return nil
}

func (s *ServiceImpl) findLocked(fichajeID int64) (fichaje.Fichaje, bool) {
	for _, f := range s.fichajes {
		if f.ID == fichajeID {
			return f, true
		}
	}
	if s.activo != nil && s.activo.ID == fichajeID {
		return *s.activo, true
	}
	return fichaje.Fichaje{}, false
}

func (s *ServiceImpl) beginOp() {
	s.loading = true
	s.lastErr = ""
}

func (s *ServiceImpl) endOp() {
	s.loading = false
}

// fail records the transient error message and passes the cause through.
func (s *ServiceImpl) fail(err error) error {
	s.lastErr = err.Error()
	s.logger.WithError(err).Debug("fichaje operation failed")
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

// Fichajes returns the loaded history page, newest first.
func (s *ServiceImpl) Fichajes() []fichaje.Fichaje {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fichaje.Fichaje, len(s.fichajes))
	copy(out, s.fichajes)
	return out
}

// Active returns the open entry, or nil.
func (s *ServiceImpl) Active() *fichaje.Fichaje {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activo == nil {
		return nil
	}
	f := *s.activo
	return &f
}

// HasActive reports whether an open entry is loaded.
func (s *ServiceImpl) HasActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activo != nil
}

// Latest returns the most recent history entry, or nil when the page is
// empty. The server sorts newest first.
func (s *ServiceImpl) Latest() *fichaje.Fichaje {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.fichajes) == 0 {
		return nil
	}
	f := s.fichajes[0]
	return &f
}

// Elapsed returns the wall-clock time worked on the open entry so far.
func (s *ServiceImpl) Elapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activo == nil {
		return 0
	}
	return timeutil.ElapsedSince(s.activo.CheckIn, now)
}

func (s *ServiceImpl) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *ServiceImpl) TotalHours() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalHours
}

func (s *ServiceImpl) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

func (s *ServiceImpl) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

// TotalPages derives the page count; a zero page size yields zero pages.
func (s *ServiceImpl) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPagesLocked()
}

func (s *ServiceImpl) totalPagesLocked() int {
	if s.pageSize <= 0 {
		return 0
	}
	return (s.total + s.pageSize - 1) / s.pageSize
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
