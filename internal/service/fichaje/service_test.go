package fichaje

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/horario-app/portal-go/internal/apiclient"
	"github.com/horario-app/portal-go/internal/domain/fichaje"
	"github.com/horario-app/portal-go/internal/pkg/validator"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory portal API: the same routes, the same wire
// shapes, the same bearer-token guard as the real one.
type fakeBackend struct {
	mu sync.Mutex

	now        time.Time
	nextID     int64
	active     *fichaje.FichajeAPI
	entries    []fichaje.FichajeAPI // newest first
	totalHours float64

	// totalOverride fakes a history larger than the stored entries.
	totalOverride int
	failActive    bool

	requests map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		now:      time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
		nextID:   100,
		requests: make(map[string]int),
	}
}

func (b *fakeBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[key]
}

func (b *fakeBackend) totalRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.requests {
		total += n
	}
	return total
}

func (b *fakeBackend) seedClosed(id int64, checkIn, checkOut time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := checkOut.UTC().Format(time.RFC3339)
	hours := checkOut.Sub(checkIn).Hours()
	b.entries = append([]fichaje.FichajeAPI{{
		ID:           id,
		UserID:       3,
		UserEmail:    "ana@example.com",
		UserFullName: "Ana García",
		CheckIn:      checkIn.UTC().Format(time.RFC3339),
		CheckOut:     &out,
		HoursWorked:  &hours,
		Status:       fichaje.StatusValid,
		CreatedAt:    checkIn.UTC().Format(time.RFC3339),
		UpdatedAt:    checkOut.UTC().Format(time.RFC3339),
	}}, b.entries...)
}

func (b *fakeBackend) seedActive(checkIn time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry := fichaje.FichajeAPI{
		ID:           b.nextID,
		UserID:       3,
		UserEmail:    "ana@example.com",
		UserFullName: "Ana García",
		CheckIn:      checkIn.UTC().Format(time.RFC3339),
		Status:       fichaje.StatusValid,
		CreatedAt:    checkIn.UTC().Format(time.RFC3339),
		UpdatedAt:    checkIn.UTC().Format(time.RFC3339),
	}
	b.nextID++
	b.active = &entry
	b.entries = append([]fichaje.FichajeAPI{entry}, b.entries...)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (b *fakeBackend) router() http.Handler {
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(tokenAuth))
	r.Use(jwtauth.Authenticator(tokenAuth))

	r.Post("/fichajes/check-in", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests["POST /fichajes/check-in"]++

		if b.active != nil {
			writeDetail(w, http.StatusConflict, "ya tienes un fichaje activo")
			return
		}
		var body fichaje.CheckInRequest
		json.NewDecoder(req.Body).Decode(&body)

		entry := fichaje.FichajeAPI{
			ID:           b.nextID,
			UserID:       3,
			UserEmail:    "ana@example.com",
			UserFullName: "Ana García",
			CheckIn:      b.now.Format(time.RFC3339),
			Status:       fichaje.StatusValid,
			Notes:        body.Notes,
			CreatedAt:    b.now.Format(time.RFC3339),
			UpdatedAt:    b.now.Format(time.RFC3339),
		}
		b.nextID++
		b.active = &entry
		b.entries = append([]fichaje.FichajeAPI{entry}, b.entries...)
		writeJSON(w, http.StatusCreated, entry)
	})

	r.Post("/fichajes/check-out", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests["POST /fichajes/check-out"]++

		if b.active == nil {
			writeDetail(w, http.StatusConflict, "no tienes un fichaje activo")
			return
		}
		entry := *b.active
		checkIn, _ := time.Parse(time.RFC3339, entry.CheckIn)
		out := b.now.Format(time.RFC3339)
		hours := b.now.Sub(checkIn).Hours()
		entry.CheckOut = &out
		entry.HoursWorked = &hours
		entry.UpdatedAt = out

		for i := range b.entries {
			if b.entries[i].ID == entry.ID {
				b.entries[i] = entry
			}
		}
		b.active = nil
		writeJSON(w, http.StatusOK, entry)
	})

	r.Get("/fichajes/me/active", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests["GET /fichajes/me/active"]++

		if b.failActive {
			writeDetail(w, http.StatusInternalServerError, "database unavailable")
			return
		}
		if b.active == nil {
			writeDetail(w, http.StatusNotFound, "no hay fichaje activo")
			return
		}
		writeJSON(w, http.StatusOK, b.active)
	})

	r.Get("/fichajes/me", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests["GET /fichajes/me"]++

		skip, _ := strconv.Atoi(req.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

		total := len(b.entries)
		if b.totalOverride > 0 {
			total = b.totalOverride
		}

		window := b.entries
		if skip < len(window) {
			window = window[skip:]
		} else {
			window = nil
		}
		if limit > 0 && limit < len(window) {
			window = window[:limit]
		}

		page := 1
		if limit > 0 {
			page = skip/limit + 1
		}
		writeJSON(w, http.StatusOK, fichaje.ListResponseAPI{
			Fichajes:   window,
			Total:      total,
			Page:       page,
			PageSize:   limit,
			TotalHours: b.totalHours,
		})
	})

	r.Get("/fichajes/me/stats", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests["GET /fichajes/me/stats"]++

		writeJSON(w, http.StatusOK, fichaje.StatsAPI{
			TotalFichajes:       20,
			FichajesCompletos:   18,
			FichajesIncompletos: 2,
			PendingCorrections:  1,
			TotalHours:          151.5,
			AverageHoursPerDay:  8.4,
		})
	})

	r.Post("/fichajes/{id}/correct", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests["POST /fichajes/{id}/correct"]++

		id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		var body fichaje.CorrectionRequest
		json.NewDecoder(req.Body).Decode(&body)

		for i := range b.entries {
			if b.entries[i].ID == id {
				now := b.now.Format(time.RFC3339)
				b.entries[i].Status = fichaje.StatusPendingCorrection
				b.entries[i].CorrectionReason = &body.CorrectionReason
				b.entries[i].CorrectionRequestedAt = &now
				b.entries[i].UpdatedAt = now
				writeJSON(w, http.StatusOK, b.entries[i])
				return
			}
		}
		writeDetail(w, http.StatusNotFound, "fichaje no encontrado")
	})

	r.Post("/fichajes/{id}/approve", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests["POST /fichajes/{id}/approve"]++

		id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		var body fichaje.ApprovalRequest
		json.NewDecoder(req.Body).Decode(&body)

		for i := range b.entries {
			if b.entries[i].ID == id {
				if b.entries[i].Status != fichaje.StatusPendingCorrection {
					writeDetail(w, http.StatusConflict, "el fichaje no tiene una corrección pendiente")
					return
				}
				now := b.now.Format(time.RFC3339)
				reviewer := int64(1)
				if body.Approved {
					b.entries[i].Status = fichaje.StatusCorrected
				} else {
					b.entries[i].Status = fichaje.StatusRejected
				}
				b.entries[i].ApprovedBy = &reviewer
				b.entries[i].ApprovedAt = &now
				b.entries[i].ApprovalNotes = body.ApprovalNotes
				b.entries[i].UpdatedAt = now
				writeJSON(w, http.StatusOK, b.entries[i])
				return
			}
		}
		writeDetail(w, http.StatusNotFound, "fichaje no encontrado")
	})

	return r
}

func newTestService(t *testing.T, backend *fakeBackend) *ServiceImpl {
	t.Helper()

	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	_, token, err := tokenAuth.Encode(map[string]any{"sub": "3", "role": "employee"})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := apiclient.New(server.URL, func() string { return token }, 5*time.Second, logger)
	svc := NewService(client, 10, logger)
	svc.now = func() time.Time { return backend.now }
	return svc
}

func TestCheckInOpensActiveEntry(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	assert.False(t, svc.HasActive())

	entry, err := svc.CheckIn(ctx, "turno de mañana")
	require.NoError(t, err)

	assert.Nil(t, entry.CheckOut, "fresh entry is open")
	assert.Equal(t, fichaje.StatusValid, entry.Status)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "turno de mañana", *entry.Notes)
	assert.True(t, svc.HasActive())

	// The history reload is part of the operation.
	assert.Equal(t, 1, backend.count("GET /fichajes/me"))
	require.NotNil(t, svc.Latest())
	assert.Equal(t, entry.ID, svc.Latest().ID)
}

func TestCheckInGuardsAgainstDoubleEntry(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "")
	require.NoError(t, err)

	// The loaded active entry blocks the second attempt locally.
	_, err = svc.CheckIn(ctx, "")
	assert.ErrorIs(t, err, fichaje.ErrAlreadyCheckedIn)
	assert.Equal(t, 1, backend.count("POST /fichajes/check-in"))

	// At most one open entry regardless of how often we ask.
	open := 0
	for _, f := range svc.Fichajes() {
		if f.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestCheckInConflictFromAnotherClient(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)

	// Another client already opened an entry; this service doesn't know.
	backend.seedActive(backend.now.Add(-2 * time.Hour))

	_, err := svc.CheckIn(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apiclient.IsConflict(err), "server conflict surfaces as a conflict error")
	assert.NotEmpty(t, svc.Err())
	assert.False(t, svc.HasActive(), "read-model unchanged on failure")
}

func TestCheckOutComputesHours(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	backend.seedActive(day.Add(8 * time.Hour)) // 08:00
	backend.now = day.Add(17 * time.Hour)      // 17:00

	require.NoError(t, svc.LoadActive(ctx))
	require.True(t, svc.HasActive())

	entry, err := svc.CheckOut(ctx, "")
	require.NoError(t, err)

	require.NotNil(t, entry.HoursWorked)
	assert.InDelta(t, 9.0, *entry.HoursWorked, 1e-9)
	assert.False(t, svc.HasActive(), "active read-model cleared")
	assert.Equal(t, 1, backend.count("GET /fichajes/me"))
}

func TestCheckOutWithoutActiveEntry(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)

	_, err := svc.CheckOut(context.Background(), "")
	assert.ErrorIs(t, err, fichaje.ErrNotCheckedIn)
	assert.Zero(t, backend.count("POST /fichajes/check-out"), "guard avoids the doomed request")
}

func TestLoadActiveAbsenceIsNotAnError(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)

	err := svc.LoadActive(context.Background())
	require.NoError(t, err, "404 means confirmed absence")
	assert.False(t, svc.HasActive())
	assert.Empty(t, svc.Err())
}

func TestLoadActiveServerErrorIsReported(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	backend.seedActive(backend.now.Add(-time.Hour))
	require.NoError(t, svc.LoadActive(ctx))
	require.True(t, svc.HasActive())

	// A 500 is not "confirmed absence": the error propagates and the
	// previously loaded entry stays.
	backend.failActive = true
	err := svc.LoadActive(ctx)
	require.Error(t, err)
	assert.True(t, svc.HasActive())
}

func TestElapsedTracksOpenEntry(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)

	assert.Zero(t, svc.Elapsed(backend.now))

	checkIn := backend.now.Add(-95 * time.Minute)
	backend.seedActive(checkIn)
	require.NoError(t, svc.LoadActive(context.Background()))

	assert.Equal(t, 95*time.Minute, svc.Elapsed(backend.now))
}

func TestLoadFichajesAppliesEnvelope(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)

	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 3; i++ {
		backend.seedClosed(i, day.Add(8*time.Hour), day.Add(16*time.Hour))
	}
	backend.totalOverride = 25
	backend.totalHours = 187.5

	require.NoError(t, svc.LoadFichajes(context.Background(), fichaje.Query{Skip: -1}))

	assert.Len(t, svc.Fichajes(), 3)
	assert.Equal(t, 25, svc.Total())
	assert.Equal(t, 187.5, svc.TotalHours())
	assert.Equal(t, 1, svc.CurrentPage())
	assert.Equal(t, 10, svc.PageSize())
	assert.Equal(t, 3, svc.TotalPages(), "ceil(25/10)")
}

func TestGoToPageOutOfRangeIsNoOp(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	backend.seedClosed(1, day.Add(8*time.Hour), day.Add(16*time.Hour))
	backend.totalOverride = 25

	require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))
	loadsBefore := backend.count("GET /fichajes/me")
	pageBefore := svc.CurrentPage()
	listBefore := svc.Fichajes()

	require.NoError(t, svc.GoToPage(ctx, 0))
	require.NoError(t, svc.GoToPage(ctx, -1))
	require.NoError(t, svc.GoToPage(ctx, 4)) // totalPages is 3

	assert.Equal(t, loadsBefore, backend.count("GET /fichajes/me"), "no requests issued")
	assert.Equal(t, pageBefore, svc.CurrentPage())
	assert.Equal(t, listBefore, svc.Fichajes())
}

func TestGoToPageNavigates(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 25; i++ {
		backend.seedClosed(i, day.Add(8*time.Hour), day.Add(16*time.Hour))
		day = day.Add(-24 * time.Hour)
	}

	require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))
	require.NoError(t, svc.GoToPage(ctx, 3))

	assert.Equal(t, 3, svc.CurrentPage())
	assert.Len(t, svc.Fichajes(), 5, "last page holds the remainder")
}

func TestTotalPagesWithZeroPageSize(t *testing.T) {
	svc := &ServiceImpl{total: 25, pageSize: 0}
	assert.Zero(t, svc.TotalPages())
}

func TestRequestCorrectionValidation(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	checkIn := time.Date(2026, 2, 13, 8, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 2, 13, 17, 0, 0, 0, time.UTC)

	outPtr := func(t time.Time) *time.Time { return &t }

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut *time.Time
		reason   string
		wantMsg  string
	}{
		{
			name:     "check-in tomorrow",
			checkIn:  now.Add(24 * time.Hour),
			checkOut: nil,
			reason:   "me olvidé de fichar",
			wantMsg:  "check-in date cannot be in the future",
		},
		{
			name:     "check-in 32 days ago",
			checkIn:  now.Add(-32 * 24 * time.Hour),
			checkOut: nil,
			reason:   "me olvidé de fichar",
			wantMsg:  "only fichajes from the last 30 days can be corrected",
		},
		{
			name:     "check-out before check-in",
			checkIn:  checkIn.Add(9 * time.Hour), // 17:00
			checkOut: outPtr(checkIn),            // 08:00
			reason:   "me olvidé de fichar",
			wantMsg:  "check-out must be after check-in",
		},
		{
			name:     "check-out tomorrow",
			checkIn:  checkIn,
			checkOut: outPtr(now.Add(24 * time.Hour)),
			reason:   "me olvidé de fichar",
			wantMsg:  "check-out date cannot be in the future",
		},
		{
			name:     "values identical to original",
			checkIn:  checkIn,
			checkOut: outPtr(checkOut),
			reason:   "me olvidé de fichar",
			wantMsg:  "at least one of check-in or check-out must change",
		},
		{
			name:     "within the sixty second tolerance",
			checkIn:  checkIn.Add(30 * time.Second),
			checkOut: outPtr(checkOut.Add(-45 * time.Second)),
			reason:   "me olvidé de fichar",
			wantMsg:  "at least one of check-in or check-out must change",
		},
		{
			name:     "reason too short",
			checkIn:  checkIn.Add(30 * time.Minute),
			checkOut: outPtr(checkOut),
			reason:   "corto",
			wantMsg:  "correction reason must be between 10 and 1000 characters",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.now = now
			backend.seedClosed(50, checkIn, checkOut)
			svc := newTestService(t, backend)
			ctx := context.Background()

			require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))
			before := backend.totalRequests()

			_, err := svc.RequestCorrection(ctx, 50, c.checkIn, c.checkOut, c.reason)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, c.wantMsg, verrs[0].Message)
			assert.Equal(t, before, backend.totalRequests(), "validation failures never reach the network")
			assert.Contains(t, svc.Err(), c.wantMsg)
		})
	}
}

func TestRequestCorrectionEligibility(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	backend := newFakeBackend()
	backend.now = now
	svc := newTestService(t, backend)
	ctx := context.Background()

	backend.seedActive(now.Add(-time.Hour)) // open entry, id 100
	require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))
	before := backend.totalRequests()

	proposed := now.Add(-2 * time.Hour)

	_, err := svc.RequestCorrection(ctx, 100, proposed, nil, "me olvidé de fichar")
	assert.ErrorIs(t, err, fichaje.ErrNotCorrectable, "open entries cannot start a correction")

	_, err = svc.RequestCorrection(ctx, 999, proposed, nil, "me olvidé de fichar")
	assert.ErrorIs(t, err, fichaje.ErrFichajeNotFound)

	assert.Equal(t, before, backend.totalRequests())
}

func TestRequestCorrectionTransitionsEntry(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	backend := newFakeBackend()
	backend.now = now
	svc := newTestService(t, backend)
	ctx := context.Background()

	checkIn := time.Date(2026, 2, 13, 9, 15, 0, 0, time.UTC) // forgot the real 08:00
	checkOut := time.Date(2026, 2, 13, 17, 0, 0, 0, time.UTC)
	backend.seedClosed(50, checkIn, checkOut)

	require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))

	proposedIn := time.Date(2026, 2, 13, 8, 0, 0, 0, time.UTC)
	entry, err := svc.RequestCorrection(ctx, 50, proposedIn, &checkOut, "entré a las ocho, no a las nueve")
	require.NoError(t, err)

	assert.Equal(t, fichaje.StatusPendingCorrection, entry.Status)
	require.NotNil(t, entry.CorrectionReason)
	assert.Equal(t, "entré a las ocho, no a las nueve", *entry.CorrectionReason)

	// The reloaded history reflects the transition.
	require.NotNil(t, svc.Latest())
	assert.Equal(t, fichaje.StatusPendingCorrection, svc.Latest().Status)
}

func TestApproveCorrection(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	backend := newFakeBackend()
	backend.now = now
	svc := newTestService(t, backend)
	ctx := context.Background()

	checkIn := time.Date(2026, 2, 13, 8, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 2, 13, 17, 0, 0, 0, time.UTC)
	backend.seedClosed(50, checkIn, checkOut)
	require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))
	_, err := svc.RequestCorrection(ctx, 50, checkIn.Add(-time.Hour), &checkOut, "entré una hora antes")
	require.NoError(t, err)

	loadsBefore := backend.count("GET /fichajes/me")

	entry, err := svc.ApproveCorrection(ctx, 50, "ok")
	require.NoError(t, err)

	assert.Equal(t, fichaje.StatusCorrected, entry.Status)
	require.NotNil(t, entry.ApprovalNotes)
	assert.Equal(t, "ok", *entry.ApprovalNotes)
	assert.Equal(t, loadsBefore+1, backend.count("GET /fichajes/me"), "queue reloaded exactly once")
}

func TestRejectCorrection(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	backend := newFakeBackend()
	backend.now = now
	svc := newTestService(t, backend)
	ctx := context.Background()

	checkIn := time.Date(2026, 2, 13, 8, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 2, 13, 17, 0, 0, 0, time.UTC)
	backend.seedClosed(50, checkIn, checkOut)
	require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))
	_, err := svc.RequestCorrection(ctx, 50, checkIn.Add(-time.Hour), &checkOut, "entré una hora antes")
	require.NoError(t, err)

	entry, err := svc.RejectCorrection(ctx, 50, "sin justificante")
	require.NoError(t, err)
	assert.Equal(t, fichaje.StatusRejected, entry.Status)

	// Terminal for this cycle: a second review conflicts server-side.
	_, err = svc.ApproveCorrection(ctx, 50, "")
	assert.True(t, apiclient.IsConflict(err))
}

func TestLoadStats(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)

	stats, err := svc.LoadStats(context.Background(), fichaje.Query{DateFrom: "2026-02-01", DateTo: "2026-02-14"})
	require.NoError(t, err)
	assert.Equal(t, 20, stats.TotalFichajes)
	assert.Equal(t, 151.5, stats.TotalHours)
	assert.Equal(t, 1, backend.count("GET /fichajes/me/stats"))
}

func TestErrorIsTransientAndClearable(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	backend.seedActive(backend.now.Add(-time.Hour))
	_, err := svc.CheckIn(ctx, "")
	require.Error(t, err)
	assert.NotEmpty(t, svc.Err())

	svc.ClearError()
	assert.Empty(t, svc.Err())

	// The next successful operation leaves no residue either.
	require.NoError(t, svc.LoadFichajes(ctx, fichaje.Query{Skip: -1}))
	assert.Empty(t, svc.Err())
	assert.False(t, svc.Loading())
}
