package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	server "hotel_dashboard/internal/adapters/http_server"
	"hotel_dashboard/internal/adapters/memstate"
	"hotel_dashboard/internal/app"
	"hotel_dashboard/internal/domain"
)

// ---- fakes ----

type fakeBackend struct {
	bookings    []map[string]any
	hotels      []map[string]any
	bookingsErr error
}

func (f *fakeBackend) ListBookings(ctx context.Context) ([]map[string]any, error) {
	return f.bookings, f.bookingsErr
}
func (f *fakeBackend) ListHotels(ctx context.Context) ([]map[string]any, error) {
	return f.hotels, nil
}
func (f *fakeBackend) GetHotel(ctx context.Context, id string) (map[string]any, error) {
	for _, h := range f.hotels {
		if h["_id"] == id {
			return h, nil
		}
	}
	return nil, &domain.ResponseError{Op: "get hotel", Status: 404, Err: domain.ErrNotFound}
}

type fakeSnaps struct{ saved []domain.Snapshot }

func (f *fakeSnaps) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	f.saved = append([]domain.Snapshot{s}, f.saved...)
	return nil
}
func (f *fakeSnaps) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if len(f.saved) > limit {
		return f.saved[:limit], nil
	}
	return f.saved, nil
}

func newTestServer(be *fakeBackend) (http.Handler, *fakeSnaps) {
	now := func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
	snaps := &fakeSnaps{}
	dash := app.NewDashboardService(app.NewGateway(be), memstate.New(), snaps, now)
	q := app.NewQueryService(be, nil, time.Minute, now)

	srv := server.New(zerolog.Nop(), 5*time.Second)
	srv.MountHandlers(&server.Handlers{Dash: dash, Q: q})
	return srv.Mux(), snaps
}

func sampleBackend() *fakeBackend {
	return &fakeBackend{
		bookings: []map[string]any{
			{"_id": "b1", "status": "confirmed", "checkIn": "2099-01-01", "hotel": "h1"},
			{"_id": "b2", "status": "cancelled", "checkIn": "2020-01-01", "hotel": "h1"},
		},
		hotels: []map[string]any{{"_id": "h1", "name": "Hotel A"}},
	}
}

func do(t *testing.T, h http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ---- tests ----

func TestDashboard_IdleThenRefreshThenRead(t *testing.T) {
	h, snaps := newTestServer(sampleBackend())

	rr := do(t, h, http.MethodGet, "/v1/dashboard", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var st domain.DashboardState
	_ = json.Unmarshal(rr.Body.Bytes(), &st)
	if st.Phase != domain.PhaseIdle || st.Summary != nil {
		t.Fatalf("expected idle, got %+v", st)
	}

	rr = do(t, h, http.MethodPost, "/v1/dashboard/refresh", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh status %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/v1/dashboard", nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Phase != domain.PhaseReady || st.Summary.TotalBookings != 2 || st.Summary.UpcomingStays != 1 {
		t.Fatalf("unexpected state: %+v", st)
	}
	if len(snaps.saved) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(snaps.saved))
	}

	// conditional GET
	etag := rr.Header().Get("ETag")
	rr = do(t, h, http.MethodGet, "/v1/dashboard", map[string]string{"If-None-Match": etag})
	if rr.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr.Code)
	}
}

func TestDashboard_RefreshFailureIsProblem(t *testing.T) {
	be := sampleBackend()
	be.bookingsErr = &domain.ResponseError{Op: "list bookings", Status: 500, Detail: "db down"}
	h, _ := newTestServer(be)

	rr := do(t, h, http.MethodPost, "/v1/dashboard/refresh", nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	rr = do(t, h, http.MethodGet, "/v1/dashboard", nil)
	var st domain.DashboardState
	_ = json.Unmarshal(rr.Body.Bytes(), &st)
	if st.Phase != domain.PhaseFailed || st.Summary != nil || st.Error == "" || st.IsLoading {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestDashboardHistory_Limit(t *testing.T) {
	h, _ := newTestServer(sampleBackend())
	for i := 0; i < 3; i++ {
		do(t, h, http.MethodPost, "/v1/dashboard/refresh", nil)
	}

	rr := do(t, h, http.MethodGet, "/v1/dashboard/history?limit=2", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	if len(out) != 2 || out[0]["phase"] != "ready" {
		t.Fatalf("unexpected history: %+v", out)
	}

	if rr := do(t, h, http.MethodGet, "/v1/dashboard/history?limit=0", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", rr.Code)
	}
}

func TestHotels_ListAndGet(t *testing.T) {
	h, _ := newTestServer(sampleBackend())

	rr := do(t, h, http.MethodGet, "/v1/hotels", nil)
	var hotels []domain.Hotel
	_ = json.Unmarshal(rr.Body.Bytes(), &hotels)
	if rr.Code != http.StatusOK || len(hotels) != 1 || hotels[0].Name != "Hotel A" {
		t.Fatalf("unexpected hotels (%d): %s", rr.Code, rr.Body.String())
	}

	if rr := do(t, h, http.MethodGet, "/v1/hotels/h1", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/v1/hotels/nope", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestBookings_Filters(t *testing.T) {
	h, _ := newTestServer(sampleBackend())

	rr := do(t, h, http.MethodGet, "/v1/bookings?upcoming=true", nil)
	var out []domain.Booking
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	if rr.Code != http.StatusOK || len(out) != 1 || out[0].ID != "b1" {
		t.Fatalf("unexpected bookings (%d): %s", rr.Code, rr.Body.String())
	}

	if rr := do(t, h, http.MethodGet, "/v1/bookings?status=lost", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/v1/bookings?upcoming=maybe", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad upcoming, got %d", rr.Code)
	}
}

func TestBookings_BackendDownIs503(t *testing.T) {
	be := sampleBackend()
	be.bookingsErr = &domain.TransportError{Op: "list bookings", Err: errors.New("connection refused")}
	h, _ := newTestServer(be)

	if rr := do(t, h, http.MethodGet, "/v1/bookings", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(sampleBackend())
	if rr := do(t, h, http.MethodGet, "/healthz", nil); rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected healthz: %d %q", rr.Code, rr.Body.String())
	}
}
