package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestLogger_RecordsRouteStatusAndClient(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(Logger(zerolog.New(&buf)))
	r.Get("/v1/hotels/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("gone"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/h42", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if ev["route"] != "/v1/hotels/{id}" || ev["status"] != float64(404) || ev["bytes"] != float64(4) {
		t.Fatalf("unexpected event: %v", ev)
	}
	if ev["remote"] != "203.0.113.9" || ev["level"] != "info" || ev["request_id"] == "" {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestLogger_ImplicitOKAndServerErrors(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(Logger(zerolog.New(&buf)))
	r.Get("/silent", func(w http.ResponseWriter, r *http.Request) {})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/silent", nil))
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev["status"] != float64(200) {
		t.Fatalf("expected implicit 200, got %v", ev)
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev["status"] != float64(502) || ev["level"] != "warn" {
		t.Fatalf("expected warn-level 502, got %v", ev)
	}
}
