// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_dashboard/internal/app"
	"hotel_dashboard/internal/domain"
)

type Handlers struct {
	Dash *app.DashboardService
	Q    *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/dashboard", h.getDashboard)
	s.mux.Post("/v1/dashboard/refresh", h.refreshDashboard)
	s.mux.Get("/v1/dashboard/history", h.dashboardHistory)
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/bookings", h.listBookings)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeUpstreamProblem maps a backend failure onto a problem response.
func writeUpstreamProblem(w http.ResponseWriter, err error) {
	var te *domain.TransportError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.As(err, &te):
		writeProblem(w, http.StatusServiceUnavailable, "Backend Unavailable", err.Error())
	default:
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", err.Error())
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON writes v with a weak ETag, answering 304 when the client has it.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag && status == http.StatusOK {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write response body")
	}
}

func (h *Handlers) getDashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.Dash.State(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("read dashboard state failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "dashboard state unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *Handlers) refreshDashboard(w http.ResponseWriter, r *http.Request) {
	// The cycle feeds a shared slot; a client hanging up must not fail it.
	st, err := h.Dash.Load(context.WithoutCancel(r.Context()))
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, st)
	case errors.Is(err, domain.ErrSuperseded):
		writeProblem(w, http.StatusConflict, "Superseded", "a newer refresh replaced this one")
	case st.Phase == domain.PhaseFailed:
		writeProblem(w, http.StatusBadGateway, "Aggregation Failed", st.Error)
	default:
		log.Error().Err(err).Msg("dashboard refresh failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "dashboard refresh failed")
	}
}

func (h *Handlers) dashboardHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	snaps, err := h.Dash.History(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list dashboard snapshots failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "history unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, toSnapshotViews(snaps))
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.ListHotels(r.Context())
	if err != nil {
		writeUpstreamProblem(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hotels)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUpstreamProblem(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hotel)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	var f domain.BookingsFilter
	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		st := domain.BookingStatus(s)
		if st != domain.StatusConfirmed && st != domain.StatusPending && st != domain.StatusCancelled {
			writeProblem(w, http.StatusBadRequest, "Invalid status", "status must be one of confirmed, pending, cancelled")
			return
		}
		f.Status = &st
	}
	if u := q.Get("upcoming"); u != "" {
		b, err := strconv.ParseBool(u)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid upcoming", "upcoming must be a boolean")
			return
		}
		f.Upcoming = b
	}
	bookings, err := h.Q.ListBookings(r.Context(), f)
	if err != nil {
		writeUpstreamProblem(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bookings)
}
