package app

import (
	"context"

	"hotel_dashboard/internal/domain"
)

// Gateway maps the backend's raw listings into typed records.
type Gateway struct {
	backend domain.BackendClient
}

func NewGateway(b domain.BackendClient) *Gateway {
	return &Gateway{backend: b}
}

func (g *Gateway) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	raw, err := g.backend.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	return mapBookings(raw), nil
}

func (g *Gateway) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	raw, err := g.backend.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	return mapHotels(raw), nil
}
