package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseStatus normalizes a backend status string. Anything unrecognized is
// treated as pending.
func ParseStatus(s string) BookingStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirmed":
		return StatusConfirmed
	case "cancelled", "canceled":
		return StatusCancelled
	}
	return StatusPending
}

type Booking struct {
	ID         string        `json:"id"`
	Hotel      HotelRef      `json:"hotel"`
	Room       RoomRef       `json:"room"`
	CheckIn    time.Time     `json:"checkIn"`
	CheckOut   time.Time     `json:"checkOut"`
	Status     BookingStatus `json:"status"`
	TotalPrice float64       `json:"totalPrice"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// IsUpcoming reports whether the booking is a confirmed stay that starts
// strictly after now.
func (b Booking) IsUpcoming(now time.Time) bool {
	return b.Status == StatusConfirmed && b.CheckIn.After(now)
}

type BookingsFilter struct {
	Status   *BookingStatus
	Upcoming bool
}
