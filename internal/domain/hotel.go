package domain

// Hotel mirrors the backend's hotel listing payload.
type Hotel struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Location    string           `json:"location"`
	Description string           `json:"description"`
	Images      []string         `json:"images"`
	Rating      float64          `json:"rating"`
	Price       float64          `json:"price"`
	Amenities   []string         `json:"amenities"`
	Rooms       []map[string]any `json:"rooms"` // opaque to the aggregator
}

// HotelRef is how a booking points at its hotel: an id, optionally with the
// embedded summary the backend populates.
type HotelRef struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

type RoomRef struct {
	ID     string  `json:"id"`
	Type   *string `json:"type,omitempty"`
	Number *string `json:"number,omitempty"`
}
