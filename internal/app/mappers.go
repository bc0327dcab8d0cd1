package app

import (
	"strconv"
	"strings"
	"time"

	"hotel_dashboard/internal/domain"
)

/********** alias registries (single source of truth) **********/

var bookingAliases = map[string][]string{
	"id":          {"id", "_id", "bookingId", "booking_id"},
	"hotel":       {"hotel", "hotelId", "hotel_id"},
	"room":        {"room", "roomId", "room_id"},
	"check_in":    {"checkIn", "check_in", "checkInDate", "check_in_date", "startDate"},
	"check_out":   {"checkOut", "check_out", "checkOutDate", "check_out_date", "endDate"},
	"status":      {"status", "bookingStatus", "state"},
	"total_price": {"totalPrice", "total_price", "amount", "price"},
	"created_at":  {"createdAt", "created_at", "bookedAt"},
}

var hotelAliases = map[string][]string{
	"id":          {"id", "_id", "hotelId", "hotel_id"},
	"name":        {"name", "hotelName", "hotel_name", "title"},
	"location":    {"location", "city", "address", "location.city", "address.city"},
	"description": {"description", "summary", "about"},
	"images":      {"images", "photos", "imageUrls", "image_urls"},
	"rating":      {"rating", "stars", "rating.value", "score"},
	"price":       {"price", "pricePerNight", "price_per_night", "basePrice"},
	"amenities":   {"amenities", "facilities", "features"},
	"rooms":       {"rooms", "roomTypes"},
}

var roomAliases = map[string][]string{
	"id":     {"id", "_id", "roomId"},
	"type":   {"type", "roomType", "room_type", "name"},
	"number": {"number", "roomNumber", "room_number"},
}

// date-only first: the backend stores stay dates as YYYY-MM-DD.
var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "". Numeric ids are rendered as integers.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func firstStr(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	if s := firstStr(m, aliases, key); s != "" {
		return &s
	}
	return nil
}

// firstObject returns the first alias whose value is an embedded object.
func firstObject(m map[string]any, aliases map[string][]string, key string) map[string]any {
	for _, p := range aliases[key] {
		if obj, ok := lookupAny(m, p).(map[string]any); ok {
			return obj
		}
	}
	return nil
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// firstTime parses the first alias holding a recognizable timestamp.
// Returns the zero time when none does.
func firstTime(m map[string]any, aliases map[string][]string, key string) time.Time {
	for _, p := range aliases[key] {
		s := strings.TrimSpace(lookupStr(m, p))
		if s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if u, ok := t["src"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
						continue
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func firstSliceObjects(m map[string]any, paths ...string) []map[string]any {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, it := range raw {
			if obj, ok := it.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out
	}
	return nil
}

/********** hotel mapper **********/

func mapHotel(p map[string]any) domain.Hotel {
	return domain.Hotel{
		ID:          firstStr(p, hotelAliases, "id"),
		Name:        firstStr(p, hotelAliases, "name"),
		Location:    firstStr(p, hotelAliases, "location"),
		Description: firstStr(p, hotelAliases, "description"),
		Images:      firstSliceStrings(p, hotelAliases["images"]...),
		Rating:      floatOrZero(getFloatFlexible(p, hotelAliases["rating"]...)),
		Price:       floatOrZero(getFloatFlexible(p, hotelAliases["price"]...)),
		Amenities:   firstSliceStrings(p, hotelAliases["amenities"]...),
		Rooms:       firstSliceObjects(p, hotelAliases["rooms"]...),
	}
}

func mapHotels(in []map[string]any) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(in))
	for _, p := range in {
		out = append(out, mapHotel(p))
	}
	return out
}

/********** booking mapper **********/

// mapHotelRef accepts either a bare id or the embedded hotel document.
func mapHotelRef(b map[string]any) domain.HotelRef {
	if obj := firstObject(b, bookingAliases, "hotel"); obj != nil {
		return domain.HotelRef{
			ID:       firstStr(obj, hotelAliases, "id"),
			Name:     firstNonEmptyAlias(obj, hotelAliases, "name"),
			Location: firstNonEmptyAlias(obj, hotelAliases, "location"),
		}
	}
	return domain.HotelRef{ID: firstStr(b, bookingAliases, "hotel")}
}

func mapRoomRef(b map[string]any) domain.RoomRef {
	if obj := firstObject(b, bookingAliases, "room"); obj != nil {
		return domain.RoomRef{
			ID:     firstStr(obj, roomAliases, "id"),
			Type:   firstNonEmptyAlias(obj, roomAliases, "type"),
			Number: firstNonEmptyAlias(obj, roomAliases, "number"),
		}
	}
	return domain.RoomRef{ID: firstStr(b, bookingAliases, "room")}
}

func mapBooking(b map[string]any) domain.Booking {
	price := floatOrZero(getFloatFlexible(b, bookingAliases["total_price"]...))
	if price < 0 {
		price = 0
	}
	return domain.Booking{
		ID:         firstStr(b, bookingAliases, "id"),
		Hotel:      mapHotelRef(b),
		Room:       mapRoomRef(b),
		CheckIn:    firstTime(b, bookingAliases, "check_in"),
		CheckOut:   firstTime(b, bookingAliases, "check_out"),
		Status:     domain.ParseStatus(firstStr(b, bookingAliases, "status")),
		TotalPrice: price,
		CreatedAt:  firstTime(b, bookingAliases, "created_at"),
	}
}

func mapBookings(in []map[string]any) []domain.Booking {
	out := make([]domain.Booking, 0, len(in))
	for _, b := range in {
		out = append(out, mapBooking(b))
	}
	return out
}
