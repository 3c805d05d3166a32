package reservation

import (
	"errors"
	"strings"
	"time"
)

// RangeKind selects a predefined bookings date range.
type RangeKind string

const (
	RangeToday     RangeKind = "today"
	RangeTomorrow  RangeKind = "tomorrow"
	RangeThisWeek  RangeKind = "this_week"
	RangeThisMonth RangeKind = "this_month"
	RangeCustom    RangeKind = "custom"
)

// ResolveRange maps a range kind to a half-open [start, end) day span.
// Weeks start on Monday. For RangeCustom both bounds are required and the
// end date is inclusive.
func ResolveRange(kind RangeKind, now time.Time, from, to string) (time.Time, time.Time, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch kind {
	case RangeToday:
		return day, day.AddDate(0, 0, 1), nil
	case RangeTomorrow:
		start := day.AddDate(0, 0, 1)
		return start, start.AddDate(0, 0, 1), nil
	case RangeThisWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), nil
	case RangeThisMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0), nil
	case RangeCustom:
		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("custom range requires a valid from date")
		}
		end, err := time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("custom range requires a valid to date")
		}
		return start, end.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, errors.New("unknown range")
	}
}

// StayOverlaps reports whether the reservation's stay intersects the
// half-open [start, end) span. Checkout day itself does not occupy a night.
func StayOverlaps(r Reservation, start, end time.Time) bool {
	in, err := time.Parse("2006-01-02", r.CheckInDate)
	if err != nil {
		return false
	}
	out, err := time.Parse("2006-01-02", r.CheckOutDate)
	if err != nil {
		return false
	}
	return in.Before(end) && out.After(start)
}

// FilterByRange keeps reservations whose stay overlaps the span.
func FilterByRange(list []Reservation, start, end time.Time) []Reservation {
	out := make([]Reservation, 0, len(list))
	for _, r := range list {
		if StayOverlaps(r, start, end) {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps reservations whose reference, guest name or phone contains
// the query, case-insensitively.
func Search(list []Reservation, query string) []Reservation {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]Reservation, 0, len(list))
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Reference), q) ||
			strings.Contains(strings.ToLower(r.GuestName), q) ||
			strings.Contains(strings.ToLower(r.GuestPhone), q) {
			out = append(out, r)
		}
	}
	return out
}

// DayOccupancy is one capacity-calendar cell: how many rooms are occupied
// on a given date.
type DayOccupancy struct {
	Date  string `json:"date"`
	Rooms int    `json:"rooms"`
}

// Occupancy counts occupied rooms per night between from and to inclusive.
// Canceled reservations do not occupy rooms.
func Occupancy(list []Reservation, from, to time.Time) []DayOccupancy {
	var out []DayOccupancy
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)
		count := 0
		for _, r := range list {
			if r.Status == StatusCanceled {
				continue
			}
			if StayOverlaps(r, day, next) {
				count += len(r.Allocations)
			}
		}
		out = append(out, DayOccupancy{Date: day.Format("2006-01-02"), Rooms: count})
	}
	return out
}
