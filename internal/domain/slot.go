package domain

import "time"

// TimeSlot represents a bookable interval as absolute instants
type TimeSlot struct {
	StartTime time.Time
	EndTime   time.Time
}

// Equal returns true if both slots cover the same interval
func (s TimeSlot) Equal(other TimeSlot) bool {
	return s.StartTime.Equal(other.StartTime) && s.EndTime.Equal(other.EndTime)
}

// DateRange represents an inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains returns true if the day falls within the range (date precision)
func (r DateRange) Contains(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(DateOnly(r.Start)) && !d.After(DateOnly(r.End))
}

// AvailabilitySnapshot is the most recent slot listing fetched for a session.
// Slot selections are validated against it; a selection made against an older
// listing is rejected as stale.
type AvailabilitySnapshot struct {
	// Seq монотонно растет с каждым запросом слотов в рамках сессии.
	// Ответ с меньшим Seq никогда не перезаписывает более новый снапшот.
	Seq               int64
	DurationID        string
	Date              time.Time
	TimeZone          string
	Slots             []TimeSlot
	DateRange         DateRange
	AvailableWeekdays []int
	FetchedAt         time.Time
}

// HasSlot returns true if the snapshot contains the exact interval
func (s *AvailabilitySnapshot) HasSlot(slot TimeSlot) bool {
	for _, known := range s.Slots {
		if known.Equal(slot) {
			return true
		}
	}
	return false
}

// Covers returns true if the snapshot was fetched for the given date and zone.
// A selection for a different date or zone cannot be validated against it.
func (s *AvailabilitySnapshot) Covers(date time.Time, timeZone string) bool {
	return s.TimeZone == timeZone && SameDay(s.Date, date)
}

// SameDay returns true if both instants fall on the same calendar date
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly strips the time-of-day part, keeping the calendar date in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
