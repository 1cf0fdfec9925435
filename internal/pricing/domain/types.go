package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// RoomType represents a bookable room category with its base nightly price.
type RoomType struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	BasePrice   int64  `json:"base_price" db:"base_price"` // Base nightly price in minor units
	Description string `json:"description,omitempty" db:"description"`
}

// MonthDay is a recurring calendar day without a year, e.g. "12-01".
type MonthDay struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// ParseMonthDay parses a "MM-DD" string into a MonthDay.
func ParseMonthDay(s string) (MonthDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return MonthDay{}, fmt.Errorf("invalid month-day %q: expected MM-DD", s)
	}
	var month, day int
	if _, err := fmt.Sscanf(parts[0], "%d", &month); err != nil || month < 1 || month > 12 {
		return MonthDay{}, fmt.Errorf("invalid month in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &day); err != nil || day < 1 || day > 31 {
		return MonthDay{}, fmt.Errorf("invalid day in %q", s)
	}
	return MonthDay{Month: time.Month(month), Day: day}, nil
}

// String formats the MonthDay as "MM-DD".
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// ordinal maps the MonthDay onto a comparable scale within one year.
func (md MonthDay) ordinal() int {
	return int(md.Month)*100 + md.Day
}

// Season is a recurring yearly window with a price multiplier. The window may
// wrap the year boundary (e.g. Dec 1 through Feb 28).
type Season struct {
	ID         string   `json:"id" db:"id"`
	Name       string   `json:"name" db:"name"`
	StartDay   MonthDay `json:"start_day" db:"start_day"`
	EndDay     MonthDay `json:"end_day" db:"end_day"`
	Multiplier float64  `json:"multiplier" db:"multiplier"`
	Active     bool     `json:"active" db:"active"`
}

// Contains reports whether the season window covers the month-day of date.
func (s Season) Contains(date time.Time) bool {
	x := MonthDay{Month: date.Month(), Day: date.Day()}.ordinal()
	start, end := s.StartDay.ordinal(), s.EndDay.ordinal()
	if start <= end {
		return x >= start && x <= end
	}
	// Wrapped window, e.g. 12-01..02-28.
	return x >= start || x <= end
}

// SpecialEvent is a one-off calendar-dated multiplier with a priority and
// optional room-type scoping. An empty RoomTypeIDs set applies to all rooms.
type SpecialEvent struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Multiplier  float64   `json:"multiplier" db:"multiplier"`
	Priority    int       `json:"priority" db:"priority"` // Higher wins
	RoomTypeIDs []string  `json:"room_type_ids,omitempty" db:"room_type_ids"`
	Active      bool      `json:"active" db:"active"`
}

// Matches reports whether date falls inside the event window, inclusive.
func (e SpecialEvent) Matches(date time.Time) bool {
	d := DayOf(date)
	return !d.Before(DayOf(e.StartDate)) && !d.After(DayOf(e.EndDate))
}

// AppliesTo reports whether the event covers the given room type.
func (e SpecialEvent) AppliesTo(roomTypeID string) bool {
	if len(e.RoomTypeIDs) == 0 {
		return true
	}
	for _, id := range e.RoomTypeIDs {
		if id == roomTypeID {
			return true
		}
	}
	return false
}

// PricingRule is an explicit per-date, per-room-type price override. An
// active rule takes precedence over all multiplier composition.
type PricingRule struct {
	ID         string    `json:"id" db:"id"`
	RoomTypeID string    `json:"room_type_id" db:"room_type_id"`
	Date       time.Time `json:"date" db:"date"`
	Price      int64     `json:"price" db:"price"` // Explicit override, never negative
	Reason     string    `json:"reason,omitempty" db:"reason"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// AdjustmentType selects how a bulk adjustment interprets its value.
type AdjustmentType string

const (
	AdjustPercentage AdjustmentType = "percentage"
	AdjustFixed      AdjustmentType = "fixed"
	AdjustSet        AdjustmentType = "set"
)

// Operation selects the direction of a bulk adjustment.
type Operation string

const (
	OpIncrease Operation = "increase"
	OpDecrease Operation = "decrease"
	OpSet      Operation = "set"
)

// DateFilterKind selects how a bulk adjustment resolves its target dates.
type DateFilterKind string

const (
	FilterAll           DateFilterKind = "all"
	FilterRange         DateFilterKind = "range"
	FilterWeekdays      DateFilterKind = "weekdays"
	FilterWeekends      DateFilterKind = "weekends"
	FilterSpecificDates DateFilterKind = "specific_dates"
)

// DateFilter carries the parameters for a DateFilterKind.
type DateFilter struct {
	Kind  DateFilterKind `json:"kind"`
	Start time.Time      `json:"start,omitempty"` // range
	End   time.Time      `json:"end,omitempty"`   // range
	Dates []time.Time    `json:"dates,omitempty"` // specific_dates
}

// BulkAdjustmentSpec describes one adjustment to expand into concrete rules.
type BulkAdjustmentSpec struct {
	RoomTypeIDs    []string       `json:"room_type_ids"`
	AdjustmentType AdjustmentType `json:"adjustment_type"`
	Operation      Operation      `json:"operation"`
	Value          float64        `json:"value"`
	Filter         DateFilter     `json:"date_filter"`
	Reason         string         `json:"reason,omitempty"`
}

// BulkPreviewRow is one row of a bulk-adjustment preview, computed without
// committing any rules.
type BulkPreviewRow struct {
	RoomType         RoomType `json:"room_type"`
	CurrentPrice     int64    `json:"current_price"`
	NewPrice         int64    `json:"new_price"`
	Difference       int64    `json:"difference"`
	PercentageChange float64  `json:"percentage_change"`
}

// DayPrice is one resolved nightly price in a calendar projection.
type DayPrice struct {
	Date  time.Time `json:"date"`
	Price int64     `json:"price"`
}

// CalendarDay is one row of a multi-room calendar grid.
type CalendarDay struct {
	Date   time.Time        `json:"date"`
	Prices map[string]int64 `json:"prices"` // room type ID -> resolved price
}

// DayOf truncates a time to its calendar date in UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date for use as a map key or wire value.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a "YYYY-MM-DD" string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
