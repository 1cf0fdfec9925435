package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseMonthDay(t *testing.T) {
	md, err := ParseMonthDay("12-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.Month != time.December || md.Day != 1 {
		t.Fatalf("expected 12-01, got %v", md)
	}
	if md.String() != "12-01" {
		t.Fatalf("expected formatted 12-01, got %s", md.String())
	}

	for _, bad := range []string{"", "13-01", "00-10", "12-32", "12", "ab-cd"} {
		if _, err := ParseMonthDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestSeasonContains_SimpleWindow(t *testing.T) {
	summer := Season{StartDay: MonthDay{time.June, 1}, EndDay: MonthDay{time.August, 31}}

	if !summer.Contains(date(2025, time.July, 15)) {
		t.Error("expected July 15 inside June..August window")
	}
	if !summer.Contains(date(2025, time.June, 1)) {
		t.Error("expected start day inclusive")
	}
	if !summer.Contains(date(2025, time.August, 31)) {
		t.Error("expected end day inclusive")
	}
	if summer.Contains(date(2025, time.May, 31)) {
		t.Error("expected May 31 outside window")
	}
}

func TestSeasonContains_WrappedWindow(t *testing.T) {
	// Dec 1 through Feb 28 wraps the year boundary.
	winter := Season{StartDay: MonthDay{time.December, 1}, EndDay: MonthDay{time.February, 28}}

	if !winter.Contains(date(2025, time.December, 25)) {
		t.Error("expected Dec 25 inside wrapped window")
	}
	if !winter.Contains(date(2025, time.January, 15)) {
		t.Error("expected Jan 15 inside wrapped window")
	}
	if !winter.Contains(date(2025, time.February, 28)) {
		t.Error("expected wrapped end day inclusive")
	}
	if winter.Contains(date(2025, time.June, 1)) {
		t.Error("expected June 1 outside wrapped window")
	}
	if winter.Contains(date(2025, time.March, 1)) {
		t.Error("expected Mar 1 outside wrapped window")
	}
}

func TestSpecialEventMatches(t *testing.T) {
	event := SpecialEvent{
		StartDate: date(2026, time.September, 10),
		EndDate:   date(2026, time.September, 12),
	}

	if !event.Matches(date(2026, time.September, 10)) {
		t.Error("expected start date inclusive")
	}
	if !event.Matches(date(2026, time.September, 12)) {
		t.Error("expected end date inclusive")
	}
	if event.Matches(date(2026, time.September, 13)) {
		t.Error("expected day after end excluded")
	}
}

func TestSpecialEventAppliesTo(t *testing.T) {
	all := SpecialEvent{}
	if !all.AppliesTo("deluxe") {
		t.Error("expected empty room type set to apply to all")
	}

	scoped := SpecialEvent{RoomTypeIDs: []string{"deluxe", "suite"}}
	if !scoped.AppliesTo("suite") {
		t.Error("expected listed room type to match")
	}
	if scoped.AppliesTo("standard") {
		t.Error("expected unlisted room type not to match")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if DateKey(d) != "2026-09-01" {
		t.Fatalf("round trip mismatch: %s", DateKey(d))
	}

	if _, err := ParseDate("09/01/2026"); err == nil {
		t.Error("expected error for wrong layout")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	d := DayOf(time.Date(2026, time.September, 1, 23, 30, 0, 0, loc))
	if DateKey(d) != "2026-09-01" {
		t.Fatalf("expected calendar date preserved, got %s", DateKey(d))
	}
	if d.Hour() != 0 || d.Location() != time.UTC {
		t.Fatal("expected midnight UTC")
	}
}
