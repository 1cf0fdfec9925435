package pricing

import (
	"testing"
	"time"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

var testRoomTypes = []domain.RoomType{
	{ID: "standard", Name: "Standard", BasePrice: 1000000},
	{ID: "deluxe", Name: "Deluxe King", BasePrice: 800000},
}

// fixedClock pins the engine to a Tuesday so window filters are stable.
func fixedClock() time.Time {
	return time.Date(2026, time.September, 1, 10, 30, 0, 0, time.UTC)
}

func rangeSpec(adjType domain.AdjustmentType, op domain.Operation, value float64) domain.BulkAdjustmentSpec {
	return domain.BulkAdjustmentSpec{
		RoomTypeIDs:    []string{"standard"},
		AdjustmentType: adjType,
		Operation:      op,
		Value:          value,
		Filter: domain.DateFilter{
			Kind:  domain.FilterRange,
			Start: date(2026, time.September, 10),
			End:   date(2026, time.September, 10),
		},
	}
}

func TestBulkExpand_PercentageIncrease(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	rules, err := engine.Expand(rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10), testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].Price != 1100000 {
		t.Fatalf("expected 1000000 +10%% = 1100000, got %d", rules[0].Price)
	}
	if !rules[0].Active {
		t.Error("expected expanded rule to be active")
	}
}

func TestBulkExpand_PercentageDecrease(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	rules, err := engine.Expand(rangeSpec(domain.AdjustPercentage, domain.OpDecrease, 10), testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules[0].Price != 900000 {
		t.Fatalf("expected 1000000 -10%% = 900000, got %d", rules[0].Price)
	}
}

func TestBulkExpand_FixedDecreaseClampsAtZero(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	rules, err := engine.Expand(rangeSpec(domain.AdjustFixed, domain.OpDecrease, 2000000), testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules[0].Price != 0 {
		t.Fatalf("expected clamp at 0, got %d", rules[0].Price)
	}
}

func TestBulkExpand_SetIgnoresOperation(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	for _, op := range []domain.Operation{domain.OpSet, domain.OpIncrease, domain.OpDecrease} {
		rules, err := engine.Expand(rangeSpec(domain.AdjustSet, op, 750000), testRoomTypes)
		if err != nil {
			t.Fatalf("unexpected error for op %s: %v", op, err)
		}
		if rules[0].Price != 750000 {
			t.Fatalf("expected set to 750000 for op %s, got %d", op, rules[0].Price)
		}
	}
}

func TestBulkExpand_UnsupportedCombination(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	_, err := engine.Expand(rangeSpec(domain.AdjustPercentage, domain.OpSet, 10), testRoomTypes)
	if !domain.IsValidationError(err) {
		t.Fatalf("expected validation error for percentage/set, got %v", err)
	}
}

func TestBulkExpand_Validation(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	spec := rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.RoomTypeIDs = nil
	if _, err := engine.Expand(spec, testRoomTypes); !domain.IsValidationError(err) {
		t.Errorf("expected validation error for empty room type selection, got %v", err)
	}

	spec = rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.RoomTypeIDs = []string{"penthouse"}
	if _, err := engine.Expand(spec, testRoomTypes); !domain.IsValidationError(err) {
		t.Errorf("expected validation error for unknown room type, got %v", err)
	}

	spec = rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.Filter.Start, spec.Filter.End = spec.Filter.End.AddDate(0, 0, 5), spec.Filter.Start
	if _, err := engine.Expand(spec, testRoomTypes); !domain.IsValidationError(err) {
		t.Errorf("expected validation error for reversed range, got %v", err)
	}

	spec = rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.Filter = domain.DateFilter{Kind: domain.FilterRange}
	if _, err := engine.Expand(spec, testRoomTypes); !domain.IsValidationError(err) {
		t.Errorf("expected validation error for missing range dates, got %v", err)
	}

	spec = rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.Filter = domain.DateFilter{Kind: domain.FilterSpecificDates}
	if _, err := engine.Expand(spec, testRoomTypes); !domain.IsValidationError(err) {
		t.Errorf("expected validation error for empty date list, got %v", err)
	}
}

func TestBulkExpand_RangeIsInclusive(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	spec := rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.Filter.End = date(2026, time.September, 12)
	rules, err := engine.Expand(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules for a 3-day inclusive range, got %d", len(rules))
	}
	if domain.DateKey(rules[0].Date) != "2026-09-10" || domain.DateKey(rules[2].Date) != "2026-09-12" {
		t.Fatalf("expected ascending inclusive dates, got %s..%s",
			domain.DateKey(rules[0].Date), domain.DateKey(rules[2].Date))
	}
}

func TestBulkExpand_SingleDayRange(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	rules, err := engine.Expand(rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10), testRoomTypes)
	if err != nil {
		t.Fatalf("expected start==end to be a valid one-day range, got %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
}

func TestBulkExpand_SpecificDatesDedupeAndSort(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	spec := rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.Filter = domain.DateFilter{
		Kind: domain.FilterSpecificDates,
		Dates: []time.Time{
			date(2026, time.September, 20),
			date(2026, time.September, 15),
			date(2026, time.September, 20),
		},
	}
	rules, err := engine.Expand(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 rules, got %d", len(rules))
	}
	if domain.DateKey(rules[0].Date) != "2026-09-15" {
		t.Fatalf("expected ascending order, first date %s", domain.DateKey(rules[0].Date))
	}
}

func TestBulkExpand_WeekendWindow(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	spec := rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.Filter = domain.DateFilter{Kind: domain.FilterWeekends}
	rules, err := engine.Expand(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("expected weekend dates within the forward window")
	}
	for _, rule := range rules {
		wd := rule.Date.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			t.Fatalf("expected only weekend dates, got %s (%s)", domain.DateKey(rule.Date), wd)
		}
		if rule.Date.Before(domain.DayOf(fixedClock())) ||
			!rule.Date.Before(domain.DayOf(fixedClock()).AddDate(0, 0, forwardWindowDays)) {
			t.Fatalf("expected date inside the forward window, got %s", domain.DateKey(rule.Date))
		}
	}
}

func TestBulkExpand_WeekdayWindow(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	spec := rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.Filter = domain.DateFilter{Kind: domain.FilterWeekdays}
	rules, err := engine.Expand(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rule := range rules {
		wd := rule.Date.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("expected only weekdays, got %s", domain.DateKey(rule.Date))
		}
	}
}

func TestBulkExpand_MultipleRoomTypes(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	spec := rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)
	spec.RoomTypeIDs = []string{"standard", "deluxe"}
	spec.Filter.End = date(2026, time.September, 11)
	rules, err := engine.Expand(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 4 {
		t.Fatalf("expected 2 room types x 2 dates = 4 rules, got %d", len(rules))
	}
}

func TestDeterministicRuleID_StableAcrossRuns(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)
	spec := rangeSpec(domain.AdjustPercentage, domain.OpIncrease, 10)

	first, err := engine.Expand(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Expand(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first[0].ID != second[0].ID {
		t.Fatalf("expected identical IDs across runs, got %s vs %s", first[0].ID, second[0].ID)
	}

	if DeterministicRuleID("standard", date(2026, time.September, 10)) !=
		DeterministicRuleID("standard", date(2026, time.September, 10)) {
		t.Fatal("expected deterministic IDs for the same pair")
	}
	if DeterministicRuleID("standard", date(2026, time.September, 10)) ==
		DeterministicRuleID("deluxe", date(2026, time.September, 10)) {
		t.Fatal("expected distinct IDs for different room types")
	}
}

func TestBulkPreview(t *testing.T) {
	engine := NewBulkAdjustmentEngine(fixedClock)

	spec := rangeSpec(domain.AdjustPercentage, domain.OpDecrease, 25)
	spec.RoomTypeIDs = []string{"standard", "deluxe"}
	rows, err := engine.Preview(spec, testRoomTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected one row per room type, got %d", len(rows))
	}

	row := rows[0]
	if row.CurrentPrice != 1000000 || row.NewPrice != 750000 {
		t.Fatalf("expected 1000000 -> 750000, got %d -> %d", row.CurrentPrice, row.NewPrice)
	}
	if row.Difference != -250000 {
		t.Fatalf("expected difference -250000, got %d", row.Difference)
	}
	if row.PercentageChange != -25 {
		t.Fatalf("expected -25%% change, got %v", row.PercentageChange)
	}
}
