package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

// ruleNamespace seeds deterministic rule IDs. An expanded rule's ID is a
// UUIDv5 of its (room type ID, date) pair, so re-running the same spec
// produces the same IDs and is safe to retry.
var ruleNamespace = uuid.MustParse("a6c2f09e-5b1d-4f63-9a77-30d1c8e4b201")

// DeterministicRuleID derives the rule ID for a (room type, date) pair.
func DeterministicRuleID(roomTypeID string, date time.Time) string {
	return uuid.NewSHA1(ruleNamespace, []byte(roomTypeID+"|"+domain.DateKey(date))).String()
}

// forwardWindowDays bounds the weekday/weekend filters, and the "all" filter
// when no explicit range accompanies the spec.
const forwardWindowDays = 30

// formulaKey selects one entry of the closed adjustment formula table.
type formulaKey struct {
	Type domain.AdjustmentType
	Op   domain.Operation
}

type formula func(current int64, value float64) int64

// formulas is the full adjustment table. Every result is clamped at zero;
// an explicit override price is never negative.
var formulas = map[formulaKey]formula{
	{domain.AdjustPercentage, domain.OpIncrease}: func(current int64, value float64) int64 {
		return clampRound(float64(current) * (1 + value/100))
	},
	{domain.AdjustPercentage, domain.OpDecrease}: func(current int64, value float64) int64 {
		return clampRound(float64(current) * (1 - value/100))
	},
	{domain.AdjustFixed, domain.OpIncrease}: func(current int64, value float64) int64 {
		return clampRound(float64(current) + value)
	},
	{domain.AdjustFixed, domain.OpDecrease}: func(current int64, value float64) int64 {
		return clampRound(math.Max(0, float64(current)-value))
	},
	{domain.AdjustSet, domain.OpSet}: func(_ int64, value float64) int64 {
		return clampRound(value)
	},
}

func clampRound(v float64) int64 {
	if v < 0 {
		return 0
	}
	return int64(math.Round(v))
}

// BulkAdjustmentEngine expands a single adjustment spec into concrete
// pricing rules, one per selected room type and target date.
type BulkAdjustmentEngine struct {
	now func() time.Time
}

// NewBulkAdjustmentEngine creates an engine. A nil clock uses time.Now.
func NewBulkAdjustmentEngine(clock func() time.Time) *BulkAdjustmentEngine {
	if clock == nil {
		clock = time.Now
	}
	return &BulkAdjustmentEngine{now: clock}
}

// Expand validates the spec, resolves its target dates, and emits one rule
// per (room type, date). Expansion is all-or-nothing: any validation failure
// yields zero rules.
func (e *BulkAdjustmentEngine) Expand(spec domain.BulkAdjustmentSpec, roomTypes []domain.RoomType) ([]domain.PricingRule, error) {
	apply, err := e.formulaFor(spec)
	if err != nil {
		return nil, err
	}

	selected, err := selectRoomTypes(spec.RoomTypeIDs, roomTypes)
	if err != nil {
		return nil, err
	}

	dates, err := e.targetDates(spec.Filter)
	if err != nil {
		return nil, err
	}

	createdAt := e.now()
	rules := make([]domain.PricingRule, 0, len(selected)*len(dates))
	for _, rt := range selected {
		// Bulk math always starts from the base price, never from an
		// already-resolved effective price for the date.
		current := rt.BasePrice
		newPrice := apply(current, spec.Value)
		for _, date := range dates {
			rules = append(rules, domain.PricingRule{
				ID:         DeterministicRuleID(rt.ID, date),
				RoomTypeID: rt.ID,
				Date:       date,
				Price:      newPrice,
				Reason:     spec.Reason,
				Active:     true,
				CreatedAt:  createdAt,
			})
		}
	}
	return rules, nil
}

// Preview computes the per-room-type effect of the spec without expanding
// dates or committing anything.
func (e *BulkAdjustmentEngine) Preview(spec domain.BulkAdjustmentSpec, roomTypes []domain.RoomType) ([]domain.BulkPreviewRow, error) {
	apply, err := e.formulaFor(spec)
	if err != nil {
		return nil, err
	}

	selected, err := selectRoomTypes(spec.RoomTypeIDs, roomTypes)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.BulkPreviewRow, 0, len(selected))
	for _, rt := range selected {
		current := rt.BasePrice
		newPrice := apply(current, spec.Value)
		row := domain.BulkPreviewRow{
			RoomType:     rt,
			CurrentPrice: current,
			NewPrice:     newPrice,
			Difference:   newPrice - current,
		}
		if current != 0 {
			row.PercentageChange = float64(newPrice-current) / float64(current) * 100
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *BulkAdjustmentEngine) formulaFor(spec domain.BulkAdjustmentSpec) (formula, error) {
	if len(spec.RoomTypeIDs) == 0 {
		return nil, domain.NewValidationError("no room types selected", "")
	}
	if math.IsNaN(spec.Value) || math.IsInf(spec.Value, 0) {
		return nil, domain.NewValidationError("adjustment value must be numeric", fmt.Sprintf("got %v", spec.Value))
	}

	key := formulaKey{Type: spec.AdjustmentType, Op: spec.Operation}
	if spec.AdjustmentType == domain.AdjustSet {
		// Set ignores the operation.
		key.Op = domain.OpSet
	}
	apply, ok := formulas[key]
	if !ok {
		return nil, domain.NewValidationError("unsupported adjustment",
			fmt.Sprintf("type=%s operation=%s", spec.AdjustmentType, spec.Operation))
	}
	return apply, nil
}

func selectRoomTypes(ids []string, roomTypes []domain.RoomType) ([]domain.RoomType, error) {
	byID := make(map[string]domain.RoomType, len(roomTypes))
	for _, rt := range roomTypes {
		byID[rt.ID] = rt
	}
	selected := make([]domain.RoomType, 0, len(ids))
	for _, id := range ids {
		rt, ok := byID[id]
		if !ok {
			return nil, domain.NewValidationError("unknown room type", fmt.Sprintf("ID: %s", id))
		}
		selected = append(selected, rt)
	}
	return selected, nil
}

// targetDates resolves the filter into an ascending, de-duplicated date set.
func (e *BulkAdjustmentEngine) targetDates(filter domain.DateFilter) ([]time.Time, error) {
	switch filter.Kind {
	case domain.FilterAll:
		return e.window(func(time.Time) bool { return true }), nil
	case domain.FilterWeekdays:
		return e.window(func(d time.Time) bool {
			wd := d.Weekday()
			return wd != time.Saturday && wd != time.Sunday
		}), nil
	case domain.FilterWeekends:
		return e.window(func(d time.Time) bool {
			wd := d.Weekday()
			return wd == time.Saturday || wd == time.Sunday
		}), nil
	case domain.FilterRange:
		start, end := domain.DayOf(filter.Start), domain.DayOf(filter.End)
		if filter.Start.IsZero() || filter.End.IsZero() {
			return nil, domain.NewValidationError("date range is required", "")
		}
		if end.Before(start) {
			return nil, domain.NewValidationError("end date must not be before start date",
				fmt.Sprintf("start=%s end=%s", domain.DateKey(start), domain.DateKey(end)))
		}
		var dates []time.Time
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
		return dates, nil
	case domain.FilterSpecificDates:
		if len(filter.Dates) == 0 {
			return nil, domain.NewValidationError("no dates provided", "")
		}
		seen := make(map[string]bool, len(filter.Dates))
		dates := make([]time.Time, 0, len(filter.Dates))
		for _, d := range filter.Dates {
			day := domain.DayOf(d)
			if key := domain.DateKey(day); !seen[key] {
				seen[key] = true
				dates = append(dates, day)
			}
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates, nil
	default:
		return nil, domain.NewValidationError("unknown date filter", string(filter.Kind))
	}
}

// window enumerates the forward window starting at the invocation date.
func (e *BulkAdjustmentEngine) window(keep func(time.Time) bool) []time.Time {
	start := domain.DayOf(e.now())
	var dates []time.Time
	for i := 0; i < forwardWindowDays; i++ {
		d := start.AddDate(0, 0, i)
		if keep(d) {
			dates = append(dates, d)
		}
	}
	return dates
}
