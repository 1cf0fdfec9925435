package pricing

import (
	"testing"
	"time"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

var deluxe = domain.RoomType{ID: "deluxe", Name: "Deluxe King", BasePrice: 800000}

func TestResolver_BasePriceWhenNothingMatches(t *testing.T) {
	resolver := NewResolver(NewRuleStore().Snapshot(), nil)

	if got := resolver.Resolve(deluxe, date(2026, time.September, 1)); got != 800000 {
		t.Fatalf("expected base price 800000, got %d", got)
	}
}

func TestResolver_SeasonAndEventCompose(t *testing.T) {
	store := NewRuleStore()
	store.UpsertSeason(domain.Season{
		ID: "summer", Name: "Summer",
		StartDay: domain.MonthDay{Month: time.June, Day: 1},
		EndDay:   domain.MonthDay{Month: time.August, Day: 31},
		Multiplier: 1.3, Active: true,
	})
	store.UpsertEvent(domain.SpecialEvent{
		ID: "festival", Name: "Festival",
		StartDate: date(2026, time.July, 10), EndDate: date(2026, time.July, 12),
		Multiplier: 1.5, Active: true,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	// 800000 * 1.3 * 1.5 = 1560000
	if got := resolver.Resolve(deluxe, date(2026, time.July, 11)); got != 1560000 {
		t.Fatalf("expected composed price 1560000, got %d", got)
	}
	// Season only outside the event window.
	if got := resolver.Resolve(deluxe, date(2026, time.July, 20)); got != 1040000 {
		t.Fatalf("expected season-only price 1040000, got %d", got)
	}
}

func TestResolver_OverrideBeatsMultipliers(t *testing.T) {
	store := NewRuleStore()
	store.UpsertSeason(domain.Season{
		ID: "summer",
		StartDay: domain.MonthDay{Month: time.June, Day: 1},
		EndDay:   domain.MonthDay{Month: time.August, Day: 31},
		Multiplier: 1.3, Active: true,
	})
	store.UpsertRule(domain.PricingRule{
		ID: "r1", RoomTypeID: "deluxe", Date: date(2026, time.July, 11), Price: 999999, Active: true,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	if got := resolver.Resolve(deluxe, date(2026, time.July, 11)); got != 999999 {
		t.Fatalf("expected override 999999 to bypass multipliers, got %d", got)
	}
}

func TestResolver_InactiveOverrideIgnored(t *testing.T) {
	store := NewRuleStore()
	store.UpsertRule(domain.PricingRule{
		ID: "r1", RoomTypeID: "deluxe", Date: date(2026, time.July, 11), Price: 1, Active: false,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	if got := resolver.Resolve(deluxe, date(2026, time.July, 11)); got != 800000 {
		t.Fatalf("expected inactive override ignored, got %d", got)
	}
}

func TestResolver_WrappedSeason(t *testing.T) {
	store := NewRuleStore()
	store.UpsertSeason(domain.Season{
		ID: "winter",
		StartDay: domain.MonthDay{Month: time.December, Day: 1},
		EndDay:   domain.MonthDay{Month: time.February, Day: 28},
		Multiplier: 2.0, Active: true,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	if got := resolver.Resolve(deluxe, date(2026, time.January, 15)); got != 1600000 {
		t.Fatalf("expected wrapped season to match Jan 15, got %d", got)
	}
	if got := resolver.Resolve(deluxe, date(2026, time.December, 25)); got != 1600000 {
		t.Fatalf("expected wrapped season to match Dec 25, got %d", got)
	}
	if got := resolver.Resolve(deluxe, date(2026, time.June, 1)); got != 800000 {
		t.Fatalf("expected June 1 outside wrapped season, got %d", got)
	}
}

func TestResolver_OverlappingSeasonsPickSmallestID(t *testing.T) {
	store := NewRuleStore()
	store.UpsertSeason(domain.Season{
		ID: "b-late-summer",
		StartDay: domain.MonthDay{Month: time.July, Day: 1},
		EndDay:   domain.MonthDay{Month: time.September, Day: 30},
		Multiplier: 1.1, Active: true,
	})
	store.UpsertSeason(domain.Season{
		ID: "a-summer",
		StartDay: domain.MonthDay{Month: time.June, Day: 1},
		EndDay:   domain.MonthDay{Month: time.August, Day: 31},
		Multiplier: 1.3, Active: true,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	// Both match July 15; the lexicographically smallest ID wins.
	if got := resolver.Resolve(deluxe, date(2026, time.July, 15)); got != 1040000 {
		t.Fatalf("expected a-summer (1.3) selected, got %d", got)
	}
}

func TestResolver_EventPriorityAndTiebreak(t *testing.T) {
	store := NewRuleStore()
	store.UpsertEvent(domain.SpecialEvent{
		ID: "low", StartDate: date(2026, time.July, 10), EndDate: date(2026, time.July, 12),
		Multiplier: 1.2, Priority: 1, Active: true,
	})
	store.UpsertEvent(domain.SpecialEvent{
		ID: "high", StartDate: date(2026, time.July, 10), EndDate: date(2026, time.July, 12),
		Multiplier: 1.5, Priority: 5, Active: true,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	if got := resolver.Resolve(deluxe, date(2026, time.July, 11)); got != 1200000 {
		t.Fatalf("expected highest-priority event (1.5), got %d", got)
	}

	// Equal priority breaks ties by ID ascending.
	store2 := NewRuleStore()
	store2.UpsertEvent(domain.SpecialEvent{
		ID: "zz", StartDate: date(2026, time.July, 10), EndDate: date(2026, time.July, 12),
		Multiplier: 2.0, Priority: 3, Active: true,
	})
	store2.UpsertEvent(domain.SpecialEvent{
		ID: "aa", StartDate: date(2026, time.July, 10), EndDate: date(2026, time.July, 12),
		Multiplier: 1.5, Priority: 3, Active: true,
	})
	resolver2 := NewResolver(store2.Snapshot(), nil)
	if got := resolver2.Resolve(deluxe, date(2026, time.July, 11)); got != 1200000 {
		t.Fatalf("expected event aa (1.5) to win the tie, got %d", got)
	}
}

func TestResolver_EventRoomScoping(t *testing.T) {
	store := NewRuleStore()
	store.UpsertEvent(domain.SpecialEvent{
		ID: "suite-only", StartDate: date(2026, time.July, 10), EndDate: date(2026, time.July, 12),
		Multiplier: 1.5, RoomTypeIDs: []string{"suite"}, Active: true,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	if got := resolver.Resolve(deluxe, date(2026, time.July, 11)); got != 800000 {
		t.Fatalf("expected scoped event not to apply to deluxe, got %d", got)
	}
	suite := domain.RoomType{ID: "suite", BasePrice: 1000000}
	if got := resolver.Resolve(suite, date(2026, time.July, 11)); got != 1500000 {
		t.Fatalf("expected scoped event to apply to suite, got %d", got)
	}
}

func TestResolver_RoundsToNearestMinorUnit(t *testing.T) {
	store := NewRuleStore()
	store.UpsertSeason(domain.Season{
		ID: "odd",
		StartDay: domain.MonthDay{Month: time.July, Day: 1},
		EndDay:   domain.MonthDay{Month: time.July, Day: 31},
		Multiplier: 1.0001, Active: true,
	})
	resolver := NewResolver(store.Snapshot(), nil)

	small := domain.RoomType{ID: "small", BasePrice: 3333}
	// 3333 * 1.0001 = 3333.3333 -> 3333
	if got := resolver.Resolve(small, date(2026, time.July, 15)); got != 3333 {
		t.Fatalf("expected rounded price 3333, got %d", got)
	}
}
