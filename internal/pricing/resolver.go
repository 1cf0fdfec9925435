package pricing

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

// Resolver computes the effective nightly price for a (room type, date) pair
// over a store snapshot. Resolution is pure: an active exact-match override
// wins outright; otherwise the base price is composed with the matching
// season multiplier and the highest-priority matching event multiplier.
type Resolver struct {
	snap   Snapshot
	logger *zap.Logger
	memo   map[string]int64
}

func NewResolver(snap Snapshot, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		snap:   snap,
		logger: logger,
		memo:   make(map[string]int64),
	}
}

// Resolve returns the effective price for the room type on the given date.
// Inputs are static for the life of the resolver, so results are memoized
// per (room type ID, date).
func (r *Resolver) Resolve(roomType domain.RoomType, date time.Time) int64 {
	dateKey := domain.DateKey(date)
	key := ruleKey(roomType.ID, dateKey)
	if price, ok := r.memo[key]; ok {
		return price
	}

	price := r.resolve(roomType, date, dateKey)
	r.memo[key] = price
	return price
}

func (r *Resolver) resolve(roomType domain.RoomType, date time.Time, dateKey string) int64 {
	// An explicit active override bypasses all multiplier composition.
	if rule, ok := r.snap.Override(roomType.ID, dateKey); ok {
		return rule.Price
	}

	seasonMult := 1.0
	if season, ok := r.seasonFor(date); ok {
		seasonMult = season.Multiplier
	}

	eventMult := 1.0
	if event, ok := r.eventFor(roomType.ID, date); ok {
		eventMult = event.Multiplier
	}

	return int64(math.Round(float64(roomType.BasePrice) * seasonMult * eventMult))
}

// seasonFor returns the active season covering the date's month-day. At most
// one is expected; overlapping data resolves to the lexicographically
// smallest ID and is logged for data-quality review.
func (r *Resolver) seasonFor(date time.Time) (domain.Season, bool) {
	var matches []domain.Season
	for _, season := range r.snap.seasons {
		if season.Contains(date) {
			matches = append(matches, season)
		}
	}
	if len(matches) == 0 {
		return domain.Season{}, false
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		r.logger.Warn("Multiple seasons match the same date",
			zap.String("date", domain.DateKey(date)),
			zap.Strings("season_ids", ids),
			zap.String("selected", matches[0].ID))
	}
	return matches[0], true
}

// eventFor returns the applicable active event with the strictly highest
// priority, breaking ties by ID ascending.
func (r *Resolver) eventFor(roomTypeID string, date time.Time) (domain.SpecialEvent, bool) {
	var best domain.SpecialEvent
	found := false
	for _, event := range r.snap.events {
		if !event.Matches(date) || !event.AppliesTo(roomTypeID) {
			continue
		}
		if !found {
			best, found = event, true
			continue
		}
		if event.Priority > best.Priority ||
			(event.Priority == best.Priority && event.ID < best.ID) {
			best = event
		}
	}
	return best, found
}
