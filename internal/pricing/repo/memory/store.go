// Package memory provides an in-memory repo.Store used in tests and when
// running without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/pricing/repo"
)

// Store is an in-memory implementation of repo.Store.
type Store struct {
	mu        sync.RWMutex
	roomTypes map[string]domain.RoomType
	seasons   map[string]domain.Season
	events    map[string]domain.SpecialEvent
	rules     map[string]domain.PricingRule
}

func NewStore() *Store {
	return &Store{
		roomTypes: make(map[string]domain.RoomType),
		seasons:   make(map[string]domain.Season),
		events:    make(map[string]domain.SpecialEvent),
		rules:     make(map[string]domain.PricingRule),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) RoomType() repo.RoomTypeRepository         { return (*roomTypeRepo)(s) }
func (s *Store) Season() repo.SeasonRepository             { return (*seasonRepo)(s) }
func (s *Store) SpecialEvent() repo.SpecialEventRepository { return (*eventRepo)(s) }
func (s *Store) PricingRule() repo.PricingRuleRepository   { return (*ruleRepo)(s) }

type roomTypeRepo Store

func (r *roomTypeRepo) GetByID(_ context.Context, id string) (domain.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.roomTypes[id]
	if !ok {
		return domain.RoomType{}, domain.NewNotFoundError("room type", id)
	}
	return rt, nil
}

func (r *roomTypeRepo) List(_ context.Context) ([]domain.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomType, 0, len(r.roomTypes))
	for _, rt := range r.roomTypes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *roomTypeRepo) Upsert(_ context.Context, roomType domain.RoomType) (domain.RoomType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roomTypes[roomType.ID] = roomType
	return roomType, nil
}

func (r *roomTypeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roomTypes, id)
	return nil
}

type seasonRepo Store

func (r *seasonRepo) List(_ context.Context) ([]domain.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Season, 0, len(r.seasons))
	for _, season := range r.seasons {
		out = append(out, season)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *seasonRepo) Upsert(_ context.Context, season domain.Season) (domain.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seasons[season.ID] = season
	return season, nil
}

func (r *seasonRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seasons, id)
	return nil
}

type eventRepo Store

func (r *eventRepo) List(_ context.Context) ([]domain.SpecialEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SpecialEvent, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *eventRepo) Upsert(_ context.Context, event domain.SpecialEvent) (domain.SpecialEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event
	return event, nil
}

func (r *eventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

type ruleRepo Store

func (r *ruleRepo) GetByID(_ context.Context, id string) (domain.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	if !ok {
		return domain.PricingRule{}, domain.NewNotFoundError("pricing rule", id)
	}
	return rule, nil
}

func (r *ruleRepo) GetByRoomTypeAndDate(_ context.Context, roomTypeID string, date time.Time) (domain.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domain.DateKey(date)
	for _, rule := range r.rules {
		if rule.RoomTypeID == roomTypeID && domain.DateKey(rule.Date) == day {
			return rule, nil
		}
	}
	return domain.PricingRule{}, domain.NewNotFoundError("pricing rule", roomTypeID+"@"+day)
}

func (r *ruleRepo) List(_ context.Context) ([]domain.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PricingRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].RoomTypeID < out[j].RoomTypeID
	})
	return out, nil
}

func (r *ruleRepo) Upsert(_ context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(rule)
	return rule, nil
}

// BulkUpsert applies the batch atomically under the store lock.
func (r *ruleRepo) BulkUpsert(_ context.Context, rules []domain.PricingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range rules {
		r.upsertLocked(rule)
	}
	return nil
}

// upsertLocked keeps the one-rule-per-(room type, date) invariant.
func (r *ruleRepo) upsertLocked(rule domain.PricingRule) {
	day := domain.DateKey(rule.Date)
	for id, existing := range r.rules {
		if id != rule.ID && existing.RoomTypeID == rule.RoomTypeID && domain.DateKey(existing.Date) == day {
			delete(r.rules, id)
		}
	}
	r.rules[rule.ID] = rule
}

func (r *ruleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, id)
	return nil
}
