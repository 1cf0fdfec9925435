package pricing

import (
	"sync"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

// ruleKey identifies the (room type, date) pair an override applies to.
func ruleKey(roomTypeID string, dateKey string) string {
	return roomTypeID + "|" + dateKey
}

// RuleStore owns the seasons, special events and explicit pricing rules for a
// session. It is the sole owner of their lifetimes: entities are created by
// operator action or bulk expansion and removed only explicitly. Nothing
// expires on its own; Active is a manual flag.
type RuleStore struct {
	mu      sync.RWMutex
	seasons map[string]domain.Season
	events  map[string]domain.SpecialEvent
	rules   map[string]domain.PricingRule
	byPair  map[string]string // roomTypeID|date -> rule ID
	order   []string          // Maintain rule insertion order
}

func NewRuleStore() *RuleStore {
	return &RuleStore{
		seasons: make(map[string]domain.Season),
		events:  make(map[string]domain.SpecialEvent),
		rules:   make(map[string]domain.PricingRule),
		byPair:  make(map[string]string),
	}
}

// UpsertSeason adds or replaces a season.
func (s *RuleStore) UpsertSeason(season domain.Season) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[season.ID] = season
}

// RemoveSeason deletes a season by ID.
func (s *RuleStore) RemoveSeason(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seasons, id)
}

// Seasons returns all seasons, active or not.
func (s *RuleStore) Seasons() []domain.Season {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Season, 0, len(s.seasons))
	for _, season := range s.seasons {
		out = append(out, season)
	}
	return out
}

// UpsertEvent adds or replaces a special event.
func (s *RuleStore) UpsertEvent(event domain.SpecialEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
}

// RemoveEvent deletes a special event by ID.
func (s *RuleStore) RemoveEvent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
}

// Events returns all special events, active or not.
func (s *RuleStore) Events() []domain.SpecialEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SpecialEvent, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event)
	}
	return out
}

// Rule returns a pricing rule by ID.
func (s *RuleStore) Rule(id string) (domain.PricingRule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	return r, ok
}

// RuleFor returns the rule targeting the given (room type, date) pair.
func (s *RuleStore) RuleFor(roomTypeID string, dateKey string) (domain.PricingRule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPair[ruleKey(roomTypeID, dateKey)]
	if !ok {
		return domain.PricingRule{}, false
	}
	r, ok := s.rules[id]
	return r, ok
}

// Rules returns all pricing rules in insertion order.
func (s *RuleStore) Rules() []domain.PricingRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PricingRule, 0, len(s.rules))
	for _, id := range s.order {
		if r, exists := s.rules[id]; exists {
			out = append(out, r)
		}
	}
	return out
}

// UpsertRule adds or replaces a pricing rule. A rule that targets the same
// (room type, date) pair as an existing rule replaces it.
func (s *RuleStore) UpsertRule(rule domain.PricingRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertRuleLocked(rule)
}

// UpsertRules applies a batch of rules as a unit. The in-memory apply cannot
// fail partway; transactional persistence is the repository's concern.
func (s *RuleStore) UpsertRules(rules []domain.PricingRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rule := range rules {
		s.upsertRuleLocked(rule)
	}
}

func (s *RuleStore) upsertRuleLocked(rule domain.PricingRule) {
	key := ruleKey(rule.RoomTypeID, domain.DateKey(rule.Date))
	if prevID, exists := s.byPair[key]; exists && prevID != rule.ID {
		s.removeRuleLocked(prevID)
	}
	if _, exists := s.rules[rule.ID]; !exists {
		s.order = append(s.order, rule.ID)
	}
	s.rules[rule.ID] = rule
	s.byPair[key] = rule.ID
}

// RemoveRule deletes a pricing rule by ID.
func (s *RuleStore) RemoveRule(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeRuleLocked(id)
}

func (s *RuleStore) removeRuleLocked(id string) {
	rule, exists := s.rules[id]
	if !exists {
		return
	}
	key := ruleKey(rule.RoomTypeID, domain.DateKey(rule.Date))
	if s.byPair[key] == id {
		delete(s.byPair, key)
	}
	for i, orderID := range s.order {
		if orderID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	delete(s.rules, id)
}

// Snapshot captures an immutable view of the store for a resolution pass.
// Resolvers built over a snapshot never observe later mutations.
func (s *RuleStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		seasons:   make([]domain.Season, 0, len(s.seasons)),
		events:    make([]domain.SpecialEvent, 0, len(s.events)),
		overrides: make(map[string]domain.PricingRule, len(s.rules)),
	}
	for _, season := range s.seasons {
		if season.Active {
			snap.seasons = append(snap.seasons, season)
		}
	}
	for _, event := range s.events {
		if event.Active {
			snap.events = append(snap.events, event)
		}
	}
	for _, rule := range s.rules {
		if rule.Active {
			snap.overrides[ruleKey(rule.RoomTypeID, domain.DateKey(rule.Date))] = rule
		}
	}
	return snap
}

// Snapshot is a frozen view of active seasons, events and overrides.
type Snapshot struct {
	seasons   []domain.Season
	events    []domain.SpecialEvent
	overrides map[string]domain.PricingRule
}

// Override returns the active override rule for a (room type, date) pair.
func (s Snapshot) Override(roomTypeID string, dateKey string) (domain.PricingRule, bool) {
	r, ok := s.overrides[ruleKey(roomTypeID, dateKey)]
	return r, ok
}
