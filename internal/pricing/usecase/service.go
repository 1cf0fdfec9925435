// Package usecase provides the business logic over the pricing engine:
// rule CRUD, bulk adjustments, calendar queries, and import/export.
package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/cache"
	"github.com/staynest/pricingservice/internal/pricing"
	"github.com/staynest/pricingservice/internal/pricing/codec"
	"github.com/staynest/pricingservice/internal/pricing/repo"
	"github.com/staynest/pricingservice/internal/shared/log"
)

// Service coordinates the pricing engine components. It owns the in-memory
// RuleStore for the session; the repository is the persistence seam and the
// cache is optional.
type Service struct {
	store    repo.Store
	rules    *pricing.RuleStore
	engine   *pricing.BulkAdjustmentEngine
	codec    *codec.Codec
	cache    *cache.Cache
	cacheTTL time.Duration
	loaded   atomic.Bool
}

// NewService creates a pricing service. cache may be nil.
func NewService(store repo.Store, priceCache *cache.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		store:    store,
		rules:    pricing.NewRuleStore(),
		engine:   pricing.NewBulkAdjustmentEngine(nil),
		codec:    codec.New(nil),
		cache:    priceCache,
		cacheTTL: cacheTTL,
	}
}

// WithClock replaces the engine and codec clocks; used in tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.engine = pricing.NewBulkAdjustmentEngine(clock)
	s.codec = codec.New(clock)
	return s
}

// Load hydrates the in-memory rule store from the repository. Call once at
// startup; the session is single-writer after that.
func (s *Service) Load(ctx context.Context) error {
	seasons, err := s.store.Season().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load seasons: %w", err)
	}
	for _, season := range seasons {
		s.rules.UpsertSeason(season)
	}

	events, err := s.store.SpecialEvent().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load special events: %w", err)
	}
	for _, event := range events {
		s.rules.UpsertEvent(event)
	}

	ruleList, err := s.store.PricingRule().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pricing rules: %w", err)
	}
	s.rules.UpsertRules(ruleList)

	s.loaded.Store(true)
	log.Info(ctx, "Pricing state loaded",
		zap.Int("seasons", len(seasons)),
		zap.Int("events", len(events)),
		zap.Int("rules", len(ruleList)))
	return nil
}

// Ready reports whether the rule store has been hydrated. Readiness
// probes use this to keep traffic away until Load has run.
func (s *Service) Ready() bool {
	return s.loaded.Load()
}

// resolver builds a resolver over the current snapshot.
func (s *Service) resolver(ctx context.Context) *pricing.Resolver {
	return pricing.NewResolver(s.rules.Snapshot(), log.L(ctx))
}

// invalidateCalendars drops cached projections after any mutation.
func (s *Service) invalidateCalendars(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCalendars(ctx); err != nil {
		log.Warn(ctx, "Failed to invalidate calendar cache", zap.Error(err))
	}
}
