package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/cache"
	"github.com/staynest/pricingservice/internal/metrics"
	"github.com/staynest/pricingservice/internal/pricing"
	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/shared/log"
)

// ResolvePrice returns the effective price for one (room type, date) pair.
func (s *Service) ResolvePrice(ctx context.Context, roomTypeID string, date time.Time) (int64, error) {
	roomType, err := s.store.RoomType().GetByID(ctx, roomTypeID)
	if err != nil {
		return 0, err
	}
	price := s.resolver(ctx).Resolve(roomType, date)
	metrics.PricesResolved.Inc()
	return price, nil
}

// Calendar projects daily prices for one room type over [start, end].
// Results are cached per (room type, range) until the next mutation.
func (s *Service) Calendar(ctx context.Context, roomTypeID string, start, end time.Time) ([]domain.DayPrice, error) {
	roomType, err := s.store.RoomType().GetByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		days, err := s.cache.GetCalendar(ctx, roomTypeID, start, end)
		if err == nil {
			metrics.CalendarCacheHits.WithLabelValues("hit").Inc()
			return days, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn(ctx, "Calendar cache lookup failed", zap.Error(err))
		}
		metrics.CalendarCacheHits.WithLabelValues("miss").Inc()
	}

	projector := pricing.NewCalendarProjector(s.resolver(ctx))
	days, err := projector.Project(roomType, start, end)
	if err != nil {
		return nil, err
	}
	metrics.PricesResolved.Add(float64(len(days)))

	if s.cache != nil {
		if err := s.cache.SetCalendar(ctx, roomTypeID, start, end, days, s.cacheTTL); err != nil {
			log.Warn(ctx, "Failed to cache calendar projection", zap.Error(err))
		}
	}
	return days, nil
}

// CalendarGrid projects several room types over the same range, one row per
// date with a price per room type. An empty roomTypeIDs selects all.
func (s *Service) CalendarGrid(ctx context.Context, roomTypeIDs []string, start, end time.Time) ([]domain.CalendarDay, error) {
	var roomTypes []domain.RoomType
	if len(roomTypeIDs) == 0 {
		all, err := s.store.RoomType().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list room types: %w", err)
		}
		roomTypes = all
	} else {
		for _, id := range roomTypeIDs {
			rt, err := s.store.RoomType().GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			roomTypes = append(roomTypes, rt)
		}
	}

	projector := pricing.NewCalendarProjector(s.resolver(ctx))
	grid, err := projector.Grid(ctx, roomTypes, start, end)
	if err != nil {
		return nil, err
	}
	metrics.PricesResolved.Add(float64(len(grid) * len(roomTypes)))
	return grid, nil
}
