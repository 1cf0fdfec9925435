package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/metrics"
	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/shared/log"
	"github.com/staynest/pricingservice/internal/tracing"
)

// PreviewBulk computes the effect of a bulk adjustment without committing.
func (s *Service) PreviewBulk(ctx context.Context, spec domain.BulkAdjustmentSpec) ([]domain.BulkPreviewRow, error) {
	roomTypes, err := s.store.RoomType().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}

	rows, err := s.engine.Preview(spec, roomTypes)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, "Bulk adjustment previewed",
		zap.Int("room_types", len(rows)),
		zap.String("adjustment_type", string(spec.AdjustmentType)),
		zap.String("operation", string(spec.Operation)))
	return rows, nil
}

// CommitBulk expands the spec and persists the batch transactionally.
// Either every expanded rule lands or none do; rule IDs are deterministic so
// retrying the same spec overwrites the same rows.
func (s *Service) CommitBulk(ctx context.Context, spec domain.BulkAdjustmentSpec) ([]domain.PricingRule, error) {
	ctx, span := tracing.StartSpan(ctx, "pricing.CommitBulk")
	defer span.End()

	roomTypes, err := s.store.RoomType().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}

	rules, err := s.engine.Expand(spec, roomTypes)
	if err != nil {
		metrics.BulkCommitsTotal.WithLabelValues("failed").Inc()
		log.Warn(ctx, "Bulk adjustment rejected",
			zap.String("adjustment_type", string(spec.AdjustmentType)),
			zap.String("operation", string(spec.Operation)),
			zap.Error(err))
		return nil, err
	}
	metrics.BulkExpansionSize.Observe(float64(len(rules)))

	if err := s.store.PricingRule().BulkUpsert(ctx, rules); err != nil {
		metrics.BulkCommitsTotal.WithLabelValues("failed").Inc()
		log.Error(ctx, "Failed to persist bulk adjustment",
			zap.Int("rules", len(rules)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to persist bulk adjustment: %w", err)
	}

	// The batch is durable; apply it to the working set.
	s.rules.UpsertRules(rules)
	s.invalidateCalendars(ctx)
	metrics.BulkCommitsTotal.WithLabelValues("committed").Inc()

	log.Info(ctx, "Bulk adjustment committed",
		zap.Int("rules", len(rules)),
		zap.Int("room_types", len(spec.RoomTypeIDs)),
		zap.String("date_filter", string(spec.Filter.Kind)),
		zap.String("reason", spec.Reason))
	return rules, nil
}
