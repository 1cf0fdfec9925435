package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/metrics"
	"github.com/staynest/pricingservice/internal/pricing"
	"github.com/staynest/pricingservice/internal/pricing/codec"
	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/shared/log"
	"github.com/staynest/pricingservice/internal/tracing"
)

// ImportSummary reports the outcome of a rules import.
type ImportSummary struct {
	Imported int                   `json:"imported"`
	Skipped  int                   `json:"skipped"`
	Errors   []*domain.DomainError `json:"errors,omitempty"`
}

// ImportRules parses rules from r and persists the parsed set as one batch.
// A bad header fails the whole import; bad rows are skipped and reported.
func (s *Service) ImportRules(ctx context.Context, r io.Reader) (ImportSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "pricing.ImportRules")
	defer span.End()

	result, err := s.codec.Import(r)
	if err != nil {
		log.Warn(ctx, "Import aborted", zap.Error(err))
		return ImportSummary{}, err
	}

	if len(result.Rules) > 0 {
		if err := s.store.PricingRule().BulkUpsert(ctx, result.Rules); err != nil {
			return ImportSummary{}, fmt.Errorf("failed to persist imported rules: %w", err)
		}
		s.rules.UpsertRules(result.Rules)
		s.invalidateCalendars(ctx)
	}

	metrics.ImportRowsTotal.WithLabelValues("imported").Add(float64(len(result.Rules)))
	metrics.ImportRowsTotal.WithLabelValues("skipped").Add(float64(len(result.Skipped)))

	log.Info(ctx, "Rules imported",
		zap.Int("imported", len(result.Rules)),
		zap.Int("skipped", len(result.Skipped)))

	return ImportSummary{
		Imported: len(result.Rules),
		Skipped:  len(result.Skipped),
		Errors:   result.Skipped,
	}, nil
}

// ExportRules writes all pricing rules to w in the template format.
func (s *Service) ExportRules(ctx context.Context, w io.Writer) error {
	rules, err := s.store.PricingRule().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pricing rules: %w", err)
	}

	roomTypes, err := s.store.RoomType().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list room types: %w", err)
	}
	names := make(map[string]string, len(roomTypes))
	for _, rt := range roomTypes {
		names[rt.ID] = rt.Name
	}

	if err := s.codec.Export(w, rules, names); err != nil {
		return fmt.Errorf("failed to export rules: %w", err)
	}

	log.Info(ctx, "Rules exported", zap.Int("rules", len(rules)))
	return nil
}

// ExportSnapshot writes a full-state export over [start, end]: one row per
// (room type, date) with the base and the resolved current price.
func (s *Service) ExportSnapshot(ctx context.Context, w io.Writer, start, end time.Time) error {
	first, last := domain.DayOf(start), domain.DayOf(end)
	if last.Before(first) {
		return domain.NewValidationError("end date must not be before start date",
			fmt.Sprintf("start=%s end=%s", domain.DateKey(first), domain.DateKey(last)))
	}

	roomTypes, err := s.store.RoomType().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list room types: %w", err)
	}

	resolver := s.resolver(ctx)
	projector := pricing.NewCalendarProjector(resolver)

	var rows []codec.SnapshotRow
	for _, rt := range roomTypes {
		days, err := projector.Project(rt, first, last)
		if err != nil {
			return err
		}
		for _, day := range days {
			row := codec.SnapshotRow{
				Date:         day.Date,
				RoomType:     rt,
				CurrentPrice: day.Price,
			}
			if rule, ok := s.rules.RuleFor(rt.ID, domain.DateKey(day.Date)); ok && rule.Active {
				row.Reason = rule.Reason
			}
			rows = append(rows, row)
		}
	}

	if err := s.codec.ExportSnapshot(w, rows); err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}

	log.Info(ctx, "Snapshot exported",
		zap.Int("room_types", len(roomTypes)),
		zap.Int("rows", len(rows)))
	return nil
}
