package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/pricing"
	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/shared/log"
)

// RuleInput carries the fields of a single pricing rule edit. Everything but
// the reason is required.
type RuleInput struct {
	RoomTypeID string    `json:"room_type_id"`
	Date       time.Time `json:"date"`
	Price      int64     `json:"price"`
	Reason     string    `json:"reason,omitempty"`
}

// CreateRule creates or replaces the override for a (room type, date) pair.
func (s *Service) CreateRule(ctx context.Context, input RuleInput) (domain.PricingRule, error) {
	if err := s.validateRuleInput(ctx, input); err != nil {
		return domain.PricingRule{}, err
	}

	rule := domain.PricingRule{
		ID:         pricing.DeterministicRuleID(input.RoomTypeID, input.Date),
		RoomTypeID: input.RoomTypeID,
		Date:       domain.DayOf(input.Date),
		Price:      input.Price,
		Reason:     strings.TrimSpace(input.Reason),
		Active:     true,
		CreatedAt:  time.Now(),
	}

	saved, err := s.store.PricingRule().Upsert(ctx, rule)
	if err != nil {
		log.Error(ctx, "Failed to save pricing rule",
			zap.String("room_type_id", rule.RoomTypeID),
			zap.String("date", domain.DateKey(rule.Date)),
			zap.Error(err))
		return domain.PricingRule{}, fmt.Errorf("failed to save pricing rule: %w", err)
	}
	s.rules.UpsertRule(saved)
	s.invalidateCalendars(ctx)

	log.Info(ctx, "Pricing rule saved",
		zap.String("rule_id", saved.ID),
		zap.String("room_type_id", saved.RoomTypeID),
		zap.String("date", domain.DateKey(saved.Date)),
		zap.Int64("price", saved.Price))
	return saved, nil
}

// UpdateRule updates an existing rule's price and reason.
func (s *Service) UpdateRule(ctx context.Context, id string, input RuleInput) (domain.PricingRule, error) {
	existing, err := s.store.PricingRule().GetByID(ctx, id)
	if err != nil {
		return domain.PricingRule{}, err
	}
	if input.Price < 0 {
		return domain.PricingRule{}, domain.NewValidationError("price must not be negative",
			fmt.Sprintf("got %d", input.Price))
	}

	existing.Price = input.Price
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		existing.Reason = reason
	}

	saved, err := s.store.PricingRule().Upsert(ctx, existing)
	if err != nil {
		return domain.PricingRule{}, fmt.Errorf("failed to update pricing rule: %w", err)
	}
	s.rules.UpsertRule(saved)
	s.invalidateCalendars(ctx)
	return saved, nil
}

// DeleteRule removes a rule by ID.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	if _, err := s.store.PricingRule().GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.PricingRule().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pricing rule: %w", err)
	}
	s.rules.RemoveRule(id)
	s.invalidateCalendars(ctx)

	log.Info(ctx, "Pricing rule deleted", zap.String("rule_id", id))
	return nil
}

// ListRules returns all pricing rules.
func (s *Service) ListRules(ctx context.Context) ([]domain.PricingRule, error) {
	return s.store.PricingRule().List(ctx)
}

func (s *Service) validateRuleInput(ctx context.Context, input RuleInput) error {
	if input.RoomTypeID == "" {
		return domain.NewValidationError("room type is required", "")
	}
	if input.Date.IsZero() {
		return domain.NewValidationError("date is required", "")
	}
	if input.Price < 0 {
		return domain.NewValidationError("price must not be negative",
			fmt.Sprintf("got %d", input.Price))
	}
	if _, err := s.store.RoomType().GetByID(ctx, input.RoomTypeID); err != nil {
		return err
	}
	return nil
}

// UpsertSeason validates and saves a season.
func (s *Service) UpsertSeason(ctx context.Context, season domain.Season) (domain.Season, error) {
	if season.Name == "" {
		return domain.Season{}, domain.NewValidationError("season name is required", "")
	}
	if season.Multiplier <= 0 {
		return domain.Season{}, domain.NewValidationError("multiplier must be positive",
			fmt.Sprintf("got %v", season.Multiplier))
	}
	if season.ID == "" {
		season.ID = uuid.New().String()
	}

	saved, err := s.store.Season().Upsert(ctx, season)
	if err != nil {
		return domain.Season{}, fmt.Errorf("failed to save season: %w", err)
	}
	s.rules.UpsertSeason(saved)
	s.invalidateCalendars(ctx)

	log.Info(ctx, "Season saved",
		zap.String("season_id", saved.ID),
		zap.String("window", saved.StartDay.String()+".."+saved.EndDay.String()),
		zap.Float64("multiplier", saved.Multiplier))
	return saved, nil
}

// DeleteSeason removes a season by ID.
func (s *Service) DeleteSeason(ctx context.Context, id string) error {
	if err := s.store.Season().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete season: %w", err)
	}
	s.rules.RemoveSeason(id)
	s.invalidateCalendars(ctx)
	return nil
}

// ListSeasons returns all seasons.
func (s *Service) ListSeasons(ctx context.Context) ([]domain.Season, error) {
	return s.store.Season().List(ctx)
}

// UpsertEvent validates and saves a special event.
func (s *Service) UpsertEvent(ctx context.Context, event domain.SpecialEvent) (domain.SpecialEvent, error) {
	if event.Name == "" {
		return domain.SpecialEvent{}, domain.NewValidationError("event name is required", "")
	}
	if event.Multiplier <= 0 {
		return domain.SpecialEvent{}, domain.NewValidationError("multiplier must be positive",
			fmt.Sprintf("got %v", event.Multiplier))
	}
	if event.StartDate.IsZero() || event.EndDate.IsZero() {
		return domain.SpecialEvent{}, domain.NewValidationError("event date range is required", "")
	}
	if domain.DayOf(event.EndDate).Before(domain.DayOf(event.StartDate)) {
		return domain.SpecialEvent{}, domain.NewValidationError("end date must not be before start date",
			fmt.Sprintf("start=%s end=%s", domain.DateKey(event.StartDate), domain.DateKey(event.EndDate)))
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	saved, err := s.store.SpecialEvent().Upsert(ctx, event)
	if err != nil {
		return domain.SpecialEvent{}, fmt.Errorf("failed to save special event: %w", err)
	}
	s.rules.UpsertEvent(saved)
	s.invalidateCalendars(ctx)

	log.Info(ctx, "Special event saved",
		zap.String("event_id", saved.ID),
		zap.Int("priority", saved.Priority),
		zap.Float64("multiplier", saved.Multiplier))
	return saved, nil
}

// DeleteEvent removes a special event by ID.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.SpecialEvent().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete special event: %w", err)
	}
	s.rules.RemoveEvent(id)
	s.invalidateCalendars(ctx)
	return nil
}

// ListEvents returns all special events.
func (s *Service) ListEvents(ctx context.Context) ([]domain.SpecialEvent, error) {
	return s.store.SpecialEvent().List(ctx)
}

// UpsertRoomType validates and saves a room type.
func (s *Service) UpsertRoomType(ctx context.Context, roomType domain.RoomType) (domain.RoomType, error) {
	if roomType.Name == "" {
		return domain.RoomType{}, domain.NewValidationError("room type name is required", "")
	}
	if roomType.BasePrice <= 0 {
		return domain.RoomType{}, domain.NewValidationError("base price must be positive",
			fmt.Sprintf("got %d", roomType.BasePrice))
	}
	if roomType.ID == "" {
		roomType.ID = uuid.New().String()
	}

	saved, err := s.store.RoomType().Upsert(ctx, roomType)
	if err != nil {
		return domain.RoomType{}, fmt.Errorf("failed to save room type: %w", err)
	}
	s.invalidateCalendars(ctx)
	return saved, nil
}

// ListRoomTypes returns all room types.
func (s *Service) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return s.store.RoomType().List(ctx)
}
