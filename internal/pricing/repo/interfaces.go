package repo

import (
	"context"
	"time"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

type RoomTypeRepository interface {
	// GetByID retrieves a room type by ID
	GetByID(ctx context.Context, id string) (domain.RoomType, error)

	// List retrieves all room types
	List(ctx context.Context) ([]domain.RoomType, error)

	// Upsert creates or updates a room type
	Upsert(ctx context.Context, roomType domain.RoomType) (domain.RoomType, error)

	// Delete deletes a room type by ID
	Delete(ctx context.Context, id string) error
}

type SeasonRepository interface {
	// List retrieves all seasons
	List(ctx context.Context) ([]domain.Season, error)

	// Upsert creates or updates a season
	Upsert(ctx context.Context, season domain.Season) (domain.Season, error)

	// Delete deletes a season by ID
	Delete(ctx context.Context, id string) error
}

type SpecialEventRepository interface {
	// List retrieves all special events
	List(ctx context.Context) ([]domain.SpecialEvent, error)

	// Upsert creates or updates a special event
	Upsert(ctx context.Context, event domain.SpecialEvent) (domain.SpecialEvent, error)

	// Delete deletes a special event by ID
	Delete(ctx context.Context, id string) error
}

type PricingRuleRepository interface {
	// GetByID retrieves a pricing rule by ID
	GetByID(ctx context.Context, id string) (domain.PricingRule, error)

	// GetByRoomTypeAndDate retrieves the rule targeting a (room type, date) pair
	GetByRoomTypeAndDate(ctx context.Context, roomTypeID string, date time.Time) (domain.PricingRule, error)

	// List retrieves all pricing rules
	List(ctx context.Context) ([]domain.PricingRule, error)

	// Upsert creates or updates a single pricing rule
	Upsert(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error)

	// BulkUpsert persists a batch of rules as a single transaction.
	// Either every rule in the batch lands or none do.
	BulkUpsert(ctx context.Context, rules []domain.PricingRule) error

	// Delete deletes a pricing rule by ID
	Delete(ctx context.Context, id string) error
}

// Store aggregates the pricing repositories behind one persistence seam.
type Store interface {
	RoomType() RoomTypeRepository
	Season() SeasonRepository
	SpecialEvent() SpecialEventRepository
	PricingRule() PricingRuleRepository
	Close() error
}
