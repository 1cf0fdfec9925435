package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/pricing/repo"
)

// Store represents the PostgreSQL store implementation
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store
func NewStore(connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: pool}, nil
}

// NewStoreWithPool creates a new PostgreSQL store with an existing pool
func NewStoreWithPool(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &Store{db: pool}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// RoomType returns the room type repository implementation
func (s *Store) RoomType() repo.RoomTypeRepository {
	return &roomTypeRepository{store: s}
}

// Season returns the season repository implementation
func (s *Store) Season() repo.SeasonRepository {
	return &seasonRepository{store: s}
}

// SpecialEvent returns the special event repository implementation
func (s *Store) SpecialEvent() repo.SpecialEventRepository {
	return &specialEventRepository{store: s}
}

// PricingRule returns the pricing rule repository implementation
func (s *Store) PricingRule() repo.PricingRuleRepository {
	return &pricingRuleRepository{store: s}
}

type roomTypeRepository struct {
	store *Store
}

func (r *roomTypeRepository) GetByID(ctx context.Context, id string) (domain.RoomType, error) {
	const q = `SELECT id, name, base_price, description FROM room_types WHERE id = $1`
	var rt domain.RoomType
	err := r.store.db.QueryRow(ctx, q, id).Scan(&rt.ID, &rt.Name, &rt.BasePrice, &rt.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RoomType{}, domain.NewNotFoundError("room type", id)
	}
	if err != nil {
		return domain.RoomType{}, fmt.Errorf("failed to get room type: %w", err)
	}
	return rt, nil
}

func (r *roomTypeRepository) List(ctx context.Context) ([]domain.RoomType, error) {
	const q = `SELECT id, name, base_price, description FROM room_types ORDER BY id`
	rows, err := r.store.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	defer rows.Close()

	var out []domain.RoomType
	for rows.Next() {
		var rt domain.RoomType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.BasePrice, &rt.Description); err != nil {
			return nil, fmt.Errorf("failed to scan room type: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *roomTypeRepository) Upsert(ctx context.Context, roomType domain.RoomType) (domain.RoomType, error) {
	const q = `
		INSERT INTO room_types (id, name, base_price, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			base_price = EXCLUDED.base_price,
			description = EXCLUDED.description`
	if _, err := r.store.db.Exec(ctx, q, roomType.ID, roomType.Name, roomType.BasePrice, roomType.Description); err != nil {
		return domain.RoomType{}, fmt.Errorf("failed to upsert room type: %w", err)
	}
	return roomType, nil
}

func (r *roomTypeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.db.Exec(ctx, `DELETE FROM room_types WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete room type: %w", err)
	}
	return nil
}

type seasonRepository struct {
	store *Store
}

func (r *seasonRepository) List(ctx context.Context) ([]domain.Season, error) {
	const q = `SELECT id, name, start_day, end_day, multiplier, active FROM seasons ORDER BY id`
	rows, err := r.store.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()

	var out []domain.Season
	for rows.Next() {
		var (
			season           domain.Season
			startDay, endDay string
		)
		if err := rows.Scan(&season.ID, &season.Name, &startDay, &endDay, &season.Multiplier, &season.Active); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		if season.StartDay, err = domain.ParseMonthDay(startDay); err != nil {
			return nil, fmt.Errorf("season %s has invalid start day: %w", season.ID, err)
		}
		if season.EndDay, err = domain.ParseMonthDay(endDay); err != nil {
			return nil, fmt.Errorf("season %s has invalid end day: %w", season.ID, err)
		}
		out = append(out, season)
	}
	return out, rows.Err()
}

func (r *seasonRepository) Upsert(ctx context.Context, season domain.Season) (domain.Season, error) {
	const q = `
		INSERT INTO seasons (id, name, start_day, end_day, multiplier, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_day = EXCLUDED.start_day,
			end_day = EXCLUDED.end_day,
			multiplier = EXCLUDED.multiplier,
			active = EXCLUDED.active`
	_, err := r.store.db.Exec(ctx, q,
		season.ID, season.Name, season.StartDay.String(), season.EndDay.String(),
		season.Multiplier, season.Active)
	if err != nil {
		return domain.Season{}, fmt.Errorf("failed to upsert season: %w", err)
	}
	return season, nil
}

func (r *seasonRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.db.Exec(ctx, `DELETE FROM seasons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete season: %w", err)
	}
	return nil
}

type specialEventRepository struct {
	store *Store
}

func (r *specialEventRepository) List(ctx context.Context) ([]domain.SpecialEvent, error) {
	const q = `
		SELECT id, name, start_date, end_date, multiplier, priority, room_type_ids, active
		FROM special_events ORDER BY id`
	rows, err := r.store.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list special events: %w", err)
	}
	defer rows.Close()

	var out []domain.SpecialEvent
	for rows.Next() {
		var event domain.SpecialEvent
		if err := rows.Scan(&event.ID, &event.Name, &event.StartDate, &event.EndDate,
			&event.Multiplier, &event.Priority, &event.RoomTypeIDs, &event.Active); err != nil {
			return nil, fmt.Errorf("failed to scan special event: %w", err)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

func (r *specialEventRepository) Upsert(ctx context.Context, event domain.SpecialEvent) (domain.SpecialEvent, error) {
	const q = `
		INSERT INTO special_events (id, name, start_date, end_date, multiplier, priority, room_type_ids, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			multiplier = EXCLUDED.multiplier,
			priority = EXCLUDED.priority,
			room_type_ids = EXCLUDED.room_type_ids,
			active = EXCLUDED.active`
	_, err := r.store.db.Exec(ctx, q,
		event.ID, event.Name, event.StartDate, event.EndDate,
		event.Multiplier, event.Priority, event.RoomTypeIDs, event.Active)
	if err != nil {
		return domain.SpecialEvent{}, fmt.Errorf("failed to upsert special event: %w", err)
	}
	return event, nil
}

func (r *specialEventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.db.Exec(ctx, `DELETE FROM special_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete special event: %w", err)
	}
	return nil
}

type pricingRuleRepository struct {
	store *Store
}

const ruleColumns = `id, room_type_id, date, price, reason, active, created_at`

func scanRule(row pgx.Row) (domain.PricingRule, error) {
	var rule domain.PricingRule
	err := row.Scan(&rule.ID, &rule.RoomTypeID, &rule.Date, &rule.Price,
		&rule.Reason, &rule.Active, &rule.CreatedAt)
	return rule, err
}

func (r *pricingRuleRepository) GetByID(ctx context.Context, id string) (domain.PricingRule, error) {
	q := `SELECT ` + ruleColumns + ` FROM pricing_rules WHERE id = $1`
	rule, err := scanRule(r.store.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PricingRule{}, domain.NewNotFoundError("pricing rule", id)
	}
	if err != nil {
		return domain.PricingRule{}, fmt.Errorf("failed to get pricing rule: %w", err)
	}
	return rule, nil
}

func (r *pricingRuleRepository) GetByRoomTypeAndDate(ctx context.Context, roomTypeID string, date time.Time) (domain.PricingRule, error) {
	q := `SELECT ` + ruleColumns + ` FROM pricing_rules WHERE room_type_id = $1 AND date = $2`
	rule, err := scanRule(r.store.db.QueryRow(ctx, q, roomTypeID, domain.DayOf(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PricingRule{}, domain.NewNotFoundError("pricing rule",
			roomTypeID+"@"+domain.DateKey(date))
	}
	if err != nil {
		return domain.PricingRule{}, fmt.Errorf("failed to get pricing rule: %w", err)
	}
	return rule, nil
}

func (r *pricingRuleRepository) List(ctx context.Context) ([]domain.PricingRule, error) {
	q := `SELECT ` + ruleColumns + ` FROM pricing_rules ORDER BY date, room_type_id`
	rows, err := r.store.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}
	defer rows.Close()

	var out []domain.PricingRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pricing rule: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

const upsertRuleQuery = `
	INSERT INTO pricing_rules (id, room_type_id, date, price, reason, active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (room_type_id, date) DO UPDATE SET
		id = EXCLUDED.id,
		price = EXCLUDED.price,
		reason = EXCLUDED.reason,
		active = EXCLUDED.active`

func (r *pricingRuleRepository) Upsert(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	_, err := r.store.db.Exec(ctx, upsertRuleQuery,
		rule.ID, rule.RoomTypeID, domain.DayOf(rule.Date), rule.Price,
		rule.Reason, rule.Active, rule.CreatedAt)
	if err != nil {
		return domain.PricingRule{}, fmt.Errorf("failed to upsert pricing rule: %w", err)
	}
	return rule, nil
}

// BulkUpsert persists the batch inside one transaction. A failure on any
// rule rolls back the whole batch; readers never observe a partial commit.
func (r *pricingRuleRepository) BulkUpsert(ctx context.Context, rules []domain.PricingRule) error {
	if len(rules) == 0 {
		return nil
	}

	tx, err := r.store.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rule := range rules {
		if _, err := tx.Exec(ctx, upsertRuleQuery,
			rule.ID, rule.RoomTypeID, domain.DayOf(rule.Date), rule.Price,
			rule.Reason, rule.Active, rule.CreatedAt); err != nil {
			return fmt.Errorf("failed to upsert rule %s: %w", rule.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rule batch: %w", err)
	}
	return nil
}

func (r *pricingRuleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.db.Exec(ctx, `DELETE FROM pricing_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete pricing rule: %w", err)
	}
	return nil
}
