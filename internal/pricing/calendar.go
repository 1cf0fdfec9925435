package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

// gridConcurrency bounds how many room types a grid projection resolves at
// once, so a full-year multi-room query cannot starve other work.
const gridConcurrency = 4

// CalendarProjector produces ordered daily price sequences over a snapshot.
// Re-running a projection over the same snapshot yields an identical result.
type CalendarProjector struct {
	resolver *Resolver
	mu       sync.Mutex
}

func NewCalendarProjector(resolver *Resolver) *CalendarProjector {
	return &CalendarProjector{resolver: resolver}
}

// Project returns the resolved price for every date in [start, end]
// inclusive, ascending.
func (p *CalendarProjector) Project(roomType domain.RoomType, start, end time.Time) ([]domain.DayPrice, error) {
	first, last := domain.DayOf(start), domain.DayOf(end)
	if last.Before(first) {
		return nil, domain.NewValidationError("end date must not be before start date",
			fmt.Sprintf("start=%s end=%s", domain.DateKey(first), domain.DateKey(last)))
	}

	days := make([]domain.DayPrice, 0, int(last.Sub(first).Hours()/24)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, domain.DayPrice{Date: d, Price: p.resolve(roomType, d)})
	}
	return days, nil
}

// Grid projects several room types over the same range, one CalendarDay per
// date with a price per room type. Room types resolve in bounded batches.
func (p *CalendarProjector) Grid(ctx context.Context, roomTypes []domain.RoomType, start, end time.Time) ([]domain.CalendarDay, error) {
	first, last := domain.DayOf(start), domain.DayOf(end)
	if last.Before(first) {
		return nil, domain.NewValidationError("end date must not be before start date",
			fmt.Sprintf("start=%s end=%s", domain.DateKey(first), domain.DateKey(last)))
	}

	columns := make([][]domain.DayPrice, len(roomTypes))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(gridConcurrency)
	for i, rt := range roomTypes {
		i, rt := i, rt
		g.Go(func() error {
			days, err := p.Project(rt, first, last)
			if err != nil {
				return err
			}
			columns[i] = days
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := int(last.Sub(first).Hours()/24) + 1
	grid := make([]domain.CalendarDay, n)
	for row := 0; row < n; row++ {
		day := domain.CalendarDay{
			Date:   first.AddDate(0, 0, row),
			Prices: make(map[string]int64, len(roomTypes)),
		}
		for col, rt := range roomTypes {
			day.Prices[rt.ID] = columns[col][row].Price
		}
		grid[row] = day
	}
	return grid, nil
}

// resolve serializes access to the shared memoizing resolver.
func (p *CalendarProjector) resolve(roomType domain.RoomType, date time.Time) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolver.Resolve(roomType, date)
}
