package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheWithClient(client)
}

func TestCalendarKeyFormat(t *testing.T) {
	start, _ := domain.ParseDate("2025-07-01")
	end, _ := domain.ParseDate("2025-07-31")

	key := CalendarKey("deluxe", start, end)
	require.Equal(t, "cal:deluxe:2025-07-01:2025-07-31", key)
}

func TestCalendarRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	start, _ := domain.ParseDate("2025-07-01")
	end, _ := domain.ParseDate("2025-07-02")
	days := []domain.DayPrice{
		{Date: start, Price: 800000},
		{Date: end, Price: 1040000},
	}

	require.NoError(t, c.SetCalendar(ctx, "deluxe", start, end, days, time.Minute))

	got, err := c.GetCalendar(ctx, "deluxe", start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(800000), got[0].Price)
	require.Equal(t, int64(1040000), got[1].Price)
}

func TestCalendarMiss(t *testing.T) {
	c := newTestCache(t)

	start, _ := domain.ParseDate("2025-07-01")
	_, err := c.GetCalendar(context.Background(), "unknown", start, start)
	require.ErrorIs(t, err, ErrMiss)
}

func TestInvalidateCalendars(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	start, _ := domain.ParseDate("2025-07-01")
	days := []domain.DayPrice{{Date: start, Price: 500000}}

	require.NoError(t, c.SetCalendar(ctx, "standard", start, start, days, time.Minute))
	require.NoError(t, c.SetCalendar(ctx, "deluxe", start, start, days, time.Minute))
	require.NoError(t, c.Set(ctx, "other:key", "kept", time.Minute))

	require.NoError(t, c.InvalidateCalendars(ctx))

	_, err := c.GetCalendar(ctx, "standard", start, start)
	require.ErrorIs(t, err, ErrMiss)
	_, err = c.GetCalendar(ctx, "deluxe", start, start)
	require.ErrorIs(t, err, ErrMiss)

	var kept string
	require.NoError(t, c.Get(ctx, "other:key", &kept))
	require.Equal(t, "kept", kept)
}
