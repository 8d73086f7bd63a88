package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCache(client, 30*time.Minute)
}

func testSnapshot(seq int64, date time.Time) *domain.AvailabilitySnapshot {
	start := date.Add(10 * time.Hour)
	return &domain.AvailabilitySnapshot{
		Seq:        seq,
		DurationID: "dur-30",
		Date:       date,
		TimeZone:   "Europe/Moscow",
		Slots: []domain.TimeSlot{
			{StartTime: start, EndTime: start.Add(30 * time.Minute)},
		},
		DateRange: domain.DateRange{
			Start: date,
			End:   date.AddDate(0, 1, 0),
		},
		AvailableWeekdays: []int{1, 2, 3, 4, 5},
		FetchedAt:         date.Add(9 * time.Hour),
	}
}

func TestCache_NextSeq(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	first, err := cache.NextSeq(ctx, "sess-1")
	require.NoError(t, err)
	second, err := cache.NextSeq(ctx, "sess-1")
	require.NoError(t, err)
	other, err := cache.NextSeq(ctx, "sess-2")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other, "счетчики сессий независимы")
}

func TestCache_SaveAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	saved, err := cache.Save(ctx, "sess-1", testSnapshot(1, date))
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := cache.Get(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, "dur-30", got.DurationID)
	require.Len(t, got.Slots, 1)
	assert.True(t, got.Slots[0].StartTime.Equal(date.Add(10*time.Hour)))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got.AvailableWeekdays)
}

func TestCache_Save_DiscardsStale(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	newerDate := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	saved, err := cache.Save(ctx, "sess-1", testSnapshot(2, newerDate))
	require.NoError(t, err)
	require.True(t, saved)

	// Поздний ответ на более ранний запрос приходит после нового - отбрасывается
	staleDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	saved, err = cache.Save(ctx, "sess-1", testSnapshot(1, staleDate))
	require.NoError(t, err)
	assert.False(t, saved)

	got, err := cache.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Seq)
	assert.True(t, domain.SameDay(newerDate, got.Date))
}

func TestCache_Get_NotFound(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))
}

func TestCache_Drop(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := cache.NextSeq(ctx, "sess-1")
	require.NoError(t, err)
	_, err = cache.Save(ctx, "sess-1", testSnapshot(1, date))
	require.NoError(t, err)

	require.NoError(t, cache.Drop(ctx, "sess-1"))

	_, err = cache.Get(ctx, "sess-1")
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))

	// Счетчик сброшен, нумерация начинается заново
	seq, err := cache.NextSeq(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}
