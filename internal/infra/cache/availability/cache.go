package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	snapshotKeyFormat = "wizard:slots:%s"
	seqKeyFormat      = "wizard:slots:seq:%s"
)

// Cache хранит последний снапшот доступных слотов каждой сессии в Redis.
// Снапшоты нумеруются через счетчик NextSeq: запись с меньшим номером
// никогда не перезаписывает более новую.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш снапшотов с заданным временем жизни записей
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// NextSeq выдает следующий порядковый номер запроса слотов для сессии.
// Номер берется до обращения к бэкенду, чтобы поздний ответ на ранний
// запрос можно было распознать и отбросить.
func (c *Cache) NextSeq(ctx context.Context, sessionID string) (int64, error) {
	key := fmt.Sprintf(seqKeyFormat, sessionID)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: next seq: %v", ErrUnavailable, err)
	}

	return incr.Val(), nil
}

// Save сохраняет снапшот, если он новее уже сохраненного.
// Возвращает false, когда снапшот оказался старее и был отброшен.
func (c *Cache) Save(ctx context.Context, sessionID string, snapshot *domain.AvailabilitySnapshot) (bool, error) {
	current, err := c.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return false, err
	}

	if current != nil && current.Seq >= snapshot.Seq {
		return false, nil
	}

	data, err := json.Marshal(toRecord(snapshot))
	if err != nil {
		return false, fmt.Errorf("%w: marshal snapshot: %v", ErrInternal, err)
	}

	key := fmt.Sprintf(snapshotKeyFormat, sessionID)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return false, fmt.Errorf("%w: save snapshot: %v", ErrUnavailable, err)
	}

	return true, nil
}

// Get возвращает последний сохраненный снапшот сессии
func (c *Cache) Get(ctx context.Context, sessionID string) (*domain.AvailabilitySnapshot, error) {
	key := fmt.Sprintf(snapshotKeyFormat, sessionID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get snapshot: %v", ErrUnavailable, err)
	}

	var record snapshotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: unmarshal snapshot: %v", ErrInternal, err)
	}

	return record.toDomain(), nil
}

// Drop удаляет снапшот и счетчик сессии (вызывается при отмене)
func (c *Cache) Drop(ctx context.Context, sessionID string) error {
	snapshotKey := fmt.Sprintf(snapshotKeyFormat, sessionID)
	seqKey := fmt.Sprintf(seqKeyFormat, sessionID)

	if err := c.client.Del(ctx, snapshotKey, seqKey).Err(); err != nil {
		return fmt.Errorf("%w: drop snapshot: %v", ErrUnavailable, err)
	}

	return nil
}
