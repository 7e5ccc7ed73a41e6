package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wellside/barber-booking/internal/domain"
)

// Store хранит снимки незавершённых попыток бронирования в Redis.
// Каждая попытка лежит под своим ключом с TTL, id незавершённых попыток собраны в множество
type Store struct {
	client Client
	ttl    time.Duration
}

// NewStore создает хранилище. ttl добавляется к длительности grace-периода
func NewStore(client Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Save сохраняет снимок попытки
func (s *Store) Save(ctx context.Context, record *domain.AttemptRecord) error {
	data, err := json.Marshal(toDTO(record))
	if err != nil {
		return fmt.Errorf("%w: Save - attempt %s: %v", ErrMarshal, record.ID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, attemptKey(record.ID), data, s.expiration(record))
		pipe.SAdd(ctx, keyPending, record.ID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Save - attempt %s: %v", ErrRedis, record.ID, err)
	}

	return nil
}

// Load читает снимок попытки
func (s *Store) Load(ctx context.Context, attemptID uuid.UUID) (*domain.AttemptRecord, error) {
	data, err := s.client.Get(ctx, attemptKey(attemptID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: attempt %s", domain.ErrAttemptRecordNotFound, attemptID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Load - attempt %s: %v", ErrRedis, attemptID, err)
	}

	var dto attemptDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: Load - attempt %s: %v", ErrUnmarshal, attemptID, err)
	}

	return dto.toRecord(), nil
}

// Delete удаляет снимок попытки и убирает её из множества незавершённых
func (s *Store) Delete(ctx context.Context, attemptID uuid.UUID) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, attemptKey(attemptID))
		pipe.SRem(ctx, keyPending, attemptID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Delete - attempt %s: %v", ErrRedis, attemptID, err)
	}
	return nil
}

// ListPending возвращает id незавершённых попыток. Некорректные значения пропускаются
func (s *Store) ListPending(ctx context.Context) ([]uuid.UUID, error) {
	members, err := s.client.SMembers(ctx, keyPending).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending: %v", ErrRedis, err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) expiration(record *domain.AttemptRecord) time.Duration {
	return record.Duration + s.ttl
}

func attemptKey(id uuid.UUID) string {
	return keyAttempt + id.String()
}
