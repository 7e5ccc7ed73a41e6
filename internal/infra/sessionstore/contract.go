package sessionstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client подмножество команд go-redis, которые использует хранилище
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

const (
	keyAttempt = "barber-booking:attempt:" // + attempt_id
	keyPending = "barber-booking:attempts:pending"
)
