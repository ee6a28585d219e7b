package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisChannel = "ucp:events"
	defaultRedisList    = "ucp:events:recent"
)

// RedisSink публикует события в канал Redis Pub/Sub и хранит последние события в списке.
type RedisSink struct {
	client  *redis.Client
	channel string
	list    string
	maxLen  int64
}

// NewRedisSink создаёт приёмник событий поверх клиента Redis.
func NewRedisSink(client *redis.Client, maxLen int64) *RedisSink {
	if maxLen <= 0 {
		maxLen = DefaultRecorderSize
	}
	return &RedisSink{
		client:  client,
		channel: defaultRedisChannel,
		list:    defaultRedisList,
		maxLen:  maxLen,
	}
}

// Publish отправляет событие подписчикам канала и добавляет его в список последних.
func (r *RedisSink) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Publish(ctx, r.channel, data)
	pipe.LPush(ctx, r.list, data)
	pipe.LTrim(ctx, r.list, 0, r.maxLen-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish event: %w", err)
	}
	return nil
}
