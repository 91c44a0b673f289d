package conversationstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jira-assistant/internal/common/database"
	"jira-assistant/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotter stores each session as one JSON value that expires after ttl.
type RedisSnapshotter struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisSnapshotter(client redis.Cmdable, ttl time.Duration) *RedisSnapshotter {
	return &RedisSnapshotter{client: client, ttl: ttl}
}

func SessionKey(id string) string {
	return database.Key("session", id)
}

func (r *RedisSnapshotter) Load(ctx context.Context, id string) (*models.SessionSnapshot, error) {
	val, err := r.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var snapshot models.SessionSnapshot
	if err := json.Unmarshal(val, &snapshot); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &snapshot, nil
}

func (r *RedisSnapshotter) Save(ctx context.Context, snapshot models.SessionSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snapshot.ID, err)
	}
	if err := r.client.Set(ctx, SessionKey(snapshot.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", snapshot.ID, err)
	}
	return nil
}

func (r *RedisSnapshotter) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, SessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
