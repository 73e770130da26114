package persist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "adsmith:store:"

// RedisSaver keeps store snapshots in Redis as JSON values. Snapshots
// have no TTL; they live until the next Save replaces them.
type RedisSaver struct {
	client *redis.Client
}

// NewRedisSaver builds a Redis-backed Saver.
func NewRedisSaver(addr, password string) *RedisSaver {
	return &RedisSaver{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// Save writes the JSON snapshot under the namespace key.
func (s *RedisSaver) Save(ctx context.Context, namespace string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.client.Set(ctx, keyPrefix+namespace, data, 0).Err()
}

// Load reads and unmarshals the snapshot stored under the namespace key.
func (s *RedisSaver) Load(ctx context.Context, namespace string, v any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	data, err := s.client.Get(ctx, keyPrefix+namespace).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}
