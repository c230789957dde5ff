package kv

import (
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
)

// Redis backs the session store with a Redis instance. Redis owns TTL
// expiry; expired records simply stop existing.
type Redis struct {
	client *redis.Client
}

var _ KeyValueStore = (*Redis)(nil)

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping().Err(); err != nil {
		return nil, errors.Wrap(err, "[kv.NewRedis] ping")
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Set(key, value string, exp time.Duration) error {
	return r.client.Set(key, value, exp).Err()
}

func (r *Redis) Get(key string) (string, error) {
	value, err := r.client.Get(key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *Redis) Del(key string) error {
	count, err := r.client.Del(key).Result()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
