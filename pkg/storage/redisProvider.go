package storage

import (
	"context"
	"time"

	t "github.com/aleshan/offline/configurationtypes"
	redis "github.com/go-redis/redis/v9"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Redis provider type
type Redis struct {
	*redis.Client
	ctx    context.Context
	logger *zap.Logger
	uid    string
}

// RedisConnectionFactory function create new Redis instance
func RedisConnectionFactory(c t.AbstractConfigurationInterface) (Storer, error) {
	redisConfiguration := c.GetDefaultCache().GetRedis()

	return &Redis{
		Client: redis.NewClient(&redis.Options{
			Addr: redisConfiguration.URL,
			DB:   0,
		}),
		ctx:    context.Background(),
		logger: c.GetLogger(),
		uid:    uuid.NewString(),
	}, nil
}

// Name returns the storer name
func (provider *Redis) Name() string {
	return "REDIS"
}

// Uuid returns the storer instance identifier
func (provider *Redis) Uuid() string {
	return provider.uid
}

// ListKeys method returns the list of existing keys
func (provider *Redis) ListKeys() []string {
	keys, err := provider.Client.Keys(provider.ctx, "*").Result()
	if err != nil {
		return []string{}
	}

	return keys
}

// Get method returns the populated response if exists, empty response then
func (provider *Redis) Get(key string) []byte {
	val, err := provider.Client.Get(provider.ctx, key).Result()
	if err != nil {
		return []byte{}
	}

	return []byte(val)
}

// Set method will store the response in Redis provider
func (provider *Redis) Set(key string, value []byte, duration time.Duration) error {
	err := provider.Client.Set(provider.ctx, key, value, duration).Err()
	if err != nil {
		provider.logger.Sugar().Errorf("Impossible to set the key %s into Redis, %v", key, err)
	}

	return err
}

// Delete method will delete the response in Redis provider if exists corresponding to key param
func (provider *Redis) Delete(key string) {
	provider.Client.Del(provider.ctx, key)
}

// DeleteMany method will delete every key sharing the given prefix
func (provider *Redis) DeleteMany(prefix string) {
	iter := provider.Client.Scan(provider.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(provider.ctx) {
		provider.Client.Del(provider.ctx, iter.Val())
	}
}

// Init method will
func (provider *Redis) Init() error {
	return nil
}

// Reset method will reset or close provider
func (provider *Redis) Reset() error {
	return provider.Client.FlushDB(provider.ctx).Err()
}
