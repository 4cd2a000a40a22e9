package services

import (
	"context"
	"fmt"
	"time"
	"yatube/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient - общий клиент Redis; nil, пока кеш страниц работает в памяти
var RedisClient *redis.Client

// RedisOptions собирает параметры клиента. redis.url, если задан,
// целиком заменяет host/port/password/db.
func RedisOptions(conf *config.ConfigSchema) (*redis.Options, error) {
	var opts *redis.Options
	if conf.Redis.URL != "" {
		parsed, err := redis.ParseURL(conf.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.Redis.Host, conf.Redis.Port),
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}
	}
	if conf.Redis.DialTimeoutSeconds > 0 {
		opts.DialTimeout = time.Duration(conf.Redis.DialTimeoutSeconds) * time.Second
	}
	if conf.Redis.PoolSize > 0 {
		opts.PoolSize = conf.Redis.PoolSize
	}
	return opts, nil
}

// InitRedis подключает RedisClient и проверяет соединение
func InitRedis(ctx context.Context) error {
	opts, err := RedisOptions(settings())
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout+time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	RedisClient = client
	return nil
}

func CloseRedis() error {
	if RedisClient == nil {
		return nil
	}
	err := RedisClient.Close()
	RedisClient = nil
	return err
}
