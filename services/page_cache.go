package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"yatube/config"

	"github.com/go-redis/redis/v8"
)

// CachedPage - сохраненный ответ страницы
type CachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// PageCache - хранилище страниц с истечением по времени.
// Инвалидации нет: запись живет ровно ttl.
type PageCache interface {
	Get(ctx context.Context, key string) (*CachedPage, bool, error)
	Set(ctx context.Context, key string, page *CachedPage, ttl time.Duration) error
}

// RedisPageCache хранит страницы в Redis (SET ... EX)
type RedisPageCache struct {
	client *redis.Client
	prefix string
}

func NewRedisPageCache(client *redis.Client, prefix string) *RedisPageCache {
	return &RedisPageCache{client: client, prefix: prefix}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) (*CachedPage, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var page CachedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached page: %w", err)
	}
	return &page, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, page *CachedPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

type memoryEntry struct {
	page      *CachedPage
	expiresAt time.Time
}

// MemoryPageCache - кеш страниц в памяти процесса.
// Просроченные записи выбрасываются при чтении и при периодической чистке на записи.
type MemoryPageCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	writes  int
	Now     func() time.Time
}

const memorySweepEvery = 256

func NewMemoryPageCache() *MemoryPageCache {
	return &MemoryPageCache{
		entries: make(map[string]memoryEntry),
		Now:     time.Now,
	}
}

func (c *MemoryPageCache) Get(_ context.Context, key string) (*CachedPage, bool, error) {
	now := c.Now()
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !now.Before(entry.expiresAt) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && !now.Before(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.page, true, nil
}

func (c *MemoryPageCache) Set(_ context.Context, key string, page *CachedPage, ttl time.Duration) error {
	now := c.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{page: page, expiresAt: now.Add(ttl)}
	c.writes++
	if c.writes%memorySweepEvery == 0 {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	return nil
}

// Len - число записей, включая еще не вычищенные просроченные
func (c *MemoryPageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Pages - кеш страниц процесса
var Pages PageCache = NewMemoryPageCache()

// InitPageCache выбирает бэкенд кеша по конфигурации. Для redis нужен InitRedis.
func InitPageCache() error {
	conf := settings()
	switch conf.Cache.Backend {
	case config.CacheBackendRedis:
		if RedisClient == nil {
			return fmt.Errorf("redis not available")
		}
		Pages = NewRedisPageCache(RedisClient, conf.Cache.KeyPrefix)
	default:
		Pages = NewMemoryPageCache()
	}
	return nil
}
