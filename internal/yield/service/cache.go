package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cacheKeyPrefix 提取缓存键前缀，后接图纸内容的 sha256
const cacheKeyPrefix = "yield:extract:"

// ContentHash 图纸字节的 sha256 十六进制，作缓存键和归档对象名
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ExtractionCache 按内容哈希缓存未编辑的提取结果。
// 会话内一旦发生修改，缓存条目随即失效。
type ExtractionCache interface {
	Get(ctx context.Context, hash string) (*Extraction, bool)
	Set(ctx context.Context, hash string, extraction *Extraction)
	Delete(ctx context.Context, hash string)
}

// RedisCache go-redis 实现
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, hash string) (*Extraction, bool) {
	data, err := c.rdb.Get(ctx, cacheKeyPrefix+hash).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("extraction cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var extraction Extraction
	if err := json.Unmarshal(data, &extraction); err != nil {
		c.logger.Warn("extraction cache decode failed", zap.Error(err))
		return nil, false
	}
	return &extraction, true
}

func (c *RedisCache) Set(ctx context.Context, hash string, extraction *Extraction) {
	data, err := json.Marshal(extraction)
	if err != nil {
		c.logger.Warn("extraction cache encode failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+hash, data, c.ttl).Err(); err != nil {
		c.logger.Warn("extraction cache set failed", zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, hash string) {
	if err := c.rdb.Del(ctx, cacheKeyPrefix+hash).Err(); err != nil {
		c.logger.Warn("extraction cache delete failed", zap.Error(err))
	}
}

// MemoryCache 未配置 Redis 时的进程内实现
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Extraction
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Extraction)}
}

func (c *MemoryCache) Get(_ context.Context, hash string) (*Extraction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	extraction, ok := c.entries[hash]
	return extraction, ok
}

func (c *MemoryCache) Set(_ context.Context, hash string, extraction *Extraction) {
	c.mu.Lock()
	c.entries[hash] = extraction
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(_ context.Context, hash string) {
	c.mu.Lock()
	delete(c.entries, hash)
	c.mu.Unlock()
}
