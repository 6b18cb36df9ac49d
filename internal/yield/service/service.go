package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-yield/internal/config"
)

// Services 服务聚合，按依赖注入组装
type Services struct {
	Drawing *DrawingService
}

// NewServices rdb / minioClient 允许为 nil：缓存退化为进程内实现，归档关闭
func NewServices(cfg *config.Config, rdb *redis.Client, minioClient *minio.Client, logger *zap.Logger) *Services {
	var cache ExtractionCache
	if rdb != nil {
		cache = NewRedisCache(rdb, cfg.Redis.CacheTTL, logger)
	} else {
		cache = NewMemoryCache()
	}

	archive := NewDrawingArchive(minioClient, cfg.MinIO.Bucket, logger)
	extractor := NewExtractor(cfg.Pattern, logger)
	sessions := NewSessionManager()

	return &Services{
		Drawing: NewDrawingService(extractor, cache, archive, sessions, cfg.Nesting, logger),
	}
}
