package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// DrawingArchive 原始图纸按内容哈希归档到对象存储。
// 归档失败只记日志，不影响提取流程。
type DrawingArchive struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewDrawingArchive client 为 nil 时归档关闭
func NewDrawingArchive(client *minio.Client, bucket string, logger *zap.Logger) *DrawingArchive {
	return &DrawingArchive{client: client, bucket: bucket, logger: logger}
}

// Put 存入 drawings/<sha256>.dxf。同一内容重复上传幂等覆盖。
func (a *DrawingArchive) Put(ctx context.Context, hash string, raw []byte) {
	if a.client == nil {
		return
	}
	objectName := fmt.Sprintf("drawings/%s.dxf", hash)
	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/dxf",
	})
	if err != nil {
		a.logger.Warn("drawing archive failed",
			zap.String("object", objectName),
			zap.Error(err))
		return
	}
	a.logger.Info("drawing archived", zap.String("object", objectName))
}
