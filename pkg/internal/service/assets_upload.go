package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yvesmh/harmonia/pkg/configs"
	ctxPkg "github.com/yvesmh/harmonia/pkg/context"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/types"
	hlog "github.com/yvesmh/harmonia/pkg/log"
	"github.com/yvesmh/harmonia/pkg/metrics"
)

// BeginUpload 签发上传槽位：校验扩展名与桶类型，生成对象键，
// 持久化 pending 记录并返回预签名 PUT. 字节流不经过本进程，
// 由浏览器直接对存储端点上传.
func (as *AssetService) BeginUpload(ctx context.Context, ownerID string, req *types.UploadURLRequest) (*types.UploadURLResponse, error) {
	bucketType := configs.BucketType(req.BucketType)
	if !bucketType.Valid() {
		return nil, &ValidationError{Field: "bucket_type", Reason: "must be private, public or gallery"}
	}

	ext := normalizeExtension(req.Extension)
	if ext == "" {
		return nil, &ValidationError{Field: "extension", Reason: "required"}
	}

	if err := as.validateExtension(bucketType, ext); err != nil {
		return nil, err
	}

	if req.ContentType == "" {
		return nil, &ValidationError{Field: "content_type", Reason: "required"}
	}

	metaJSON, err := as.encodeDisplayMetadata(req.DisplayMetadata)
	if err != nil {
		return nil, err
	}

	ttl := as.broker.GetUploadTTL()

	attempts := as.broker.KeyRetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastKey string

	// 键冲突在 ULID 下统计上可忽略，但唯一索引兜底，冲突即换键重试
	for attempt := 0; attempt < attempts; attempt++ {
		key := newObjectKey(ext)
		lastKey = key

		start := time.Now()

		uploadURL, err := as.gateway.PresignPut(ctx, bucketType, key, ttl, req.ContentType)
		if err != nil {
			return nil, err
		}

		metrics.PresignDuration.WithLabelValues("put").Observe(time.Since(start).Seconds())

		asset := model.Asset{
			ID:              uuid.NewString(),
			OwnerID:         ownerID,
			BucketType:      string(bucketType),
			ObjectKey:       key,
			ContentType:     req.ContentType,
			DeclaredSize:    req.DeclaredSize,
			Status:          model.AssetStatusPending,
			DisplayMetadata: metaJSON,
		}

		if err := as.db.WithContext(ctx).Create(&asset).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				hlog.Logger().Warn().
					Str("bucket_type", string(bucketType)).
					Str("object_key", key).
					Int("attempt", attempt+1).
					Msg("object key collision, regenerating")

				continue
			}

			return nil, err
		}

		metrics.UploadsStarted.WithLabelValues(string(bucketType)).Inc()

		logger := ctxPkg.WithTraceContext(ctx, *hlog.Logger())
		logger.Info().
			Str("asset_id", asset.ID).
			Str("owner", ownerID).
			Str("bucket_type", string(bucketType)).
			Str("object_key", key).
			Msg("upload slot issued")

		return &types.UploadURLResponse{
			AssetID:   asset.ID,
			UploadURL: uploadURL,
			ExpiresIn: int(ttl.Seconds()),
		}, nil
	}

	return nil, &ConflictError{BucketType: string(bucketType), ObjectKey: lastKey}
}
