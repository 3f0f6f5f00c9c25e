package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/storage/s3"
	"github.com/yvesmh/harmonia/pkg/internal/types"
)

// presignOnlyGateway 仅满足 Gateway 接口，键冲突路径只触及 PresignPut.
type presignOnlyGateway struct{}

func (presignOnlyGateway) EnsureBucket(ctx context.Context, t configs.BucketType) (string, error) {
	return "harmonia-" + string(t), nil
}

func (presignOnlyGateway) PresignPut(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, contentType string) (string, error) {
	return fmt.Sprintf("http://minio.test/harmonia-%s/%s?signed=put", t, key), nil
}

func (presignOnlyGateway) PresignGet(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, downloadName string) (string, error) {
	return fmt.Sprintf("http://minio.test/harmonia-%s/%s?signed=get", t, key), nil
}

func (presignOnlyGateway) Stat(ctx context.Context, t configs.BucketType, key string) (s3.ObjectStat, error) {
	return s3.ObjectStat{Exists: false}, nil
}

func (presignOnlyGateway) Remove(ctx context.Context, t configs.BucketType, key string) error {
	return nil
}

func newCollisionService(t *testing.T) (*AssetService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true, // 唯一索引冲突要翻译成 gorm.ErrDuplicatedKey
	})
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.Asset{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &configs.AppConfig{}
	cfg.S3.Endpoint = "minio.test"
	cfg.S3.PublicBucket = "harmonia-public"
	cfg.S3.PrivateBucket = "harmonia-private"
	cfg.S3.GalleryBucket = "harmonia-gallery"
	cfg.Broker.UploadTTLSeconds = 900
	cfg.Broker.KeyRetryAttempts = 3
	cfg.Broker.AllowedExtensions = map[string][]string{
		"public": {"jpg"},
	}

	return NewAssetServiceWith(db, presignOnlyGateway{}, nil, nil, cfg), db
}

// stubObjectKeys 把键生成器替换为给定序列，耗尽后重复最后一个.
func stubObjectKeys(t *testing.T, keys ...string) {
	t.Helper()

	orig := newObjectKey
	t.Cleanup(func() { newObjectKey = orig })

	calls := 0
	newObjectKey = func(ext string) string {
		if calls < len(keys)-1 {
			calls++
			return keys[calls-1]
		}

		return keys[len(keys)-1]
	}
}

// TestBeginUploadRegeneratesOnCollision 测试键冲突后换键重试：
// 第一次生成的键撞上已有记录，第二次的新键成功落库.
func TestBeginUploadRegeneratesOnCollision(t *testing.T) {
	svc, db := newCollisionService(t)
	ctx := context.Background()

	stubObjectKeys(t, "2026/08/taken.jpg", "2026/08/fresh.jpg")

	if _, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension:   "jpg",
		ContentType: "image/jpeg",
		BucketType:  "public",
	}); err != nil {
		t.Fatalf("seed BeginUpload: %v", err)
	}

	stubObjectKeys(t, "2026/08/taken.jpg", "2026/08/fresh.jpg")

	resp, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension:   "jpg",
		ContentType: "image/jpeg",
		BucketType:  "public",
	})
	if err != nil {
		t.Fatalf("BeginUpload after collision: %v", err)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.ObjectKey != "2026/08/fresh.jpg" {
		t.Errorf("object key = %q, want regenerated 2026/08/fresh.jpg", asset.ObjectKey)
	}

	var count int64
	if err := db.Model(&model.Asset{}).Count(&count).Error; err != nil {
		t.Fatalf("count assets: %v", err)
	}

	if count != 2 {
		t.Errorf("asset count = %d, want 2", count)
	}
}

// TestBeginUploadCollisionExhaustsToConflict 测试重试预算耗尽：
// 键生成器一直返回同一个已占用的键，最终上抛 ConflictError.
func TestBeginUploadCollisionExhaustsToConflict(t *testing.T) {
	svc, db := newCollisionService(t)
	ctx := context.Background()

	stubObjectKeys(t, "2026/08/stuck.jpg")

	if _, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension:   "jpg",
		ContentType: "image/jpeg",
		BucketType:  "public",
	}); err != nil {
		t.Fatalf("seed BeginUpload: %v", err)
	}

	_, err := svc.BeginUpload(ctx, "u2", &types.UploadURLRequest{
		Extension:   "jpg",
		ContentType: "image/jpeg",
		BucketType:  "public",
	})

	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	if cerr.BucketType != "public" || cerr.ObjectKey != "2026/08/stuck.jpg" {
		t.Errorf("conflict context = %s/%s, want public/2026/08/stuck.jpg", cerr.BucketType, cerr.ObjectKey)
	}

	var count int64
	if err := db.Model(&model.Asset{}).Count(&count).Error; err != nil {
		t.Fatalf("count assets: %v", err)
	}

	if count != 1 {
		t.Errorf("asset count = %d, want only the seeded record", count)
	}
}
