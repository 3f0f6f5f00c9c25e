package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/policy"
	"github.com/yvesmh/harmonia/pkg/internal/service"
	"github.com/yvesmh/harmonia/pkg/internal/storage/s3"
	"github.com/yvesmh/harmonia/pkg/internal/types"
)

// fakeGateway 内存网关替身：对象是 map，操作计数可断言.
type fakeGateway struct {
	mu        sync.Mutex
	objects   map[string]s3.ObjectStat
	removed   []string
	removeErr error
	statCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{objects: make(map[string]s3.ObjectStat)}
}

func (g *fakeGateway) objKey(t configs.BucketType, key string) string {
	return string(t) + "/" + key
}

// putObject 模拟浏览器直传完成.
func (g *fakeGateway) putObject(t configs.BucketType, key string, size int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.objects[g.objKey(t, key)] = s3.ObjectStat{
		Exists:      true,
		Size:        size,
		ContentType: "application/octet-stream",
		ETag:        "etag-" + key,
	}
}

func (g *fakeGateway) EnsureBucket(ctx context.Context, t configs.BucketType) (string, error) {
	return "harmonia-" + string(t), nil
}

func (g *fakeGateway) PresignPut(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, contentType string) (string, error) {
	return fmt.Sprintf("http://minio.test/harmonia-%s/%s?signed=put", t, key), nil
}

func (g *fakeGateway) PresignGet(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, downloadName string) (string, error) {
	return fmt.Sprintf("http://minio.test/harmonia-%s/%s?signed=get", t, key), nil
}

func (g *fakeGateway) Stat(ctx context.Context, t configs.BucketType, key string) (s3.ObjectStat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.statCalls++

	if stat, ok := g.objects[g.objKey(t, key)]; ok {
		return stat, nil
	}

	return s3.ObjectStat{Exists: false}, nil
}

func (g *fakeGateway) Remove(ctx context.Context, t configs.BucketType, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.removeErr != nil {
		return g.removeErr
	}

	delete(g.objects, g.objKey(t, key))
	g.removed = append(g.removed, g.objKey(t, key))

	return nil
}

func testConfig() *configs.AppConfig {
	cfg := &configs.AppConfig{}
	cfg.S3.Endpoint = "minio.test"
	cfg.S3.PublicBucket = "harmonia-public"
	cfg.S3.PrivateBucket = "harmonia-private"
	cfg.S3.GalleryBucket = "harmonia-gallery"
	cfg.S3.LegacyBuckets = []string{"musicschool-uploads"}
	cfg.Auth.AdminRoles = []string{"admin"}
	cfg.Broker.UploadTTLSeconds = 900
	cfg.Broker.DownloadTTLSeconds = 600
	cfg.Broker.PendingMaxAgeMinutes = 15
	cfg.Broker.KeyRetryAttempts = 3
	cfg.Broker.MaxMetadataBytes = 8192
	cfg.Broker.AllowedExtensions = map[string][]string{
		"private": {"pdf", "mp3", "jpg"},
		"public":  {"jpg", "png", "pdf"},
		"gallery": {"jpg", "png"},
	}

	return cfg
}

func newTestService(t *testing.T) (*service.AssetService, *fakeGateway, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true, // 与 storage/db 的生产配置保持一致
	})
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.Asset{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gw := newFakeGateway()
	svc := service.NewAssetServiceWith(db, gw, nil, nil, testConfig())

	return svc, gw, db
}

// beginAndUpload 申请上传槽位并模拟浏览器完成直传.
func beginAndUpload(t *testing.T, svc *service.AssetService, gw *fakeGateway, db *gorm.DB, owner, bucketType string) string {
	t.Helper()

	resp, err := svc.BeginUpload(context.Background(), owner, &types.UploadURLRequest{
		Extension:   "jpg",
		ContentType: "image/jpeg",
		BucketType:  bucketType,
	})
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	gw.putObject(configs.BucketType(bucketType), asset.ObjectKey, 1024)

	return resp.AssetID
}

// TestBeginUploadIssuesSlot 测试槽位签发：pending 记录 + 预签名 PUT + 键规范.
func TestBeginUploadIssuesSlot(t *testing.T) {
	svc, _, db := newTestService(t)

	resp, err := svc.BeginUpload(context.Background(), "u1", &types.UploadURLRequest{
		Extension:   "JPG",
		ContentType: "image/jpeg",
		BucketType:  "public",
		DisplayMetadata: map[string]any{
			"title": "Concierto de primavera",
		},
	})
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	if resp.AssetID == "" || resp.UploadURL == "" {
		t.Fatal("expected asset id and upload url")
	}

	if resp.ExpiresIn != 900 {
		t.Errorf("ExpiresIn = %d, want 900", resp.ExpiresIn)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusPending {
		t.Errorf("status = %s, want pending", asset.Status)
	}

	if asset.OwnerID != "u1" {
		t.Errorf("owner = %s, want u1", asset.OwnerID)
	}

	// 键由经纪器生成：年/月前缀 + 小写扩展名，客户端不可指定
	if !strings.HasSuffix(asset.ObjectKey, ".jpg") {
		t.Errorf("object key %q should end with .jpg", asset.ObjectKey)
	}

	wantPrefix := time.Now().UTC().Format("2006/01") + "/"
	if !strings.HasPrefix(asset.ObjectKey, wantPrefix) {
		t.Errorf("object key %q should start with %q", asset.ObjectKey, wantPrefix)
	}
}

// TestBeginUploadValidation 测试扩展名/桶类型白名单校验.
func TestBeginUploadValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  types.UploadURLRequest
	}{
		{"disallowed extension", types.UploadURLRequest{Extension: "exe", ContentType: "application/x-msdownload", BucketType: "public"}},
		{"extension not for bucket", types.UploadURLRequest{Extension: "mp3", ContentType: "audio/mpeg", BucketType: "gallery"}},
		{"unknown bucket type", types.UploadURLRequest{Extension: "jpg", ContentType: "image/jpeg", BucketType: "backups"}},
		{"empty extension", types.UploadURLRequest{Extension: "", ContentType: "image/jpeg", BucketType: "public"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.BeginUpload(ctx, "u1", &c.req)

			var verr *service.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

// TestConfirmBeforeUploadIsRetryable 测试字节未落地时确认返回 NotUploadedError，
// 记录保持 pending 可重试.
func TestConfirmBeforeUploadIsRetryable(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension: "jpg", ContentType: "image/jpeg", BucketType: "public",
	})
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	_, err = svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: resp.AssetID})

	var nerr *service.NotUploadedError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotUploadedError, got %v", err)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusPending {
		t.Errorf("status = %s, want pending (record stays retryable)", asset.Status)
	}
}

// TestConfirmIdempotent 测试重复确认返回相同结果且不改变 confirmedAt.
func TestConfirmIdempotent(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	id := beginAndUpload(t, svc, gw, db, "u1", "public")

	first, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: id})
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	var afterFirst model.Asset
	if err := db.First(&afterFirst, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	// stat 得到的 ETag 必须落库（列名为 etag）
	if want := "etag-" + afterFirst.ObjectKey; afterFirst.ETag != want {
		t.Errorf("persisted etag = %q, want %q", afterFirst.ETag, want)
	}

	second, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: id})
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}

	var afterSecond model.Asset
	if err := db.First(&afterSecond, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if !afterFirst.ConfirmedAt.Equal(*afterSecond.ConfirmedAt) {
		t.Errorf("confirmedAt changed on repeat confirm: %v != %v", afterFirst.ConfirmedAt, afterSecond.ConfirmedAt)
	}

	if first.ID != second.ID || first.Status != second.Status || first.URL != second.URL {
		t.Errorf("repeat confirm returned different record: %+v vs %+v", first, second)
	}
}

// TestConfirmOwnerOnly 测试非所有者确认被拒绝，包括对已确认资产的重复确认：
// 幂等分支不能成为陌生人读取记录的旁门.
func TestConfirmOwnerOnly(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	id := beginAndUpload(t, svc, gw, db, "u1", "public")

	_, err := svc.ConfirmUpload(ctx, "u2", &types.ConfirmUploadRequest{AssetID: id})

	var ferr *service.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}

	if _, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: id}); err != nil {
		t.Fatalf("owner confirm: %v", err)
	}

	rec, err := svc.ConfirmUpload(ctx, "u2", &types.ConfirmUploadRequest{AssetID: id})
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForbiddenError on confirmed asset, got %v (record %+v)", err, rec)
	}

	if rec != nil {
		t.Errorf("stranger received asset record: %+v", rec)
	}
}

// TestNoPrematureVisibility 测试 pending 资产绝不出现在列表里.
func TestNoPrematureVisibility(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	id := beginAndUpload(t, svc, gw, db, "u1", "public")

	list, err := svc.ListMaterials(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}

	if list.Total != 0 {
		t.Errorf("pending asset visible in listing: total = %d", list.Total)
	}

	if _, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: id}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	list, err = svc.ListMaterials(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}

	if list.Total != 1 {
		t.Fatalf("confirmed asset missing from listing: total = %d", list.Total)
	}

	// 公开资产的引用已解析为绝对 URL，客户端看不到裸对象键
	if !strings.HasPrefix(list.Assets[0].URL, "http://minio.test/harmonia-public/") {
		t.Errorf("listing URL = %q, want fully-qualified public URL", list.Assets[0].URL)
	}
}

// TestDeletionOrdering 测试物理删除失败时元数据保持 confirmed，错误上抛.
func TestDeletionOrdering(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	id := beginAndUpload(t, svc, gw, db, "u1", "public")
	if _, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: id}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	gw.removeErr = errors.New("backend unavailable")

	_, err := svc.DeleteAsset(ctx, policy.Actor{ID: "u1"}, id)
	if err == nil {
		t.Fatal("expected delete to fail when physical remove fails")
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusConfirmed {
		t.Errorf("status = %s, want confirmed (no partial deletion)", asset.Status)
	}

	// 后端恢复后删除成功
	gw.removeErr = nil

	if _, err := svc.DeleteAsset(ctx, policy.Actor{ID: "u1"}, id); err != nil {
		t.Fatalf("delete after recovery: %v", err)
	}

	if err := db.First(&asset, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusDeleted {
		t.Errorf("status = %s, want deleted", asset.Status)
	}
}

// TestDeleteAlreadyDeletedIsNotFound 测试重复删除按 NotFound 处理.
func TestDeleteAlreadyDeletedIsNotFound(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	id := beginAndUpload(t, svc, gw, db, "u1", "public")
	if _, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: id}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := svc.DeleteAsset(ctx, policy.Actor{ID: "u1"}, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := svc.DeleteAsset(ctx, policy.Actor{ID: "u1"}, id)

	var nferr *service.NotFoundError
	if !errors.As(err, &nferr) {
		t.Errorf("expected NotFoundError on second delete, got %v", err)
	}
}

// TestReconcileClosesOrphans 测试对账清除超龄且字节未落地的 pending 记录.
func TestReconcileClosesOrphans(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension: "jpg", ContentType: "image/jpeg", BucketType: "public",
	})
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	// 把记录做旧到阈值之外
	aged := time.Now().UTC().Add(-time.Hour)
	if err := db.Model(&model.Asset{}).Where("id = ?", resp.AssetID).
		Update("created_at", aged).Error; err != nil {
		t.Fatalf("age record: %v", err)
	}

	report, err := svc.ReconcilePending(ctx, 15*time.Minute)
	if err != nil {
		t.Fatalf("ReconcilePending: %v", err)
	}

	if report.Purged != 1 {
		t.Errorf("purged = %d, want 1", report.Purged)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusDeleted {
		t.Errorf("status = %s, want deleted", asset.Status)
	}

	// 无物理残留
	stat, err := gw.Stat(ctx, configs.BucketPublic, asset.ObjectKey)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if stat.Exists {
		t.Error("physical object should not remain after purge")
	}
}

// TestReconcileConfirmsLateUpload 测试上传成功但客户端从未上报的孤儿被补记确认.
func TestReconcileConfirmsLateUpload(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	id := beginAndUpload(t, svc, gw, db, "u1", "public")

	aged := time.Now().UTC().Add(-time.Hour)
	if err := db.Model(&model.Asset{}).Where("id = ?", id).
		Update("created_at", aged).Error; err != nil {
		t.Fatalf("age record: %v", err)
	}

	report, err := svc.ReconcilePending(ctx, 15*time.Minute)
	if err != nil {
		t.Fatalf("ReconcilePending: %v", err)
	}

	if report.Confirmed != 1 {
		t.Errorf("confirmed = %d, want 1", report.Confirmed)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusConfirmed || asset.ConfirmedAt == nil {
		t.Errorf("asset should be confirmed with timestamp, got %s", asset.Status)
	}
}

// TestReconcileFreshPendingUntouched 测试阈值内的 pending 记录不被对账触碰.
func TestReconcileFreshPendingUntouched(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension: "jpg", ContentType: "image/jpeg", BucketType: "public",
	})
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	report, err := svc.ReconcilePending(ctx, 15*time.Minute)
	if err != nil {
		t.Fatalf("ReconcilePending: %v", err)
	}

	if report.Scanned != 0 {
		t.Errorf("scanned = %d, want 0", report.Scanned)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusPending {
		t.Errorf("status = %s, want pending", asset.Status)
	}
}

// TestReconcileConfirmedMarksBroken 测试断链的 confirmed 资产被夜间清扫标记删除.
func TestReconcileConfirmedMarksBroken(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	id := beginAndUpload(t, svc, gw, db, "u1", "public")
	if _, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: id}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// 模拟删除流程中途崩溃：对象没了，元数据还是 confirmed
	var asset model.Asset
	if err := db.First(&asset, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	gw.mu.Lock()
	delete(gw.objects, gw.objKey(configs.BucketPublic, asset.ObjectKey))
	gw.mu.Unlock()

	report, err := svc.ReconcileConfirmed(ctx)
	if err != nil {
		t.Fatalf("ReconcileConfirmed: %v", err)
	}

	if report.Broken != 1 {
		t.Errorf("broken = %d, want 1", report.Broken)
	}

	if err := db.First(&asset, "id = ?", id).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.Status != model.AssetStatusDeleted {
		t.Errorf("status = %s, want deleted", asset.Status)
	}
}

// TestDownloadURLPrivatePresigned 测试私有资产经裁决后签发时限 GET.
func TestDownloadURLPrivatePresigned(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension: "pdf", ContentType: "application/pdf", BucketType: "private",
	})
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	gw.putObject(configs.BucketPrivate, asset.ObjectKey, 2048)

	if _, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: resp.AssetID}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// 非所有者无管理员角色拿不到下载链接
	_, err = svc.DownloadURL(ctx, policy.Actor{ID: "u2"}, resp.AssetID)

	var ferr *service.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForbiddenError for stranger, got %v", err)
	}

	// 所有者拿到带 TTL 的预签名 GET
	dl, err := svc.DownloadURL(ctx, policy.Actor{ID: "u1"}, resp.AssetID)
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}

	if !strings.Contains(dl.DownloadURL, "signed=get") {
		t.Errorf("download URL %q should be presigned", dl.DownloadURL)
	}

	if dl.ExpiresIn != 600 {
		t.Errorf("ExpiresIn = %d, want 600", dl.ExpiresIn)
	}

	// 管理员越过属主检查
	if _, err := svc.DownloadURL(ctx, policy.Actor{ID: "u3", Roles: []string{"admin"}}, resp.AssetID); err != nil {
		t.Errorf("admin should read private asset: %v", err)
	}
}

// TestGalleryActiveOrdering 测试画廊按展示元数据 position 排序.
func TestGalleryActiveOrdering(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	positions := []float64{3, 1, 2}
	ids := make([]string, len(positions))

	for i, pos := range positions {
		resp, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
			Extension:       "jpg",
			ContentType:     "image/jpeg",
			BucketType:      "gallery",
			DisplayMetadata: map[string]any{"position": pos},
		})
		if err != nil {
			t.Fatalf("BeginUpload: %v", err)
		}

		ids[i] = resp.AssetID

		var asset model.Asset
		if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
			t.Fatalf("load asset: %v", err)
		}

		gw.putObject(configs.BucketGallery, asset.ObjectKey, 512)

		if _, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: resp.AssetID}); err != nil {
			t.Fatalf("confirm: %v", err)
		}
	}

	gallery, err := svc.GalleryActive(ctx)
	if err != nil {
		t.Fatalf("GalleryActive: %v", err)
	}

	if gallery.Total != 3 {
		t.Fatalf("total = %d, want 3", gallery.Total)
	}

	want := []string{ids[1], ids[2], ids[0]} // position 1, 2, 3
	for i, rec := range gallery.Images {
		if rec.ID != want[i] {
			t.Errorf("gallery[%d] = %s, want %s", i, rec.ID, want[i])
		}
	}
}

// TestEndToEndScenario 完整闭环：签发→直传→确认→列表可见→
// 非所有者删除被拒→所有者删除成功→列表消失.
func TestEndToEndScenario(t *testing.T) {
	svc, gw, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.BeginUpload(ctx, "u1", &types.UploadURLRequest{
		Extension: "jpg", ContentType: "image/jpeg", BucketType: "public",
	})
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}

	var asset model.Asset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	gw.putObject(configs.BucketPublic, asset.ObjectKey, 4096)

	rec, err := svc.ConfirmUpload(ctx, "u1", &types.ConfirmUploadRequest{AssetID: resp.AssetID})
	if err != nil {
		t.Fatalf("ConfirmUpload: %v", err)
	}

	if rec.Size != 4096 {
		t.Errorf("confirmed size = %d, want 4096 (from fresh stat)", rec.Size)
	}

	list, err := svc.ListMaterials(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}

	if list.Total != 1 || !strings.HasPrefix(list.Assets[0].URL, "http://") {
		t.Fatalf("expected one listed asset with absolute URL, got %+v", list)
	}

	_, err = svc.DeleteAsset(ctx, policy.Actor{ID: "u2"}, resp.AssetID)

	var ferr *service.ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForbiddenError for non-owner delete, got %v", err)
	}

	if _, err := svc.DeleteAsset(ctx, policy.Actor{ID: "u1"}, resp.AssetID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	list, err = svc.ListMaterials(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMaterials after delete: %v", err)
	}

	if list.Total != 0 {
		t.Errorf("deleted asset still listed: total = %d", list.Total)
	}
}
