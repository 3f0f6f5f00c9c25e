package service

import (
	"crypto/rand"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/types"
	"github.com/yvesmh/harmonia/pkg/queue"
)

// newObjectKey 生成对象键：2006/01/<ULID>.<ext>. 客户端提交的文件名
// 从不进入键，只影响扩展名. ULID 携带毫秒时间戳 + 80 位随机熵，
// 冲突在统计上可忽略，但调用方仍按唯一索引做有界重试.
// 函数变量：测试中替换以构造确定性的键冲突.
var newObjectKey = func(ext string) string {
	now := time.Now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)

	return fmt.Sprintf("%s/%s.%s", now.Format("2006/01"), id.String(), ext)
}

// normalizeExtension 去点并转小写.
func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// validateExtension 按桶类型的白名单校验扩展名.
func (as *AssetService) validateExtension(t configs.BucketType, ext string) error {
	allowed := as.broker.ExtensionsFor(t)
	if slices.Contains(allowed, ext) {
		return nil
	}

	return &ValidationError{
		Field:  "extension",
		Reason: fmt.Sprintf("extension %q not allowed for %s bucket", ext, t),
	}
}

// encodeDisplayMetadata 序列化展示元数据并限制大小. 经纪器不校验语义，
// 标题/排序/标签等是调用方领域（画廊、素材）的关切.
func (as *AssetService) encodeDisplayMetadata(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "", nil
	}

	b, err := sonic.Marshal(meta)
	if err != nil {
		return "", &ValidationError{Field: "display_metadata", Reason: "not serializable"}
	}

	if as.broker.MaxMetadataBytes > 0 && len(b) > as.broker.MaxMetadataBytes {
		return "", &ValidationError{
			Field:  "display_metadata",
			Reason: fmt.Sprintf("exceeds %d bytes", as.broker.MaxMetadataBytes),
		}
	}

	return string(b), nil
}

// decodeDisplayMetadata 反序列化展示元数据；空串或损坏数据返回 nil.
func decodeDisplayMetadata(raw string) map[string]any {
	if raw == "" {
		return nil
	}

	var meta map[string]any
	if err := sonic.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}

	return meta
}

// toRecord 把持久化模型转为对外视图. 公开桶的引用经解析器规范化为
// 绝对 URL；私有资产不在此暴露 URL，需单独申请时限下载链接.
func (as *AssetService) toRecord(a *model.Asset) types.AssetRecord {
	rec := types.AssetRecord{
		ID:              a.ID,
		OwnerID:         a.OwnerID,
		BucketType:      a.BucketType,
		ContentType:     a.ContentType,
		Size:            a.Size,
		Status:          string(a.Status),
		DisplayMetadata: decodeDisplayMetadata(a.DisplayMetadata),
		CreatedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
	}

	if a.ConfirmedAt != nil {
		rec.ConfirmedAt = a.ConfirmedAt.UTC().Format(time.RFC3339)
	}

	if t := configs.BucketType(a.BucketType); t.WorldReadable() {
		rec.URL = as.res.ResolveIn(t, a.ObjectKey)
	}

	return rec
}

// assetRef 构造事件负载中的资产引用.
func assetRef(a *model.Asset) queue.AssetRef {
	return queue.AssetRef{
		AssetID:     a.ID,
		OwnerID:     a.OwnerID,
		BucketType:  a.BucketType,
		ObjectKey:   a.ObjectKey,
		ContentType: a.ContentType,
		Size:        a.Size,
		ETag:        a.ETag,
	}
}
