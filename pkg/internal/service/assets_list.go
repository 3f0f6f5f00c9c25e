package service

import (
	"context"
	"sort"
	"time"

	"github.com/yvesmh/harmonia/pkg/cache"
	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/policy"
	"github.com/yvesmh/harmonia/pkg/internal/types"
	hlog "github.com/yvesmh/harmonia/pkg/log"
	"github.com/yvesmh/harmonia/pkg/metrics"
)

const (
	listCacheTTL       = time.Minute
	materialsCacheKey  = "hm:materials:"
	galleryActiveKey   = "hm:gallery:active"
	galleryPositionKey = "position"
)

// ListMaterials 返回调用方已确认的资产. pending 与 deleted 永不出现在
// 列表里，无论与 BeginUpload 的时序如何. 公开资产的引用已解析为绝对
// URL，私有资产需另行申请下载链接.
func (as *AssetService) ListMaterials(ctx context.Context, ownerID string) (*types.ListMaterialsResponse, error) {
	key := materialsCacheKey + ownerID

	if as.cache != nil {
		if resp, err := cache.Get[types.ListMaterialsResponse](ctx, as.cache, key); err == nil {
			return &resp, nil
		}
	}

	var assets []model.Asset

	err := as.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, model.AssetStatusConfirmed).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}

	resp := types.ListMaterialsResponse{
		Total:  int64(len(assets)),
		Assets: make([]types.AssetRecord, 0, len(assets)),
	}

	for i := range assets {
		resp.Assets = append(resp.Assets, as.toRecord(&assets[i]))
	}

	if as.cache != nil {
		if err := cache.Set(ctx, as.cache, key, resp, listCacheTTL); err != nil {
			hlog.Logger().Debug().Err(err).Msg("materials list cache set failed")
		}
	}

	return &resp, nil
}

// GalleryActive 返回画廊当前可见（confirmed）的图片，按展示元数据的
// position 升序；缺 position 的排在末尾，按创建时间兜底.
func (as *AssetService) GalleryActive(ctx context.Context) (*types.GalleryActiveResponse, error) {
	if as.cache != nil {
		if resp, err := cache.Get[types.GalleryActiveResponse](ctx, as.cache, galleryActiveKey); err == nil {
			return &resp, nil
		}
	}

	var assets []model.Asset

	err := as.db.WithContext(ctx).
		Where("bucket_type = ? AND status = ?", configs.BucketGallery, model.AssetStatusConfirmed).
		Order("created_at ASC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}

	records := make([]types.AssetRecord, 0, len(assets))
	for i := range assets {
		records = append(records, as.toRecord(&assets[i]))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return galleryPosition(records[i]) < galleryPosition(records[j])
	})

	resp := types.GalleryActiveResponse{Total: int64(len(records)), Images: records}

	if as.cache != nil {
		if err := cache.Set(ctx, as.cache, galleryActiveKey, resp, listCacheTTL); err != nil {
			hlog.Logger().Debug().Err(err).Msg("gallery cache set failed")
		}
	}

	return &resp, nil
}

// galleryPosition 从展示元数据提取排序位；缺失时排末尾.
func galleryPosition(rec types.AssetRecord) float64 {
	if rec.DisplayMetadata != nil {
		if v, ok := rec.DisplayMetadata[galleryPositionKey].(float64); ok {
			return v
		}
	}

	return float64(1<<31 - 1)
}

// DownloadURL 为资产签发下载链接. 公开资产直接返回解析后的长期 URL；
// 私有资产经可见性裁决后签发时限 GET，链接短命，每次请求重新生成，
// 永不缓存.
func (as *AssetService) DownloadURL(ctx context.Context, actor policy.Actor, assetID string) (*types.DownloadURLResponse, error) {
	asset, err := as.loadAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if !asset.IsConfirmed() {
		return nil, &NotFoundError{AssetID: asset.ID}
	}

	if !as.pol.CanRead(actor, asset) {
		return nil, &ForbiddenError{AssetID: asset.ID, Op: "read"}
	}

	bucketType := configs.BucketType(asset.BucketType)
	ttl := as.broker.GetDownloadTTL()

	if bucketType.WorldReadable() {
		return &types.DownloadURLResponse{
			AssetID:     asset.ID,
			DownloadURL: as.res.ResolveIn(bucketType, asset.ObjectKey),
		}, nil
	}

	start := time.Now()

	u, err := as.gateway.PresignGet(ctx, bucketType, asset.ObjectKey, ttl, "")
	if err != nil {
		return nil, err
	}

	metrics.PresignDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())

	return &types.DownloadURLResponse{
		AssetID:     asset.ID,
		DownloadURL: u,
		ExpiresIn:   int(ttl.Seconds()),
	}, nil
}

// invalidateListings 在状态翻转后使受影响的列表缓存失效.
func (as *AssetService) invalidateListings(ctx context.Context, ownerID string) {
	if as.cache == nil {
		return
	}

	if err := as.cache.Delete(ctx, materialsCacheKey+ownerID); err != nil {
		hlog.Logger().Debug().Err(err).Msg("materials cache invalidation failed")
	}

	if err := as.cache.Delete(ctx, galleryActiveKey); err != nil {
		hlog.Logger().Debug().Err(err).Msg("gallery cache invalidation failed")
	}
}
