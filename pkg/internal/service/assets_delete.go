package service

import (
	"context"
	"time"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/policy"
	"github.com/yvesmh/harmonia/pkg/internal/types"
	hlog "github.com/yvesmh/harmonia/pkg/log"
	"github.com/yvesmh/harmonia/pkg/metrics"
	"github.com/yvesmh/harmonia/pkg/queue"
)

// DeleteAsset 删除资产. 顺序是硬约束：先物理移除对象，后翻转元数据——
// 绝不允许出现"物理已删但仍 confirmed 可见"的窗口. 物理删除失败时
// 元数据保持原状，错误原样上抛，删除没有部分成功.
// 对已删除资产的再次删除按 NotFound 处理.
func (as *AssetService) DeleteAsset(ctx context.Context, actor policy.Actor, assetID string) (*types.DeleteAssetResponse, error) {
	asset, err := as.loadAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if !as.pol.CanDelete(actor, asset) {
		return nil, &ForbiddenError{AssetID: asset.ID, Op: "delete"}
	}

	if err := as.gateway.Remove(ctx, configs.BucketType(asset.BucketType), asset.ObjectKey); err != nil {
		hlog.Logger().Error().Err(err).
			Str("asset_id", asset.ID).
			Str("bucket_type", asset.BucketType).
			Str("object_key", asset.ObjectKey).
			Msg("physical remove failed, metadata untouched")

		return nil, err
	}

	now := time.Now().UTC()

	// 并发删除时第二个写入不生效，视为无操作成功
	res := as.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ? AND status <> ?", asset.ID, model.AssetStatusDeleted).
		Updates(map[string]any{
			"status":     model.AssetStatusDeleted,
			"deleted_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	metrics.AssetsDeleted.WithLabelValues(asset.BucketType).Inc()
	as.invalidateListings(ctx, asset.OwnerID)

	if as.events != nil && as.ev.Asset.Deleted {
		payload := queue.AssetDeletedPayload{Asset: assetRef(asset), DeletedBy: actor.ID}
		if err := queue.PublishAssetDeleted(ctx, as.events, payload, queue.WithProducer("harmonia")); err != nil {
			hlog.Logger().Warn().Err(err).Str("asset_id", asset.ID).Msg("publish asset deleted event failed")
		}
	}

	hlog.Logger().Info().
		Str("asset_id", asset.ID).
		Str("deleted_by", actor.ID).
		Msg("asset deleted")

	return &types.DeleteAssetResponse{AssetID: asset.ID, Deleted: true}, nil
}
