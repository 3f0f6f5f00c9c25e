package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/types"
	hlog "github.com/yvesmh/harmonia/pkg/log"
	"github.com/yvesmh/harmonia/pkg/metrics"
	"github.com/yvesmh/harmonia/pkg/queue"
)

// ConfirmUpload 把 pending 资产确认为 confirmed.
// 只有所有者可确认；确认前总是对存储后端做新鲜 stat——
// 预签名 PUT 是否真的发生过，以对象存在性为唯一事实来源.
// 幂等：对已 confirmed 的资产重复确认返回相同结果，不触碰 confirmedAt.
func (as *AssetService) ConfirmUpload(ctx context.Context, callerID string, req *types.ConfirmUploadRequest) (*types.AssetRecord, error) {
	asset, err := as.loadAsset(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	// 所有权先于幂等分支：非所有者连已确认记录也不该拿到
	if asset.OwnerID != callerID {
		return nil, &ForbiddenError{AssetID: asset.ID, Op: "confirm"}
	}

	if asset.IsConfirmed() {
		rec := as.toRecord(asset)
		return &rec, nil
	}

	stat, err := as.gateway.Stat(ctx, configs.BucketType(asset.BucketType), asset.ObjectKey)
	if err != nil {
		return nil, err
	}

	if !stat.Exists {
		return nil, &NotUploadedError{AssetID: asset.ID, ObjectKey: asset.ObjectKey}
	}

	now := time.Now().UTC()

	updates := map[string]any{
		"status":       model.AssetStatusConfirmed,
		"confirmed_at": now,
		"size":         stat.Size,
		"etag":         stat.ETag,
	}

	if len(req.DisplayMetadata) > 0 {
		metaJSON, err := as.encodeDisplayMetadata(req.DisplayMetadata)
		if err != nil {
			return nil, err
		}

		updates["display_metadata"] = metaJSON
	}

	// 状态检查写进 WHERE：并发确认只有一个写入生效，其余走幂等分支
	res := as.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ? AND status = ?", asset.ID, model.AssetStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// 并发请求赢得了翻转；重新加载后按当前状态答复
		asset, err = as.loadAsset(ctx, req.AssetID)
		if err != nil {
			return nil, err
		}

		if !asset.IsConfirmed() {
			return nil, &NotUploadedError{AssetID: asset.ID, ObjectKey: asset.ObjectKey}
		}

		rec := as.toRecord(asset)

		return &rec, nil
	}

	asset, err = as.loadAsset(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	metrics.UploadsConfirmed.WithLabelValues(asset.BucketType).Inc()
	as.invalidateListings(ctx, asset.OwnerID)
	as.publishConfirmed(ctx, asset, false)

	hlog.Logger().Info().
		Str("asset_id", asset.ID).
		Str("bucket_type", asset.BucketType).
		Int64("size", asset.Size).
		Msg("upload confirmed")

	rec := as.toRecord(asset)

	return &rec, nil
}

// loadAsset 按 id 加载资产；不存在或已删除按 NotFound 处理.
func (as *AssetService) loadAsset(ctx context.Context, id string) (*model.Asset, error) {
	var asset model.Asset

	err := as.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{AssetID: id}
		}

		return nil, err
	}

	if asset.IsDeleted() {
		return nil, &NotFoundError{AssetID: id}
	}

	return &asset, nil
}

// publishConfirmed 发布确认事件，失败只记日志，不影响主流程.
func (as *AssetService) publishConfirmed(ctx context.Context, asset *model.Asset, reconciled bool) {
	if as.events == nil || !as.ev.Asset.Confirmed {
		return
	}

	confirmedAt := time.Now().UTC()
	if asset.ConfirmedAt != nil {
		confirmedAt = *asset.ConfirmedAt
	}

	payload := queue.AssetConfirmedPayload{
		Asset:       assetRef(asset),
		ConfirmedAt: confirmedAt,
		Reconciled:  reconciled,
	}

	if err := queue.PublishAssetConfirmed(ctx, as.events, payload, queue.WithProducer("harmonia")); err != nil {
		hlog.Logger().Warn().Err(err).Str("asset_id", asset.ID).Msg("publish asset confirmed event failed")
	}
}
