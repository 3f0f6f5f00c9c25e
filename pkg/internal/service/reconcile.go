package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
	hlog "github.com/yvesmh/harmonia/pkg/log"
	"github.com/yvesmh/harmonia/pkg/metrics"
	"github.com/yvesmh/harmonia/pkg/queue"
)

// ReconcileReport 一轮对账清扫的结果.
type ReconcileReport struct {
	Scanned   int
	Confirmed int
	Purged    int
	Broken    int
}

// reconcileParallelism 对账时对存储后端的并发 stat 上限.
const reconcileParallelism = 8

// ReconcilePending 清扫超过 maxAge 仍未确认的 pending 资产.
// 对每条记录重新 stat：对象已落地说明客户端上传成功但从未上报，
// 补记确认；对象缺失则清除可能的残留并把记录翻转为 deleted——
// pending 记录绝不会被静默当作 confirmed，孤儿也不会无限累积.
func (as *AssetService) ReconcilePending(ctx context.Context, maxAge time.Duration) (*ReconcileReport, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var stale []model.Asset

	err := as.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.AssetStatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Scanned: len(stale)}
	if len(stale) == 0 {
		return report, nil
	}

	results := make([]string, len(stale))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileParallelism)

	for i := range stale {
		g.Go(func() error {
			outcome, err := as.reconcilePendingOne(gctx, &stale[i])
			if err != nil {
				// 单条失败不终止整轮清扫，留给下一轮
				hlog.Logger().Warn().Err(err).
					Str("asset_id", stale[i].ID).
					Msg("reconcile pending asset failed")

				return nil
			}

			results[i] = outcome

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	for i := range results {
		switch results[i] {
		case "confirmed":
			report.Confirmed++

			metrics.ReconcileClosed.WithLabelValues("confirmed").Inc()
			as.invalidateListings(ctx, stale[i].OwnerID)
		case "purged":
			report.Purged++

			metrics.ReconcileClosed.WithLabelValues("purged").Inc()
		}
	}

	as.publishReconciled(ctx, "pending", report)

	hlog.Logger().Info().
		Int("scanned", report.Scanned).
		Int("confirmed", report.Confirmed).
		Int("purged", report.Purged).
		Msg("pending reconciliation done")

	return report, nil
}

// reconcilePendingOne 处理单条过期 pending 记录，返回结果类别.
func (as *AssetService) reconcilePendingOne(ctx context.Context, asset *model.Asset) (string, error) {
	stat, err := as.gateway.Stat(ctx, configs.BucketType(asset.BucketType), asset.ObjectKey)
	if err != nil {
		return "", err
	}

	if stat.Exists {
		now := time.Now().UTC()

		res := as.db.WithContext(ctx).Model(&model.Asset{}).
			Where("id = ? AND status = ?", asset.ID, model.AssetStatusPending).
			Updates(map[string]any{
				"status":       model.AssetStatusConfirmed,
				"confirmed_at": now,
				"size":         stat.Size,
				"etag":         stat.ETag,
			})
		if res.Error != nil {
			return "", res.Error
		}

		if res.RowsAffected == 0 {
			// 常规 confirm 在扫描间隙赢得了翻转
			return "", nil
		}

		asset.Status = model.AssetStatusConfirmed
		asset.ConfirmedAt = &now
		asset.Size = stat.Size
		asset.ETag = stat.ETag
		as.publishConfirmed(ctx, asset, true)

		return "confirmed", nil
	}

	// 对象不存在：清除可能的残留后翻转为 deleted；Remove 对缺失对象是无操作
	if err := as.gateway.Remove(ctx, configs.BucketType(asset.BucketType), asset.ObjectKey); err != nil {
		return "", err
	}

	now := time.Now().UTC()

	res := as.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ? AND status = ?", asset.ID, model.AssetStatusPending).
		Updates(map[string]any{
			"status":     model.AssetStatusDeleted,
			"deleted_at": now,
		})
	if res.Error != nil {
		return "", res.Error
	}

	if res.RowsAffected == 0 {
		return "", nil
	}

	return "purged", nil
}

// ReconcileConfirmed 夜间清扫：发现物理对象已消失的 confirmed 资产
// （如删除流程中途崩溃留下的断链），翻转为 deleted 以免读端持续拿到
// 坏链接.
func (as *AssetService) ReconcileConfirmed(ctx context.Context) (*ReconcileReport, error) {
	var confirmed []model.Asset

	err := as.db.WithContext(ctx).
		Where("status = ?", model.AssetStatusConfirmed).
		Find(&confirmed).Error
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Scanned: len(confirmed)}
	if len(confirmed) == 0 {
		return report, nil
	}

	broken := make([]bool, len(confirmed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileParallelism)

	for i := range confirmed {
		g.Go(func() error {
			stat, err := as.gateway.Stat(gctx, configs.BucketType(confirmed[i].BucketType), confirmed[i].ObjectKey)
			if err != nil {
				hlog.Logger().Warn().Err(err).
					Str("asset_id", confirmed[i].ID).
					Msg("reconcile confirmed asset failed")

				return nil
			}

			broken[i] = !stat.Exists

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	now := time.Now().UTC()

	for i := range confirmed {
		if !broken[i] {
			continue
		}

		res := as.db.WithContext(ctx).Model(&model.Asset{}).
			Where("id = ? AND status = ?", confirmed[i].ID, model.AssetStatusConfirmed).
			Updates(map[string]any{
				"status":     model.AssetStatusDeleted,
				"deleted_at": now,
			})
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}

		report.Broken++

		metrics.ReconcileClosed.WithLabelValues("broken").Inc()
		as.invalidateListings(ctx, confirmed[i].OwnerID)

		hlog.Logger().Warn().
			Str("asset_id", confirmed[i].ID).
			Str("object_key", confirmed[i].ObjectKey).
			Msg("confirmed asset physically missing, marked deleted")
	}

	as.publishReconciled(ctx, "confirmed", report)

	return report, nil
}

// publishReconciled 发布对账汇总事件，失败只记日志.
func (as *AssetService) publishReconciled(ctx context.Context, sweep string, report *ReconcileReport) {
	if as.events == nil || !as.ev.Asset.Reconciled || report.Confirmed+report.Purged+report.Broken == 0 {
		return
	}

	payload := queue.AssetReconciledPayload{
		Sweep:     sweep,
		Confirmed: report.Confirmed,
		Purged:    report.Purged,
		Broken:    report.Broken,
	}

	if err := queue.PublishAssetReconciled(ctx, as.events, payload, queue.WithProducer("harmonia")); err != nil {
		hlog.Logger().Warn().Err(err).Str("sweep", sweep).Msg("publish reconcile event failed")
	}
}
