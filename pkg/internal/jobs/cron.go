// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	"github.com/yvesmh/harmonia/pkg/configs"
	ctxPkg "github.com/yvesmh/harmonia/pkg/context"
	"github.com/yvesmh/harmonia/pkg/internal/service"
	"github.com/yvesmh/harmonia/pkg/internal/storage"
	"github.com/yvesmh/harmonia/pkg/log"
	"github.com/yvesmh/harmonia/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每 10 分钟对账超龄 pending 记录：字节已落地则补记确认，否则清除残留
//   - 每天 03:00 清扫 confirmed 资产中的断链（对象丢失但元数据仍在）
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager, cfg *configs.AppConfig) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每 10 分钟对账 pending
	_ = sched.AddCron(JobReconcilePending, CronReconcilePending, func(ctx context.Context) {
		runReconcilePending(ctx, cfg)
	}, baseCtx)

	// 每天 03:00 清扫断链
	_ = sched.AddCron(JobReconcileConfirmed, CronReconcileConfirmed, func(ctx context.Context) {
		runReconcileConfirmed(ctx, cfg)
	}, baseCtx)

	return nil
}

// runReconcilePending 对超过确认窗口的 pending 记录做确认或清除.
func runReconcilePending(ctx context.Context, cfg *configs.AppConfig) {
	l := log.Logger().With().Str("job", JobReconcilePending).Logger()

	svc := service.NewAssetService(ctx, cfg)

	report, err := svc.ReconcilePending(ctx, cfg.Broker.GetPendingMaxAge())
	if err != nil {
		l.Error().Err(err).Msg("reconcile pending failed")
		return
	}

	if report.Scanned > 0 {
		l.Info().
			Int("scanned", report.Scanned).
			Int("confirmed", report.Confirmed).
			Int("purged", report.Purged).
			Msg("reconciled pending assets")
	}
}

// runReconcileConfirmed 标记对象已丢失的 confirmed 资产.
func runReconcileConfirmed(ctx context.Context, cfg *configs.AppConfig) {
	l := log.Logger().With().Str("job", JobReconcileConfirmed).Logger()

	svc := service.NewAssetService(ctx, cfg)

	report, err := svc.ReconcileConfirmed(ctx)
	if err != nil {
		l.Error().Err(err).Msg("reconcile confirmed failed")
		return
	}

	if report.Broken > 0 {
		l.Warn().
			Int("scanned", report.Scanned).
			Int("broken", report.Broken).
			Msg("closed broken asset references")
	}
}
