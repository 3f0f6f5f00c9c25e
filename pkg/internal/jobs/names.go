package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobReconcilePending   = "asset.reconcile.pending"
	JobReconcileConfirmed = "asset.reconcile.confirmed"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	// CronReconcilePending pending 窗口很短（默认 15 分钟），高频扫描
	CronReconcilePending = "*/10 * * * *"
	// CronReconcileConfirmed 断链清扫逐个 stat 全量 confirmed 资产，放到夜间低谷
	CronReconcileConfirmed = "0 3 * * *"
)
