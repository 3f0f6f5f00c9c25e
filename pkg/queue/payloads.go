package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 资产生命周期领域 --------------------------

// AssetRef 标识一个资产及其在对象存储中的位置.
type AssetRef struct {
	AssetID     string `json:"asset_id"`
	OwnerID     string `json:"owner_id,omitempty"`
	BucketType  string `json:"bucket_type"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ETag        string `json:"etag,omitempty"`
}

// AssetConfirmedPayload 上传确认完成，资产进入可见状态.
type AssetConfirmedPayload struct {
	Asset AssetRef `json:"asset"`
	// ConfirmedAt 确认时间戳.
	ConfirmedAt time.Time `json:"confirmed_at"`
	// Reconciled 为 true 表示由对账任务确认（客户端始终未上报），
	// 而非常规的 confirm 调用.
	Reconciled bool `json:"reconciled,omitempty"`
}

// AssetDeletedPayload 资产已删除.
type AssetDeletedPayload struct {
	Asset AssetRef `json:"asset"`
	// DeletedBy 执行删除的身份（所有者或管理员）.
	DeletedBy string `json:"deleted_by,omitempty"`
}

// AssetReconciledPayload 对账清扫结果汇总.
type AssetReconciledPayload struct {
	// Sweep 清扫类别：pending 或 confirmed.
	Sweep string `json:"sweep"`
	// Confirmed 本轮由对账确认的资产数.
	Confirmed int `json:"confirmed"`
	// Purged 本轮清除的孤儿 pending 数.
	Purged int `json:"purged"`
	// Broken 本轮发现的物理缺失 confirmed 数.
	Broken int `json:"broken"`
}
