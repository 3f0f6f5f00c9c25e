package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher 是发布方的最小接口，由 internal/storage/mq.Client 满足.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// -------------------------- 基于业务封装 events --------------------------

// PublishAssetConfirmed 发布 hm.asset.confirmed 事件。
// 在 pending→confirmed 状态翻转落库后调用，通知下游（画廊缓存、消息通知）刷新。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishAssetConfirmed(ctx context.Context, pub Publisher, payload AssetConfirmedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetConfirmed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(ctx, TopicAssetConfirmed, msg)
}

// PublishAssetDeleted 发布 hm.asset.deleted 事件。
// 在物理删除 + 元数据翻转完成后调用。
func PublishAssetDeleted(ctx context.Context, pub Publisher, payload AssetDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(ctx, TopicAssetDeleted, msg)
}

// PublishAssetReconciled 发布 hm.asset.reconciled 事件，汇总一轮对账清扫的结果。
func PublishAssetReconciled(ctx context.Context, pub Publisher, payload AssetReconciledPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAssetReconciled, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(ctx, TopicAssetReconciled, msg)
}

// ParseAssetConfirmed 将 Watermill 消息解析为强类型 Envelope（AssetConfirmedPayload）。
func ParseAssetConfirmed(msg *message.Message) (Message[AssetConfirmedPayload], error) {
	return ParseWatermillMessage[AssetConfirmedPayload](msg)
}

// ParseAssetDeleted 将 Watermill 消息解析为强类型 Envelope（AssetDeletedPayload）。
func ParseAssetDeleted(msg *message.Message) (Message[AssetDeletedPayload], error) {
	return ParseWatermillMessage[AssetDeletedPayload](msg)
}
