// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：hm.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：asset(资产生命周期)、bucket(桶管理)等
// 动作/状态：confirmed、deleted、reconciled 等已完成态

const (
	// 资产生命周期领域.
	TopicAssetConfirmed  = "hm.asset.confirmed"  // 上传已确认，资产对列表可见，画廊缓存等下游可刷新
	TopicAssetDeleted    = "hm.asset.deleted"    // 资产已删除（物理对象移除 + 元数据翻转为 deleted）
	TopicAssetReconciled = "hm.asset.reconciled" // 对账清扫改变了资产状态（孤儿确认/清除、断链标记）

	// 桶管理领域.
	TopicBucketCreated = "hm.bucket.created" // 惰性创建了新的物理桶
)

// 主题分组，用于批量订阅或权限控制.
var (
	// AssetTopics 资产生命周期相关主题集合.
	AssetTopics = []string{
		TopicAssetConfirmed, TopicAssetDeleted, TopicAssetReconciled,
	}
)
