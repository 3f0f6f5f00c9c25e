// Package service 实现上传经纪器的核心编排：两阶段上传生命周期、
// 所有权裁决、引用解析与对账清扫.
package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yvesmh/harmonia/pkg/cache"
	"github.com/yvesmh/harmonia/pkg/configs"
	ctxPkg "github.com/yvesmh/harmonia/pkg/context"
	"github.com/yvesmh/harmonia/pkg/internal/policy"
	"github.com/yvesmh/harmonia/pkg/internal/resolver"
	"github.com/yvesmh/harmonia/pkg/internal/storage/s3"
	"github.com/yvesmh/harmonia/pkg/queue"
)

// Gateway 是对象存储网关的消费侧接口，由 internal/storage/s3.Client 实现.
// 测试中以假网关替身注入.
type Gateway interface {
	EnsureBucket(ctx context.Context, t configs.BucketType) (string, error)
	PresignPut(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, contentType string) (string, error)
	PresignGet(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, downloadName string) (string, error)
	Stat(ctx context.Context, t configs.BucketType, key string) (s3.ObjectStat, error)
	Remove(ctx context.Context, t configs.BucketType, key string) error
}

// AssetService 资产生命周期编排服务. 每个请求级操作都是独立工作单元，
// 除网关内部的桶存在性备忘外不持有进程内可变状态.
type AssetService struct {
	db      *gorm.DB
	gateway Gateway
	events  queue.Publisher // 可为 nil：事件是尽力而为的旁路
	res     *resolver.Resolver
	pol     *policy.Policy
	broker  configs.BrokerConfig
	ev      configs.EventsConfig
	cache   *cache.Cache // 可为 nil：列表缓存可选
}

// NewAssetService 从请求上下文取出存储管理器并构造服务.
// 存储管理器由中间件在进程启动后注入（见 middleware/storage.go）.
func NewAssetService(c context.Context, cfg *configs.AppConfig) *AssetService {
	var (
		gw  Gateway
		pub queue.Publisher
		kc  *cache.Cache
	)

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		gw = s3c
	}

	if mqc := ctxPkg.GetMQClient(c); mqc != nil && cfg.Events.Enabled {
		pub = mqc
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		kc = cache.NewCache(kvc)
	}

	var gdb *gorm.DB
	if dbc := ctxPkg.GetDBClient(c); dbc != nil {
		gdb = dbc.DB
	}

	return NewAssetServiceWith(gdb, gw, pub, kc, cfg)
}

// NewAssetServiceWith 以显式依赖构造服务，供测试与后台任务使用.
func NewAssetServiceWith(db *gorm.DB, gw Gateway, pub queue.Publisher, kc *cache.Cache, cfg *configs.AppConfig) *AssetService {
	return &AssetService{
		db:      db,
		gateway: gw,
		events:  pub,
		res:     resolver.New(&cfg.S3),
		pol:     policy.New(cfg.Auth.AdminRoles),
		broker:  cfg.Broker,
		ev:      cfg.Events,
		cache:   kc,
	}
}

// Policy 暴露所有权裁决器，供 handle 层直接查询.
func (as *AssetService) Policy() *policy.Policy {
	return as.pol
}

// Resolver 暴露引用解析器.
func (as *AssetService) Resolver() *resolver.Resolver {
	return as.res
}
