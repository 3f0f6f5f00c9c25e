// Package s3 实现对象存储网关，封装 MinIO 客户端并提供按逻辑桶
// （private/public/gallery）划分的存储操作.
package s3

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sony/gobreaker"

	"github.com/yvesmh/harmonia/pkg/configs"
	hlog "github.com/yvesmh/harmonia/pkg/log"
)

// Client 包装 MinIO 客户端，维护逻辑桶映射和桶存在性备忘.
type Client struct {
	*minio.Client

	cfg configs.S3Config

	// ensured 记录已确认存在的物理桶，EnsureBucket 幂等，丢失后重算无害.
	ensured sync.Map

	// breaker 保护读路径（stat/presign）免于雪崩式的后端故障.
	breaker *gobreaker.CircuitBreaker
}

// New 初始化 MinIO 客户端. 不在此处创建桶，桶由 EnsureBucket 按需惰性创建.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("harmonia", configs.AppVersion)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "s3-gateway",
		Timeout: defaultBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= defaultBreakerFailures
		},
	})

	hlog.Logger().Info().
		Str("endpoint", cfg.Endpoint).
		Str("private", cfg.PrivateBucket).
		Str("public", cfg.PublicBucket).
		Str("gallery", cfg.GalleryBucket).
		Msg("s3 网关已连接")

	return &Client{Client: cli, cfg: *cfg, breaker: breaker}, nil
}

const (
	defaultBreakerTimeout  = 30 * time.Second
	defaultBreakerFailures = 5
)

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

// GetConfig 返回网关使用的 S3 配置副本.
func (c *Client) GetConfig() configs.S3Config {
	return c.cfg
}
