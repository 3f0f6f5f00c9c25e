package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/sony/gobreaker"

	"github.com/yvesmh/harmonia/pkg/configs"
	hlog "github.com/yvesmh/harmonia/pkg/log"
)

// ObjectStat 描述对象的存在性与元信息. 对象不存在是一等结果（Exists=false），
// 而不是错误：确认上传时轮询对象是否落地属于预期路径.
type ObjectStat struct {
	Exists       bool
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// ErrUnknownBucketType 表示逻辑桶类型不在 private/public/gallery 之内.
var ErrUnknownBucketType = errors.New("unknown bucket type")

const (
	// 读路径瞬时错误的有界重试
	readRetryAttempts  = 3
	readRetryBaseDelay = 200 * time.Millisecond
)

// publicReadPolicy 为公开桶生成匿名只读策略.
func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

// EnsureBucket 确保逻辑桶对应的物理桶存在，必要时创建并为公开桶挂只读策略.
// 幂等；每个进程内按物理桶备忘，丢失备忘后重算无害.
func (c *Client) EnsureBucket(ctx context.Context, t configs.BucketType) (string, error) {
	bucket := c.cfg.PhysicalBucket(t)
	if bucket == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownBucketType, t)
	}

	if _, ok := c.ensured.Load(bucket); ok {
		return bucket, nil
	}

	exists, err := c.Client.BucketExists(ctx, bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket %s: %w", bucket, err)
	}

	if !exists {
		if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.cfg.Region}); err != nil {
			// 并发创建时另一端可能已赢得竞争
			if owned, e2 := c.Client.BucketExists(ctx, bucket); e2 != nil || !owned {
				return "", fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}

		if t.WorldReadable() {
			if err := c.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
				return "", fmt.Errorf("set public policy on %s: %w", bucket, err)
			}
		}

		hlog.Logger().Info().Str("bucket", bucket).Str("type", string(t)).Msg("bucket created")
	}

	c.ensured.Store(bucket, struct{}{})

	return bucket, nil
}

// LogicalBucketExists 检查逻辑桶对应的物理桶是否存在.
func (c *Client) LogicalBucketExists(ctx context.Context, t configs.BucketType) (bool, error) {
	bucket := c.cfg.PhysicalBucket(t)
	if bucket == "" {
		return false, fmt.Errorf("%w: %s", ErrUnknownBucketType, t)
	}

	return c.Client.BucketExists(ctx, bucket)
}

// PresignPut 为指定键签发一次性上传能力，TTL 由存储后端自行强制执行.
// contentType 非空时将其绑定进签名，客户端必须以相同的 Content-Type 上传.
func (c *Client) PresignPut(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, contentType string) (string, error) {
	bucket, err := c.EnsureBucket(ctx, t)
	if err != nil {
		return "", err
	}

	var u *url.URL

	if contentType != "" {
		hdr := http.Header{"Content-Type": []string{contentType}}
		u, err = c.Client.PresignHeader(ctx, http.MethodPut, bucket, key, ttl, url.Values{}, hdr)
	} else {
		u, err = c.PresignedPutObject(ctx, bucket, key, ttl)
	}

	if err != nil {
		return "", fmt.Errorf("presign put %s/%s: %w", bucket, key, err)
	}

	return u.String(), nil
}

// PresignGet 为私有对象签发时限下载 URL. downloadName 非空时设置下载文件名.
func (c *Client) PresignGet(ctx context.Context, t configs.BucketType, key string, ttl time.Duration, downloadName string) (string, error) {
	bucket := c.cfg.PhysicalBucket(t)
	if bucket == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownBucketType, t)
	}

	params := url.Values{}
	if downloadName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}

	var out string

	err := c.withReadRetry(ctx, func() error {
		u, err := c.PresignedGetObject(ctx, bucket, key, ttl, params)
		if err != nil {
			return err
		}

		out = u.String()

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("presign get %s/%s: %w", bucket, key, err)
	}

	return out, nil
}

// Stat 查询对象的存在性与元信息，总是对后端做新鲜读.
// NoSuchKey/NoSuchBucket 归一化为 Exists=false；其余错误视为瞬时并有界重试.
func (c *Client) Stat(ctx context.Context, t configs.BucketType, key string) (ObjectStat, error) {
	bucket := c.cfg.PhysicalBucket(t)
	if bucket == "" {
		return ObjectStat{}, fmt.Errorf("%w: %s", ErrUnknownBucketType, t)
	}

	var stat ObjectStat

	err := c.withReadRetry(ctx, func() error {
		info, err := c.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
		if err != nil {
			if isNotFound(err) {
				stat = ObjectStat{Exists: false}
				return nil
			}

			return err
		}

		stat = ObjectStat{
			Exists:       true,
			Size:         info.Size,
			ContentType:  info.ContentType,
			ETag:         info.ETag,
			LastModified: info.LastModified,
		}

		return nil
	})
	if err != nil {
		return ObjectStat{}, fmt.Errorf("stat %s/%s: %w", bucket, key, err)
	}

	return stat, nil
}

// Copy 在逻辑桶之间复制对象.
func (c *Client) Copy(ctx context.Context, srcT configs.BucketType, srcKey string, dstT configs.BucketType, dstKey string) error {
	srcBucket := c.cfg.PhysicalBucket(srcT)
	if srcBucket == "" {
		return fmt.Errorf("%w: %s", ErrUnknownBucketType, srcT)
	}

	dstBucket, err := c.EnsureBucket(ctx, dstT)
	if err != nil {
		return err
	}

	_, err = c.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	if err != nil {
		return fmt.Errorf("copy %s/%s -> %s/%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}

	return nil
}

// Remove 物理删除对象. 失败时不做静默重试：先重新 stat 消除二义性，
// 对象已不存在则视为删除成功，否则把原始错误交还调用方裁决.
func (c *Client) Remove(ctx context.Context, t configs.BucketType, key string) error {
	bucket := c.cfg.PhysicalBucket(t)
	if bucket == "" {
		return fmt.Errorf("%w: %s", ErrUnknownBucketType, t)
	}

	err := c.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err == nil || isNotFound(err) {
		return nil
	}

	if stat, statErr := c.Stat(ctx, t, key); statErr == nil && !stat.Exists {
		return nil
	}

	return fmt.Errorf("remove %s/%s: %w", bucket, key, err)
}

// withReadRetry 对只读后端调用做熔断保护与有界退避重试.
func (c *Client) withReadRetry(ctx context.Context, op func() error) error {
	var lastErr error

	for attempt := 0; attempt < readRetryAttempts; attempt++ {
		if attempt > 0 {
			delay := readRetryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		_, err := c.breaker.Execute(func() (any, error) {
			return nil, op()
		})
		if err == nil {
			return nil
		}

		// 熔断器打开或上下文取消时立刻放弃
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) || ctx.Err() != nil {
			return err
		}

		lastErr = err
	}

	return lastErr
}

// isNotFound 判断 MinIO 错误是否表示对象或桶不存在.
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound
}
