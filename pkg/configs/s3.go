package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// BucketType 逻辑桶类型，决定物理桶与可见性策略.
type BucketType string

const (
	BucketPrivate BucketType = "private"
	BucketPublic  BucketType = "public"
	BucketGallery BucketType = "gallery"
)

// Valid 判断是否为已知的逻辑桶类型.
func (b BucketType) Valid() bool {
	switch b {
	case BucketPrivate, BucketPublic, BucketGallery:
		return true
	default:
		return false
	}
}

// WorldReadable 返回该逻辑桶是否对外公开可读.
func (b BucketType) WorldReadable() bool {
	return b == BucketPublic || b == BucketGallery
}

// S3Config MinIO S3存储配置.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	// 逻辑桶到物理桶名的映射
	PrivateBucket string `mapstructure:"private_bucket"`
	PublicBucket  string `mapstructure:"public_bucket"`
	GalleryBucket string `mapstructure:"gallery_bucket"`
	// LegacyBuckets 历史上已弃用的桶名；存量引用可能以这些名字作为路径段嵌在 URL 或键里，
	// 解析时按此表重定向到当前公共桶.
	LegacyBuckets []string `mapstructure:"legacy_buckets"`
}

const (
	DefaultS3Endpoint        = "localhost:9000"    // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"        // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"        // 默认秘密访问密钥
	DefaultS3UseSSL          = false               // 默认是否使用SSL
	DefaultS3Region          = "us-east-1"         // 默认区域
	DefaultS3PrivateBucket   = "harmonia-private"  // 默认私有桶
	DefaultS3PublicBucket    = "harmonia-public"   // 默认公共桶
	DefaultS3GalleryBucket   = "harmonia-gallery"  // 默认画廊桶
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// PhysicalBucket 将逻辑桶类型映射到物理桶名；未知类型返回空串.
func (c *S3Config) PhysicalBucket(t BucketType) string {
	switch t {
	case BucketPrivate:
		return c.PrivateBucket
	case BucketPublic:
		return c.PublicBucket
	case BucketGallery:
		return c.GalleryBucket
	default:
		return ""
	}
}

// Buckets 返回全部物理桶名，启动时用于批量确保桶存在.
func (c *S3Config) Buckets() map[BucketType]string {
	return map[BucketType]string{
		BucketPrivate: c.PrivateBucket,
		BucketPublic:  c.PublicBucket,
		BucketGallery: c.GalleryBucket,
	}
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.private_bucket", DefaultS3PrivateBucket)
	v.SetDefault("s3.public_bucket", DefaultS3PublicBucket)
	v.SetDefault("s3.gallery_bucket", DefaultS3GalleryBucket)
	// 平台早期用过的桶名，迁移后仅用于引用解析
	v.SetDefault("s3.legacy_buckets", []string{"musicschool-uploads", "harmonia-media"})
}
