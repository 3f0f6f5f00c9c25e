package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultUploadTTL        = 900  // 预签名 PUT 有效期（秒）
	DefaultDownloadTTL      = 600  // 预签名 GET 有效期（秒）
	DefaultPendingMaxAge    = 15   // pending 记录对账阈值（分钟）
	DefaultKeyRetryAttempts = 3    // 对象键冲突时的重试上限
	DefaultMaxMetadataBytes = 8192 // display metadata 序列化后的大小上限
)

// BrokerConfig 上传代理配置：预签名有效期、扩展名许可、对账窗口.
type BrokerConfig struct {
	UploadTTLSeconds   int `mapstructure:"upload_ttl_seconds"   rule:"min=60,max=3600"`
	DownloadTTLSeconds int `mapstructure:"download_ttl_seconds" rule:"min=60,max=3600"`
	// PendingMaxAgeMinutes 超过该时长仍未确认的 pending 记录进入对账
	PendingMaxAgeMinutes int `mapstructure:"pending_max_age_minutes" rule:"min=1,max=1440"`
	KeyRetryAttempts     int `mapstructure:"key_retry_attempts"      rule:"min=1,max=10"`
	MaxMetadataBytes     int `mapstructure:"max_metadata_bytes"      rule:"min=256"`
	// AllowedExtensions 按逻辑桶类型的扩展名白名单（小写，不含点）
	AllowedExtensions map[string][]string `mapstructure:"allowed_extensions"`
}

// GetUploadTTL 返回预签名 PUT 的有效期.
func (c *BrokerConfig) GetUploadTTL() time.Duration {
	return time.Duration(c.UploadTTLSeconds) * time.Second
}

// GetDownloadTTL 返回预签名 GET 的有效期.
func (c *BrokerConfig) GetDownloadTTL() time.Duration {
	return time.Duration(c.DownloadTTLSeconds) * time.Second
}

// GetPendingMaxAge 返回 pending 对账阈值.
func (c *BrokerConfig) GetPendingMaxAge() time.Duration {
	return time.Duration(c.PendingMaxAgeMinutes) * time.Minute
}

// ExtensionsFor 返回指定逻辑桶的扩展名白名单.
func (c *BrokerConfig) ExtensionsFor(t BucketType) []string {
	return c.AllowedExtensions[string(t)]
}

// setDefaults 设置上传代理配置的默认值.
func (c *BrokerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("broker.upload_ttl_seconds", DefaultUploadTTL)
	v.SetDefault("broker.download_ttl_seconds", DefaultDownloadTTL)
	v.SetDefault("broker.pending_max_age_minutes", DefaultPendingMaxAge)
	v.SetDefault("broker.key_retry_attempts", DefaultKeyRetryAttempts)
	v.SetDefault("broker.max_metadata_bytes", DefaultMaxMetadataBytes)
	v.SetDefault("broker.allowed_extensions", map[string][]string{
		// 教学资料：文档、乐谱与音频
		string(BucketPrivate): {"pdf", "doc", "docx", "xml", "mxl", "mid", "mp3", "wav", "jpg", "jpeg", "png"},
		// 门户公开素材
		string(BucketPublic): {"jpg", "jpeg", "png", "gif", "webp", "pdf"},
		// 画廊仅图片
		string(BucketGallery): {"jpg", "jpeg", "png", "gif", "webp"},
	})
}
