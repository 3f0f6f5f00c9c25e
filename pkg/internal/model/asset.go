// Package model 定义资产元数据的持久化模型.
package model

import (
	"time"
)

// AssetStatus 资产生命周期状态.
type AssetStatus string

const (
	// AssetStatusPending 已签发上传槽位，字节尚未确认落地.
	AssetStatusPending AssetStatus = "pending"
	// AssetStatusConfirmed 对象已验证存在，资产对列表可见.
	AssetStatusConfirmed AssetStatus = "confirmed"
	// AssetStatusDeleted 逻辑删除墓碑，对账与审计仍可追溯.
	AssetStatusDeleted AssetStatus = "deleted"
)

// Asset 资产模型：经纪器管理的单个上传对象及其生命周期.
type Asset struct {
	// 资产标识，创建 pending 记录时分配，终生不变
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// 上传主体的身份，创建后不可变
	OwnerID string `gorm:"size:255;index" json:"owner_id"`
	// 逻辑桶类型（private/public/gallery），和对象键一起唯一
	BucketType string `gorm:"size:16;index:idx_bucket_key,unique;index" json:"bucket_type"`
	// 对象键（S3 key），由经纪器生成，客户端不可指定
	ObjectKey   string `gorm:"size:1024;index:idx_bucket_key,unique" json:"object_key"`
	ContentType string `gorm:"size:255"                              json:"content_type"`
	// 客户端申报的大小，仅作参考，不用于计量
	DeclaredSize int64 `json:"declared_size,omitempty"`
	// 确认时从对象存储 stat 得到的真实大小与 ETag
	Size int64  `gorm:"index"   json:"size"`
	// gorm 默认把 ETag 映射到 e_tag，列名显式固定为 etag
	ETag string `gorm:"column:etag;size:64" json:"etag"`
	// 生命周期状态：pending | confirmed | deleted
	Status AssetStatus `gorm:"size:16;index" json:"status"`
	// DisplayMetadata 以 JSON 字符串形式存储调用方自由字段（标题、排序、标签等），
	// 经纪器只限制大小，不做语义校验
	DisplayMetadata string `gorm:"type:text" json:"display_metadata"`
	// 审计时间戳；删除是显式的状态翻转，不用 gorm 软删除
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `gorm:"index" json:"confirmed_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// IsPending 资产是否处于待确认状态.
func (a *Asset) IsPending() bool { return a.Status == AssetStatusPending }

// IsConfirmed 资产是否已确认可见.
func (a *Asset) IsConfirmed() bool { return a.Status == AssetStatusConfirmed }

// IsDeleted 资产是否已删除.
func (a *Asset) IsDeleted() bool { return a.Status == AssetStatusDeleted }
