package types

// UploadURLRequest 申请上传槽位请求.
type UploadURLRequest struct {
	// 文件扩展名（不带点），按桶类型的允许列表校验
	Extension string `binding:"required" json:"extension"`
	// 声明的内容类型，绑定进预签名 PUT
	ContentType string `binding:"required" json:"content_type"`
	// 逻辑桶类型：private | public | gallery
	BucketType string `binding:"required" json:"bucket_type"`
	// 申报大小（字节），仅作参考
	DeclaredSize int64 `json:"declared_size,omitempty"`
	// 调用方自由展示字段（标题、描述、排序、标签），经纪器只限制大小
	DisplayMetadata map[string]any `json:"display_metadata,omitempty"`
}

// UploadURLResponse 上传槽位响应.
type UploadURLResponse struct {
	AssetID string `json:"asset_id"` // 资产标识，确认上传时回传
	// UploadURL 浏览器直接对存储端点执行 PUT 的预签名 URL，
	// 上传时必须携带申请时声明的 Content-Type
	UploadURL string `json:"upload_url"`
	ExpiresIn int    `json:"expires_in"` // 有效期（秒）
}

// ConfirmUploadRequest 确认上传请求.
type ConfirmUploadRequest struct {
	AssetID string `binding:"required" json:"asset_id"`
	// 可选：确认时补充/覆盖展示字段
	DisplayMetadata map[string]any `json:"display_metadata,omitempty"`
}

// AssetRecord 资产的对外视图. 公开资产的 URL 已通过解析器规范化，
// 私有资产 URL 为空，需单独申请下载链接.
type AssetRecord struct {
	ID              string         `json:"id"`
	OwnerID         string         `json:"owner_id"`
	BucketType      string         `json:"bucket_type"`
	URL             string         `json:"url,omitempty"`
	ContentType     string         `json:"content_type"`
	Size            int64          `json:"size"`
	Status          string         `json:"status"`
	DisplayMetadata map[string]any `json:"display_metadata,omitempty"`
	CreatedAt       string         `json:"created_at"`
	ConfirmedAt     string         `json:"confirmed_at,omitempty"`
}

// ListMaterialsResponse 素材列表响应.
type ListMaterialsResponse struct {
	Total  int64         `json:"total"`
	Assets []AssetRecord `json:"assets"`
}

// DownloadURLResponse 私有资产的时限下载链接.
type DownloadURLResponse struct {
	AssetID     string `json:"asset_id"`
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"` // 有效期（秒）
}

// DeleteAssetResponse 删除结果.
type DeleteAssetResponse struct {
	AssetID string `json:"asset_id"`
	Deleted bool   `json:"deleted"`
}
