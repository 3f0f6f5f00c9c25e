package types

// GalleryActiveResponse 画廊当前可见（已确认）的图片，按展示元数据中的
// position 排序返回.
type GalleryActiveResponse struct {
	Total  int64         `json:"total"`
	Images []AssetRecord `json:"images"`
}
