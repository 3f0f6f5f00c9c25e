package service

import "fmt"

// 经纪器错误分类. 每类错误映射到固定的 HTTP 语义（见 handle 层）：
// ValidationError→400、ConflictError→重试耗尽后 500、ForbiddenError→403、
// NotUploadedError→409（可重试）、NotFoundError→404.
// 网关的瞬时传输错误不在此列，以包装错误原样上抛为 500.

// ValidationError 签发上传槽位时的入参校验失败，不自动重试.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ConflictError 对象键冲突. 内部有界重试耗尽后才会上抛.
type ConflictError struct {
	BucketType string
	ObjectKey  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("object key conflict in %s bucket: %s", e.BucketType, e.ObjectKey)
}

// ForbiddenError 所有权/角色裁决失败，永不重试.
type ForbiddenError struct {
	AssetID string
	Op      string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("operation %s forbidden on asset %s", e.Op, e.AssetID)
}

// NotUploadedError 字节尚未落地时调用了确认. 记录保持 pending，调用方可稍后重试.
type NotUploadedError struct {
	AssetID   string
	ObjectKey string
}

func (e *NotUploadedError) Error() string {
	return fmt.Sprintf("asset %s not uploaded yet (key %s)", e.AssetID, e.ObjectKey)
}

// NotFoundError 资产不存在或已删除.
type NotFoundError struct {
	AssetID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asset %s not found", e.AssetID)
}
