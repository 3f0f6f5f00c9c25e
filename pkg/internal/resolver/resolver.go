// Package resolver 将历史遗留的资产引用规范化为可访问的 URL.
//
// 存量数据中同一概念存在三种写法：完整绝对 URL、裸对象键、以及把
// 已弃用桶名嵌在路径段里的键. 解析按固定顺序的规则表进行，首条命中
// 即返回，全程纯函数，不访问网络，列表接口可一次解析 N 条引用.
package resolver

import (
	"strings"

	"github.com/yvesmh/harmonia/pkg/configs"
)

// Resolver 资产引用解析器. 规则表在构造时由配置固化，之后只读.
type Resolver struct {
	baseURL      string
	publicBucket string
	// markers 已弃用的桶名列表，按配置顺序匹配
	markers []string
	buckets map[configs.BucketType]string
}

// New 从 S3 配置构造解析器.
func New(cfg *configs.S3Config) *Resolver {
	return &Resolver{
		baseURL:      strings.TrimRight(cfg.GetEndpointURL(), "/"),
		publicBucket: cfg.PublicBucket,
		markers:      cfg.LegacyBuckets,
		buckets:      cfg.Buckets(),
	}
}

// Resolve 把存储引用规范化为可访问的绝对 URL，规则依次为：
//  1. 已是绝对 URL（http:// 或 https://），原样返回；
//  2. 路径段中含已弃用桶名，取桶名之后的部分重挂到当前公共桶下，
//     保留子路径（如分类目录）；
//  3. 其余视为当前公共桶下的裸键.
func (r *Resolver) Resolve(ref string) string {
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	for _, marker := range r.markers {
		if rest, ok := splitAfterSegment(ref, marker); ok {
			return r.publicURL(rest)
		}
	}

	return r.publicURL(strings.TrimLeft(ref, "/"))
}

// PublicURL 返回当前公共桶下指定键的绝对 URL.
func (r *Resolver) PublicURL(key string) string {
	return r.publicURL(strings.TrimLeft(key, "/"))
}

// URLFor 返回指定逻辑桶下对象键的绝对 URL. 与 Resolve 不同，
// 它面向桶类型已知的当前资产，不套用遗留规则表.
func (r *Resolver) URLFor(t configs.BucketType, key string) string {
	bucket, ok := r.buckets[t]
	if !ok {
		bucket = r.publicBucket
	}

	return r.baseURL + "/" + bucket + "/" + strings.TrimLeft(key, "/")
}

// ResolveIn 按规则表解析引用，但裸键落到指定逻辑桶而非公共桶.
// 绝对 URL 与遗留桶名引用的处理与 Resolve 一致（遗留数据只存在于
// 历史公共桶）.
func (r *Resolver) ResolveIn(t configs.BucketType, ref string) string {
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	for _, marker := range r.markers {
		if rest, ok := splitAfterSegment(ref, marker); ok {
			return r.publicURL(rest)
		}
	}

	return r.URLFor(t, ref)
}

func (r *Resolver) publicURL(key string) string {
	return r.baseURL + "/" + r.publicBucket + "/" + key
}

// splitAfterSegment 在 ref 中查找作为完整路径段出现的 marker，
// 返回其后的剩余路径. marker 作为子串出现但非完整段时不命中.
func splitAfterSegment(ref, marker string) (string, bool) {
	segments := strings.Split(ref, "/")
	for i, seg := range segments {
		if seg == marker && i < len(segments)-1 {
			return strings.Join(segments[i+1:], "/"), true
		}
	}

	return "", false
}
