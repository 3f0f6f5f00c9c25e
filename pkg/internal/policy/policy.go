// Package policy 实现所有权与可见性裁决.
//
// 裁决是 (actor, asset) 的纯函数，不做任何 I/O，
// 在每次删除/取下载链接请求上同步调用.
package policy

import (
	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/model"
)

// Actor 发起操作的已认证身份.
type Actor struct {
	ID    string
	Roles []string
}

// Policy 持有管理员角色集合，由配置在构造时固化.
type Policy struct {
	adminRoles map[string]struct{}
}

// New 从管理员角色列表构造策略.
func New(adminRoles []string) *Policy {
	set := make(map[string]struct{}, len(adminRoles))
	for _, r := range adminRoles {
		set[r] = struct{}{}
	}

	return &Policy{adminRoles: set}
}

// IsAdmin 判断 actor 是否持有任一管理员角色.
func (p *Policy) IsAdmin(actor Actor) bool {
	for _, r := range actor.Roles {
		if _, ok := p.adminRoles[r]; ok {
			return true
		}
	}

	return false
}

// CanRead 公开桶（public/gallery）任何人可读；
// 私有桶只有所有者或管理员可读.
func (p *Policy) CanRead(actor Actor, asset *model.Asset) bool {
	if configs.BucketType(asset.BucketType).WorldReadable() {
		return true
	}

	return actor.ID == asset.OwnerID || p.IsAdmin(actor)
}

// CanDelete 所有者或管理员可删除，与桶类型无关.
func (p *Policy) CanDelete(actor Actor, asset *model.Asset) bool {
	return actor.ID == asset.OwnerID || p.IsAdmin(actor)
}
