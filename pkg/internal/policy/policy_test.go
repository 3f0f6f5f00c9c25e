package policy_test

import (
	"testing"

	"github.com/yvesmh/harmonia/pkg/internal/model"
	"github.com/yvesmh/harmonia/pkg/internal/policy"
)

func newTestPolicy() *policy.Policy {
	return policy.New([]string{"admin", "direction"})
}

// TestAuthorizationMatrix 测试 {owner, non-owner} × {public, private} 的裁决矩阵.
func TestAuthorizationMatrix(t *testing.T) {
	p := newTestPolicy()

	owner := policy.Actor{ID: "u1"}
	stranger := policy.Actor{ID: "u2"}

	cases := []struct {
		name       string
		actor      policy.Actor
		bucketType string
		canRead    bool
		canDelete  bool
	}{
		{"owner public", owner, "public", true, true},
		{"owner private", owner, "private", true, true},
		{"non-owner public", stranger, "public", true, false},
		{"non-owner private", stranger, "private", false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			asset := &model.Asset{OwnerID: "u1", BucketType: c.bucketType}

			if got := p.CanRead(c.actor, asset); got != c.canRead {
				t.Errorf("CanRead = %v, want %v", got, c.canRead)
			}

			if got := p.CanDelete(c.actor, asset); got != c.canDelete {
				t.Errorf("CanDelete = %v, want %v", got, c.canDelete)
			}
		})
	}
}

// TestAdminOverridesOwnership 测试管理员角色无视所有权可删可读.
func TestAdminOverridesOwnership(t *testing.T) {
	p := newTestPolicy()

	admin := policy.Actor{ID: "u9", Roles: []string{"admin"}}
	direction := policy.Actor{ID: "u8", Roles: []string{"student", "direction"}}
	asset := &model.Asset{OwnerID: "u1", BucketType: "private"}

	for _, actor := range []policy.Actor{admin, direction} {
		if !p.CanDelete(actor, asset) {
			t.Errorf("admin actor %s should be allowed to delete", actor.ID)
		}

		if !p.CanRead(actor, asset) {
			t.Errorf("admin actor %s should be allowed to read", actor.ID)
		}
	}
}

// TestGalleryIsWorldReadable 测试 gallery 桶对任何人可读.
func TestGalleryIsWorldReadable(t *testing.T) {
	p := newTestPolicy()

	anon := policy.Actor{ID: "anyone"}
	asset := &model.Asset{OwnerID: "u1", BucketType: "gallery"}

	if !p.CanRead(anon, asset) {
		t.Error("gallery asset should be world readable")
	}

	if p.CanDelete(anon, asset) {
		t.Error("non-owner without admin role should not delete gallery asset")
	}
}

// TestUnknownRoleIsNotAdmin 测试未配置的角色不授予管理员权限.
func TestUnknownRoleIsNotAdmin(t *testing.T) {
	p := newTestPolicy()

	teacher := policy.Actor{ID: "u3", Roles: []string{"teacher"}}
	asset := &model.Asset{OwnerID: "u1", BucketType: "private"}

	if p.CanDelete(teacher, asset) {
		t.Error("teacher role should not override ownership")
	}
}
