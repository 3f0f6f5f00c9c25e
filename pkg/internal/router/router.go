// Package router 管理路由配置，用于设置HTTP服务的路由规则.
// router 包只负责将路径和处理器绑定到 gin 引擎，
// 处理器的实现由 pkg/internal/handle 提供.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/cache"
)

// RegisterAPIRoutes 在 /api/v1 分组下注册全部业务路由.
// kc 为可选的列表缓存，传 nil 时画廊路由不挂响应缓存.
func RegisterAPIRoutes(r *gin.Engine, kc *cache.Cache) {
	v1 := r.Group("/api/v1")

	RegisterMaterialsRoutes(v1)
	RegisterGalleryRoutes(v1, kc)
	RegisterHealthCheckRoute(v1)
	RegisterSchedulerRoutes(v1)
}
