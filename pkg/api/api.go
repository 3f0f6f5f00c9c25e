// Package api 对外暴露路由注册入口，便于嵌入其他 gin 应用.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/cache"
	"github.com/yvesmh/harmonia/pkg/internal/router"
)

// RegisterGroup 将上传经纪相关的全部路由注册到传入的 gin 引擎.
// kc 为可选的响应缓存，传 nil 时画廊路由不做缓存.
func RegisterGroup(e *gin.Engine, kc *cache.Cache) *gin.Engine {
	router.RegisterAPIRoutes(e, kc)

	return e
}
