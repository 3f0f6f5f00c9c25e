package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/cache"
	"github.com/yvesmh/harmonia/pkg/internal/handle"
	"github.com/yvesmh/harmonia/pkg/middleware"
)

// galleryCacheTTL 画廊响应缓存时长；内容由确认/删除驱动变化，短 TTL 足够.
const galleryCacheTTL = 30 * time.Second

// RegisterGalleryRoutes 注册画廊公开路由. 画廊是匿名高频读取面，
// 响应经 HTTP 缓存中间件短期缓存.
func RegisterGalleryRoutes(g *gin.RouterGroup, kc *cache.Cache) {
	galleryRoutes := g.Group("/gallery")

	if kc != nil {
		cfg := middleware.DefaultCacheConfig(kc)
		cfg.TTL = galleryCacheTTL
		galleryRoutes.Use(middleware.CacheMiddleware(cfg))
	}

	galleryRoutes.GET("/active", handle.GalleryActive)
}
