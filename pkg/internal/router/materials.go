package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/internal/handle"
)

// RegisterMaterialsRoutes 注册教学素材上传生命周期路由.
func RegisterMaterialsRoutes(g *gin.RouterGroup) {
	materialsRoutes := g.Group("/materials")
	{
		// 申请上传槽位（生成预签名 PUT URL）
		materialsRoutes.POST("/upload-url", handle.UploadURL)
		// 确认字节已落地
		materialsRoutes.POST("/confirm-upload", handle.ConfirmUpload)
		// 列出自己已确认的素材
		materialsRoutes.GET("", handle.ListMaterials)

		// 单个素材操作
		singleGroup := materialsRoutes.Group("/:id")
		{
			// 获取下载链接（私有素材为时限预签名 GET）
			singleGroup.GET("/download-url", handle.MaterialDownloadURL)
			// 删除素材：先物理后逻辑
			singleGroup.DELETE("", handle.DeleteMaterial)
		}
	}
}
