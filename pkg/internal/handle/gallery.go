package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/service"
	"github.com/yvesmh/harmonia/pkg/log"
)

// GalleryActive 返回画廊当前展示的图片集合. 无需认证，
// 画廊桶世界可读，返回的 URL 均为永久公开地址.
//
//	@Summary		获取画廊展示图片
//	@Description	返回所有已确认的画廊图片，按展示元数据中的 position 升序排列
//	@Tags			画廊
//	@Produce		json
//	@Success		200	{object}	types.GalleryActiveResponse	"画廊图片列表"
//	@Failure		500	{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/gallery/active [get]
func GalleryActive(c *gin.Context) {
	svc := service.NewAssetService(c.Request.Context(), configs.GetConfig())

	resp, err := svc.GalleryActive(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("failed to list active gallery")
		writeServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
