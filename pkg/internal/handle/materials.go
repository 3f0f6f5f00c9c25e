package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/service"
	"github.com/yvesmh/harmonia/pkg/internal/types"
	"github.com/yvesmh/harmonia/pkg/log"
)

// UploadURL 处理上传槽位申请：校验请求并签发预签名 PUT URL.
//
//	@Summary		申请上传槽位
//	@Description	校验扩展名与桶类型白名单，登记 pending 资产并签发预签名的 PUT URL，浏览器凭此直传对象存储
//	@Tags			教学素材
//	@Accept			json
//	@Produce		json
//	@Param			upload	body		types.UploadURLRequest	true	"上传槽位申请"
//	@Success		200		{object}	types.UploadURLResponse	"资产标识与预签名上传 URL"
//	@Failure		400		{object}	map[string]string		"请求参数错误"
//	@Failure		500		{object}	map[string]string		"服务器内部错误"
//	@Router			/api/v1/materials/upload-url [post]
func UploadURL(c *gin.Context) {
	l := log.Logger()

	var req types.UploadURLRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewAssetService(c.Request.Context(), configs.GetConfig())

	resp, err := svc.BeginUpload(c.Request.Context(), user, &req)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Msg("failed to issue upload slot")
		writeServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload 处理上传确认：核验字节已落地后把资产翻转为 confirmed.
//
//	@Summary		确认上传完成
//	@Description	对存储端做一次新鲜 stat 核验对象存在，登记实际大小与 ETag；重复确认幂等返回
//	@Tags			教学素材
//	@Accept			json
//	@Produce		json
//	@Param			confirm	body		types.ConfirmUploadRequest	true	"上传确认请求"
//	@Success		200		{object}	types.AssetRecord			"已确认的资产记录"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		403		{object}	map[string]string			"非所有者确认"
//	@Failure		404		{object}	map[string]string			"资产不存在"
//	@Failure		409		{object}	map[string]string			"字节尚未落地，可重试"
//	@Router			/api/v1/materials/confirm-upload [post]
func ConfirmUpload(c *gin.Context) {
	l := log.Logger()

	var req types.ConfirmUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewAssetService(c.Request.Context(), configs.GetConfig())

	rec, err := svc.ConfirmUpload(c.Request.Context(), user, &req)
	if err != nil {
		l.Warn().Err(err).Str("asset_id", req.AssetID).Msg("failed to confirm upload")
		writeServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, rec)
}

// ListMaterials 返回调用者已确认的素材列表.
//
//	@Summary		列出我的素材
//	@Description	仅返回 confirmed 状态的资产；公开资产的引用已解析为绝对 URL
//	@Tags			教学素材
//	@Produce		json
//	@Success		200	{object}	types.ListMaterialsResponse	"素材列表"
//	@Failure		400	{object}	map[string]string			"请求参数错误"
//	@Failure		500	{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/materials [get]
func ListMaterials(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewAssetService(c.Request.Context(), configs.GetConfig())

	resp, err := svc.ListMaterials(c.Request.Context(), user)
	if err != nil {
		l.Error().Err(err).Str("user", user).Msg("failed to list materials")
		writeServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// MaterialDownloadURL 为单个素材签发下载链接.
//
//	@Summary		获取素材下载链接
//	@Description	经所有权裁决后签发：公开资产返回永久 URL，私有资产返回带时限的预签名 GET
//	@Tags			教学素材
//	@Produce		json
//	@Param			id	path		string						true	"资产标识"
//	@Success		200	{object}	types.DownloadURLResponse	"下载链接"
//	@Failure		403	{object}	map[string]string			"无权读取"
//	@Failure		404	{object}	map[string]string			"资产不存在"
//	@Router			/api/v1/materials/{id}/download-url [get]
func MaterialDownloadURL(c *gin.Context) {
	l := log.Logger()

	actor, err := checkActor(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	assetID := c.Param("id")

	svc := service.NewAssetService(c.Request.Context(), configs.GetConfig())

	resp, err := svc.DownloadURL(c.Request.Context(), actor, assetID)
	if err != nil {
		l.Warn().Err(err).Str("asset_id", assetID).Msg("failed to issue download url")
		writeServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteMaterial 删除素材：先物理删除对象，成功后翻转元数据.
//
//	@Summary		删除素材
//	@Description	所有者或管理员可删；物理删除失败时元数据保持不变，客户端可重试
//	@Tags			教学素材
//	@Produce		json
//	@Param			id	path		string						true	"资产标识"
//	@Success		200	{object}	types.DeleteAssetResponse	"删除结果"
//	@Failure		403	{object}	map[string]string			"无权删除"
//	@Failure		404	{object}	map[string]string			"资产不存在"
//	@Failure		500	{object}	map[string]string			"物理删除失败"
//	@Router			/api/v1/materials/{id} [delete]
func DeleteMaterial(c *gin.Context) {
	l := log.Logger()

	actor, err := checkActor(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	assetID := c.Param("id")

	svc := service.NewAssetService(c.Request.Context(), configs.GetConfig())

	resp, err := svc.DeleteAsset(c.Request.Context(), actor, assetID)
	if err != nil {
		l.Warn().Err(err).Str("asset_id", assetID).Str("actor", actor.ID).Msg("failed to delete asset")
		writeServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
