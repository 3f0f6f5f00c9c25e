// Package handle 提供请求处理器的实现，用于处理HTTP请求.
package handle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/internal/policy"
	"github.com/yvesmh/harmonia/pkg/internal/service"
	"github.com/yvesmh/harmonia/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

func checkUser(c *gin.Context) (string, error) {
	// 提取用户身份：认证代理注入的 Header 优先 -> query 参数 -> 默认 test-user（便于测试）
	user := c.GetHeader("X-Auth-Request-Email")
	if user == "" {
		user = c.GetHeader("X-User")
	}

	if user == "" {
		user = c.Query("user")
	}
	// 测试默认值，不为 Release 模式时
	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	// 使用 validator 验证用户名格式为 email
	if err := rule.ValidateVar(user, "required,email"); err != nil {
		return "", err
	}

	return user, nil
}

// checkActor 在用户身份之上附加角色，构成授权裁决所需的主体.
// 角色由认证代理经 X-Roles 注入，逗号分隔.
func checkActor(c *gin.Context) (policy.Actor, error) {
	user, err := checkUser(c)
	if err != nil {
		return policy.Actor{}, err
	}

	var roles []string

	for _, r := range strings.Split(c.GetHeader("X-Roles"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}

	return policy.Actor{ID: user, Roles: roles}, nil
}

// writeServiceError 把服务层错误分类映射为 HTTP 状态码.
//
//	ValidationError  -> 400 请求本身不合法
//	ForbiddenError   -> 403 主体无权操作
//	NotFoundError    -> 404 资产不存在或已删除
//	NotUploadedError -> 409 字节尚未落地，客户端可重试确认
//	ConflictError    -> 500 键生成重试耗尽，属于服务端异常
func writeServiceError(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		ferr *service.ForbiddenError
		nfrr *service.NotFoundError
		nurr *service.NotUploadedError
		cerr *service.ConflictError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &ferr):
		c.JSON(http.StatusForbidden, gin.H{"error": ferr.Error()})
	case errors.As(err, &nfrr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfrr.Error()})
	case errors.As(err, &nurr):
		c.JSON(http.StatusConflict, gin.H{"error": nurr.Error(), "retryable": true})
	case errors.As(err, &cerr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": cerr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
