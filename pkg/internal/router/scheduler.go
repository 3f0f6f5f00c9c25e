// Package router 管理路由配置，用于设置HTTP服务的路由.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yvesmh/harmonia/pkg/internal/handle"
	"github.com/yvesmh/harmonia/pkg/middleware"
)

// RegisterSchedulerRoutes 注册调度器相关路由. 停止与删除任务属于
// 运维操作，要求 admin 角色.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	g.GET("/scheduler/jobs", handle.SchedulerJobs)

	g.POST("/scheduler/jobs/stop", middleware.RequireMinRole(middleware.RoleAdmin), handle.SchedulerStopJobs)

	g.DELETE("/scheduler/jobs/:id", middleware.RequireMinRole(middleware.RoleAdmin), handle.SchedulerRemoveJob)

	g.GET("/scheduler/queue/waiting", handle.SchedulerQueueWaiting)
}
