package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/warmly/bot/internal/handler"
)

// SetupRouter 配置 Gin 引擎和后台路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("warmly_session", store))

	r.GET("/healthz", handler.Health)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/api/login", api.Login)
		admin.POST("/api/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/api/dashboard", api.Dashboard)
			auth.GET("/api/users", api.ListUsers)
			auth.GET("/api/users/:id/stats", api.UserStats)
			auth.GET("/users/:id/archive", api.UserArchive)
		}
	}

	return r
}
