package api

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// InitRoutes 注册全部路由
// 会话用 cookie store, 密钥来自配置, 换密钥等于踢掉所有会话
func InitRoutes(r *gin.Engine, s *Server, sessionSecret string) {
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("filmflow_session", store))

	// 无需鉴权
	r.GET("/healthz", s.HealthHandler)
	r.POST("/api/login", s.LoginHandler)
	r.POST("/api/webhook/emby", s.EmbyWebhookHandler)

	apiGroup := r.Group("/api")
	apiGroup.Use(AuthMiddleware())
	{
		apiGroup.POST("/logout", s.LogoutHandler)
		apiGroup.POST("/password", s.ChangePasswordHandler)
		apiGroup.POST("/2fa/enable", s.EnableTOTPHandler)
		apiGroup.POST("/2fa/confirm", s.ConfirmTOTPHandler)
		apiGroup.POST("/2fa/disable", s.DisableTOTPHandler)

		// Settings
		apiGroup.GET("/settings", s.GetSettingsHandler)
		apiGroup.POST("/settings", s.UpdateSettingsHandler)
		apiGroup.POST("/settings/emby-test", s.EmbyTestHandler)
		apiGroup.POST("/emby/refresh", s.EmbyRefreshHandler)

		// Cloud storage credentials
		apiGroup.GET("/storages", s.ListStoragesHandler)
		apiGroup.POST("/storages", s.CreateStorageHandler)
		apiGroup.PUT("/storages/:id", s.UpdateStorageHandler)
		apiGroup.DELETE("/storages/:id", s.DeleteStorageHandler)
		apiGroup.POST("/storages/:id/test", s.TestStorageHandler)

		// Cloud files
		apiGroup.GET("/files", s.ListFilesHandler)
		apiGroup.POST("/files/delete", s.DeleteFileHandler)
		apiGroup.POST("/offline-download", s.OfflineDownloadHandler)

		// Recognition and organize
		apiGroup.GET("/parse", s.ParseHandler)
		apiGroup.POST("/organize/preview", s.PreviewHandler)
		apiGroup.POST("/organize", s.SubmitOrganizeHandler)
		apiGroup.GET("/organize/tasks", s.ListTasksHandler)
		apiGroup.GET("/organize/tasks/:id", s.GetTaskHandler)
		apiGroup.POST("/organize/tasks/:id/cancel", s.CancelTaskHandler)
		apiGroup.GET("/organize/logs", s.OrganizeLogsHandler)
		apiGroup.DELETE("/organize/logs", s.ClearOrganizeLogsHandler)

		// System
		apiGroup.GET("/logs", s.LogsHandler)
		apiGroup.GET("/webhooks", s.ListWebhooksHandler)
		apiGroup.GET("/events", s.SSEHandler)
	}
}
