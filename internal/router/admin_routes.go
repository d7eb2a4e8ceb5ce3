package router

import (
	"golden-anniversary-server/internal/modules"
	"golden-anniversary-server/internal/realtime"

	"github.com/gin-gonic/gin"
)

// 会话校验由全局 AdminGuard 完成，这里只负责注册
func registerAdminRoutes(api *gin.RouterGroup, jsonBody, uploadBody, loginLimiter gin.HandlerFunc, m *modules.AppModules, hub *realtime.Hub) {
	adminGroup := api.Group("/admin")

	adminGroup.POST("/login", loginLimiter, jsonBody, m.Auth.Handler.Login)
	adminGroup.POST("/logout", m.Auth.Handler.Logout)
	adminGroup.GET("/me", m.Auth.Handler.Me)

	adminGroup.GET("/messages", m.Guestbook.Handler.List)
	adminGroup.GET("/messages/stats", m.Guestbook.Handler.Stats)
	adminGroup.POST("/messages/batch", jsonBody, m.Guestbook.Handler.Batch)
	adminGroup.POST("/messages/:id/approve", m.Guestbook.Handler.Approve)
	adminGroup.POST("/messages/:id/reject", m.Guestbook.Handler.Reject)
	adminGroup.DELETE("/messages/:id", m.Guestbook.Handler.Delete)

	adminGroup.GET("/photos", m.Gallery.Handler.List)
	adminGroup.POST("/photos", uploadBody, m.Gallery.Handler.Upload)
	adminGroup.PUT("/photos/order", jsonBody, m.Gallery.Handler.Reorder)
	adminGroup.PATCH("/photos/:id", jsonBody, m.Gallery.Handler.Update)
	adminGroup.DELETE("/photos/:id", m.Gallery.Handler.Delete)

	adminGroup.GET("/ws", hub.ServeWS)
}
