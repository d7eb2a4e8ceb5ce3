package router

import (
	"golden-anniversary-server/internal/modules"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(api *gin.RouterGroup, jsonBody, guestbookLimiter gin.HandlerFunc, m *modules.AppModules) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong from gin"})
	})

	api.GET("/guestbook", m.Guestbook.Handler.ListPublic)
	api.POST("/guestbook", guestbookLimiter, jsonBody, m.Guestbook.Handler.Submit)
	api.GET("/gallery", m.Gallery.Handler.ListPublic)
}
