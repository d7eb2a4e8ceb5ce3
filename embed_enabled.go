//go:build embed

package main

import (
	"embed"
	"io/fs"
	"log"
	"net/http"

	"golden-anniversary-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed all:frontend
var embedFS embed.FS

// GetFrontendAssets 返回构建好的 SPA（guestbook、gallery、admin 页面）
// 编译时带上 -tags embed 就会走这里，需要先把前端产物放到 frontend/
func GetFrontendAssets() fs.FS {
	f, err := fs.Sub(embedFS, "frontend")
	if err != nil {
		panic(err)
	}
	return f
}

func setupFrontend(r *gin.Engine, distFS fs.FS) []byte {
	if assetsFS, err := fs.Sub(distFS, "assets"); err == nil {
		r.Group("/assets", middleware.StaticCacheMiddleware(photoCacheControl)).
			StaticFS("", http.FS(assetsFS))
	} else {
		log.Printf("⚠️ 警告: 无法挂载 frontend/assets: %v", err)
	}

	indexData, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		log.Panicf("❌ 无法读取嵌入的 frontend/index.html: %v", err)
	}
	return indexData
}
