//go:build !embed

package main

import (
	"io/fs"

	"github.com/gin-gonic/gin"
)

// GetFrontendAssets 纯 API 模式返回 nil，前端单独部署
func GetFrontendAssets() fs.FS {
	return nil
}

func setupFrontend(_ *gin.Engine, _ fs.FS) []byte {
	return nil
}
