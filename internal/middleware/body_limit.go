package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 默认 JSON 请求体上限
const DefaultBodyLimit int64 = 64 << 10

// BodyLimitMiddleware 限制请求体大小，声明的长度超限时直接返回 413，
// 未声明长度时由 MaxBytesReader 在读取时截断。
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultBodyLimit
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("请求体不能超过 %d 字节", maxBytes)})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
