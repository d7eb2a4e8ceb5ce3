package middleware

import (
	"context"
	"net/http"
	"strings"

	"golden-anniversary-server/internal/model"
	"golden-anniversary-server/internal/modules/common/httpx"
	"golden-anniversary-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserLookup 按会话中的 user_id 查询账号，账号被删除后会话立即失效
type UserLookup interface {
	FindUserByID(ctx context.Context, id uint) (*model.User, error)
}

var guardedPrefixes = []string{"/api/admin", "/admin"}

// 登录入口必须在没有会话时可达
var guardExempt = map[string]struct{}{
	"/api/admin/login": {},
	"/admin/login":     {},
}

// IsGuardedPath 判断路径是否属于后台区域
func IsGuardedPath(path string) bool {
	if _, ok := guardExempt[strings.TrimSuffix(path, "/")]; ok {
		return false
	}
	for _, prefix := range guardedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// AdminGuard 作用于整个引擎，只拦截后台路径。
// 没有 Cookie、令牌无效、账号不存在或查询出错时一律 307 跳回首页，每次请求都重新查询账号。
func AdminGuard(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsGuardedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := httpx.SessionToken(c)
		if token == "" {
			redirectHome(c)
			return
		}

		claims, ok := utils.VerifySessionToken(token)
		if !ok {
			redirectHome(c)
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			redirectHome(c)
			return
		}

		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/")
	c.Abort()
}
