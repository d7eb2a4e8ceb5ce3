package httpx

import (
	"net/http"

	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/consts"

	"github.com/gin-gonic/gin"
)

// SetSessionCookie 写入 HttpOnly 会话 Cookie，整站可见，release 模式下仅 HTTPS 发送。
func SetSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, sessionCookie(token, int(config.Get().JWT.SessionTTL().Seconds())))
}

// ClearSessionCookie 删除会话 Cookie。
func ClearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, sessionCookie("", -1))
}

// SessionToken 读取请求中的会话令牌，不存在时返回空串。
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(consts.SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     consts.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.IsRelease(),
		SameSite: http.SameSiteLaxMode,
	}
}
