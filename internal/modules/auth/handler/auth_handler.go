package handler

import (
	"net/http"

	moduledto "golden-anniversary-server/internal/modules/auth/dto"
	"golden-anniversary-server/internal/modules/common/httpx"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	var req moduledto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to sign in")
		return
	}

	httpx.SetSessionCookie(c, token)
	c.JSON(http.StatusOK, moduledto.SessionResponse{ID: user.ID, Email: user.Email})
}

func (h *Handler) Logout(c *gin.Context) {
	httpx.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me 返回当前会话账号，身份由 AdminGuard 写入上下文
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, moduledto.SessionResponse{
		ID:    c.GetUint("user_id"),
		Email: c.GetString("email"),
	})
}
