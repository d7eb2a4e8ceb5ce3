package handler

import (
	"net/http"
	"strconv"

	"golden-anniversary-server/internal/modules/common/httpx"
	moduledto "golden-anniversary-server/internal/modules/guestbook/dto"

	"github.com/gin-gonic/gin"
)

// Submit 访客提交留言
func (h *Handler) Submit(c *gin.Context) {
	var req moduledto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create message: invalid request"})
		return
	}

	msg, err := h.guestbookService.Create(c.Request.Context(), req)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to create message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListPublic 已审核通过的留言
func (h *Handler) ListPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.guestbookService.ListApproved(c.Request.Context(), page, pageSize)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, result)
}
