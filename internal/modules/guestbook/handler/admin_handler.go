package handler

import (
	"net/http"

	"golden-anniversary-server/internal/modules/common/httpx"
	moduledto "golden-anniversary-server/internal/modules/guestbook/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) List(c *gin.Context) {
	var q moduledto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to list messages: invalid query"})
		return
	}

	result, err := h.guestbookService.List(c.Request.Context(), q)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.guestbookService.Stats(c.Request.Context())
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to count messages")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) Approve(c *gin.Context) {
	msg, err := h.guestbookService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to approve message")
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) Reject(c *gin.Context) {
	msg, err := h.guestbookService.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to reject message")
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := h.guestbookService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to delete message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) Batch(c *gin.Context) {
	var req moduledto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to run batch action: invalid request"})
		return
	}

	result, err := h.guestbookService.Batch(c.Request.Context(), req.Action, req.IDs)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to run batch action")
		return
	}
	c.JSON(http.StatusOK, result)
}
