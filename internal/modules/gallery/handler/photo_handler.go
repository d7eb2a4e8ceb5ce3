package handler

import (
	"net/http"

	"golden-anniversary-server/internal/modules/common/httpx"
	moduledto "golden-anniversary-server/internal/modules/gallery/dto"

	"github.com/gin-gonic/gin"
)

// ListPublic 公开相册
func (h *Handler) ListPublic(c *gin.Context) {
	photos, err := h.galleryService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list photos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": photos, "total": len(photos)})
}

func (h *Handler) List(c *gin.Context) {
	photos, err := h.galleryService.ListAdmin(c.Request.Context(), c.Query("category"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to list photos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": photos, "total": len(photos)})
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to upload photo: file is required"})
		return
	}

	photo, err := h.galleryService.Upload(c.Request.Context(), moduledto.UploadInput{
		File:     file,
		Category: c.PostForm("category"),
		Title:    c.PostForm("title"),
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to upload photo")
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *Handler) Update(c *gin.Context) {
	var req moduledto.UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update photo: invalid request"})
		return
	}

	photo, err := h.galleryService.Update(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to update photo")
		return
	}
	c.JSON(http.StatusOK, photo)
}

func (h *Handler) Reorder(c *gin.Context) {
	var req moduledto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to reorder photos: invalid request"})
		return
	}

	if err := h.galleryService.Reorder(c.Request.Context(), req.IDs); err != nil {
		httpx.WriteServiceError(c, err, "failed to reorder photos")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := h.galleryService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to delete photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
