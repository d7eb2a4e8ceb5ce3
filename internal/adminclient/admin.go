package adminclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"golden-anniversary-server/internal/model"
	authdto "golden-anniversary-server/internal/modules/auth/dto"
	guestbookdto "golden-anniversary-server/internal/modules/guestbook/dto"
)

func (c *Client) Login(ctx context.Context, email, password string) (*authdto.SessionResponse, error) {
	var out authdto.SessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/login", nil, authdto.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*authdto.SessionResponse, error) {
	var out authdto.SessionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages status 为空表示全部
func (c *Client) ListMessages(ctx context.Context, page, pageSize int, status string) (*guestbookdto.MessagePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if status != "" {
		q.Set("status", status)
	}
	var out guestbookdto.MessagePage
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/messages", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllMessages 逐页拉取直到最后一页
func (c *Client) AllMessages(ctx context.Context, status string) ([]model.Message, error) {
	const pageSize = 100
	var all []model.Message
	for page := 1; ; page++ {
		p, err := c.ListMessages(ctx, page, pageSize, status)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.TotalPages {
			return all, nil
		}
	}
}

func (c *Client) MessageStats(ctx context.Context) (*guestbookdto.MessageStats, error) {
	var out guestbookdto.MessageStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/messages/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveMessage(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/messages/"+url.PathEscape(id)+"/approve", nil, nil, nil)
}

func (c *Client) RejectMessage(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/messages/"+url.PathEscape(id)+"/reject", nil, nil, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/admin/messages/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) BatchMessages(ctx context.Context, action string, ids []string) (*guestbookdto.BatchResult, error) {
	var out guestbookdto.BatchResult
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/messages/batch", nil, guestbookdto.BatchRequest{Action: action, IDs: ids}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPhotos(ctx context.Context, category string) ([]model.Photo, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	var out struct {
		Items []model.Photo `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/photos", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ReorderPhotos 签名与 reorder.Persister 一致
func (c *Client) ReorderPhotos(ctx context.Context, ids []string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/admin/photos/order", nil, map[string][]string{"ids": ids}, nil)
}

func (c *Client) UpdatePhotoTitle(ctx context.Context, id string, title *string) (*model.Photo, error) {
	var out model.Photo
	err := c.doJSON(ctx, http.MethodPatch, "/api/admin/photos/"+url.PathEscape(id), nil, map[string]*string{"title": title}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePhoto(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/admin/photos/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) UploadPhoto(ctx context.Context, filename string, r io.Reader, category, title string) (*model.Photo, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if category != "" {
		_ = w.WriteField("category", category)
	}
	if title != "" {
		_ = w.WriteField("title", title)
	}
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/admin/photos", nil), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out model.Photo
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFiles 逐个上传。取消只在两个文件之间检查，已经开始的上传会完整执行。
// 返回已成功上传的照片；遇到第一个错误即停止。
func (c *Client) UploadFiles(ctx context.Context, paths []string, category string) ([]model.Photo, error) {
	uploaded := make([]model.Photo, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return uploaded, err
		}
		photo, err := c.uploadFile(context.WithoutCancel(ctx), p, category)
		if err != nil {
			return uploaded, fmt.Errorf("upload %s: %w", p, err)
		}
		uploaded = append(uploaded, *photo)
	}
	return uploaded, nil
}

func (c *Client) uploadFile(ctx context.Context, path, category string) (*model.Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.UploadPhoto(ctx, path, f, category, "")
}
