package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"golden-anniversary-server/internal/cache"
	"golden-anniversary-server/internal/consts"
	"golden-anniversary-server/internal/model"
	moduledto "golden-anniversary-server/internal/modules/gallery/dto"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/storage"
	"golden-anniversary-server/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTitleLen = 200

var (
	errPhotoNotFound = errors.New("photo not found")
	errNoRowInserted = errors.New("metadata insert returned no row")
)

func (s *Service) List(ctx context.Context, category string) ([]model.Photo, error) {
	return s.list(ctx, consts.ViewGallery, category)
}

// ListAdmin 与公开列表数据相同，单独缓存以便后台写操作后立即可见
func (s *Service) ListAdmin(ctx context.Context, category string) ([]model.Photo, error) {
	return s.list(ctx, consts.ViewAdminPhotos, category)
}

func (s *Service) list(ctx context.Context, tag, category string) ([]model.Photo, error) {
	const op = "failed to list photos"

	category = strings.TrimSpace(category)
	if category != "" && !consts.IsPhotoCategory(category) {
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op, fmt.Errorf("unknown category %q", category))
	}

	photos, err := cache.Remember(ctx, s.Views, tag, "list:"+category, func(ctx context.Context) ([]model.Photo, error) {
		photos, err := s.photoStore.List(ctx, category)
		if err != nil {
			return nil, err
		}
		if err := platformservice.CheckRecords(s.AppService, photos); err != nil {
			return nil, err
		}
		if photos == nil {
			photos = []model.Photo{}
		}
		return photos, nil
	})
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}
	return photos, nil
}

type validatedUpload struct {
	content  []byte
	width    int
	height   int
	category string
	title    *string
}

// validateUpload 所有校验都在访问存储之前完成
func validateUpload(in moduledto.UploadInput) (*validatedUpload, error) {
	if in.File == nil {
		return nil, errors.New("file is required")
	}
	if in.File.Size > consts.MaxPhotoSize {
		return nil, fmt.Errorf("file exceeds %d bytes", consts.MaxPhotoSize)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = consts.PhotoCategoryMemory
	}
	if !consts.IsPhotoCategory(category) {
		return nil, fmt.Errorf("unknown category %q", in.Category)
	}

	var title *string
	if t := strings.TrimSpace(in.Title); t != "" {
		if utf8.RuneCountInString(t) > maxTitleLen {
			return nil, fmt.Errorf("title must be at most %d characters", maxTitleLen)
		}
		title = &t
	}

	src, err := in.File.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if ok, msg := utils.ValidateJPEGContent(src, in.File.Filename); !ok {
		return nil, errors.New(msg)
	}

	// 表单声明的大小不可信，以实际读取的字节为准
	content, err := io.ReadAll(io.LimitReader(src, consts.MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > consts.MaxPhotoSize {
		return nil, fmt.Errorf("file exceeds %d bytes", consts.MaxPhotoSize)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("invalid JPEG: %w", err)
	}

	return &validatedUpload{
		content:  content,
		width:    cfg.Width,
		height:   cfg.Height,
		category: category,
		title:    title,
	}, nil
}

// Upload 先写对象存储再写元数据。元数据写入失败或没有返回行时，删除刚写入的对象。
func (s *Service) Upload(ctx context.Context, in moduledto.UploadInput) (*model.Photo, error) {
	const op = "failed to upload photo"

	v, err := validateUpload(in)
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op, err)
	}

	order, err := s.photoStore.NextOrder(ctx, v.category)
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	now := s.now()
	key := storage.NewObjectKey(now, ".jpg")

	var (
		obj   *storage.Object
		photo *model.Photo
	)
	err = runSaga(ctx, s.Logger,
		sagaStep{
			name: "store object",
			run: func(ctx context.Context) error {
				var err error
				obj, err = s.storage.Put(ctx, key, bytes.NewReader(v.content), int64(len(v.content)), "image/jpeg")
				return err
			},
			compensate: func(ctx context.Context) error {
				return s.storage.Delete(ctx, obj.Key)
			},
		},
		sagaStep{
			name: "insert metadata",
			run: func(ctx context.Context) error {
				var err error
				photo, err = s.photoStore.Create(ctx, &model.Photo{
					ID:        uuid.NewString(),
					Filename:  path.Base(obj.Key),
					Title:     v.title,
					URL:       obj.URL,
					FileID:    obj.Key,
					Size:      obj.Size,
					Width:     v.width,
					Height:    v.height,
					Category:  v.category,
					Order:     order,
					CreatedAt: now,
				})
				if err == nil && photo == nil {
					err = errNoRowInserted
				}
				return err
			},
		},
	)
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	s.Invalidate(ctx, consts.ViewGallery, consts.ViewAdminPhotos)
	return photo, nil
}

// Update 只修改标题，空白标题写为 NULL
func (s *Service) Update(ctx context.Context, id string, title *string) (*model.Photo, error) {
	const op = "failed to update photo"

	if _, err := uuid.Parse(id); err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeNotFound, op, errPhotoNotFound)
	}
	if title != nil {
		t := strings.TrimSpace(*title)
		if utf8.RuneCountInString(t) > maxTitleLen {
			return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op,
				fmt.Errorf("title must be at most %d characters", maxTitleLen))
		}
		if t == "" {
			title = nil
		} else {
			title = &t
		}
	}

	photo, err := s.photoStore.UpdateTitle(ctx, id, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.Wrap(platformservice.ErrorCodeNotFound, op, errPhotoNotFound)
		}
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	s.Invalidate(ctx, consts.ViewGallery, consts.ViewAdminPhotos)
	return photo, nil
}

// Reorder 按给定顺序把 order 重排为 0..n-1。任何一个 id 格式错误则整批拒绝，不写库。
func (s *Service) Reorder(ctx context.Context, ids []string) error {
	const op = "failed to reorder photos"

	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return platformservice.Wrap(platformservice.ErrorCodeValidation, op, fmt.Errorf("invalid photo id %q", id))
		}
	}

	if err := s.photoStore.Reorder(ctx, ids); err != nil {
		return platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	s.Invalidate(ctx, consts.ViewGallery, consts.ViewAdminPhotos)
	return nil
}

// Delete 先删存储对象再删元数据。照片不存在时失败；存储删除失败时保留元数据，由调用方整体重试。
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	const op = "failed to delete photo"

	if _, err := uuid.Parse(id); err != nil {
		return "", platformservice.Wrap(platformservice.ErrorCodeNotFound, op, errPhotoNotFound)
	}

	photo, err := s.photoStore.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", platformservice.Wrap(platformservice.ErrorCodeNotFound, op, errPhotoNotFound)
		}
		return "", platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	if err := s.storage.Delete(ctx, photo.FileID); err != nil {
		return "", platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}
	if _, err := s.photoStore.Delete(ctx, id); err != nil {
		return "", platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	s.Invalidate(ctx, consts.ViewGallery, consts.ViewAdminPhotos)
	return id, nil
}
