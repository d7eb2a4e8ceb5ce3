package repo

import (
	"context"
	"database/sql"

	"golden-anniversary-server/internal/model"

	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	var created model.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Create(photo)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Where("id = ?", photo.ID).First(&created).Error
	})
	if err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, nil
	}
	return &created, nil
}

func (r *PhotoRepository) List(ctx context.Context, category string) ([]model.Photo, error) {
	var photos []model.Photo
	query := r.db.WithContext(ctx).Model(&model.Photo{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("sort_order ASC").Order("created_at ASC").Find(&photos).Error
	return photos, err
}

func (r *PhotoRepository) NextOrder(ctx context.Context, category string) (int, error) {
	var maxOrder sql.NullInt64
	err := r.db.WithContext(ctx).Model(&model.Photo{}).
		Where("category = ?", category).
		Select("MAX(sort_order)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (r *PhotoRepository) FindByID(ctx context.Context, id string) (*model.Photo, error) {
	var photo model.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) UpdateTitle(ctx context.Context, id string, title *string) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// MySQL 在值未变化时 RowsAffected 为 0，先查存在性
		if err := tx.Where("id = ?", id).First(&photo).Error; err != nil {
			return err
		}
		if err := tx.Model(&photo).Update("title", title).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&photo).Error
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&model.Photo{}).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PhotoRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Photo{})
	return res.RowsAffected, res.Error
}
