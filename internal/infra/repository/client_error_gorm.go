package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ClientErrorGormRepository struct {
	db *gorm.DB
}

func NewClientErrorGormRepository(db *gorm.DB) *ClientErrorGormRepository {
	return &ClientErrorGormRepository{db: db}
}

var _ repo.ClientErrorRepository = (*ClientErrorGormRepository)(nil)

func (r *ClientErrorGormRepository) Create(ctx context.Context, report *model.ClientErrorReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ClientErrorGormRepository) List(ctx context.Context, filter repo.ClientErrorFilter) ([]model.ClientErrorReport, error) {
	filter = filter.Normalize()
	q := r.db.WithContext(ctx).Model(&model.ClientErrorReport{})

	if filter.Device != nil {
		q = q.Where("device = ?", *filter.Device)
	}
	if filter.Component != nil {
		q = q.Where("component = ?", *filter.Component)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}

	//新しい順
	q = q.Order("id DESC").Limit(filter.Limit).Offset(filter.Offset)

	var out []model.ClientErrorReport
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
