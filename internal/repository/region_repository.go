package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"opsboard/internal/model"
)

// RegionRepository handles CRUD for regions.
type RegionRepository struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

func (r *RegionRepository) List(ctx context.Context) ([]model.Region, error) {
	var regions []model.Region
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *RegionRepository) GetByID(ctx context.Context, id uint) (*model.Region, error) {
	var region model.Region
	if err := r.db.WithContext(ctx).First(&region, id).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *RegionRepository) Create(ctx context.Context, region *model.Region) error {
	if err := r.db.WithContext(ctx).Create(region).Error; err != nil {
		return fmt.Errorf("create region: %w", err)
	}
	return nil
}

func (r *RegionRepository) Update(ctx context.Context, region *model.Region) error {
	if err := r.db.WithContext(ctx).Save(region).Error; err != nil {
		return fmt.Errorf("update region: %w", err)
	}
	return nil
}

func (r *RegionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Region{}, id).Error; err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	return nil
}
