package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"opsboard/internal/model"
)

// IndustryRepository manages the industry reference list.
type IndustryRepository struct {
	db *gorm.DB
}

func NewIndustryRepository(db *gorm.DB) *IndustryRepository {
	return &IndustryRepository{db: db}
}

func (r *IndustryRepository) List(ctx context.Context) ([]model.Industry, error) {
	var industries []model.Industry
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&industries).Error; err != nil {
		return nil, err
	}
	return industries, nil
}

func (r *IndustryRepository) GetByID(ctx context.Context, id uint) (*model.Industry, error) {
	var industry model.Industry
	if err := r.db.WithContext(ctx).First(&industry, id).Error; err != nil {
		return nil, err
	}
	return &industry, nil
}

func (r *IndustryRepository) Create(ctx context.Context, industry *model.Industry) error {
	if err := r.db.WithContext(ctx).Create(industry).Error; err != nil {
		return fmt.Errorf("create industry: %w", err)
	}
	return nil
}
