package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"opsboard/internal/model"
)

// ClientRepository handles CRUD for clients.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// List returns all clients, or only active ones when activeOnly is set.
func (r *ClientRepository) List(ctx context.Context, activeOnly bool) ([]model.Client, error) {
	var clients []model.Client
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id uint) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, client *model.Client) error {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Deactivate archives a client without removing its row, so historical task
// references stay intact.
func (r *ClientRepository) Deactivate(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate client: %w", err)
	}
	return nil
}

// Delete removes a client permanently. Tasks that referenced it keep their rows
// with client_id cleared by the SET NULL referential action.
func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Client{}, id).Error; err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
