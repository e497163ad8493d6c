package repository

import (
	"context"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"gorm.io/gorm"
)

type BroadcastRepository struct {
	db *gorm.DB
}

func NewBroadcastRepository(db *gorm.DB) *BroadcastRepository {
	return &BroadcastRepository{db: db}
}

func (r *BroadcastRepository) Create(ctx context.Context, b *models.Broadcast) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// RecordDelivery stores the fan-out outcome on an existing broadcast.
func (r *BroadcastRepository) RecordDelivery(ctx context.Context, id string, recipients, delivered, failed int) error {
	return r.db.WithContext(ctx).
		Model(&models.Broadcast{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"recipients": recipients,
			"delivered":  delivered,
			"failed":     failed,
		}).Error
}

func (r *BroadcastRepository) List(ctx context.Context, limit int) ([]*models.Broadcast, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*models.Broadcast
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}
