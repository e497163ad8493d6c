package repository

import (
	"context"
	"errors"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"gorm.io/gorm"
)

type SwapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) *SwapRepository {
	return &SwapRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *SwapRepository) WithTx(tx *gorm.DB) *SwapRepository {
	return &SwapRepository{db: tx}
}

// Transaction runs fn inside a database transaction.
func (r *SwapRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *SwapRepository) Create(ctx context.Context, swap *models.SwapRequest) error {
	return r.db.WithContext(ctx).Omit("Requester", "Receiver").Create(swap).Error
}

// GetByID loads a swap with both parties preloaded. Returns nil, nil when absent.
func (r *SwapRepository) GetByID(ctx context.Context, id string) (*models.SwapRequest, error) {
	var swap models.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		Where("id = ?", id).
		First(&swap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &swap, nil
}

// ListForUser returns swaps sent or received by userID, most recent first
func (r *SwapRepository) ListForUser(ctx context.Context, userID string) ([]*models.SwapRequest, error) {
	var swaps []*models.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&swaps).Error
	return swaps, err
}

func (r *SwapRepository) ListAll(ctx context.Context) ([]*models.SwapRequest, error) {
	var swaps []*models.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		Order("created_at DESC").
		Find(&swaps).Error
	return swaps, err
}

// CompareAndSetStatus moves swap id from one status to another in a single
// conditional UPDATE. It returns false when the row was not in status from,
// which is how a lost race is detected.
func (r *SwapRepository) CompareAndSetStatus(ctx context.Context, id string, from, to models.SwapStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetFeedback writes feedback once. Returns false when the swap is not
// completed or already carries feedback.
func (r *SwapRepository) SetFeedback(ctx context.Context, id, by string, score int, feedback string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("id = ? AND status = ? AND feedback IS NULL", id, models.SwapCompleted).
		Updates(map[string]interface{}{
			"feedback":    feedback,
			"rating":      score,
			"feedback_by": by,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Delete hard-deletes a swap. Returns false when no row matched.
func (r *SwapRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SwapRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type statusCount struct {
	Status models.SwapStatus
	Count  int64
}

// CountByStatus returns the number of swaps per status
func (r *SwapRepository) CountByStatus(ctx context.Context) (map[models.SwapStatus]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[models.SwapStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
