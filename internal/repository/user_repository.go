package repository

import (
	"context"
	"errors"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserWithRatings loads a user together with its rating history, newest first.
func (r *UserRepository) GetUserWithRatings(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB {
			return db.Order("rated_at DESC")
		}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetAllUsers returns every user, banned and private ones included
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListPublicUsers returns discoverable users: public, not banned, not admins.
func (r *UserRepository) ListPublicUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("is_public = ? AND is_banned = ? AND role <> ?", true, false, models.RoleAdmin).
		Order("rating DESC, created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListDeliverableUserIDs returns the ids of every non-banned user.
func (r *UserRepository) ListDeliverableUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_banned = ?", false).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// UpdateFields applies a partial update. Returns false when no such user exists.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetBanned flips the ban flag without touching any swap rows
func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool, reason string) (bool, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"is_banned":  banned,
		"ban_reason": reason,
	})
}

// Delete removes the user together with every swap it is party to and the
// ratings it received. Ratings it gave to others stay for audit. Returns false
// when no such user exists.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	var found bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requester_id = ? OR receiver_id = ?", id, id).
			Delete(&models.SwapRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RatingEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// AppendRating inserts entry for entry.UserID and recomputes the aggregate
// rating from the ratings table, holding the user row lock for the duration.
func (r *UserRepository) AppendRating(ctx context.Context, entry *models.RatingEntry) (*models.User, error) {
	var out *models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", entry.UserID).
			Take(&user).Error; err != nil {
			return err
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		var mean float64
		if err := tx.Model(&models.RatingEntry{}).
			Where("user_id = ?", entry.UserID).
			Select("COALESCE(AVG(score), 0)").
			Scan(&mean).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.User{}).
			Where("id = ?", entry.UserID).
			Updates(map[string]interface{}{"rating": mean, "updated_at": now}).Error; err != nil {
			return err
		}

		user.Rating = mean
		user.UpdatedAt = now
		out = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (total int64, banned int64, err error) {
	db := r.db.WithContext(ctx).Model(&models.User{})
	if err = db.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.User{}).Where("is_banned = ?", true).Count(&banned).Error
	return total, banned, err
}
