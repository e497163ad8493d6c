package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is keyed by the stable id issued by the external identity provider.
type User struct {
	ID            string                      `gorm:"type:varchar(191);primaryKey" json:"id"`
	Username      string                      `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Fullname      string                      `gorm:"type:varchar(100)" json:"fullname"`
	Email         string                      `gorm:"type:varchar(100);index" json:"email"`
	Role          Role                        `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Location      string                      `gorm:"type:varchar(100)" json:"location,omitempty"`
	Availability  string                      `gorm:"type:varchar(100)" json:"availability,omitempty"`
	ProfileURL    string                      `gorm:"type:varchar(255)" json:"profile_url,omitempty"`
	IsPublic      bool                        `gorm:"not null;index" json:"is_public"`
	IsBanned      bool                        `gorm:"not null;default:false;index" json:"is_banned"`
	BanReason     string                      `gorm:"type:varchar(255)" json:"ban_reason,omitempty"`
	SkillsOffered datatypes.JSONSlice[string] `json:"skills_offered"`
	SkillsWanted  datatypes.JSONSlice[string] `json:"skills_wanted"`
	Rating        float64                     `gorm:"not null;default:0" json:"rating"`
	Ratings       []RatingEntry               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Offers reports whether skill is in the user's offered set.
func (u *User) Offers(skill string) bool {
	for _, s := range u.SkillsOffered {
		if s == skill {
			return true
		}
	}
	return false
}

// RatingEntry is append-only. SwapID is kept for audit only.
type RatingEntry struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"type:varchar(191);not null;index" json:"user_id"`
	FromUserID string    `gorm:"type:varchar(191);not null" json:"from_user_id"`
	SwapID     string    `gorm:"type:varchar(36);index" json:"swap_id"`
	Score      int       `gorm:"not null" json:"score"`
	Feedback   string    `gorm:"type:text" json:"feedback"`
	RatedAt    time.Time `gorm:"not null" json:"rated_at"`
}
