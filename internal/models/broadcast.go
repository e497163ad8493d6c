package models

import "time"

// Broadcast is the persisted record of an admin announcement.
// Delivery counts are filled in after fan-out and never roll the record back.
type Broadcast struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title      string    `gorm:"type:varchar(200);not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	SentBy     string    `gorm:"type:varchar(191);not null" json:"sent_by"`
	Recipients int       `json:"recipients"`
	Delivered  int       `json:"delivered"`
	Failed     int       `json:"failed"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
