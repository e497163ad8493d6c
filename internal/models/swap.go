package models

import "time"

type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCancelled SwapStatus = "cancelled"
	SwapCompleted SwapStatus = "completed"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s SwapStatus) IsTerminal() bool {
	switch s {
	case SwapRejected, SwapCancelled, SwapCompleted:
		return true
	}
	return false
}

type SwapRequest struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	RequesterID      string     `gorm:"type:varchar(191);not null;index" json:"requester_id"`
	ReceiverID       string     `gorm:"type:varchar(191);not null;index" json:"receiver_id"`
	OfferedSkill     string     `gorm:"type:varchar(100);not null" json:"offered_skill"`
	WantedSkill      string     `gorm:"type:varchar(100);not null" json:"wanted_skill"`
	RequesterMessage string     `gorm:"type:text;not null" json:"requester_message"`
	Status           SwapStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Feedback         *string    `gorm:"type:text" json:"feedback"`
	Rating           *int       `json:"rating"`
	FeedbackBy       *string    `gorm:"type:varchar(191)" json:"feedback_by,omitempty"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Requester *User `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Receiver  *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
}

// IsParty reports whether userID is the requester or the receiver.
func (s *SwapRequest) IsParty(userID string) bool {
	return userID == s.RequesterID || userID == s.ReceiverID
}

// Counterpart returns the other party of the swap.
func (s *SwapRequest) Counterpart(userID string) string {
	if userID == s.RequesterID {
		return s.ReceiverID
	}
	return s.RequesterID
}
