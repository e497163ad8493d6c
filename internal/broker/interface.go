package broker

import (
	"context"
	"time"
)

type EventType string

const (
	EventSwapCreated   EventType = "swap.created"
	EventSwapAccepted  EventType = "swap.accepted"
	EventSwapRejected  EventType = "swap.rejected"
	EventSwapCancelled EventType = "swap.cancelled"
	EventSwapCompleted EventType = "swap.completed"
	EventSwapFeedback  EventType = "swap.feedback"
	EventSwapDeleted   EventType = "swap.deleted"
	EventUserBanned    EventType = "user.banned"
	EventUserUnbanned  EventType = "user.unbanned"
	EventUserDeleted   EventType = "user.deleted"
	EventBroadcast     EventType = "admin.broadcast"
)

// Event is emitted after a state change has been committed.
// UserIDs lists who the event concerns; consumers use it for routing.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	SwapID    string            `json:"swap_id,omitempty"`
	ActorID   string            `json:"actor_id,omitempty"`
	UserIDs   []string          `json:"user_ids,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Concerns reports whether userID is one of the event's recipients.
// An event without recipients is addressed to everyone.
func (e Event) Concerns(userID string) bool {
	if len(e.UserIDs) == 0 {
		return true
	}
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// EventBroker fans committed events out to other processes.
type EventBroker interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Notifier delivers a single announcement to a single user.
type Notifier interface {
	Notify(ctx context.Context, userID string, evt Event) error
}
