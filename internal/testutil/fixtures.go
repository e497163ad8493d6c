package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserFixture describes a user row to insert directly, bypassing the service.
type UserFixture struct {
	ID            string
	Username      string
	Role          models.Role
	IsPublic      bool
	IsBanned      bool
	SkillsOffered []string
	SkillsWanted  []string
}

// NewUser returns a public, non-banned regular user fixture.
func NewUser(id, username string, offered, wanted []string) UserFixture {
	return UserFixture{
		ID:            id,
		Username:      username,
		Role:          models.RoleUser,
		IsPublic:      true,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	}
}

// NewAdmin returns an admin fixture.
func NewAdmin(id, username string) UserFixture {
	return UserFixture{
		ID:       id,
		Username: username,
		Role:     models.RoleAdmin,
		IsPublic: false,
	}
}

// InsertUser writes the fixture and returns the stored model.
func InsertUser(t *testing.T, db *gorm.DB, f UserFixture) *models.User {
	t.Helper()

	if f.Role == "" {
		f.Role = models.RoleUser
	}
	if f.SkillsOffered == nil {
		f.SkillsOffered = []string{}
	}
	if f.SkillsWanted == nil {
		f.SkillsWanted = []string{}
	}

	user := &models.User{
		ID:            f.ID,
		Username:      f.Username,
		Fullname:      f.Username,
		Email:         f.Username + "@example.com",
		Role:          f.Role,
		IsPublic:      f.IsPublic,
		IsBanned:      f.IsBanned,
		SkillsOffered: datatypes.NewJSONSlice(f.SkillsOffered),
		SkillsWanted:  datatypes.NewJSONSlice(f.SkillsWanted),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to insert user %s: %v", f.ID, err)
	}
	return user
}

// InsertSwap writes a swap in the given status directly.
func InsertSwap(t *testing.T, db *gorm.DB, id, requesterID, receiverID string, status models.SwapStatus) *models.SwapRequest {
	t.Helper()

	now := time.Now().UTC()
	swap := &models.SwapRequest{
		ID:               id,
		RequesterID:      requesterID,
		ReceiverID:       receiverID,
		OfferedSkill:     "offered",
		WantedSkill:      "wanted",
		RequesterMessage: "fixture",
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.Omit("Requester", "Receiver").Create(swap).Error; err != nil {
		t.Fatalf("Failed to insert swap %s: %v", id, err)
	}
	return swap
}

// RecordingEmitter collects emitted events in memory.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []broker.Event
	Err    error
}

func (r *RecordingEmitter) Emit(_ context.Context, evt broker.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, evt)
	return nil
}

func (r *RecordingEmitter) Events() []broker.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]broker.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the event types in emission order.
func (r *RecordingEmitter) Types() []broker.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]broker.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// FlakyNotifier fails delivery for the listed users and records the rest.
type FlakyNotifier struct {
	mu        sync.Mutex
	FailFor   map[string]bool
	Delivered map[string]broker.Event
}

func NewFlakyNotifier(failFor ...string) *FlakyNotifier {
	n := &FlakyNotifier{
		FailFor:   make(map[string]bool, len(failFor)),
		Delivered: make(map[string]broker.Event),
	}
	for _, id := range failFor {
		n.FailFor[id] = true
	}
	return n
}

func (n *FlakyNotifier) Notify(_ context.Context, userID string, evt broker.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailFor[userID] {
		return errDeliveryFailed
	}
	n.Delivered[userID] = evt
	return nil
}

func (n *FlakyNotifier) DeliveredTo(userID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.Delivered[userID]
	return ok
}

var errDeliveryFailed = errors.New("delivery failed")
