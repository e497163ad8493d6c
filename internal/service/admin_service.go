package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/apperror"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/metrics"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/repository"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MaxBroadcastTitle      = 200
	MaxBroadcastBody       = 5000
	DefaultBroadcastFanout = 16
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers  int64                       `json:"total_users"`
	BannedUsers int64                       `json:"banned_users"`
	TotalSwaps  int64                       `json:"total_swaps"`
	ByStatus    map[models.SwapStatus]int64 `json:"by_status"`
}

// AdminService gates every operation on the acting user's admin role.
// A failed role check has no side effects.
type AdminService struct {
	userRepo      *repository.UserRepository
	swapRepo      *repository.SwapRepository
	broadcastRepo *repository.BroadcastRepository
	swaps         *SwapService
	notifier      broker.Notifier
	events        EventEmitter
	fanout        int
}

func NewAdminService(
	userRepo *repository.UserRepository,
	swapRepo *repository.SwapRepository,
	broadcastRepo *repository.BroadcastRepository,
	swaps *SwapService,
	notifier broker.Notifier,
	events EventEmitter,
	fanout int,
) *AdminService {
	if fanout <= 0 {
		fanout = DefaultBroadcastFanout
	}
	return &AdminService{
		userRepo:      userRepo,
		swapRepo:      swapRepo,
		broadcastRepo: broadcastRepo,
		swaps:         swaps,
		notifier:      notifier,
		events:        events,
		fanout:        fanout,
	}
}

func (s *AdminService) requireAdmin(ctx context.Context, adminID string) (*models.User, error) {
	admin, err := s.userRepo.GetUserByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if admin == nil || !admin.IsAdmin() {
		logger.Log.Warn("Non-admin attempted admin operation", zap.String("user_id", adminID))
		return nil, apperror.Forbidden("admin privileges required")
	}
	return admin, nil
}

// BanUser marks the target as banned. Existing swaps are left untouched.
func (s *AdminService) BanUser(ctx context.Context, targetID, adminID, reason string) (*models.User, error) {
	return s.setBanned(ctx, targetID, adminID, true, strings.TrimSpace(reason))
}

func (s *AdminService) UnbanUser(ctx context.Context, targetID, adminID string) (*models.User, error) {
	return s.setBanned(ctx, targetID, adminID, false, "")
}

func (s *AdminService) setBanned(ctx context.Context, targetID, adminID string, banned bool, reason string) (*models.User, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if banned && targetID == adminID {
		return nil, apperror.Forbidden("admins cannot ban themselves")
	}

	found, err := s.userRepo.SetBanned(ctx, targetID, banned, reason)
	if err != nil {
		logger.Log.Error("Failed to update ban status", zap.String("target_user_id", targetID), zap.Error(err))
		return nil, fmt.Errorf("set banned: %w", err)
	}
	if !found {
		return nil, apperror.NotFound("user", targetID)
	}

	user, err := s.userRepo.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user", targetID)
	}

	evtType := broker.EventUserUnbanned
	if banned {
		evtType = broker.EventUserBanned
	}
	s.emit(ctx, broker.Event{
		Type:    evtType,
		ActorID: adminID,
		UserIDs: []string{targetID},
		Payload: map[string]string{"reason": reason},
	})

	logger.Log.Info("User ban status changed",
		zap.String("admin_id", adminID),
		zap.String("target_user_id", targetID),
		zap.Bool("banned", banned),
		zap.String("reason", reason),
	)
	return user, nil
}

// DeleteUser hard-deletes a user with its swaps and received ratings.
// This is separate from banning and cannot be undone.
func (s *AdminService) DeleteUser(ctx context.Context, targetID, adminID string) error {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if targetID == adminID {
		return apperror.Forbidden("admins cannot delete themselves")
	}

	found, err := s.userRepo.Delete(ctx, targetID)
	if err != nil {
		logger.Log.Error("Failed to delete user", zap.String("target_user_id", targetID), zap.Error(err))
		return fmt.Errorf("delete user: %w", err)
	}
	if !found {
		return apperror.NotFound("user", targetID)
	}

	s.emit(ctx, broker.Event{
		Type:    broker.EventUserDeleted,
		ActorID: adminID,
		UserIDs: []string{targetID},
	})

	logger.Log.Info("User deleted",
		zap.String("admin_id", adminID),
		zap.String("target_user_id", targetID),
	)
	return nil
}

// ListAllUsers returns every non-admin account, banned ones included.
func (s *AdminService) ListAllUsers(ctx context.Context, adminID string) ([]*models.User, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		if !u.IsAdmin() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *AdminService) ListAllSwaps(ctx context.Context, adminID string) ([]*models.SwapRequest, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.swaps.ListAll(ctx)
}

// DeleteSwap removes a swap in any state.
func (s *AdminService) DeleteSwap(ctx context.Context, swapID, adminID string) (*models.SwapRequest, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.swaps.ForceDelete(ctx, swapID, adminID)
}

// Broadcast persists an announcement and delivers it to every non-banned user.
// Individual delivery failures are counted, logged and never roll the record back.
func (s *AdminService) Broadcast(ctx context.Context, adminID, title, body string) (*models.Broadcast, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return nil, apperror.InvalidArgument("title", "title cannot be empty")
	}
	if body == "" {
		return nil, apperror.InvalidArgument("message", "message cannot be empty")
	}
	if len(title) > MaxBroadcastTitle {
		return nil, apperror.InvalidArgument("title", fmt.Sprintf("title must be at most %d characters", MaxBroadcastTitle))
	}
	if len(body) > MaxBroadcastBody {
		return nil, apperror.InvalidArgument("message", fmt.Sprintf("message must be at most %d characters", MaxBroadcastBody))
	}

	record := &models.Broadcast{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		SentBy:    adminID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.broadcastRepo.Create(ctx, record); err != nil {
		logger.Log.Error("Failed to persist broadcast", zap.String("admin_id", adminID), zap.Error(err))
		return nil, fmt.Errorf("create broadcast: %w", err)
	}

	recipients, err := s.userRepo.ListDeliverableUserIDs(ctx)
	if err != nil {
		logger.Log.Error("Failed to list broadcast recipients", zap.String("broadcast_id", record.ID), zap.Error(err))
		return record, nil
	}

	evt := broker.Event{
		ID:        record.ID,
		Type:      broker.EventBroadcast,
		ActorID:   adminID,
		Payload:   map[string]string{"title": title, "message": body},
		Timestamp: record.CreatedAt,
	}

	delivered, failed := s.fanOut(ctx, recipients, evt)
	record.Recipients = len(recipients)
	record.Delivered = delivered
	record.Failed = failed

	if err := s.broadcastRepo.RecordDelivery(ctx, record.ID, record.Recipients, delivered, failed); err != nil {
		logger.Log.Warn("Failed to record broadcast delivery", zap.String("broadcast_id", record.ID), zap.Error(err))
	}
	metrics.ObserveBroadcast(delivered, failed)
	s.emit(ctx, evt)

	logger.Log.Info("Broadcast sent",
		zap.String("broadcast_id", record.ID),
		zap.String("admin_id", adminID),
		zap.Int("recipients", record.Recipients),
		zap.Int("delivered", delivered),
		zap.Int("failed", failed),
	)
	return record, nil
}

func (s *AdminService) fanOut(ctx context.Context, recipients []string, evt broker.Event) (int, int) {
	if s.notifier == nil {
		return 0, len(recipients)
	}

	var delivered, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.fanout)

	for _, userID := range recipients {
		userID := userID
		g.Go(func() error {
			if err := s.notifier.Notify(ctx, userID, evt); err != nil {
				failed.Add(1)
				logger.Log.Warn("Broadcast delivery failed",
					zap.String("broadcast_id", evt.ID),
					zap.String("user_id", userID),
					zap.Error(err),
				)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(delivered.Load()), int(failed.Load())
}

func (s *AdminService) ListBroadcasts(ctx context.Context, adminID string, limit int) ([]*models.Broadcast, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.broadcastRepo.List(ctx, limit)
}

// Stats summarises users and swaps for the admin dashboard.
func (s *AdminService) Stats(ctx context.Context, adminID string) (*Stats, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	total, banned, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	byStatus, err := s.swapRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count swaps: %w", err)
	}

	stats := &Stats{
		TotalUsers:  total,
		BannedUsers: banned,
		ByStatus:    make(map[models.SwapStatus]int64, 5),
	}
	for _, st := range []models.SwapStatus{
		models.SwapPending, models.SwapAccepted, models.SwapRejected,
		models.SwapCancelled, models.SwapCompleted,
	} {
		stats.ByStatus[st] = byStatus[st]
		stats.TotalSwaps += byStatus[st]
	}
	return stats, nil
}

func (s *AdminService) emit(ctx context.Context, evt broker.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, evt); err != nil {
		logger.Log.Warn("Failed to emit admin event", zap.String("type", string(evt.Type)), zap.Error(err))
	}
}
