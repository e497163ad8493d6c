package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/apperror"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/metrics"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/repository"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MinScore         = 1
	MaxScore         = 5
	MaxMessageLength = 1000
	MaxFeedbackChars = 2000
)

// EventEmitter receives events after the corresponding change is committed.
// Emission failures never undo the change.
type EventEmitter interface {
	Emit(ctx context.Context, evt broker.Event) error
}

type CreateSwapInput struct {
	ReceiverID   string
	OfferedSkill string
	WantedSkill  string
	Message      string
}

// SwapService owns swap requests and their lifecycle.
type SwapService struct {
	swapRepo *repository.SwapRepository
	userRepo *repository.UserRepository
	events   EventEmitter
}

func NewSwapService(
	swapRepo *repository.SwapRepository,
	userRepo *repository.UserRepository,
	events EventEmitter,
) *SwapService {
	return &SwapService{
		swapRepo: swapRepo,
		userRepo: userRepo,
		events:   events,
	}
}

// CreateSwapRequest opens a new pending swap from requesterID.
// Skills are checked against each party's current lists; later profile edits
// do not affect the stored request.
func (s *SwapService) CreateSwapRequest(ctx context.Context, requesterID string, in CreateSwapInput) (*models.SwapRequest, error) {
	swap, err := s.createSwapRequest(ctx, requesterID, in)
	metrics.ObserveSwap("create", outcomeOf(err))
	return swap, err
}

func (s *SwapService) createSwapRequest(ctx context.Context, requesterID string, in CreateSwapInput) (*models.SwapRequest, error) {
	in.ReceiverID = strings.TrimSpace(in.ReceiverID)
	in.OfferedSkill = strings.TrimSpace(in.OfferedSkill)
	in.WantedSkill = strings.TrimSpace(in.WantedSkill)
	in.Message = strings.TrimSpace(in.Message)

	logger.Log.Debug("Processing swap request",
		zap.String("requester_id", requesterID),
		zap.String("receiver_id", in.ReceiverID),
	)

	if requesterID == in.ReceiverID {
		return nil, apperror.Forbidden("you cannot request a swap with yourself")
	}

	requester, err := s.userRepo.GetUserByID(ctx, requesterID)
	if err != nil {
		logger.Log.Error("Failed to load requester", zap.String("requester_id", requesterID), zap.Error(err))
		return nil, fmt.Errorf("get requester: %w", err)
	}
	if requester == nil {
		return nil, apperror.NotFound("user", requesterID)
	}
	if requester.IsBanned {
		logger.Log.Warn("Banned user attempted to create a swap", zap.String("requester_id", requesterID))
		return nil, apperror.Forbidden("banned users cannot create swap requests")
	}

	receiver, err := s.userRepo.GetUserByID(ctx, in.ReceiverID)
	if err != nil {
		logger.Log.Error("Failed to load receiver", zap.String("receiver_id", in.ReceiverID), zap.Error(err))
		return nil, fmt.Errorf("get receiver: %w", err)
	}
	if receiver == nil {
		return nil, apperror.NotFound("user", in.ReceiverID)
	}
	if !receiver.IsPublic {
		return nil, apperror.Forbidden("receiver profile is private")
	}

	if !requester.Offers(in.OfferedSkill) {
		return nil, apperror.InvalidArgument("offered_skill",
			fmt.Sprintf("%q is not one of your offered skills", in.OfferedSkill))
	}
	if !receiver.Offers(in.WantedSkill) {
		return nil, apperror.InvalidArgument("wanted_skill",
			fmt.Sprintf("%q is not offered by %s", in.WantedSkill, receiver.Username))
	}
	if in.Message == "" {
		return nil, apperror.InvalidArgument("message", "message cannot be empty")
	}
	if len(in.Message) > MaxMessageLength {
		return nil, apperror.InvalidArgument("message", fmt.Sprintf("message must be at most %d characters", MaxMessageLength))
	}

	now := time.Now().UTC()
	swap := &models.SwapRequest{
		ID:               uuid.New().String(),
		RequesterID:      requester.ID,
		ReceiverID:       receiver.ID,
		OfferedSkill:     in.OfferedSkill,
		WantedSkill:      in.WantedSkill,
		RequesterMessage: in.Message,
		Status:           models.SwapPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.swapRepo.Create(ctx, swap); err != nil {
		logger.Log.Error("Failed to persist swap", zap.String("requester_id", requesterID), zap.Error(err))
		return nil, fmt.Errorf("create swap: %w", err)
	}
	swap.Requester = requester
	swap.Receiver = receiver

	s.emit(ctx, broker.EventSwapCreated, swap, requesterID, map[string]string{
		"offered_skill": swap.OfferedSkill,
		"wanted_skill":  swap.WantedSkill,
	})

	logger.Log.Info("Swap request created",
		zap.String("swap_id", swap.ID),
		zap.String("requester_id", swap.RequesterID),
		zap.String("receiver_id", swap.ReceiverID),
	)
	return swap, nil
}

// Transition applies action to the swap on behalf of actingUserID.
// Authorization is checked before the state; the status write is a
// compare-and-set, so of two racing transitions exactly one succeeds.
func (s *SwapService) Transition(ctx context.Context, swapID, actingUserID string, action SwapAction) (*models.SwapRequest, error) {
	swap, err := s.transition(ctx, swapID, actingUserID, action)
	metrics.ObserveSwap(string(action), outcomeOf(err))
	return swap, err
}

func (s *SwapService) transition(ctx context.Context, swapID, actingUserID string, action SwapAction) (*models.SwapRequest, error) {
	swap, err := s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if err := authorize(swap, actingUserID, action); err != nil {
		logger.Log.Warn("Swap transition denied",
			zap.String("swap_id", swapID),
			zap.String("user_id", actingUserID),
			zap.String("action", string(action)),
		)
		return nil, err
	}

	rule, err := nextStatus(swap.Status, action)
	if err != nil {
		return nil, err
	}

	ok, err := s.swapRepo.CompareAndSetStatus(ctx, swap.ID, swap.Status, rule.to)
	if err != nil {
		logger.Log.Error("Failed to update swap status", zap.String("swap_id", swapID), zap.Error(err))
		return nil, fmt.Errorf("update swap status: %w", err)
	}
	if !ok {
		current, err := s.load(ctx, swapID)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("Swap transition lost a concurrent update",
			zap.String("swap_id", swapID),
			zap.String("action", string(action)),
			zap.String("observed", string(swap.Status)),
			zap.String("current", string(current.Status)),
		)
		return nil, apperror.InvalidState(fmt.Sprintf("cannot %s: swap changed concurrently and is now %s", action, current.Status))
	}

	updated, err := s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, rule.event, updated, actingUserID, map[string]string{
		"from": string(swap.Status),
		"to":   string(rule.to),
	})

	logger.Log.Info("Swap transitioned",
		zap.String("swap_id", swapID),
		zap.String("user_id", actingUserID),
		zap.String("from", string(swap.Status)),
		zap.String("to", string(rule.to)),
	)
	return updated, nil
}

// SubmitFeedback records the single rating a completed swap may carry and
// appends it to the counterpart's ratings in the same transaction.
func (s *SwapService) SubmitFeedback(ctx context.Context, swapID, actingUserID string, score int, feedback string) (*models.SwapRequest, error) {
	swap, err := s.submitFeedback(ctx, swapID, actingUserID, score, feedback)
	metrics.ObserveSwap("feedback", outcomeOf(err))
	return swap, err
}

func (s *SwapService) submitFeedback(ctx context.Context, swapID, actingUserID string, score int, feedback string) (*models.SwapRequest, error) {
	swap, err := s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if !swap.IsParty(actingUserID) {
		return nil, apperror.Forbidden("only the requester or receiver can leave feedback")
	}
	if swap.Status != models.SwapCompleted {
		return nil, apperror.InvalidState(fmt.Sprintf("feedback requires a completed swap, this one is %s", swap.Status))
	}
	if swap.Feedback != nil {
		return nil, apperror.InvalidState("feedback has already been submitted for this swap")
	}
	if score < MinScore || score > MaxScore {
		return nil, apperror.InvalidArgument("rating", fmt.Sprintf("rating must be between %d and %d", MinScore, MaxScore))
	}
	feedback = strings.TrimSpace(feedback)
	if len(feedback) > MaxFeedbackChars {
		return nil, apperror.InvalidArgument("feedback", fmt.Sprintf("feedback must be at most %d characters", MaxFeedbackChars))
	}

	ratedUserID := swap.Counterpart(actingUserID)

	err = s.swapRepo.Transaction(ctx, func(tx *gorm.DB) error {
		ok, err := s.swapRepo.WithTx(tx).SetFeedback(ctx, swap.ID, actingUserID, score, feedback)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.InvalidState("feedback has already been submitted for this swap")
		}

		_, err = s.userRepo.WithTx(tx).AppendRating(ctx, &models.RatingEntry{
			UserID:     ratedUserID,
			FromUserID: actingUserID,
			SwapID:     swap.ID,
			Score:      score,
			Feedback:   feedback,
			RatedAt:    time.Now().UTC(),
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user", ratedUserID)
		}
		return err
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		logger.Log.Error("Failed to record feedback", zap.String("swap_id", swapID), zap.Error(err))
		return nil, fmt.Errorf("record feedback: %w", err)
	}

	updated, err := s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, broker.EventSwapFeedback, updated, actingUserID, map[string]string{
		"rated_user_id": ratedUserID,
		"rating":        fmt.Sprint(score),
	})

	logger.Log.Info("Swap feedback recorded",
		zap.String("swap_id", swapID),
		zap.String("rater_id", actingUserID),
		zap.String("rated_user_id", ratedUserID),
		zap.Int("rating", score),
	)
	return updated, nil
}

// ListForUser returns every swap userID sent or received, newest first.
func (s *SwapService) ListForUser(ctx context.Context, userID string) ([]*models.SwapRequest, error) {
	swaps, err := s.swapRepo.ListForUser(ctx, userID)
	if err != nil {
		logger.Log.Error("Failed to list swaps", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("list swaps: %w", err)
	}
	return swaps, nil
}

// GetSwap returns a swap to one of its parties.
func (s *SwapService) GetSwap(ctx context.Context, swapID, actingUserID string) (*models.SwapRequest, error) {
	swap, err := s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParty(actingUserID) {
		return nil, apperror.Forbidden("only the requester or receiver can view this swap")
	}
	return swap, nil
}

// ListAll returns every swap, newest first. Callers enforce admin standing.
func (s *SwapService) ListAll(ctx context.Context) ([]*models.SwapRequest, error) {
	swaps, err := s.swapRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all swaps: %w", err)
	}
	return swaps, nil
}

// ForceDelete hard-deletes a swap regardless of its state. It is the
// administrative override and skips authorize entirely; only the admin
// gateway calls it.
func (s *SwapService) ForceDelete(ctx context.Context, swapID, adminID string) (*models.SwapRequest, error) {
	swap, err := s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}

	found, err := s.swapRepo.Delete(ctx, swapID)
	if err != nil {
		logger.Log.Error("Failed to delete swap", zap.String("swap_id", swapID), zap.Error(err))
		return nil, fmt.Errorf("delete swap: %w", err)
	}
	if !found {
		return nil, apperror.NotFound("swap", swapID)
	}

	s.emit(ctx, broker.EventSwapDeleted, swap, adminID, map[string]string{
		"status": string(swap.Status),
	})
	metrics.ObserveSwap("force_delete", "ok")

	logger.Log.Info("Swap deleted by admin",
		zap.String("swap_id", swapID),
		zap.String("admin_id", adminID),
		zap.String("status", string(swap.Status)),
	)
	return swap, nil
}

// PartitionSwaps splits a user's swaps into received and sent, keeping order.
func PartitionSwaps(userID string, swaps []*models.SwapRequest) (received, sent []*models.SwapRequest) {
	received = make([]*models.SwapRequest, 0, len(swaps))
	sent = make([]*models.SwapRequest, 0, len(swaps))
	for _, sw := range swaps {
		if sw.ReceiverID == userID {
			received = append(received, sw)
		}
		if sw.RequesterID == userID {
			sent = append(sent, sw)
		}
	}
	return received, sent
}

func (s *SwapService) load(ctx context.Context, swapID string) (*models.SwapRequest, error) {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		logger.Log.Error("Failed to load swap", zap.String("swap_id", swapID), zap.Error(err))
		return nil, fmt.Errorf("get swap: %w", err)
	}
	if swap == nil {
		return nil, apperror.NotFound("swap", swapID)
	}
	return swap, nil
}

func (s *SwapService) emit(ctx context.Context, typ broker.EventType, swap *models.SwapRequest, actorID string, payload map[string]string) {
	if s.events == nil {
		return
	}
	evt := broker.Event{
		Type:    typ,
		SwapID:  swap.ID,
		ActorID: actorID,
		UserIDs: []string{swap.RequesterID, swap.ReceiverID},
		Payload: payload,
	}
	if err := s.events.Emit(ctx, evt); err != nil {
		logger.Log.Warn("Failed to emit swap event",
			zap.String("swap_id", swap.ID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

// outcomeOf names an error kind for metrics labels.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperror.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperror.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, apperror.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, apperror.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
