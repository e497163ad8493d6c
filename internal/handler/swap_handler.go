package handler

import (
	"net/http"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/service"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SwapHandler struct {
	swapService *service.SwapService
}

func NewSwapHandler(swapService *service.SwapService) *SwapHandler {
	return &SwapHandler{swapService: swapService}
}

// Request types
type CreateSwapRequest struct {
	ReceiverID   string `json:"receiver_id" binding:"required"`
	OfferedSkill string `json:"offered_skill" binding:"required"`
	WantedSkill  string `json:"wanted_skill" binding:"required"`
	Message      string `json:"message"`
}

// FeedbackRequest is range-checked by the service after the swap lookup.
type FeedbackRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// SwapView is a swap as shown to its parties.
type SwapView struct {
	ID               string            `json:"id"`
	RequesterID      string            `json:"requester_id"`
	RequesterName    string            `json:"requester_name,omitempty"`
	ReceiverID       string            `json:"receiver_id"`
	ReceiverName     string            `json:"receiver_name,omitempty"`
	OfferedSkill     string            `json:"offered_skill"`
	WantedSkill      string            `json:"wanted_skill"`
	RequesterMessage string            `json:"requester_message"`
	Status           models.SwapStatus `json:"status"`
	Feedback         *string           `json:"feedback"`
	Rating           *int              `json:"rating"`
	FeedbackBy       *string           `json:"feedback_by,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func newSwapView(s *models.SwapRequest) SwapView {
	v := SwapView{
		ID:               s.ID,
		RequesterID:      s.RequesterID,
		ReceiverID:       s.ReceiverID,
		OfferedSkill:     s.OfferedSkill,
		WantedSkill:      s.WantedSkill,
		RequesterMessage: s.RequesterMessage,
		Status:           s.Status,
		Feedback:         s.Feedback,
		Rating:           s.Rating,
		FeedbackBy:       s.FeedbackBy,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Requester != nil {
		v.RequesterName = displayName(s.Requester)
	}
	if s.Receiver != nil {
		v.ReceiverName = displayName(s.Receiver)
	}
	return v
}

func newSwapViews(swaps []*models.SwapRequest) []SwapView {
	out := make([]SwapView, 0, len(swaps))
	for _, s := range swaps {
		out = append(out, newSwapView(s))
	}
	return out
}

func displayName(u *models.User) string {
	if u.Fullname != "" {
		return u.Fullname
	}
	return u.Username
}

// Create opens a new swap request from the caller
// POST /api/swaps/request
func (h *SwapHandler) Create(c *gin.Context) {
	var req CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Swap request parsing failed", zap.Error(err))
		respondBadRequest(c, "receiver_id, offered_skill and wanted_skill are required")
		return
	}

	swap, err := h.swapService.CreateSwapRequest(c.Request.Context(), c.GetString("user_id"), service.CreateSwapInput{
		ReceiverID:   req.ReceiverID,
		OfferedSkill: req.OfferedSkill,
		WantedSkill:  req.WantedSkill,
		Message:      req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, newSwapView(swap))
}

// ListMine returns the caller's swaps, newest first, plus the received/sent split
// GET /api/swaps/my-swaps
func (h *SwapHandler) ListMine(c *gin.Context) {
	userID := c.GetString("user_id")

	swaps, err := h.swapService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	received, sent := service.PartitionSwaps(userID, swaps)
	respondOK(c, http.StatusOK, gin.H{
		"swaps":    newSwapViews(swaps),
		"received": newSwapViews(received),
		"sent":     newSwapViews(sent),
	})
}

// Get returns one swap to either party
// GET /api/swaps/:id
func (h *SwapHandler) Get(c *gin.Context) {
	swap, err := h.swapService.GetSwap(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, newSwapView(swap))
}

// Accept PUT /api/swaps/accept/:id
func (h *SwapHandler) Accept(c *gin.Context) {
	h.transition(c, service.ActionAccept)
}

// Reject PUT /api/swaps/reject/:id
func (h *SwapHandler) Reject(c *gin.Context) {
	h.transition(c, service.ActionReject)
}

// Cancel PUT|DELETE /api/swaps/cancel/:id
func (h *SwapHandler) Cancel(c *gin.Context) {
	h.transition(c, service.ActionCancel)
}

// Complete PUT /api/swaps/complete/:id
func (h *SwapHandler) Complete(c *gin.Context) {
	h.transition(c, service.ActionComplete)
}

func (h *SwapHandler) transition(c *gin.Context, action service.SwapAction) {
	swap, err := h.swapService.Transition(c.Request.Context(), c.Param("id"), c.GetString("user_id"), action)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, newSwapView(swap))
}

// Feedback rates the counterpart of a completed swap
// POST /api/swaps/feedback/:id
func (h *SwapHandler) Feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Feedback request parsing failed", zap.Error(err))
		respondBadRequest(c, "Invalid request body")
		return
	}

	swap, err := h.swapService.SubmitFeedback(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Rating, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, newSwapView(swap))
}
