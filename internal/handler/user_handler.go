package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/apperror"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/service"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InboxReader reads a user's delivered announcements, newest first.
type InboxReader interface {
	Inbox(ctx context.Context, userID string, limit int64) ([]broker.Event, error)
}

type UserHandler struct {
	userService *service.UserService
	inbox       InboxReader
}

func NewUserHandler(userService *service.UserService, inbox InboxReader) *UserHandler {
	return &UserHandler{
		userService: userService,
		inbox:       inbox,
	}
}

// Request types
type RegisterRequest struct {
	Username      string   `json:"username" binding:"required"`
	Fullname      string   `json:"fullname"`
	Email         string   `json:"email"`
	IsPublic      *bool    `json:"is_public"`
	Location      string   `json:"location"`
	Availability  string   `json:"availability"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
}

type UpdateProfileRequest struct {
	Fullname      *string   `json:"fullname"`
	Location      *string   `json:"location"`
	Availability  *string   `json:"availability"`
	ProfileURL    *string   `json:"profile_url"`
	IsPublic      *bool     `json:"is_public"`
	SkillsOffered *[]string `json:"skills_offered"`
	SkillsWanted  *[]string `json:"skills_wanted"`
}

// ProfileView is the public face of a user: no email, no ban details.
type ProfileView struct {
	ID            string               `json:"id"`
	Username      string               `json:"username"`
	Fullname      string               `json:"fullname"`
	Location      string               `json:"location,omitempty"`
	Availability  string               `json:"availability,omitempty"`
	ProfileURL    string               `json:"profile_url,omitempty"`
	SkillsOffered []string             `json:"skills_offered"`
	SkillsWanted  []string             `json:"skills_wanted"`
	Rating        float64              `json:"rating"`
	Ratings       []models.RatingEntry `json:"ratings,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func newProfileView(u *models.User) ProfileView {
	return ProfileView{
		ID:            u.ID,
		Username:      u.Username,
		Fullname:      u.Fullname,
		Location:      u.Location,
		Availability:  u.Availability,
		ProfileURL:    u.ProfileURL,
		SkillsOffered: nonNil(u.SkillsOffered),
		SkillsWanted:  nonNil(u.SkillsWanted),
		Rating:        u.Rating,
		Ratings:       u.Ratings,
		CreatedAt:     u.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Register completes the identity handoff for the caller. Repeated calls
// return the existing user.
// POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Register request parsing failed", zap.Error(err))
		respondBadRequest(c, "username is required")
		return
	}

	user, created, err := h.userService.EnsureUser(c.Request.Context(), service.RegisterInput{
		ID:            c.GetString("user_id"),
		Username:      req.Username,
		Fullname:      req.Fullname,
		Email:         req.Email,
		IsPublic:      req.IsPublic,
		Location:      req.Location,
		Availability:  req.Availability,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondOK(c, status, user)
}

// ListPublic browses discoverable users, optionally by skill
// GET /api/users?skill=
func (h *UserHandler) ListPublic(c *gin.Context) {
	users, err := h.userService.ListPublicUsers(c.Request.Context(), c.Query("skill"))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]ProfileView, 0, len(users))
	for _, u := range users {
		views = append(views, newProfileView(u))
	}
	respondOK(c, http.StatusOK, views)
}

// Get returns a profile with its rating history. Private profiles are
// visible only to their owner.
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if id == c.GetString("user_id") {
		respondOK(c, http.StatusOK, user)
		return
	}
	// Banned users are out of the directory; only the owner still sees them.
	if user.IsBanned {
		respondError(c, apperror.NotFound("user", id))
		return
	}
	if !user.IsPublic {
		respondError(c, apperror.Forbidden("this profile is private"))
		return
	}
	respondOK(c, http.StatusOK, newProfileView(user))
}

// UpdateMe PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Profile update parsing failed", zap.Error(err))
		respondBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.GetString("user_id"), service.ProfileUpdate{
		Fullname:      req.Fullname,
		Location:      req.Location,
		Availability:  req.Availability,
		ProfileURL:    req.ProfileURL,
		IsPublic:      req.IsPublic,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// Inbox lists announcements delivered to the caller
// GET /api/users/me/inbox?limit=
func (h *UserHandler) Inbox(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 {
		respondBadRequest(c, "limit must be a positive integer")
		return
	}

	events, err := h.inbox.Inbox(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = []broker.Event{}
	}
	respondOK(c, http.StatusOK, events)
}
