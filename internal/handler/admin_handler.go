package handler

import (
	"net/http"
	"strconv"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/service"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Request types
type BanUserRequest struct {
	Reason string `json:"reason"`
}

// BroadcastRequest fields are validated by the service after the admin check.
type BroadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// GetAllUsers returns every non-admin user, banned ones included
// GET /api/admin/users
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	logger.Log.Info("Admin fetching all users",
		zap.String("admin_id", c.GetString("user_id")),
	)

	users, err := h.adminService.ListAllUsers(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, users)
}

// BanUser bans a single user. Their existing swaps are untouched.
// PUT /api/admin/ban/:id
func (h *AdminHandler) BanUser(c *gin.Context) {
	var req BanUserRequest
	// Body is optional. An unreadable one is treated as no reason so the
	// admin check still decides the response.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Log.Warn("Ban user request parsing failed", zap.Error(err))
			req = BanUserRequest{}
		}
	}

	adminID := c.GetString("user_id")
	logger.Log.Info("Admin banning user",
		zap.String("admin_id", adminID),
		zap.String("target_user_id", c.Param("id")),
		zap.String("reason", req.Reason),
	)

	user, err := h.adminService.BanUser(c.Request.Context(), c.Param("id"), adminID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UnbanUser PUT /api/admin/unban/:id
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	user, err := h.adminService.UnbanUser(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// DeleteUser hard-deletes a user with their swaps and received ratings
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID := c.GetString("user_id")
	logger.Log.Info("Admin deleting user",
		zap.String("admin_id", adminID),
		zap.String("target_user_id", c.Param("id")),
	)

	if err := h.adminService.DeleteUser(c.Request.Context(), c.Param("id"), adminID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ListSwaps returns every swap, newest first
// GET /api/admin/swaps
func (h *AdminHandler) ListSwaps(c *gin.Context) {
	swaps, err := h.adminService.ListAllSwaps(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, newSwapViews(swaps))
}

// DeleteSwap removes a swap in any state
// DELETE /api/admin/swaps/:id
func (h *AdminHandler) DeleteSwap(c *gin.Context) {
	swap, err := h.adminService.DeleteSwap(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": newSwapView(swap)})
}

// Broadcast sends an announcement to every non-banned user
// POST /api/admin/broadcast
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Empty fields are rejected by the service once the caller is known to be an admin.
		logger.Log.Warn("Broadcast request parsing failed", zap.Error(err))
		req = BroadcastRequest{}
	}

	record, err := h.adminService.Broadcast(c.Request.Context(), c.GetString("user_id"), req.Title, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, record)
}

// ListBroadcasts GET /api/admin/broadcasts?limit=
func (h *AdminHandler) ListBroadcasts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.adminService.ListBroadcasts(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, records)
}

// Stats GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stats)
}
