package admins

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tlmvpsc/questionbank/internal/middleware"
	"github.com/tlmvpsc/questionbank/pkg/response"
	"github.com/tlmvpsc/questionbank/pkg/utils"
)

// Store is the persistence surface the admin handler needs.
type Store interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, passwordHash string) error
	Delete(ctx context.Context, username string) (bool, error)
}

// AddRequest is the body for PUT /admins/add.
type AddRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Handler handles admin account HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates an admins handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Add handles PUT /admins/add.
// Validation runs in a fixed order and the first failure wins; a malformed
// body falls through as missing fields.
func (h *Handler) Add(c *gin.Context) {
	var req AddRequest
	_ = c.ShouldBindJSON(&req)

	if req.Username == "" {
		response.BadRequest(c, "Must provide a 'username'.")
		return
	}
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		response.BadRequest(c, "'username' must be at least 3 characters long.")
		return
	}
	if req.Password == "" {
		response.BadRequest(c, "Must provide a 'password'.")
		return
	}
	if len(req.Password) < 8 {
		response.BadRequest(c, "'password' must be at least 8 characters long.")
		return
	}

	taken, err := h.store.Exists(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("check username", zap.Error(err))
		response.Internal(c, "failed to check username")
		return
	}
	if taken {
		response.BadRequest(c, fmt.Sprintf("The username '%s' is already taken.", username))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, fmt.Sprintf("bcrypt error: %v", err))
		return
	}

	if err := h.store.Create(c.Request.Context(), username, hash); err != nil {
		h.logger.Error("create admin", zap.Error(err))
		response.Internal(c, "failed to create admin")
		return
	}
	response.Created(c)
}

// Delete handles DELETE /admins/delete/:username. The caller, identified by
// the credentials guard, may never delete its own account.
func (h *Handler) Delete(c *gin.Context) {
	target := c.Param("username")
	if target == "" {
		response.BadRequest(c, "Please provide a correct admin username to delete.")
		return
	}
	if caller := c.GetString(middleware.ContextUsername); caller == target {
		response.BadRequest(c, "You can't delete your own account.")
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), target)
	if err != nil {
		h.logger.Error("delete admin", zap.Error(err))
		response.Internal(c, "failed to delete admin")
		return
	}
	if !deleted {
		response.BadRequest(c, "Couldn't delete this admin. You most probably provided an unexistent username.")
		return
	}
	response.OK(c, nil)
}
