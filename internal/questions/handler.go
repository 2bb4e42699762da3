package questions

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tlmvpsc/questionbank/internal/models"
	"github.com/tlmvpsc/questionbank/pkg/response"
)

// Store is the persistence surface the question handler needs.
type Store interface {
	List(ctx context.Context) ([]models.Question, error)
	Create(ctx context.Context, q *models.Question) error
	Replace(ctx context.Context, q *models.Question) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// SaveRequest is the body for PUT /questions/add and PATCH /questions/edit/:id.
type SaveRequest struct {
	Statement string   `json:"statement" binding:"required"`
	Answers   []string `json:"answers" binding:"required,min=1"`
	Labels    []string `json:"labels"`
}

// AddResponse is the body returned by PUT /questions/add. The stored question
// carries the server-assigned id the panel appends to its list.
type AddResponse struct {
	Success  bool            `json:"success"`
	Question models.Question `json:"question"`
}

// Handler handles question HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a questions handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /questions/get. The panel consumes the body as a bare
// array, so no envelope here.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list questions", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}
	if list == nil {
		list = []models.Question{}
	}
	c.JSON(http.StatusOK, list)
}

// Add handles PUT /questions/add.
func (h *Handler) Add(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	q := &models.Question{
		Statement: req.Statement,
		Answers:   req.Answers,
		Labels:    req.Labels,
	}
	if err := h.store.Create(c.Request.Context(), q); err != nil {
		h.logger.Error("create question", zap.Error(err))
		response.Internal(c, "failed to create question")
		return
	}
	c.JSON(http.StatusCreated, AddResponse{Success: true, Question: *q})
}

// Edit handles PATCH /questions/edit/:id, replacing every field of the
// matching record with the submitted payload.
func (h *Handler) Edit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	q := &models.Question{
		ID:        id,
		Statement: req.Statement,
		Answers:   req.Answers,
		Labels:    req.Labels,
	}
	replaced, err := h.store.Replace(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("edit question", zap.Error(err))
		response.Internal(c, "failed to edit question")
		return
	}
	if !replaced {
		response.BadRequest(c, "no question with this id")
		return
	}
	response.OK(c, nil)
}

// Delete handles DELETE /questions/delete/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete question", zap.Error(err))
		response.Internal(c, "failed to delete question")
		return
	}
	if !deleted {
		response.BadRequest(c, "no question with this id")
		return
	}
	response.OK(c, nil)
}
