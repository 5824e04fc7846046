package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookhub/internal/http-api/dto"
	"bookhub/internal/http-api/middleware"
	"bookhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	svc service.ReactionService
}

func NewReactionHandler(svc service.ReactionService) *ReactionHandler {
	return &ReactionHandler{svc: svc}
}

// RegisterRoutes registers the per-book reaction routes. The lookup key is
// the book id, not the reaction's own id, and every route needs a token.
func (h *ReactionHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("/:book_id/reaction", authRequired, h.Get)
	rg.PATCH("/:book_id/reaction", authRequired, h.Update)
}

// Get returns the caller's reaction for the book, creating the default row
// on first access.
func (h *ReactionHandler) Get(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reaction, err := h.svc.Get(ctx, actor.ID, id)
	if err != nil {
		writeReactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, reaction)
}

// Update handles PATCH /api/books/:book_id/reaction
func (h *ReactionHandler) Update(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var in dto.UpdateReactionDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reaction, err := h.svc.Update(ctx, actor.ID, id, in)
	if errors.Is(err, service.ErrRatingStale) && reaction != nil {
		// The reaction write landed; only the derived rating is behind.
		// Return the saved reaction so the caller sees what persisted.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "reaction": reaction})
		return
	}
	if err != nil {
		writeReactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, reaction)
}

func writeReactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
