package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuniMay/junimay.github.io/internal/content"
	"github.com/JuniMay/junimay.github.io/internal/model"
)

// PostIndex lists posts in display order.
type PostIndex interface {
	SortedSummaries(ctx context.Context) ([]model.PostSummary, error)
}

// PostLoader loads a single rendered post.
type PostLoader interface {
	LoadPost(ctx context.Context, id string) (*model.Post, error)
}

// Handler serves the read-only JSON view of the content store.
type Handler struct {
	index  PostIndex
	posts  PostLoader
	logger *slog.Logger
}

func NewHandler(index PostIndex, posts PostLoader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{index: index, posts: posts, logger: logger}
}

// ListPosts returns every post summary, newest first.
func (h *Handler) ListPosts(c *gin.Context) {
	summaries, err := h.index.SortedSummaries(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetPost returns a post with its rendered HTML.
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.posts.LoadPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, content.ErrMalformedContent), errors.Is(err, content.ErrRenderFailure):
		h.logger.Error("content error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
