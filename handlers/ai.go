package handlers

import (
	"log/slog"
	"net/http"

	"knowledge-api/pkg/ai"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	ai *ai.Service
}

func NewAIHandler(aiSvc *ai.Service) *AIHandler {
	return &AIHandler{ai: aiSvc}
}

// Improve rewrites content according to option (rewrite, grammar, concise
// or title). Unknown options are treated as rewrite by the adapter.
func (h *AIHandler) Improve(c *gin.Context) {
	var req struct {
		Option  string `json:"option"`
		Content string `json:"content"`
		Title   string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	result, err := h.ai.Improve(c.Request.Context(), req.Option, req.Content, req.Title)
	if err != nil {
		slog.Error("ai improve failed", "option", req.Option, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *AIHandler) Summary(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	summary, err := h.ai.Summary(c.Request.Context(), req.Content)
	if err != nil {
		slog.Error("ai summary failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *AIHandler) SuggestTags(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	tags, err := h.ai.SuggestTags(c.Request.Context(), req.Content)
	if err != nil {
		slog.Error("ai suggest-tags failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
