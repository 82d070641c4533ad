package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"knowledge-api/pkg/ai"
	"knowledge-api/repository"
	"knowledge-api/types"

	"github.com/gin-gonic/gin"
)

type ArticlesHandler struct {
	repo *repository.ArticlesRepository
	ai   *ai.Service
}

func NewArticlesHandler(repo *repository.ArticlesRepository, aiSvc *ai.Service) *ArticlesHandler {
	return &ArticlesHandler{repo: repo, ai: aiSvc}
}

type articleRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
}

func (h *ArticlesHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": types.Categories})
}

func (h *ArticlesHandler) CreateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}
	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	id, err := h.repo.CreateArticle(req.Title, req.Content, req.Category, req.Tags, c.GetInt("userId"))
	if err != nil {
		slog.Error("create article failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Article created", "id": id})
}

// ListArticles returns all matching articles newest-first, each with a
// summary generated at display time and the raw content stripped. Summary
// calls run sequentially per row; when a call fails the whole batch
// degrades to content-stripped rows with no summary field, rather than
// failing the request.
func (h *ArticlesHandler) ListArticles(c *gin.Context) {
	articles, err := h.repo.FindArticles(c.Query("search"), c.Query("category"))
	if err != nil {
		slog.Error("list articles failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}

	for i := range articles {
		summary, err := h.ai.Summary(c.Request.Context(), articles[i].Content)
		if err != nil {
			slog.Error("summary generation failed, stripping content", "err", err)
			for j := range articles {
				articles[j].Summary = nil
			}
			c.JSON(http.StatusOK, articles)
			return
		}
		articles[i].Summary = &summary
	}
	c.JSON(http.StatusOK, articles)
}

func (h *ArticlesHandler) GetArticle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	article, err := h.repo.GetArticleByID(id)
	if err != nil {
		slog.Error("get article failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *ArticlesHandler) GetMyArticles(c *gin.Context) {
	articles, err := h.repo.FindArticlesByAuthor(c.GetInt("userId"))
	if err != nil {
		slog.Error("list own articles failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *ArticlesHandler) UpdateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}
	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	// Read-then-act ownership check. Not atomic against a concurrent
	// delete between check and update; accepted for this design.
	authorID, found, err := h.repo.GetArticleAuthor(id)
	if err != nil {
		slog.Error("article author lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if authorID != c.GetInt("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can edit this article"})
		return
	}

	if err := h.repo.UpdateArticle(id, req.Title, req.Content, req.Category, req.Tags); err != nil {
		slog.Error("update article failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article updated"})
}

func (h *ArticlesHandler) DeleteArticle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	authorID, found, err := h.repo.GetArticleAuthor(id)
	if err != nil {
		slog.Error("article author lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if authorID != c.GetInt("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete this article"})
		return
	}

	if err := h.repo.DeleteArticle(id); err != nil {
		slog.Error("delete article failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}
