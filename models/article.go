package models

import "time"

// Article is the full row as returned by GET /api/articles/:id.
// Category and Tags are open strings; NULL in storage when absent.
type Article struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    *string   `json:"category"`
	Tags        *string   `json:"tags"`
	AuthorID    int       `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorName  *string   `json:"author_name"`
	AuthorEmail *string   `json:"author_email,omitempty"`
}

// ArticleListItem is a listing row. Content is loaded so a summary can be
// generated at display time but is never serialized; Summary is omitted
// entirely when generation fails for the batch.
type ArticleListItem struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"-"`
	Category   *string   `json:"category"`
	Tags       *string   `json:"tags"`
	AuthorName *string   `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Summary    *string   `json:"summary,omitempty"`
}

// ArticleMeta is what an author sees in their own article list: metadata
// only, no content.
type ArticleMeta struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	Tags      *string   `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
