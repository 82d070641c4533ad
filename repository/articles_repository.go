package repository

import (
	"database/sql"
	"fmt"

	"knowledge-api/models"
)

type ArticlesRepository struct {
	db *sql.DB
}

func NewArticlesRepository(db *sql.DB) *ArticlesRepository {
	return &ArticlesRepository{db: db}
}

// nullable maps "" to NULL so optional fields (category, tags) are stored
// the same way whether omitted or sent empty.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *ArticlesRepository) CreateArticle(title, content, category, tags string, authorID int) (int, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO articles (title, content, category, tags, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		title, content, nullable(category), nullable(tags), authorID).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ArticlesRepository) GetArticleByID(id int) (*models.Article, error) {
	var a models.Article
	err := r.db.QueryRow(`
		SELECT a.id, a.title, a.content, a.category, a.tags, a.author_id,
		       a.created_at, a.updated_at,
		       u.username AS author_name, u.email AS author_email
		FROM articles a
		LEFT JOIN users u ON a.author_id = u.id
		WHERE a.id = $1`, id).Scan(
		&a.ID, &a.Title, &a.Content, &a.Category, &a.Tags, &a.AuthorID,
		&a.CreatedAt, &a.UpdatedAt, &a.AuthorName, &a.AuthorEmail)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindArticles returns listing rows newest-first. Content is selected so the
// caller can generate display-time summaries; it is not serialized. The
// search term is a case-insensitive substring match over title, content and
// tags; category is an exact match.
func (r *ArticlesRepository) FindArticles(search, category string) ([]models.ArticleListItem, error) {
	query := `
		SELECT a.id, a.title, a.content, a.category, a.tags,
		       a.created_at, a.updated_at,
		       u.username AS author_name
		FROM articles a
		LEFT JOIN users u ON a.author_id = u.id`
	var args []interface{}
	where := ""

	if category != "" {
		args = append(args, category)
		where += fmt.Sprintf(" AND a.category = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (a.title ILIKE $%d OR a.content ILIKE $%d OR a.tags ILIKE $%d)", n, n, n)
	}
	if where != "" {
		query += " WHERE 1=1" + where
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []models.ArticleListItem{}
	for rows.Next() {
		var a models.ArticleListItem
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Content, &a.Category, &a.Tags,
			&a.CreatedAt, &a.UpdatedAt, &a.AuthorName); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *ArticlesRepository) FindArticlesByAuthor(authorID int) ([]models.ArticleMeta, error) {
	rows, err := r.db.Query(`
		SELECT id, title, category, tags, created_at, updated_at
		FROM articles
		WHERE author_id = $1
		ORDER BY created_at DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []models.ArticleMeta{}
	for rows.Next() {
		var a models.ArticleMeta
		if err := rows.Scan(&a.ID, &a.Title, &a.Category, &a.Tags, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticleAuthor resolves the owning author for the ownership check.
// found is false when the article does not exist, letting handlers
// distinguish 404 from 403.
func (r *ArticlesRepository) GetArticleAuthor(id int) (authorID int, found bool, err error) {
	err = r.db.QueryRow(`SELECT author_id FROM articles WHERE id = $1`, id).Scan(&authorID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return authorID, true, nil
}

// UpdateArticle is a full replace of title, content, category and tags.
// The ownership check happens in the handler before this call; the window
// between check and update is an accepted race.
func (r *ArticlesRepository) UpdateArticle(id int, title, content, category, tags string) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET title = $1, content = $2, category = $3, tags = $4, updated_at = NOW()
		WHERE id = $5`,
		title, content, nullable(category), nullable(tags), id)
	return err
}

func (r *ArticlesRepository) DeleteArticle(id int) error {
	_, err := r.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	return err
}
