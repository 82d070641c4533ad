package handlers

import (
	"fmt"
	"net/http"
)

func (s *E2ETestSuite) Test20_Categories() {
	status, body := s.request("GET", "/api/articles/categories", nil, "")
	s.Equal(http.StatusOK, status)
	cats, ok := body["categories"].([]interface{})
	s.Require().True(ok)
	s.Contains(cats, "Tech")
	s.Contains(cats, "Other")
}

func (s *E2ETestSuite) Test21_CreateArticle() {
	status, body := s.request("POST", "/api/articles", map[string]string{
		"title":    "X",
		"content":  "Y",
		"category": "Tech",
		"tags":     "go, testing",
	}, s.tokenA)
	s.Equal(http.StatusCreated, status)
	s.Equal("Article created", body["message"])
	id, ok := body["id"].(float64)
	s.Require().True(ok)
	s.articleID = int(id)
	s.True(s.articleID > 0)
}

func (s *E2ETestSuite) Test22_CreateArticleWithoutTitle() {
	status, body := s.request("POST", "/api/articles", map[string]string{
		"content": "body without title",
	}, s.tokenA)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Title and content are required", body["error"])
}

func (s *E2ETestSuite) Test23_CreateArticleUnauthenticated() {
	status, _ := s.request("POST", "/api/articles", map[string]string{
		"title":   "X",
		"content": "Y",
	}, "")
	s.Equal(http.StatusUnauthorized, status)
}

func (s *E2ETestSuite) Test24_MyArticles() {
	status, rows := s.requestList("GET", "/api/articles/me", s.tokenA)
	s.Equal(http.StatusOK, status)
	s.Require().Len(rows, 1)
	s.Equal("X", rows[0]["title"])
	s.NotContains(rows[0], "content")
}

func (s *E2ETestSuite) Test25_GetArticleByID() {
	status, body := s.request("GET", fmt.Sprintf("/api/articles/%d", s.articleID), nil, "")
	s.Equal(http.StatusOK, status)
	s.Equal("X", body["title"])
	s.Equal("Y", body["content"])
	s.Equal("alice", body["author_name"])
	s.Equal(s.emailA, body["author_email"])
}

// Listing rows carry a generated summary in place of raw content. When
// the summary batch fails the rows still come back, content-stripped and
// with the summary field omitted.
func (s *E2ETestSuite) Test26_ListNeverExposesContent() {
	status, rows := s.requestList("GET", "/api/articles", "")
	s.Equal(http.StatusOK, status)
	s.Require().NotEmpty(rows)
	for _, row := range rows {
		s.NotContains(row, "content")
		if summary, ok := row["summary"]; ok {
			s.IsType("", summary)
		}
	}
}

func (s *E2ETestSuite) Test27_ListFilters() {
	status, rows := s.requestList("GET", "/api/articles?category=Tech", "")
	s.Equal(http.StatusOK, status)
	s.NotEmpty(rows)

	status, rows = s.requestList("GET", "/api/articles?search=nothing-matches-this", "")
	s.Equal(http.StatusOK, status)
	s.Empty(rows)
}

func (s *E2ETestSuite) Test28_SignupUserB() {
	status, body := s.request("POST", "/api/auth/signup", map[string]string{
		"username": "bob",
		"email":    s.emailB,
		"password": "secret123",
	}, "")
	s.Equal(http.StatusCreated, status)
	s.tokenB = body["token"].(string)
}

func (s *E2ETestSuite) Test29_UpdateByNonOwnerForbidden() {
	status, body := s.request("PUT", fmt.Sprintf("/api/articles/%d", s.articleID), map[string]string{
		"title":   "hijacked",
		"content": "hijacked",
	}, s.tokenB)
	s.Equal(http.StatusForbidden, status)
	s.Equal("Only the author can edit this article", body["error"])
}

func (s *E2ETestSuite) Test30_DeleteByNonOwnerForbidden() {
	status, body := s.request("DELETE", fmt.Sprintf("/api/articles/%d", s.articleID), nil, s.tokenB)
	s.Equal(http.StatusForbidden, status)
	s.Equal("Only the author can delete this article", body["error"])
}

func (s *E2ETestSuite) Test31_UpdateByOwner() {
	status, body := s.request("PUT", fmt.Sprintf("/api/articles/%d", s.articleID), map[string]string{
		"title":    "X revised",
		"content":  "Y revised",
		"category": "UnknownCategory", // open string, stored as-is
	}, s.tokenA)
	s.Equal(http.StatusOK, status)
	s.Equal("Article updated", body["message"])

	status, article := s.request("GET", fmt.Sprintf("/api/articles/%d", s.articleID), nil, "")
	s.Equal(http.StatusOK, status)
	s.Equal("X revised", article["title"])
	s.Equal("UnknownCategory", article["category"])
}

func (s *E2ETestSuite) Test32_DeleteByOwner() {
	status, body := s.request("DELETE", fmt.Sprintf("/api/articles/%d", s.articleID), nil, s.tokenA)
	s.Equal(http.StatusOK, status)
	s.Equal("Article deleted", body["message"])

	status, _ = s.request("GET", fmt.Sprintf("/api/articles/%d", s.articleID), nil, "")
	s.Equal(http.StatusNotFound, status)
}

func (s *E2ETestSuite) Test33_UpdateMissingArticle() {
	status, body := s.request("PUT", fmt.Sprintf("/api/articles/%d", s.articleID), map[string]string{
		"title":   "ghost",
		"content": "ghost",
	}, s.tokenA)
	s.Equal(http.StatusNotFound, status)
	s.Equal("Article not found", body["error"])
}
