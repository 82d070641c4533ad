package handlers

import "net/http"

func (s *E2ETestSuite) Test40_AIEndpointsRequireAuth() {
	for _, path := range []string{"/api/ai/improve", "/api/ai/summary", "/api/ai/suggest-tags"} {
		status, _ := s.request("POST", path, map[string]string{"content": "x"}, "")
		s.Equal(http.StatusUnauthorized, status, path)
	}
}

func (s *E2ETestSuite) Test41_Improve() {
	status, body := s.request("POST", "/api/ai/improve", map[string]string{
		"option":  "rewrite",
		"content": "this text coud use some работы",
	}, s.tokenA)
	s.Equal(http.StatusOK, status)
	s.NotEmpty(body["result"])
}

func (s *E2ETestSuite) Test42_ImproveUnknownOption() {
	status, body := s.request("POST", "/api/ai/improve", map[string]string{
		"option":  "no-such-option",
		"content": "fallback to rewrite",
	}, s.tokenA)
	s.Equal(http.StatusOK, status)
	s.NotEmpty(body["result"])
}

func (s *E2ETestSuite) Test43_Summary() {
	status, body := s.request("POST", "/api/ai/summary", map[string]string{
		"content": "<p>A longer piece of article text that should be summarized into a sentence or two.</p>",
	}, s.tokenA)
	s.Equal(http.StatusOK, status)
	s.NotEmpty(body["summary"])
}

func (s *E2ETestSuite) Test44_SuggestTags() {
	status, body := s.request("POST", "/api/ai/suggest-tags", map[string]string{
		"content": "An article about Go, Postgres and backend engineering.",
	}, s.tokenA)
	s.Equal(http.StatusOK, status)
	s.NotEmpty(body["tags"])
}
