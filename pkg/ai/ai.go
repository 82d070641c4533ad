package ai

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// Input limits keep external-call cost and latency bounded. Truncation is
// lossy and not reported to the caller.
const (
	improveInputLimit = 8000
	summaryInputLimit = 6000
	tagsInputLimit    = 3000

	maxCompletionTokens = 1500
)

var (
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// improvePrompts are the fixed system instructions per improve option.
// Unknown options fall back to "rewrite".
var improvePrompts = map[string]string{
	"rewrite": "Rewrite the following text more clearly. Keep the same meaning. Output only the rewritten text, no quotes or labels.",
	"grammar": "Fix grammar and spelling. Output only the corrected text.",
	"concise": "Make the following text more concise. Output only the shortened text.",
	"title":   "Suggest one short, catchy title for an article with the following content. Output only the title, no quotes.",
}

// Service calls an external chat-completion API for article rewriting,
// summarizing and tag suggestions. Without an API key, or whenever the
// external call fails or returns nothing, it answers with a clearly
// labeled deterministic mock so behavior is fully testable offline.
// The service is stateless; identical requests repeat the external call.
type Service struct {
	client *openai.Client
	model  string
}

// NewService builds a Service from OPENAI_API_KEY and OPENAI_MODEL.
// A missing key puts the service in mock-only mode.
func NewService() *Service {
	s := &Service{model: os.Getenv("OPENAI_MODEL")}
	if s.model == "" {
		s.model = openai.GPT3Dot5Turbo
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		s.client = openai.NewClient(key)
	}
	return s
}

// Enabled reports whether an external API credential is configured.
func (s *Service) Enabled() bool { return s.client != nil }

// Improve rewrites content (or suggests a title) according to option.
// For the "title" option the article's title is submitted when present,
// otherwise its content.
func (s *Service) Improve(ctx context.Context, option, content, title string) (string, error) {
	prompt, ok := improvePrompts[option]
	if !ok {
		option = "rewrite"
		prompt = improvePrompts[option]
	}
	input := content
	if option == "title" && title != "" {
		input = title
	}

	out, err := s.call(ctx, prompt, truncate(input, improveInputLimit))
	if err != nil {
		if isCanceled(err) {
			return "", err
		}
		return mockImprove(option, content), nil
	}
	if out == "" {
		return mockImprove(option, content), nil
	}
	return out, nil
}

// Summary produces a 1-2 sentence summary. Markup is stripped and
// whitespace collapsed before submission.
func (s *Service) Summary(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return mockSummary(content), nil
	}
	plain := strings.TrimSpace(whitespace.ReplaceAllString(htmlTag.ReplaceAllString(content, " "), " "))
	system := "Generate a short 1-2 sentence summary of the following article. Output only the summary, no labels or quotes."

	out, err := s.call(ctx, system, truncate(plain, summaryInputLimit))
	if err != nil {
		if isCanceled(err) {
			return "", err
		}
		return mockSummary(content), nil
	}
	if out == "" {
		return mockSummary(content), nil
	}
	return out, nil
}

// SuggestTags produces 3-6 comma-separated tags for the content.
func (s *Service) SuggestTags(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return mockTags(content), nil
	}
	plain := truncate(htmlTag.ReplaceAllString(content, " "), tagsInputLimit)
	system := "Based on the following article content, suggest 3-6 relevant tags (e.g. technologies, topics). Output only comma-separated tags, no numbering or bullets."

	out, err := s.call(ctx, system, plain)
	if err != nil {
		if isCanceled(err) {
			return "", err
		}
		return mockTags(content), nil
	}
	if out == "" {
		return mockTags(content), nil
	}
	return out, nil
}

// call submits one system+user exchange. Empty input or a missing client
// short-circuits without touching the network.
func (s *Service) call(ctx context.Context, system, user string) (string, error) {
	if s.client == nil || strings.TrimSpace(user) == "" {
		return "", nil
	}
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: maxCompletionTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		slog.Error("openai request failed", "err", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// truncate cuts s to at most max bytes, backing up to a rune boundary so
// the cut never splits a multi-byte character into invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
