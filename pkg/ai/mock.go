package ai

import "fmt"

// Deterministic offline placeholders, derived from a truncated excerpt of
// the input and clearly labeled so they are never mistaken for model output.

func mockImprove(option, content string) string {
	text := truncate(content, 300)
	switch option {
	case "grammar":
		return "[Grammar improved] " + text + "..."
	case "concise":
		return "[More concise] " + truncate(text, 100) + "..."
	case "title":
		return "Suggested Title (set OPENAI_API_KEY for real AI)"
	default:
		return "[Improved clarity] " + text + "..."
	}
}

func mockSummary(content string) string {
	snippet := truncate(htmlTag.ReplaceAllString(content, ""), 150)
	if snippet == "" {
		return "No summary available."
	}
	return snippet + "..."
}

func mockTags(content string) string {
	snippet := truncate(htmlTag.ReplaceAllString(content, ""), 100)
	return fmt.Sprintf("tag1, tag2, tag3 (Mock. Content: %s...)", snippet)
}
