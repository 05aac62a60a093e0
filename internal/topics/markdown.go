package topics

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// blockTag matches HTML block elements that some models emit instead of
// Markdown.
var blockTag = regexp.MustCompile(`(?i)<(p|div|ul|ol|li|h[1-6]|table|blockquote|pre|br)\b[^>]*>`)

// NormalizeMarkdown converts replies written in HTML to Markdown. Replies
// without HTML block elements are only trimmed.
func NormalizeMarkdown(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !blockTag.MatchString(text) {
		return text, nil
	}
	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}
