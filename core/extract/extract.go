package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind classifies how a Result was obtained.
type Kind int

const (
	// NotFound means no JSON-like structure was located; Result.Text is the
	// unmodified input and must not be treated as JSON.
	NotFound Kind = iota
	// Found means a balanced object or array was located.
	Found
	// Guessed means only the last-resort span heuristic matched; the text
	// may still fail to parse.
	Guessed
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Guessed:
		return "guessed"
	default:
		return "not_found"
	}
}

// Result is the outcome of Find.
type Result struct {
	Kind Kind
	Text string
}

// fencePattern matches an opening ```json marker (any case) or a bare ```.
var fencePattern = regexp.MustCompile("(?i)```(?:json)?")

// StripFences removes markdown code fence markers, keeping the content.
func StripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}

// Extract returns the best JSON candidate in text, or text itself when none exists.
func Extract(text string) string {
	return Find(text).Text
}

// Find locates the first JSON object or array in text.
func Find(text string) Result {
	stripped := StripFences(text)

	start := strings.IndexAny(stripped, "{[")
	if start < 0 {
		return Result{Kind: NotFound, Text: text}
	}

	if end, ok := scanBalanced(stripped, start); ok {
		return Result{Kind: Found, Text: stripped[start:end]}
	}

	if end, ok := decodeFrom(stripped, start); ok {
		return Result{Kind: Found, Text: stripped[start:end]}
	}

	end := max(strings.LastIndexByte(stripped, '}'), strings.LastIndexByte(stripped, ']'))
	if end > start {
		return Result{Kind: Guessed, Text: stripped[start : end+1]}
	}
	return Result{Kind: NotFound, Text: text}
}

// scanBalanced walks text from start and returns the offset just past the
// delimiter that closes the opening one. Delimiters inside string literals are
// ignored, and a closer that does not match the innermost opener is skipped.
func scanBalanced(text string, start int) (int, bool) {
	stack := make([]byte, 0, 16)
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != opener(c) {
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func opener(closer byte) byte {
	if closer == '}' {
		return '{'
	}
	return '['
}

// decodeFrom decodes a single JSON value starting at start, which must hold
// '{' or '[', and returns the offset just past it.
func decodeFrom(text string, start int) (int, bool) {
	dec := json.NewDecoder(strings.NewReader(text[start:]))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return 0, false
	}
	return start + int(dec.InputOffset()), true
}
