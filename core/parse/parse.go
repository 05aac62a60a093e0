package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/omniweb/omniweb/core/extract"
	"github.com/omniweb/omniweb/internal/utils"
)

// ErrNoJSON is returned by ExtractAs when the text holds no JSON structure.
var ErrNoJSON = errors.New("no JSON value found")

// ParseAs decodes content into T, repairing malformed JSON once if the
// plain decode fails.
//
//	type Question struct {
//	    Question string `json:"question"`
//	}
//	q, err := parse.ParseAs[Question](`{question: 'Why?',}`)
func ParseAs[T any](content string) (T, error) {
	var result T

	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}

	result = *new(T)
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (repaired: %s)", result, err, truncate(repaired))
	}
	return result, nil
}

// ExtractAs finds the first JSON object or array in raw model output,
// stripping prose and code fences, and decodes it into T.
func ExtractAs[T any](raw string) (T, error) {
	found := extract.Find(raw)
	if found.Kind == extract.NotFound {
		var zero T
		return zero, fmt.Errorf("%w in %q", ErrNoJSON, truncate(strings.TrimSpace(raw)))
	}
	return ParseAs[T](found.Text)
}

const errorSnippetLen = 200

func truncate(s string) string {
	return utils.TruncateString(s, errorSnippetLen)
}
