// Package bench measures how well installed models serve omniweb: whether
// they return strict JSON, follow simple reasoning, and how fast they are.
package bench

import (
	"encoding/json"
	"strings"

	"github.com/omniweb/omniweb/core/extract"
)

// Case ids with a role in scoring.
const (
	CaseSanity    = "sanity"
	CaseJSON      = "json_strict"
	CaseReasoning = "reasoning"
)

// Case is one benchmark prompt and its pass criterion.
type Case struct {
	ID     string
	Name   string
	System string
	Prompt string
	// Check reports whether a reply passes. Nil means any reply passes.
	Check func(reply string) bool
}

// Suite returns the default benchmark cases.
func Suite() []Case {
	return []Case{
		{
			ID:     CaseSanity,
			Name:   "Sanity Check",
			System: "You are a helpful assistant.",
			Prompt: "Say 'hello' and nothing else.",
			Check: func(reply string) bool {
				return strings.Contains(strings.ToLower(reply), "hello")
			},
		},
		{
			ID:     CaseJSON,
			Name:   "Strict JSON Structure",
			System: "You are a data api. Return ONLY valid JSON.",
			Prompt: `Return a JSON object describing a book.
Format:
{
    "title": "String",
    "author": "String",
    "year": Int,
    "genres": ["String", "String"]
}
Do not include any markdown or text outside the JSON.`,
			Check: ValidJSON,
		},
		{
			ID:     CaseReasoning,
			Name:   "Logic Puzzle",
			System: "You are a logician.",
			Prompt: "A bat and a ball cost $1.10 in total. The bat costs $1.00 more than the ball. " +
				"How much does the ball cost? Explain your reasoning step by step, then answer with 'Answer: $X.XX'.",
			Check: func(reply string) bool {
				return strings.Contains(reply, "0.05") || strings.Contains(reply, "5 cents")
			},
		},
	}
}

// ValidJSON reports whether the JSON found in reply parses.
func ValidJSON(reply string) bool {
	return json.Valid([]byte(extract.Extract(reply)))
}
