package prompt

import "strings"

// Mode selects the kind of analysis requested for a topic.
type Mode string

const (
	ModeExplain  Mode = "explain"
	ModeHistory  Mode = "history"
	ModeImpact   Mode = "impact"
	ModeELI5     Mode = "eli5"
	ModeFuture   Mode = "future"
	ModeCode     Mode = "code"
	ModeProsCons Mode = "proscons"
	ModeDebate   Mode = "debate"
	ModeQuiz     Mode = "quiz"
)

var modes = []Mode{
	ModeExplain, ModeHistory, ModeImpact, ModeELI5, ModeFuture,
	ModeCode, ModeProsCons, ModeDebate, ModeQuiz,
}

// Modes lists every supported mode.
func Modes() []Mode {
	return append([]Mode(nil), modes...)
}

// ParseMode matches s case-insensitively. Unknown or empty input yields
// ModeExplain.
func ParseMode(s string) Mode {
	candidate := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range modes {
		if m == candidate {
			return m
		}
	}
	return ModeExplain
}

// Structured reports whether the mode asks the model for JSON instead of
// Markdown.
func (m Mode) Structured() bool {
	return m == ModeHistory || m == ModeQuiz
}

// task is the instruction given to the tutor template for prose modes.
func (m Mode) task(node string) string {
	switch m {
	case ModeImpact:
		return "Analyze the significance of '" + node + "'. Why does it matter to humanity or the universe? What are the ethical or practical implications?"
	case ModeELI5:
		return "Explain '" + node + "' to a 5-year-old. Use simple words and fun examples."
	case ModeFuture:
		return "Speculate on the future of '" + node + "'. What advances or changes can we expect in the next 50 years?"
	case ModeCode:
		return "Provide a code example or technical demonstration related to '" + node + "'. If it is a programming concept, show code. If it is a scientific concept, show a formula or a simulation algorithm. Use proper markdown code blocks."
	case ModeProsCons:
		return "Analyze the Pros and Cons of '" + node + "'. Present them in a clear Markdown table or list."
	case ModeDebate:
		return "Simulate a short debate between two experts holding opposing views on '" + node + "'. Label them as 'Proponent' and 'Skeptic'."
	default:
		return "Teach '" + node + "' to a beginner. Use a clear analogy (formatted as a > blockquote) to explain the core concept. Then detail how it works."
	}
}

// Difficulty levels understood by DifficultyGuidance.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DifficultyGuidance returns the quiz instruction for a difficulty level.
func DifficultyGuidance(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case DifficultyEasy:
		return "Focus on basic facts and definitions."
	case DifficultyMedium:
		return "Focus on conceptual understanding and connections."
	case DifficultyHard:
		return "Focus on complex analysis, edge cases, and synthesis of ideas."
	default:
		return "Focus on conceptual understanding."
	}
}
