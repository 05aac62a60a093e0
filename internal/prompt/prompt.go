// Package prompt renders the instructions sent to the generation backend.
package prompt

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Defaults applied by Analyze.
const (
	DefaultDifficulty   = DifficultyMedium
	DefaultNumQuestions = 3
)

// randomTopic asks for one specific topic and nothing else.
const randomTopic = "Generate ONE specific, engaging educational topic for a curious learner. " +
	"It could be from history, science, philosophy, or technology. " +
	"Avoid generic broad topics like 'Science' or 'History'. " +
	"Aim for something specific like 'The Library of Alexandria', 'CRISPR Gene Editing', 'Stoicism', or 'The Antikythera Mechanism'. " +
	"Return ONLY the topic name. No quotes, no extra text."

// ExpandInput describes the topic to break down.
type ExpandInput struct {
	Node    string
	Context string
	// Exclusions are topics the model is asked to avoid.
	Exclusions []string
}

// AnalyzeInput describes one analysis request.
type AnalyzeInput struct {
	Node         string
	Context      string
	Mode         Mode
	Difficulty   string
	NumQuestions int
}

// Expand renders the prompt asking for five child topics as
// {"children": [...]}.
func Expand(in ExpandInput) (string, error) {
	return render("expand.tmpl", in)
}

// RandomTopic returns the prompt asking for a single topic name.
func RandomTopic() string {
	return randomTopic
}

// Analyze renders the prompt for in.Mode. History and quiz prompts ask for
// JSON; all other modes use the tutor prompt.
func Analyze(in AnalyzeInput) (string, error) {
	if in.Difficulty == "" {
		in.Difficulty = DefaultDifficulty
	}
	if in.NumQuestions <= 0 {
		in.NumQuestions = DefaultNumQuestions
	}

	switch in.Mode {
	case ModeHistory:
		return render("history.tmpl", in)
	case ModeQuiz:
		return render("quiz.tmpl", struct {
			AnalyzeInput
			Guidance string
		}{in, DifficultyGuidance(in.Difficulty)})
	default:
		return render("tutor.tmpl", struct {
			AnalyzeInput
			Task string
		}{in, in.Mode.task(in.Node)})
	}
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
