package prompt

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"explain", ModeExplain},
		{"HISTORY", ModeHistory},
		{"  Quiz ", ModeQuiz},
		{"proscons", ModeProsCons},
		{"eli5", ModeELI5},
		{"", ModeExplain},
		{"poetry", ModeExplain},
	}

	for _, tt := range tests {
		if got := ParseMode(tt.input); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestModes(t *testing.T) {
	all := Modes()
	if len(all) != 9 {
		t.Fatalf("Modes() returned %d modes", len(all))
	}
	all[0] = "mutated"
	if Modes()[0] != ModeExplain {
		t.Error("Modes() must return a copy")
	}

	for _, m := range all[1:] {
		want := m == ModeHistory || m == ModeQuiz
		if m.Structured() != want {
			t.Errorf("%s.Structured() = %v", m, m.Structured())
		}
	}
}

func TestDifficultyGuidance(t *testing.T) {
	tests := map[string]string{
		"easy":    "basic facts",
		"Medium":  "connections",
		"hard":    "edge cases",
		"extreme": "Focus on conceptual understanding.",
	}
	for level, fragment := range tests {
		if got := DifficultyGuidance(level); !strings.Contains(got, fragment) {
			t.Errorf("DifficultyGuidance(%q) = %q, want it to contain %q", level, got, fragment)
		}
	}
}

func TestExpand(t *testing.T) {
	got, err := Expand(ExpandInput{Node: "Photosynthesis", Context: "Biology > Plants"})
	if err != nil {
		t.Fatal(err)
	}
	for _, fragment := range []string{
		`Current Subject: Photosynthesis`,
		`Context Path: Biology > Plants`,
		`drill down into "Photosynthesis"`,
		`"children"`,
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("prompt is missing %q", fragment)
		}
	}
	if strings.Contains(got, "AVOID") {
		t.Error("prompt without exclusions must not mention AVOID")
	}
	// text/template must not HTML-escape the path separator
	if strings.Contains(got, "&gt;") {
		t.Error("prompt contains escaped HTML")
	}
}

func TestExpand_Exclusions(t *testing.T) {
	got, err := Expand(ExpandInput{Node: "Cells", Exclusions: []string{"Mitosis", "Meiosis"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "5. AVOID using these words/topics: Mitosis, Meiosis\n") {
		t.Errorf("exclusion line missing:\n%s", got)
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		input    AnalyzeInput
		contains []string
	}{
		{
			name:     "history asks for a JSON array",
			input:    AnalyzeInput{Node: "Rome", Context: "Antiquity", Mode: ModeHistory},
			contains: []string{"You are a Historian.", "valid JSON Array", `key events for "Rome"`},
		},
		{
			name:     "quiz applies defaults",
			input:    AnalyzeInput{Node: "Rome", Mode: ModeQuiz},
			contains: []string{"Create a 3-question", "Difficulty: medium", "conceptual understanding and connections"},
		},
		{
			name:     "quiz hard",
			input:    AnalyzeInput{Node: "Rome", Mode: ModeQuiz, Difficulty: "hard", NumQuestions: 5},
			contains: []string{"Create a 5-question", "Difficulty: hard", "edge cases"},
		},
		{
			name:     "debate uses tutor",
			input:    AnalyzeInput{Node: "Nuclear Power", Context: "Energy", Mode: ModeDebate},
			contains: []string{"You are an Expert Tutor.", "'Proponent' and 'Skeptic'", "Context: Energy"},
		},
		{
			name:     "explain is the default task",
			input:    AnalyzeInput{Node: "Gravity"},
			contains: []string{"Teach 'Gravity' to a beginner", "[Image of <specific search query>]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Analyze(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			for _, fragment := range tt.contains {
				if !strings.Contains(got, fragment) {
					t.Errorf("prompt is missing %q:\n%s", fragment, got)
				}
			}
		})
	}
}

func TestRandomTopic(t *testing.T) {
	if !strings.Contains(RandomTopic(), "Return ONLY the topic name") {
		t.Error("unexpected random topic prompt")
	}
}
