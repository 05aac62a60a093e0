package topics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/omniweb/omniweb/core/parse"
	"github.com/omniweb/omniweb/internal/prompt"
	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
)

// ErrInvalidQuiz is returned when a quiz reply holds no usable question.
var ErrInvalidQuiz = errors.New("quiz has no valid questions")

// Year accepts a JSON string or number.
type Year string

// UnmarshalJSON stores a string as is and a number in its JSON text form.
func (y *Year) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or number: %w", err)
	}
	*y = Year(n.String())
	return nil
}

// TimelineEvent is one entry of a history analysis.
type TimelineEvent struct {
	Year        Year   `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Question is one multiple choice question.
type Question struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

func (q Question) valid() bool {
	return strings.TrimSpace(q.Question) != "" &&
		len(q.Options) >= 2 &&
		q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

// Quiz is the payload of a quiz analysis.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// StructuredAnalysis is the /analyze/structured payload. Exactly one of
// Timeline, Quiz and Markdown is set, depending on Mode.
type StructuredAnalysis struct {
	Mode     prompt.Mode     `json:"mode"`
	Model    string          `json:"model"`
	Timeline []TimelineEvent `json:"timeline,omitempty"`
	Quiz     *Quiz           `json:"quiz,omitempty"`
	Markdown string          `json:"markdown,omitempty"`
}

func analyzeInput(req AnalysisRequest) (prompt.Mode, string, error) {
	mode := prompt.ParseMode(req.Mode)
	text, err := prompt.Analyze(prompt.AnalyzeInput{
		Node:         req.Node,
		Context:      req.Context,
		Mode:         mode,
		Difficulty:   req.Difficulty,
		NumQuestions: req.NumQuestions,
	})
	return mode, text, err
}

func analyzeRequest(model, text string) ai.GenerateRequest {
	return ai.GenerateRequest{
		Model:   model,
		Prompt:  text,
		Options: &ai.GenerationOptions{Temperature: utils.Ptr(analyzeTemperature)},
	}
}

// Analyze streams the analysis of req.Node. The stream is bounded by the
// configured stream timeout, which is released once the stream ends.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*ai.GenerateStream, error) {
	_, text, err := analyzeInput(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.streamTimeout)
	stream, err := s.gen.Stream(ctx, analyzeRequest(req.Model, text))
	if err != nil {
		cancel()
		return nil, err
	}

	return ai.NewGenerateStream(func(yield func(ai.StreamEvent, error) bool) {
		defer cancel()
		for event, err := range stream.Iter() {
			if !yield(event, err) || err != nil {
				return
			}
		}
	}), nil
}

// AnalyzeStructured runs the analysis without streaming and decodes it.
// History replies become a timeline, quiz replies a Quiz, and every other
// mode Markdown.
func (s *Service) AnalyzeStructured(ctx context.Context, req AnalysisRequest) (*StructuredAnalysis, error) {
	mode, text, err := analyzeInput(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.streamTimeout)
	defer cancel()

	response, err := s.gen.Generate(ctx, analyzeRequest(req.Model, text))
	if err != nil {
		return nil, err
	}

	result := &StructuredAnalysis{Mode: mode, Model: req.Model}
	switch mode {
	case prompt.ModeHistory:
		events, err := parse.ExtractAs[[]TimelineEvent](response.Text)
		if err != nil {
			return nil, fmt.Errorf("timeline: %w", err)
		}
		result.Timeline = events
	case prompt.ModeQuiz:
		quiz, err := decodeQuiz(response.Text)
		if err != nil {
			return nil, err
		}
		result.Quiz = quiz
	default:
		markdown, err := NormalizeMarkdown(response.Text)
		if err != nil {
			return nil, err
		}
		result.Markdown = markdown
	}
	return result, nil
}

// decodeQuiz accepts {"questions": [...]} or a bare array and drops
// questions that cannot be answered.
func decodeQuiz(raw string) (*Quiz, error) {
	var questions []Question
	if quiz, err := parse.ExtractAs[Quiz](raw); err == nil {
		questions = quiz.Questions
	} else if list, listErr := parse.ExtractAs[[]Question](raw); listErr == nil {
		questions = list
	} else {
		return nil, fmt.Errorf("quiz: %w", err)
	}

	quiz := &Quiz{Questions: make([]Question, 0, len(questions))}
	for _, q := range questions {
		if q.valid() {
			quiz.Questions = append(quiz.Questions, q)
		}
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrInvalidQuiz
	}
	return quiz, nil
}
