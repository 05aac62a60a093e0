package topics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// DefaultTemperature is used when an expand request omits temperature.
const DefaultTemperature = 0.7

// ExpandRequest asks for the children of a topic.
type ExpandRequest struct {
	Node        string   `json:"node"`
	Context     string   `json:"context"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	// RecentNodes are names the caller has already shown; matching
	// children are dropped.
	RecentNodes []string `json:"recent_nodes"`
}

// Validate checks required fields.
func (r ExpandRequest) Validate() error {
	return requireFields(map[string]string{"node": r.Node, "model": r.Model})
}

func (r ExpandRequest) temperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// AnalysisRequest asks for a long-form treatment of a topic.
type AnalysisRequest struct {
	Node         string `json:"node"`
	Context      string `json:"context"`
	Model        string `json:"model"`
	Mode         string `json:"mode"`
	Difficulty   string `json:"difficulty,omitempty"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

// Validate checks required fields.
func (r AnalysisRequest) Validate() error {
	return requireFields(map[string]string{"node": r.Node, "model": r.Model})
}

// RandomTopicRequest asks for a single topic suggestion.
type RandomTopicRequest struct {
	Model string `json:"model"`
}

// Validate checks required fields.
func (r RandomTopicRequest) Validate() error {
	return requireFields(map[string]string{"model": r.Model})
}

// RandomTopicResponse is the /random payload.
type RandomTopicResponse struct {
	Topic string `json:"topic"`
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
}
