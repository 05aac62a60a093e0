package ollama

import (
	"time"

	"github.com/omniweb/omniweb/providers/ai"
)

/*
	##### WIRE FORMAT #####
*/

type generateRequest struct {
	Model   string                `json:"model"`
	Prompt  string                `json:"prompt"`
	System  string                `json:"system,omitempty"`
	Format  string                `json:"format,omitempty"`
	Stream  bool                  `json:"stream"`
	Options *ai.GenerationOptions `json:"options,omitempty"`
}

// generateChunk is both the non-streamed reply and one line of a stream.
type generateChunk struct {
	Model           string `json:"model"`
	CreatedAt       string `json:"created_at"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason,omitempty"`
	TotalDuration   int64  `json:"total_duration,omitempty"` // nanoseconds
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
	Error           string `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []tagModel `json:"models"`
}

type tagModel struct {
	Name       string     `json:"name"`
	Model      string     `json:"model"`
	ModifiedAt time.Time  `json:"modified_at"`
	Size       int64      `json:"size"`
	Digest     string     `json:"digest"`
	Details    tagDetails `json:"details"`
}

type tagDetails struct {
	Format            string `json:"format"`
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

/*
	##### CONVERSION #####
*/

func requestFromGeneric(request ai.GenerateRequest, stream bool) generateRequest {
	return generateRequest{
		Model:   request.Model,
		Prompt:  request.Prompt,
		System:  request.System,
		Format:  request.Format,
		Stream:  stream,
		Options: request.Options,
	}
}

func (c *generateChunk) usage() *ai.Usage {
	if c.PromptEvalCount == 0 && c.EvalCount == 0 {
		return nil
	}
	return &ai.Usage{
		PromptTokens:     c.PromptEvalCount,
		CompletionTokens: c.EvalCount,
		TotalTokens:      c.PromptEvalCount + c.EvalCount,
	}
}

func responseToGeneric(chunk *generateChunk) *ai.GenerateResponse {
	return &ai.GenerateResponse{
		Model:        chunk.Model,
		Text:         chunk.Response,
		FinishReason: chunk.DoneReason,
		Usage:        chunk.usage(),
		Duration:     time.Duration(chunk.TotalDuration),
	}
}

func modelsToGeneric(tags *tagsResponse) []ai.ModelInfo {
	models := make([]ai.ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		models = append(models, ai.ModelInfo{
			Name:          name,
			SizeBytes:     m.Size,
			Family:        m.Details.Family,
			ParameterSize: m.Details.ParameterSize,
			Quantization:  m.Details.QuantizationLevel,
			ModifiedAt:    m.ModifiedAt,
		})
	}
	return models
}
