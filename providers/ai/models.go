package ai

import "time"

/*
	##### PROVIDER INPUT #####
*/

// GenerateRequest is a single prompt-completion request.
type GenerateRequest struct {
	Model   string             `json:"model"`
	Prompt  string             `json:"prompt"`
	System  string             `json:"system,omitempty"`  // Optional system prompt
	Format  string             `json:"format,omitempty"`  // "json" asks the backend for JSON-only output
	Options *GenerationOptions `json:"options,omitempty"` // Sampling options; nil keeps backend defaults
}

// GenerationOptions are the sampling knobs passed through to the backend.
type GenerationOptions struct {
	Temperature *float64 `json:"temperature,omitempty"` // nil keeps the model default; 0 is a valid value
	NumCtx      int      `json:"num_ctx,omitempty"`     // Context window in tokens
	NumPredict  int      `json:"num_predict,omitempty"` // Max tokens to generate
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage reports token accounting for one generation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// GenerateResponse is the completed output of a generation.
type GenerateResponse struct {
	Model        string        `json:"model"`
	Text         string        `json:"text"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Usage        *Usage        `json:"usage,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"` // Backend-reported total duration
}

// ModelInfo describes one installed model.
type ModelInfo struct {
	Name          string    `json:"name"`
	SizeBytes     int64     `json:"size"`
	Family        string    `json:"family,omitempty"`
	ParameterSize string    `json:"parameter_size,omitempty"`
	Quantization  string    `json:"quantization,omitempty"`
	ModifiedAt    time.Time `json:"modified_at,omitempty"`
}
