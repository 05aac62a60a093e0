package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the text-generation backend (e.g., "ollama")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "llama3:8b")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Extraction and Validation Attributes ---

const (
	// AttrExtractKind is the outcome of JSON extraction (found, guessed, not_found)
	AttrExtractKind = "extract.kind"

	// AttrValidateAccepted is the number of items that survived filtering
	AttrValidateAccepted = "validate.accepted"
)

// --- Fallback Attributes ---

const (
	// AttrFallbackPrimary is the primary model of a fallback walk
	AttrFallbackPrimary = "fallback.primary"

	// AttrFallbackCandidates is the ordered candidate list
	AttrFallbackCandidates = "fallback.candidates"

	// AttrFallbackAttempt is the zero-based attempt index
	AttrFallbackAttempt = "fallback.attempt"

	// AttrFallbackAttempts is the total number of attempts made
	AttrFallbackAttempts = "fallback.attempts"

	// AttrFallbackExcluded is the number of names in the exclusion set
	AttrFallbackExcluded = "fallback.excluded"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRoute is the matched server route
	AttrHTTPRoute = "http.route"

	// AttrHTTPRequestID is the request identifier assigned by the server
	AttrHTTPRequestID = "http.request_id"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanLLMRequest is the span name for text-generation requests
	SpanLLMRequest = "llm.request"

	// SpanFallbackResolve is the span name for a fallback walk
	SpanFallbackResolve = "fallback.resolve"

	// SpanHTTPRequest is the span name for an inbound HTTP request
	SpanHTTPRequest = "http.request"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the start of an LLM request
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of an LLM request
	EventLLMRequestEnd = "llm.request.end"

	// EventFallbackAttempt marks one candidate attempt
	EventFallbackAttempt = "fallback.attempt"

	// EventFallbackExhausted marks the terminal Empty outcome
	EventFallbackExhausted = "fallback.exhausted"
)

// --- Metric Names ---

const (
	// MetricLLMRequestCount is the counter for generation requests
	MetricLLMRequestCount = "omniweb.llm.request.count"

	// MetricLLMRequestDuration is the histogram for generation request duration
	MetricLLMRequestDuration = "omniweb.llm.request.duration"

	// MetricFallbackAttempts is the counter for fallback attempts
	MetricFallbackAttempts = "omniweb.fallback.attempts"

	// MetricFallbackExhausted is the counter for walks that ended Empty
	MetricFallbackExhausted = "omniweb.fallback.exhausted"

	// MetricHTTPRequestCount is the counter for inbound HTTP requests
	MetricHTTPRequestCount = "omniweb.http.request.count"
)
