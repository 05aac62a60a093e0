package utils

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/omniweb/omniweb/providers/observability"
)

// DoPostStream posts body as JSON and returns the response with its body
// still open, ready to be consumed by an [NDJSONScanner]. The caller owns the
// body. On a non-2xx status the body is drained, closed, and a *StatusError
// is returned.
func DoPostStream(ctx context.Context, client *http.Client, url string, body any, headers ...HeaderOption) (*http.Response, error) {
	span := observability.SpanFromContext(ctx)

	if client == nil {
		client = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.stream_request.prepared",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	response, err := client.Do(req)
	requestDuration := time.Since(requestStart)
	if err != nil {
		if span != nil {
			span.AddEvent("http.stream_request.error",
				observability.Error(err),
				observability.Duration(observability.AttrDuration, requestDuration),
			)
		}
		return response, fmt.Errorf("error sending stream request: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			return response, fmt.Errorf("non-2xx status %d (failed to read body: %v)", response.StatusCode, readErr)
		}
		return response, &StatusError{StatusCode: response.StatusCode, Body: string(errorBody)}
	}

	if span != nil {
		span.AddEvent("http.stream_response.started",
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Duration(observability.AttrDuration, requestDuration),
		)
	}
	return response, nil
}

// maxLineSize bounds a single NDJSON line (1 MB); longer lines make Next
// fail with an error wrapping bufio.ErrTooLong.
const maxLineSize = 1 * 1024 * 1024

// NDJSONScanner reads newline-delimited JSON records, one object per line,
// skipping blank lines.
type NDJSONScanner struct {
	scanner *bufio.Scanner
}

// NewNDJSONScanner wraps reader in an NDJSONScanner.
func NewNDJSONScanner(reader io.Reader) *NDJSONScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &NDJSONScanner{scanner: scanner}
}

// Next returns the next non-empty line. It returns io.EOF once the stream is
// exhausted. The returned slice is only valid until the following call.
func (s *NDJSONScanner) Next() ([]byte, error) {
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("ndjson scanner error: %w", err)
	}
	return nil, io.EOF
}

// Decode reads the next line and unmarshals it into v.
func (s *NDJSONScanner) Decode(v any) error {
	line, err := s.Next()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("error decoding ndjson line %q: %w", TruncateString(string(line), 200), err)
	}
	return nil
}
