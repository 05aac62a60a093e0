// Package extract pulls the intended JSON value out of free-form model
// output. Language models wrap JSON in prose, markdown code fences, or emit
// several fragments in a row; [Extract] returns the first balanced object or
// array and never fails.
//
// The search runs from strictest to loosest:
//
//  1. a string- and escape-aware bracket scan from the first '{' or '[',
//  2. an incremental encoding/json decode from the same position,
//  3. a span ending at the last '}' or ']' in the text.
//
// [Find] reports which of these produced the result, so callers can tell a
// balanced value ([Found]) from a best-effort guess ([Guessed]) and from
// text that holds no structure at all ([NotFound]).
package extract
