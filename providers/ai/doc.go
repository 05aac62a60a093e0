// Package ai defines the backend-agnostic types and interfaces for talking
// to a text-generation server. Concrete backends (see package ollama) map
// these types onto their own wire format.
//
// [Provider] covers one-shot generation and model listing; [StreamProvider]
// adds incremental generation through [GenerateStream]. Requests are
// described by [GenerateRequest] and answered with [GenerateResponse].
package ai
