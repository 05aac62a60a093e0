// Package ollama implements ai.Provider and ai.StreamProvider against a
// local Ollama server.
//
// Generation goes through POST /api/generate, either as a single JSON
// reply or as a newline-delimited JSON stream. Installed models are listed
// with GET /api/tags. The server address is read from OLLAMA_BASE and
// defaults to http://localhost:11434; override it with WithBaseURL.
package ollama
