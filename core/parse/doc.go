// Package parse decodes structured values out of raw model output.
//
// [ExtractAs] locates the JSON value with package extract and decodes it
// into the requested type. When the located text is not strictly valid
// JSON (trailing commas, single quotes, Python constants, a truncated tail)
// it is passed through jsonrepair before a second decode.
package parse
