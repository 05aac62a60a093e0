// Package utils holds the low-level helpers shared by the omniweb internals:
// JSON-over-HTTP round-trips to the model backend ([DoPostSync], [DoGetSync]),
// newline-delimited JSON streaming ([DoPostStream] with [NDJSONScanner]),
// plus small string, pointer and timing helpers.
package utils
