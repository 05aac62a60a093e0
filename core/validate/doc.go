// Package validate turns extracted model output into a clean list of child
// topics. It accepts either a bare JSON array or an object carrying a
// "children" array, skips malformed items, and drops entries whose name is
// excluded or already seen, comparing names case-insensitively.
//
// Every failure is reported as an error wrapping [ErrRejected] together with
// one specific reason, so callers can branch with errors.Is.
package validate
