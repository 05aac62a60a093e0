// Package fallback walks an ordered list of models until one of them
// produces a usable list of children.
//
// Each attempt fetches raw text, extracts JSON with package extract and
// validates it with package validate. A fetch error counts the same as a
// rejection: the walk moves on to the next candidate. Attempts are strictly
// sequential and no model is tried twice. When every model fails, [Resolve]
// returns an [Outcome] whose Empty method reports true; exhaustion is a
// value, not an error.
package fallback
