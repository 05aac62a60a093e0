package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRejected wraps every validation failure.
	ErrRejected = errors.New("validation rejected")

	// ErrNotJSON means the input did not parse as JSON.
	ErrNotJSON = errors.New("not valid JSON")
	// ErrMissingChildren means an object had no children array.
	ErrMissingChildren = errors.New("missing/invalid children list")
	// ErrUnsupportedShape means the top level was neither object nor array.
	ErrUnsupportedShape = errors.New("unsupported top-level JSON shape")
	// ErrEmptyResult means the children list was empty.
	ErrEmptyResult = errors.New("empty result")
	// ErrAllFiltered means every item was invalid, excluded or a duplicate.
	ErrAllFiltered = errors.New("all items excluded or duplicate")
)

// Child is a single accepted topic.
type Child struct {
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Status string `json:"status"`
}

// Children is the normalized result. Names are unique ignoring case and
// never empty.
type Children struct {
	Children []Child `json:"children"`
}

// Len returns the number of accepted children.
func (c *Children) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Children)
}

// Names returns the accepted names in order.
func (c *Children) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Children))
	for i, child := range c.Children {
		names[i] = child.Name
	}
	return names
}

// ExclusionSet holds lower-cased names that must not be returned.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds a set from names, ignoring case and blank entries.
func NewExclusionSet(names ...string) ExclusionSet {
	set := make(ExclusionSet, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			set[normalize(name)] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is in the set, ignoring case.
func (s ExclusionSet) Contains(name string) bool {
	_, ok := s[normalize(name)]
	return ok
}

// Validate parses raw and returns the children that survive filtering.
// exclusions may be nil.
func Validate(raw string, exclusions ExclusionSet) (*Children, error) {
	items, err := childList([]byte(raw))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, reject(ErrEmptyResult)
	}

	seen := make(map[string]struct{}, len(items))
	accepted := make([]Child, 0, len(items))
	for _, item := range items {
		child, ok := decodeChild(item)
		if !ok {
			continue
		}
		key := normalize(child.Name)
		if exclusions.Contains(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		accepted = append(accepted, child)
	}

	if len(accepted) == 0 {
		return nil, reject(ErrAllFiltered)
	}
	return &Children{Children: accepted}, nil
}

// envelope carries the optional children key of an object-shaped reply.
type envelope struct {
	Children *json.RawMessage `json:"children"`
}

// childList dispatches on the top-level JSON shape and returns the raw list items.
func childList(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, reject(ErrNotJSON)
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, reject(ErrNotJSON)
		}
		return items, nil

	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, reject(ErrNotJSON)
		}
		if env.Children == nil || !isArray(*env.Children) {
			return nil, reject(ErrMissingChildren)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(*env.Children, &items); err != nil {
			return nil, reject(ErrMissingChildren)
		}
		return items, nil

	default:
		return nil, reject(ErrUnsupportedShape)
	}
}

// decodeChild accepts object items whose name is a non-blank string. Other
// fields are taken as strings when they are strings, rendered from their
// JSON text otherwise, and left empty when null or absent.
func decodeChild(item json.RawMessage) (Child, bool) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Child{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Child{}, false
	}

	var name string
	if err := json.Unmarshal(fields["name"], &name); err != nil || strings.TrimSpace(name) == "" {
		return Child{}, false
	}

	return Child{
		Name:   name,
		Desc:   text(fields["desc"]),
		Status: text(fields["status"]),
	}, true
}

func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// normalize is the comparison key for dedup and exclusion. Case is folded;
// surrounding whitespace is significant.
func normalize(name string) string {
	return strings.ToLower(name)
}

func reject(reason error) error {
	return fmt.Errorf("%w: %w", ErrRejected, reason)
}
