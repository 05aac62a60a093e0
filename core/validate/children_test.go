package validate

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		exclusions ExclusionSet
		want       []Child
	}{
		{
			name: "bare array is wrapped",
			raw:  `[{"name":"Topic 1","desc":"d1","status":"concept"}]`,
			want: []Child{{Name: "Topic 1", Desc: "d1", Status: "concept"}},
		},
		{
			name: "object with children",
			raw:  `{"children": [{"name":"Topic 1","desc":"d1","status":"concept"}]}`,
			want: []Child{{Name: "Topic 1", Desc: "d1", Status: "concept"}},
		},
		{
			name: "case-insensitive duplicates collapse to the first",
			raw:  `[{"name":"Topic 1","desc":"first"},{"name":"topic 1","desc":"second"},{"name":"Topic 2"}]`,
			want: []Child{{Name: "Topic 1", Desc: "first"}, {Name: "Topic 2"}},
		},
		{
			name: "surrounding whitespace keeps names distinct",
			raw:  `[{"name":" Topic 1"},{"name":"topic 1"}]`,
			want: []Child{{Name: " Topic 1"}, {Name: "topic 1"}},
		},
		{
			name:       "excluded names are dropped",
			raw:        `[{"name":"Topic 1"},{"name":"Topic 2"},{"name":"TOPIC 3"}]`,
			exclusions: NewExclusionSet("topic 1", "Topic 3"),
			want:       []Child{{Name: "Topic 2"}},
		},
		{
			name: "malformed items are skipped",
			raw:  `[42, "text", null, [], {"desc":"no name"}, {"name":""}, {"name":"   "}, {"name":7}, {"name":"Kept","status":"event"}]`,
			want: []Child{{Name: "Kept", Status: "event"}},
		},
		{
			name: "non-string fields are rendered from their JSON",
			raw:  `[{"name":"Year","desc":1969,"status":null}]`,
			want: []Child{{Name: "Year", Desc: "1969"}},
		},
		{
			name: "order is preserved",
			raw:  `{"children":[{"name":"C"},{"name":"A"},{"name":"B"}],"extra":true}`,
			want: []Child{{Name: "C"}, {Name: "A"}, {Name: "B"}},
		},
		{
			name: "surrounding whitespace is tolerated",
			raw:  "\n  [{\"name\":\"Spaced\"}]  \n",
			want: []Child{{Name: "Spaced"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.raw, tt.exclusions)
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Children, tt.want) {
				t.Errorf("Validate() = %+v, want %+v", got.Children, tt.want)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		exclusions ExclusionSet
		wantReason error
	}{
		{"not JSON", `here is some prose`, nil, ErrNotJSON},
		{"empty input", ``, nil, ErrNotJSON},
		{"truncated JSON", `{"children": [`, nil, ErrNotJSON},
		{"object without children", `{"topics": []}`, nil, ErrMissingChildren},
		{"children is not a list", `{"children": {"name": "x"}}`, nil, ErrMissingChildren},
		{"children is null", `{"children": null}`, nil, ErrMissingChildren},
		{"string top level", `"just a string"`, nil, ErrUnsupportedShape},
		{"number top level", `42`, nil, ErrUnsupportedShape},
		{"empty list", `[]`, nil, ErrEmptyResult},
		{"empty children", `{"children": []}`, nil, ErrEmptyResult},
		{"every item excluded", `[{"name":"Topic 1"}]`, NewExclusionSet("TOPIC 1"), ErrAllFiltered},
		{"every item malformed", `[{"desc":"x"}, 3]`, nil, ErrAllFiltered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.raw, tt.exclusions)
			if err == nil {
				t.Fatalf("Validate() = %+v, want rejection", got)
			}
			if got != nil {
				t.Errorf("rejected result should be nil, got %+v", got)
			}
			if !errors.Is(err, ErrRejected) {
				t.Errorf("error %v does not wrap ErrRejected", err)
			}
			if !errors.Is(err, tt.wantReason) {
				t.Errorf("error %v does not wrap %v", err, tt.wantReason)
			}
		})
	}
}

func TestExclusionSet(t *testing.T) {
	set := NewExclusionSet("Black Holes", "", "  ", " Dark Matter ")
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
	for _, name := range []string{"black holes", "BLACK HOLES", " dark matter "} {
		if !set.Contains(name) {
			t.Errorf("expected set to contain %q", name)
		}
	}
	for _, name := range []string{"Neutron Stars", "dark matter"} {
		if set.Contains(name) {
			t.Errorf("unexpected match for %q", name)
		}
	}

	var nilSet ExclusionSet
	if nilSet.Contains("anything") {
		t.Error("nil set should contain nothing")
	}
}

func TestChildrenAccessors(t *testing.T) {
	children, err := Validate(`[{"name":"A"},{"name":"B"}]`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if children.Len() != 2 {
		t.Errorf("Len() = %d", children.Len())
	}
	if !reflect.DeepEqual(children.Names(), []string{"A", "B"}) {
		t.Errorf("Names() = %v", children.Names())
	}

	var empty *Children
	if empty.Len() != 0 || empty.Names() != nil {
		t.Error("nil Children should be empty")
	}
}
