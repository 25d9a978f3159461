package utils

import "strings"

// A filter that matches strings.
type StringFilter struct {
	emptyIsAny bool
	contents   map[string]bool
}

func NewStringFilterFromSlice(slice []string) *StringFilter {
	contents := make(map[string]bool)
	for _, item := range slice {
		contents[item] = true
	}

	return &StringFilter{true, contents}
}

// Force the filter to match nothing if it is empty.
func (f *StringFilter) SetStrict() {
	f.emptyIsAny = false
}

func (f *StringFilter) Match(item string) bool {
	if len(f.contents) == 0 {
		return f.emptyIsAny
	}

	return f.contents[item]
}

func (f *StringFilter) MatchAny(items []string) bool {
	if len(f.contents) == 0 {
		return f.emptyIsAny
	}

	for _, item := range items {
		if f.Match(item) {
			return true
		}
	}

	return false
}

// A filter that matches dotted test IDs.
type IDFilter struct {
	emptyIsAny bool
	recursive  bool
	contents   map[string]bool
}

// NewIDFilterFromSlice matches the given IDs and, when recursive, every ID
// below them.
func NewIDFilterFromSlice(slice []string, recursive bool) *IDFilter {
	contents := make(map[string]bool)
	for _, item := range slice {
		contents[item] = true
	}

	return &IDFilter{true, recursive, contents}
}

// Force the filter to match nothing if it is empty.
func (f *IDFilter) SetStrict() {
	f.emptyIsAny = false
}

func (f *IDFilter) Match(id string) bool {
	if len(f.contents) == 0 {
		return f.emptyIsAny
	}

	if !f.recursive {
		return f.contents[id]
	}

	for base := range f.contents {
		if idIsBase(base, id) {
			return true
		}
	}
	return false
}

func (f *IDFilter) MatchAny(ids []string) bool {
	if len(f.contents) == 0 {
		return f.emptyIsAny
	}

	for _, id := range ids {
		if f.Match(id) {
			return true
		}
	}

	return false
}

// Outermost returns the IDs of ids not below another one of them, in their
// original order and without duplicates.
func Outermost(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool)

	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		covered := false
		for j, other := range ids {
			if i != j && other != id && idIsBase(other, id) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, id)
		}
	}

	return out
}

// Returns whether `base` is a base of `id`.
//
// For example:
//
//	idIsBase("a.b.c", "a.b.c.d.e") == true
//	idIsBase("a.b.c", "a.b.c") == true
//	idIsBase("a.b.c", "a.b") == false
//	idIsBase("a.b", "a.bc") == false
func idIsBase(base, id string) bool {
	if !strings.HasPrefix(id, base) {
		return false
	}

	return len(id) == len(base) || id[len(base)] == '.'
}
