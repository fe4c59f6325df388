// Package present holds small helpers for rendering search results.
package present

import (
	"maps"
	"slices"
)

// KeyField is the field ObjectToArray stores each entry's key under.
const KeyField = "__key"

const (
	defaultTruncateLength = 10
	defaultTruncateEnd    = "..."
)

// Truncate shortens text to length runes, counting the end marker, and
// appends the marker. A length <= 0 means 10; end defaults to "..." and may
// be "" to cut without a marker.
//
//	Truncate("abcdefg", 5)     // "ab..."
//	Truncate("abcdefg", 5, "") // "abcde"
func Truncate(text string, length int, end ...string) string {
	if length <= 0 {
		length = defaultTruncateLength
	}
	marker := defaultTruncateEnd
	if len(end) > 0 {
		marker = end[0]
	}

	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	keep := length - len([]rune(marker))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + marker
}

// ObjectToArray flattens a keyed object into a list, recording each key in
// the KeyField of a copy of its value. The list is ordered by key; input
// values are not modified.
func ObjectToArray(in map[string]map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, k := range slices.Sorted(maps.Keys(in)) {
		v := maps.Clone(in[k])
		if v == nil {
			v = make(map[string]any, 1)
		}
		v[KeyField] = k
		out = append(out, v)
	}
	return out
}
