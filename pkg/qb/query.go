package qb

import (
	"fmt"
	"maps"
	"reflect"
)

// Query is a single query node: one key naming the query type, mapped to the
// node body. It marshals to the wire schema with encoding/json as is.
type Query map[string]any

// Type returns the query type key, or "" if q is not a single-key node.
func (q Query) Type() string {
	if len(q) != 1 {
		return ""
	}
	for k := range q {
		return k
	}
	return ""
}

// Body returns the body of the node, or nil if the body is not an object.
func (q Query) Body() map[string]any {
	switch b := q[q.Type()].(type) {
	case map[string]any:
		return b
	case Query:
		return b
	default:
		return nil
	}
}

// AsArray normalizes the "spread or single slice" calling convention:
//   - no arguments yields an empty slice;
//   - a single slice or array argument yields a copy of its elements;
//   - a single nil argument yields an empty slice;
//   - any other single argument is wrapped in a one-element slice;
//   - two or more arguments are returned, copied, in call order.
//
// The result never aliases the arguments.
func AsArray(args ...any) []any {
	if len(args) != 1 {
		return append([]any{}, args...)
	}
	arg := args[0]
	if arg == nil {
		return []any{}
	}
	switch v := arg.(type) {
	case []any:
		return append([]any{}, v...)
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []Query:
		out := make([]any, len(v))
		for i, q := range v {
			out[i] = q
		}
		return out
	}
	rv := reflect.ValueOf(arg)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{arg}
}

// fieldsOf returns the fields of an object-like argument.
func fieldsOf(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, o != nil
	case Query:
		return o, o != nil
	case CustomFields:
		return o, o != nil
	case GeoValues:
		return o.Fields(), true
	case *GeoValues:
		if o == nil {
			return nil, false
		}
		return o.Fields(), true
	default:
		return nil, false
	}
}

func isObjectLike(v any) bool {
	_, ok := fieldsOf(v)
	return ok
}

// node wraps body under key.
func node(key string, body map[string]any) Query {
	return Query{key: body}
}

func cloneQuery(q Query) Query {
	if q == nil {
		return nil
	}
	return maps.Clone(q)
}

func toStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, stringOf(v))
	}
	return out
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
