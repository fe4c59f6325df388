package qb

import (
	"encoding/json"
	"maps"
)

// CombinedQuery is the combined query envelope accepted as the POST body of
// the search, suggest and values endpoints.
type CombinedQuery struct {
	Search CombinedSearch `json:"search"`
}

// CombinedSearch bundles a structured query, query text and search options.
// An absent query text is sent as "". Nil options are omitted, while empty
// non-nil options are sent as {}.
type CombinedSearch struct {
	Query   Query          `json:"query,omitempty"`
	QText   string         `json:"qtext"`
	Options map[string]any `json:"options,omitempty"`
}

// MarshalJSON keeps an empty but non-nil Options on the wire.
func (s CombinedSearch) MarshalJSON() ([]byte, error) {
	type wire struct {
		Query   Query           `json:"query,omitempty"`
		QText   string          `json:"qtext"`
		Options *map[string]any `json:"options,omitempty"`
	}
	w := wire{Query: s.Query, QText: s.QText}
	if s.Options != nil {
		w.Options = &s.Options
	}
	return json.Marshal(w)
}

// Combined builds a combined query. query may be a bare query node or the
// result of Where; options may be the options body or an object wrapping it
// under "options". The query and options maps are shallow-copied.
func Combined(query Query, qtext string, options map[string]any) CombinedQuery {
	return CombinedQuery{
		Search: CombinedSearch{
			Query:   unwrapQuery(query),
			QText:   qtext,
			Options: unwrapOptions(options),
		},
	}
}

// CombinedOf is Combined with loosely typed arguments. Trailing nil
// arguments are ignored, and a single object-like argument left after query
// is taken as the options:
//
//	CombinedOf(q, "text")
//	CombinedOf(q, "text", options)
//	CombinedOf(q, options)
//	CombinedOf(q, options, nil)
func CombinedOf(query any, args ...any) CombinedQuery {
	q, _ := fieldsOf(query)
	for len(args) > 0 && args[len(args)-1] == nil {
		args = args[:len(args)-1]
	}

	var qtext string
	var options map[string]any
	switch {
	case len(args) == 1 && isObjectLike(args[0]):
		options, _ = fieldsOf(args[0])
	case len(args) > 0:
		if args[0] != nil {
			qtext = stringOf(args[0])
		}
		if len(args) > 1 {
			options, _ = fieldsOf(args[1])
		}
	}
	return Combined(q, qtext, options)
}

func unwrapQuery(q Query) Query {
	if q == nil {
		return nil
	}
	switch inner := q[KeyQuery].(type) {
	case map[string]any:
		return maps.Clone(Query(inner))
	case Query:
		return maps.Clone(inner)
	}
	return cloneQuery(q)
}

func unwrapOptions(o map[string]any) map[string]any {
	if o == nil {
		return nil
	}
	switch inner := o[KeyOptions].(type) {
	case map[string]any:
		return maps.Clone(inner)
	case Query:
		return maps.Clone(map[string]any(inner))
	}
	return maps.Clone(o)
}
