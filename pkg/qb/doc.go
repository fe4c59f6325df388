// Package qb builds structured queries for a MarkLogic-style search REST API.
//
// Every constructor returns a freshly allocated query node: a Query map with a
// single key naming the query type. Nodes compose freely and can be reused as
// children of several parents.
//
//	q := qb.Where(
//	    qb.And(
//	        qb.Term("marklogic"),
//	        qb.CollectionConstraint("coll", []string{"books", "articles"}),
//	    ),
//	)
//	body := qb.Combined(q, "free text", nil)
//	// json.Marshal(body) → {"search":{"query":{"queries":[...]},"qtext":"free text"}}
//
// Functions with an Of suffix accept loosely typed arguments using the
// "spread or single slice" calling convention (see AsArray). They exist for
// callers decoding queries from untyped data such as YAML documents.
package qb
