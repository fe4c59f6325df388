package qb

// Where creates the root structured query from a set of sub-queries.
// This is the value expected by the structuredQuery search parameter.
func Where(queries ...Query) Query {
	return node(KeyQuery, map[string]any{KeyQueries: cloneQueries(queries)})
}

// And builds an and-query. With no sub-queries the result matches everything.
func And(queries ...Query) Query {
	return node(KeyAndQuery, map[string]any{KeyQueries: cloneQueries(queries)})
}

// Or builds an or-query.
func Or(queries ...Query) Query {
	return node(KeyOrQuery, map[string]any{KeyQueries: cloneQueries(queries)})
}

// Not builds a not-query negating q.
func Not(q Query) Query {
	return Query{KeyNotQuery: q}
}

// Boost builds a boost-query: matching selects results, boosting only
// contributes to their score.
func Boost(matching, boosting Query) Query {
	return node(KeyBoostQuery, map[string]any{
		KeyMatchingQuery: matching,
		KeyBoostingQuery: boosting,
	})
}

// Term builds a term-query matching any of terms.
func Term(terms ...string) Query {
	return node(KeyTermQuery, map[string]any{KeyText: cloneStrings(terms)})
}

// Document builds a document-query matching any of the document URIs.
func Document(uris ...string) Query {
	return node(KeyDocumentQuery, map[string]any{KeyURI: cloneStrings(uris)})
}

// Collection builds an unqualified collection-query matching documents in any
// of the collections. See CollectionConstraint for the named constraint form.
func Collection(uris ...string) Query {
	return node(KeyCollectionQuery, map[string]any{KeyURI: cloneStrings(uris)})
}

// Directory builds a directory-query matching documents in any of the
// directories. infinite controls whether sub-directories match and defaults to
// true.
func Directory(uris []string, infinite ...bool) Query {
	inf := true
	if len(infinite) > 0 {
		inf = infinite[0]
	}
	return node(KeyDirectoryQuery, map[string]any{
		KeyURI:      cloneStrings(uris),
		KeyInfinite: inf,
	})
}

// DirectoryOf is Directory with the flexible calling convention: a trailing
// bool argument sets infinite, and a single remaining slice argument is
// unwrapped, so DirectoryOf("a", "b", false) and
// DirectoryOf([]string{"a", "b"}, false) are equivalent.
func DirectoryOf(args ...any) Query {
	args = AsArray(args...)
	inf := true
	if n := len(args); n > 0 {
		if b, ok := args[n-1].(bool); ok {
			inf = b
			args = args[:n-1]
		}
	}
	if len(args) == 1 {
		args = AsArray(args[0])
	}
	return Directory(toStrings(args), inf)
}

// DocumentFragment constrains q to document fragments.
func DocumentFragment(q Query) Query {
	return Query{KeyDocumentFragmentQuery: q}
}

// PropertiesFragment constrains q to properties fragments.
func PropertiesFragment(q Query) Query {
	return Query{KeyPropertiesFragmentQuery: q}
}

// LocksFragment constrains q to document locks.
func LocksFragment(q Query) Query {
	return Query{KeyLocksFragmentQuery: q}
}

func cloneQueries(qs []Query) []Query {
	return append([]Query{}, qs...)
}

func cloneStrings(ss []string) []string {
	return append([]string{}, ss...)
}
