package qb

import (
	"reflect"
	"testing"
)

func TestWhere(t *testing.T) {
	q := Where()
	queries, ok := q[KeyQuery].(map[string]any)[KeyQueries].([]Query)
	if !ok {
		t.Fatalf("where queries has type %T", q[KeyQuery].(map[string]any)[KeyQueries])
	}
	if len(queries) != 0 {
		t.Errorf("len(queries) = %d, want 0", len(queries))
	}

	q = Where(And())
	queries = q[KeyQuery].(map[string]any)[KeyQueries].([]Query)
	if len(queries) != 1 {
		t.Errorf("len(queries) = %d, want 1", len(queries))
	}
}

func TestAndOr(t *testing.T) {
	sub := []Query{Term("blah"), Term("blue"), Document("/a.json")}

	for _, tt := range []struct {
		key string
		fn  func(...Query) Query
	}{
		{KeyAndQuery, And},
		{KeyOrQuery, Or},
	} {
		t.Run(tt.key, func(t *testing.T) {
			empty := tt.fn()
			if got := empty[tt.key].(map[string]any)[KeyQueries]; !reflect.DeepEqual(got, []Query{}) {
				t.Errorf("empty %s queries = %#v, want []", tt.key, got)
			}

			q := tt.fn(sub...)
			got := q[tt.key].(map[string]any)[KeyQueries]
			if !reflect.DeepEqual(got, sub) {
				t.Errorf("%s queries = %v, want %v", tt.key, got, sub)
			}
		})
	}
}

func TestAnd_DoesNotAliasInput(t *testing.T) {
	sub := []Query{Term("a"), Term("b")}
	q := And(sub...)
	sub[0] = Term("changed")

	got := q[KeyAndQuery].(map[string]any)[KeyQueries].([]Query)
	if !reflect.DeepEqual(got[0], Term("a")) {
		t.Errorf("and-query aliased its input: %v", got[0])
	}
}

func TestNot(t *testing.T) {
	q := Not(Term("blah"))
	inner, ok := q[KeyNotQuery].(Query)
	if !ok {
		t.Fatalf("not-query body has type %T", q[KeyNotQuery])
	}
	text := inner[KeyTermQuery].(map[string]any)[KeyText].([]string)
	if text[0] != "blah" {
		t.Errorf("text[0] = %q, want blah", text[0])
	}
}

func TestBoost(t *testing.T) {
	q := Boost(And(), Term("blah"))
	body := q[KeyBoostQuery].(map[string]any)
	if !reflect.DeepEqual(body[KeyMatchingQuery], And()) {
		t.Errorf("matching-query = %v, want and-query", body[KeyMatchingQuery])
	}
	if !reflect.DeepEqual(body[KeyBoostingQuery], Term("blah")) {
		t.Errorf("boosting-query = %v, want term-query", body[KeyBoostingQuery])
	}
}

func TestTerm(t *testing.T) {
	q := Term("foo", "bar")
	want := Query{KeyTermQuery: map[string]any{KeyText: []string{"foo", "bar"}}}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("Term = %v, want %v", q, want)
	}
	if got := Term()[KeyTermQuery].(map[string]any)[KeyText]; !reflect.DeepEqual(got, []string{}) {
		t.Errorf("empty Term text = %#v, want []", got)
	}
}

func TestDocumentAndCollection(t *testing.T) {
	uris := []string{"uri1", "uri2"}

	doc := Document(uris...)
	if got := doc[KeyDocumentQuery].(map[string]any)[KeyURI]; !reflect.DeepEqual(got, uris) {
		t.Errorf("document-query uri = %v, want %v", got, uris)
	}

	col := Collection(uris...)
	if got := col[KeyCollectionQuery].(map[string]any)[KeyURI]; !reflect.DeepEqual(got, uris) {
		t.Errorf("collection-query uri = %v, want %v", got, uris)
	}
	if !reflect.DeepEqual(Collection("uri1", "uri2"), Collection(uris...)) {
		t.Error("spread and slice forms of Collection differ")
	}
}

func TestDirectory(t *testing.T) {
	tests := []struct {
		name string
		got  Query
		uris []string
		inf  bool
	}{
		{"one uri", Directory([]string{"uri"}), []string{"uri"}, true},
		{"explicit false", Directory([]string{"uri1", "uri2"}, false), []string{"uri1", "uri2"}, false},
		{"of spread with bool", DirectoryOf("a", "b", false), []string{"a", "b"}, false},
		{"of slice", DirectoryOf([]string{"a", "b"}), []string{"a", "b"}, true},
		{"of slice with bool", DirectoryOf([]string{"uri1", "uri2"}, false), []string{"uri1", "uri2"}, false},
		{"of single", DirectoryOf("uri"), []string{"uri"}, true},
		{"of true", DirectoryOf("uri", true), []string{"uri"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := map[string]any{KeyURI: tt.uris, KeyInfinite: tt.inf}
			if got := tt.got[KeyDirectoryQuery]; !reflect.DeepEqual(got, want) {
				t.Errorf("directory-query = %v, want %v", got, want)
			}
		})
	}
}

func TestFragments(t *testing.T) {
	for _, tt := range []struct {
		key string
		fn  func(Query) Query
	}{
		{KeyDocumentFragmentQuery, DocumentFragment},
		{KeyPropertiesFragmentQuery, PropertiesFragment},
		{KeyLocksFragmentQuery, LocksFragment},
	} {
		q := tt.fn(And())
		if len(q) != 1 {
			t.Errorf("%s: len = %d, want 1", tt.key, len(q))
		}
		if !reflect.DeepEqual(q[tt.key], And()) {
			t.Errorf("%s = %v, want and-query", tt.key, q[tt.key])
		}
	}
}

func TestCombinators_Idempotent(t *testing.T) {
	build := func() Query {
		return Where(
			Or(Term("a"), Not(Collection("c"))),
			Boost(Document("/d"), DirectoryOf("/dir/", false)),
		)
	}
	if !reflect.DeepEqual(build(), build()) {
		t.Error("identical calls produced different queries")
	}
}
