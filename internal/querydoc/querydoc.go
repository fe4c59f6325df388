// Package querydoc reads structured queries written as YAML (or JSON)
// documents and builds them with package qb.
//
//	qtext: "free text"
//	options: {return-query: true}
//	query:
//	  and:
//	    - term: [a, b]
//	    - range: {name: date, operator: GT, values: ["2020-01-01"]}
//	    - not: {collection: [drafts]}
package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joemfb/ml-common-ng/pkg/qb"
	"gopkg.in/yaml.v3"
)

// ErrInvalidNode is returned for query nodes that cannot be built.
var ErrInvalidNode = errors.New("invalid query node")

// Document is a parsed query document.
type Document struct {
	QText   string         `yaml:"qtext"`
	Options map[string]any `yaml:"options"`
	// Query is a single query node, or a list of nodes combined by Where.
	Query yaml.Node `yaml:"query"`
}

// Parse decodes a query document. Unknown top-level keys are rejected.
func Parse(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("parse query document: %w", err)
	}
	return doc, nil
}

// ParseFile reads and decodes the query document at path.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the caller
	if err != nil {
		return Document{}, fmt.Errorf("read query document: %w", err)
	}
	return Parse(data)
}

// Structured builds the structured query, the value of the structuredQuery
// search parameter. It returns nil when the document has no query.
func (d Document) Structured() (qb.Query, error) {
	n := resolve(&d.Query)
	switch {
	case n.Kind == 0, n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		return nil, nil
	case n.Kind == yaml.SequenceNode:
		queries, err := buildList("query", n)
		if err != nil {
			return nil, err
		}
		return qb.Where(queries...), nil
	default:
		q, err := buildNode("query", n)
		if err != nil {
			return nil, err
		}
		return qb.Where(q), nil
	}
}

// Build assembles the combined query of the document.
func (d Document) Build() (qb.CombinedQuery, error) {
	q, err := d.Structured()
	if err != nil {
		return qb.CombinedQuery{}, err
	}
	return qb.Combined(q, d.QText, d.Options), nil
}

type constraintSpec struct {
	Name     string         `yaml:"name"`
	Operator string         `yaml:"operator"`
	Values   any            `yaml:"values"`
	Options  []string       `yaml:"options"`
	Fields   map[string]any `yaml:"fields"`
	Shapes   []any          `yaml:"shapes"`
}

type boostSpec struct {
	Matching yaml.Node `yaml:"matching"`
	Boosting yaml.Node `yaml:"boosting"`
}

type directorySpec struct {
	URIs     []string `yaml:"uris"`
	Infinite *bool    `yaml:"infinite"`
}

type operatorStateSpec struct {
	Operator string `yaml:"operator"`
	State    string `yaml:"state"`
}

func invalid(path, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", path, fmt.Sprintf(format, args...), ErrInvalidNode)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func buildList(path string, n *yaml.Node) ([]qb.Query, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(path, "expected a list of nodes")
	}
	out := make([]qb.Query, 0, len(n.Content))
	for i, child := range n.Content {
		q, err := buildNode(fmt.Sprintf("%s[%d]", path, i), child)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func buildNode(path string, n *yaml.Node) (qb.Query, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, invalid(path, "node must have exactly one key")
	}
	kind, body := n.Content[0].Value, resolve(n.Content[1])
	path += "." + kind

	switch kind {
	case "and", "or":
		queries, err := buildList(path, body)
		if err != nil {
			return nil, err
		}
		if kind == "and" {
			return qb.And(queries...), nil
		}
		return qb.Or(queries...), nil

	case "not", "document-fragment", "properties-fragment", "locks-fragment":
		inner, err := buildNode(path, body)
		if err != nil {
			return nil, err
		}
		return wrap(kind, inner), nil

	case "boost":
		var spec boostSpec
		if err := body.Decode(&spec); err != nil {
			return nil, invalid(path, "%v", err)
		}
		if spec.Matching.Kind == 0 || spec.Boosting.Kind == 0 {
			return nil, invalid(path, "matching and boosting are required")
		}
		matching, err := buildNode(path+".matching", &spec.Matching)
		if err != nil {
			return nil, err
		}
		boosting, err := buildNode(path+".boosting", &spec.Boosting)
		if err != nil {
			return nil, err
		}
		return qb.Boost(matching, boosting), nil

	case "term", "document", "collection":
		values, err := decodeStrings(path, body)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "term":
			return qb.Term(values...), nil
		case "document":
			return qb.Document(values...), nil
		default:
			return qb.Collection(values...), nil
		}

	case "directory":
		return buildDirectory(path, body)

	case "operator-state":
		var spec operatorStateSpec
		if err := body.Decode(&spec); err != nil {
			return nil, invalid(path, "%v", err)
		}
		if spec.Operator == "" || spec.State == "" {
			return nil, invalid(path, "operator and state are required")
		}
		return qb.OperatorState(spec.Operator, spec.State), nil

	case "range", "value", "word", "collection-constraint", "custom", "geospatial":
		return buildConstraint(path, kind, body)
	}
	return nil, invalid(path, "unknown node type %q", kind)
}

func buildConstraint(path, kind string, body *yaml.Node) (qb.Query, error) {
	var spec constraintSpec
	if err := body.Decode(&spec); err != nil {
		return nil, invalid(path, "%v", err)
	}
	if spec.Name == "" {
		return nil, invalid(path, "name is required")
	}

	switch kind {
	case "range":
		q, err := qb.RangeConstraint(spec.Name, qb.Operator(spec.Operator), spec.Values, spec.Options...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return q, nil
	case "value":
		return qb.ValueConstraintOf(spec.Name, spec.Values), nil
	case "word":
		return qb.WordConstraint(spec.Name, spec.Values), nil
	case "collection-constraint":
		return qb.CollectionConstraint(spec.Name, spec.Values), nil
	case "custom":
		if spec.Fields != nil {
			return qb.CustomConstraint(spec.Name, qb.CustomFields(spec.Fields)), nil
		}
		return qb.CustomConstraintOf(spec.Name, spec.Values), nil
	default:
		return qb.GeospatialConstraint(spec.Name, spec.Shapes...), nil
	}
}

func buildDirectory(path string, body *yaml.Node) (qb.Query, error) {
	if body.Kind != yaml.MappingNode {
		uris, err := decodeStrings(path, body)
		if err != nil {
			return nil, err
		}
		return qb.Directory(uris), nil
	}
	var spec directorySpec
	if err := body.Decode(&spec); err != nil {
		return nil, invalid(path, "%v", err)
	}
	if spec.Infinite != nil {
		return qb.Directory(spec.URIs, *spec.Infinite), nil
	}
	return qb.Directory(spec.URIs), nil
}

func decodeStrings(path string, body *yaml.Node) ([]string, error) {
	switch body.Kind {
	case yaml.ScalarNode:
		return []string{body.Value}, nil
	case yaml.SequenceNode:
		var out []string
		if err := body.Decode(&out); err != nil {
			return nil, invalid(path, "%v", err)
		}
		return out, nil
	default:
		return nil, invalid(path, "expected a string or a list of strings")
	}
}

func wrap(kind string, q qb.Query) qb.Query {
	switch kind {
	case "not":
		return qb.Not(q)
	case "document-fragment":
		return qb.DocumentFragment(q)
	case "properties-fragment":
		return qb.PropertiesFragment(q)
	default:
		return qb.LocksFragment(q)
	}
}
