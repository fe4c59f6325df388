package qb

// ValueKind names the typed value field of a value-constraint-query.
type ValueKind string

// Value kinds and the wire field each one is encoded under.
const (
	KindText    ValueKind = "text"
	KindNumber  ValueKind = "number"
	KindBoolean ValueKind = "boolean"
	KindNull    ValueKind = "null"
)

// Values is a homogeneous list of constraint values tagged with their kind.
type Values struct {
	kind   ValueKind
	values []any
}

// TextValues tags string values.
func TextValues(values ...string) Values {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return Values{kind: KindText, values: out}
}

// NumberValues tags numeric values.
func NumberValues(values ...float64) Values {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return Values{kind: KindNumber, values: out}
}

// BoolValues tags boolean values.
func BoolValues(values ...bool) Values {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return Values{kind: KindBoolean, values: out}
}

// NullValues matches a JSON null value.
func NullValues() Values {
	return Values{kind: KindNull, values: []any{}}
}

// Kind returns the value kind; the zero Values is text.
func (v Values) Kind() ValueKind {
	if v.kind == "" {
		return KindText
	}
	return v.kind
}

// List returns a copy of the values.
func (v Values) List() []any {
	return append([]any{}, v.values...)
}

// ValueConstraint builds a value-constraint-query, placing the values under
// the field named by their kind.
func ValueConstraint(name string, v Values) Query {
	return node(KeyValueConstraintQuery, map[string]any{
		KeyConstraintName: name,
		string(v.Kind()):  v.List(),
	})
}

// ValueConstraintOf infers the value kind from the Go type of the first
// value: strings are text, numbers are number, bools are boolean, and a nil
// values argument (not an empty slice) is null. Values are expected to be
// homogeneous; the kind of a mixed list follows its first element.
func ValueConstraintOf(name string, values any) Query {
	if values == nil {
		return ValueConstraint(name, NullValues())
	}
	list := AsArray(values)
	kind := KindText
	if len(list) > 0 {
		kind = kindOf(list[0])
	}
	return ValueConstraint(name, Values{kind: kind, values: list})
}

func kindOf(v any) ValueKind {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindNumber
	case bool:
		return KindBoolean
	default:
		return KindText
	}
}
