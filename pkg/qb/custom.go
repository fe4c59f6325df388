package qb

// CustomInput is the body of a custom-constraint-query: CustomText,
// CustomFields or GeoValues.
type CustomInput interface {
	customInput()
}

// CustomText is a list of text values handed to the custom constraint.
type CustomText []string

// CustomFields are merged into the custom constraint body as is.
type CustomFields map[string]any

func (CustomText) customInput()   {}
func (CustomFields) customInput() {}
func (GeoValues) customInput()    {}

// CustomConstraint builds a custom-constraint-query. Text inputs are encoded
// under "text"; field inputs are shallow-merged into the body.
func CustomConstraint(name string, in CustomInput) Query {
	switch v := in.(type) {
	case CustomText:
		text := make([]any, len(v))
		for i, s := range v {
			text[i] = s
		}
		return customNode(name, map[string]any{KeyText: text})
	case CustomFields:
		return customNode(name, v)
	case GeoValues:
		return customNode(name, v.Fields())
	default:
		return customNode(name, map[string]any{KeyText: []any{}})
	}
}

// CustomConstraintOf builds a custom-constraint-query from loosely typed
// arguments. When every argument is object-like (a map, Query, CustomFields
// or GeoValues) the objects are shallow-merged into the body, later keys
// winning. Otherwise the non-object arguments become the "text" values and
// object arguments are dropped.
func CustomConstraintOf(name string, args ...any) Query {
	args = AsArray(args...)

	allObjects := len(args) > 0
	for _, a := range args {
		if !isObjectLike(a) {
			allObjects = false
			break
		}
	}

	if allObjects {
		merged := make(map[string]any)
		for _, a := range args {
			fields, _ := fieldsOf(a)
			for k, v := range fields {
				merged[k] = v
			}
		}
		return customNode(name, merged)
	}

	text := make([]any, 0, len(args))
	for _, a := range args {
		if !isObjectLike(a) {
			text = append(text, a)
		}
	}
	return customNode(name, map[string]any{KeyText: text})
}

// customNode copies fields into a fresh body. The constraint name always
// wins over a merged "constraint-name" field.
func customNode(name string, fields map[string]any) Query {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body[KeyConstraintName] = name
	return node(KeyCustomConstraintQuery, body)
}
