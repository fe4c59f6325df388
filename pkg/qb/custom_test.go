package qb

import (
	"reflect"
	"testing"
)

func TestCustomConstraint_Text(t *testing.T) {
	q := CustomConstraint("name", CustomText{"blah", "blue"})
	want := Query{KeyCustomConstraintQuery: map[string]any{
		KeyConstraintName: "name",
		KeyText:           []any{"blah", "blue"},
	}}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("CustomConstraint = %v, want %v", q, want)
	}

	if got := CustomConstraint("name", nil).Body()[KeyText]; !reflect.DeepEqual(got, []any{}) {
		t.Errorf("nil input text = %#v, want []", got)
	}
}

func TestCustomConstraint_Fields(t *testing.T) {
	q := CustomConstraint("name", CustomFields{"foo": "bar", KeyConstraintName: "other"})
	want := Query{KeyCustomConstraintQuery: map[string]any{
		KeyConstraintName: "name",
		"foo":             "bar",
	}}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("CustomConstraint = %v, want %v", q, want)
	}
}

func TestCustomConstraint_Geo(t *testing.T) {
	geo := GeospatialValues(Point{Latitude: 1, Longitude: 2})
	q := CustomConstraint("name", geo)
	body := q.Body()
	if !reflect.DeepEqual(body["point"], []any{Point{Latitude: 1, Longitude: 2}}) {
		t.Errorf("point = %v", body["point"])
	}
	for _, k := range []string{"box", "circle", "polygon"} {
		if !reflect.DeepEqual(body[k], []any{}) {
			t.Errorf("%s = %#v, want []", k, body[k])
		}
	}
}

func TestCustomConstraintOf(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want map[string]any
	}{
		{
			name: "no args",
			want: map[string]any{KeyText: []any{}},
		},
		{
			name: "single text",
			args: []any{"blah"},
			want: map[string]any{KeyText: []any{"blah"}},
		},
		{
			name: "text slice",
			args: []any{[]string{"blah", "blue"}},
			want: map[string]any{KeyText: []any{"blah", "blue"}},
		},
		{
			name: "numbers",
			args: []any{1, 2},
			want: map[string]any{KeyText: []any{1, 2}},
		},
		{
			name: "single object",
			args: []any{map[string]any{"foo": "bar"}},
			want: map[string]any{"foo": "bar"},
		},
		{
			name: "objects merge later wins",
			args: []any{
				map[string]any{"foo": "bar", "a": 1},
				map[string]any{"foo": "baz"},
			},
			want: map[string]any{"foo": "baz", "a": 1},
		},
		{
			name: "mixed keeps text",
			args: []any{"blah", map[string]any{"foo": "bar"}},
			want: map[string]any{KeyText: []any{"blah"}},
		},
		{
			name: "object cannot override name",
			args: []any{map[string]any{KeyConstraintName: "other"}},
			want: map[string]any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := CustomConstraintOf("name", tt.args...)
			want := map[string]any{KeyConstraintName: "name"}
			for k, v := range tt.want {
				want[k] = v
			}
			if got := q[KeyCustomConstraintQuery]; !reflect.DeepEqual(got, want) {
				t.Errorf("custom-constraint-query = %v, want %v", got, want)
			}
		})
	}
}

func TestCustomConstraintOf_GeoMatchesGeospatialShape(t *testing.T) {
	shapes := []any{
		Point{Latitude: 1, Longitude: 2},
		Box{South: 1, West: 2, North: 3, East: 4},
	}
	custom := CustomConstraintOf("name", GeospatialValues(shapes...))
	geo := GeospatialConstraint("name", shapes...)

	if !reflect.DeepEqual(custom.Body(), geo.Body()) {
		t.Errorf("custom body %v differs from geospatial body %v", custom.Body(), geo.Body())
	}
}

func TestCustomConstraintOf_DoesNotAliasInput(t *testing.T) {
	in := map[string]any{"foo": "bar"}
	q := CustomConstraintOf("name", in)
	in["foo"] = "changed"
	if q.Body()["foo"] != "bar" {
		t.Errorf("custom body aliased input: %v", q.Body()["foo"])
	}
}
