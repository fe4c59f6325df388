package qb

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestWireFormat_Golden(t *testing.T) {
	tests := []struct {
		name  string
		build func() (any, error)
	}{
		{
			name: "where_and_not",
			build: func() (any, error) {
				return Where(And(Term("a", "b"), Not(Document("/d.json")))), nil
			},
		},
		{
			name: "range_constraint",
			build: func() (any, error) {
				return RangeConstraint("date", GT, "2020-01-01", "min-occurs=1")
			},
		},
		{
			name: "geospatial_constraint",
			build: func() (any, error) {
				return GeospatialConstraint("geo",
					Point{Latitude: 1, Longitude: 2},
					Box{South: 1, West: 2, North: 3, East: 4},
					map[string]any{"radius": 10, "point": map[string]any{"latitude": 4, "longitude": 5}},
				), nil
			},
		},
		{
			name: "operator_state_fragments",
			build: func() (any, error) {
				return And(
					OperatorState("sort", "date"),
					PropertiesFragment(CollectionConstraint("c", "x")),
					DirectoryOf("/a/", false),
				), nil
			},
		},
		{
			name: "combined",
			build: func() (any, error) {
				return Combined(
					Where(Boost(And(), Term("x"))),
					"blah",
					map[string]any{"return-query": true},
				), nil
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			g.Assert(t, tt.name, data)
		})
	}
}
