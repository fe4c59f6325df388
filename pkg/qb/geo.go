package qb

import (
	"maps"
	"slices"
)

// Point is a geospatial point.
type Point struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Box is a geospatial bounding box.
type Box struct {
	South float64 `json:"south" yaml:"south"`
	West  float64 `json:"west" yaml:"west"`
	North float64 `json:"north" yaml:"north"`
	East  float64 `json:"east" yaml:"east"`
}

// Circle is a geospatial circle around Point.
type Circle struct {
	Radius float64 `json:"radius" yaml:"radius"`
	Point  Point   `json:"point" yaml:"point"`
}

// Polygon is a geospatial polygon given by its vertices.
type Polygon struct {
	Point []Point `json:"point" yaml:"point"`
}

// GeoValues groups geospatial shapes by kind. All four buckets are always
// present on the wire, possibly empty.
type GeoValues struct {
	Point   []any `json:"point"`
	Box     []any `json:"box"`
	Circle  []any `json:"circle"`
	Polygon []any `json:"polygon"`
}

// Fields returns the buckets keyed by their wire names.
func (g GeoValues) Fields() map[string]any {
	return map[string]any{
		"point":   append([]any{}, g.Point...),
		"box":     append([]any{}, g.Box...),
		"circle":  append([]any{}, g.Circle...),
		"polygon": append([]any{}, g.Polygon...),
	}
}

// GeospatialValues classifies shapes into point, box, circle and polygon
// buckets. Shapes may be Point, Box, Circle, Polygon (or pointers to them) or
// maps using the wire field names, including Query and CustomFields. Maps are
// checked for "latitude", "south", "radius" and "point", in that order.
// Shapes matching none are dropped.
func GeospatialValues(shapes ...any) GeoValues {
	g := GeoValues{Point: []any{}, Box: []any{}, Circle: []any{}, Polygon: []any{}}
	for _, s := range AsArray(shapes...) {
		switch v := s.(type) {
		case Point:
			g.Point = append(g.Point, v)
		case *Point:
			if v != nil {
				g.Point = append(g.Point, *v)
			}
		case Box:
			g.Box = append(g.Box, v)
		case *Box:
			if v != nil {
				g.Box = append(g.Box, *v)
			}
		case Circle:
			g.Circle = append(g.Circle, v)
		case *Circle:
			if v != nil {
				g.Circle = append(g.Circle, *v)
			}
		case Polygon:
			g.Polygon = append(g.Polygon, Polygon{Point: slices.Clone(v.Point)})
		case *Polygon:
			if v != nil {
				g.Polygon = append(g.Polygon, Polygon{Point: slices.Clone(v.Point)})
			}
		case map[string]any, Query, CustomFields:
			if m, ok := fieldsOf(v); ok {
				g.addShape(m)
			}
		}
	}
	return g
}

func (g *GeoValues) addShape(shape map[string]any) {
	has := func(key string) bool {
		_, ok := shape[key]
		return ok
	}
	switch {
	case has("latitude"):
		g.Point = append(g.Point, maps.Clone(shape))
	case has("south"):
		g.Box = append(g.Box, maps.Clone(shape))
	case has("radius"):
		g.Circle = append(g.Circle, maps.Clone(shape))
	case has("point"):
		g.Polygon = append(g.Polygon, maps.Clone(shape))
	}
}

// GeospatialConstraint builds a geospatial-constraint-query from shapes, see
// GeospatialValues.
func GeospatialConstraint(name string, shapes ...any) Query {
	body := GeospatialValues(shapes...).Fields()
	body[KeyConstraintName] = name
	return node(KeyGeospatialConstraintQuery, body)
}
