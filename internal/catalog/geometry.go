package catalog

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/om"
)

// parseGeometry decodes a WKT string or a GeoJSON geometry object. An
// absent node yields a nil geometry.
func parseGeometry(node *yaml.Node, srid int) (geom.T, error) {
	var (
		g   geom.T
		err error
	)
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil, nil
		}
		g, err = wkt.Unmarshal(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid WKT: %w", node.Line, err)
		}
	case yaml.MappingNode:
		var obj map[string]any
		if err := node.Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		if err := geojson.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("line %d: invalid GeoJSON: %w", node.Line, err)
		}
	default:
		return nil, fmt.Errorf("line %d: geometry must be WKT or a GeoJSON object", node.Line)
	}
	return withSRID(g, srid)
}

func withSRID(g geom.T, srid int) (geom.T, error) {
	switch t := g.(type) {
	case *geom.Point:
		return t.SetSRID(srid), nil
	case *geom.LineString:
		return t.SetSRID(srid), nil
	case *geom.Polygon:
		return t.SetSRID(srid), nil
	case *geom.MultiPoint:
		return t.SetSRID(srid), nil
	case *geom.MultiLineString:
		return t.SetSRID(srid), nil
	case *geom.MultiPolygon:
		return t.SetSRID(srid), nil
	case *geom.GeometryCollection:
		return t.SetSRID(srid), nil
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
}

// featureType returns the sampling feature type matching the geometry.
func featureType(g geom.T) string {
	switch g.(type) {
	case *geom.Point, *geom.MultiPoint:
		return om.FeatureTypeSamplingPoint
	case *geom.LineString, *geom.MultiLineString:
		return om.FeatureTypeSamplingCurve
	case *geom.Polygon, *geom.MultiPolygon:
		return om.FeatureTypeSamplingSurface
	default:
		return ""
	}
}

// envelopeOf returns the 2D bounds of g.
func envelopeOf(g geom.T) *gml.Envelope {
	if g == nil {
		return nil
	}
	b := g.Bounds()
	env := gml.NewEnvelope(g.SRID())
	env.ExpandToInclude(b.Min(0), b.Min(1))
	env.ExpandToInclude(b.Max(0), b.Max(1))
	if env.IsEmpty() {
		return nil
	}
	return env
}
