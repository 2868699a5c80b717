package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/om"
	"github.com/52North/SOS-sub013/internal/sensorml"
	"github.com/52North/SOS-sub013/internal/swe"
)

const (
	procedure1 = "http://www.52north.org/test/procedure/1"
	procedure2 = "http://www.52north.org/test/procedure/2"
	offering1  = "http://www.52north.org/test/offering/1"
	offering2  = "http://www.52north.org/test/offering/2"
	property1  = "http://www.52north.org/test/observableProperty/1"
	property2  = "http://www.52north.org/test/observableProperty/2"
	feature1   = "http://www.52north.org/test/featureOfInterest/1"
	feature2   = "http://www.52north.org/test/featureOfInterest/2"
	feature3   = "http://www.52north.org/test/featureOfInterest/3"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)

	assert.Equal(t, 4326, c.SRID())
	assert.Equal(t, []string{procedure1, procedure2}, c.ProcedureIDs())
	assert.Equal(t, []string{feature1, feature2, feature3}, c.FeatureIDs())
	assert.Equal(t, []string{offering1, offering2}, c.OfferingIDs())
	assert.True(t, c.HasOffering(offering1))
	assert.False(t, c.HasOffering("nope"))
	assert.True(t, c.HasObservedProperty(property2))

	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestCatalog_Procedure(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)

	d, ok := c.Procedure(procedure1)
	require.True(t, ok)
	assert.Equal(t, "Air temperature sensor on the roof", d.Description)
	assert.Equal(t, []string{"temperature", "roof"}, d.Keywords)
	require.NotNil(t, d.ValidTime)
	assert.Equal(t, 2012, d.ValidTime.Start.Value.Year())

	p, ok := d.Position.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, 4326, p.SRID())

	require.Len(t, d.Outputs, 1)
	q, ok := d.Outputs[0].Element.(*swe.Quantity)
	require.True(t, ok)
	assert.Equal(t, "degC", q.UOM)

	f, ok := c.OutputFor(property2)
	require.True(t, ok)
	assert.Equal(t, swe.TypeCategory, f.Element.Type())

	_, ok = c.Procedure("nope")
	assert.False(t, ok)

	_, err := sensorml.Marshal(d, "http://www.opengis.net/def/crs/EPSG/0/")
	assert.NoError(t, err)
}

func TestCatalog_Feature(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)

	tests := []struct {
		id          string
		featureType string
		layout      geom.Layout
	}{
		{id: feature1, featureType: om.FeatureTypeSamplingPoint, layout: geom.XY},
		{id: feature2, featureType: om.FeatureTypeSamplingPoint, layout: geom.XY},
		{id: feature3, featureType: om.FeatureTypeSamplingCurve, layout: geom.XY},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			f, ok := c.Feature(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.featureType, f.FeatureType)
			require.NotNil(t, f.Geometry)
			assert.Equal(t, tt.layout, f.Geometry.Layout())
			assert.Equal(t, 4326, f.Geometry.SRID())
		})
	}

	f, _ := c.Feature(feature2)
	assert.Equal(t, []float64{7.5, 52.0}, f.Geometry.FlatCoords())
}

func TestCatalog_ObservationValues(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)
	all := c.Observations(Filter{})
	require.Len(t, all, 4)

	q, ok := all[0].Value.(*om.QuantityValue)
	require.True(t, ok)
	assert.Equal(t, "1.20", q.Value.String(), "decimal scale is kept")
	require.NotNil(t, all[0].Identifier)
	assert.Equal(t, "http://www.52north.org/test/observation/1", all[0].Identifier.Value)
	require.NotNil(t, all[0].ResultTime)
	assert.Equal(t, 5, all[0].ResultTime.Value.Minute())

	tvp, ok := all[2].Value.(*om.TVPValue)
	require.True(t, ok)
	require.Len(t, tvp.Points, 2)
	assert.IsType(t, &om.QuantityValue{}, tvp.Points[1].Value)

	cat, ok := all[3].Value.(*om.CategoryValue)
	require.True(t, ok)
	assert.Equal(t, "online", cat.Value)
	require.Len(t, all[3].Parameters, 1)
	assert.IsType(t, &om.TextValue{}, all[3].Parameters[0].Value)
	assert.Equal(t, procedure2, all[3].Procedure, "procedure defaults to the offering's")
}

func TestCatalog_Observations(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)
	t13 := time.Date(2012, 11, 19, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "all", filter: Filter{}, want: 4},
		{name: "offering", filter: Filter{Offerings: []string{offering2}}, want: 1},
		{name: "procedure", filter: Filter{Procedures: []string{procedure1}}, want: 3},
		{name: "property", filter: Filter{ObservedProperties: []string{property1, property2}}, want: 4},
		{name: "feature", filter: Filter{Features: []string{feature2}}, want: 2},
		{name: "unknown feature", filter: Filter{Features: []string{"nope"}}, want: 0},
		{
			name:   "instant period",
			filter: Filter{PhenomenonTime: &gml.TimePeriod{Start: gml.NewTimeInstant(t13), End: gml.NewTimeInstant(t13)}},
			want:   1,
		},
		{
			name:   "overlapping series",
			filter: Filter{PhenomenonTime: ptr(gml.NewTimePeriod(t13.Add(150*time.Minute), t13.Add(24*time.Hour)))},
			want:   2,
		},
		{
			name:   "bbox around feature 2",
			filter: Filter{BBox: &gml.Envelope{LowerLeft: [2]float64{7.4, 51.9}, UpperRight: [2]float64{7.6, 52.1}, SRID: 4326}},
			want:   3,
		},
		{
			name:   "bbox far away",
			filter: Filter{BBox: &gml.Envelope{LowerLeft: [2]float64{0, 0}, UpperRight: [2]float64{1, 1}, SRID: 4326}},
			want:   0,
		},
		{
			name:   "combined",
			filter: Filter{Offerings: []string{offering1}, Features: []string{feature1}},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Len(t, c.Observations(tt.filter), tt.want)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestCatalog_Features(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)

	ids := func(fs []om.Feature) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = f.FeatureIdentifier().Value
		}
		return out
	}

	assert.Equal(t, []string{feature1, feature2, feature3}, ids(c.Features(Filter{})))
	assert.Equal(t, []string{feature1}, ids(c.Features(Filter{Features: []string{feature1, feature1, "nope"}})))
	assert.Equal(t, []string{feature1, feature2}, ids(c.Features(Filter{Offerings: []string{offering1}})))
	assert.Empty(t, c.Features(Filter{Procedures: []string{"nope"}}))
}

func TestCatalog_Offerings(t *testing.T) {
	t.Parallel()

	c := loadTestCatalog(t)
	offerings := c.Offerings()
	require.Len(t, offerings, 2)

	o := offerings[0]
	assert.Equal(t, offering1, o.Identifier)
	assert.Equal(t, []string{procedure1}, o.Procedures)
	assert.Equal(t, []string{property1}, o.ObservableProperties)
	assert.Equal(t, []string{om.ObservationTypeMeasurement}, o.ObservationTypes)
	assert.Equal(t, []string{om.FeatureTypeSamplingPoint}, o.FeatureOfInterestTypes)
	assert.Equal(t, []string{sensorml.Format}, o.ProcedureDescriptionFormats)
	require.Len(t, o.RelatedFeatures, 2)
	assert.Equal(t, feature1, o.RelatedFeatures[0].Feature)

	require.NotNil(t, o.ObservedArea)
	assert.Equal(t, [2]float64{7.5, 51.883906}, o.ObservedArea.LowerLeft)
	assert.Equal(t, [2]float64{7.727958, 52.0}, o.ObservedArea.UpperRight)
	assert.Equal(t, 4326, o.ObservedArea.SRID)

	require.NotNil(t, o.PhenomenonTime)
	assert.Equal(t, 13, o.PhenomenonTime.Start.Value.Hour())
	assert.Equal(t, 17, o.PhenomenonTime.End.Value.Hour())
	require.NotNil(t, o.ResultTime)
	assert.Equal(t, 5, o.ResultTime.Start.Value.Minute())
	assert.Equal(t, 17, o.ResultTime.End.Value.Hour())

	assert.Equal(t, "Status offering", offerings[1].Names[0].Value)
	assert.Equal(t, []string{om.FeatureTypeSamplingCurve}, offerings[1].FeatureOfInterestTypes)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	const base = `
procedures:
  - id: p
features:
  - id: f
    geometry: POINT(1 2)
offerings:
  - id: o
    procedure: p
`
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed yaml", doc: "procedures: [:"},
		{name: "procedure without id", doc: "procedures:\n  - description: x\n"},
		{name: "duplicate procedure", doc: "procedures:\n  - id: p\n  - id: p\n"},
		{name: "bad output type", doc: "procedures:\n  - id: p\n    outputs:\n      - name: x\n        type: blob\n"},
		{name: "bad wkt", doc: "features:\n  - id: f\n    geometry: POINT(1\n"},
		{name: "bad geojson", doc: "features:\n  - id: f\n    geometry:\n      type: Blob\n"},
		{name: "offering with unknown procedure", doc: "offerings:\n  - id: o\n    procedure: p\n"},
		{name: "unknown offering", doc: base + "observations:\n  - offering: x\n    observedProperty: op\n    feature: f\n    phenomenonTime: 2012-11-19T13:00:00Z\n"},
		{name: "unknown feature", doc: base + "observations:\n  - offering: o\n    observedProperty: op\n    feature: x\n    phenomenonTime: 2012-11-19T13:00:00Z\n"},
		{name: "bad time", doc: base + "observations:\n  - offering: o\n    observedProperty: op\n    feature: f\n    phenomenonTime: noon\n"},
		{name: "bad quantity", doc: base + "observations:\n  - offering: o\n    observedProperty: op\n    feature: f\n    phenomenonTime: 2012-11-19T13:00:00Z\n    result: {value: abc, uom: m}\n"},
		{name: "declared type mismatch", doc: base + "observations:\n  - offering: o\n    observedProperty: op\n    feature: f\n    type: http://www.opengis.net/def/observationType/OGC-OM/2.0/OM_TruthObservation\n    phenomenonTime: 2012-11-19T13:00:00Z\n    result: {value: abc}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog), "got %v", err)
		})
	}
}

func TestParse_GeometryResultAndReference(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(`
srid: 31467
procedures:
  - id: p
features:
  - id: f
    geometry: POLYGON((0 0, 1 0, 1 1, 0 0))
offerings:
  - id: o
    procedure: p
observations:
  - offering: o
    observedProperty: op
    feature: f
    phenomenonTime: 2012-11-19T13:00:00Z
    result: {type: geometry, value: "POINT(3 4)"}
  - offering: o
    observedProperty: op2
    feature: f
    phenomenonTime: 2012-11-19T13:00:00Z
    result: {type: reference, value: "http://example.org/doc", title: Doc}
`))
	require.NoError(t, err)

	obs := c.Observations(Filter{})
	require.Len(t, obs, 2)
	g := obs[0].Value.(*om.GeometryValue)
	assert.Equal(t, 31467, g.Geometry.SRID())
	ref := obs[1].Value.(*om.ReferenceValue)
	assert.Equal(t, "Doc", ref.Reference.Title)

	f, _ := c.Feature("f")
	assert.Equal(t, om.FeatureTypeSamplingSurface, f.FeatureType)
}
