package sensorml

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/swe"
)

const srsPrefix = "http://www.opengis.net/def/crs/EPSG/0/"

func TestMarshal(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2012, 11, 19, 13, 0, 0, 0, time.UTC)
	vt := gml.NewTimePeriod(t0, t0.Add(time.Hour))
	d := &Description{
		Identifier:  "http://example.org/proc",
		Names:       []gml.CodeType{{Value: "Thermometer", CodeSpace: "http://cs"}},
		Description: "air temperature",
		Keywords:    []string{"temperature"},
		ValidTime:   &vt,
		Outputs: []swe.Field{
			{Name: "temp", Element: &swe.Quantity{Common: swe.Common{Definition: "def:temp"}, UOM: "degC"}},
			{Name: "flag", Element: &swe.Boolean{Value: swe.Ptr(true)}},
		},
		Position: geom.NewPointFlat(geom.XY, []float64{7.5, 52}).SetSRID(4326),
	}

	out, err := Marshal(d, srsPrefix)
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "<?xml")
	assert.Contains(t, doc, `<sml:PhysicalSystem xmlns:sml="`+NamespaceSML+`"`)
	assert.Contains(t, doc, `<gml:identifier codeSpace="uniqueID">http://example.org/proc</gml:identifier>`)
	assert.Contains(t, doc, `<gml:name codeSpace="http://cs">Thermometer</gml:name>`)
	assert.Contains(t, doc, `<sml:keyword>temperature</sml:keyword>`)
	assert.Contains(t, doc, `<gml:beginPosition>2012-11-19T13:00:00.000Z</gml:beginPosition>`)
	assert.Contains(t, doc, `<sml:output name="temp"><swe:Quantity definition="def:temp"><swe:uom code="degC"></swe:uom></swe:Quantity></sml:output>`)
	assert.Contains(t, doc, `<swe:Boolean><swe:value>true</swe:value></swe:Boolean>`)
	assert.Contains(t, doc, `srsName="`+srsPrefix+`4326"`)
	assert.Contains(t, doc, `<gml:pos>7.5 52</gml:pos>`)

	again, err := Marshal(d, srsPrefix)
	require.NoError(t, err)
	assert.Equal(t, doc, string(again))
}

func TestMarshal_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		desc *Description
	}{
		{name: "nil", desc: nil},
		{name: "no identifier", desc: &Description{}},
		{name: "record output", desc: &Description{
			Identifier: "p",
			Outputs:    []swe.Field{{Name: "r", Element: &swe.DataRecord{}}},
		}},
		{name: "line position", desc: &Description{
			Identifier: "p",
			Position:   geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Marshal(tt.desc, srsPrefix)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported))
		})
	}
}
