package sosjson

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/om"
	"github.com/52North/SOS-sub013/internal/swe"
)

var (
	t0 = time.Date(2012, 11, 19, 13, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func quantity(t *testing.T, s, uom string) *om.QuantityValue {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &om.QuantityValue{Value: d, UOM: uom}
}

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value func(t *testing.T) om.Value
		want  string
	}{
		{
			name:  "quantity keeps scale",
			value: func(t *testing.T) om.Value { return quantity(t, "52.0", "degC") },
			want:  `{"uom":"degC","value":52.0}`,
		},
		{
			name:  "count",
			value: func(*testing.T) om.Value { return &om.CountValue{Value: 42} },
			want:  `42`,
		},
		{
			name:  "boolean",
			value: func(*testing.T) om.Value { return &om.BooleanValue{Value: true} },
			want:  `true`,
		},
		{
			name:  "category with codespace",
			value: func(*testing.T) om.Value { return &om.CategoryValue{Value: "sunny", CodeSpace: "http://cs"} },
			want:  `{"codespace":"http://cs","value":"sunny"}`,
		},
		{
			name: "category with unknown codespace",
			value: func(*testing.T) om.Value {
				return &om.CategoryValue{Value: "sunny", CodeSpace: gml.UnknownCodeSpace}
			},
			want: `"sunny"`,
		},
		{
			name:  "text",
			value: func(*testing.T) om.Value { return &om.TextValue{Value: "hello"} },
			want:  `"hello"`,
		},
		{
			name: "reference",
			value: func(*testing.T) om.Value {
				return &om.ReferenceValue{Reference: gml.ReferenceType{Href: "http://r", Title: "R"}}
			},
			want: `{"href":"http://r","title":"R"}`,
		},
		{
			name: "complex",
			value: func(*testing.T) om.Value {
				return &om.ComplexValue{Record: swe.DataRecord{Fields: []swe.Field{
					{Name: "n", Element: &swe.Count{Value: swe.Ptr(int64(3))}},
				}}}
			},
			want: `[{"name":"n","type":"count","value":3}]`,
		},
	}

	enc := NewEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := enc.EncodeValue(tt.value(t), "http://example.org/temp")
			require.NoError(t, err)
			assert.Equal(t, tt.want, marshal(t, n))
		})
	}
}

func TestEncodeValue_Unsupported(t *testing.T) {
	t.Parallel()

	enc := NewEncoder()
	for _, v := range []om.Value{
		&om.TLVTValue{},
		&om.UnknownValue{Raw: struct{}{}},
		nil,
	} {
		n, err := enc.EncodeValue(v, "")
		require.Error(t, err)
		assert.Nil(t, n)
		assert.True(t, errors.Is(err, ErrUnsupported))
	}
}

func TestEncodeValue_DataArray(t *testing.T) {
	t.Parallel()

	record := &swe.DataRecord{Fields: []swe.Field{
		{Name: "time", Element: &swe.Time{UOM: ISO8601UOM}},
		{Name: "temp", Element: &swe.Quantity{UOM: "degC"}},
		{Name: "ok", Element: &swe.Boolean{}},
		{Name: "range", Element: &swe.CountRange{}},
	}}

	t.Run("converts tokens", func(t *testing.T) {
		t.Parallel()

		v := &om.SweDataArrayValue{Array: swe.DataArray{
			ElementType: record,
			Encoding:    swe.TextEncoding{TokenSeparator: ";", BlockSeparator: "@", DecimalSeparator: ","},
			Values: [][]string{
				{"2012-11-19T13:00:00Z", "21,50", "true", "1/3"},
				{"2012-11-19T14:00:00Z", "", "false", "2/4"},
			},
		}}

		n, err := NewEncoder().EncodeValue(v, "")
		require.NoError(t, err)

		obj := n.(*Object)
		values, ok := obj.Get(keyValues)
		require.True(t, ok)
		assert.Equal(t,
			`[["2012-11-19T13:00:00.000Z",21.50,true,[1,3]],["2012-11-19T14:00:00.000Z",null,false,[2,4]]]`,
			marshal(t, values))

		fields, ok := obj.Get(keyFields)
		require.True(t, ok)
		assert.Equal(t, 4, fields.(*Array).Len())
	})

	t.Run("NaN quantity", func(t *testing.T) {
		t.Parallel()

		v := &om.SweDataArrayValue{Array: swe.DataArray{
			ElementType: &swe.DataRecord{Fields: []swe.Field{
				{Name: "temp", Element: &swe.Quantity{UOM: "degC"}},
			}},
			Encoding: swe.DefaultTextEncoding(),
			Values:   [][]string{{"NaN"}, {"nan"}},
		}}

		n, err := NewEncoder().EncodeValue(v, "")
		require.NoError(t, err)

		values, ok := n.(*Object).Get(keyValues)
		require.True(t, ok)
		assert.Equal(t, `[[null],[null]]`, marshal(t, values))
	})

	t.Run("bad token", func(t *testing.T) {
		t.Parallel()

		v := &om.SweDataArrayValue{Array: swe.DataArray{
			ElementType: record,
			Encoding:    swe.DefaultTextEncoding(),
			Values: [][]string{
				{"2012-11-19T13:00:00Z", "1.5", "true", "1/3"},
				{"2012-11-19T14:00:00Z", "abc", "false", "2/4"},
			},
		}}

		_, err := NewEncoder().EncodeValue(v, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidToken))

		var tokenErr *TokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.Equal(t, 1, tokenErr.Row)
		assert.Equal(t, 1, tokenErr.Column)
		assert.Equal(t, "temp", tokenErr.Field)
		assert.Equal(t, "abc", tokenErr.Token)
	})

	t.Run("bad range", func(t *testing.T) {
		t.Parallel()

		v := &om.SweDataArrayValue{Array: swe.DataArray{
			ElementType: record,
			Encoding:    swe.DefaultTextEncoding(),
			Values:      [][]string{{"2012-11-19T13:00:00Z", "1.5", "true", "13"}},
		}}

		_, err := NewEncoder().EncodeValue(v, "")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("short row", func(t *testing.T) {
		t.Parallel()

		v := &om.SweDataArrayValue{Array: swe.DataArray{
			ElementType: record,
			Encoding:    swe.DefaultTextEncoding(),
			Values:      [][]string{{"2012-11-19T13:00:00Z"}},
		}}

		_, err := NewEncoder().EncodeValue(v, "")
		assert.True(t, errors.Is(err, swe.ErrInvalidBlock))
	})
}

func TestEncodeValue_TimeSeries(t *testing.T) {
	t.Parallel()

	v := &om.TVPValue{Points: []om.TimeValuePair{
		{Time: gml.NewTimeInstant(t0), Value: quantity(t, "1.5", "m")},
		{Time: gml.NewTimePeriod(t0, t1), Value: quantity(t, "2.25", "m")},
	}}

	n, err := NewEncoder().EncodeValue(v, "http://example.org/height")
	require.NoError(t, err)

	assert.Equal(t,
		`{"fields":[`+
			`{"name":"phenomenonTime","type":"time","definition":"`+PhenomenonTimeDefinition+`","uom":"`+ISO8601UOM+`"},`+
			`{"name":"value","type":"quantity","definition":"http://example.org/height","uom":"m"}],`+
			`"values":[["2012-11-19T13:00:00.000Z",1.5],["2012-11-19T13:00:00.000Z/2012-11-19T14:00:00.000Z",2.25]]}`,
		marshal(t, n))

	mixed := &om.TVPValue{Points: []om.TimeValuePair{
		{Time: gml.NewTimeInstant(t0), Value: &om.CountValue{Value: 1}},
		{Time: gml.NewTimeInstant(t1), Value: &om.TextValue{Value: "x"}},
	}}
	_, err = NewEncoder().EncodeValue(mixed, "")
	assert.True(t, errors.Is(err, ErrInvalidObservation))
}

func TestEncodeObservation(t *testing.T) {
	t.Parallel()

	foi := &om.SamplingFeature{
		Identifier:      gml.CodeWithAuthority{Value: "foi-1", CodeSpace: "http://cs"},
		Names:           []gml.CodeType{{Value: "Station"}},
		SampledFeatures: []string{"http://example.org/river"},
		Geometry:        point(t, 4326, 7.5, 52.0),
	}
	pt := gml.NewTimePeriod(t0, t1)
	obs := &om.Observation{
		Identifier:         &gml.CodeWithAuthority{Value: "o1"},
		Procedure:          "http://example.org/proc",
		ObservableProperty: "http://example.org/temp",
		FeatureOfInterest:  foi,
		Offerings:          []string{"off-1"},
		Parameters: []om.NamedValue{
			{Name: "depth", Value: quantity(t, "3", "m")},
		},
		PhenomenonTime: pt,
		Value:          quantity(t, "21.0", "degC"),
	}

	obj, err := NewEncoder().EncodeObservation(obs)
	require.NoError(t, err)

	assert.Equal(t, []string{
		keyType, keyIdentifier, keyProcedure, keyOffering, keyObservableProperty,
		keyFeatureOfInterest, keyParameter, keyPhenomenonTime, keyResultTime, keyResult,
	}, obj.Keys())
	assert.Equal(t,
		`{"type":"`+om.ObservationTypeMeasurement+`",`+
			`"identifier":"o1",`+
			`"procedure":"http://example.org/proc",`+
			`"offering":"off-1",`+
			`"observableProperty":"http://example.org/temp",`+
			`"featureOfInterest":{"identifier":{"codespace":"http://cs","value":"foi-1"},"name":"Station",`+
			`"sampledFeature":"http://example.org/river","geometry":{"type":"Point","coordinates":[7.5,52.0]}},`+
			`"parameter":{"name":"depth","value":{"uom":"m","value":3}},`+
			`"phenomenonTime":["2012-11-19T13:00:00.000Z","2012-11-19T14:00:00.000Z"],`+
			`"resultTime":"2012-11-19T14:00:00.000Z",`+
			`"result":{"uom":"degC","value":21.0}}`,
		marshal(t, obj))
}

func TestEncodeObservation_Collapse(t *testing.T) {
	t.Parallel()

	obs := &om.Observation{
		Offerings:         []string{"a", "b"},
		FeatureOfInterest: &om.FeatureReference{Identifier: gml.NewIdentifier("foi")},
		PhenomenonTime:    gml.NewTimeInstant(t0),
		Value:             &om.CountValue{Value: 1},
	}

	obj, err := NewEncoder().EncodeObservation(obs)
	require.NoError(t, err)

	offering, _ := obj.Get(keyOffering)
	assert.Equal(t, `["a","b"]`, marshal(t, offering))
	foi, _ := obj.Get(keyFeatureOfInterest)
	assert.Equal(t, `"foi"`, marshal(t, foi))
	assert.False(t, obj.Has(keyParameter))
	pt, _ := obj.Get(keyPhenomenonTime)
	assert.Equal(t, `"2012-11-19T13:00:00.000Z"`, marshal(t, pt))
}

func TestEncodeObservation_Errors(t *testing.T) {
	t.Parallel()

	enc := NewEncoder()

	_, err := enc.EncodeObservation(nil)
	assert.True(t, errors.Is(err, ErrInvalidObservation))

	_, err = enc.EncodeObservation(&om.Observation{
		Type:  om.ObservationTypeCount,
		Value: &om.TextValue{Value: "x"},
	})
	assert.True(t, errors.Is(err, ErrInvalidObservation))

	_, err = enc.EncodeObservation(&om.Observation{Value: &om.TLVTValue{}})
	assert.True(t, errors.Is(err, ErrUnsupported))
}
