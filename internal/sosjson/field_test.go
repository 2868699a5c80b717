package sosjson

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub013/internal/swe"
)

func TestEncodeField(t *testing.T) {
	t.Parallel()

	ts := time.Date(2012, 11, 19, 13, 0, 0, 0, time.UTC)
	common := swe.Common{Definition: "http://example.org/def"}

	tests := []struct {
		name  string
		field swe.Field
		want  string
	}{
		{
			name:  "boolean",
			field: swe.Field{Name: "b", Element: &swe.Boolean{Common: common, Value: swe.Ptr(true)}},
			want:  `{"name":"b","type":"boolean","definition":"http://example.org/def","value":true}`,
		},
		{
			name:  "count without value",
			field: swe.Field{Name: "c", Element: &swe.Count{Common: common}},
			want:  `{"name":"c","type":"count","definition":"http://example.org/def"}`,
		},
		{
			name: "count range",
			field: swe.Field{Name: "cr", Element: &swe.CountRange{
				Value: &swe.Range[int64]{Start: 1, End: 5},
			}},
			want: `{"name":"cr","type":"countRange","value":[1,5]}`,
		},
		{
			name: "quantity",
			field: swe.Field{Name: "q", Element: &swe.Quantity{
				Common: swe.Common{Label: "Temperature"},
				UOM:    "degC",
				Value:  swe.Ptr(21.0),
			}},
			want: `{"name":"q","type":"quantity","label":"Temperature","uom":"degC","value":21.0}`,
		},
		{
			name: "quantity range",
			field: swe.Field{Name: "qr", Element: &swe.QuantityRange{
				UOM:   "m",
				Value: &swe.Range[float64]{Start: 0.5, End: 2},
			}},
			want: `{"name":"qr","type":"quantityRange","uom":"m","value":[0.5,2.0]}`,
		},
		{
			name:  "time",
			field: swe.Field{Name: "t", Element: &swe.Time{UOM: ISO8601UOM, Value: &ts}},
			want:  `{"name":"t","type":"time","uom":"` + ISO8601UOM + `","value":"2012-11-19T13:00:00.000Z"}`,
		},
		{
			name: "time range",
			field: swe.Field{Name: "tr", Element: &swe.TimeRange{
				Value: &swe.Range[time.Time]{Start: ts, End: ts.Add(time.Hour)},
			}},
			want: `{"name":"tr","type":"timeRange","value":["2012-11-19T13:00:00.000Z","2012-11-19T14:00:00.000Z"]}`,
		},
		{
			name:  "category",
			field: swe.Field{Name: "cat", Element: &swe.Category{CodeSpace: "http://cs", Value: swe.Ptr("sunny")}},
			want:  `{"name":"cat","type":"category","codespace":"http://cs","value":"sunny"}`,
		},
		{
			name:  "text",
			field: swe.Field{Name: "txt", Element: &swe.Text{Common: swe.Common{Description: "note"}, Value: swe.Ptr("x")}},
			want:  `{"name":"txt","type":"text","description":"note","value":"x"}`,
		},
		{
			name:  "observable property",
			field: swe.Field{Name: "op", Element: &swe.ObservableProperty{Common: swe.Common{Identifier: "id"}}},
			want:  `{"name":"op","type":"observableProperty","identifier":"id"}`,
		},
	}

	enc := NewEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obj, err := enc.EncodeField(tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, marshal(t, obj))
		})
	}
}

func TestEncodeField_Unsupported(t *testing.T) {
	t.Parallel()

	enc := NewEncoder()

	_, err := enc.EncodeField(swe.Field{Name: "rec", Element: &swe.DataRecord{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))

	var unsupportedErr *UnsupportedError
	require.ErrorAs(t, err, &unsupportedErr)
	assert.Equal(t, "dataRecord", unsupportedErr.Kind)

	_, err = enc.EncodeField(swe.Field{Name: "nil"})
	assert.True(t, errors.Is(err, ErrUnsupported))
}
