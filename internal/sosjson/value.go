package sosjson

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/om"
	"github.com/52North/SOS-sub013/internal/swe"
)

// EncodeValue encodes an observation result or parameter value.
func (e *Encoder) EncodeValue(v om.Value, observedProperty string) (Node, error) {
	switch val := v.(type) {
	case *om.QuantityValue:
		obj := NewObject()
		obj.PutString(keyUOM, val.UOM)
		obj.Put(keyValue, decimalNode(val.Value))
		return obj, nil
	case *om.CountValue:
		return Int(val.Value), nil
	case *om.BooleanValue:
		return Bool(val.Value), nil
	case *om.CategoryValue:
		return encodeCode(val.Value, val.CodeSpace), nil
	case *om.TextValue:
		return String(val.Value), nil
	case *om.GeometryValue:
		return e.EncodeGeometry(val.Geometry)
	case *om.ReferenceValue:
		return encodeReference(val.Reference), nil
	case *om.ComplexValue:
		return e.EncodeFields(val.Record.Fields)
	case *om.SweDataArrayValue:
		return e.encodeDataArray(&val.Array)
	case *om.TVPValue:
		return e.encodeTimeSeries(val, observedProperty)
	case nil:
		return nil, unsupported("value", "nil")
	default:
		// TLVT and unknown values have no JSON mapping.
		return nil, unsupported("value", v.Kind())
	}
}

func (e *Encoder) encodeDataArray(a *swe.DataArray) (*Object, error) {
	if a.ElementType == nil {
		return nil, fmt.Errorf("%w: data array without element type", ErrInvalidObservation)
	}
	fields, err := e.EncodeFields(a.ElementType.Fields)
	if err != nil {
		return nil, err
	}
	values, err := convertBlocks(a.ElementType.Fields, a.Encoding, a.Values)
	if err != nil {
		return nil, err
	}

	obj := NewObject()
	obj.Put(keyFields, fields)
	obj.Put(keyValues, values)
	return obj, nil
}

// encodeTimeSeries writes a time series as a phenomenon time field, a value
// field inferred from the points and one [time, value] row per point.
func (e *Encoder) encodeTimeSeries(tvp *om.TVPValue, observedProperty string) (*Object, error) {
	valueField, err := inferValueField(tvp, observedProperty)
	if err != nil {
		return nil, err
	}
	timeField := swe.Field{
		Name: keyPhenomenonTime,
		Element: &swe.Time{
			Common: swe.Common{Definition: PhenomenonTimeDefinition},
			UOM:    ISO8601UOM,
		},
	}
	fields, err := e.EncodeFields([]swe.Field{timeField, valueField})
	if err != nil {
		return nil, err
	}

	values := NewArray()
	for i, p := range tvp.Points {
		token, err := timeSeriesToken(p.Value)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		values.Add(NewArray(seriesTime(p.Time), token))
	}

	obj := NewObject()
	obj.Put(keyFields, fields)
	obj.Put(keyValues, values)
	return obj, nil
}

// inferValueField derives the value field of a time series from the kind
// of its first point. All points must share that kind.
func inferValueField(tvp *om.TVPValue, observedProperty string) (swe.Field, error) {
	if len(tvp.Points) == 0 {
		return swe.Field{}, fmt.Errorf("%w: empty time series", ErrInvalidObservation)
	}
	first := tvp.Points[0].Value
	if first == nil {
		return swe.Field{}, unsupported("value", "nil")
	}
	for i, p := range tvp.Points[1:] {
		if p.Value == nil || p.Value.Kind() != first.Kind() {
			return swe.Field{}, fmt.Errorf("%w: point %d is not a %s", ErrInvalidObservation, i+1, first.Kind())
		}
	}

	common := swe.Common{Definition: observedProperty}
	var element swe.DataComponent
	switch v := first.(type) {
	case *om.QuantityValue:
		element = &swe.Quantity{Common: common, UOM: v.UOM}
	case *om.CountValue:
		element = &swe.Count{Common: common}
	case *om.BooleanValue:
		element = &swe.Boolean{Common: common}
	case *om.CategoryValue:
		element = &swe.Category{Common: common, CodeSpace: v.CodeSpace}
	case *om.TextValue:
		element = &swe.Text{Common: common}
	default:
		return swe.Field{}, unsupported("time series value", first.Kind())
	}
	return swe.Field{Name: keyValue, Element: element}, nil
}

func timeSeriesToken(v om.Value) (Node, error) {
	switch val := v.(type) {
	case *om.QuantityValue:
		return decimalNode(val.Value), nil
	case *om.CountValue:
		return Int(val.Value), nil
	case *om.BooleanValue:
		return Bool(val.Value), nil
	case *om.CategoryValue:
		return String(val.Value), nil
	case *om.TextValue:
		return String(val.Value), nil
	default:
		return nil, unsupported("time series value", v.Kind())
	}
}

// seriesTime writes the time of a series point: an instant as is and a
// period as an ISO-8601 interval.
func seriesTime(t gml.Time) Node {
	switch tt := t.(type) {
	case gml.TimeInstant:
		return String(tt.String())
	case gml.TimePeriod:
		return String(tt.Start.String() + "/" + tt.End.String())
	default:
		return Null
	}
}

// encodeTime writes an instant as a string and a period as [start, end].
func encodeTime(t gml.Time) Node {
	switch tt := t.(type) {
	case gml.TimeInstant:
		return String(tt.String())
	case *gml.TimeInstant:
		return String(tt.String())
	case gml.TimePeriod:
		return encodePeriod(tt)
	case *gml.TimePeriod:
		return encodePeriod(*tt)
	default:
		return nil
	}
}

func encodePeriod(p gml.TimePeriod) *Array {
	return NewArray(String(p.Start.String()), String(p.End.String()))
}

// encodeCode writes a term as {"codespace","value"} when it has a code
// space and as a plain string otherwise.
func encodeCode(value, codeSpace string) Node {
	if codeSpace == "" || codeSpace == gml.UnknownCodeSpace {
		return String(value)
	}
	obj := NewObject()
	obj.PutString(keyCodespace, codeSpace)
	obj.PutString(keyValue, value)
	return obj
}

func encodeIdentifier(id gml.CodeWithAuthority) Node {
	return encodeCode(id.Value, id.CodeSpace)
}

func encodeCodeType(c gml.CodeType) Node {
	return encodeCode(c.Value, c.CodeSpace)
}

func encodeCodeTypes(codes []gml.CodeType) []Node {
	nodes := make([]Node, len(codes))
	for i, c := range codes {
		nodes[i] = encodeCodeType(c)
	}
	return nodes
}

func encodeReference(r gml.ReferenceType) *Object {
	obj := NewObject()
	obj.PutString(keyHref, r.Href)
	obj.PutStringIfSet(keyTitle, r.Title)
	obj.PutStringIfSet(keyRole, r.Role)
	return obj
}

// decimalNode writes d keeping its scale, so 52.0 stays 52.0.
func decimalNode(d decimal.Decimal) Number {
	if exp := d.Exponent(); exp < 0 {
		return Number(d.StringFixed(-exp))
	}
	return Number(d.String())
}
