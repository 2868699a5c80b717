package om

import (
	"github.com/shopspring/decimal"
	"github.com/twpayne/go-geom"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/swe"
)

// ValueKind names the kind of a Value for logs and error messages.
type ValueKind string

// Value kinds.
const (
	KindQuantity  ValueKind = "Quantity"
	KindCount     ValueKind = "Count"
	KindBoolean   ValueKind = "Boolean"
	KindCategory  ValueKind = "Category"
	KindText      ValueKind = "Text"
	KindGeometry  ValueKind = "Geometry"
	KindReference ValueKind = "Reference"
	KindComplex   ValueKind = "Complex"
	KindSweArray  ValueKind = "SweDataArray"
	KindTVP       ValueKind = "TVP"
	KindTLVT      ValueKind = "TLVT"
	KindUnknown   ValueKind = "Unknown"
)

// Value is the result of an observation.
type Value interface {
	Kind() ValueKind
	isValue()
}

// QuantityValue is a measurement with a unit of measure.
type QuantityValue struct {
	Value decimal.Decimal
	UOM   string
}

// NewQuantity returns a quantity from a float.
func NewQuantity(v float64, uom string) *QuantityValue {
	return &QuantityValue{Value: decimal.NewFromFloat(v), UOM: uom}
}

// CountValue is an integer count.
type CountValue struct {
	Value int64
}

// BooleanValue is a truth value.
type BooleanValue struct {
	Value bool
}

// CategoryValue is a term from a code space.
type CategoryValue struct {
	Value     string
	CodeSpace string
}

// TextValue is free text.
type TextValue struct {
	Value string
}

// GeometryValue is a geometry result.
type GeometryValue struct {
	Geometry geom.T
}

// ReferenceValue is a result given by reference.
type ReferenceValue struct {
	Reference gml.ReferenceType
}

// ComplexValue is a record of named components.
type ComplexValue struct {
	Record swe.DataRecord
}

// SweDataArrayValue is a block of encoded values described by a record.
type SweDataArrayValue struct {
	Array swe.DataArray
}

// TimeValuePair is one point of a time series.
type TimeValuePair struct {
	Time  gml.Time
	Value Value
}

// TVPValue is a time series of time-value pairs.
type TVPValue struct {
	Points []TimeValuePair
}

// TimeLocationValueTriple is one point of a moving-sensor series.
type TimeLocationValueTriple struct {
	Time     gml.Time
	Location geom.T
	Value    Value
}

// TLVTValue is a series of time-location-value triples.
type TLVTValue struct {
	Points []TimeLocationValueTriple
}

// UnknownValue wraps a value of a kind the model does not describe.
type UnknownValue struct {
	Raw any
}

func (*QuantityValue) Kind() ValueKind     { return KindQuantity }
func (*CountValue) Kind() ValueKind        { return KindCount }
func (*BooleanValue) Kind() ValueKind      { return KindBoolean }
func (*CategoryValue) Kind() ValueKind     { return KindCategory }
func (*TextValue) Kind() ValueKind         { return KindText }
func (*GeometryValue) Kind() ValueKind     { return KindGeometry }
func (*ReferenceValue) Kind() ValueKind    { return KindReference }
func (*ComplexValue) Kind() ValueKind      { return KindComplex }
func (*SweDataArrayValue) Kind() ValueKind { return KindSweArray }
func (*TVPValue) Kind() ValueKind          { return KindTVP }
func (*TLVTValue) Kind() ValueKind         { return KindTLVT }
func (*UnknownValue) Kind() ValueKind      { return KindUnknown }

func (*QuantityValue) isValue()     {}
func (*CountValue) isValue()        {}
func (*BooleanValue) isValue()      {}
func (*CategoryValue) isValue()     {}
func (*TextValue) isValue()         {}
func (*GeometryValue) isValue()     {}
func (*ReferenceValue) isValue()    {}
func (*ComplexValue) isValue()      {}
func (*SweDataArrayValue) isValue() {}
func (*TVPValue) isValue()          {}
func (*TLVTValue) isValue()         {}
func (*UnknownValue) isValue()      {}
