package swe

import "time"

// SimpleType is the tag identifying the kind of a component.
type SimpleType string

// Component kinds.
const (
	TypeBoolean            SimpleType = "boolean"
	TypeCount              SimpleType = "count"
	TypeCountRange         SimpleType = "countRange"
	TypeObservableProperty SimpleType = "observableProperty"
	TypeText               SimpleType = "text"
	TypeQuantity           SimpleType = "quantity"
	TypeQuantityRange      SimpleType = "quantityRange"
	TypeTime               SimpleType = "time"
	TypeTimeRange          SimpleType = "timeRange"
	TypeCategory           SimpleType = "category"
	TypeDataRecord         SimpleType = "dataRecord"
	TypeDataArray          SimpleType = "dataArray"
)

// Common carries the metadata shared by all components.
type Common struct {
	Definition  string
	Description string
	Identifier  string
	Label       string
}

// Metadata returns the shared metadata.
func (c Common) Metadata() Common {
	return c
}

// DataComponent is any SWE Common component.
type DataComponent interface {
	Metadata() Common
	Type() SimpleType
	dataComponent()
}

// Range is a closed [Start, End] interval.
type Range[T any] struct {
	Start T
	End   T
}

// Ptr returns a pointer to v. It keeps literal component values short.
func Ptr[T any](v T) *T {
	return &v
}

// Boolean is a swe:Boolean.
type Boolean struct {
	Common
	Value *bool
}

// Count is a swe:Count.
type Count struct {
	Common
	Value *int64
}

// CountRange is a swe:CountRange.
type CountRange struct {
	Common
	Value *Range[int64]
}

// Quantity is a swe:Quantity.
type Quantity struct {
	Common
	UOM   string
	Value *float64
}

// QuantityRange is a swe:QuantityRange.
type QuantityRange struct {
	Common
	UOM   string
	Value *Range[float64]
}

// Text is a swe:Text.
type Text struct {
	Common
	Value *string
}

// Category is a swe:Category.
type Category struct {
	Common
	CodeSpace string
	Value     *string
}

// Time is a swe:Time.
type Time struct {
	Common
	UOM   string
	Value *time.Time
}

// TimeRange is a swe:TimeRange.
type TimeRange struct {
	Common
	UOM   string
	Value *Range[time.Time]
}

// ObservableProperty is a component referencing an observed property by its
// definition only.
type ObservableProperty struct {
	Common
}

func (*Boolean) Type() SimpleType            { return TypeBoolean }
func (*Count) Type() SimpleType              { return TypeCount }
func (*CountRange) Type() SimpleType         { return TypeCountRange }
func (*Quantity) Type() SimpleType           { return TypeQuantity }
func (*QuantityRange) Type() SimpleType      { return TypeQuantityRange }
func (*Text) Type() SimpleType               { return TypeText }
func (*Category) Type() SimpleType           { return TypeCategory }
func (*Time) Type() SimpleType               { return TypeTime }
func (*TimeRange) Type() SimpleType          { return TypeTimeRange }
func (*ObservableProperty) Type() SimpleType { return TypeObservableProperty }
func (*DataRecord) Type() SimpleType         { return TypeDataRecord }
func (*DataArray) Type() SimpleType          { return TypeDataArray }

func (*Boolean) dataComponent()            {}
func (*Count) dataComponent()              {}
func (*CountRange) dataComponent()         {}
func (*Quantity) dataComponent()           {}
func (*QuantityRange) dataComponent()      {}
func (*Text) dataComponent()               {}
func (*Category) dataComponent()           {}
func (*Time) dataComponent()               {}
func (*TimeRange) dataComponent()          {}
func (*ObservableProperty) dataComponent() {}
func (*DataRecord) dataComponent()         {}
func (*DataArray) dataComponent()          {}

// IsSimple reports whether t is one of the simple (non aggregate) kinds.
func IsSimple(t SimpleType) bool {
	switch t {
	case TypeDataRecord, TypeDataArray:
		return false
	}
	return true
}
