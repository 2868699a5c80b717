package sosjson

import (
	"time"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/swe"
)

// EncodeField encodes a simple SWE field with its metadata and value.
func (e *Encoder) EncodeField(f swe.Field) (*Object, error) {
	if f.Element == nil {
		return nil, unsupported("field", "nil")
	}

	obj := NewObject()
	obj.PutString(keyName, f.Name)

	switch c := f.Element.(type) {
	case *swe.Boolean:
		putComponentHeader(obj, c.Type(), c.Common)
		if c.Value != nil {
			obj.Put(keyValue, Bool(*c.Value))
		}
	case *swe.Count:
		putComponentHeader(obj, c.Type(), c.Common)
		if c.Value != nil {
			obj.Put(keyValue, Int(*c.Value))
		}
	case *swe.CountRange:
		putComponentHeader(obj, c.Type(), c.Common)
		if c.Value != nil {
			obj.Put(keyValue, NewArray(Int(c.Value.Start), Int(c.Value.End)))
		}
	case *swe.ObservableProperty:
		putComponentHeader(obj, c.Type(), c.Common)
	case *swe.Text:
		putComponentHeader(obj, c.Type(), c.Common)
		if c.Value != nil {
			obj.PutString(keyValue, *c.Value)
		}
	case *swe.Quantity:
		putComponentHeader(obj, c.Type(), c.Common)
		obj.PutStringIfSet(keyUOM, c.UOM)
		if c.Value != nil {
			obj.Put(keyValue, Double(*c.Value))
		}
	case *swe.QuantityRange:
		putComponentHeader(obj, c.Type(), c.Common)
		obj.PutStringIfSet(keyUOM, c.UOM)
		if c.Value != nil {
			obj.Put(keyValue, NewArray(Double(c.Value.Start), Double(c.Value.End)))
		}
	case *swe.Time:
		putComponentHeader(obj, c.Type(), c.Common)
		obj.PutStringIfSet(keyUOM, c.UOM)
		if c.Value != nil {
			obj.Put(keyValue, timeString(*c.Value))
		}
	case *swe.TimeRange:
		putComponentHeader(obj, c.Type(), c.Common)
		obj.PutStringIfSet(keyUOM, c.UOM)
		if c.Value != nil {
			obj.Put(keyValue, NewArray(timeString(c.Value.Start), timeString(c.Value.End)))
		}
	case *swe.Category:
		putComponentHeader(obj, c.Type(), c.Common)
		obj.PutStringIfSet(keyCodespace, c.CodeSpace)
		if c.Value != nil {
			obj.PutString(keyValue, *c.Value)
		}
	default:
		return nil, unsupported("field", f.Element.Type())
	}
	return obj, nil
}

// EncodeFields encodes the fields of a record as an array.
func (e *Encoder) EncodeFields(fields []swe.Field) (*Array, error) {
	a := NewArray()
	for _, f := range fields {
		encoded, err := e.EncodeField(f)
		if err != nil {
			return nil, err
		}
		a.Add(encoded)
	}
	return a, nil
}

func putComponentHeader(obj *Object, t swe.SimpleType, c swe.Common) {
	obj.PutString(keyType, string(t))
	obj.PutStringIfSet(keyDefinition, c.Definition)
	obj.PutStringIfSet(keyDescription, c.Description)
	obj.PutStringIfSet(keyIdentifier, c.Identifier)
	obj.PutStringIfSet(keyLabel, c.Label)
}

func timeString(t time.Time) String {
	return String(t.Format(gml.ISO8601Format))
}
