package sosjson

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Node is a value in a JSON document.
type Node interface {
	appendJSON(dst []byte) ([]byte, error)
}

// Object is a JSON object that keeps its keys in insertion order.
type Object struct {
	keys   []string
	values map[string]Node
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Node)}
}

// Put sets key to v. Replacing an existing key keeps its position.
func (o *Object) Put(key string, v Node) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// PutString sets key to the string s.
func (o *Object) PutString(key, s string) *Object {
	return o.Put(key, String(s))
}

// PutStringIfSet sets key to s unless s is empty.
func (o *Object) PutStringIfSet(key, s string) *Object {
	if s != "" {
		o.Put(key, String(s))
	}
	return o
}

// PutObject adds a new empty object under key and returns it.
func (o *Object) PutObject(key string) *Object {
	child := NewObject()
	o.Put(key, child)
	return child
}

// PutArray adds a new empty array under key and returns it.
func (o *Object) PutArray(key string) *Array {
	child := NewArray()
	o.Put(key, child)
	return child
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Node, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	return o.appendJSON(nil)
}

func (o *Object) appendJSON(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	for i, k := range o.keys {
		if i > 0 {
			dst = append(dst, ',')
		}
		var err error
		if dst, err = appendString(dst, k); err != nil {
			return nil, err
		}
		dst = append(dst, ':')
		if dst, err = appendNode(dst, o.values[k]); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

// Array is a JSON array.
type Array struct {
	items []Node
}

// NewArray returns an array holding items.
func NewArray(items ...Node) *Array {
	return &Array{items: items}
}

// Add appends v.
func (a *Array) Add(v Node) *Array {
	a.items = append(a.items, v)
	return a
}

// AddObject appends a new empty object and returns it.
func (a *Array) AddObject() *Object {
	child := NewObject()
	a.items = append(a.items, child)
	return child
}

// AddArray appends a new empty array and returns it.
func (a *Array) AddArray() *Array {
	child := NewArray()
	a.items = append(a.items, child)
	return child
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns item i.
func (a *Array) At(i int) Node {
	return a.items[i]
}

// MarshalJSON implements json.Marshaler.
func (a *Array) MarshalJSON() ([]byte, error) {
	return a.appendJSON(nil)
}

func (a *Array) appendJSON(dst []byte) ([]byte, error) {
	dst = append(dst, '[')
	for i, item := range a.items {
		if i > 0 {
			dst = append(dst, ',')
		}
		var err error
		if dst, err = appendNode(dst, item); err != nil {
			return nil, err
		}
	}
	return append(dst, ']'), nil
}

// String is a JSON string.
type String string

func (s String) appendJSON(dst []byte) ([]byte, error) {
	return appendString(dst, string(s))
}

// Bool is a JSON boolean.
type Bool bool

func (b Bool) appendJSON(dst []byte) ([]byte, error) {
	return strconv.AppendBool(dst, bool(b)), nil
}

// Int is a JSON integer.
type Int int64

func (i Int) appendJSON(dst []byte) ([]byte, error) {
	return strconv.AppendInt(dst, int64(i), 10), nil
}

// Double is a floating point number. It is always written with a decimal
// point ("52.0") and in scientific notation outside [1e-3, 1e7), the way
// the JSON binding has always rendered doubles. NaN and infinities have no
// JSON representation and are written as null.
type Double float64

func (d Double) appendJSON(dst []byte) ([]byte, error) {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...), nil
	}
	return append(dst, FormatDouble(f)...), nil
}

// Number is a decimal number written verbatim. The text must be a valid
// JSON number.
type Number string

func (n Number) appendJSON(dst []byte) ([]byte, error) {
	return append(dst, n...), nil
}

type null struct{}

func (null) appendJSON(dst []byte) ([]byte, error) {
	return append(dst, "null"...), nil
}

// Null is the JSON null value.
var Null Node = null{}

// FormatDouble formats f with at least one fractional digit, switching to
// scientific notation ("1.0E7") for magnitudes outside [1e-3, 1e7).
func FormatDouble(f float64) string {
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	if abs := math.Abs(f); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'E', -1, 64), "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

func appendNode(dst []byte, n Node) ([]byte, error) {
	if n == nil {
		return append(dst, "null"...), nil
	}
	return n.appendJSON(dst)
}

func appendString(dst []byte, s string) ([]byte, error) {
	quoted, err := json.MarshalNoEscape(s)
	if err != nil {
		return nil, err
	}
	return append(dst, quoted...), nil
}

// Strings returns an array of strings.
func Strings(values []string) *Array {
	a := &Array{items: make([]Node, len(values))}
	for i, v := range values {
		a.items[i] = String(v)
	}
	return a
}

// Collapse applies the singleton collapse rule: nil for no value, the value
// itself for one, and an array for two or more.
func Collapse(nodes []Node) Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	default:
		return NewArray(nodes...)
	}
}

// putCollapsed puts the collapsed nodes under key, omitting the key when
// there is no value.
func putCollapsed(o *Object, key string, nodes []Node) {
	if n := Collapse(nodes); n != nil {
		o.Put(key, n)
	}
}

// putCollapsedStrings is putCollapsed for plain strings.
func putCollapsedStrings(o *Object, key string, values []string) {
	putCollapsed(o, key, stringNodes(values))
}

func stringNodes(values []string) []Node {
	nodes := make([]Node, len(values))
	for i, v := range values {
		nodes[i] = String(v)
	}
	return nodes
}

// putStrings puts values as an array under key unless values is empty.
func putStrings(o *Object, key string, values []string) {
	if len(values) > 0 {
		o.Put(key, Strings(values))
	}
}
