package settings

import (
	"net/url"
	"time"

	"github.com/52North/SOS-sub013/internal/ows"
)

// Type is the type of a setting. It determines the Go type of its values:
//
//	Boolean             bool
//	Integer             int64
//	Numeric             float64
//	String, File        string
//	URI                 *url.URL
//	TimeInstant         time.Time
//	MultilingualString  ows.MultilingualString
//	Choice              string, one of Definition.Options
type Type string

// Setting types.
const (
	TypeBoolean            Type = "BOOLEAN"
	TypeInteger            Type = "INTEGER"
	TypeNumeric            Type = "NUMERIC"
	TypeString             Type = "STRING"
	TypeFile               Type = "FILE"
	TypeURI                Type = "URI"
	TypeTimeInstant        Type = "TIMEINSTANT"
	TypeMultilingualString Type = "MULTILINGUALSTRING"
	TypeChoice             Type = "CHOICE"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeBoolean, TypeInteger, TypeNumeric, TypeString, TypeFile,
		TypeURI, TypeTimeInstant, TypeMultilingualString, TypeChoice:
		return true
	}
	return false
}

// ZeroValue returns the zero value of the Go type of t, or nil for an
// unknown type.
func ZeroValue(t Type) any {
	switch t {
	case TypeBoolean:
		return false
	case TypeInteger:
		return int64(0)
	case TypeNumeric:
		return float64(0)
	case TypeString, TypeFile, TypeChoice:
		return ""
	case TypeURI:
		return (*url.URL)(nil)
	case TypeTimeInstant:
		return time.Time{}
	case TypeMultilingualString:
		return ows.MultilingualString{}
	default:
		return nil
	}
}

// Definition describes a setting.
type Definition struct {
	Key         string   `json:"key" yaml:"key"`
	Type        Type     `json:"type" yaml:"type"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Group       string   `json:"group,omitempty" yaml:"group,omitempty"`
	Order       float64  `json:"order,omitempty" yaml:"order,omitempty"`
	Optional    bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Default     any      `json:"-" yaml:"-"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Group is a set of definitions shown together.
type Group struct {
	Key         string  `json:"key" yaml:"key"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Order       float64 `json:"order,omitempty" yaml:"order,omitempty"`
}

// Provider contributes setting definitions.
type Provider interface {
	Definitions() []Definition
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() []Definition

// Definitions calls f.
func (f ProviderFunc) Definitions() []Definition {
	return f()
}

// Definitions is a fixed list of definitions usable as a Provider.
type Definitions []Definition

// Definitions returns d.
func (d Definitions) Definitions() []Definition {
	return d
}
