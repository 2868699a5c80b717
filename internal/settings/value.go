package settings

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/ows"
)

// DefaultLanguage is the language of multilingual values given as a plain
// string.
var DefaultLanguage = language.English

// Value is a typed setting value. Raw holds the Go type documented on Type,
// or nil for an unset optional setting.
type Value struct {
	Key  string
	Type Type
	Raw  any
}

// String returns the stored representation of the value.
func (v Value) String() string {
	return FormatValue(v.Raw)
}

// NewValue returns a value for def after checking raw against it.
func NewValue(def Definition, raw any) (Value, error) {
	if err := Validate(def, raw); err != nil {
		return Value{}, err
	}
	return Value{Key: def.Key, Type: def.Type, Raw: raw}, nil
}

// ParseValue parses the stored or user supplied representation s of a
// value of def. A blank s means "unset" except for string types.
func ParseValue(def Definition, s string) (Value, error) {
	raw, err := parseRaw(def, s)
	if err != nil {
		return Value{}, err
	}
	return NewValue(def, raw)
}

func parseRaw(def Definition, s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" && def.Type != TypeString {
		return nil, nil
	}

	switch def.Type {
	case TypeBoolean:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, invalidValue(def.Key, "%q is not a boolean", s)
		}
		return b, nil
	case TypeInteger:
		i, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, invalidValue(def.Key, "%q is not an integer", s)
		}
		return i, nil
	case TypeNumeric:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, invalidValue(def.Key, "%q is not a number", s)
		}
		return f, nil
	case TypeString:
		return s, nil
	case TypeFile, TypeChoice:
		return trimmed, nil
	case TypeURI:
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, invalidValue(def.Key, "%q is not a URI: %v", s, err)
		}
		return u, nil
	case TypeTimeInstant:
		t, err := gml.ParseInstant(trimmed)
		if err != nil || t.Value.IsZero() {
			return nil, invalidValue(def.Key, "%q is not a time instant", s)
		}
		return t.Value, nil
	case TypeMultilingualString:
		return parseMultilingual(def.Key, trimmed)
	default:
		return nil, fmt.Errorf("%w: %s has unknown type %q", ErrTypeMismatch, def.Key, def.Type)
	}
}

// parseMultilingual accepts a plain string in DefaultLanguage or an object
// mapping language tags to texts. Key order is kept so that the first
// entry stays the default translation.
func parseMultilingual(key, s string) (ows.MultilingualString, error) {
	if !strings.HasPrefix(s, "{") {
		return ows.NewMultilingualString(DefaultLanguage, s), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return ows.MultilingualString{}, invalidValue(key, "malformed multilingual string: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return ows.MultilingualString{}, invalidValue(key, "multilingual string must be an object")
	}

	var m ows.MultilingualString
	content := doc.Content[0].Content
	for i := 0; i+1 < len(content); i += 2 {
		tag, err := language.Parse(content[i].Value)
		if err != nil {
			return ows.MultilingualString{}, invalidValue(key, "bad language %q", content[i].Value)
		}
		m.Set(tag, content[i+1].Value)
	}
	return m, nil
}

// FormatValue returns the representation of raw accepted by ParseValue.
func FormatValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case *url.URL:
		if v == nil {
			return ""
		}
		return v.String()
	case time.Time:
		return v.Format(gml.ISO8601Format)
	case ows.MultilingualString:
		return formatMultilingual(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatMultilingual(m ows.MultilingualString) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, _ := json.Marshal(e.Lang.String())
		v, _ := json.Marshal(e.Value)
		sb.Write(k)
		sb.WriteByte(':')
		sb.Write(v)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Validate checks that raw has the Go type of def and satisfies its
// constraints.
func Validate(def Definition, raw any) error {
	if raw == nil {
		if def.Optional {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrMissingValue, def.Key)
	}

	var ok bool
	switch def.Type {
	case TypeBoolean:
		_, ok = raw.(bool)
	case TypeInteger:
		_, ok = raw.(int64)
	case TypeNumeric:
		_, ok = raw.(float64)
	case TypeString, TypeFile:
		_, ok = raw.(string)
	case TypeURI:
		var u *url.URL
		u, ok = raw.(*url.URL)
		if ok && u == nil {
			return validateNil(def)
		}
	case TypeTimeInstant:
		_, ok = raw.(time.Time)
	case TypeMultilingualString:
		_, ok = raw.(ows.MultilingualString)
	case TypeChoice:
		var s string
		if s, ok = raw.(string); ok && !slices.Contains(def.Options, s) {
			return invalidValue(def.Key, "%q is not one of %v", s, def.Options)
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s is %s, got %T", ErrTypeMismatch, def.Key, def.Type, raw)
	}
	return nil
}

func validateNil(def Definition) error {
	if def.Optional {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingValue, def.Key)
}

// Equal reports whether two raw values are the same setting value.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *url.URL:
		y, ok := b.(*url.URL)
		if !ok {
			return x == nil && b == nil
		}
		if x == nil || y == nil {
			return x == y
		}
		return x.String() == y.String()
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case ows.MultilingualString:
		y, ok := b.(ows.MultilingualString)
		return ok && slices.Equal(x.Entries(), y.Entries())
	case nil:
		if u, ok := b.(*url.URL); ok {
			return u == nil
		}
		return b == nil
	case bool, int64, float64, string:
		return a == b
	default:
		return false
	}
}
