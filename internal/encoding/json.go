package encoding

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/52North/SOS-sub013/internal/config"
)

// JSONOptions configures the JSON codec.
type JSONOptions struct {
	PrettyPrint bool
	Indent      string
}

type jsonCodec struct {
	opts JSONOptions
}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec(opts JSONOptions) Codec {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return &jsonCodec{opts: opts}
}

// Encode encodes the value to JSON bytes. HTML characters are not escaped
// since documents carry embedded XML.
func (c *jsonCodec) Encode(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, ErrNilValue
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if c.opts.PrettyPrint {
		encoder.SetIndent("", c.opts.Indent)
	}

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode decodes JSON bytes into the value.
func (c *jsonCodec) Decode(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}

	return nil
}

// ContentType returns the JSON content type.
func (c *jsonCodec) ContentType() string {
	return config.ContentTypeJSON
}

// MarshalJSON is a convenience function for JSON marshaling.
func MarshalJSON(v interface{}, pretty bool) ([]byte, error) {
	return NewJSONCodec(JSONOptions{PrettyPrint: pretty}).Encode(v)
}
