package encoding

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/52North/SOS-sub013/internal/config"
)

type xmlCodec struct {
	header bool
	indent bool
}

// NewXMLCodec creates a new XML codec writing an indented document with an
// XML declaration.
func NewXMLCodec() Codec {
	return &xmlCodec{header: true, indent: true}
}

// NewXMLFragmentCodec creates an XML codec writing compact XML without
// declaration, used for documents embedded in other documents.
func NewXMLFragmentCodec() Codec {
	return &xmlCodec{}
}

// Encode encodes the value to XML bytes.
func (c *xmlCodec) Encode(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, ErrNilValue
	}

	var buf bytes.Buffer
	if c.header {
		buf.WriteString(xml.Header)
	}

	encoder := xml.NewEncoder(&buf)
	if c.indent {
		encoder.Indent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}

	return buf.Bytes(), nil
}

// Decode decodes XML bytes into the value.
func (c *xmlCodec) Decode(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}

	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}

	return nil
}

// ContentType returns the XML content type.
func (c *xmlCodec) ContentType() string {
	return config.ContentTypeXML
}
