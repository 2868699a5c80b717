package encoding

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type xmlDoc struct {
	XMLName xml.Name `xml:"doc"`
	ID      string   `xml:"id,attr"`
	Name    string   `xml:"name"`
}

func TestXMLCodec(t *testing.T) {
	data, err := NewXMLCodec().Encode(xmlDoc{ID: "1", Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, xml.Header+"<doc id=\"1\">\n  <name>a</name>\n</doc>", string(data))

	fragment, err := NewXMLFragmentCodec().Encode(xmlDoc{ID: "2"})
	require.NoError(t, err)
	assert.Equal(t, `<doc id="2"><name></name></doc>`, string(fragment))

	var decoded xmlDoc
	require.NoError(t, NewXMLCodec().Decode(data, &decoded))
	assert.Equal(t, "a", decoded.Name)

	_, err = NewXMLCodec().Encode(nil)
	assert.ErrorIs(t, err, ErrNilValue)
	assert.ErrorIs(t, NewXMLCodec().Decode([]byte("<doc>"), &decoded), ErrDecodingFailed)
}
