package gml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope(t *testing.T) {
	t.Parallel()

	e := NewEnvelope(4326)
	assert.True(t, e.IsEmpty())

	e.ExpandToInclude(7.5, 52)
	assert.False(t, e.IsEmpty())
	e.ExpandToInclude(8, 51)
	assert.Equal(t, [2]float64{7.5, 51}, e.LowerLeft)
	assert.Equal(t, [2]float64{8, 52}, e.UpperRight)

	other := NewEnvelope(4326)
	other.ExpandToInclude(7.9, 51.9)
	other.ExpandToInclude(9, 53)
	assert.True(t, e.Intersects(other))

	far := NewEnvelope(4326)
	far.ExpandToInclude(20, 20)
	assert.False(t, e.Intersects(far))
	assert.False(t, e.Intersects(NewEnvelope(4326)))

	var nilEnvelope *Envelope
	assert.True(t, nilEnvelope.IsEmpty())
}

func TestCodeSpace(t *testing.T) {
	t.Parallel()

	assert.False(t, CodeType{Value: "x"}.IsSetCodeSpace())
	assert.False(t, CodeType{Value: "x", CodeSpace: UnknownCodeSpace}.IsSetCodeSpace())
	assert.True(t, CodeType{Value: "x", CodeSpace: "http://cs"}.IsSetCodeSpace())

	id := NewIdentifier("foi")
	assert.True(t, id.IsSet())
	assert.False(t, id.IsSetCodeSpace())
	assert.False(t, CodeWithAuthority{}.IsSet())
}
