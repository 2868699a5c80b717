package swe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEncoding_SplitJoin(t *testing.T) {
	t.Parallel()

	enc := DefaultTextEncoding()
	rows := enc.Split("a,1#b,2#")
	assert.Equal(t, [][]string{{"a", "1"}, {"b", "2"}}, rows)
	assert.Equal(t, "a,1#b,2", enc.Join(rows))
	assert.Nil(t, enc.Split(""))
}

func TestDataRecord_Lookup(t *testing.T) {
	t.Parallel()

	r := &DataRecord{Fields: []Field{
		{Name: "time", Element: &Time{Common: Common{Definition: "def:time"}}},
		{Name: "temp", Element: &Quantity{Common: Common{Definition: "def:temp"}}},
	}}

	f, ok := r.FieldByDefinition("def:temp")
	require.True(t, ok)
	assert.Equal(t, "temp", f.Name)

	_, ok = r.FieldByDefinition("def:none")
	assert.False(t, ok)

	assert.Equal(t, 0, r.FieldIndex("time"))
	assert.Equal(t, -1, r.FieldIndex("none"))
}

func TestDataArray_Validate(t *testing.T) {
	t.Parallel()

	record := &DataRecord{Fields: []Field{{Name: "a", Element: &Text{}}, {Name: "b", Element: &Count{}}}}

	ok := &DataArray{ElementType: record, Values: [][]string{{"x", "1"}}}
	require.NoError(t, ok.Validate())
	assert.Equal(t, 1, ok.ElementCount())

	short := &DataArray{ElementType: record, Values: [][]string{{"x"}}}
	assert.True(t, errors.Is(short.Validate(), ErrInvalidBlock))

	missing := &DataArray{}
	assert.True(t, errors.Is(missing.Validate(), ErrInvalidBlock))
}

func TestIsSimple(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSimple((&Quantity{}).Type()))
	assert.True(t, IsSimple(TypeCategory))
	assert.False(t, IsSimple((&DataRecord{}).Type()))
	assert.False(t, IsSimple(TypeDataArray))
}
