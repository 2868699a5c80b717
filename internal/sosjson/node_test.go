package sosjson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, n Node) string {
	t.Helper()
	b, err := appendNode(nil, n)
	require.NoError(t, err)
	return string(b)
}

func TestFormatDouble(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{52.0, "52.0"},
		{7.5, "7.5"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{-3.25, "-3.25"},
		{0.001, "0.001"},
		{0.0001, "1.0E-4"},
		{1e7, "1.0E7"},
		{9999999.5, "9999999.5"},
		{123456789.0, "1.23456789E8"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDouble(tt.in))
		})
	}
}

func TestDouble_NonFinite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", marshal(t, Double(math.NaN())))
	assert.Equal(t, "null", marshal(t, Double(math.Inf(1))))
	assert.Equal(t, "null", marshal(t, Double(math.Inf(-1))))
}

func TestObject_KeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	obj := NewObject()
	obj.PutString("z", "last?")
	obj.Put("a", Int(1))
	obj.PutStringIfSet("skipped", "")
	obj.PutObject("nested").Put("flag", Bool(true))
	obj.PutArray("list").Add(Null).Add(Number("1.50"))
	obj.PutString("z", "first")

	assert.Equal(t, []string{"z", "a", "nested", "list"}, obj.Keys())
	assert.Equal(t, 4, obj.Len())
	assert.False(t, obj.Has("skipped"))
	assert.Equal(t,
		`{"z":"first","a":1,"nested":{"flag":true},"list":[null,1.50]}`,
		marshal(t, obj))
}

func TestString_Escaping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a\"b\\c\n"`, marshal(t, String("a\"b\\c\n")))
	assert.Equal(t, `"<sml:PhysicalSystem>"`, marshal(t, String("<sml:PhysicalSystem>")))
}

func TestCollapse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		nodes []Node
		want  string
	}{
		{name: "none", nodes: nil, want: ""},
		{name: "one", nodes: []Node{String("a")}, want: `"a"`},
		{name: "two", nodes: []Node{String("a"), String("b")}, want: `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obj := NewObject()
			putCollapsed(obj, "k", tt.nodes)
			if tt.want == "" {
				assert.False(t, obj.Has("k"))
				assert.Nil(t, Collapse(tt.nodes))
				return
			}
			v, ok := obj.Get("k")
			require.True(t, ok)
			assert.Equal(t, tt.want, marshal(t, v))
		})
	}
}

func TestObject_MarshalJSON(t *testing.T) {
	t.Parallel()

	obj := NewObject()
	obj.Put("values", Strings([]string{"x", "y"}))

	b, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"values":["x","y"]}`, string(b))

	a := NewArray(Int(1), Double(2))
	b, err = a.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `[1,2.0]`, string(b))
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, Int(1), a.At(0))
}
