package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarStrings(t *testing.T) {
	assert.Equal(t, "hello", Text("hello").String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "false", Bool(false).String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "", Absent().String())
}

func TestFloatFormatting(t *testing.T) {
	// Integral floats interpolate without a decimal point.
	assert.Equal(t, "69", Float(69.0).String())
	assert.Equal(t, "2.5", Float(2.5).String())
	assert.Equal(t, "-3", Float(-3.0).String())
}

func TestRecordFields(t *testing.T) {
	rec := Record(map[string]Value{
		"name":  Text("ada"),
		"admin": Bool(true),
	})

	assert.True(t, rec.IsRecord())
	assert.True(t, rec.Has("name"))
	assert.False(t, rec.Has("missing"))

	f, ok := rec.Field("admin")
	require.True(t, ok)
	assert.True(t, f.Bool())

	assert.Equal(t, []string{"admin", "name"}, rec.Fields())

	// Records have no textual representation of their own.
	assert.Equal(t, "", rec.String())
}

func TestNonRecordFieldAccess(t *testing.T) {
	assert.False(t, Text("x").Has("anything"))

	_, ok := Text("x").Field("anything")
	assert.False(t, ok)
}

func TestCallable(t *testing.T) {
	v := Callable(func(body string) (string, error) {
		return "[" + body + "]", nil
	})

	out, err := v.Call("inner")
	require.NoError(t, err)
	assert.Equal(t, "[inner]", out)

	_, err = Text("x").Call("inner")
	assert.Error(t, err)
}

func TestFromAny(t *testing.T) {
	v := FromAny(map[string]any{
		"foo":     69,
		"pi":      3.5,
		"flag":    false,
		"name":    "ada",
		"nothing": nil,
		"items":   []any{map[string]any{"n": 1}, map[string]any{"n": 2}},
	})

	require.True(t, v.IsRecord())

	foo, _ := v.Field("foo")
	assert.Equal(t, "69", foo.String())

	pi, _ := v.Field("pi")
	assert.Equal(t, "3.5", pi.String())

	flag, _ := v.Field("flag")
	assert.Equal(t, KindBool, flag.Kind())

	nothing, _ := v.Field("nothing")
	assert.True(t, nothing.IsAbsent())

	items, _ := v.Field("items")
	require.Equal(t, KindList, items.Kind())
	require.Len(t, items.Items(), 2)
	assert.True(t, items.Items()[0].IsRecord())
}

func TestFromAnyPassesValuesAndLambdas(t *testing.T) {
	direct := FromAny(Bool(true))
	assert.Equal(t, KindBool, direct.Kind())

	fn := FromAny(func(body string) (string, error) { return body, nil })
	assert.Equal(t, KindCallable, fn.Kind())
}
