// Package value defines the closed sum type the renderer dispatches on.
//
// Callers convert their domain data into Values before binding a render
// call, so the resolver matches exhaustively on Kind instead of inspecting
// arbitrary runtime types. FromAny bridges data decoded from YAML or JSON.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	// KindAbsent is an absent optional; it renders as nothing.
	KindAbsent Kind = iota
	// KindBool is a boolean, controlling section truthiness.
	KindBool
	// KindText is a scalar with a textual representation.
	KindText
	// KindRecord exposes named fields.
	KindRecord
	// KindList is an ordered sequence of Values.
	KindList
	// KindCallable is a lambda invoked with a section's raw body text.
	KindCallable
)

// Lambda receives the raw literal body of the section that invoked it and
// returns replacement template source, which is parsed and rendered against
// the invoking context.
type Lambda func(body string) (string, error)

// Value is an immutable tagged union over the shapes the renderer
// understands.
type Value struct {
	kind Kind
	b    bool
	text string
	rec  map[string]Value
	list []Value
	fn   Lambda
}

// Absent returns the absent-optional value.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Text returns a textual scalar.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Int returns a numeric scalar rendered in decimal.
func Int(n int64) Value {
	return Text(strconv.FormatInt(n, 10))
}

// Float returns a numeric scalar. Integral floats render without a decimal
// point, so 69.0 interpolates as "69".
func Float(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return Text(strconv.FormatInt(int64(f), 10))
	}

	return Text(strconv.FormatFloat(f, 'g', -1, 64))
}

// Record returns a record-shaped value over the given fields. The map is
// used as-is; callers must not mutate it afterwards.
func Record(fields map[string]Value) Value {
	return Value{kind: KindRecord, rec: fields}
}

// List returns a sequence value.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Callable returns a lambda value.
func Callable(fn Lambda) Value {
	return Value{kind: KindCallable, fn: fn}
}

// Kind returns the shape tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsRecord reports whether the value exposes named fields.
func (v Value) IsRecord() bool {
	return v.kind == KindRecord
}

// IsAbsent reports whether the value is an absent optional.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Bool returns the boolean payload; false for non-boolean values.
func (v Value) Bool() bool {
	return v.kind == KindBool && v.b
}

// Has reports whether a record-shaped value has the named field.
func (v Value) Has(name string) bool {
	if v.kind != KindRecord {
		return false
	}
	_, ok := v.rec[name]

	return ok
}

// Field returns the named field of a record-shaped value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	f, ok := v.rec[name]

	return f, ok
}

// Fields returns the field names of a record-shaped value, sorted.
func (v Value) Fields() []string {
	if v.kind != KindRecord {
		return nil
	}

	names := make([]string, 0, len(v.rec))
	for name := range v.rec {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Items returns the elements of a list value.
func (v Value) Items() []Value {
	return v.list
}

// Call invokes a lambda value with the raw section body.
func (v Value) Call(body string) (string, error) {
	if v.kind != KindCallable || v.fn == nil {
		return "", fmt.Errorf("value of kind %d is not callable", v.kind)
	}

	return v.fn(body)
}

// String returns the textual representation interpolated for variables.
// Records, lists, and callables have no textual form and yield "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// FromAny converts data decoded from YAML or JSON into a Value. Maps become
// records, slices become lists, nil becomes Absent, and scalars become
// booleans or text. A Lambda or Value passes through unchanged.
func FromAny(v any) Value {
	switch v := v.(type) {
	case nil:
		return Absent()
	case Value:
		return v
	case bool:
		return Bool(v)
	case string:
		return Text(v)
	case int:
		return Int(int64(v))
	case int64:
		return Int(v)
	case float64:
		return Float(v)
	case float32:
		return Float(float64(v))
	case Lambda:
		return Callable(v)
	case func(string) (string, error):
		return Callable(v)
	case map[string]any:
		fields := make(map[string]Value, len(v))
		for name, field := range v {
			fields[name] = FromAny(field)
		}

		return Record(fields)
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, FromAny(item))
		}

		return List(items...)
	default:
		return Text(fmt.Sprint(v))
	}
}
