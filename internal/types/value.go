package types

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Kind is the declared type of a parameter. The names match what the
// allow-list reports in TypeMismatchError messages.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value holds exactly one of boolean, integer or string.
// The zero Value is invalid and is what Get returns for absent parameters.
type Value struct {
	kind Kind
	b    bool
	i    int
	s    string
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int) Value { return Value{kind: KindInt, i: i} }
func String(s string) Value { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsValid() bool { return v.kind != KindInvalid }
func (v Value) AsBool() bool { return v.b }
func (v Value) AsInt() int { return v.i }
func (v Value) AsString() string { return v.s }

// Any unwraps the value for encoders; an invalid Value yields nil.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindString:
		return v.s
	default:
		return "<nil>"
	}
}

// ValueOf converts a dynamically typed value, as produced by JSON or YAML
// decoders, into a Value. Integral json.Number values count as integers;
// floats never do, even when they have no fractional part.
func ValueOf(x any) (Value, bool) {
	switch t := x.(type) {
	case Value:
		return t, t.IsValid()
	case bool:
		return Bool(t), true
	case string:
		return String(t), true
	case int:
		return Int(t), true
	case int8:
		return Int(int(t)), true
	case int16:
		return Int(int(t)), true
	case int32:
		return Int(int(t)), true
	case int64:
		if t < math.MinInt || t > math.MaxInt {
			return Value{}, false
		}
		return Int(int(t)), true
	case uint:
		if t > math.MaxInt {
			return Value{}, false
		}
		return Int(int(t)), true
	case uint8:
		return Int(int(t)), true
	case uint16:
		return Int(int(t)), true
	case uint32:
		return Int(int(t)), true
	case uint64:
		if t > math.MaxInt {
			return Value{}, false
		}
		return Int(int(t)), true
	case json.Number:
		i, err := strconv.Atoi(t.String())
		if err != nil {
			return Value{}, false
		}
		return Int(i), true
	}
	return Value{}, false
}

// TypeName describes x with the vocabulary used in mismatch messages.
func TypeName(x any) string {
	if v, ok := ValueOf(x); ok {
		return v.Kind().String()
	}
	switch t := x.(type) {
	case nil:
		return "NULL"
	case float32, float64:
		return "double"
	case json.Number:
		return "double"
	case int64, uint, uint64:
		// out of range for int
		return "double"
	case Value:
		return "NULL"
	default:
		switch reflect.TypeOf(t).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array:
			return "array"
		}
		return fmt.Sprintf("%T", t)
	}
}

// ParseText parses raw according to kind. It is the boundary used for
// environment variables and command line overrides.
func ParseText(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case KindInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case KindString:
		return String(raw), nil
	default:
		return Value{}, fmt.Errorf("cannot parse %q as %s", raw, kind)
	}
}
