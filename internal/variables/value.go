// Package variables implements the typed variable table that backs the set and toggle commands.
// Every variable has a fixed kind (str, int or float), optional getter/setter hooks and either
// owned storage or a slot bound to an external field.
package variables

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the declared type of a variable.
type Kind int

const (
	// KindString stores text verbatim.
	KindString Kind = iota
	// KindInt stores a signed integer.
	KindInt
	// KindFloat stores a float64.
	KindFloat
)

// String returns the short kind name used in VARIABLE_SET events.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "str"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k == KindString || k == KindInt || k == KindFloat
}

// Value is a closed variant over the three kinds. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
}

// StringValue builds a string value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntValue builds an integer value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue builds a float value.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Zero returns the zero value of kind k.
func Zero(k Kind) Value {
	return Value{Kind: k}
}

// ParseValue coerces text into kind k. Numbers always use '.' as the decimal separator.
func ParseValue(k Kind, text string) (Value, error) {
	switch k {
	case KindString:
		return StringValue(text), nil
	case KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid int %q: %w", text, err)
		}
		return IntValue(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float %q: %w", text, err)
		}
		return FloatValue(f), nil
	default:
		return Value{}, fmt.Errorf("unknown variable kind %s", k)
	}
}

// String returns the canonical textual form: strings verbatim, integers in base 10,
// floats in the shortest form that round-trips (0.25, 1, 17.5).
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return v.Str
	}
}

// EventString formats v for a VARIABLE_SET event. Strings are single-quoted with
// backslash and quote escaped; numbers use their canonical form.
func (v Value) EventString() string {
	if v.Kind != KindString {
		return v.String()
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range v.Str {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// IsZero reports whether v is the zero value of its kind.
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindInt:
		return v.Int == 0
	case KindFloat:
		return v.Float == 0
	default:
		return v.Str == ""
	}
}

// Equal compares two values of the same kind.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Float == other.Float
	default:
		return v.Str == other.Str
	}
}
