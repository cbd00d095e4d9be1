// Package value defines the boxed runtime values stored in generic arrays.
package value

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the runtime kind of a Value.
type Kind uint8

const (
	// KindNil represents nil. It is the zero Kind, so a zero Value is nil.
	KindNil Kind = iota
	// KindBool represents true/false.
	KindBool
	// KindInt represents a machine integer (int64).
	KindInt
	// KindFloat represents a float64.
	KindFloat
	// KindBignum represents an integer outside the int64 range.
	KindBignum
	// KindString represents a string.
	KindString
	// KindSymbol represents an interned symbol name.
	KindSymbol
	// KindObject represents an opaque host object.
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBignum:
		return "bignum"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is a boxed runtime value.
type Value struct {
	Kind  Kind
	Int   int64    // For KindInt
	Float float64  // For KindFloat
	Bool  bool     // For KindBool
	Str   string   // For KindString/KindSymbol
	Big   *big.Int // For KindBignum
	Obj   any      // For KindObject
}

// Nil returns the nil value.
func Nil() Value {
	return Value{}
}

// MakeBool creates a boolean value.
func MakeBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// MakeInt creates an integer value.
func MakeInt(n int64) Value {
	return Value{Kind: KindInt, Int: n}
}

// MakeFloat creates a float value.
func MakeFloat(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// MakeBignum creates an arbitrary-precision integer value.
// Values that fit in int64 are normalized to KindInt.
func MakeBignum(n *big.Int) Value {
	if n == nil {
		return MakeInt(0)
	}
	if n.IsInt64() {
		return MakeInt(n.Int64())
	}
	return Value{Kind: KindBignum, Big: new(big.Int).Set(n)}
}

// MakeString creates a string value.
func MakeString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// MakeSymbol creates a symbol value.
func MakeSymbol(name string) Value {
	return Value{Kind: KindSymbol, Str: name}
}

// MakeObject wraps a host object. Identity comparison is used unless the
// payload implements Equaler.
func MakeObject(obj any) Value {
	return Value{Kind: KindObject, Obj: obj}
}

// IsNil reports whether v is nil.
func (v Value) IsNil() bool {
	return v.Kind == KindNil
}

// IsNumeric reports whether v is an int, float or bignum.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindInt, KindFloat, KindBignum:
		return true
	default:
		return false
	}
}

// Truthy follows the usual dynamic-language rule: only nil and false are falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool
	default:
		return true
	}
}

// String returns an inspect-style representation of the value.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindBignum:
		return v.Big.String()
	case KindString:
		return strconv.Quote(v.Str)
	case KindSymbol:
		return ":" + v.Str
	case KindObject:
		if s, ok := v.Obj.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("#<%T>", v.Obj)
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Inspect formats a list of values as an array literal.
func Inspect(vs []Value) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
