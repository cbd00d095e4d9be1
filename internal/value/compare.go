package value

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ErrIncomparable is returned by Compare when two values have no ordering.
var ErrIncomparable = errors.New("values are not comparable")

// Equaler lets host objects define their own equality.
type Equaler interface {
	Equal(other any) bool
}

// Equal is the default value-equality collaborator. Numbers of different
// kinds are never equal (1 and 1.0 are distinct elements), which matches the
// native fast paths used by the typed array stores.
func Equal(a, b Value) bool {
	switch a.Kind {
	case KindNil:
		return b.Kind == KindNil
	case KindBool:
		return b.Kind == KindBool && a.Bool == b.Bool
	case KindInt:
		switch b.Kind {
		case KindInt:
			return a.Int == b.Int
		case KindBignum:
			return big.NewInt(a.Int).Cmp(b.Big) == 0
		}
		return false
	case KindBignum:
		switch b.Kind {
		case KindInt:
			return a.Big.Cmp(big.NewInt(b.Int)) == 0
		case KindBignum:
			return a.Big.Cmp(b.Big) == 0
		}
		return false
	case KindFloat:
		return b.Kind == KindFloat && a.Float == b.Float
	case KindString, KindSymbol:
		return b.Kind == a.Kind && a.Str == b.Str
	case KindObject:
		if b.Kind != KindObject {
			return false
		}
		if eq, ok := a.Obj.(Equaler); ok {
			return eq.Equal(b.Obj)
		}
		return identical(a.Obj, b.Obj)
	default:
		return false
	}
}

func identical(a, b any) (same bool) {
	defer func() {
		// uncomparable payloads (slices, maps) are only identical to themselves
		// through Equaler
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// Compare is the default three-way ordering collaborator. Integers, bignums
// and floats compare numerically with each other; strings and symbols
// compare lexically within their own kind. Everything else, including NaN,
// yields ErrIncomparable.
func Compare(a, b Value) (int, error) {
	if a.IsNumeric() && b.IsNumeric() {
		return compareNumeric(a, b)
	}
	if (a.Kind == KindString || a.Kind == KindSymbol) && a.Kind == b.Kind {
		return strings.Compare(a.Str, b.Str), nil
	}
	return 0, incomparable(a, b)
}

func compareNumeric(a, b Value) (int, error) {
	if a.Kind == KindInt && b.Kind == KindInt {
		switch {
		case a.Int < b.Int:
			return -1, nil
		case a.Int > b.Int:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.Kind == KindFloat && math.IsNaN(a.Float) || b.Kind == KindFloat && math.IsNaN(b.Float) {
		return 0, incomparable(a, b)
	}
	if a.Kind != KindFloat && b.Kind != KindFloat {
		return toBigInt(a).Cmp(toBigInt(b)), nil
	}
	return toBigFloat(a).Cmp(toBigFloat(b)), nil
}

func toBigInt(v Value) *big.Int {
	if v.Kind == KindBignum {
		return v.Big
	}
	return big.NewInt(v.Int)
}

func toBigFloat(v Value) *big.Float {
	switch v.Kind {
	case KindFloat:
		return big.NewFloat(v.Float)
	case KindBignum:
		return new(big.Float).SetInt(v.Big)
	default:
		return new(big.Float).SetInt64(v.Int)
	}
}

func incomparable(a, b Value) error {
	return fmt.Errorf("comparison of %s with %s failed: %w", a.Kind, b.Kind, ErrIncomparable)
}
