package value_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"strata/internal/value"
)

func TestValueString(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"nil", value.Nil(), "nil"},
		{"true", value.MakeBool(true), "true"},
		{"int", value.MakeInt(-42), "-42"},
		{"float", value.MakeFloat(4.5), "4.5"},
		{"integral float", value.MakeFloat(3), "3.0"},
		{"nan", value.MakeFloat(math.NaN()), "NaN"},
		{"bignum", value.MakeBignum(huge), "123456789012345678901234567890"},
		{"string", value.MakeString("hi"), `"hi"`},
		{"symbol", value.MakeSymbol("sym"), ":sym"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMakeBignumNormalizes(t *testing.T) {
	v := value.MakeBignum(big.NewInt(7))
	if v.Kind != value.KindInt || v.Int != 7 {
		t.Fatalf("expected int 7, got %s %v", v.Kind, v)
	}
}

func TestEqual(t *testing.T) {
	type box struct{ n int }
	p := &box{1}
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"ints", value.MakeInt(1), value.MakeInt(1), true},
		{"int float distinct", value.MakeInt(1), value.MakeFloat(1), false},
		{"floats", value.MakeFloat(2.5), value.MakeFloat(2.5), true},
		{"nan", value.MakeFloat(math.NaN()), value.MakeFloat(math.NaN()), false},
		{"string symbol distinct", value.MakeString("a"), value.MakeSymbol("a"), false},
		{"nil nil", value.Nil(), value.Nil(), true},
		{"same object", value.MakeObject(p), value.MakeObject(p), true},
		{"other object", value.MakeObject(p), value.MakeObject(&box{1}), false},
		{"uncomparable object", value.MakeObject([]int{1}), value.MakeObject([]int{1}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	huge, _ := new(big.Int).SetString("99999999999999999999", 10)
	tests := []struct {
		name string
		a, b value.Value
		want int
	}{
		{"int lt", value.MakeInt(1), value.MakeInt(2), -1},
		{"int float", value.MakeInt(2), value.MakeFloat(1.5), 1},
		{"float eq int", value.MakeFloat(3), value.MakeInt(3), 0},
		{"bignum gt int", value.MakeBignum(huge), value.MakeInt(math.MaxInt64), 1},
		{"strings", value.MakeString("a"), value.MakeString("b"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := value.Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareIncomparable(t *testing.T) {
	_, err := value.Compare(value.MakeInt(1), value.MakeString("1"))
	if !errors.Is(err, value.ErrIncomparable) {
		t.Fatalf("expected ErrIncomparable, got %v", err)
	}
	_, err = value.Compare(value.MakeFloat(math.NaN()), value.MakeInt(1))
	if !errors.Is(err, value.ErrIncomparable) {
		t.Fatalf("expected ErrIncomparable for NaN, got %v", err)
	}
}

func TestInspect(t *testing.T) {
	got := value.Inspect([]value.Value{value.MakeInt(1), value.MakeFloat(4.5), value.Nil()})
	if got != "[1, 4.5, nil]" {
		t.Fatalf("expected [1, 4.5, nil], got %s", got)
	}
}
