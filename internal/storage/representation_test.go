package storage

import (
	"math"
	"testing"

	"strata/internal/value"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		a, b, want Representation
	}{
		{Unknown, NarrowInt, NarrowInt},
		{Float, Unknown, Float},
		{NarrowInt, NarrowInt, NarrowInt},
		{NarrowInt, WideInt, WideInt},
		{WideInt, NarrowInt, WideInt},
		{NarrowInt, Float, Generic},
		{WideInt, Float, Generic},
		{Float, NarrowInt, Generic},
		{Float, Float, Float},
		{NarrowInt, Generic, Generic},
		{Generic, Float, Generic},
		{Unknown, Unknown, Unknown},
	}
	for _, tt := range tests {
		if got := Join(tt.a, tt.b); got != tt.want {
			t.Fatalf("Join(%s, %s): expected %s, got %s", tt.a, tt.b, tt.want, got)
		}
		if got := Join(tt.b, tt.a); got != tt.want {
			t.Fatalf("Join(%s, %s): expected %s, got %s", tt.b, tt.a, tt.want, got)
		}
	}
}

func TestHolds(t *testing.T) {
	if !WideInt.Holds(NarrowInt) {
		t.Fatal("expected WideInt to hold NarrowInt")
	}
	if NarrowInt.Holds(WideInt) {
		t.Fatal("expected NarrowInt not to hold WideInt")
	}
	if Float.Holds(NarrowInt) {
		t.Fatal("expected Float not to hold integers")
	}
	if !Generic.Holds(Float) || !Float.Holds(Unknown) {
		t.Fatal("expected Generic to hold everything and Unknown to fit anywhere")
	}
}

func TestParseRepresentation(t *testing.T) {
	for _, rep := range []Representation{Unknown, NarrowInt, WideInt, Float, Generic} {
		got, err := ParseRepresentation(rep.String())
		if err != nil || got != rep {
			t.Fatalf("expected %s, got %s (%v)", rep, got, err)
		}
	}
	if _, err := ParseRepresentation("Bytes"); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want Representation
	}{
		{"zero", value.MakeInt(0), NarrowInt},
		{"max int32", value.MakeInt(math.MaxInt32), NarrowInt},
		{"min int32", value.MakeInt(math.MinInt32), NarrowInt},
		{"above int32", value.MakeInt(math.MaxInt32 + 1), WideInt},
		{"below int32", value.MakeInt(math.MinInt32 - 1), WideInt},
		{"float", value.MakeFloat(1), Float},
		{"nan", value.MakeFloat(math.NaN()), Float},
		{"nil", value.Nil(), Generic},
		{"bool", value.MakeBool(true), Generic},
		{"string", value.MakeString("1"), Generic},
		{"symbol", value.MakeSymbol("a"), Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.v); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyBatch(t *testing.T) {
	tests := []struct {
		name string
		vs   []value.Value
		want Representation
	}{
		{"empty", nil, Unknown},
		{"narrow", []value.Value{value.MakeInt(1), value.MakeInt(2)}, NarrowInt},
		{"narrow and wide", []value.Value{value.MakeInt(1), value.MakeInt(5000000000)}, WideInt},
		{"int and float", []value.Value{value.MakeInt(1), value.MakeFloat(2)}, Generic},
		{"floats", []value.Value{value.MakeFloat(1), value.MakeFloat(2)}, Float},
		{"with nil", []value.Value{value.MakeInt(1), value.Nil()}, Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyBatch(tt.vs); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyStore(t *testing.T) {
	boxed := BoxedOf([]value.Value{value.MakeString("x"), value.MakeInt(1), value.MakeInt(2)})
	if got := ClassifyStore(boxed, 1, 2); got != NarrowInt {
		t.Fatalf("expected NarrowInt for boxed ints, got %s", got)
	}
	if got := ClassifyStore(boxed, 0, 0); got != Unknown {
		t.Fatalf("expected Unknown for empty range, got %s", got)
	}
	tests := []struct {
		name  string
		src   Store
		start int
		count int
		want  Representation
	}{
		{"wide fits", WideOf([]int64{1, 2}), 0, 2, NarrowInt},
		{"wide overflows", WideOf([]int64{1, 5000000000}), 0, 2, WideInt},
		{"wide tail fits", WideOf([]int64{5000000000, 3}), 1, 1, NarrowInt},
		{"narrow", NarrowOf([]int32{4}), 0, 1, NarrowInt},
		{"float", FloatOf([]float64{2}), 0, 1, Float},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyStore(tt.src, tt.start, tt.count); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNextCapacity(t *testing.T) {
	tests := []struct {
		current, required, want int
	}{
		{0, 0, 0},
		{0, 1, 16},
		{3, 4, 16},
		{16, 16, 16},
		{16, 17, 32},
		{20, 100, 100},
		{100, 101, 200},
		{-1, 1, 16},
		{math.MaxInt/2 + 1, math.MaxInt/2 + 2, math.MaxInt},
	}
	for _, tt := range tests {
		got := NextCapacity(tt.current, tt.required)
		if got != tt.want {
			t.Fatalf("NextCapacity(%d, %d): expected %d, got %d", tt.current, tt.required, tt.want, got)
		}
		if got < tt.required {
			t.Fatalf("NextCapacity(%d, %d) = %d is below required", tt.current, tt.required, got)
		}
	}
}
