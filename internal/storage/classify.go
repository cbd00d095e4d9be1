package storage

import (
	"fortio.org/safecast"

	"strata/internal/value"
)

// FitsNarrow reports whether n lies in the signed 32-bit range.
func FitsNarrow(n int64) bool {
	_, err := safecast.Conv[int32](n)
	return err == nil
}

// Classify returns the narrowest representation that can hold v.
func Classify(v value.Value) Representation {
	switch v.Kind {
	case value.KindInt:
		if FitsNarrow(v.Int) {
			return NarrowInt
		}
		return WideInt
	case value.KindFloat:
		return Float
	default:
		return Generic
	}
}

// ClassifyBatch joins Classify over vs. An empty batch is Unknown.
func ClassifyBatch(vs []value.Value) Representation {
	rep := Unknown
	for _, v := range vs {
		rep = Join(rep, Classify(v))
		if rep == Generic {
			break
		}
	}
	return rep
}

// ClassifyStore classifies src[start:start+count]. NarrowInt and Float
// stores classify by their tag. WideInt and boxed stores are scanned, so a
// run of small integers classifies as NarrowInt whatever store holds it.
func ClassifyStore(src Store, start, count int) Representation {
	if count <= 0 {
		return Unknown
	}
	switch src.Rep {
	case WideInt:
		for _, n := range src.Wide[start : start+count] {
			if !FitsNarrow(n) {
				return WideInt
			}
		}
		return NarrowInt
	case Generic:
		return ClassifyBatch(src.Boxed[start : start+count])
	default:
		return src.Rep
	}
}
