// Package snapshot persists arrays and site profiles with msgpack. Arrays
// keep their native representation on disk, so a NarrowInt array is
// written as int32s and read back as a NarrowInt store.
package snapshot

import (
	"errors"
	"fmt"
	"math/big"

	"fortio.org/safecast"

	"strata/internal/array"
	"strata/internal/storage"
	"strata/internal/value"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// Payload kinds.
const (
	KindArray   = "array"
	KindProfile = "profile"
)

var (
	// ErrSchema reports a payload written by an incompatible version.
	ErrSchema = errors.New("snapshot schema mismatch")
	// ErrUnencodable reports a boxed element that has no wire form.
	ErrUnencodable = errors.New("value cannot be snapshotted")
)

type header struct {
	Schema uint16 `msgpack:"schema"`
	Kind   string `msgpack:"kind"`
}

// ArrayPayload is the wire form of an array.
type ArrayPayload struct {
	Schema uint16    `msgpack:"schema"`
	Kind   string    `msgpack:"kind"`
	Name   string    `msgpack:"name"`
	Rep    string    `msgpack:"rep"`
	Length uint64    `msgpack:"length"`
	Narrow []int32   `msgpack:"narrow,omitempty"`
	Wide   []int64   `msgpack:"wide,omitempty"`
	Float  []float64 `msgpack:"float,omitempty"`
	Boxed  []Element `msgpack:"boxed,omitempty"`
}

// Element is the wire form of a boxed value. Host objects have none.
type Element struct {
	Kind  uint8   `msgpack:"k"`
	Int   int64   `msgpack:"i,omitempty"`
	Float float64 `msgpack:"f"`
	Bool  bool    `msgpack:"b,omitempty"`
	Str   string  `msgpack:"s,omitempty"`
}

// ProfilePayload is the wire form of a site profile.
type ProfilePayload struct {
	Schema uint16         `msgpack:"schema"`
	Kind   string         `msgpack:"kind"`
	Sites  []ProfileEntry `msgpack:"sites"`
}

// ProfileEntry is one site in a ProfilePayload.
type ProfileEntry struct {
	Name string `msgpack:"name"`
	Rep  string `msgpack:"rep"`
}

// FromArray builds the payload for a.
func FromArray(name string, a *array.Array) (*ArrayPayload, error) {
	n := a.Len()
	st := a.Store()
	p := &ArrayPayload{
		Schema: schemaVersion,
		Kind:   KindArray,
		Name:   name,
		Rep:    st.Rep.String(),
		Length: uint64(n),
	}
	switch st.Rep {
	case storage.NarrowInt:
		p.Narrow = append([]int32(nil), st.Narrow[:n]...)
	case storage.WideInt:
		p.Wide = append([]int64(nil), st.Wide[:n]...)
	case storage.Float:
		p.Float = append([]float64(nil), st.Float[:n]...)
	default:
		p.Boxed = make([]Element, n)
		for i, v := range st.Boxed[:n] {
			el, err := encodeValue(v)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			p.Boxed[i] = el
		}
	}
	return p, nil
}

// Array rebuilds the array. The store capacity equals the length.
func (p *ArrayPayload) Array() (*array.Array, error) {
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, schemaVersion)
	}
	rep, err := storage.ParseRepresentation(p.Rep)
	if err != nil {
		return nil, err
	}
	n, err := safecast.Conv[int](p.Length)
	if err != nil {
		return nil, fmt.Errorf("array length %d: %w", p.Length, err)
	}
	var st storage.Store
	switch rep {
	case storage.NarrowInt:
		st = storage.NarrowOf(p.Narrow)
	case storage.WideInt:
		st = storage.WideOf(p.Wide)
	case storage.Float:
		st = storage.FloatOf(p.Float)
	default:
		vs := make([]value.Value, len(p.Boxed))
		for i, el := range p.Boxed {
			if vs[i], err = decodeValue(el); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		st = storage.BoxedOf(vs)
	}
	if st.Cap() != n {
		return nil, fmt.Errorf("array %q: length %d but %d %s elements", p.Name, n, st.Cap(), rep)
	}
	return array.New(st, n), nil
}

// FromProfile builds the payload for profiles.
func FromProfile(profiles []storage.SiteProfile) *ProfilePayload {
	p := &ProfilePayload{
		Schema: schemaVersion,
		Kind:   KindProfile,
		Sites:  make([]ProfileEntry, len(profiles)),
	}
	for i, sp := range profiles {
		p.Sites[i] = ProfileEntry{Name: sp.Name, Rep: sp.Rep.String()}
	}
	return p
}

// Profiles converts the payload back to site profiles.
func (p *ProfilePayload) Profiles() ([]storage.SiteProfile, error) {
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, schemaVersion)
	}
	out := make([]storage.SiteProfile, len(p.Sites))
	for i, e := range p.Sites {
		rep, err := storage.ParseRepresentation(e.Rep)
		if err != nil {
			return nil, fmt.Errorf("site %q: %w", e.Name, err)
		}
		out[i] = storage.SiteProfile{Name: e.Name, Rep: rep}
	}
	return out, nil
}

func encodeValue(v value.Value) (Element, error) {
	el := Element{Kind: uint8(v.Kind)}
	switch v.Kind {
	case value.KindNil:
	case value.KindBool:
		el.Bool = v.Bool
	case value.KindInt:
		el.Int = v.Int
	case value.KindFloat:
		el.Float = v.Float
	case value.KindBignum:
		el.Str = v.Big.String()
	case value.KindString, value.KindSymbol:
		el.Str = v.Str
	default:
		return Element{}, fmt.Errorf("%w: %s", ErrUnencodable, v.Kind)
	}
	return el, nil
}

func decodeValue(el Element) (value.Value, error) {
	switch k := value.Kind(el.Kind); k {
	case value.KindNil:
		return value.Nil(), nil
	case value.KindBool:
		return value.MakeBool(el.Bool), nil
	case value.KindInt:
		return value.MakeInt(el.Int), nil
	case value.KindFloat:
		return value.MakeFloat(el.Float), nil
	case value.KindBignum:
		n, ok := new(big.Int).SetString(el.Str, 10)
		if !ok {
			return value.Value{}, fmt.Errorf("malformed bignum %q", el.Str)
		}
		return value.MakeBignum(n), nil
	case value.KindString:
		return value.MakeString(el.Str), nil
	case value.KindSymbol:
		return value.MakeSymbol(el.Str), nil
	default:
		return value.Value{}, fmt.Errorf("%w: %s", ErrUnencodable, k)
	}
}
