package storage

import "fmt"

// Representation identifies the element encoding of a store or strategy.
type Representation uint8

const (
	// Unknown is the speculative state of a fresh call site.
	Unknown Representation = iota
	// NarrowInt stores signed 32-bit integers.
	NarrowInt
	// WideInt stores signed 64-bit integers.
	WideInt
	// Float stores float64 values.
	Float
	// Generic stores boxed values.
	Generic
)

var representationNames = [...]string{
	Unknown:   "Unknown",
	NarrowInt: "NarrowInt",
	WideInt:   "WideInt",
	Float:     "Float",
	Generic:   "Generic",
}

func (r Representation) String() string {
	if int(r) < len(representationNames) {
		return representationNames[r]
	}
	return fmt.Sprintf("Representation(%d)", r)
}

// ParseRepresentation is the inverse of String.
func ParseRepresentation(s string) (Representation, error) {
	for rep, name := range representationNames {
		if name == s {
			return Representation(rep), nil
		}
	}
	return Unknown, fmt.Errorf("unknown representation %q", s)
}

// Join returns the narrowest representation able to hold elements of both
// a and b. Unknown is the identity. Integers and floats only meet in Generic.
func Join(a, b Representation) Representation {
	switch {
	case a == b:
		return a
	case a == Unknown:
		return b
	case b == Unknown:
		return a
	case a == Generic || b == Generic:
		return Generic
	case a == Float || b == Float:
		return Generic
	default:
		// NarrowInt and WideInt
		return WideInt
	}
}

// Holds reports whether a store of representation r can hold an element
// classified as elem without generalizing.
func (r Representation) Holds(elem Representation) bool {
	return elem == Unknown || Join(r, elem) == r
}

// Native reports whether r is stored unboxed.
func (r Representation) Native() bool {
	return r == NarrowInt || r == WideInt || r == Float
}
