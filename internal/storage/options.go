package storage

// Options seeds the representations a site may commit to.
type Options struct {
	AllowNarrowInt bool
	AllowWideInt   bool
	AllowFloat     bool
	// SortInsertionMax is the largest length sorted by insertion sort on a
	// native copy.
	SortInsertionMax int
}

// DefaultOptions enables every representation with an insertion-sort
// threshold of 3.
func DefaultOptions() Options {
	return Options{
		AllowNarrowInt:   true,
		AllowWideInt:     true,
		AllowFloat:       true,
		SortInsertionMax: 3,
	}
}

// admit maps rep to the nearest enabled representation at or above it.
func (o Options) admit(rep Representation) Representation {
	switch rep {
	case NarrowInt:
		if o.AllowNarrowInt {
			return NarrowInt
		}
		return o.admit(WideInt)
	case WideInt:
		if o.AllowWideInt {
			return WideInt
		}
		return Generic
	case Float:
		if o.AllowFloat {
			return Float
		}
		return Generic
	default:
		return rep
	}
}
