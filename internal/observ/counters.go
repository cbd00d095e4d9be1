// Package observ holds lightweight runtime measurements: storage counters
// and a phase timer.
package observ

import "fmt"

// Counters accumulates storage work done on behalf of one call site or
// workload. The zero value is ready to use. A nil *Counters ignores updates.
// Counters is single-owner, like the sites that feed it.
type Counters struct {
	Allocations     int64 `json:"allocations" msgpack:"allocations"`
	Reallocations   int64 `json:"reallocations" msgpack:"reallocations"`
	ElementCopies   int64 `json:"element_copies" msgpack:"element_copies"`
	Commits         int64 `json:"commits" msgpack:"commits"`
	Generalizations int64 `json:"generalizations" msgpack:"generalizations"`
}

// Allocated records a fresh store.
func (c *Counters) Allocated() {
	if c != nil {
		c.Allocations++
	}
}

// Reallocated records a store replaced by a larger or wider one.
func (c *Counters) Reallocated() {
	if c != nil {
		c.Reallocations++
	}
}

// Copied records n element copies between stores.
func (c *Counters) Copied(n int) {
	if c != nil && n > 0 {
		c.ElementCopies += int64(n)
	}
}

// Committed records an Unknown strategy settling into a representation.
func (c *Counters) Committed() {
	if c != nil {
		c.Commits++
	}
}

// Generalized records a committed strategy widening.
func (c *Counters) Generalized() {
	if c != nil {
		c.Generalizations++
	}
}

// Add folds other into c.
func (c *Counters) Add(other Counters) {
	if c == nil {
		return
	}
	c.Allocations += other.Allocations
	c.Reallocations += other.Reallocations
	c.ElementCopies += other.ElementCopies
	c.Commits += other.Commits
	c.Generalizations += other.Generalizations
}

// Reset zeroes all counters.
func (c *Counters) Reset() {
	if c != nil {
		*c = Counters{}
	}
}

// String renders the counters on one line.
func (c Counters) String() string {
	return fmt.Sprintf("alloc=%d realloc=%d copies=%d commits=%d generalized=%d",
		c.Allocations, c.Reallocations, c.ElementCopies, c.Commits, c.Generalizations)
}
