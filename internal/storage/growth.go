package storage

import "math"

// MinCapacity is the smallest capacity a growing store is given.
const MinCapacity = 16

// NextCapacity returns the capacity a store of capacity current should grow
// to so it can hold required elements. It returns current when that already
// suffices, and otherwise max(required, 2*current, MinCapacity), saturating
// at math.MaxInt.
func NextCapacity(current, required int) int {
	if current < 0 {
		current = 0
	}
	if current >= required {
		return current
	}
	next := MinCapacity
	switch {
	case current > math.MaxInt/2:
		next = math.MaxInt
	case 2*current > next:
		next = 2 * current
	}
	if required > next {
		next = required
	}
	return next
}
