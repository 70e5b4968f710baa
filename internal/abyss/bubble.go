// Package abyss implements the Abyss data model: an arena-backed intrusive
// linked list of nested "bubbles" (spec.md §3.3-3.4).
package abyss

import "awa5/internal/arena"

// Value is the numeric type bubbles carry. A pointer-wide signed integer
// covers every signed 8-bit AwaTism operand with headroom for arithmetic.
type Value = int64

type shape int

const (
	single shape = iota
	double
)

// bubble is a closed two-variant sum: Single carries one value, Double
// carries a chain of children. Both variants carry next, the link to the
// following node in whatever chain currently owns this bubble.
type bubble struct {
	shape shape

	value Value       // single only
	next  arena.Handle // both

	innerFirst, innerLast arena.Handle // double only
	count                 Value        // double only, cached immediate-child count
}

func newSingle(value Value, next arena.Handle) bubble {
	return bubble{shape: single, value: value, next: next}
}

func newDouble(first, last arena.Handle, next arena.Handle, count Value) bubble {
	return bubble{shape: double, innerFirst: first, innerLast: last, next: next, count: count}
}
