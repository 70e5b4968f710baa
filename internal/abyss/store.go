package abyss

import "awa5/internal/arena"

// Store is the primary Abyss implementation: a linked list of bubbles over
// an arena, exposing every operation named in spec.md §4.2. Every method
// reports failure as a boolean "precondition not met" rather than panicking.
type Store struct {
	arena *arena.Arena[bubble]
	top   arena.Handle
}

// New returns an empty Store.
func New() *Store {
	return &Store{arena: arena.New[bubble](), top: arena.Nil}
}

// WithCapacity returns an empty Store whose arena is preallocated for n bubbles.
func WithCapacity(n int) *Store {
	return &Store{arena: arena.WithCapacity[bubble](n), top: arena.Nil}
}

// IsEmpty reports whether the top-level chain is empty.
func (s *Store) IsEmpty() bool {
	return s.top == arena.Nil
}

// Blow pushes a Single holding v.
func (s *Store) Blow(v Value) {
	s.top = s.arena.Insert(newSingle(v, s.top))
}

// BlowAwascii pushes a Double of one Single per character (front-to-back in
// source order), or Single{0} when values is empty.
func (s *Store) BlowAwascii(values []Value) {
	if len(values) == 0 {
		s.Blow(0)
		return
	}
	var tail arena.Handle = arena.Nil
	cur := arena.Nil
	for i := len(values) - 1; i >= 0; i-- {
		cur = s.arena.Insert(newSingle(values[i], cur))
		if tail == arena.Nil {
			tail = cur
		}
	}
	head := cur
	s.top = s.arena.Insert(newDouble(head, tail, s.top, Value(len(values))))
}

// moveNext follows next at most count times starting from first, stopping
// early at the end of the chain. It returns the handle reached and the
// number of steps actually taken.
func moveNext(a *arena.Arena[bubble], first arena.Handle, count int) (arena.Handle, int) {
	cur := first
	steps := 0
	for i := 0; i < count; i++ {
		b, _ := a.Get(cur)
		if b.next == arena.Nil {
			break
		}
		cur = b.next
		steps++
	}
	return cur, steps
}

const moveToEnd = int(^uint(0) >> 1) // math.MaxInt, without importing math for one constant

// Submerge moves the topmost bubble down by distance positions; distance
// zero sends it to the very bottom of the chain.
func (s *Store) Submerge(distance int) bool {
	if s.top == arena.Nil {
		return false
	}
	first := s.top
	count := distance
	if count == 0 {
		count = moveToEnd
	}
	before, _ := moveNext(s.arena, first, count)

	beforeB, _ := s.arena.Get(before)
	after := beforeB.next
	beforeB.next = first

	firstB, _ := s.arena.Get(first)
	s.top = firstB.next
	firstB.next = after
	return true
}

// Pop removes the topmost bubble. A Double's children are spliced into the
// top-level chain in place of the removed wrapper.
func (s *Store) Pop() bool {
	if s.top == arena.Nil {
		return false
	}
	b, _ := s.arena.Remove(s.top)
	if b.shape == single {
		s.top = b.next
		return true
	}
	s.top = b.innerFirst
	lastB, _ := s.arena.Get(b.innerLast)
	lastB.next = b.next
	return true
}

// DoublePop removes the topmost bubble and, if it is a Double, recursively
// deallocates its entire subtree instead of splicing it into the chain.
func (s *Store) DoublePop() bool {
	if s.top == arena.Nil {
		return false
	}
	b, _ := s.arena.Remove(s.top)
	if b.shape == double {
		removeAll(s.arena, b.innerFirst)
	}
	s.top = b.next
	return true
}

// removeAll deallocates every bubble in the chain starting at first,
// recursing into Double children.
func removeAll(a *arena.Arena[bubble], first arena.Handle) {
	cur := first
	for {
		b, _ := a.Remove(cur)
		if b.shape == double {
			removeAll(a, b.innerFirst)
		}
		if b.next == arena.Nil {
			return
		}
		cur = b.next
	}
}

// deepCopy clones the bubble tree rooted at root, allocating entirely fresh
// handles so the clone shares nothing with the original (spec.md §4.2.3).
func deepCopy(a *arena.Arena[bubble], root arena.Handle) arena.Handle {
	orig, _ := a.Get(root)
	clone := *orig
	idx := a.Insert(clone)
	if clone.shape != double {
		return idx
	}
	last := deepCopy(a, clone.innerFirst)
	first := last
	for {
		lastB, _ := a.Get(last)
		next := lastB.next
		if next == arena.Nil {
			break
		}
		child := deepCopy(a, next)
		lastB2, _ := a.Get(last)
		lastB2.next = child
		last = child
	}
	b, _ := a.Get(idx)
	b.innerFirst, b.innerLast = first, last
	return idx
}

// Duplicate deep-copies the top bubble and pushes the copy.
func (s *Store) Duplicate() bool {
	if s.top == arena.Nil {
		return false
	}
	copy := deepCopy(s.arena, s.top)
	copyB, _ := s.arena.Get(copy)
	copyB.next = s.top
	s.top = copy
	return true
}

// Surround wraps the top count nodes into a single new Double. count == 0
// is a documented no-op (spec.md §9).
func (s *Store) Surround(count int) bool {
	if count == 0 {
		return true
	}
	if s.top == arena.Nil {
		return false
	}
	first := s.top
	last, steps := moveNext(s.arena, first, count-1)

	lastB, _ := s.arena.Get(last)
	next := lastB.next
	lastB.next = arena.Nil

	s.top = s.arena.Insert(newDouble(first, last, next, Value(steps+1)))
	return true
}

// findCount counts the immediate children of a Double's inner chain
// starting at first.
func findCount(a *arena.Arena[bubble], first arena.Handle) Value {
	count := Value(1)
	cur := first
	for {
		b, _ := a.Get(cur)
		if b.next == arena.Nil {
			return count
		}
		cur = b.next
		count++
	}
}

// childCount reports the immediate-child count of the bubble at h (0 for a
// Single).
func (s *Store) childCount(h arena.Handle) Value {
	b, _ := s.arena.Get(h)
	if b.shape == single {
		return 0
	}
	return findCount(s.arena, b.innerFirst)
}

// Count pushes a Single holding the immediate-child count of the top bubble.
func (s *Store) Count() bool {
	if s.top == arena.Nil {
		return false
	}
	count := s.childCount(s.top)
	s.top = s.arena.Insert(newSingle(count, s.top))
	return true
}

// Merge joins the top two nodes of the chain into one Double, per the four
// shape cases of spec.md §4.2.
func (s *Store) Merge() bool {
	if s.top == arena.Nil {
		return false
	}
	first := s.top
	firstB, _ := s.arena.Get(first)

	if firstB.shape == single {
		next := firstB.next
		if next == arena.Nil {
			return false
		}
		second := next
		secondB, _ := s.arena.Get(second)
		if secondB.shape == single {
			third := secondB.next
			secondB.next = arena.Nil
			s.top = s.arena.Insert(newDouble(first, second, third, 2))
			return true
		}
		// Single + Double: first becomes the new head of second's inner chain.
		innerFirst := secondB.innerFirst
		secondB.innerFirst = first
		secondB.count++
		firstB2, _ := s.arena.Get(first)
		firstB2.next = innerFirst
		s.top = second
		return true
	}

	// Double + ...
	next := firstB.next
	if next == arena.Nil {
		return false
	}
	second := next
	secondB, _ := s.arena.Get(second)
	if secondB.shape == single {
		third := secondB.next
		secondB.next = arena.Nil
		firstB2, _ := s.arena.Get(first)
		innerLast := firstB2.innerLast
		firstB2.innerLast = second
		firstB2.count++
		firstB2.next = third
		innerLastB, _ := s.arena.Get(innerLast)
		innerLastB.next = second
		return true
	}

	// Double + Double: concatenate inner chains, drop the right wrapper.
	rightB, _ := s.arena.Remove(second)
	rightFirst, rightLast, third, rightCount := rightB.innerFirst, rightB.innerLast, rightB.next, rightB.count

	firstB2, _ := s.arena.Get(first)
	leftLast := firstB2.innerLast
	firstB2.innerLast = rightLast
	firstB2.next = third
	firstB2.count += rightCount

	leftLastB, _ := s.arena.Get(leftLast)
	leftLastB.next = rightFirst
	return true
}

// Test reports pred(top, second) without removing either bubble. Only
// defined for two Singles; any other shape (or fewer than two nodes) is
// treated as false per spec.md §4.2 ("length ≥ 2" precondition collapses to
// false for non-numeric comparisons since pred operates on leaf values).
func (s *Store) Test(pred func(a, b Value) bool) (bool, bool) {
	if s.top == arena.Nil {
		return false, false
	}
	firstB, _ := s.arena.Get(s.top)
	if firstB.shape != single {
		return false, true
	}
	if firstB.next == arena.Nil {
		return false, true
	}
	secondB, _ := s.arena.Get(firstB.next)
	if secondB.shape != single {
		return false, true
	}
	return pred(firstB.value, secondB.value), true
}

// Consume removes the top bubble and calls fn on every leaf value it
// covers, depth-first, inner chains front-to-back (spec.md §4.2.2). It
// stops and returns the first error fn produces.
func (s *Store) Consume(fn func(Value) error) (bool, error) {
	if s.top == arena.Nil {
		return false, nil
	}
	next, err := consumeNode(s.arena, s.top, fn)
	if err != nil {
		return true, err
	}
	s.top = next
	return true, nil
}

func consumeNode(a *arena.Arena[bubble], index arena.Handle, fn func(Value) error) (arena.Handle, error) {
	b, _ := a.Remove(index)
	if b.shape == single {
		if err := fn(b.value); err != nil {
			return arena.Nil, err
		}
		return b.next, nil
	}
	cur := b.innerFirst
	for {
		next, err := consumeNode(a, cur, fn)
		if err != nil {
			return arena.Nil, err
		}
		if next == arena.Nil {
			return b.next, nil
		}
		cur = next
	}
}
