package abyss

import "awa5/internal/arena"

// opFn is a pointwise operation on two leaf values (spec.md §4.2.1).
type opFn func(a, b Value) Value

func swapOp(op opFn) opFn {
	return func(a, b Value) Value { return op(b, a) }
}

// mapRightSingle applies op(lhsVal, leaf) to every Single leaf reachable
// from rhsRoot, recursing into nested Doubles and leaving shape untouched.
// Used for the Single-op-Double broadcast case of CombineSingle, where no
// node is created or removed so no relinking is needed.
func mapRightSingle(a *arena.Arena[bubble], lhsVal Value, rhsRoot arena.Handle, op opFn) {
	cur := rhsRoot
	for {
		b, _ := a.Get(cur)
		next := b.next
		if b.shape == single {
			b.value = op(lhsVal, b.value)
		} else {
			mapRightSingle(a, lhsVal, b.innerFirst, op)
		}
		if next == arena.Nil {
			return
		}
		cur = next
	}
}

// combineSingleInner combines one (lhs, rhs) pair for CombineSingle,
// returning the handle of the surviving node (the other operand's handle is
// removed) and the original next pointers of both operands so the caller
// can continue a lockstep walk or relink the final chain.
func combineSingleInner(a *arena.Arena[bubble], lhs, rhs arena.Handle, op opFn) (survivor, nextLhs, nextRhs arena.Handle) {
	lb, _ := a.Get(lhs)
	rb, _ := a.Get(rhs)
	switch {
	case lb.shape == single && rb.shape == single:
		nextLhs, nextRhs = lb.next, rb.next
		rb.value = op(lb.value, rb.value)
		a.Remove(lhs)
		return rhs, nextLhs, nextRhs

	case lb.shape == single && rb.shape == double:
		value, inner := lb.value, rb.innerFirst
		nextLhs, nextRhs = lb.next, rb.next
		a.Remove(lhs)
		mapRightSingle(a, value, inner, op)
		return rhs, nextLhs, nextRhs

	case lb.shape == double && rb.shape == single:
		value, inner := rb.value, lb.innerFirst
		nextLhs, nextRhs = lb.next, rb.next
		a.Remove(rhs)
		mapRightSingle(a, value, inner, swapOp(op))
		return lhs, nextLhs, nextRhs

	default: // double, double
		innerLhs, innerRhs := lb.innerFirst, rb.innerFirst
		nextLhs, nextRhs = lb.next, rb.next
		a.Remove(lhs)
		a.Remove(rhs)
		head, tail, count := combineSingleMapDouble(a, innerLhs, innerRhs, op)
		survivor = a.Insert(newDouble(head, tail, arena.Nil, count))
		return survivor, nextLhs, nextRhs
	}
}

// combineSingleMapDouble walks two inner chains in lockstep, combining each
// pair via combineSingleInner and explicitly threading the survivors into a
// freshly linked chain. Excess nodes on the longer side are discarded
// (spec.md §4.2.1, "Double L op Double R").
func combineSingleMapDouble(a *arena.Arena[bubble], lhsChain, rhsChain arena.Handle, op opFn) (head, tail arena.Handle, count Value) {
	curLhs, curRhs := lhsChain, rhsChain
	var last arena.Handle = arena.Nil
	for {
		survivor, nl, nr := combineSingleInner(a, curLhs, curRhs, op)
		count++
		if last == arena.Nil {
			head = survivor
		} else {
			lastB, _ := a.Get(last)
			lastB.next = survivor
		}
		last = survivor

		switch {
		case nl != arena.Nil && nr != arena.Nil:
			curLhs, curRhs = nl, nr
			continue
		case nl != arena.Nil:
			removeAll(a, nl)
		case nr != arena.Nil:
			removeAll(a, nr)
		}
		break
	}
	tail = last
	tailB, _ := a.Get(tail)
	tailB.next = arena.Nil
	return head, tail, count
}

// CombineSingle replaces the top two bubbles with one, holding op applied
// pointwise (spec.md §4.2.1).
func (s *Store) CombineSingle(op func(a, b Value) Value) bool {
	if s.top == arena.Nil {
		return false
	}
	lhs := s.top
	lhsB, _ := s.arena.Get(lhs)
	rhs := lhsB.next
	if rhs == arena.Nil {
		return false
	}
	survivor, _, nextRhs := combineSingleInner(s.arena, lhs, rhs, op)
	survB, _ := s.arena.Get(survivor)
	survB.next = nextRhs
	s.top = survivor
	return true
}

// mapRightDouble applies {op1, op2} to every Single leaf reachable from
// rootFirst, wrapping each into a fresh Double{op1(lhsVal,leaf),
// op2(lhsVal,leaf)}; nested Doubles keep their shape and recurse. It
// returns the (possibly new) head and tail of the resulting chain, since
// wrapping a leaf introduces a new node identity the caller must re-link.
func mapRightDouble(a *arena.Arena[bubble], lhsVal Value, rootFirst arena.Handle, op1, op2 opFn) (head, tail arena.Handle) {
	cur := rootFirst
	var last arena.Handle = arena.Nil
	for {
		b, _ := a.Get(cur)
		next := b.next
		var nodeID arena.Handle
		if b.shape == single {
			rightValue := b.value
			leftValue, rightValue := op1(lhsVal, rightValue), op2(lhsVal, rightValue)
			b.value = rightValue
			b.next = arena.Nil
			leftIdx := a.Insert(newSingle(leftValue, cur))
			nodeID = a.Insert(newDouble(leftIdx, cur, arena.Nil, 2))
		} else {
			innerHead, innerTail := mapRightDouble(a, lhsVal, b.innerFirst, op1, op2)
			b2, _ := a.Get(cur)
			b2.innerFirst, b2.innerLast = innerHead, innerTail
			nodeID = cur
		}
		if last == arena.Nil {
			head = nodeID
		} else {
			lastB, _ := a.Get(last)
			lastB.next = nodeID
		}
		last = nodeID
		if next == arena.Nil {
			break
		}
		cur = next
	}
	tail = last
	tailB, _ := a.Get(tail)
	tailB.next = arena.Nil
	return head, tail
}

// combineDoubleInner combines one (lhs, rhs) pair for CombineDouble,
// returning the handle of the wrapping Double that holds the result and
// the original next pointers of both operands.
func combineDoubleInner(a *arena.Arena[bubble], lhs, rhs arena.Handle, op1, op2 opFn) (outer, nextLhs, nextRhs arena.Handle) {
	lb, _ := a.Get(lhs)
	rb, _ := a.Get(rhs)
	switch {
	case lb.shape == single && rb.shape == single:
		nextLhs, nextRhs = lb.next, rb.next
		lv, rv := lb.value, rb.value
		lb.value, rb.value = op1(lv, rv), op2(lv, rv)
		lb.next = rhs
		rb.next = arena.Nil
		outer = a.Insert(newDouble(lhs, rhs, arena.Nil, 2))
		return outer, nextLhs, nextRhs

	case lb.shape == single && rb.shape == double:
		value, inner := lb.value, rb.innerFirst
		nextLhs, nextRhs = lb.next, rb.next
		a.Remove(lhs)
		head, tail := mapRightDouble(a, value, inner, op1, op2)
		rb2, _ := a.Get(rhs)
		rb2.innerFirst, rb2.innerLast = head, tail
		return rhs, nextLhs, nextRhs

	case lb.shape == double && rb.shape == single:
		value, inner := rb.value, lb.innerFirst
		nextLhs, nextRhs = lb.next, rb.next
		a.Remove(rhs)
		head, tail := mapRightDouble(a, value, inner, swapOp(op1), swapOp(op2))
		lb2, _ := a.Get(lhs)
		lb2.innerFirst, lb2.innerLast = head, tail
		return lhs, nextLhs, nextRhs

	default: // double, double
		innerLhs, innerRhs := lb.innerFirst, rb.innerFirst
		nextLhs, nextRhs = lb.next, rb.next
		a.Remove(lhs)
		head, tail, count := combineDoubleMapDouble(a, innerLhs, innerRhs, op1, op2)
		rb2, _ := a.Get(rhs)
		rb2.innerFirst, rb2.innerLast, rb2.count = head, tail, count
		return rhs, nextLhs, nextRhs
	}
}

// combineDoubleMapDouble walks two inner chains in lockstep, wrapping each
// pair via combineDoubleInner into a freshly linked chain of result nodes.
func combineDoubleMapDouble(a *arena.Arena[bubble], lhsChain, rhsChain arena.Handle, op1, op2 opFn) (head, tail arena.Handle, count Value) {
	curLhs, curRhs := lhsChain, rhsChain
	var last arena.Handle = arena.Nil
	for {
		outer, nl, nr := combineDoubleInner(a, curLhs, curRhs, op1, op2)
		count++
		if last == arena.Nil {
			head = outer
		} else {
			lastB, _ := a.Get(last)
			lastB.next = outer
		}
		last = outer

		switch {
		case nl != arena.Nil && nr != arena.Nil:
			curLhs, curRhs = nl, nr
			continue
		case nl != arena.Nil:
			removeAll(a, nl)
		case nr != arena.Nil:
			removeAll(a, nr)
		}
		break
	}
	tail = last
	tailB, _ := a.Get(tail)
	tailB.next = arena.Nil
	return head, tail, count
}

// CombineDouble replaces the top two bubbles with one Double per pointwise
// element, carrying {op1(l,r), op2(l,r)} (spec.md §4.2.1). The interpreter's
// Divide uses this with (remainder, quotient).
func (s *Store) CombineDouble(op1, op2 func(a, b Value) Value) bool {
	if s.top == arena.Nil {
		return false
	}
	lhs := s.top
	lhsB, _ := s.arena.Get(lhs)
	rhs := lhsB.next
	if rhs == arena.Nil {
		return false
	}
	outer, _, nextRhs := combineDoubleInner(s.arena, lhs, rhs, op1, op2)
	outerB, _ := s.arena.Get(outer)
	outerB.next = nextRhs
	s.top = outer
	return true
}
