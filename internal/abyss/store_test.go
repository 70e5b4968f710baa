package abyss

import "testing"

func TestBlowAndPop(t *testing.T) {
	s := New()
	s.Blow(1)
	s.Blow(2)
	if got := s.String(); got != "2\n1\n" {
		t.Fatalf("unexpected state: %q", got)
	}
	if !s.Pop() {
		t.Fatal("Pop on non-empty store failed")
	}
	if got := s.String(); got != "1\n" {
		t.Fatalf("unexpected state after pop: %q", got)
	}
}

func TestPopEmptyFails(t *testing.T) {
	s := New()
	if s.Pop() {
		t.Fatal("Pop on empty store should fail")
	}
}

func TestBlowAwasciiEmptyPushesZero(t *testing.T) {
	s := New()
	s.BlowAwascii(nil)
	if got := s.String(); got != "0\n" {
		t.Fatalf("want Single{0}, got %q", got)
	}
}

func TestBlowAwasciiOrder(t *testing.T) {
	s := New()
	s.BlowAwascii([]Value{10, 11, 12})
	if got := s.String(); got != "[10, 11, 12]\n" {
		t.Fatalf("want front-to-back source order, got %q", got)
	}
}

func TestPopSplicesDoubleChildren(t *testing.T) {
	s := New()
	s.Blow(99) // beneath the double
	s.BlowAwascii([]Value{1, 2, 3})
	if !s.Pop() {
		t.Fatal("Pop failed")
	}
	if got := s.String(); got != "1\n2\n3\n99\n" {
		t.Fatalf("want spliced children atop 99, got %q", got)
	}
}

func TestDoublePopDiscardsSubtree(t *testing.T) {
	s := New()
	s.Blow(99)
	s.BlowAwascii([]Value{1, 2, 3})
	if !s.DoublePop() {
		t.Fatal("DoublePop failed")
	}
	if got := s.String(); got != "99\n" {
		t.Fatalf("want only 99 left, got %q", got)
	}
}

func TestDuplicateIsDeepAndIndependent(t *testing.T) {
	s := New()
	s.BlowAwascii([]Value{1, 2})
	if !s.Duplicate() {
		t.Fatal("Duplicate failed")
	}
	if got := s.String(); got != "[1, 2]\n[1, 2]\n" {
		t.Fatalf("want two identical doubles, got %q", got)
	}
	// Popping the top copy must not disturb the original beneath it.
	if !s.Pop() {
		t.Fatal("Pop failed")
	}
	if got := s.String(); got != "1\n2\n[1, 2]\n" {
		t.Fatalf("want original double intact after popping the copy, got %q", got)
	}
}

func TestSurroundZeroIsNoOp(t *testing.T) {
	s := New()
	s.Blow(1)
	s.Blow(2)
	if !s.Surround(0) {
		t.Fatal("Surround(0) should succeed as a no-op")
	}
	if got := s.String(); got != "2\n1\n" {
		t.Fatalf("Surround(0) must not change state, got %q", got)
	}
}

func TestSurroundWrapsTopN(t *testing.T) {
	s := New()
	s.Blow(1)
	s.Blow(2)
	s.Blow(3)
	if !s.Surround(2) {
		t.Fatal("Surround(2) failed")
	}
	if got := s.String(); got != "[3, 2]\n1\n" {
		t.Fatalf("unexpected state: %q", got)
	}
}

func TestMergeSingleSingle(t *testing.T) {
	s := New()
	s.Blow(1)
	s.Blow(2)
	if !s.Merge() {
		t.Fatal("Merge failed")
	}
	if got := s.String(); got != "[2, 1]\n" {
		t.Fatalf("unexpected state: %q", got)
	}
}

func TestMergeLawCountAfterMerge(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Store)
		want  Value
	}{
		{"single+single", func(s *Store) { s.Blow(1); s.Blow(2) }, 2},
		{"single+double", func(s *Store) { s.BlowAwascii([]Value{1, 2}); s.Blow(3) }, 3},
		{"double+single", func(s *Store) { s.Blow(3); s.BlowAwascii([]Value{1, 2}) }, 3},
		{"double+double", func(s *Store) {
			s.BlowAwascii([]Value{1, 2})
			s.BlowAwascii([]Value{3, 4})
		}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.setup(s)
			if !s.Merge() {
				t.Fatal("Merge failed")
			}
			if !s.Count() {
				t.Fatal("Count failed")
			}
			got, ok := s.Test(func(a, b Value) bool { return true })
			_ = got
			if !ok {
				t.Fatal("Test precondition failed")
			}
			top, _ := s.arena.Get(s.top)
			if top.value != tt.want {
				t.Fatalf("want count %d, got %d", tt.want, top.value)
			}
		})
	}
}

func TestCombineSingleSingleSingle(t *testing.T) {
	s := New()
	s.Blow(3)
	s.Blow(4)
	if !s.CombineSingle(func(a, b Value) Value { return a + b }) {
		t.Fatal("CombineSingle failed")
	}
	if got := s.String(); got != "7\n" {
		t.Fatalf("want 7, got %q", got)
	}
}

func TestCombineSingleBroadcastSingleDouble(t *testing.T) {
	s := New()
	s.BlowAwascii([]Value{1, 2, 3})
	s.Blow(10)
	if !s.CombineSingle(func(a, b Value) Value { return a + b }) {
		t.Fatal("CombineSingle failed")
	}
	if got := s.String(); got != "[11, 12, 13]\n" {
		t.Fatalf("want broadcast sum, got %q", got)
	}
}

func TestCombineSingleBroadcastDoubleSingle(t *testing.T) {
	s := New()
	s.Blow(10)
	s.BlowAwascii([]Value{1, 2, 3})
	// top is the Double, second is the Single 10: op(double_leaf, 10) per
	// the swapped orientation (Double L op Single R keeps L-R order).
	if !s.CombineSingle(func(a, b Value) Value { return a - b }) {
		t.Fatal("CombineSingle failed")
	}
	if got := s.String(); got != "[-9, -8, -7]\n" {
		t.Fatalf("want leaf-minus-single, got %q", got)
	}
}

func TestCombineSingleDoubleDoubleTruncatesToShorter(t *testing.T) {
	s := New()
	s.BlowAwascii([]Value{1, 2, 3, 4})
	s.BlowAwascii([]Value{10, 20})
	if !s.CombineSingle(func(a, b Value) Value { return a + b }) {
		t.Fatal("CombineSingle failed")
	}
	if got := s.String(); got != "[11, 22]\n" {
		t.Fatalf("want truncated pairwise sum, got %q", got)
	}
}

func TestCombineDoubleProducesPair(t *testing.T) {
	s := New()
	// top (lhs) ends up holding the most recently pushed value, so push the
	// dividend last: top=7, beneath=2.
	s.Blow(2)
	s.Blow(7)
	quotient := func(a, b Value) Value { return a / b }
	remainder := func(a, b Value) Value { return a % b }
	if !s.CombineDouble(quotient, remainder) {
		t.Fatal("CombineDouble failed")
	}
	if got := s.String(); got != "[3, 1]\n" {
		t.Fatalf("want [quotient, remainder], got %q", got)
	}
}

func TestTestDoesNotConsume(t *testing.T) {
	s := New()
	s.Blow(5)
	s.Blow(5)
	eq, ok := s.Test(func(a, b Value) bool { return a == b })
	if !ok || !eq {
		t.Fatal("want equal")
	}
	if got := s.String(); got != "5\n5\n" {
		t.Fatalf("Test must not remove operands, got %q", got)
	}
}

func TestConsumeTraversalOrder(t *testing.T) {
	s := New()
	s.BlowAwascii([]Value{1, 2, 3})
	var seen []Value
	ok, err := s.Consume(func(v Value) error {
		seen = append(seen, v)
		return nil
	})
	if !ok || err != nil {
		t.Fatalf("Consume failed: ok=%v err=%v", ok, err)
	}
	want := []Value{1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("want %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("want %v, got %v", want, seen)
		}
	}
	if !s.IsEmpty() {
		t.Fatal("Consume must remove the top bubble")
	}
}

func TestSubmergeToBottom(t *testing.T) {
	s := New()
	s.Blow(1)
	s.Blow(2)
	s.Blow(3)
	if !s.Submerge(0) {
		t.Fatal("Submerge failed")
	}
	if got := s.String(); got != "2\n1\n3\n" {
		t.Fatalf("want 3 at the bottom, got %q", got)
	}
}
