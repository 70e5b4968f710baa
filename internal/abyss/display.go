package abyss

import (
	"strconv"
	"strings"

	"awa5/internal/arena"
)

// String renders the top-level chain, one line per bubble: a Single prints
// its raw value, a Double prints its children bracketed and comma-joined
// (spec.md supplemented feature 2, grounded on the Rust `Display` impl).
func (s *Store) String() string {
	var b strings.Builder
	cur := s.top
	for cur != arena.Nil {
		cur = writeBubble(s.arena, cur, &b)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatValue(v Value) string {
	return strconv.FormatInt(v, 10)
}

func writeBubble(a *arena.Arena[bubble], h arena.Handle, b *strings.Builder) arena.Handle {
	node, _ := a.Get(h)
	if node.shape == single {
		b.WriteString(strconv.FormatInt(node.value, 10))
		return node.next
	}
	b.WriteByte('[')
	cur := node.innerFirst
	first := true
	for cur != arena.Nil {
		if !first {
			b.WriteString(", ")
		}
		first = false
		cur = writeBubble(a, cur, b)
	}
	b.WriteByte(']')
	return node.next
}
