package abyss

// BlowMany pushes each value as its own Single, in order, so the last
// element of values ends up on top (supplemented feature 3, grounded on
// the `impl_buffered!`/`impl_copied!` macros of the original source; used
// by BufferedAbyss to commit a pending Singles run).
func (s *Store) BlowMany(values []Value) {
	for _, v := range values {
		s.Blow(v)
	}
}

// BlowDouble pushes one Double wrapping one Single per value, front-to-back
// in source order — the same chain shape as BlowAwascii, generalised to
// any Value slice instead of only AwaSCII-derived ones. An empty slice
// pushes nothing (unlike BlowAwascii, which special-cases empty input for
// the Read instruction).
func (s *Store) BlowDouble(values []Value) {
	if len(values) == 0 {
		return
	}
	s.BlowAwascii(values)
}

// PopMany pops count times, stopping at the first failure. It reports
// whether all count pops succeeded; on partial failure the succeeded pops
// are not undone (a convenience wrapper, not an atomic instruction).
func (s *Store) PopMany(count int) bool {
	for i := 0; i < count; i++ {
		if !s.Pop() {
			return false
		}
	}
	return true
}

// DoublePopMany is PopMany using DoublePop.
func (s *Store) DoublePopMany(count int) bool {
	for i := 0; i < count; i++ {
		if !s.DoublePop() {
			return false
		}
	}
	return true
}

// DuplicateMany pushes count deep copies of the top bubble, most-recent on top.
func (s *Store) DuplicateMany(count int) bool {
	for i := 0; i < count; i++ {
		if !s.Duplicate() {
			return false
		}
	}
	return true
}

// MergeMany folds the top count+1 bubbles into one Double by repeated Merge.
func (s *Store) MergeMany(count int) bool {
	for i := 0; i < count; i++ {
		if !s.Merge() {
			return false
		}
	}
	return true
}
