package abyss

// Interface is the operation set every Abyss implementation exposes
// (spec.md §4.2). BufferedAbyss wraps one to defer work onto it.
type Interface interface {
	IsEmpty() bool
	Blow(v Value)
	BlowAwascii(values []Value)
	BlowMany(values []Value)
	BlowDouble(values []Value)
	Submerge(distance int) bool
	Pop() bool
	DoublePop() bool
	Duplicate() bool
	Surround(count int) bool
	Merge() bool
	Count() bool
	CombineSingle(op func(a, b Value) Value) bool
	CombineDouble(op1, op2 func(a, b Value) Value) bool
	Test(pred func(a, b Value) bool) (bool, bool)
	Consume(fn func(Value) error) (bool, error)
	String() string
}

var (
	_ Interface = (*Store)(nil)
	_ Interface = (*Buffered)(nil)
)
