// Package reg provides the double-buffered storage primitives that model
// hardware-register semantics: combinational logic reads the stable
// current value while separately computing the next one, and the pending
// value becomes visible only on an explicit commit.
package reg

// Register is an atomic current/pending storage cell. The pending value
// is not reset to current each cycle; it keeps whatever was last staged,
// so idle commits are idempotent.
type Register[T any] struct {
	current T
	pending T
}

// NewRegister creates a register with both current and pending set to v.
func NewRegister[T any](v T) *Register[T] {
	return &Register[T]{current: v, pending: v}
}

// Get returns the committed value.
func (r *Register[T]) Get() T {
	return r.current
}

// PeekPending returns the staged value. Before any SetPending in the
// current cycle this is whatever was left over from the previous cycle,
// not the current value.
func (r *Register[T]) PeekPending() T {
	return r.pending
}

// SetPending stages a value with no visible effect until Commit.
func (r *Register[T]) SetPending(v T) {
	r.pending = v
}

// Commit atomically moves pending into current.
func (r *Register[T]) Commit() {
	r.current = r.pending
}

// File is the general-purpose register file: 32 double-buffered word
// registers. Register 0 is hardwired to zero; staged writes to it are
// accepted but have no observable effect after commit.
type File struct {
	regs [32]Register[uint32]
}

// NewFile creates a register file with all registers zero.
func NewFile() *File {
	return &File{}
}

// Read returns the committed value of a register. Register 0 reads 0.
func (f *File) Read(index uint8) uint32 {
	if index == 0 {
		return 0
	}
	return f.regs[index].Get()
}

// SetPending stages a value into a register. Only the retiring stage
// calls this; the staged value is visible system-wide from the next
// cycle's compute phase onward.
func (f *File) SetPending(index uint8, value uint32) {
	f.regs[index].SetPending(value)
}

// CommitAll commits every register. Only the top-level sequencer issues
// the commit call, as part of the machine's single global commit point.
func (f *File) CommitAll() {
	for i := range f.regs {
		f.regs[i].Commit()
	}
}
