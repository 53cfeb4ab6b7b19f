package shared

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// ErrReleased is the panic value raised when a released handle is used to
// reach the wrapped value. It signals a caller logic error.
var ErrReleased = errors.New("shared: use of released handle")

// Handle is an owning, cloneable, reference-counted handle to one
// interior-mutable value of type T.
//
// Handles are not safe for concurrent use; see the package documentation
// for the single-borrower precondition.
type Handle[T any] struct {
	_ noCopy

	c *cell[T] // nil once released
}

// noCopy makes `go vet` (copylocks) report copies of a Handle value.
// A copied Handle would be a second owner that Clone never counted.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New allocates storage for value and returns its first handle (count = 1).
func New[T any](value T) *Handle[T] {
	return NewWithOptions(value, Options[T]{})
}

// NewWithOptions is New with per-allocation options.
// Clones of the returned handle share opt.
func NewWithOptions[T any](value T, opt Options[T]) *Handle[T] {
	return fromCell(newCell(value, opt))
}

// From converts a bare value into a handle. It is equivalent to New.
func From[T any](value T) *Handle[T] { return New(value) }

// Default returns a handle around T's default value: the zero value, or
// the result of Default() when *T implements Defaulter[T].
// Every call makes a new allocation.
func Default[T any]() *Handle[T] {
	var v T
	if d, ok := any(&v).(Defaulter[T]); ok {
		v = d.Default()
	}
	return New(v)
}

// fromCell wraps an existing allocation without reallocating.
// The caller accounts for the reference it represents.
func fromCell[T any](c *cell[T]) *Handle[T] { return &Handle[T]{c: c} }

// ---- ownership ----

// Clone returns a new handle aliasing the same allocation and increments
// the shared reference count. The value is not copied.
func (h *Handle[T]) Clone() *Handle[T] {
	c := h.cell()
	c.retain()
	return fromCell(c)
}

// Release ends this handle. When it was the last handle of its allocation,
// the value is dropped. Releasing a handle twice is a no-op.
func (h *Handle[T]) Release() {
	if h == nil || h.c == nil {
		return
	}
	c := h.c
	h.c = nil
	c.release()
}

// Drop releases h. It makes *Handle a Dropper, so a handle stored inside
// another allocation is released when that allocation is dropped.
func (h *Handle[T]) Drop() { h.Release() }

// IsReleased reports whether Release was called on this handle.
func (h *Handle[T]) IsReleased() bool { return h == nil || h.c == nil }

// UseCount returns the number of live handles aliasing this allocation,
// including h. It returns 0 for a released handle.
func (h *Handle[T]) UseCount() int {
	if h.IsReleased() {
		return 0
	}
	return h.c.refs
}

// ---- access ----

// Get returns a pointer to the wrapped value, so the handle can be used
// as the value itself: h.Get().Field, *h.Get() += 1.
//
// The pointer is a mutable borrow. It must not be retained past the point
// where another borrow of the same allocation is taken, and it must not
// outlive the last handle.
func (h *Handle[T]) Get() *T { return &h.cell().val }

// Mut is the explicit mutable view of the wrapped value.
// The same borrow rules as Get apply.
func (h *Handle[T]) Mut() *T { return &h.cell().val }

// Load is the explicit read-only view: it returns a copy of the value.
func (h *Handle[T]) Load() T { return h.cell().val }

// Store replaces the wrapped value; every alias observes the new value.
func (h *Handle[T]) Store(v T) { h.cell().val = v }

// Update calls fn with the mutable view for the duration of the call.
// fn must not borrow the same allocation again.
func (h *Handle[T]) Update(fn func(v *T)) { fn(&h.cell().val) }

// cell returns the allocation or panics with ErrReleased.
func (h *Handle[T]) cell() *cell[T] {
	if h == nil || h.c == nil {
		panic(ErrReleased)
	}
	return h.c
}

// ---- identity ----

// Equal reports whether h and other reference the same allocation.
// It never compares the wrapped values: New(12).Equal(New(12)) is false.
func (h *Handle[T]) Equal(other *Handle[T]) bool {
	if h == other {
		return true
	}
	if h.IsReleased() || other.IsReleased() {
		return false
	}
	return h.c == other.c
}

// Addr returns the address of the allocation, a stable identity key for
// as long as any handle of it is live. It returns 0 for a released handle.
func (h *Handle[T]) Addr() uintptr {
	if h.IsReleased() {
		return 0
	}
	return uintptr(unsafe.Pointer(h.c))
}

// ---- formatting ----

// String formats the wrapped value, not the handle address.
// It is meant for diagnostics, not as a stable format.
func (h *Handle[T]) String() string {
	if h.IsReleased() {
		return "Shared { released }"
	}
	return fmt.Sprintf("Shared { data: %v }", h.c.val)
}

// GoString implements fmt.GoStringer (%#v) and includes the use count.
func (h *Handle[T]) GoString() string {
	if h.IsReleased() {
		return "Shared { released }"
	}
	return fmt.Sprintf("shared.Handle[%s]{refs: %d, value: %#v}",
		reflect.TypeFor[T](), h.c.refs, h.c.val)
}
