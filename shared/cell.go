package shared

import (
	"io"
	"reflect"
)

// cell is the allocation shared by all handles cloned from one construction.
// It stores the value next to a plain (non-atomic) reference count and the
// options the allocation was created with.
type cell[T any] struct {
	val T

	// Number of live handles. Only touched from the owning goroutine.
	refs int

	opt Options[T]
}

func newCell[T any](v T, opt Options[T]) *cell[T] {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	opt.Metrics.Alloc()
	return &cell[T]{val: v, refs: 1, opt: opt}
}

// retain registers one more owner.
func (c *cell[T]) retain() {
	c.refs++
	c.opt.Metrics.Clone()
}

// release drops one owner and drops the value when it was the last one.
func (c *cell[T]) release() {
	c.refs--
	c.opt.Metrics.Release(c.refs)
	if c.refs == 0 {
		c.drop()
	}
}

// drop runs the cleanup hook and zeroes the stored value so that anything
// it references becomes collectable even if a stale pointer to the cell
// survives somewhere.
func (c *cell[T]) drop() {
	v := c.val
	var zero T
	c.val = zero

	if cb := c.opt.OnDrop; cb != nil {
		cb(v)
	} else {
		dropValue(v, c.opt.OnCloseError)
	}
	c.opt.Metrics.Drop()
}

// dropValue calls Drop or Close on v, checking the value first and then its
// address so both value and pointer receivers are found. A nil value has
// nothing to clean up and is skipped.
func dropValue[T any](v T, onErr func(error)) {
	if isNil(v) {
		return
	}
	for _, x := range []any{v, &v} {
		switch d := x.(type) {
		case Dropper:
			d.Drop()
			return
		case io.Closer:
			if err := d.Close(); err != nil && onErr != nil {
				onErr(err)
			}
			return
		}
	}
}

// isNil reports whether v is nil, including typed nil pointers, maps,
// slices, funcs and chans stored behind a non-interface T.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
