package shared

// Metrics exposes handle lifecycle hooks.
// A NoopMetrics implementation is provided and used by default.
// Implementations may be shared by handles living on different goroutines,
// so they must be safe for concurrent use.
type Metrics interface {
	// Alloc is called when New allocates fresh storage.
	Alloc()
	// Clone is called when a new alias of an existing allocation is made.
	Clone()
	// Release is called when a handle is released; refs is the remaining count.
	Release(refs int)
	// Drop is called once, when the last handle of an allocation is released.
	Drop()
}

// Dropper is implemented by values that want to run cleanup when the last
// handle referencing them is released.
type Dropper interface{ Drop() }

// Defaulter is implemented (on the pointer receiver) by types whose default
// value differs from the Go zero value. Default uses it when present.
type Defaulter[T any] interface{ Default() T }

// Options configures an allocation. Zero values are safe;
// defaults are applied in NewWithOptions():
//   - nil Metrics => NoopMetrics
//   - nil OnDrop  => Drop()/Close() on the value when implemented
//
// Clones share the options of the allocation they alias.
type Options[T any] struct {
	// OnDrop is called with the value when the last handle is released.
	// When set, Dropper/io.Closer are not consulted.
	OnDrop func(v T)

	// OnCloseError receives the error returned by Close when the value is an
	// io.Closer dropped without an OnDrop hook. Nil discards the error.
	OnCloseError func(err error)

	// Metrics receives lifecycle signals; nil => NoopMetrics.
	Metrics Metrics
}
