// Package shared provides Handle, a reference-counted, interior-mutable
// handle to a single value. Several owners can read and write the same
// logical value without any of them being the exclusive owner.
//
// Design
//
//   - Allocation: New stores the value in one heap allocation together
//     with a plain reference count. Clone hands out another *Handle that
//     aliases the same allocation and bumps the count; it never copies the
//     value.
//
//   - Visibility: every handle cloned from the same construction observes
//     the same value. A write through one handle is visible through all the
//     others immediately (no copy-on-write, no snapshots).
//
//   - Lifetime: Release ends one handle. When the last handle of an
//     allocation is released, the value is dropped: Options.OnDrop runs (or
//     Drop/Close when the value implements Dropper or io.Closer), the stored
//     value is zeroed and Metrics.Drop is reported.
//
//   - Identity: Equal compares allocations, not values. Two handles built
//     by two calls to New are never equal, even when their values are.
//
//   - Metrics: Options.Metrics receives Alloc/Clone/Release/Drop signals.
//     NoopMetrics is used by default; package metrics/prom exports them to
//     Prometheus.
//
// Basic usage
//
//	a := shared.New(0)
//	b := a.Clone()
//	*b.Get() = 5
//	_ = a.Load()     // 5
//	_ = a.UseCount() // 2
//	b.Release()
//	a.Release()      // last owner: value is dropped
//
// Convenience constructors
//
//	h := shared.Of("x")       // same as shared.New("x")
//	xs := shared.Ints(1, 2, 3) // *Handle[[]int]
//
// Thread-safety
//
// Handle is NOT safe for concurrent use. The reference count is a plain int
// and mutable access is not tracked at runtime. Callers must make sure that
// all handles of one allocation are used from one goroutine at a time and
// that no two mutable borrows (Get, Mut, Update) of the same value overlap.
// Violating this is a logic error with undefined results. To move a family
// of handles to another goroutine, publish them through a synchronizing
// operation (channel send, sync.WaitGroup) and stop using them on the
// sending side.
//
// Copying a *Handle pointer is a borrow, not a new owner. Use Clone for
// every owner that will call Release. Never copy the Handle struct itself
// (cp := *h): the copy would own a reference nobody counted. Handle embeds
// a noCopy marker so `go vet` reports such copies.
//
// A handle stored inside another handle's value is released when the outer
// allocation is dropped, because *Handle implements Dropper.
package shared
