package shared

// NoopMetrics ignores every lifecycle signal. Allocations created without
// Options.Metrics report to it.
type NoopMetrics struct{}

func (NoopMetrics) Alloc()      {}
func (NoopMetrics) Clone()      {}
func (NoopMetrics) Release(int) {}
func (NoopMetrics) Drop()       {}

var _ Metrics = NoopMetrics{}
