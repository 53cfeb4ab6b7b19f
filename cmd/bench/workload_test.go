package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	pmet "github.com/IvanBrykalov/sharedref/metrics/prom"
	"github.com/IvanBrykalov/sharedref/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVecWorkloads_Checksum(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	c.Assert(sharedVec(10, shared.NoopMetrics{}), qt.Equals, 90)
	c.Assert(dataVec(10), qt.Equals, 90)
	c.Assert(sharedVec(1, shared.NoopMetrics{}), qt.Equals, 0)
}

func TestSharedVec_ReleasesEverything(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	reg := prometheus.NewRegistry()
	m := pmet.New(reg, "t", "vec", nil)
	sharedVec(100, m)

	want := `
# HELP t_vec_allocations_total Allocations created by New
# TYPE t_vec_allocations_total counter
t_vec_allocations_total 100
# HELP t_vec_clones_total Handles created by Clone
# TYPE t_vec_clones_total counter
t_vec_clones_total 100
# HELP t_vec_drops_total Allocations dropped after their last release
# TYPE t_vec_drops_total counter
t_vec_drops_total 100
# HELP t_vec_live_handles Live handles across all allocations
# TYPE t_vec_live_handles gauge
t_vec_live_handles 0
`
	c.Assert(testutil.GatherAndCompare(reg, strings.NewReader(want),
		"t_vec_allocations_total", "t_vec_clones_total", "t_vec_drops_total", "t_vec_live_handles",
	), qt.IsNil)
}

func TestRunWorkers(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	cfg := config{Size: 50, Iterations: 20, Workers: 4, Mode: modeBoth}
	for _, mode := range cfg.modes() {
		res, err := runWorkers(context.Background(), mode, cfg, shared.NoopMetrics{})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Mode, qt.Equals, mode)
		c.Assert(res.Ops, qt.Equals, int64(80))
	}
}

func TestRunWorkers_Cancelled(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config{Size: 10, Iterations: 1000, Workers: 2, Mode: modeShared}
	res, err := runWorkers(ctx, modeShared, cfg, shared.NoopMetrics{})
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(res.Ops, qt.Equals, int64(0))
}

func TestRunBench_Output(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	var out bytes.Buffer
	cfg := config{Size: 8, Iterations: 3, Workers: 2, Mode: modeBoth}
	c.Assert(runBench(context.Background(), cfg, discardLogger(), &out), qt.IsNil)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	c.Assert(lines, qt.HasLen, 2)
	c.Assert(lines[0], qt.Matches, `mode=shared size=8 workers=2 ops=6 .*`)
	c.Assert(lines[1], qt.Matches, `mode=data size=8 workers=2 ops=6 .*`)
}
