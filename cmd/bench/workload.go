package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	pmet "github.com/IvanBrykalov/sharedref/metrics/prom"
	"github.com/IvanBrykalov/sharedref/shared"
)

// result summarizes one workload run across all workers.
type result struct {
	Mode    string
	Ops     int64 // vector builds completed
	Elapsed time.Duration
}

// OpsPerSec returns the throughput of the run.
func (r result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// runBench runs every configured workload and prints one line per mode to out.
func runBench(ctx context.Context, cfg config, logger *slog.Logger, out io.Writer) error {
	reg := prometheus.NewRegistry()
	metrics := pmet.New(reg, "sharedref", "bench", nil)

	if cfg.HTTPAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics: serving", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	for _, mode := range cfg.modes() {
		logger.Debug("workload start", "mode", mode, "size", cfg.Size,
			"iterations", cfg.Iterations, "workers", cfg.Workers)
		res, err := runWorkers(ctx, mode, cfg, metrics)
		if err != nil {
			return fmt.Errorf("%s workload: %w", mode, err)
		}
		logger.Info("workload done", "mode", res.Mode, "ops", res.Ops, "elapsed", res.Elapsed)
		fmt.Fprintf(out, "mode=%s size=%d workers=%d ops=%d elapsed=%v (%.0f vec/s)\n",
			res.Mode, cfg.Size, cfg.Workers, res.Ops, res.Elapsed, res.OpsPerSec())
	}
	return nil
}

// runWorkers fans the workload out over cfg.Workers goroutines. Handles never
// cross goroutines: every worker builds, clones and releases its own.
func runWorkers(ctx context.Context, mode string, cfg config, m shared.Metrics) (result, error) {
	var ops atomic.Int64
	g, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			for i := 0; i < cfg.Iterations; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				var sum int
				switch mode {
				case modeShared:
					sum = sharedVec(cfg.Size, m)
				case modeData:
					sum = dataVec(cfg.Size)
				default:
					return fmt.Errorf("unknown mode %q", mode)
				}
				if want := cfg.Size * (cfg.Size - 1); sum != want {
					return fmt.Errorf("worker %d: checksum %d, want %d", w, sum, want)
				}
				ops.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	return result{Mode: mode, Ops: ops.Load(), Elapsed: time.Since(start)}, err
}

// sharedVec builds size handles, clones the vector (one Clone per handle)
// and releases both vectors. It returns the sum over both vectors.
func sharedVec(size int, m shared.Metrics) int {
	opt := shared.Options[int]{Metrics: m}

	vec := make([]*shared.Handle[int], size)
	for i := range vec {
		vec[i] = shared.NewWithOptions(i, opt)
	}
	clone := make([]*shared.Handle[int], len(vec))
	for i, h := range vec {
		clone[i] = h.Clone()
	}

	sum := 0
	for i := range vec {
		sum += vec[i].Load() + clone[i].Load()
		vec[i].Release()
		clone[i].Release()
	}
	return sum
}

// dataVec is the same workload on bare ints.
func dataVec(size int) int {
	vec := make([]int, size)
	for i := range vec {
		vec[i] = i
	}
	clone := slices.Clone(vec)

	sum := 0
	for i := range vec {
		sum += vec[i] + clone[i]
	}
	return sum
}
