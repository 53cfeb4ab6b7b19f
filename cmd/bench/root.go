package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Modes accepted by --mode.
const (
	modeShared = "shared"
	modeData   = "data"
	modeBoth   = "both"
)

// config is the resolved bench configuration (flags > env > config file > defaults).
type config struct {
	Size       int    `mapstructure:"size"`
	Iterations int    `mapstructure:"iterations"`
	Workers    int    `mapstructure:"workers"`
	Mode       string `mapstructure:"mode"`
	HTTPAddr   string `mapstructure:"http"`
	LogLevel   string `mapstructure:"log-level"`
}

func (c config) validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("size must be > 0, got %d", c.Size)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0, got %d", c.Iterations)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	switch c.Mode {
	case modeShared, modeData, modeBoth:
	default:
		return fmt.Errorf("unknown mode %q (use shared, data or both)", c.Mode)
	}
	return nil
}

// modes expands the configured mode into the workloads to run, in order.
func (c config) modes() []string {
	if c.Mode == modeBoth {
		return []string{modeShared, modeData}
	}
	return []string{c.Mode}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "bench",
		Short:         "Benchmark shared handle vectors against plain value vectors",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)
			return runBench(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.String("config", "", "config file (yaml)")
	f.Int("size", 1000, "elements per vector")
	f.Int("iterations", 10_000, "vector builds per worker")
	f.Int("workers", runtime.GOMAXPROCS(0), "worker goroutines, each with its own handles")
	f.String("mode", modeBoth, "workload: shared | data | both")
	f.String("http", "", "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")
	f.String("log-level", "info", "log level: debug | info | warn | error")

	return cmd
}

// loadConfig layers flags over SHARED_BENCH_* env vars over the optional
// config file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) (config, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config{}, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix("SHARED_BENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
