package epub

import "log/slog"

// runConfig holds configuration for a Runner.
type runConfig struct {
	maxExports int
	shuffle    bool
	dirWorkers int
	packOpts   []PackOption
	logger     *slog.Logger
}

// RunOption configures a Runner.
type RunOption func(*runConfig)

// RunWithMaxExports caps how many directories one run converts.
// Zero means unlimited. The default is DefaultMaxExports.
func RunWithMaxExports(n int) RunOption {
	return func(cfg *runConfig) {
		cfg.maxExports = n
	}
}

// RunWithShuffle randomizes which directories are picked when the export
// cap truncates the input, so repeated capped runs sample different books.
// Off by default; capped runs then take the first directories in input
// order, which keeps runs deterministic.
func RunWithShuffle(shuffle bool) RunOption {
	return func(cfg *runConfig) {
		cfg.shuffle = shuffle
	}
}

// RunWithDirWorkers bounds how many directories are converted at once.
// Non-positive values default to GOMAXPROCS. The compression and write
// pools still bound the actual work; this only caps collection memory.
func RunWithDirWorkers(n int) RunOption {
	return func(cfg *runConfig) {
		cfg.dirWorkers = n
	}
}

// RunWithPackOptions forwards options to the Runner's Packager.
func RunWithPackOptions(opts ...PackOption) RunOption {
	return func(cfg *runConfig) {
		cfg.packOpts = append(cfg.packOpts, opts...)
	}
}

// RunWithLogger sets the logger for run-level events. The same logger is
// handed to the Packager unless PackWithLogger overrides it.
// If not set, logging is disabled.
func RunWithLogger(logger *slog.Logger) RunOption {
	return func(cfg *runConfig) {
		cfg.logger = logger
		cfg.packOpts = append([]PackOption{PackWithLogger(logger)}, cfg.packOpts...)
	}
}
