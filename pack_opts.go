package epub

import "log/slog"

// packConfig holds configuration for a Packager.
type packConfig struct {
	level      int
	exclude    []ExcludeFunc
	maxEntries int
	dryRun     bool
	logger     *slog.Logger
}

// PackOption configures a Packager.
type PackOption func(*packConfig)

// PackWithCompressionLevel sets the deflate level for non-anchor entries,
// 1 (fastest) to 9 (best). The default is DefaultCompressionLevel; a fixed
// level keeps output containers deterministic run to run.
func PackWithCompressionLevel(level int) PackOption {
	return func(cfg *packConfig) {
		cfg.level = level
	}
}

// PackWithExclude adds predicates that drop files from collection, for
// vendor metadata the container must not carry.
func PackWithExclude(fns ...ExcludeFunc) PackOption {
	return func(cfg *packConfig) {
		cfg.exclude = append(cfg.exclude, fns...)
	}
}

// PackWithMaxEntries limits the number of files packed from one directory.
// Zero uses DefaultMaxEntries. Negative means no limit.
func PackWithMaxEntries(n int) PackOption {
	return func(cfg *packConfig) {
		cfg.maxEntries = n
	}
}

// PackWithDryRun runs the full collect/compress/validate/serialize path
// but discards the output bytes instead of persisting them.
func PackWithDryRun(dryRun bool) PackOption {
	return func(cfg *packConfig) {
		cfg.dryRun = dryRun
	}
}

// PackWithLogger sets the logger for packaging operations.
// If not set, logging is disabled.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(cfg *packConfig) {
		cfg.logger = logger
	}
}
