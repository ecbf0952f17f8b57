package epub

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxExports is the default cap on containers produced per run.
// Zero disables the cap.
const DefaultMaxExports = 5

// Runner converts many source package directories, bounded by the shared
// pools it was constructed with. Directories are independent: they may
// finish in any order and one failure never aborts the others.
type Runner struct {
	packager   *Packager
	maxExports int
	shuffle    bool
	dirWorkers int
	logger     *slog.Logger
}

// NewRunner creates a Runner drawing on the given pools.
func NewRunner(pools *Pools, opts ...RunOption) *Runner {
	cfg := runConfig{maxExports: DefaultMaxExports}
	for _, opt := range opts {
		opt(&cfg)
	}
	dirWorkers := cfg.dirWorkers
	if dirWorkers <= 0 {
		dirWorkers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		packager:   NewPackager(pools, cfg.packOpts...),
		maxExports: cfg.maxExports,
		shuffle:    cfg.shuffle,
		dirWorkers: dirWorkers,
		logger:     cfg.logger,
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Runner) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Run converts each source directory into a container under outDir, named
// after the directory's base name. When the export cap is set, at most
// that many directories are ever submitted; in-flight work always drains
// to a terminal state. Results are returned in submission order,
// independent of completion order, one per submitted directory.
func (r *Runner) Run(ctx context.Context, sourceDirs []string, outDir string) []BuildResult {
	dirs := slices.Clone(sourceDirs)
	if r.maxExports > 0 {
		if r.shuffle {
			rand.Shuffle(len(dirs), func(i, j int) {
				dirs[i], dirs[j] = dirs[j], dirs[i]
			})
		}
		if len(dirs) > r.maxExports {
			r.log().Info("limiting run", "available", len(dirs), "max_exports", r.maxExports)
			dirs = dirs[:r.maxExports]
		}
	}

	results := make([]BuildResult, len(dirs))
	g := new(errgroup.Group)
	g.SetLimit(r.dirWorkers)
	for i, dir := range dirs {
		g.Go(func() error {
			results[i] = r.packager.Pack(ctx, dir, OutputPath(outDir, dir))
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers fold failures into their BuildResult

	return results
}

// OutputPath derives the container path for a source directory: outDir
// joined with the directory's base name, surrounding whitespace trimmed.
// iBooks package directories already carry the .epub suffix, so the name
// is used as-is.
func OutputPath(outDir, sourceDir string) string {
	return filepath.Join(outDir, strings.TrimSpace(filepath.Base(sourceDir)))
}
