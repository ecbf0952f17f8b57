package epub

import (
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"log/slog"
)

// Packager converts one source package directory into one container. It is
// safe for concurrent use; all Pack invocations draw from the shared pools
// it was constructed with.
type Packager struct {
	pools      *Pools
	deflate    *deflater
	exclude    []ExcludeFunc
	maxEntries int
	dryRun     bool
	logger     *slog.Logger
}

// NewPackager creates a Packager drawing on the given pools.
func NewPackager(pools *Pools, opts ...PackOption) *Packager {
	p := &Packager{
		pools: pools,
	}
	cfg := packConfig{level: DefaultCompressionLevel}
	for _, opt := range opts {
		opt(&cfg)
	}
	p.deflate = newDeflater(cfg.level)
	p.exclude = cfg.exclude
	p.maxEntries = cfg.maxEntries
	p.dryRun = cfg.dryRun
	p.logger = cfg.logger
	return p
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Packager) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Pack converts sourceDir into a container at outPath and reports the
// outcome. It never panics on a bad package and never aborts work for
// other directories; every failure is folded into the returned result.
//
// The conversion moves through collecting, compressing and assembling.
// Collection orders the entries anchor-first; compression fans the rest
// out across the compression pool and restores collection order on
// fan-in; assembly validates the anchor's declaration, builds its stored
// form and hands the full sequence to the single container writer.
func (p *Packager) Pack(ctx context.Context, sourceDir, outPath string) BuildResult {
	stage := StageCollecting
	fail := func(err error) BuildResult {
		p.log().Error("pack failed", "dir", sourceDir, "stage", stage, "err", err)
		return BuildResult{
			SourceDir:  sourceDir,
			OutputPath: outPath,
			Status:     StatusFailed,
			Stage:      stage,
			Err:        fmt.Errorf("pack %s: %w", sourceDir, err),
		}
	}

	entries, err := Collect(ctx, sourceDir,
		CollectWithExclude(p.exclude...),
		CollectWithMaxEntries(p.maxEntries),
	)
	if err != nil {
		return fail(err)
	}
	anchor, rest := entries[0], entries[1:]
	p.log().Debug("collected package", "dir", sourceDir, "entries", len(entries))

	stage = StageCompressing
	compressed, err := p.deflate.compressAll(ctx, p.pools.compress, rest)
	if err != nil {
		return fail(err)
	}

	stage = StageAssembling
	anchorEntry, err := storedAnchor(anchor)
	if err != nil {
		return fail(err)
	}
	sequence := make([]CompressedEntry, 0, len(compressed)+1)
	sequence = append(sequence, anchorEntry)
	sequence = append(sequence, compressed...)

	if err := writeContainer(ctx, p.pools.write, outPath, sequence, p.dryRun); err != nil {
		return fail(err)
	}

	p.log().Info("packed container", "dir", sourceDir, "out", outPath, "entries", len(sequence), "dry_run", p.dryRun)
	return BuildResult{
		SourceDir:  sourceDir,
		OutputPath: outPath,
		Status:     StatusSuccess,
		Stage:      StageDone,
		Entries:    len(sequence),
	}
}

// storedAnchor builds the anchor's stored container entry, validating that
// its payload declares the media type.
func storedAnchor(e Entry) (CompressedEntry, error) {
	if !bytes.Contains(e.Data, []byte(MediaType)) {
		return CompressedEntry{}, fmt.Errorf("%s: %w", e.Path, ErrInvalidMimetype)
	}
	n := uint64(len(e.Data))
	return CompressedEntry{
		Path:           e.Path,
		Method:         MethodStore,
		Data:           e.Data,
		RawSize:        n,
		CompressedSize: n,
		CRC32:          crc32.ChecksumIEEE(e.Data),
		Ordinal:        0,
	}, nil
}
