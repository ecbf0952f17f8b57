package epub

import (
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/klauspost/compress/flate"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// deflater compresses entries at a fixed level, reusing flate writers
// across entries and directories. flate.Writer allocations are expensive
// relative to book-sized payloads, and Reset cannot change the level, so
// the pool is per-deflater.
type deflater struct {
	level int
	pool  sync.Pool
}

func newDeflater(level int) *deflater {
	return &deflater{level: level}
}

// compress deflates a single entry and records the metadata the container
// needs: CRC-32 of the raw content, raw and compressed sizes, and the
// entry's ordinal for fan-in reordering.
func (d *deflater) compress(e Entry, ordinal int) (CompressedEntry, error) {
	var buf bytes.Buffer
	buf.Grow(len(e.Data)/2 + 64)

	fw, _ := d.pool.Get().(*flate.Writer)
	if fw == nil {
		var err error
		fw, err = flate.NewWriter(&buf, d.level)
		if err != nil {
			return CompressedEntry{}, fmt.Errorf("deflate %s: %w: %v", e.Path, ErrCompression, err)
		}
	} else {
		fw.Reset(&buf)
	}

	if _, err := fw.Write(e.Data); err != nil {
		return CompressedEntry{}, fmt.Errorf("deflate %s: %w: %v", e.Path, ErrCompression, err)
	}
	if err := fw.Close(); err != nil {
		return CompressedEntry{}, fmt.Errorf("deflate %s: %w: %v", e.Path, ErrCompression, err)
	}
	d.pool.Put(fw)

	return CompressedEntry{
		Path:           e.Path,
		Method:         MethodDeflate,
		Data:           buf.Bytes(),
		RawSize:        uint64(len(e.Data)),
		CompressedSize: uint64(buf.Len()),
		CRC32:          crc32.ChecksumIEEE(e.Data),
		Ordinal:        ordinal,
	}, nil
}

// compressAll fans the non-anchor entries out across the shared
// compression pool and collects results back into collection order.
//
// Each worker writes its result into the slot matching the entry's
// ordinal, so no cross-worker reordering is needed afterwards; the
// returned slice is already order-restored. Ordinal 0 belongs to the
// anchor, which never passes through this stage, so entries[i] carries
// ordinal i+1.
//
// The first failure cancels the group; submission stops as soon as the
// pool acquire observes the cancellation.
func (d *deflater) compressAll(ctx context.Context, pool *semaphore.Weighted, entries []Entry) ([]CompressedEntry, error) {
	results := make([]CompressedEntry, len(entries))
	g, ctx := errgroup.WithContext(ctx)

	var acquireErr error
	for i := range entries {
		if err := pool.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		g.Go(func() error {
			defer pool.Release(1)
			ce, err := d.compress(entries[i], i+1)
			if err != nil {
				return err
			}
			results[i] = ce
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if acquireErr != nil {
		return nil, acquireErr
	}
	return results, nil
}
