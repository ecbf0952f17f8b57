package epub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/semaphore"
)

// writeContainer serializes one directory's complete, order-restored entry
// sequence into a zip container at outPath.
//
// The sequence invariants are validated before any byte is written, in
// dry-run mode included: the anchor leads, stored with equal sizes and the
// media type declaration in its payload; every other entry is deflated.
// Within one container writing is strictly sequential; the write pool only
// bounds how many containers are written at once across directories.
//
// In dry-run mode the same serialization runs against a discarded stream
// and nothing is persisted. On any failure no partial output is left: the
// container is written to a temp file and renamed into place only after a
// clean close.
func writeContainer(ctx context.Context, pool *semaphore.Weighted, outPath string, entries []CompressedEntry, dryRun bool) error {
	if err := validateSequence(entries); err != nil {
		return err
	}

	if err := pool.Acquire(ctx, 1); err != nil {
		return err
	}
	defer pool.Release(1)

	if dryRun {
		if err := serialize(io.Discard, entries); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		return nil
	}

	return writeContainerAtomic(outPath, entries)
}

// validateSequence enforces the container's structural rules on the entry
// sequence: anchor first, stored, declaring the media type; all following
// entries deflated.
func validateSequence(entries []CompressedEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty entry sequence", ErrWrite)
	}

	anchor := entries[0]
	if anchor.Path != AnchorName || anchor.Ordinal != 0 {
		return fmt.Errorf("%w: first entry is %q, want %q", ErrWrite, anchor.Path, AnchorName)
	}
	if anchor.Method != MethodStore || anchor.CompressedSize != anchor.RawSize {
		return fmt.Errorf("%w: anchor entry must be stored uncompressed", ErrWrite)
	}
	if !bytes.Contains(anchor.Data, []byte(MediaType)) {
		return ErrInvalidMimetype
	}

	for i, e := range entries[1:] {
		if e.Method != MethodDeflate {
			return fmt.Errorf("%w: entry %q is not deflated", ErrWrite, e.Path)
		}
		if e.Ordinal != i+1 {
			return fmt.Errorf("%w: entry %q out of order (ordinal %d at position %d)", ErrWrite, e.Path, e.Ordinal, i+1)
		}
	}
	return nil
}

// serialize writes the zip stream: a local header plus raw payload per
// entry, then the central directory on close. CreateRaw is used because
// payloads are already compressed; the writer must not recompress them.
func serialize(w io.Writer, entries []CompressedEntry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		fh := &zip.FileHeader{
			Name:               e.Path,
			Method:             zipMethod(e.Method),
			CRC32:              e.CRC32,
			CompressedSize64:   e.CompressedSize,
			UncompressedSize64: e.RawSize,
		}
		// Modified stays zero so no extra field is emitted; strict readers
		// expect the anchor's payload at a fixed offset after its header.
		ew, err := zw.CreateRaw(fh)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.Path, err)
		}
		if _, err := ew.Write(e.Data); err != nil {
			return fmt.Errorf("entry %s: %w", e.Path, err)
		}
	}
	return zw.Close()
}

func zipMethod(m Method) uint16 {
	if m == MethodStore {
		return zip.Store
	}
	return zip.Deflate
}

// writeContainerAtomic serializes to a temp file in the target directory
// and renames it into place, so a failed write never leaves a partial
// container behind.
func writeContainerAtomic(target string, entries []CompressedEntry) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".epub-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpPath := tmp.Name()

	if err := serialize(tmp, entries); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
