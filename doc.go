// Package epub converts directory-based EPUB packages into spec-compliant
// zip containers.
//
// A source package is a directory holding the book's files, one of which
// must be named "mimetype" and declare the EPUB media type. The produced
// container is a zip archive whose first entry is that mimetype file,
// stored uncompressed, followed by every other file deflate-compressed,
// closed by the usual central directory. Most readers reject containers
// that violate the first-entry rule, so the engine treats it as a hard
// invariant and preserves it under full parallelism.
//
// # Quick Start
//
// Pack a single package directory:
//
//	pools := epub.NewPools(0, 0) // auto-sized compression and write pools
//	p := epub.NewPackager(pools)
//	res := p.Pack(ctx, "./My Book.epub", "./out/My Book.epub")
//	if res.Err != nil {
//	    return res.Err
//	}
//
// Convert many packages concurrently, capped at five containers:
//
//	r := epub.NewRunner(pools, epub.RunWithMaxExports(5))
//	results := r.Run(ctx, dirs, "./out")
//
// Entries within one directory are compressed in parallel across the
// compression pool; the writer reassembles them in collection order, so
// output containers are deterministic for a given source tree. Failures
// are isolated per directory: one bad package marks only its own
// BuildResult as failed.
package epub
