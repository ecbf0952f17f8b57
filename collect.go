package epub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ExcludeFunc reports whether a file should be left out of the collection.
// Predicates receive the slash-separated path relative to the package root.
// They are called once per file and should be inexpensive.
type ExcludeFunc func(path string, d fs.DirEntry) bool

// collectConfig holds configuration for directory collection.
type collectConfig struct {
	exclude    []ExcludeFunc
	maxEntries int
}

// CollectOption configures Collect.
type CollectOption func(*collectConfig)

// CollectWithExclude adds predicates that drop files from the collection.
// If any predicate returns true, the file is skipped. Vendor metadata
// filtering (plists, bookmarks) belongs here, upstream of the collector.
func CollectWithExclude(fns ...ExcludeFunc) CollectOption {
	return func(cfg *collectConfig) {
		cfg.exclude = append(cfg.exclude, fns...)
	}
}

// CollectWithMaxEntries limits the number of files collected from one
// directory. Zero uses DefaultMaxEntries. Negative means no limit.
func CollectWithMaxEntries(n int) CollectOption {
	return func(cfg *collectConfig) {
		cfg.maxEntries = n
	}
}

// Collect walks a source package directory and returns its files as an
// ordered sequence of entries: the anchor (the top-level mimetype file)
// first, then every other file in lexicographic path order.
//
// Collect walks dir recursively, including all regular files. Empty
// directories are not preserved. Symbolic links are not followed.
// File content is read eagerly so later stages never touch the source
// tree; memory use scales with package size.
//
// Collect fails with ErrMissingMimetype when the directory holds no
// top-level mimetype file, and with ErrPathCollision when two files map
// to the same case-folded entry name (the containers are routinely
// unpacked on case-insensitive filesystems).
func Collect(ctx context.Context, dir string, opts ...CollectOption) ([]Entry, error) {
	cfg := collectConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	maxEntries := cfg.maxEntries
	if maxEntries == 0 {
		maxEntries = DefaultMaxEntries
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	entries := make([]Entry, 0, 64)
	seen := make(map[string]string)

	err = fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if cfg.shouldExclude(path, d) {
			return nil
		}

		folded := strings.ToLower(path)
		if prev, ok := seen[folded]; ok {
			return fmt.Errorf("%w: %q and %q", ErrPathCollision, prev, path)
		}
		seen[folded] = path

		if maxEntries > 0 && len(entries) >= maxEntries {
			return ErrTooManyEntries
		}

		entry, err := readEntry(root, path)
		if err != nil {
			if errors.Is(err, ErrSymlink) {
				return nil
			}
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orderEntries(entries)
}

func (cfg *collectConfig) shouldExclude(path string, d fs.DirEntry) bool {
	for _, fn := range cfg.exclude {
		if fn == nil {
			continue
		}
		if fn(path, d) {
			return true
		}
	}
	return false
}

// readEntry loads one file's content through the package root.
func readEntry(root *os.Root, path string) (Entry, error) {
	fsPath := filepath.FromSlash(path)
	f, err := openFileNoFollow(root, fsPath)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, err
	}
	if !info.Mode().IsRegular() {
		return Entry{}, fmt.Errorf("not a regular file: %s", path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", path, err)
	}

	return Entry{
		Path:   path,
		Data:   data,
		Size:   info.Size(),
		Anchor: path == AnchorName,
	}, nil
}

// orderEntries sorts the collection anchor-first, the rest lexicographic.
func orderEntries(entries []Entry) ([]Entry, error) {
	anchorAt := -1
	for i := range entries {
		if entries[i].Anchor {
			anchorAt = i
			break
		}
	}
	if anchorAt < 0 {
		return nil, ErrMissingMimetype
	}

	anchor := entries[anchorAt]
	rest := slices.Delete(entries, anchorAt, anchorAt+1)
	slices.SortFunc(rest, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})

	ordered := make([]Entry, 0, len(rest)+1)
	ordered = append(ordered, anchor)
	ordered = append(ordered, rest...)
	return ordered, nil
}
