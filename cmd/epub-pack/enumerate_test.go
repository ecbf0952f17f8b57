package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectPackageDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, dir := range []string{
		"Zebra.epub",
		"Alpha.epub",
		"nested/Deep.epub",
		"NotABook",
		"Alpha.epub/inner.epub", // never reached: packages are not descended into
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}

	dirs, err := collectPackageDirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "Alpha.epub"),
		filepath.Join(root, "Zebra.epub"),
		filepath.Join(root, "nested", "Deep.epub"),
	}, dirs)
}

func TestCollectPackageDirsMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := collectPackageDirs(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestExcludeVendorFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	names := []string{
		"iTunesMetadata.plist",
		"com.apple.ibooks.display-options.plist",
		"bookmarks.xml",
		"mimetype",
		"OPS/chapter1.xhtml",
	}
	for _, name := range names {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}

	excluded := map[string]bool{}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		excluded[filepath.ToSlash(rel)] = excludeVendorFiles(rel, d)
		return nil
	})
	require.NoError(t, err)

	assert.True(t, excluded["iTunesMetadata.plist"])
	assert.True(t, excluded["com.apple.ibooks.display-options.plist"])
	assert.True(t, excluded["bookmarks.xml"])
	assert.False(t, excluded["mimetype"])
	assert.False(t, excluded["OPS/chapter1.xhtml"])
}
