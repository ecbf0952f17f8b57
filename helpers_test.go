package epub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestFiles writes the given path→content map under dir, creating
// parent directories as needed.
func createTestFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// packageFiles is a minimal but realistic epub package layout.
func packageFiles() map[string]string {
	return map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?><container version="1.0"/>`,
		"OPS/content.opf":        `<?xml version="1.0"?><package version="3.0"/>`,
		"OPS/chapter1.xhtml":     "<html><body><p>It was a dark and stormy night.</p></body></html>",
		"OPS/chapter2.xhtml":     "<html><body><p>The rest is history.</p></body></html>",
		"OPS/style.css":          "body { margin: 1em; }",
	}
}

// newPackageDir builds a package directory from files in a temp dir.
func newPackageDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	createTestFiles(t, dir, files)
	return dir
}
