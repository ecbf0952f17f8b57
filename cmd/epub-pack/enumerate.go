package main

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// collectPackageDirs walks root and returns every directory whose name
// ends in ".epub", sorted. Matched directories are not descended into;
// a package never nests another package.
func collectPackageDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".epub") {
			dirs = append(dirs, path)
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

// excludeVendorFiles drops the iBooks bookkeeping files that must not
// ship in the container: property lists and reading-position bookmarks.
func excludeVendorFiles(path string, d fs.DirEntry) bool {
	name := d.Name()
	if strings.HasSuffix(name, ".plist") {
		return true
	}
	if strings.Contains(name, "bookmarks") {
		return true
	}
	return false
}
