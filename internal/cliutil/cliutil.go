// internal/cliutil/cliutil.go
package cliutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// HasSuffixFold reports whether name ends with one of suffixes, ignoring case.
func HasSuffixFold(name string, suffixes ...string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// FindFiles walks root and returns, sorted, every regular file whose name
// ends with one of suffixes. Directories for which skip returns true are
// not descended into; files for which it returns true are left out.
func FindFiles(root string, skip func(path string) bool, suffixes ...string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if skip != nil && path != root && skip(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && HasSuffixFold(d.Name(), suffixes...) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

// SamePath reports whether a and b name the same location once cleaned and
// made absolute.
func SamePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
