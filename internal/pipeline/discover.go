package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/backmassage/muxsweep/internal/naming"
)

// Discover walks inputDir and returns every regular, non-hidden file,
// sorted lexicographically for deterministic processing order. Unreadable
// entries do not stop the walk; their errors are joined into the returned
// error alongside the files that were found.
func Discover(inputDir string) ([]string, error) {
	var files []string
	var errs []error
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inputDir {
				return err
			}
			errs = append(errs, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if naming.IsHidden(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", inputDir, err)
	}
	sort.Strings(files)
	return files, errors.Join(errs...)
}
