package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// fileFilter narrows discovered files by base-name glob patterns. An empty
// include list admits everything not excluded.
type fileFilter struct {
	include []string
	exclude []string
}

func (f fileFilter) admit(path string) bool {
	if !utils.IsSupportedImage(path) {
		return false
	}
	base := filepath.Base(path)
	if matchAny(f.exclude, base) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return matchAny(f.include, base)
}

func matchAny(patterns []string, base string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// discoverImageFiles expands the given paths into the list of measurable
// image files. Directory arguments are walked, recursing only when asked.
func discoverImageFiles(paths []string, recursive bool, filter fileFilter) ([]string, error) {
	var found []string
	for _, arg := range paths {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			if filter.admit(arg) {
				found = append(found, arg)
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if !recursive && path != arg {
					return filepath.SkipDir
				}
				return nil
			}
			if filter.admit(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return found, nil
}
