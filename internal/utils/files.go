package utils

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// RoutesExt is the extension of declaration files.
const RoutesExt = ".routes"

// FindRoutesFiles recursively finds all .routes files under dir, skipping
// hidden, vendor and underscore-prefixed directories the way the go tool does.
func FindRoutesFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) == RoutesExt {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasPrefix(name, "_") ||
		name == "vendor" ||
		name == "testdata"
}
