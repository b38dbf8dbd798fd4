// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files
// ending with one of the extensions. It returns their full paths in lexical
// order.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasExtension(d.Name(), extensions) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// CollectFiles expands every path into the matching files beneath it. A path
// naming a file is kept when its extension matches. Each file appears once,
// in the order first reached. A path that does not exist is an error.
func CollectFiles(paths []string, extensions ...string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		all = append(all, clean)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if hasExtension(path, extensions) {
				add(path)
			}
			continue
		}

		found, err := FindFilesByExtension(path, extensions...)
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
