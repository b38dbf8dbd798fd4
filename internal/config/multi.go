package config

import (
	"context"
	"strings"

	"github.com/specialistvlad/passorder/internal/fsutil"
)

// Format binds a loader to the file extensions it reads.
type Format struct {
	Extensions []string
	Loader     Loader
}

func (f Format) matches(file string) bool {
	for _, ext := range f.Extensions {
		if strings.HasSuffix(file, ext) {
			return true
		}
	}
	return false
}

// MultiLoader reads manifests of several formats. Files are collected once
// across all paths and handed one at a time to the first format claiming
// their extension, so plugins keep the order of the paths and files that
// declare them whatever their format.
type MultiLoader []Format

// Load implements Loader.
func (m MultiLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	var exts []string
	for _, f := range m {
		exts = append(exts, f.Extensions...)
	}
	files, err := fsutil.CollectFiles(paths, exts...)
	if err != nil {
		return nil, err
	}

	model := &Model{}
	for _, file := range files {
		for _, f := range m {
			if !f.matches(file) {
				continue
			}
			part, err := f.Loader.Load(ctx, file)
			if err != nil {
				return nil, err
			}
			model.Merge(part)
			break
		}
	}
	return model, nil
}
