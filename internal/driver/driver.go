// Copyright 2024 The blacken-docs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package driver runs the scan, format, and splice pipeline over files
// on disk.
package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	blackendocs "github.com/Gobot1234/blacken-docs"
	"github.com/Gobot1234/blacken-docs/formatter"
)

// FormatOptions configures document formatting.
type FormatOptions struct {
	// Check reports whether files would change without writing them.
	Check bool
	// Diff captures a unified diff for each changed file instead of
	// writing it back.
	Diff bool
	// Jobs is the number of files processed concurrently. Values below
	// one mean sequential processing.
	Jobs int
	// Extensions selects which files directory walks pick up.
	// Defaults to .md, .markdown, .rst, and .tex.
	Extensions []string

	Registry *formatter.Registry
	Scan     blackendocs.ScanConfig
}

// DefaultExtensions are the documentation file extensions collected
// when walking directories.
var DefaultExtensions = []string{".md", ".markdown", ".rst", ".tex"}

// BlockError is a formatting failure for one code block.
type BlockError struct {
	Line int
	Err  error
}

// FormatResult captures the result of processing a single file.
// Blocks holds per-block formatting failures; those never abort the
// file. Err is set only when the file itself could not be read or
// written back.
type FormatResult struct {
	Path    string
	Changed bool
	Diff    string
	Blocks  []BlockError
	Err     error
}

// FormatPaths formats the code blocks in the given files or
// directories (recursively collecting documentation files by
// extension). Results are returned in sorted path order regardless of
// how many files run concurrently.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	files, err := collectDocFiles(ctx, paths, exts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no documentation files found")
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	results := make([]FormatResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatSingleFile(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func formatSingleFile(ctx context.Context, path string, opts FormatOptions) FormatResult {
	res := FormatResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	src := string(data)

	out, blockErrs := blackendocs.FormatString(ctx, src, opts.Registry, opts.Scan)
	for _, be := range blockErrs {
		res.Blocks = append(res.Blocks, BlockError{
			Line: blackendocs.LineOf(src, be.Offset),
			Err:  be.Err,
		})
	}
	res.Changed = out != src
	if !res.Changed {
		return res
	}

	if opts.Diff {
		res.Diff, res.Err = unifiedDiff(path, src, out)
		return res
	}
	if opts.Check {
		return res
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, []byte(out), mode.Perm()); err != nil {
		res.Err = err
	}
	return res
}

func unifiedDiff(path, a, b string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
}

func collectDocFiles(ctx context.Context, paths, exts []string) ([]string, error) {
	extSet := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			// Explicit files are taken as given, whatever their extension.
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := extSet[strings.ToLower(filepath.Ext(path))]; ok {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
