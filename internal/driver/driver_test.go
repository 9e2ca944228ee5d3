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

package driver

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	blackendocs "github.com/Gobot1234/blacken-docs"
	"github.com/Gobot1234/blacken-docs/formatter"
)

func defaultOptions() FormatOptions {
	return FormatOptions{
		Registry: formatter.Default(),
		Scan:     blackendocs.DefaultScanConfig(),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatPathsWriteBack(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.md", "```go\nx  :=  1\n```\n")

	results, err := FormatPaths(context.Background(), []string{dir}, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d; want 1", len(results))
	}
	if !results[0].Changed {
		t.Error("Changed = false; want true")
	}
	if results[0].Err != nil {
		t.Errorf("Err = %v; want nil", results[0].Err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	const want = "```go\nx := 1\n```\n"
	if string(data) != want {
		t.Errorf("file content = %q; want %q", data, want)
	}

	// A second run finds nothing left to do.
	results, err = FormatPaths(context.Background(), []string{dir}, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Changed {
		t.Error("second run: Changed = true; want false")
	}
}

func TestFormatPathsCheck(t *testing.T) {
	dir := t.TempDir()
	const original = "```go\nx  :=  1\n```\n"
	path := writeFile(t, dir, "doc.md", original)

	opts := defaultOptions()
	opts.Check = true
	results, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Changed {
		t.Error("Changed = false; want true")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("check mode rewrote the file: %q", data)
	}
}

func TestFormatPathsDiff(t *testing.T) {
	dir := t.TempDir()
	const original = "```go\nx  :=  1\n```\n"
	path := writeFile(t, dir, "doc.md", original)

	opts := defaultOptions()
	opts.Diff = true
	results, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Diff == "" {
		t.Fatal("Diff is empty; want a unified diff")
	}
	if !strings.Contains(results[0].Diff, "-x  :=  1") || !strings.Contains(results[0].Diff, "+x := 1") {
		t.Errorf("Diff = %q; want removed and added lines", results[0].Diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("diff mode rewrote the file: %q", data)
	}
}

func TestFormatPathsBlockError(t *testing.T) {
	dir := t.TempDir()
	const original = "Intro.\n\n```go\nfunc  {\n```\n"
	path := writeFile(t, dir, "doc.md", original)

	results, err := FormatPaths(context.Background(), []string{path}, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	res := results[0]
	if len(res.Blocks) != 1 {
		t.Fatalf("len(Blocks) = %d; want 1", len(res.Blocks))
	}
	if res.Blocks[0].Line != 4 {
		t.Errorf("Blocks[0].Line = %d; want 4", res.Blocks[0].Line)
	}
	if res.Changed {
		t.Error("Changed = true; want false")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("file with broken block rewritten: %q", data)
	}
}

func TestFormatPathsJobs(t *testing.T) {
	dir := t.TempDir()
	var want []string
	for _, name := range []string{"a.md", "b.md", "c.md", "d.md"} {
		want = append(want, writeFile(t, dir, name, "```go\nx  :=  1\n```\n"))
	}

	opts := defaultOptions()
	opts.Jobs = 4
	results, err := FormatPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, res := range results {
		got = append(got, res.Path)
		if !res.Changed {
			t.Errorf("%s: Changed = false; want true", res.Path)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result order mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatPathsMissing(t *testing.T) {
	_, err := FormatPaths(context.Background(), []string{filepath.Join(t.TempDir(), "nope.md")}, defaultOptions())
	if err == nil {
		t.Fatal("FormatPaths on missing path: err = nil; want error")
	}
}

func TestFormatPathsNoDocs(t *testing.T) {
	_, err := FormatPaths(context.Background(), []string{t.TempDir()}, defaultOptions())
	if err == nil {
		t.Fatal("FormatPaths on empty dir: err = nil; want error")
	}
}

func TestCollectDocFiles(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "doc.md", "x\n")
	rst := writeFile(t, dir, "notes.rst", "x\n")
	tex := writeFile(t, dir, "paper.tex", "x\n")
	markdown := writeFile(t, dir, filepath.Join("sub", "readme.markdown"), "x\n")
	other := writeFile(t, dir, "main.go", "package main\n")

	got, err := collectDocFiles(context.Background(), []string{dir}, DefaultExtensions)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{md, rst, tex, markdown}
	sort.Strings(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collectDocFiles mismatch (-want +got):\n%s", diff)
	}

	// Explicit files are taken as given, whatever their extension.
	got, err = collectDocFiles(context.Background(), []string{other}, DefaultExtensions)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{other}, got); diff != "" {
		t.Errorf("explicit file mismatch (-want +got):\n%s", diff)
	}
}
