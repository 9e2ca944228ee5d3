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

// Package formatter adapts code formatters for use on blocks extracted
// from documentation files.
package formatter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go/format"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/pretty"
)

// A Formatter reformats one block of source code. Format returns the
// canonical form of src, always ending in a newline, or an error
// describing why src could not be parsed.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Registry maps formatter language names to implementations.
type Registry struct {
	formatters map[string]Formatter
}

func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Default returns a registry with the built-in Go and JSON formatters.
func Default() *Registry {
	r := NewRegistry()
	r.Register("go", Go{})
	r.Register("json", JSON{})
	return r
}

// Register adds or replaces the formatter for a language name.
func (r *Registry) Register(lang string, f Formatter) {
	r.formatters[lang] = f
}

// Lookup returns the formatter for lang, or nil if none is registered.
func (r *Registry) Lookup(lang string) Formatter {
	return r.formatters[lang]
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.formatters))
	for lang := range r.formatters {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Go formats Go source with gofmt's rules. A block may be a whole
// source file or a list of declarations or statements.
type Go struct{}

func (Go) Format(_ context.Context, src []byte) ([]byte, error) {
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("gofmt: %w", err)
	}
	return ensureFinalNewline(out), nil
}

// JSON pretty-prints JSON documents.
type JSON struct {
	// Indent is the indentation unit. Two spaces when empty.
	Indent string
}

func (f JSON) Format(_ context.Context, src []byte) ([]byte, error) {
	if !json.Valid(src) {
		return nil, errors.New("json: invalid document")
	}
	indent := f.Indent
	if indent == "" {
		indent = "  "
	}
	out := pretty.PrettyOptions(src, &pretty.Options{Width: 80, Indent: indent})
	return ensureFinalNewline(out), nil
}

// Command pipes blocks through an external formatter process. The
// process reads code on stdin and writes the result to stdout; a
// non-zero exit is treated as a syntax failure and its stderr becomes
// the diagnostic.
type Command struct {
	Path string
	Args []string
}

func (c *Command) Format(ctx context.Context, src []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = bytes.NewReader(src)
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		name := filepath.Base(c.Path)
		if msg := firstLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %s", name, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ensureFinalNewline(stdout.Bytes()), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ensureFinalNewline normalizes output to end with exactly one newline.
// Empty output stays empty.
func ensureFinalNewline(b []byte) []byte {
	b = bytes.TrimRight(b, "\n")
	if len(b) == 0 {
		return nil
	}
	return append(b, '\n')
}
