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

// Package blackendocs rewrites code blocks embedded in documentation
// files. It scans Markdown and reStructuredText for fenced code blocks,
// code directives, and doctest-style snippets, runs each block through
// the formatter registered for its language, and splices the result
// back into the document while leaving the surrounding prose untouched.
package blackendocs

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobot1234/blacken-docs/formatter"
)

// A CodeBlockError records a block that could not be formatted.
type CodeBlockError struct {
	// Offset is the byte offset of the block's code in the document.
	Offset int
	Err    error
}

func (e CodeBlockError) Error() string {
	return fmt.Sprintf("code block at offset %d: %v", e.Offset, e.Err)
}

func (e CodeBlockError) Unwrap() error { return e.Err }

// LineOf returns the 1-based line number of the byte offset in src.
func LineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}

// FormatString rewrites every recognized code block in src using the
// formatters in reg. Blocks that fail to format are reported as
// [CodeBlockError] values and left unchanged; the remaining blocks are
// still processed. When no block's formatted text differs from its raw
// text the returned document is src itself, byte for byte.
func FormatString(ctx context.Context, src string, reg *formatter.Registry, cfg ScanConfig) (string, []CodeBlockError) {
	var (
		repls []Replacement
		errs  []CodeBlockError
	)
	for _, m := range Scan(src, cfg) {
		if strings.TrimSpace(m.Code) == "" {
			continue
		}
		f := reg.Lookup(m.Lang)
		if f == nil {
			continue
		}
		out, err := f.Format(ctx, []byte(m.Code))
		if err != nil {
			errs = append(errs, CodeBlockError{Offset: m.Span.Start, Err: err})
			continue
		}
		if code := string(out); code != m.Code {
			repls = append(repls, Replacement{Match: m, Code: code})
		}
	}
	return Splice(src, repls), errs
}
