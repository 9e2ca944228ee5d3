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

package blackendocs

import "strings"

// Replacement pairs a match with the formatted code to insert in its
// place. Code uses LF line endings; the splicer re-applies the match's
// own terminator.
type Replacement struct {
	Match Match
	Code  string
}

// Splice returns src with every replacement's span substituted in place.
// Replacements must be ordered by position and non-overlapping, as
// produced by [Scan]. Bytes outside the spans are copied verbatim, so
// splicing with no replacements returns src unchanged.
func Splice(src string, repls []Replacement) string {
	if len(repls) == 0 {
		return src
	}
	var sb strings.Builder
	sb.Grow(len(src))
	last := 0
	for _, r := range repls {
		sb.WriteString(src[last:r.Match.Span.Start])
		writeBlock(&sb, r.Match, r.Code)
		last = r.Match.Span.End
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// writeBlock writes code with the match's indentation, prompt prefixes,
// and line terminator applied. Blank lines are written bare so that no
// trailing whitespace is ever introduced.
func writeBlock(sb *strings.Builder, m Match, code string) {
	eol := m.eol
	if eol == "" {
		eol = "\n"
	}
	if code == "" {
		return
	}
	for i, line := range strings.Split(strings.TrimSuffix(code, "\n"), "\n") {
		if m.Kind == DoctestBlock {
			prefix := m.prompt
			if i > 0 {
				prefix = m.continuation
			}
			if line == "" {
				line = strings.TrimRight(prefix, " ")
			} else {
				line = prefix + line
			}
		}
		if line == "" {
			sb.WriteString(eol)
			continue
		}
		sb.WriteString(m.Indent)
		sb.WriteString(line)
		sb.WriteString(eol)
	}
}
