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

// scanSnippets extracts doctest-style snippets from the body of a fence
// whose tag is a prompt tag. A snippet starts at a prompt line and
// extends through the continuation lines that follow it; every other
// line (typically the snippet's output) stays outside the matches.
// base is the byte offset of body within the document.
func scanSnippets(body string, base int, f fenceInfo, lang string, cfg ScanConfig, eol string) []Match {
	var (
		matches []Match
		code    strings.Builder
		start   = -1
	)
	flush := func(end int) {
		if start < 0 {
			return
		}
		matches = append(matches, Match{
			Kind:         DoctestBlock,
			Lang:         lang,
			Span:         Span{Start: start, End: end},
			Indent:       f.indent,
			Code:         code.String(),
			prompt:       cfg.Prompt,
			continuation: cfg.Continuation,
			eol:          eol,
		})
		code.Reset()
		start = -1
	}

	pos := 0
	for pos < len(body) {
		lineStart := pos
		var raw string
		if i := strings.IndexByte(body[pos:], '\n'); i < 0 {
			raw, pos = body[pos:], len(body)
		} else {
			raw, pos = body[pos:pos+i], pos+i+1
		}
		line := trimIndent(strings.TrimSuffix(raw, "\r"), f.indent)
		switch {
		case hasPrompt(line, cfg.Prompt):
			// Each prompt line begins a new snippet.
			flush(base + lineStart)
			start = base + lineStart
			code.WriteString(stripPrompt(line, cfg.Prompt))
			code.WriteString("\n")
		case start >= 0 && hasPrompt(line, cfg.Continuation):
			code.WriteString(stripPrompt(line, cfg.Continuation))
			code.WriteString("\n")
		default:
			flush(base + lineStart)
		}
	}
	flush(base + len(body))
	return matches
}

// hasPrompt reports whether line carries the given prompt prefix.
// A line consisting of only the prompt with its trailing spaces removed
// also counts, so that blank prompt lines round-trip.
func hasPrompt(line, prompt string) bool {
	return strings.HasPrefix(line, prompt) || line == strings.TrimRight(prompt, " ")
}

// stripPrompt removes the prompt prefix from line.
func stripPrompt(line, prompt string) string {
	if strings.HasPrefix(line, prompt) {
		return line[len(prompt):]
	}
	return ""
}
