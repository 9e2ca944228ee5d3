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

import (
	"strings"

	"go4.org/bytereplacer"
)

// BlockKind identifies the syntax that produced a [Match].
type BlockKind uint8

const (
	// FencedBlock is a Markdown fenced code block.
	FencedBlock BlockKind = 1 + iota
	// DirectiveBlock is the body of a reStructuredText code directive.
	DirectiveBlock
	// DoctestBlock is a prompt-prefixed snippet inside a fenced block.
	DoctestBlock
	// EnvironmentBlock is the body of a LaTeX code environment.
	EnvironmentBlock
)

// Span marks a half-open byte range within a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Match is a single replaceable code region found in a document.
// The span covers only the code lines: fences, directive headers, and
// snippet output lines around it stay outside the span so that splicing
// never touches them.
type Match struct {
	Kind BlockKind
	// Lang is the formatter language the block's tag resolved to.
	Lang string
	// Span is the replaceable region within the document.
	Span Span
	// Indent is the indentation prefix applied to every replacement line.
	Indent string
	// Code is the region's source with indentation, prompt prefixes, and
	// carriage returns stripped.
	Code string

	prompt       string
	continuation string
	eol          string
}

// ScanConfig controls which blocks a [Scanner] recognizes.
type ScanConfig struct {
	// Tags maps fence info-string tags and directive arguments to
	// formatter languages.
	Tags map[string]string
	// PromptTags maps fence tags whose contents are doctest-style
	// snippets to formatter languages.
	PromptTags map[string]string
	// Prompt and Continuation are the line prefixes that introduce and
	// extend a doctest snippet.
	Prompt       string
	Continuation string
	// Directives are the reStructuredText directive names recognized as
	// code blocks.
	Directives []string
	// BareDirectives maps directive names that take no language
	// argument, such as "jupyter-execute", to formatter languages.
	BareDirectives map[string]string
	// Environments maps LaTeX environment names without a brace
	// argument to formatter languages. Minted environments are always
	// recognized; their brace argument resolves through Tags.
	Environments map[string]string
}

// DefaultScanConfig returns the configuration used when no config file
// overrides it: gofmt for go-tagged fences, directives, and doctest
// snippets, plus JSON pretty-printing.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Tags: map[string]string{
			"go":     "go",
			"golang": "go",
			"json":   "json",
		},
		PromptTags:   map[string]string{"gocon": "go"},
		Prompt:       ">>> ",
		Continuation: "... ",
		Directives:   []string{"code-block", "code", "sourcecode", "ipython"},
		BareDirectives: map[string]string{
			"jupyter-execute": "go",
		},
		Environments: map[string]string{},
	}
}

// newlines folds Windows line terminators so that extracted code always
// reaches formatters with LF endings. The splicer restores the
// document's own terminator on the way back in.
var newlines = bytereplacer.New("\r\n", "\n")

// A Scanner finds code block matches in a document.
// Matches are produced in document order and never overlap.
type Scanner struct {
	src string
	cfg ScanConfig
	pos int // byte offset of the start of the current line

	queue []Match // pending matches from the current fence
}

func NewScanner(src string, cfg ScanConfig) *Scanner {
	return &Scanner{src: src, cfg: cfg}
}

// Scan returns all matches in src in document order.
func Scan(src string, cfg ScanConfig) []Match {
	s := NewScanner(src, cfg)
	var matches []Match
	for {
		m, ok := s.Next()
		if !ok {
			return matches
		}
		matches = append(matches, m)
	}
}

// Next returns the next match in the document.
func (s *Scanner) Next() (Match, bool) {
	for {
		if len(s.queue) > 0 {
			m := s.queue[0]
			s.queue = s.queue[1:]
			return m, true
		}
		if s.pos >= len(s.src) {
			return Match{}, false
		}
		lineStart := s.pos
		line := s.line()
		if f, ok := parseFenceOpen(line); ok {
			s.scanFence(f, s.lineTerminator(lineStart))
			continue
		}
		if d, ok := s.parseDirective(line); ok {
			if m, ok := s.scanDirectiveBody(d, s.lineTerminator(lineStart)); ok {
				return m, true
			}
			continue
		}
		if e, ok := s.parseEnvironment(line); ok {
			if m, ok := s.scanEnvironment(e, s.lineTerminator(lineStart)); ok {
				return m, true
			}
		}
	}
}

// line consumes the current line and returns it without its terminator.
func (s *Scanner) line() string {
	start := s.pos
	i := strings.IndexByte(s.src[start:], '\n')
	if i < 0 {
		s.pos = len(s.src)
		return s.src[start:]
	}
	s.pos = start + i + 1
	return strings.TrimSuffix(s.src[start:start+i], "\r")
}

// lineTerminator reports the terminator of the line consumed at lineStart.
func (s *Scanner) lineTerminator(lineStart int) string {
	if strings.HasSuffix(s.src[lineStart:s.pos], "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// fenceInfo describes the opening line of a fenced code block.
type fenceInfo struct {
	indent string
	marker byte
	length int
	tag    string
}

// parseFenceOpen reports whether line opens a fenced code block.
// The first word of the info string, lowercased, is the language tag.
func parseFenceOpen(line string) (fenceInfo, bool) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	indent := line[:i]
	if i >= len(line) || (line[i] != '`' && line[i] != '~') {
		return fenceInfo{}, false
	}
	marker := line[i]
	start := i
	for i < len(line) && line[i] == marker {
		i++
	}
	if i-start < 3 {
		return fenceInfo{}, false
	}
	info := strings.TrimSpace(line[i:])
	if marker == '`' && strings.IndexByte(info, '`') >= 0 {
		// An info string with backticks is inline code, not a fence.
		return fenceInfo{}, false
	}
	tag := info
	if j := strings.IndexAny(tag, " \t"); j >= 0 {
		tag = tag[:j]
	}
	return fenceInfo{
		indent: indent,
		marker: marker,
		length: i - start,
		tag:    strings.ToLower(tag),
	}, true
}

// closesFence reports whether line closes the fence opened by f:
// a run of at least as many of the same marker with nothing after it,
// indented at most three columns past the opener. A marker run deeper
// inside the block is code, not a closer.
func closesFence(line string, f fenceInfo) bool {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i > len(f.indent)+3 {
		return false
	}
	start := i
	for i < len(line) && line[i] == f.marker {
		i++
	}
	if i-start < f.length {
		return false
	}
	return strings.TrimSpace(line[i:]) == ""
}

// scanFence consumes the fence body and queues any matches it contains.
// The scanner is left positioned after the closing fence. An unclosed
// fence never matches.
func (s *Scanner) scanFence(f fenceInfo, eol string) {
	bodyStart := s.pos
	bodyEnd := -1
	for s.pos < len(s.src) {
		lineStart := s.pos
		if closesFence(s.line(), f) {
			bodyEnd = lineStart
			break
		}
	}
	if bodyEnd < 0 {
		return
	}
	body := s.src[bodyStart:bodyEnd]
	if lang, ok := s.cfg.PromptTags[f.tag]; ok {
		s.queue = append(s.queue, scanSnippets(body, bodyStart, f, lang, s.cfg, eol)...)
		return
	}
	lang, ok := s.cfg.Tags[f.tag]
	if !ok {
		return
	}
	s.queue = append(s.queue, Match{
		Kind:   FencedBlock,
		Lang:   lang,
		Span:   Span{Start: bodyStart, End: bodyEnd},
		Indent: f.indent,
		Code:   dedent(body, f.indent),
		eol:    eol,
	})
}

// dedent strips up to the given indentation prefix from every line of
// body and normalizes line terminators to LF.
func dedent(body, indent string) string {
	if body == "" {
		return ""
	}
	body = string(newlines.Replace([]byte(body)))
	if indent == "" {
		return body
	}
	var sb strings.Builder
	sb.Grow(len(body))
	for _, line := range strings.SplitAfter(body, "\n") {
		sb.WriteString(trimIndent(line, indent))
	}
	return sb.String()
}

// trimIndent removes the longest prefix of line that matches indent.
func trimIndent(line, indent string) string {
	i := 0
	for i < len(indent) && i < len(line) && line[i] == indent[i] {
		i++
	}
	return line[i:]
}

func isBlank(line string) bool {
	for i := 0; i < len(line); i++ {
		b := line[i]
		if !(b == ' ' || b == '\t' || b == '\r' || b == '\n') {
			return false
		}
	}
	return true
}
