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

// directiveInfo describes the opening line of a reStructuredText code
// directive such as ".. code-block:: go".
type directiveInfo struct {
	indent string
	lang   string
}

// parseDirective reports whether line opens a recognized code
// directive. Directives normally carry a language argument resolved
// through Tags; the ones in BareDirectives take no argument and map
// straight to a formatter language.
func (s *Scanner) parseDirective(line string) (directiveInfo, bool) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	rest := line[i:]
	if !strings.HasPrefix(rest, ".. ") {
		return directiveInfo{}, false
	}
	rest = rest[len(".. "):]
	for _, name := range s.cfg.Directives {
		marker := name + "::"
		if !strings.HasPrefix(rest, marker) {
			continue
		}
		arg := strings.ToLower(strings.TrimSpace(rest[len(marker):]))
		lang, ok := s.cfg.Tags[arg]
		if !ok {
			return directiveInfo{}, false
		}
		return directiveInfo{indent: line[:i], lang: lang}, true
	}
	for name, lang := range s.cfg.BareDirectives {
		marker := name + "::"
		if strings.HasPrefix(rest, marker) && strings.TrimSpace(rest[len(marker):]) == "" {
			return directiveInfo{indent: line[:i], lang: lang}, true
		}
	}
	return directiveInfo{}, false
}

// scanDirectiveBody consumes the option lines, blank lines, and indented
// body that follow a directive opener. The match's span runs from the
// first body line through the last non-blank one, so trailing blank
// lines are preserved untouched. A directive with no non-blank body
// never matches.
func (s *Scanner) scanDirectiveBody(d directiveInfo, eol string) (Match, bool) {
	// Option lines such as ":linenos:" belong to the directive header.
	for s.pos < len(s.src) {
		save := s.pos
		line := s.line()
		if isDirectiveOption(line, d.indent) || isBlank(line) {
			continue
		}
		s.pos = save
		break
	}

	bodyStart := s.pos
	bodyEnd := bodyStart
	for s.pos < len(s.src) {
		save := s.pos
		line := s.line()
		if isBlank(line) {
			continue
		}
		if !deeperIndented(line, d.indent) {
			s.pos = save
			break
		}
		bodyEnd = s.pos
	}
	if bodyEnd == bodyStart {
		return Match{}, false
	}

	body := s.src[bodyStart:bodyEnd]
	indent := commonIndent(body)
	return Match{
		Kind:   DirectiveBlock,
		Lang:   d.lang,
		Span:   Span{Start: bodyStart, End: bodyEnd},
		Indent: indent,
		Code:   dedent(body, indent),
		eol:    eol,
	}, true
}

// isDirectiveOption reports whether line is an option line of a
// directive at the given indentation, e.g. "    :caption: demo".
func isDirectiveOption(line, indent string) bool {
	if !strings.HasPrefix(line, indent) {
		return false
	}
	rest := line[len(indent):]
	trimmed := strings.TrimLeft(rest, " \t")
	return len(trimmed) < len(rest) && strings.HasPrefix(trimmed, ":")
}

// deeperIndented reports whether line belongs to the body of a block
// indented at indent: it keeps the prefix and adds at least one more
// column of whitespace.
func deeperIndented(line, indent string) bool {
	if !strings.HasPrefix(line, indent) || len(line) == len(indent) {
		return false
	}
	b := line[len(indent)]
	return b == ' ' || b == '\t'
}

// commonIndent returns the longest whitespace prefix shared by every
// non-blank line of body.
func commonIndent(body string) string {
	prefix := ""
	first := true
	for _, line := range strings.Split(body, "\n") {
		if isBlank(line) {
			continue
		}
		i := 0
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		ws := line[:i]
		if first {
			prefix, first = ws, false
			continue
		}
		j := 0
		for j < len(prefix) && j < len(ws) && prefix[j] == ws[j] {
			j++
		}
		prefix = prefix[:j]
	}
	return prefix
}
