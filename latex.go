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

// envInfo describes the opening line of a LaTeX code environment such
// as "\begin{minted}{go}".
type envInfo struct {
	indent string
	name   string
	lang   string
}

// parseEnvironment reports whether line opens a LaTeX code environment.
// A minted environment carries its language tag as a brace argument
// resolved through Tags; environments listed in Environments carry no
// argument and map straight to a formatter language.
func (s *Scanner) parseEnvironment(line string) (envInfo, bool) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	rest := line[i:]
	if !strings.HasPrefix(rest, `\begin{`) {
		return envInfo{}, false
	}
	rest = rest[len(`\begin{`):]
	j := strings.IndexByte(rest, '}')
	if j < 0 {
		return envInfo{}, false
	}
	name := rest[:j]
	rest = rest[j+1:]

	if lang, ok := s.cfg.Environments[name]; ok && strings.TrimSpace(rest) == "" {
		return envInfo{indent: line[:i], name: name, lang: lang}, true
	}
	if name != "minted" || !strings.HasPrefix(rest, "{") {
		return envInfo{}, false
	}
	k := strings.IndexByte(rest[1:], '}')
	if k < 0 || strings.TrimSpace(rest[k+2:]) != "" {
		return envInfo{}, false
	}
	arg := strings.ToLower(strings.TrimSpace(rest[1 : 1+k]))
	lang, ok := s.cfg.Tags[arg]
	if !ok {
		return envInfo{}, false
	}
	return envInfo{indent: line[:i], name: name, lang: lang}, true
}

// scanEnvironment consumes the environment body. The closing
// \end{name} must sit at the opener's own indentation; a deeper one
// belongs to the code. An environment never closed before EOF does not
// match.
func (s *Scanner) scanEnvironment(e envInfo, eol string) (Match, bool) {
	closer := e.indent + `\end{` + e.name + `}`
	bodyStart := s.pos
	bodyEnd := -1
	for s.pos < len(s.src) {
		lineStart := s.pos
		if line := s.line(); strings.TrimRight(line, " \t") == closer {
			bodyEnd = lineStart
			break
		}
	}
	if bodyEnd < 0 {
		return Match{}, false
	}
	body := s.src[bodyStart:bodyEnd]
	return Match{
		Kind:   EnvironmentBlock,
		Lang:   e.lang,
		Span:   Span{Start: bodyStart, End: bodyEnd},
		Indent: e.indent,
		Code:   dedent(body, e.indent),
		eol:    eol,
	}, true
}
