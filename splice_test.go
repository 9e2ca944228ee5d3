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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// region builds a Span for the first occurrence of old in src.
func region(t *testing.T, src, old string) Span {
	t.Helper()
	i := strings.Index(src, old)
	if i < 0 {
		t.Fatalf("region %q not found in %q", old, src)
	}
	return Span{Start: i, End: i + len(old)}
}

func TestSpliceNoReplacements(t *testing.T) {
	const src = "# Title\n\n```go\nx := 1\n```\n"
	if got := Splice(src, nil); got != src {
		t.Errorf("Splice(src, nil) = %q; want src unchanged", got)
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name string
		src  string
		old  string
		m    Match
		code string
		want string
	}{
		{
			name: "Fenced",
			src:  "A\n```go\nold\n```\nB\n",
			old:  "old\n",
			m:    Match{Kind: FencedBlock},
			code: "new1\nnew2\n",
			want: "A\n```go\nnew1\nnew2\n```\nB\n",
		},
		{
			name: "IndentReapplied",
			src:  "- x:\n\n  ```go\n  old\n  ```\n",
			old:  "  old\n",
			m:    Match{Kind: FencedBlock, Indent: "  "},
			code: "a\n\nb\n",
			want: "- x:\n\n  ```go\n  a\n\n  b\n  ```\n",
		},
		{
			name: "CRLF",
			src:  "```go\r\nold\r\n```\r\n",
			old:  "old\r\n",
			m:    Match{Kind: FencedBlock, eol: "\r\n"},
			code: "x := 1\n",
			want: "```go\r\nx := 1\r\n```\r\n",
		},
		{
			name: "DoctestPrompts",
			src:  "```gocon\n>>> old\n```\n",
			old:  ">>> old\n",
			m:    Match{Kind: DoctestBlock, prompt: ">>> ", continuation: "... "},
			code: "if x {\n\ty\n}\n",
			want: "```gocon\n>>> if x {\n... \ty\n... }\n```\n",
		},
		{
			name: "DoctestBlankLine",
			src:  "```gocon\n>>> old\n```\n",
			old:  ">>> old\n",
			m:    Match{Kind: DoctestBlock, prompt: ">>> ", continuation: "... "},
			code: "a\n\nb\n",
			want: "```gocon\n>>> a\n...\n... b\n```\n",
		},
		{
			name: "IndentedDoctest",
			src:  "  ```gocon\n  >>> old\n  ```\n",
			old:  "  >>> old\n",
			m:    Match{Kind: DoctestBlock, Indent: "  ", prompt: ">>> ", continuation: "... "},
			code: "x := 1\n",
			want: "  ```gocon\n  >>> x := 1\n  ```\n",
		},
		{
			name: "Directive",
			src:  ".. code-block:: go\n\n    old\n\nAfter.\n",
			old:  "    old\n",
			m:    Match{Kind: DirectiveBlock, Indent: "    "},
			code: "a\n\nb\n",
			want: ".. code-block:: go\n\n    a\n\n    b\n\nAfter.\n",
		},
		{
			name: "EmptyReplacement",
			src:  "A\n```go\nold\n```\n",
			old:  "old\n",
			m:    Match{Kind: FencedBlock},
			code: "",
			want: "A\n```go\n```\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := test.m
			m.Span = region(t, test.src, test.old)
			got := Splice(test.src, []Replacement{{Match: m, Code: test.code}})
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Splice mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSpliceMultiple(t *testing.T) {
	const src = "```go\none\n```\nmiddle\n```go\ntwo\n```\n"
	m1 := Match{Kind: FencedBlock, Span: region(t, src, "one\n")}
	m2 := Match{Kind: FencedBlock, Span: region(t, src, "two\n")}
	got := Splice(src, []Replacement{
		{Match: m1, Code: "ONE\n"},
		{Match: m2, Code: "TWO\n"},
	})
	const want = "```go\nONE\n```\nmiddle\n```go\nTWO\n```\n"
	if got != want {
		t.Errorf("Splice = %q; want %q", got, want)
	}
}
