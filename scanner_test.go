// seehuhn.de/go/postscript - a rudimentary PostScript interpreter
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package postscript

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	in := `
	% a comment
	3 4 add =
	/x 10 def
	{ dup mul }
	[ 1 2 3 ]
	(a string)
	`
	want := []string{
		"3", "4", "add", "=",
		"/x", "10", "def",
		"{", "dup", "mul", "}",
		"[", "1", "2", "3", "]",
		"(a string)",
	}
	got := tokenize(in)
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("tokenize mismatch (-want +got):\n%s", d)
	}
}

func TestTokenizeNestedString(t *testing.T) {
	got := tokenize(`(outer (inner) text)`)
	want := []string{"(outer (inner) text)"}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("tokenize mismatch (-want +got):\n%s", d)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	got := tokenize(`(a\)b\\c)`)
	want := []string{`(a\)b\\c)`}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("tokenize mismatch (-want +got):\n%s", d)
	}
}

func TestTokenizeUnterminatedStringIsLazy(t *testing.T) {
	got := tokenize(`(abc`)
	if len(got) != 1 || got[0] != "(abc" {
		t.Fatalf("unterminated string should scan lazily to EOF, got %q", got)
	}
}

func TestTokenizeUnterminatedCommentIsLazy(t *testing.T) {
	got := tokenize("1 2 add % trailing comment with no newline")
	want := []string{"1", "2", "add"}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("tokenize mismatch (-want +got):\n%s", d)
	}
}

// FuzzStringLiteralEscaping checks that any byte sequence, once escaped
// into a well-formed parenthesized literal, survives tokenizing and
// parseStringLiteral's decoding unchanged.
func FuzzStringLiteralEscaping(f *testing.F) {
	f.Add("hello")
	f.Add("a)b")
	f.Add(`a\b`)
	f.Add("nested (parens) here")
	f.Add("")
	f.Add(`\`)
	f.Add("(((")

	f.Fuzz(func(t *testing.T, s string) {
		var b strings.Builder
		b.WriteByte('(')
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c == '\\' || c == '(' || c == ')' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
		b.WriteByte(')')
		literal := b.String()

		toks := tokenize(literal)
		if len(toks) != 1 {
			t.Fatalf("tokenize(%q) produced %d tokens, want 1", literal, len(toks))
		}
		if toks[0] != literal {
			t.Fatalf("tokenize(%q) = %q, want it unchanged", literal, toks[0])
		}

		got := parseStringLiteral(toks[0])
		if string(got) != s {
			t.Fatalf("round trip of %q via %q gave %q", s, literal, string(got))
		}
	})
}
