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
	"testing"

	"github.com/alecthomas/repr"
	"github.com/google/go-cmp/cmp"
)

func TestParseAtoms(t *testing.T) {
	got := parse(`3 -9 1.5 true false (hi) /foo bar`)
	want := []Object{
		Integer(3),
		Integer(-9),
		Real(1.5),
		Boolean(true),
		Boolean(false),
		String("hi"),
		LiteralName("foo"),
		Name("bar"),
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s\ngot: %s", d, repr.String(got))
	}
}

func TestParseArray(t *testing.T) {
	got := parse(`[ 1 2 [3 4] ]`)
	want := []Object{
		Array{Integer(1), Integer(2), Array{Integer(3), Integer(4)}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s\ngot: %s", d, repr.String(got))
	}
}

func TestParseProcedure(t *testing.T) {
	got := parse(`{ dup mul }`)
	want := []Object{
		Procedure{Code: []Object{Name("dup"), Name("mul")}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s\ngot: %s", d, repr.String(got))
	}
}

func TestParseNestedProcedures(t *testing.T) {
	got := parse(`{ {[1 2]} {3} ifelse }`)
	want := []Object{
		Procedure{Code: []Object{
			Procedure{Code: []Object{Array{Integer(1), Integer(2)}}},
			Procedure{Code: []Object{Integer(3)}},
			Name("ifelse"),
		}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s\ngot: %s", d, repr.String(got))
	}
}

func TestParseMismatchedCloseIsSilent(t *testing.T) {
	// A mismatched ']' inside a procedure is not diagnosed: it is kept
	// as a Name and parsing runs to end of input as if the block had
	// continued to EOF.
	got := parse(`{ 1 2 ]`)
	want := []Object{
		Procedure{Code: []Object{Integer(1), Integer(2), Name("]")}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s\ngot: %s", d, repr.String(got))
	}
}
