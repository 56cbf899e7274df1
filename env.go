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

import "golang.org/x/exp/maps"

// Frame is one link of the immutable environment chain consulted by
// lexical-mode name lookup. Frames are produced by snapshotting the
// dictionary stack bottom-to-top at procedure-capture time; Outer
// points toward the system dictionary, never back toward the top of
// the stack the procedure was captured from.
//
// The chain is linear and acyclic by construction: Outer is only ever
// set once, at newFrameChain, and frames are never mutated afterward.
// Every capture builds a fresh chain of its own; only copies of one
// captured Procedure value share a chain.
type Frame struct {
	Dict  Dict
	Outer *Frame
}

// newFrameChain snapshots dictStack (bottom-to-top) into a Frame chain
// whose innermost frame corresponds to the top of dictStack and whose
// deepest frame is the system dictionary. Each dictionary is cloned
// shallowly: maps.Clone copies the key/value entries, not the values
// themselves. Values stay shared by reference, which is observationally
// equivalent to a deep copy since no operator mutates a composite in
// place.
func newFrameChain(dictStack []Dict) *Frame {
	var chain *Frame
	for _, d := range dictStack {
		chain = &Frame{Dict: maps.Clone(d), Outer: chain}
	}
	return chain
}

// lookup searches the frame chain innermost-first, falling back to the
// system dictionary on a miss and stopping there: intermediate
// dictionaries further out than the system dictionary are not
// consulted again once the chain itself has been exhausted. This is
// the deliberate asymmetry between lexical-mode and dynamic-mode
// lookup: a captured procedure can still see later additions to the
// system dictionary, but not to any user dictionary that was live at
// capture time.
func (f *Frame) lookup(name Name, systemDict Dict) (Object, bool) {
	for fr := f; fr != nil; fr = fr.Outer {
		if val, ok := fr.Dict[name]; ok {
			return val, true
		}
	}
	val, ok := systemDict[name]
	return val, ok
}

// dictStack is the LIFO of dictionaries backing dynamic-mode lookup and
// def/begin/end. The bottom element is the system dictionary populated
// at construction time and is never removed.
type dictStack struct {
	dicts []Dict
}

func newDictStack(systemDict Dict) *dictStack {
	return &dictStack{dicts: []Dict{systemDict}}
}

func (s *dictStack) top() Dict {
	return s.dicts[len(s.dicts)-1]
}

func (s *dictStack) system() Dict {
	return s.dicts[0]
}

func (s *dictStack) push(d Dict) {
	s.dicts = append(s.dicts, d)
}

// pop removes the top dictionary. It refuses to drop below depth 1:
// the system dictionary always remains.
func (s *dictStack) pop() bool {
	if len(s.dicts) <= 1 {
		return false
	}
	s.dicts = s.dicts[:len(s.dicts)-1]
	return true
}

func (s *dictStack) depth() int {
	return len(s.dicts)
}

// lookup searches top to bottom, first hit wins. This is dynamic-mode
// name resolution.
func (s *dictStack) lookup(name Name) (Object, bool) {
	for i := len(s.dicts) - 1; i >= 0; i-- {
		if val, ok := s.dicts[i][name]; ok {
			return val, true
		}
	}
	return nil, false
}

// snapshot captures the current dictionary stack into a Frame chain,
// used by the evaluator's procedure-capture rule under lexical scoping.
func (s *dictStack) snapshot() *Frame {
	return newFrameChain(s.dicts)
}
