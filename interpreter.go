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

import "io"

// Interpreter owns one operand stack, one dictionary stack, and the
// scoping mode used to resolve names. It is not safe for concurrent
// use: two parallel workers must each own their own Interpreter.
type Interpreter struct {
	// Stack is the operand stack. LIFO, unbounded, underflow is an
	// error.
	Stack []Object

	// Lexical selects the name-resolution strategy: false is dynamic
	// scoping (search the live dictionary stack), true is lexical
	// scoping (procedures capture the dictionary chain in effect at
	// their literal's evaluation site).
	Lexical bool

	dicts *dictStack
	out   io.Writer
	quit  bool
}

// NewInterpreter builds an interpreter with the given scoping mode and
// output sink. out receives the text written by print/=/== and is
// never closed by the interpreter.
func NewInterpreter(lexical bool, out io.Writer) *Interpreter {
	return &Interpreter{
		Lexical: lexical,
		dicts:   newDictStack(systemDict()),
		out:     out,
	}
}

// Run tokenizes, parses and executes a program string end to end
// against this instance's operand stack and dictionary stack. The
// operand stack's state persists between calls on the same instance.
func (intp *Interpreter) Run(source string) error {
	intp.quit = false
	code := parse(source)
	return intp.eval(code, nil)
}

// eval executes a code list against the operand stack under the given
// static environment (the lexical-mode chain captured for the
// enclosing procedure, or nil at top level / under dynamic scoping).
func (intp *Interpreter) eval(code []Object, env *Frame) error {
	for _, o := range code {
		if intp.quit {
			return nil
		}

		switch v := o.(type) {
		case Name:
			val, err := intp.resolve(v, env)
			if err != nil {
				return err
			}
			if err := intp.execValue(val); err != nil {
				return err
			}

		case Procedure:
			// Capture rule: in lexical mode, a procedure literal that
			// has never been captured snapshots the current
			// dictionary stack the moment it is evaluated. The
			// transition from uncaptured to captured fires at most
			// once per procedure value; dynamic mode never fires it.
			if intp.Lexical && v.Env == nil {
				v.Env = intp.dicts.snapshot()
			}
			intp.Stack = append(intp.Stack, v)

		case builtin:
			if err := v(intp); err != nil {
				return err
			}

		default:
			// Integer, Real, Boolean, String, LiteralName, Array,
			// Dict, mark, null: all self-evaluating.
			intp.Stack = append(intp.Stack, o)
		}
	}
	return nil
}

// resolve looks a Name up using whichever strategy the scoping mode
// selects.
func (intp *Interpreter) resolve(name Name, env *Frame) (Object, error) {
	if intp.Lexical {
		val, ok := env.lookup(name, intp.dicts.system())
		if !ok {
			return nil, intp.e(KindUndefined, string(name), "undefined name")
		}
		return val, nil
	}

	val, ok := intp.dicts.lookup(name)
	if !ok {
		return nil, intp.e(KindUndefined, string(name), "undefined name")
	}
	return val, nil
}

// execValue executes the result of resolving a Name: a builtin runs; a
// Procedure has its code list recursively evaluated under the
// environment the scoping mode selects (its own captured chain in
// lexical mode, nil in dynamic mode); anything else is pushed.
func (intp *Interpreter) execValue(val Object) error {
	switch v := val.(type) {
	case builtin:
		return v(intp)
	case Procedure:
		var childEnv *Frame
		if intp.Lexical {
			childEnv = v.Env
		}
		return intp.eval(v.Code, childEnv)
	default:
		intp.Stack = append(intp.Stack, val)
		return nil
	}
}

// execProc runs a procedure value as a control operator body (if,
// ifelse, repeat, for): it is always "executed" rather than pushed,
// using the same environment-selection rule as execValue.
func (intp *Interpreter) execProc(proc Procedure) error {
	var childEnv *Frame
	if intp.Lexical {
		childEnv = proc.Env
	}
	return intp.eval(proc.Code, childEnv)
}
