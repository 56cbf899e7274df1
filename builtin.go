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

import "fmt"

// systemDict builds the bottom dictionary, populated once at
// interpreter construction with every built-in operator.
func systemDict() Dict {
	return Dict{
		// stack manipulation
		"pop":   builtin(bPop),
		"exch":  builtin(bExch),
		"dup":   builtin(bDup),
		"clear": builtin(bClear),
		"count": builtin(bCount),
		"copy":  builtin(bCopy),

		// arithmetic
		"add":  builtin(bAdd),
		"sub":  builtin(bSub),
		"mul":  builtin(bMul),
		"div":  builtin(bDiv),
		"mod":  builtin(bMod),
		"idiv": builtin(bIdiv),

		// comparison / boolean
		"eq":  builtin(bEq),
		"ne":  builtin(bNe),
		"gt":  builtin(bGt),
		"lt":  builtin(bLt),
		"and": builtin(bAnd),
		"or":  builtin(bOr),
		"not": builtin(bNot),

		// dictionaries
		"dict":   builtin(bDict),
		"begin":  builtin(bBegin),
		"end":    builtin(bEnd),
		"def":    builtin(bDef),
		"known":  builtin(bKnown),
		"length": builtin(bLength),

		// control flow
		"if":     builtin(bIf),
		"ifelse": builtin(bIfelse),
		"repeat": builtin(bRepeat),
		"for":    builtin(bFor),

		// misc
		"quit":  builtin(bQuit),
		"print": builtin(bPrint),
		"=":     builtin(bPrintLine),
		"==":    builtin(bPrintPretty),
		"mark":  builtin(bMark),
		"null":  theNull,

		// stack shuffling beyond the required minimum
		"index": builtin(bIndex),
		"roll":  builtin(bRoll),
	}
}

// --- stack manipulation -----------------------------------------------

func bPop(intp *Interpreter) error {
	if len(intp.Stack) < 1 {
		return intp.e(KindStackunderflow, "pop", "not enough arguments")
	}
	intp.Stack = intp.Stack[:len(intp.Stack)-1]
	return nil
}

func bExch(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "exch", "not enough arguments")
	}
	intp.Stack[n-1], intp.Stack[n-2] = intp.Stack[n-2], intp.Stack[n-1]
	return nil
}

func bDup(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "dup", "not enough arguments")
	}
	intp.Stack = append(intp.Stack, intp.Stack[n-1])
	return nil
}

func bClear(intp *Interpreter) error {
	intp.Stack = intp.Stack[:0]
	return nil
}

func bCount(intp *Interpreter) error {
	intp.Stack = append(intp.Stack, Integer(len(intp.Stack)))
	return nil
}

// bCopy implements `n copy`: duplicate the top n items, preserving
// order. n<0 or n>depth is a range error.
func bCopy(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "copy", "not enough arguments")
	}
	count, ok := intp.Stack[n-1].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "copy", "needs an integer count")
	}
	intp.Stack = intp.Stack[:n-1]
	n--
	if count < 0 || int(count) > n {
		return intp.e(KindRangecheck, "copy", "invalid count %d for depth %d", count, n)
	}
	intp.Stack = append(intp.Stack, intp.Stack[n-int(count):n]...)
	return nil
}

// --- arithmetic ---------------------------------------------------------

// numericOperands pops the top two operands for a binary numeric
// operator and classifies each as Integer or Real.
func numericOperands(intp *Interpreter, op string) (ar, br Real, aInt, bInt bool, err error) {
	n := len(intp.Stack)
	if n < 2 {
		return 0, 0, false, false, intp.e(KindStackunderflow, op, "not enough arguments")
	}
	a, b := intp.Stack[n-2], intp.Stack[n-1]
	af, aIsNum := toFloat(a)
	bf, bIsNum := toFloat(b)
	if !aIsNum || !bIsNum {
		return 0, 0, false, false, intp.e(KindTypecheck, op, "needs two numbers")
	}
	_, aInt = a.(Integer)
	_, bInt = b.(Integer)
	intp.Stack = intp.Stack[:n-2]
	return Real(af), Real(bf), aInt, bInt, nil
}

// integral reports whether r is within numericTolerance of an integer:
// arithmetic results are Integer when numerically integral, Real
// otherwise.
func integral(r Real) (Integer, bool) {
	var i Integer
	if r < 0 {
		i = Integer(r - 0.5)
	} else {
		i = Integer(r + 0.5)
	}
	d := float64(r) - float64(i)
	if d < 0 {
		d = -d
	}
	return i, d <= numericTolerance
}

func pushNumeric(intp *Interpreter, r Real) {
	if i, ok := integral(r); ok {
		intp.Stack = append(intp.Stack, i)
		return
	}
	intp.Stack = append(intp.Stack, r)
}

func bAdd(intp *Interpreter) error {
	a, b, _, _, err := numericOperands(intp, "add")
	if err != nil {
		return err
	}
	pushNumeric(intp, a+b)
	return nil
}

func bSub(intp *Interpreter) error {
	a, b, _, _, err := numericOperands(intp, "sub")
	if err != nil {
		return err
	}
	pushNumeric(intp, a-b)
	return nil
}

func bMul(intp *Interpreter) error {
	a, b, _, _, err := numericOperands(intp, "mul")
	if err != nil {
		return err
	}
	pushNumeric(intp, a*b)
	return nil
}

// bDiv implements `div`: second-pushed operand is the RHS, result is
// Integer when the division is numerically integral within tolerance,
// Real otherwise.
func bDiv(intp *Interpreter) error {
	a, b, _, _, err := numericOperands(intp, "div")
	if err != nil {
		return err
	}
	if b == 0 {
		return intp.e(KindRangecheck, "div", "division by zero")
	}
	pushNumeric(intp, a/b)
	return nil
}

// bIdiv is truncating integer division, distinct from div's
// type-sensitive result.
func bIdiv(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "idiv", "not enough arguments")
	}
	a, aOk := intp.Stack[n-2].(Integer)
	b, bOk := intp.Stack[n-1].(Integer)
	if !aOk || !bOk {
		return intp.e(KindTypecheck, "idiv", "needs two integers")
	}
	if b == 0 {
		return intp.e(KindRangecheck, "idiv", "division by zero")
	}
	intp.Stack = intp.Stack[:n-2]
	intp.Stack = append(intp.Stack, a/b)
	return nil
}

// bMod implements integer-only modulo; sign follows Go's signed
// remainder, not true-modulo.
func bMod(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "mod", "not enough arguments")
	}
	a, aOk := intp.Stack[n-2].(Integer)
	b, bOk := intp.Stack[n-1].(Integer)
	if !aOk || !bOk {
		return intp.e(KindTypecheck, "mod", "needs two integers")
	}
	if b == 0 {
		return intp.e(KindRangecheck, "mod", "division by zero")
	}
	intp.Stack = intp.Stack[:n-2]
	intp.Stack = append(intp.Stack, a%b)
	return nil
}

// --- comparison / boolean -----------------------------------------------

func bEq(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "eq", "not enough arguments")
	}
	a, b := intp.Stack[n-2], intp.Stack[n-1]
	intp.Stack = intp.Stack[:n-2]
	intp.Stack = append(intp.Stack, Boolean(equal(a, b)))
	return nil
}

func bNe(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "ne", "not enough arguments")
	}
	a, b := intp.Stack[n-2], intp.Stack[n-1]
	intp.Stack = intp.Stack[:n-2]
	intp.Stack = append(intp.Stack, Boolean(!equal(a, b)))
	return nil
}

func bGt(intp *Interpreter) error {
	a, b, _, _, err := numericOperands(intp, "gt")
	if err != nil {
		return err
	}
	intp.Stack = append(intp.Stack, Boolean(a > b))
	return nil
}

func bLt(intp *Interpreter) error {
	a, b, _, _, err := numericOperands(intp, "lt")
	if err != nil {
		return err
	}
	intp.Stack = append(intp.Stack, Boolean(a < b))
	return nil
}

func bAnd(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "and", "not enough arguments")
	}
	a, b := intp.Stack[n-2], intp.Stack[n-1]
	intp.Stack = intp.Stack[:n-2]
	switch a := a.(type) {
	case Boolean:
		b, ok := b.(Boolean)
		if !ok {
			return intp.e(KindTypecheck, "and", "mismatched argument types")
		}
		intp.Stack = append(intp.Stack, a && b)
	case Integer:
		b, ok := b.(Integer)
		if !ok {
			return intp.e(KindTypecheck, "and", "mismatched argument types")
		}
		intp.Stack = append(intp.Stack, a&b)
	default:
		return intp.e(KindTypecheck, "and", "invalid argument type %T", a)
	}
	return nil
}

func bOr(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "or", "not enough arguments")
	}
	a, b := intp.Stack[n-2], intp.Stack[n-1]
	intp.Stack = intp.Stack[:n-2]
	switch a := a.(type) {
	case Boolean:
		b, ok := b.(Boolean)
		if !ok {
			return intp.e(KindTypecheck, "or", "mismatched argument types")
		}
		intp.Stack = append(intp.Stack, a || b)
	case Integer:
		b, ok := b.(Integer)
		if !ok {
			return intp.e(KindTypecheck, "or", "mismatched argument types")
		}
		intp.Stack = append(intp.Stack, a|b)
	default:
		return intp.e(KindTypecheck, "or", "invalid argument type %T", a)
	}
	return nil
}

func bNot(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "not", "not enough arguments")
	}
	switch v := intp.Stack[n-1].(type) {
	case Boolean:
		intp.Stack[n-1] = !v
	case Integer:
		intp.Stack[n-1] = ^v
	default:
		return intp.e(KindTypecheck, "not", "invalid argument type %T", v)
	}
	return nil
}

// --- dictionaries ---------------------------------------------------------

func bDict(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "dict", "not enough arguments")
	}
	// the size hint is accepted but ignored; Go maps grow on demand.
	intp.Stack = intp.Stack[:n-1]
	intp.Stack = append(intp.Stack, Dict{})
	return nil
}

func bBegin(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "begin", "not enough arguments")
	}
	d, ok := intp.Stack[n-1].(Dict)
	if !ok {
		return intp.e(KindTypecheck, "begin", "needs a dictionary")
	}
	intp.Stack = intp.Stack[:n-1]
	intp.dicts.push(d)
	return nil
}

func bEnd(intp *Interpreter) error {
	if !intp.dicts.pop() {
		return intp.e(KindDictstackunderflow, "end", "dict stack is at its minimum depth")
	}
	return nil
}

func bDef(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "def", "not enough arguments")
	}
	name, ok := intp.Stack[n-2].(LiteralName)
	if !ok {
		return intp.e(KindTypecheck, "def", "needs a literal name, not %T", intp.Stack[n-2])
	}
	val := intp.Stack[n-1]
	intp.Stack = intp.Stack[:n-2]
	intp.dicts.top()[Name(name)] = val
	return nil
}

func bKnown(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "known", "not enough arguments")
	}
	d, ok := intp.Stack[n-2].(Dict)
	if !ok {
		return intp.e(KindTypecheck, "known", "needs a dictionary")
	}
	name, ok := intp.Stack[n-1].(LiteralName)
	if !ok {
		return intp.e(KindTypecheck, "known", "needs a literal name")
	}
	intp.Stack = intp.Stack[:n-2]
	_, found := d[Name(name)]
	intp.Stack = append(intp.Stack, Boolean(found))
	return nil
}

func bLength(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "length", "not enough arguments")
	}
	var size int
	switch v := intp.Stack[n-1].(type) {
	case String:
		size = len(v)
	case Array:
		size = len(v)
	case Dict:
		size = len(v)
	default:
		return intp.e(KindTypecheck, "length", "invalid argument type %T", v)
	}
	intp.Stack[n-1] = Integer(size)
	return nil
}

// --- control flow ---------------------------------------------------------

func popProcedure(intp *Interpreter, op string) (Procedure, error) {
	n := len(intp.Stack)
	if n < 1 {
		return Procedure{}, intp.e(KindStackunderflow, op, "not enough arguments")
	}
	proc, ok := intp.Stack[n-1].(Procedure)
	if !ok {
		return Procedure{}, intp.e(KindTypecheck, op, "needs a procedure, not %T", intp.Stack[n-1])
	}
	intp.Stack = intp.Stack[:n-1]
	return proc, nil
}

func bIf(intp *Interpreter) error {
	proc, err := popProcedure(intp, "if")
	if err != nil {
		return err
	}
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "if", "not enough arguments")
	}
	cond, ok := intp.Stack[n-1].(Boolean)
	if !ok {
		return intp.e(KindTypecheck, "if", "needs a boolean condition")
	}
	intp.Stack = intp.Stack[:n-1]
	if cond {
		return intp.execProc(proc)
	}
	return nil
}

func bIfelse(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "ifelse", "not enough arguments")
	}
	trueProc, ok := intp.Stack[n-2].(Procedure)
	if !ok {
		return intp.e(KindTypecheck, "ifelse", "needs procedures")
	}
	falseProc, ok := intp.Stack[n-1].(Procedure)
	if !ok {
		return intp.e(KindTypecheck, "ifelse", "needs procedures")
	}
	intp.Stack = intp.Stack[:n-2]

	n = len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "ifelse", "not enough arguments")
	}
	cond, ok := intp.Stack[n-1].(Boolean)
	if !ok {
		return intp.e(KindTypecheck, "ifelse", "needs a boolean condition")
	}
	intp.Stack = intp.Stack[:n-1]
	if cond {
		return intp.execProc(trueProc)
	}
	return intp.execProc(falseProc)
}

func bRepeat(intp *Interpreter) error {
	proc, err := popProcedure(intp, "repeat")
	if err != nil {
		return err
	}
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "repeat", "not enough arguments")
	}
	count, ok := intp.Stack[n-1].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "repeat", "needs an integer count")
	}
	intp.Stack = intp.Stack[:n-1]
	for i := Integer(0); i < count; i++ {
		if intp.quit {
			break
		}
		if err := intp.execProc(proc); err != nil {
			return err
		}
	}
	return nil
}

// bFor implements `for`: initial increment limit body, in that stack
// order (initial pushed first, body last). The body is invoked with
// the current index pushed; if the top of stack afterward is a number
// equal to the index within tolerance, it is popped, so bodies that
// don't consume the index still leave a balanced stack.
func bFor(intp *Interpreter) error {
	proc, err := popProcedure(intp, "for")
	if err != nil {
		return err
	}
	n := len(intp.Stack)
	if n < 3 {
		return intp.e(KindStackunderflow, "for", "not enough arguments")
	}
	initial, ok := intp.Stack[n-3].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "for", "needs an integer initial value")
	}
	increment, ok := intp.Stack[n-2].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "for", "needs an integer increment")
	}
	limit, ok := intp.Stack[n-1].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "for", "needs an integer limit")
	}
	if increment == 0 {
		return intp.e(KindInvalidincrement, "for", "increment must not be zero")
	}
	intp.Stack = intp.Stack[:n-3]

	for idx := initial; (increment > 0 && idx <= limit) || (increment < 0 && idx >= limit); idx += increment {
		if intp.quit {
			break
		}
		intp.Stack = append(intp.Stack, idx)
		if err := intp.execProc(proc); err != nil {
			return err
		}
		if top := len(intp.Stack); top > 0 && equal(intp.Stack[top-1], idx) {
			intp.Stack = intp.Stack[:top-1]
		}
	}
	return nil
}

// --- misc -------------------------------------------------------------

func bQuit(intp *Interpreter) error {
	intp.quit = true
	return nil
}

// bMark pushes the mark sentinel, used to bracket a run of operands on
// the stack. No built-in in this package searches the stack for it.
func bMark(intp *Interpreter) error {
	intp.Stack = append(intp.Stack, theMark)
	return nil
}

func bPrint(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "print", "not enough arguments")
	}
	s, ok := intp.Stack[n-1].(String)
	if !ok {
		return intp.e(KindTypecheck, "print", "needs a string")
	}
	intp.Stack = intp.Stack[:n-1]
	_, err := intp.out.Write([]byte(s))
	return err
}

func bPrintLine(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "=", "not enough arguments")
	}
	val := intp.Stack[n-1]
	intp.Stack = intp.Stack[:n-1]
	_, err := fmt.Fprintln(intp.out, oneLine(val))
	return err
}

func bPrintPretty(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "==", "not enough arguments")
	}
	val := intp.Stack[n-1]
	intp.Stack = intp.Stack[:n-1]
	_, err := fmt.Fprintln(intp.out, prettyLine(val))
	return err
}

// --- stack shuffling beyond the required minimum --------------------------

func bIndex(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 1 {
		return intp.e(KindStackunderflow, "index", "not enough arguments")
	}
	idx, ok := intp.Stack[n-1].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "index", "needs an integer")
	}
	intp.Stack = intp.Stack[:n-1]
	n--
	if idx < 0 || int(idx) >= n {
		return intp.e(KindRangecheck, "index", "index %d out of bounds for depth %d", idx, n)
	}
	intp.Stack = append(intp.Stack, intp.Stack[n-int(idx)-1])
	return nil
}

// bRoll implements `n j roll`: a circular shift of the top n elements
// by j positions (positive j rolls toward the top of the stack).
func bRoll(intp *Interpreter) error {
	n := len(intp.Stack)
	if n < 2 {
		return intp.e(KindStackunderflow, "roll", "not enough arguments")
	}
	count, ok := intp.Stack[n-2].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "roll", "needs an integer count")
	}
	j, ok := intp.Stack[n-1].(Integer)
	if !ok {
		return intp.e(KindTypecheck, "roll", "needs an integer shift")
	}
	intp.Stack = intp.Stack[:n-2]
	n -= 2
	if count < 0 || int(count) > n {
		return intp.e(KindRangecheck, "roll", "count %d out of bounds for depth %d", count, n)
	}
	if count == 0 {
		return nil
	}
	j %= count
	if j < 0 {
		j += count
	}
	if j == 0 {
		return nil
	}
	window := intp.Stack[n-int(count):]
	rolled := make([]Object, count)
	copy(rolled, window[int(count-j):])
	copy(rolled[int(j):], window[:int(count-j)])
	copy(window, rolled)
	return nil
}
