// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

import (
	"math"

	"github.com/probechain/go-tiny/lang/token"
)

// Reporter receives the errors found while folding a constant expression.
type Reporter interface {
	Errorf(pos token.Position, format string, args ...interface{})
}

// EvalConst folds the expression rooted at id to an integer. Booleans fold
// to 1 and 0. Operands are evaluated left to right. Anything that cannot be
// folded (a variable, a string or float, a call, division by zero, a result
// outside the int64 range) is reported to r and contributes 0; evaluation
// always completes. Placeholder
// symbols contribute 0 silently since their use was already reported.
func EvalConst(t *Tree, id NodeID, r Reporter) int64 {
	switch n := t.Node(id).(type) {
	case *IntLit:
		return n.Value
	case *BoolLit:
		return b2i(n.Value)
	case *VarRef:
		if n.Sym.IsConstant {
			return n.Sym.ConstValue
		}
		if n.Sym.Placeholder {
			return 0
		}
		r.Errorf(n.Pos(), "%s is not a constant", n.Sym.Name)
		return 0
	case *StringLit:
		r.Errorf(n.Pos(), "string %q in constant expression", n.Value)
		return 0
	case *FloatLit:
		r.Errorf(n.Pos(), "floating-point value in constant expression")
		return 0
	case *Binary:
		lhs := EvalConst(t, n.Left, r)
		rhs := EvalConst(t, n.Right, r)
		return fold(n, lhs, rhs, r)
	case *Unary:
		v := EvalConst(t, n.Operand, r)
		switch n.Kind() {
		case Not:
			return b2i(v == 0)
		case UMinus:
			if v == math.MinInt64 {
				return overflow(n.Pos(), r)
			}
			return -v
		}
		return v
	case nil:
		return 0
	default:
		r.Errorf(n.Pos(), "%s is not allowed in a constant expression", n.Kind())
		return 0
	}
}

func fold(n *Binary, lhs, rhs int64, r Reporter) int64 {
	switch n.Kind() {
	case Times:
		v := lhs * rhs
		if lhs != 0 && (v/lhs != rhs || (lhs == -1 && rhs == math.MinInt64)) {
			return overflow(n.Pos(), r)
		}
		return v
	case Divide:
		if rhs == 0 {
			r.Errorf(n.Pos(), "division by zero in constant expression")
			return 0
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return overflow(n.Pos(), r)
		}
		return lhs / rhs
	case Plus:
		v := lhs + rhs
		if (lhs^v)&(rhs^v) < 0 {
			return overflow(n.Pos(), r)
		}
		return v
	case Minus:
		v := lhs - rhs
		if (lhs^rhs)&(lhs^v) < 0 {
			return overflow(n.Pos(), r)
		}
		return v
	case Eq:
		return b2i(lhs == rhs)
	case Neq:
		return b2i(lhs != rhs)
	case Lt:
		return b2i(lhs < rhs)
	case Le:
		return b2i(lhs <= rhs)
	case Gt:
		return b2i(lhs > rhs)
	case Ge:
		return b2i(lhs >= rhs)
	case And:
		return b2i(lhs != 0 && rhs != 0)
	case Or:
		return b2i(lhs != 0 || rhs != 0)
	}
	return 0
}

func overflow(pos token.Position, r Reporter) int64 {
	r.Errorf(pos, "integer overflow in constant expression")
	return 0
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
