// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

import (
	"errors"
	"fmt"

	"github.com/probechain/go-tiny/lang/symtab"
	"github.com/probechain/go-tiny/lang/token"
)

// ErrTreeFull is the panic value raised by constructors once a Tree holds
// its maximum number of nodes.
var ErrTreeFull = errors.New("ast: node limit reached")

// Tree is an arena of nodes.
type Tree struct {
	nodes []Node // nodes[0] is unused so that NoNode is never valid
	limit int
}

// NewTree returns an empty tree that accepts at most limit nodes, or any
// number of nodes if limit is not positive.
func NewTree(limit int) *Tree {
	return &Tree{nodes: make([]Node, 1, 64), limit: limit}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Node returns the node for id, or nil for NoNode and unknown handles.
func (t *Tree) Node(id NodeID) Node {
	if id <= 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Kind returns the kind of the node for id, Invalid for NoNode.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind()
	}
	return Invalid
}

// Program returns the root node when id refers to one.
func (t *Tree) Program(id NodeID) *Program {
	p, _ := t.Node(id).(*Program)
	return p
}

func (t *Tree) add(n Node) NodeID {
	if t.limit > 0 && t.Len() >= t.limit {
		panic(ErrTreeFull)
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// must checks that a required child refers to an existing node.
func (t *Tree) must(ids ...NodeID) {
	for _, id := range ids {
		if t.Node(id) == nil {
			panic(fmt.Sprintf("ast: missing required child (id %d)", id))
		}
	}
}

func mustSym(sym *symtab.Symbol) {
	if sym == nil {
		panic("ast: missing symbol")
	}
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewProgram builds the root node from the top-level declarations and the
// end-of-file marker.
func (t *Tree) NewProgram(pos token.Position, decls []NodeID, end NodeID) NodeID {
	t.must(decls...)
	t.must(end)
	return t.add(&Program{base{ProgramKind, pos}, decls, end})
}

// NewEOF builds the end-of-file marker.
func (t *Tree) NewEOF(pos token.Position) NodeID {
	return t.add(&EOF{base{EOFKind, pos}})
}

// NewVarDecl builds a variable declaration.
func (t *Tree) NewVarDecl(pos token.Position, sym *symtab.Symbol, typ symtab.Type) NodeID {
	mustSym(sym)
	return t.add(&VarDecl{base{VarDeclKind, pos}, sym, typ})
}

// NewConstDecl builds a constant declaration holding both the initializer
// and its folded value.
func (t *Tree) NewConstDecl(pos token.Position, sym *symtab.Symbol, init NodeID, value int64) NodeID {
	mustSym(sym)
	t.must(init)
	return t.add(&ConstDecl{base{ConstDeclKind, pos}, sym, init, value})
}

// NewRoutineDecl records the routine's formals and result type from sym.
func (t *Tree) NewRoutineDecl(pos token.Position, sym *symtab.Symbol, body NodeID) NodeID {
	mustSym(sym)
	t.must(body)
	return t.add(&RoutineDecl{base{RoutineDeclKind, pos}, sym, sym.Formals, sym.ResultType, body})
}

// NewAssign builds an assignment to target.
func (t *Tree) NewAssign(pos token.Position, target *symtab.Symbol, value NodeID) NodeID {
	mustSym(target)
	t.must(value)
	return t.add(&Assign{base{AssignKind, pos}, target, value})
}

// NewIf builds a conditional; els may be NoNode.
func (t *Tree) NewIf(pos token.Position, cond, then, els NodeID) NodeID {
	t.must(cond, then)
	if els != NoNode {
		t.must(els)
	}
	return t.add(&If{base{IfKind, pos}, cond, then, els})
}

// NewWhile builds a while loop.
func (t *Tree) NewWhile(pos token.Position, cond, body NodeID) NodeID {
	t.must(cond, body)
	return t.add(&While{base{WhileKind, pos}, cond, body})
}

// NewFor builds a counting loop over v from from to to inclusive.
func (t *Tree) NewFor(pos token.Position, v *symtab.Symbol, from, to, body NodeID) NodeID {
	mustSym(v)
	t.must(from, to, body)
	return t.add(&For{base{ForKind, pos}, v, from, to, body})
}

// NewRead builds a read into v.
func (t *Tree) NewRead(pos token.Position, v *symtab.Symbol) NodeID {
	mustSym(v)
	return t.add(&Read{base{ReadKind, pos}, v})
}

// NewWrite builds a write of v.
func (t *Tree) NewWrite(pos token.Position, v *symtab.Symbol) NodeID {
	mustSym(v)
	return t.add(&Write{base{WriteKind, pos}, v})
}

// NewCall builds a routine call; args are in source order.
func (t *Tree) NewCall(pos token.Position, callee *symtab.Symbol, args []NodeID) NodeID {
	mustSym(callee)
	t.must(args...)
	return t.add(&Call{base{CallKind, pos}, callee, args})
}

// NewBlock builds a block. Either list may be empty.
func (t *Tree) NewBlock(pos token.Position, decls, stmts []NodeID) NodeID {
	t.must(decls...)
	t.must(stmts...)
	return t.add(&Block{base{BlockKind, pos}, decls, stmts})
}

// NewReturn builds a return of value.
func (t *Tree) NewReturn(pos token.Position, value NodeID) NodeID {
	t.must(value)
	return t.add(&Return{base{ReturnKind, pos}, value})
}

// NewVarRef builds a reference to sym.
func (t *Tree) NewVarRef(pos token.Position, sym *symtab.Symbol) NodeID {
	mustSym(sym)
	return t.add(&VarRef{base{VarKind, pos}, sym})
}

// NewInt builds an integer literal.
func (t *Tree) NewInt(pos token.Position, v int64) NodeID {
	return t.add(&IntLit{base{IntegerKind, pos}, v})
}

// NewFloat builds a floating-point literal.
func (t *Tree) NewFloat(pos token.Position, v float64) NodeID {
	return t.add(&FloatLit{base{FloatKind, pos}, v})
}

// NewString builds a string literal.
func (t *Tree) NewString(pos token.Position, v string) NodeID {
	return t.add(&StringLit{base{StringKind, pos}, v})
}

// NewBool builds a boolean literal.
func (t *Tree) NewBool(pos token.Position, v bool) NodeID {
	return t.add(&BoolLit{base{BooleanKind, pos}, v})
}

// NewBinary builds a binary operation; op must satisfy IsBinary.
func (t *Tree) NewBinary(pos token.Position, op Kind, left, right NodeID) NodeID {
	if !op.IsBinary() {
		panic(fmt.Sprintf("ast: %s is not a binary operator", op))
	}
	t.must(left, right)
	return t.add(&Binary{base{op, pos}, left, right})
}

// NewUnary builds not, uminus or itof.
func (t *Tree) NewUnary(pos token.Position, op Kind, operand NodeID) NodeID {
	if !op.IsUnary() {
		panic(fmt.Sprintf("ast: %s is not a unary operator", op))
	}
	t.must(operand)
	return t.add(&Unary{base{op, pos}, operand})
}

// ---------------------------------------------------------------------------
// Traversal
// ---------------------------------------------------------------------------

// Children returns the direct children of id in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	var kids []NodeID
	switch n := t.Node(id).(type) {
	case *Program:
		kids = append(kids, n.Decls...)
		kids = append(kids, n.End)
	case *ConstDecl:
		kids = append(kids, n.Init)
	case *RoutineDecl:
		kids = append(kids, n.Body)
	case *Assign:
		kids = append(kids, n.Value)
	case *If:
		kids = append(kids, n.Cond, n.Then)
		if n.Else != NoNode {
			kids = append(kids, n.Else)
		}
	case *While:
		kids = append(kids, n.Cond, n.Body)
	case *For:
		kids = append(kids, n.From, n.To, n.Body)
	case *Call:
		kids = append(kids, n.Args...)
	case *Block:
		kids = append(kids, n.Decls...)
		kids = append(kids, n.Stmts...)
	case *Return:
		kids = append(kids, n.Value)
	case *Binary:
		kids = append(kids, n.Left, n.Right)
	case *Unary:
		kids = append(kids, n.Operand)
	}
	return kids
}

// Inspect traverses the subtree rooted at id in depth-first order, calling
// f for each node. If f returns false the node's children are skipped.
func (t *Tree) Inspect(id NodeID, f func(NodeID, Node) bool) {
	n := t.Node(id)
	if n == nil || !f(id, n) {
		return
	}
	for _, kid := range t.Children(id) {
		t.Inspect(kid, f)
	}
}

// Count returns how many nodes of kind k the subtree rooted at id holds.
func (t *Tree) Count(id NodeID, k Kind) int {
	n := 0
	t.Inspect(id, func(_ NodeID, node Node) bool {
		if node.Kind() == k {
			n++
		}
		return true
	})
	return n
}
