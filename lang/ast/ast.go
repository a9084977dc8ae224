// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ast defines the abstract syntax tree of the Tiny language.
//
// Design overview:
//
//   - Nodes live in a Tree arena and refer to their children by NodeID.
//     Every node except the root has exactly one parent; subtrees are never
//     shared.
//   - The set of node types is closed. Each kind has one constructor on
//     Tree that takes exactly the fields of that kind.
//   - Declaration and reference nodes point at symbols owned by the scope
//     tables; the tree does not own them.
package ast

import (
	"fmt"

	"github.com/probechain/go-tiny/lang/symtab"
	"github.com/probechain/go-tiny/lang/token"
)

// Kind identifies the type of a node.
type Kind int

const (
	Invalid Kind = iota

	ProgramKind
	EOFKind

	// Declarations
	VarDeclKind
	ConstDeclKind
	RoutineDeclKind

	// Statements
	AssignKind
	IfKind
	WhileKind
	ForKind
	ReadKind
	WriteKind
	CallKind
	BlockKind
	ReturnKind

	// Leaves
	VarKind
	IntegerKind
	FloatKind
	StringKind
	BooleanKind

	// Binary operators
	Times
	Divide
	Plus
	Minus
	Eq
	Neq
	Lt
	Le
	Gt
	Ge
	And
	Or

	// Unary operators
	Not
	UMinus
	ItoF
)

var kindNames = [...]string{
	Invalid:         "invalid",
	ProgramKind:     "program",
	EOFKind:         "eof",
	VarDeclKind:     "var_decl",
	ConstDeclKind:   "const_decl",
	RoutineDeclKind: "routine_decl",
	AssignKind:      "assign",
	IfKind:          "if",
	WhileKind:       "while",
	ForKind:         "for",
	ReadKind:        "read",
	WriteKind:       "write",
	CallKind:        "call",
	BlockKind:       "block",
	ReturnKind:      "return",
	VarKind:         "var",
	IntegerKind:     "integer",
	FloatKind:       "float",
	StringKind:      "string",
	BooleanKind:     "boolean",
	Times:           "times",
	Divide:          "divide",
	Plus:            "plus",
	Minus:           "minus",
	Eq:              "eq",
	Neq:             "neq",
	Lt:              "lt",
	Le:              "le",
	Gt:              "gt",
	Ge:              "ge",
	And:             "and",
	Or:              "or",
	Not:             "not",
	UMinus:          "uminus",
	ItoF:            "itof",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsBinary reports whether k is a two-operand operator.
func (k Kind) IsBinary() bool { return k >= Times && k <= Or }

// IsRelational reports whether k compares its operands.
func (k Kind) IsRelational() bool { return k >= Eq && k <= Ge }

// IsLogical reports whether k is and, or or not.
func (k Kind) IsLogical() bool { return k == And || k == Or || k == Not }

// IsUnary reports whether k has a single operand.
func (k Kind) IsUnary() bool { return k >= Not && k <= ItoF }

var binaryOps = map[token.Type]Kind{
	token.STAR:  Times,
	token.SLASH: Divide,
	token.PLUS:  Plus,
	token.MINUS: Minus,
	token.EQ:    Eq,
	token.NEQ:   Neq,
	token.LT:    Lt,
	token.LTE:   Le,
	token.GT:    Gt,
	token.GTE:   Ge,
	token.AND:   And,
	token.OR:    Or,
}

// BinaryOp returns the node kind for a binary operator token.
func BinaryOp(t token.Type) (Kind, bool) {
	k, ok := binaryOps[t]
	return k, ok
}

// ---------------------------------------------------------------------------
// Nodes
// ---------------------------------------------------------------------------

// NodeID is a handle to a node in a Tree. The zero value refers to no node.
type NodeID int32

// NoNode is the absent optional child.
const NoNode NodeID = 0

// Node is implemented by every node type of this package and no other.
type Node interface {
	Kind() Kind
	Pos() token.Position
	node()
}

type base struct {
	kind Kind
	pos  token.Position
}

func (b *base) Kind() Kind          { return b.kind }
func (b *base) Pos() token.Position { return b.pos }
func (b *base) node()               {}

// Program is the root: the top-level declarations in order and the
// end-of-file marker.
type Program struct {
	base
	Decls []NodeID
	End   NodeID
}

// EOF marks the end of the source text.
type EOF struct{ base }

// VarDecl declares a variable of a given type.
type VarDecl struct {
	base
	Sym  *symtab.Symbol
	Type symtab.Type
}

// ConstDecl declares a named integer constant. Value is Init folded at
// parse time.
type ConstDecl struct {
	base
	Sym   *symtab.Symbol
	Init  NodeID
	Value int64
}

// RoutineDecl declares a function (Result != None) or procedure.
type RoutineDecl struct {
	base
	Sym     *symtab.Symbol
	Formals []*symtab.Symbol
	Result  symtab.Type
	Body    NodeID
}

// Assign stores Value into Target.
type Assign struct {
	base
	Target *symtab.Symbol
	Value  NodeID
}

// If has an optional Else branch (NoNode when absent).
type If struct {
	base
	Cond, Then, Else NodeID
}

// While repeats Body while Cond holds.
type While struct {
	base
	Cond, Body NodeID
}

// For counts Var from From to To inclusive.
type For struct {
	base
	Var      *symtab.Symbol
	From, To NodeID
	Body     NodeID
}

// Read reads a value into Var.
type Read struct {
	base
	Var *symtab.Symbol
}

// Write prints Var.
type Write struct {
	base
	Var *symtab.Symbol
}

// Call invokes a routine, as a statement or inside an expression.
type Call struct {
	base
	Callee *symtab.Symbol
	Args   []NodeID
}

// Block is a begin ... end scope: its local variable declarations followed
// by its statements.
type Block struct {
	base
	Decls []NodeID
	Stmts []NodeID
}

// Return leaves a function with a value.
type Return struct {
	base
	Value NodeID
}

// VarRef is a use of a named variable or constant.
type VarRef struct {
	base
	Sym *symtab.Symbol
}

// IntLit is an integer literal.
type IntLit struct {
	base
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	base
	Value float64
}

// StringLit is a string literal.
type StringLit struct {
	base
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	base
	Value bool
}

// Binary applies one of the binary operator kinds. Kind() returns the
// operator.
type Binary struct {
	base
	Left, Right NodeID
}

// Unary applies not, uminus or itof. Kind() returns the operator.
type Unary struct {
	base
	Operand NodeID
}
