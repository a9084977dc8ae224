// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package parser

import (
	"github.com/probechain/go-tiny/lang/ast"
	"github.com/probechain/go-tiny/lang/symtab"
	"github.com/probechain/go-tiny/lang/token"
)

// ---------------------------------------------------------------------------
// Expressions
//
// Precedence, loosest first: and/or, relational (non-chaining), + -, * /,
// unary - and not. Every binary level is left-associative.
// ---------------------------------------------------------------------------

// parseExpr parses:
//
//	expr = rel { ( "and" | "or" ) rel }
func (p *Parser) parseExpr() ast.NodeID {
	p.enter()
	defer p.leave()

	left := p.parseRel()
	for p.curIs(token.AND) || p.curIs(token.OR) {
		left = p.binary(left, p.parseRel)
	}
	return left
}

// parseRel parses:
//
//	rel = add [ relop add ]
//
// A second relational operator is reported and then accepted as if the
// comparison were left-associative.
func (p *Parser) parseRel() ast.NodeID {
	left := p.parseAdd()
	for n := 0; p.cur.Type.IsRelational(); n++ {
		if n == 1 {
			p.syntaxErrorf(p.cur.Pos, "relational operators do not chain")
		}
		left = p.binary(left, p.parseAdd)
	}
	return left
}

// parseAdd parses:
//
//	add = mul { ( "+" | "-" ) mul }
func (p *Parser) parseAdd() ast.NodeID {
	left := p.parseMul()
	for p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		left = p.binary(left, p.parseMul)
	}
	return left
}

// parseMul parses:
//
//	mul = unary { ( "*" | "/" ) unary }
func (p *Parser) parseMul() ast.NodeID {
	left := p.parseUnary()
	for p.curIs(token.STAR) || p.curIs(token.SLASH) {
		left = p.binary(left, p.parseUnary)
	}
	return left
}

// binary consumes the operator at the current token, parses the right
// operand with operand and combines both sides, inserting int-to-float
// conversions for mixed arithmetic.
func (p *Parser) binary(left ast.NodeID, operand func() ast.NodeID) ast.NodeID {
	op := p.cur
	kind, _ := ast.BinaryOp(op.Type)
	p.next()
	right := operand()
	if !kind.IsLogical() {
		left, right = p.balance(left, right)
	}
	return p.tree.NewBinary(op.Pos, kind, left, right)
}

// parseUnary parses:
//
//	unary = ( "-" | "not" ) "(" expr ")" | primary
func (p *Parser) parseUnary() ast.NodeID {
	if !p.curIs(token.MINUS) && !p.curIs(token.NOT) {
		return p.parsePrimary()
	}
	op := p.cur
	kind := ast.UMinus
	if op.Type == token.NOT {
		kind = ast.Not
	}
	p.next()

	if !p.curIs(token.LPAREN) {
		p.syntaxErrorf(p.cur.Pos, "%s must be followed by '('", describe(op.Type))
		return p.tree.NewUnary(op.Pos, kind, p.parseUnary())
	}
	p.next()
	operand := p.parseExpr()
	p.match(token.RPAREN)
	return p.tree.NewUnary(op.Pos, kind, operand)
}

// parsePrimary parses:
//
//	primary = ident [ "(" [ args ] ")" ] | INT | FLOAT | STRING
//	        | "true" | "false" | "(" expr ")"
func (p *Parser) parsePrimary() ast.NodeID {
	tok := p.cur
	switch tok.Type {
	case token.IDENT:
		p.next()
		if p.curIs(token.LPAREN) {
			sym := p.resolve(tok.Text, tok.Pos, symtab.Routine)
			return p.parseCall(sym, tok.Pos, true)
		}
		sym := p.resolve(tok.Text, tok.Pos, symtab.Variable)
		if sym.Kind == symtab.Routine && !sym.Placeholder {
			p.semanticErrorf(tok.Pos, "routine %s used without a call", sym.Name)
		}
		return p.tree.NewVarRef(tok.Pos, sym)
	case token.INT:
		p.next()
		return p.tree.NewInt(tok.Pos, tok.Int)
	case token.FLOAT:
		p.next()
		return p.tree.NewFloat(tok.Pos, tok.Float)
	case token.STRING:
		p.next()
		return p.tree.NewString(tok.Pos, tok.Text)
	case token.TRUE, token.FALSE:
		p.next()
		return p.tree.NewBool(tok.Pos, tok.Type == token.TRUE)
	case token.LPAREN:
		p.next()
		e := p.parseExpr()
		p.match(token.RPAREN)
		return e
	}
	p.syntaxErrorf(tok.Pos, "expected expression, found %s", describeToken(tok))
	return p.tree.NewInt(tok.Pos, 0)
}

// ---------------------------------------------------------------------------
// Implicit conversions
// ---------------------------------------------------------------------------

// typeOf infers the value type of an expression as far as conversions need
// it. It performs no checking.
func (p *Parser) typeOf(id ast.NodeID) symtab.Type {
	switch n := p.tree.Node(id).(type) {
	case *ast.IntLit:
		return symtab.Integer
	case *ast.FloatLit:
		return symtab.Float
	case *ast.StringLit:
		return symtab.String
	case *ast.BoolLit:
		return symtab.Boolean
	case *ast.VarRef:
		return n.Sym.Type
	case *ast.Call:
		return n.Callee.ResultType
	case *ast.Binary:
		if n.Kind().IsRelational() || n.Kind().IsLogical() {
			return symtab.Boolean
		}
		if p.typeOf(n.Left) == symtab.Float || p.typeOf(n.Right) == symtab.Float {
			return symtab.Float
		}
		return symtab.Integer
	case *ast.Unary:
		switch n.Kind() {
		case ast.Not:
			return symtab.Boolean
		case ast.ItoF:
			return symtab.Float
		}
		return p.typeOf(n.Operand)
	}
	return symtab.None
}

// coerce wraps an integer expression in itof when a float is wanted.
func (p *Parser) coerce(want symtab.Type, id ast.NodeID) ast.NodeID {
	if want == symtab.Float && p.typeOf(id) == symtab.Integer {
		return p.tree.NewUnary(p.tree.Node(id).Pos(), ast.ItoF, id)
	}
	return id
}

// balance converts the integer side of a mixed integer/float pair.
func (p *Parser) balance(left, right ast.NodeID) (ast.NodeID, ast.NodeID) {
	lt, rt := p.typeOf(left), p.typeOf(right)
	switch {
	case lt == symtab.Float && rt == symtab.Integer:
		right = p.coerce(symtab.Float, right)
	case lt == symtab.Integer && rt == symtab.Float:
		left = p.coerce(symtab.Float, left)
	}
	return left, right
}
