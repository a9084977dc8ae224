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
// Program and declarations
// ---------------------------------------------------------------------------

// parseProgram parses:
//
//	program = [ "program" ] { decl ( ";" | "." ) } EOF
func (p *Parser) parseProgram() ast.NodeID {
	pos := p.cur.Pos
	if p.curIs(token.PROGRAM) {
		p.next()
	}
	var decls []ast.NodeID
	for !p.curIs(token.EOF) {
		if !declStart.Contains(p.cur.Type) {
			p.syntaxErrorf(p.cur.Pos, "expected declaration, found %s", describeToken(p.cur))
			for !p.curIs(token.EOF) && !declStart.Contains(p.cur.Type) {
				p.next()
			}
			continue
		}
		decls = append(decls, p.parseDecl())
		if p.curIs(token.DOT) {
			p.next()
			if !p.curIs(token.EOF) {
				p.syntaxErrorf(p.cur.Pos, "unexpected %s after final '.'", describeToken(p.cur))
			}
			continue
		}
		p.match(token.SEMICOLON)
	}
	end := p.tree.NewEOF(p.cur.Pos)
	return p.tree.NewProgram(pos, decls, end)
}

// parseDecl parses one declaration; the current token is in declStart.
func (p *Parser) parseDecl() ast.NodeID {
	switch p.cur.Type {
	case token.VAR:
		return p.parseVarDecl()
	case token.CONSTANT:
		return p.parseConstDecl()
	case token.FUNCTION, token.PROCEDURE:
		return p.parseRoutineDecl()
	default:
		return p.parseScopedBlock()
	}
}

// parseVarDecl parses:
//
//	var_decl = "var" ident ":" type
func (p *Parser) parseVarDecl() ast.NodeID {
	pos := p.match(token.VAR).Pos
	name, npos := p.matchIdent()
	p.match(token.COLON)
	typ := p.parseType()
	sym := p.declare(name, npos, symtab.Variable)
	sym.Type = typ
	return p.tree.NewVarDecl(pos, sym, typ)
}

// parseConstDecl parses:
//
//	const_decl = "constant" ident "=" expr
//
// The initializer is folded before the name is declared, so it cannot refer
// to the constant being defined.
func (p *Parser) parseConstDecl() ast.NodeID {
	pos := p.match(token.CONSTANT).Pos
	name, npos := p.matchIdent()
	p.match(token.EQ)
	init := p.parseExpr()
	value := ast.EvalConst(p.tree, init, evalReporter{p})

	sym := p.declare(name, npos, symtab.Constant)
	sym.Type = symtab.Integer
	sym.IsConstant, sym.ConstValue = true, value
	return p.tree.NewConstDecl(pos, sym, init, value)
}

// parseRoutineDecl parses:
//
//	routine_decl = "function" ident "(" [ formals ] ")" ":" type block
//	             | "procedure" ident "(" [ formals ] ")" block
//	formals      = formal { "," formal }
//
// The routine name is declared in the enclosing scope. Formals and the
// body's locals share one new scope.
func (p *Parser) parseRoutineDecl() ast.NodeID {
	pos := p.cur.Pos
	isFunc := p.curIs(token.FUNCTION)
	p.next()

	name, npos := p.matchIdent()
	sym := p.declare(name, npos, symtab.Routine)

	p.openScope()
	defer p.closeScope()

	p.match(token.LPAREN)
	var formals []*symtab.Symbol
	if !p.curIs(token.RPAREN) {
		formals = append(formals, p.parseFormal())
		for p.curIs(token.COMMA) {
			p.next()
			formals = append(formals, p.parseFormal())
		}
	}
	p.match(token.RPAREN)
	sym.Formals = formals

	if isFunc {
		p.match(token.COLON)
		sym.ResultType = p.parseType()
		sym.Type = sym.ResultType
	} else if p.curIs(token.COLON) {
		p.semanticErrorf(p.cur.Pos, "procedure %s cannot have a result type", sym.Name)
		p.next()
		p.parseType()
	}

	outer := p.routine
	p.routine = sym
	body := p.parseBlock()
	p.routine = outer

	return p.tree.NewRoutineDecl(pos, sym, body)
}

// parseFormal parses:
//
//	formal = ident ":" type
func (p *Parser) parseFormal() *symtab.Symbol {
	name, npos := p.matchIdent()
	p.match(token.COLON)
	typ := p.parseType()
	sym := p.declare(name, npos, symtab.Variable)
	sym.Type = typ
	return sym
}

// parseType parses:
//
//	type = "integer" | "float" | "bool" | "string"
//
// A missing type is reported and read as integer.
func (p *Parser) parseType() symtab.Type {
	var typ symtab.Type
	switch p.cur.Type {
	case token.INTEGER:
		typ = symtab.Integer
	case token.FLOATTYPE:
		typ = symtab.Float
	case token.BOOL:
		typ = symtab.Boolean
	case token.STRINGTYPE:
		typ = symtab.String
	default:
		p.syntaxErrorf(p.cur.Pos, "expected type, found %s", describeToken(p.cur))
		return symtab.Integer
	}
	p.next()
	return typ
}

// ---------------------------------------------------------------------------
// Blocks
// ---------------------------------------------------------------------------

// parseScopedBlock parses a block that opens its own scope.
func (p *Parser) parseScopedBlock() ast.NodeID {
	p.openScope()
	defer p.closeScope()
	return p.parseBlock()
}

// parseBlock parses:
//
//	block = "begin" { var_decl ";" } { stmt ";" } "end"
//
// in the current scope.
func (p *Parser) parseBlock() ast.NodeID {
	p.enter()
	defer p.leave()

	pos := p.match(token.BEGIN).Pos
	var decls, stmts []ast.NodeID
	for p.curIs(token.VAR) {
		decls = append(decls, p.parseVarDecl())
		p.match(token.SEMICOLON)
	}
	for !p.curIs(token.END) && !p.curIs(token.EOF) {
		before := p.cur.Pos.Offset
		switch {
		case p.curIs(token.VAR):
			p.syntaxErrorf(p.cur.Pos, "variable declaration after statements")
			decls = append(decls, p.parseVarDecl())
		case strayClose.Contains(p.cur.Type):
			p.syntaxErrorf(p.cur.Pos, "unexpected %s", describeToken(p.cur))
			p.next()
			if p.curIs(token.SEMICOLON) {
				p.next()
			}
			continue
		case !stmtStart.Contains(p.cur.Type):
			// Junk between statements adds no node.
			p.syntaxErrorf(p.cur.Pos, "expected statement, found %s", describeToken(p.cur))
			p.skipTo(stmtStop)
		default:
			stmts = append(stmts, p.parseStmt())
		}
		p.match(token.SEMICOLON)
		if p.cur.Pos.Offset == before && !p.curIs(token.END) {
			// Nothing was consumed; drop the offending token.
			p.next()
		}
	}
	p.match(token.END)
	return p.tree.NewBlock(pos, decls, stmts)
}
