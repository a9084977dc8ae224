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
// Statements
// ---------------------------------------------------------------------------

// parseStmt dispatches on the first token of a statement. A token that
// cannot start one is reported, skipped up to the next statement boundary
// and replaced by an empty block.
func (p *Parser) parseStmt() ast.NodeID {
	p.enter()
	defer p.leave()

	switch p.cur.Type {
	case token.IDENT:
		return p.parseIdentStmt()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.READ, token.WRITE:
		return p.parseIO()
	case token.RETURN:
		return p.parseReturn()
	case token.BEGIN:
		return p.parseScopedBlock()
	}
	pos := p.cur.Pos
	p.syntaxErrorf(pos, "expected statement, found %s", describeToken(p.cur))
	p.skipTo(stmtStop)
	return p.tree.NewBlock(pos, nil, nil)
}

// parseIdentStmt parses:
//
//	stmt = ident ":=" expr
//	     | ident "(" [ args ] ")"
func (p *Parser) parseIdentStmt() ast.NodeID {
	tok := p.cur
	p.next()
	if p.curIs(token.LPAREN) {
		sym := p.resolve(tok.Text, tok.Pos, symtab.Routine)
		return p.parseCall(sym, tok.Pos, false)
	}
	sym := p.resolve(tok.Text, tok.Pos, symtab.Variable)
	p.match(token.ASSIGN)
	value := p.parseExpr()
	p.checkWritable(sym, tok.Pos)
	return p.tree.NewAssign(tok.Pos, sym, p.coerce(sym.Type, value))
}

// parseIf parses:
//
//	if_stmt = "if" expr "then" stmt [ "else" stmt ] "fi"
func (p *Parser) parseIf() ast.NodeID {
	pos := p.match(token.IF).Pos
	cond := p.parseExpr()
	p.match(token.THEN)
	then := p.parseStmt()
	els := ast.NoNode
	if p.curIs(token.ELSE) {
		p.next()
		els = p.parseStmt()
	}
	p.match(token.FI)
	return p.tree.NewIf(pos, cond, then, els)
}

// parseWhile parses:
//
//	while_stmt = "while" expr "do" stmt "od"
func (p *Parser) parseWhile() ast.NodeID {
	pos := p.match(token.WHILE).Pos
	cond := p.parseExpr()
	p.match(token.DO)
	body := p.parseStmt()
	p.match(token.OD)
	return p.tree.NewWhile(pos, cond, body)
}

// parseFor parses:
//
//	for_stmt = "for" ident ":=" expr "to" expr "do" stmt "od"
func (p *Parser) parseFor() ast.NodeID {
	pos := p.match(token.FOR).Pos
	name, npos := p.matchIdent()
	sym := p.resolve(name, npos, symtab.Variable)
	p.checkWritable(sym, npos)
	p.match(token.ASSIGN)
	from := p.parseExpr()
	p.match(token.TO)
	to := p.parseExpr()
	p.match(token.DO)
	body := p.parseStmt()
	p.match(token.OD)
	return p.tree.NewFor(pos, sym, from, to, body)
}

// parseIO parses:
//
//	io_stmt = ( "read" | "write" ) "(" ident ")"
func (p *Parser) parseIO() ast.NodeID {
	isRead := p.curIs(token.READ)
	pos := p.cur.Pos
	p.next()
	p.match(token.LPAREN)
	name, npos := p.matchIdent()
	sym := p.resolve(name, npos, symtab.Variable)
	p.match(token.RPAREN)

	if isRead {
		p.checkWritable(sym, npos)
		return p.tree.NewRead(pos, sym)
	}
	if sym.Kind == symtab.Routine && !sym.Placeholder {
		p.semanticErrorf(npos, "cannot write routine %s", sym.Name)
	}
	return p.tree.NewWrite(pos, sym)
}

// parseReturn parses:
//
//	return_stmt = "return" "(" expr ")"
func (p *Parser) parseReturn() ast.NodeID {
	pos := p.match(token.RETURN).Pos
	p.match(token.LPAREN)
	value := p.parseExpr()
	p.match(token.RPAREN)

	switch {
	case p.routine == nil:
		p.semanticErrorf(pos, "return outside a function")
	case p.routine.IsProcedure():
		p.semanticErrorf(pos, "procedure %s cannot return a value", p.routine.Name)
	default:
		value = p.coerce(p.routine.ResultType, value)
	}
	return p.tree.NewReturn(pos, value)
}

// parseCall parses the argument list of a call to sym, whose name has been
// consumed:
//
//	call = ident "(" [ expr { "," expr } ] ")"
func (p *Parser) parseCall(sym *symtab.Symbol, pos token.Position, inExpr bool) ast.NodeID {
	p.match(token.LPAREN)
	var args []ast.NodeID
	if !p.curIs(token.RPAREN) {
		args = append(args, p.parseExpr())
		for p.curIs(token.COMMA) {
			p.next()
			args = append(args, p.parseExpr())
		}
	}
	p.match(token.RPAREN)

	switch {
	case sym.Kind != symtab.Routine:
		if !sym.Placeholder {
			p.semanticErrorf(pos, "%s is not a routine", sym.Name)
		}
	case sym.Placeholder:
	case len(args) != len(sym.Formals):
		p.semanticErrorf(pos, "%s expects %d argument(s), found %d", sym.Name, len(sym.Formals), len(args))
	default:
		for i, f := range sym.Formals {
			args[i] = p.coerce(f.Type, args[i])
		}
	}
	if inExpr && sym.IsProcedure() && !sym.Placeholder {
		p.semanticErrorf(pos, "procedure %s used as a value", sym.Name)
	}
	return p.tree.NewCall(pos, sym, args)
}
