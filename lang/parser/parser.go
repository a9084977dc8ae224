// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package parser implements a single-pass predictive recursive-descent parser
// for the Tiny language.
//
// Design overview:
//
//   - One token of lookahead; every grammar rule is a method.
//   - Semantic actions run inline: declarations go into the scope stack,
//     references are resolved against it, constants are folded and AST nodes
//     are built as rules complete.
//   - Errors are collected rather than aborting. A failed match reports the
//     expected token and carries on as if it had been present; stray tokens
//     are skipped up to the next statement or declaration boundary.
//   - Resource exhaustion (AST size, scope depth, grammar nesting) ends the
//     parse with an error instead of a diagnostic.
package parser

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"github.com/probechain/go-tiny/lang/ast"
	"github.com/probechain/go-tiny/lang/diag"
	"github.com/probechain/go-tiny/lang/lexer"
	"github.com/probechain/go-tiny/lang/source"
	"github.com/probechain/go-tiny/lang/symtab"
	"github.com/probechain/go-tiny/lang/token"
	"github.com/probechain/go-tiny/log"
)

// ErrTooDeep is returned when statements or expressions nest deeper than
// Config.MaxNesting.
var ErrTooDeep = errors.New("parser: nesting limit exceeded")

// Config bounds the resources a single parse may use.
type Config struct {
	Buckets       int  // hash buckets per scope table
	FoldCase      bool // compare identifiers case-insensitively
	MaxNodes      int  // AST node limit, 0 for none
	MaxScopeDepth int  // scope nesting limit, 0 for none
	MaxNesting    int  // statement/expression nesting limit, 0 for none
}

// DefaultConfig is used by ParseString.
var DefaultConfig = Config{
	Buckets:       symtab.DefaultBuckets,
	MaxNodes:      1 << 20,
	MaxScopeDepth: 256,
	MaxNesting:    1000,
}

// Result is what a parse produces.
type Result struct {
	File        *source.File
	Tree        *ast.Tree
	Root        ast.NodeID // the program node; NoNode after a fatal error
	Globals     *symtab.Scope // frozen once the parse returns
	Diagnostics diag.List
}

// Succeeded reports whether the source was free of diagnostics.
func (r *Result) Succeeded() bool { return r.Root != ast.NoNode && len(r.Diagnostics) == 0 }

// Program returns the root node.
func (r *Result) Program() *ast.Program { return r.Tree.Program(r.Root) }

// bailout carries a fatal error up through the recursive descent.
type bailout struct{ err error }

// ---------------------------------------------------------------------------
// Token classes
// ---------------------------------------------------------------------------

func typeSet(types ...token.Type) mapset.Set {
	s := mapset.NewThreadUnsafeSet()
	for _, t := range types {
		s.Add(t)
	}
	return s
}

var (
	declStart = typeSet(token.VAR, token.CONSTANT, token.FUNCTION, token.PROCEDURE, token.BEGIN)
	stmtStart = typeSet(token.IDENT, token.IF, token.WHILE, token.FOR, token.READ,
		token.WRITE, token.RETURN, token.BEGIN)

	// stmtStop holds the tokens a broken statement is skipped up to.
	stmtStop = stmtStart.Union(typeSet(token.SEMICOLON, token.END, token.FI, token.OD,
		token.ELSE, token.EOF))

	// strayClose holds closing keywords that never start or end a block
	// statement on their own.
	strayClose = typeSet(token.FI, token.OD, token.ELSE)
)

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

// Parser holds the mutable state for a single parse run.
type Parser struct {
	file *source.File
	lex  *lexer.Lexer
	cur  token.Token

	tree    *ast.Tree
	scopes  *symtab.Stack
	diags   diag.List
	routine *symtab.Symbol // routine whose body is being parsed

	lastErr int // offset of the last syntax error, to drop duplicates
	depth   int
	cfg     Config
	log     log.Logger
}

// Parse parses a complete program. Diagnostics are reported in the result;
// the error is non-nil only when the parse had to be abandoned.
func Parse(f *source.File, cfg Config) (*Result, error) {
	return newParser(f, cfg).run()
}

func newParser(f *source.File, cfg Config) *Parser {
	p := &Parser{
		file:    f,
		tree:    ast.NewTree(cfg.MaxNodes),
		scopes:  symtab.NewStack(cfg.Buckets, cfg.FoldCase, cfg.MaxScopeDepth),
		lastErr: -1,
		cfg:     cfg,
		log:     log.New("module", "parser", "file", f.Name),
	}
	p.lex = lexer.New(f, &p.diags)
	return p
}

func (p *Parser) run() (res *Result, err error) {
	res = &Result{File: p.file, Tree: p.tree, Globals: p.scopes.Global()}

	defer func() {
		res.Diagnostics = p.diags
		res.Globals.Freeze()
		r := recover()
		if r == nil {
			return
		}
		switch e := r.(type) {
		case bailout:
			err = e.err
		case error:
			if e != ast.ErrTreeFull {
				panic(r)
			}
			err = e
		default:
			panic(r)
		}
		res.Root = ast.NoNode
		p.log.Warn("Parse abandoned", "pos", p.cur.Pos, "err", err)
	}()

	p.next()
	res.Root = p.parseProgram()
	if d := p.scopes.Depth(); d != 0 {
		p.log.Error("Unbalanced scopes after parse", "depth", d)
	}
	p.log.Debug("Parsed program", "nodes", p.tree.Len(), "diagnostics", len(p.diags))
	return res, nil
}

// ParseString parses src with DefaultConfig.
func ParseString(name, src string) (*Result, error) {
	return Parse(source.New(name, []byte(src)), DefaultConfig)
}

// ---------------------------------------------------------------------------
// Token navigation helpers
// ---------------------------------------------------------------------------

func (p *Parser) next() {
	p.cur = p.lex.Scan()
}

func (p *Parser) curIs(t token.Type) bool {
	return p.cur.Type == t
}

// match consumes the current token if it has type t. Otherwise it reports
// the mismatch and returns a token of type t at the current position,
// leaving the offending token for the enclosing rule.
func (p *Parser) match(t token.Type) token.Token {
	if p.cur.Type == t {
		tok := p.cur
		p.next()
		return tok
	}
	p.syntaxErrorf(p.cur.Pos, "expected %s, found %s", describe(t), describeToken(p.cur))
	p.log.Trace("Inserted missing token", "want", t, "found", p.cur.Type, "pos", p.cur.Pos)
	return token.Token{Type: t, Pos: p.cur.Pos}
}

// matchIdent consumes an identifier and returns its name, or "" after
// reporting a missing one.
func (p *Parser) matchIdent() (string, token.Position) {
	tok := p.match(token.IDENT)
	return tok.Text, tok.Pos
}

// skipTo advances until the current token is in stop.
func (p *Parser) skipTo(stop mapset.Set) {
	for !stop.Contains(p.cur.Type) {
		p.next()
	}
}

// enter guards recursion depth; every call must be paired with leave.
func (p *Parser) enter() {
	p.depth++
	if p.cfg.MaxNesting > 0 && p.depth > p.cfg.MaxNesting {
		panic(bailout{ErrTooDeep})
	}
}

func (p *Parser) leave() {
	p.depth--
}

// ---------------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------------

func (p *Parser) syntaxErrorf(pos token.Position, format string, args ...interface{}) {
	if pos.Offset == p.lastErr {
		return
	}
	p.lastErr = pos.Offset
	p.diags.Add(diag.Syntax, pos, format, args...)
}

func (p *Parser) semanticErrorf(pos token.Position, format string, args ...interface{}) {
	p.diags.Add(diag.Semantic, pos, format, args...)
}

// evalReporter routes constant folding errors into the parser's diagnostics.
type evalReporter struct{ p *Parser }

func (r evalReporter) Errorf(pos token.Position, format string, args ...interface{}) {
	r.p.semanticErrorf(pos, format, args...)
}

func describe(t token.Type) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.INT:
		return "integer literal"
	case token.FLOAT:
		return "float literal"
	case token.STRING:
		return "string literal"
	case token.EOF:
		return "end of file"
	case token.ILLEGAL:
		return "illegal token"
	}
	return "'" + t.String() + "'"
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.ILLEGAL:
		return fmt.Sprintf("%s %s", describe(tok.Type), tok.Literal())
	}
	return describe(tok.Type)
}

// ---------------------------------------------------------------------------
// Scopes and symbols
// ---------------------------------------------------------------------------

func (p *Parser) openScope() {
	if _, err := p.scopes.Enter(); err != nil {
		panic(bailout{err})
	}
}

func (p *Parser) closeScope() {
	if _, err := p.scopes.Exit(); err != nil {
		p.log.Error("Scope exit failed", "err", err)
	}
}

// declare adds name to the current scope. On failure the diagnostic is
// reported and a symbol outside any scope is returned so the caller can
// still build its node.
func (p *Parser) declare(name string, pos token.Position, kind symtab.Kind) *symtab.Symbol {
	if name == "" {
		sym := symtab.NewSymbol("_", kind, pos.Line)
		sym.Placeholder = true
		return sym
	}
	scope := p.scopes.Current()
	if prev := scope.LookupLocal(name); prev != nil && prev.Placeholder {
		// An earlier undeclared use invented this symbol; the declaration
		// takes it over.
		prev.Kind, prev.Line, prev.Placeholder = kind, pos.Line, false
		return prev
	}
	sym, err := scope.Declare(name, kind, pos.Line)
	if err != nil {
		p.semanticErrorf(pos, "%v", err)
		return symtab.NewSymbol(name, kind, pos.Line)
	}
	return sym
}

// resolve looks name up through the scope chain. An undeclared name is
// reported once and then declared in the current scope as a placeholder of
// the given kind.
func (p *Parser) resolve(name string, pos token.Position, kind symtab.Kind) *symtab.Symbol {
	if name == "" {
		sym := symtab.NewSymbol("_", kind, pos.Line)
		sym.Placeholder, sym.Type = true, symtab.Integer
		return sym
	}
	if sym := p.scopes.Current().Lookup(name); sym != nil {
		return sym
	}
	p.semanticErrorf(pos, "undeclared identifier %s", name)
	sym, _ := p.scopes.Current().Declare(name, kind, pos.Line)
	sym.Type, sym.Placeholder = symtab.Integer, true
	return sym
}

// checkWritable reports targets of assignment, read or for that are not
// variables.
func (p *Parser) checkWritable(sym *symtab.Symbol, pos token.Position) {
	if sym.Placeholder || sym.Kind == symtab.Variable {
		return
	}
	p.semanticErrorf(pos, "cannot assign to %s %s", sym.Kind, sym.Name)
}
