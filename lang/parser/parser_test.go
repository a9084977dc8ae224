// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package parser

import (
	"strings"
	"testing"

	"github.com/probechain/go-tiny/lang/ast"
	"github.com/probechain/go-tiny/lang/diag"
	"github.com/probechain/go-tiny/lang/source"
	"github.com/probechain/go-tiny/lang/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// mustParse asserts that the source parses without diagnostics and returns
// the result.
func mustParse(t *testing.T, src string) *Result {
	t.Helper()
	res, err := ParseString("test.tiny", src)
	require.NoError(t, err)
	if len(res.Diagnostics) > 0 {
		t.Fatalf("unexpected diagnostics:\n%v", res.Diagnostics)
	}
	require.True(t, res.Succeeded())
	return res
}

// parseWithErrors parses and expects at least one diagnostic.
func parseWithErrors(t *testing.T, src string) *Result {
	t.Helper()
	res, err := ParseString("test.tiny", src)
	require.NoError(t, err)
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected diagnostics, but none were reported")
	}
	require.False(t, res.Succeeded())
	require.NotNil(t, res.Program(), "a program node is built even with errors")
	return res
}

// decl returns the i-th top-level declaration.
func decl(t *testing.T, res *Result, i int) ast.Node {
	t.Helper()
	prog := res.Program()
	require.True(t, i < len(prog.Decls), "program has %d declarations", len(prog.Decls))
	return res.Tree.Node(prog.Decls[i])
}

// exprOf parses "x := <expr>" inside a block and returns the rendered
// right-hand side.
func exprOf(t *testing.T, decls, expr string) string {
	t.Helper()
	res := mustParse(t, "program "+decls+" var x : integer; begin x := "+expr+"; end.")
	block := decl(t, res, len(res.Program().Decls)-1).(*ast.Block)
	assign := res.Tree.Node(block.Stmts[0]).(*ast.Assign)
	return res.Tree.String(assign.Value)
}

// ---------------------------------------------------------------------------
// Whole programs
// ---------------------------------------------------------------------------

func TestSimpleProgram(t *testing.T) {
	res := mustParse(t, "program var x : integer; begin x := 5; write(x); end.")
	prog := res.Program()
	require.Len(t, prog.Decls, 2)

	v := decl(t, res, 0).(*ast.VarDecl)
	assert.Equal(t, "x", v.Sym.Name)
	assert.Equal(t, symtab.Integer, v.Type)

	block := decl(t, res, 1).(*ast.Block)
	require.Len(t, block.Stmts, 2)
	assert.Equal(t, ast.AssignKind, res.Tree.Kind(block.Stmts[0]))
	assert.Equal(t, ast.WriteKind, res.Tree.Kind(block.Stmts[1]))
	assert.Equal(t, ast.EOFKind, res.Tree.Kind(prog.End))

	assert.Equal(t, "(program (var_decl x integer) (block (assign x 5) (write x)))", res.Tree.String(res.Root))
	assert.Same(t, res.Globals.LookupLocal("x"), block0Target(res, block))
}

func block0Target(res *Result, b *ast.Block) *symtab.Symbol {
	return res.Tree.Node(b.Stmts[0]).(*ast.Assign).Target
}

func TestOptionalProgramKeyword(t *testing.T) {
	mustParse(t, "var x : integer; begin x := 1; end;")
	mustParse(t, "program begin end.")
	mustParse(t, "")
}

func TestConstantFolding(t *testing.T) {
	res := mustParse(t, "program constant N = 3 + 4 * 2; var y : integer; begin y := N; end.")
	c := decl(t, res, 0).(*ast.ConstDecl)
	assert.Equal(t, int64(11), c.Value)

	n := res.Globals.LookupLocal("N")
	require.NotNil(t, n)
	assert.Equal(t, symtab.Constant, n.Kind)
	assert.True(t, n.IsConstant)
	assert.Equal(t, int64(11), n.ConstValue)
	assert.Equal(t, "(const_decl N 11)", res.Tree.String(res.Program().Decls[0]))
}

func TestConstantFromConstants(t *testing.T) {
	res := mustParse(t, "program constant A = 6; constant B = A / 2 - -1; constant C = (A > B) and not(false);")
	assert.Equal(t, int64(4), res.Globals.LookupLocal("B").ConstValue)
	assert.Equal(t, int64(1), res.Globals.LookupLocal("C").ConstValue)
}

func TestConstantErrors(t *testing.T) {
	res := parseWithErrors(t, "program var v : integer; constant D = 10 / 0; constant E = v + 1;")
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, diag.Semantic, res.Diagnostics[0].Kind)
	assert.Contains(t, res.Diagnostics[0].Msg, "division by zero")
	assert.Contains(t, res.Diagnostics[1].Msg, "v is not a constant")
	assert.Equal(t, int64(0), res.Globals.LookupLocal("D").ConstValue)
	assert.Equal(t, int64(1), res.Globals.LookupLocal("E").ConstValue)

	// A constant cannot see itself in its own initializer.
	res = parseWithErrors(t, "program constant N = N + 1;")
	assert.Contains(t, res.Diagnostics[0].Msg, "undeclared identifier N")
}

func TestConstantOverflow(t *testing.T) {
	res := parseWithErrors(t, "program constant X = 9223372036854775807 + 1;")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.Semantic, res.Diagnostics[0].Kind)
	assert.Equal(t, "integer overflow in constant expression", res.Diagnostics[0].Msg)
	assert.Equal(t, int64(0), res.Globals.LookupLocal("X").ConstValue)

	res = mustParse(t, "program constant X = 9223372036854775807 - 1;")
	assert.Equal(t, int64(9223372036854775806), res.Globals.LookupLocal("X").ConstValue)
}

func TestUndeclaredIdentifier(t *testing.T) {
	res := parseWithErrors(t, "program var a : integer; begin b := 1; end.")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.Semantic, d.Kind)
	assert.Equal(t, "undeclared identifier b", d.Msg)
	assert.Len(t, res.Program().Decls, 2)

	// Later uses of the same name stay quiet.
	res = parseWithErrors(t, "program begin b := 1; b := b + 1; write(b); end.")
	assert.Len(t, res.Diagnostics, 1)
}

func TestRedeclaration(t *testing.T) {
	res := parseWithErrors(t, "program var x : integer; var x : integer;")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.Semantic, res.Diagnostics[0].Kind)
	assert.Contains(t, res.Diagnostics[0].Msg, "x redeclared")
	assert.Equal(t, 2, res.Tree.Count(res.Root, ast.VarDeclKind))

	res = parseWithErrors(t, "program begin var x : integer; var x : float; end.")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 2, res.Tree.Count(res.Root, ast.VarDeclKind))
}

func TestShadowingResolvesInnermost(t *testing.T) {
	src := `program
var x : integer;
begin
  begin
    var x : float;
    x := 1.5;
  end;
  x := 2;
end.`
	res := mustParse(t, src)
	outer := res.Globals.LookupLocal("x")
	require.NotNil(t, outer)

	body := decl(t, res, 1).(*ast.Block)
	inner := res.Tree.Node(body.Stmts[0]).(*ast.Block)
	innerDecl := res.Tree.Node(inner.Decls[0]).(*ast.VarDecl)
	innerAssign := res.Tree.Node(inner.Stmts[0]).(*ast.Assign)
	outerAssign := res.Tree.Node(body.Stmts[1]).(*ast.Assign)

	assert.Same(t, innerDecl.Sym, innerAssign.Target)
	assert.NotSame(t, outer, innerAssign.Target)
	assert.Same(t, outer, outerAssign.Target)
}

func TestRoutines(t *testing.T) {
	src := `program
function add(a : integer, b : integer) : integer
begin
  return(a + b);
end;
procedure show(v : integer)
begin
  write(v);
end;
var r : integer;
begin
  r := add(1, 2);
  show(r);
end.`
	res := mustParse(t, src)
	add := decl(t, res, 0).(*ast.RoutineDecl)
	assert.Equal(t, "add(a: integer, b: integer): integer", add.Sym.Signature())
	assert.Len(t, add.Formals, 2)
	assert.Equal(t, symtab.Integer, add.Result)

	show := decl(t, res, 1).(*ast.RoutineDecl)
	assert.True(t, show.Sym.IsProcedure())

	// Formals live in the routine's scope, not the global one.
	assert.Nil(t, res.Globals.LookupLocal("a"))
	assert.NotNil(t, res.Globals.LookupLocal("add"))
	assert.Equal(t, "(block (assign r (call add 1 2)) (call show r))", res.Tree.String(res.Program().Decls[3]))
}

func TestRecursion(t *testing.T) {
	mustParse(t, `program
function fact(n : integer) : integer
begin
  if n <= 1 then return(1) else return(n * fact(n - 1)) fi;
end;`)
}

func TestRoutineErrors(t *testing.T) {
	cases := []struct {
		name, src, msg string
	}{
		{"call-variable", "program var x : integer; begin x(); end.", "x is not a routine"},
		{"arity", "program procedure p(a : integer) begin end; begin p(1, 2); end.", "p expects 1 argument(s), found 2"},
		{"assign-constant", "program constant K = 1; begin K := 2; end.", "cannot assign to constant K"},
		{"assign-routine", "program procedure p() begin end; begin p := 2; end.", "cannot assign to routine p"},
		{"procedure-value", "program procedure p() begin end; var x : integer; begin x := p(); end.", "procedure p used as a value"},
		{"return-outside", "program begin return(1); end.", "return outside a function"},
		{"return-procedure", "program procedure p() begin return(1); end;", "procedure p cannot return a value"},
		{"read-constant", "program constant K = 1; begin read(K); end.", "cannot assign to constant K"},
		{"procedure-result", "program procedure p() : integer begin end;", "procedure p cannot have a result type"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := parseWithErrors(t, c.src)
			require.Len(t, res.Diagnostics, 1, "%v", res.Diagnostics)
			assert.Equal(t, diag.Semantic, res.Diagnostics[0].Kind)
			assert.Equal(t, c.msg, res.Diagnostics[0].Msg)
		})
	}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func TestControlFlow(t *testing.T) {
	src := `program var i : integer; var s : integer;
begin
  s := 0;
  for i := 1 to 10 do s := s + i od;
  while s > 0 do s := s - 1 od;
  if s = 0 then write(s) fi;
  if s != 0 then read(s) else write(i) fi;
end.`
	res := mustParse(t, src)
	body := decl(t, res, 2).(*ast.Block)
	got := make([]string, len(body.Stmts))
	for i, id := range body.Stmts {
		got[i] = res.Tree.String(id)
	}
	assert.Equal(t, []string{
		"(assign s 0)",
		"(for i 1 10 (assign s (plus s i)))",
		"(while (gt s 0) (assign s (minus s 1)))",
		"(if (eq s 0) (write s))",
		"(if (neq s 0) (read s) (write i))",
	}, got)
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func TestPrecedence(t *testing.T) {
	cases := []struct{ expr, want string }{
		{"1 + 2 * 3", "(plus 1 (times 2 3))"},
		{"(1 + 2) * 3", "(times (plus 1 2) 3)"},
		{"8 - 3 - 1", "(minus (minus 8 3) 1)"},
		{"8 / 4 / 2", "(divide (divide 8 4) 2)"},
		{"x - 1", "(minus x 1)"},
		{"x * -2", "(times x -2)"},
		{"-(x) + 1", "(plus (uminus x) 1)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, exprOf(t, "", c.expr), c.expr)
	}
}

func TestBooleanExpressions(t *testing.T) {
	res := mustParse(t, "program var b : bool; var x : integer; begin b := x < 1 or x > 5 and not(x = 3); end.")
	block := decl(t, res, 2).(*ast.Block)
	assert.Equal(t, "(assign b (and (or (lt x 1) (gt x 5)) (not (eq x 3))))", res.Tree.String(block.Stmts[0]))
}

func TestImplicitIntToFloat(t *testing.T) {
	res := mustParse(t, "program var f : float; var i : integer; begin f := i + 1.5; f := i; f := 2.0 * 3; end.")
	block := decl(t, res, 2).(*ast.Block)
	got := make([]string, len(block.Stmts))
	for i, id := range block.Stmts {
		got[i] = res.Tree.String(id)
	}
	assert.Equal(t, []string{
		"(assign f (plus (itof i) 1.5))",
		"(assign f (itof i))",
		"(assign f (times 2.0 (itof 3)))",
	}, got)
}

func TestRelationalDoesNotChain(t *testing.T) {
	res := parseWithErrors(t, "program var b : bool; begin b := 1 < 2 < 3; end.")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.Syntax, res.Diagnostics[0].Kind)
	assert.Equal(t, "relational operators do not chain", res.Diagnostics[0].Msg)
}

func TestUnaryRequiresParens(t *testing.T) {
	res := parseWithErrors(t, "program var x : integer; begin x := not x; end.")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "'not' must be followed by '('", res.Diagnostics[0].Msg)
	block := decl(t, res, 1).(*ast.Block)
	assert.Equal(t, "(assign x (not x))", res.Tree.String(block.Stmts[0]))
}

// ---------------------------------------------------------------------------
// Error recovery
// ---------------------------------------------------------------------------

func TestSoftRecoveryMissingParenAndSemicolon(t *testing.T) {
	src := "program\n" +
		"function f(a : integer : integer\n" +
		"begin return(a); end;\n" +
		"var x : integer\n" +
		"begin x := f(1); end."
	res := parseWithErrors(t, src)
	require.Len(t, res.Diagnostics, 2, "%v", res.Diagnostics)

	first, second := res.Diagnostics[0], res.Diagnostics[1]
	assert.Equal(t, diag.Syntax, first.Kind)
	assert.Equal(t, "expected ')', found ':'", first.Msg)
	assert.Equal(t, 2, first.Pos.Line)
	assert.Equal(t, 24, first.Pos.Column)

	assert.Equal(t, diag.Syntax, second.Kind)
	assert.Equal(t, "expected ';', found 'begin'", second.Msg)
	assert.Equal(t, 5, second.Pos.Line)
	assert.Equal(t, 1, second.Pos.Column)

	assert.Len(t, res.Program().Decls, 3)
}

func TestRecoveryFromStrayTokens(t *testing.T) {
	res := parseWithErrors(t, "program var x : integer; begin x := 5 6; fi; write(x); end.")
	assert.Equal(t, 2, len(res.Diagnostics), "%v", res.Diagnostics)
	block := decl(t, res, 1).(*ast.Block)
	assert.Equal(t, ast.WriteKind, res.Tree.Kind(block.Stmts[len(block.Stmts)-1]))

	res = parseWithErrors(t, "program x := 1; var y : integer;")
	assert.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "expected declaration, found identifier x", res.Diagnostics[0].Msg)
	assert.NotNil(t, res.Globals.LookupLocal("y"))
}

func TestJunkBetweenStatementsAddsNoNode(t *testing.T) {
	res := parseWithErrors(t, "program var x : integer; begin x := 0 \"oops\nx := 1; ; end.")
	assert.Equal(t, diag.Lexical, res.Diagnostics[0].Kind)
	block := res.Program().Decls[1]
	assert.Equal(t, "(block (assign x 0) (assign x 1))", res.Tree.String(block))

	res = parseWithErrors(t, "program var x : integer; begin x := 5 6; fi; write(x); end.")
	block = res.Program().Decls[1]
	assert.Equal(t, "(block (assign x 5) (write x))", res.Tree.String(block))
}

func TestScopesBalanceAfterBrokenBodies(t *testing.T) {
	p := newParser(source.New("broken", []byte(
		"procedure p(a: integer begin x := ; if then od; end; var y : integer;")), DefaultConfig)
	res, err := p.run()
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 5, "%v", res.Diagnostics)
	assert.Equal(t, 0, p.scopes.Depth())

	y := res.Globals.LookupLocal("y")
	require.NotNil(t, y, "y must land in the global scope")
	assert.Equal(t, symtab.Variable, y.Kind)
	assert.NotNil(t, res.Globals.LookupLocal("p"))
	assert.Nil(t, res.Globals.LookupLocal("a"), "formals stay in the routine scope")
	assert.Nil(t, res.Globals.LookupLocal("x"), "placeholders stay in the routine scope")

	p = newParser(source.New("blocks", []byte(
		"begin var z : integer; begin z := ( ; end; end; var w : integer;")), DefaultConfig)
	res, err = p.run()
	require.NoError(t, err)
	assert.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, 0, p.scopes.Depth())
	assert.NotNil(t, res.Globals.LookupLocal("w"))
	assert.Nil(t, res.Globals.LookupLocal("z"))
}

func TestNestingBailoutUnwindsScopes(t *testing.T) {
	cfg := DefaultConfig
	cfg.MaxNesting = 8
	src := "program var x : integer; " + strings.Repeat("begin ", 20) + "x := 1;" +
		strings.Repeat(" end;", 20) + " var y : integer;"
	p := newParser(source.New("nested", []byte(src)), cfg)
	res, err := p.run()
	assert.Equal(t, ErrTooDeep, err)
	assert.Equal(t, ast.NoNode, res.Root)
	assert.False(t, res.Succeeded())
	assert.Equal(t, 0, p.scopes.Depth())
	assert.NotNil(t, res.Globals.LookupLocal("x"))
	assert.Nil(t, res.Globals.LookupLocal("y"))
}

func TestLexicalErrorsReachDiagnostics(t *testing.T) {
	res := parseWithErrors(t, "program var s : string; begin s := \"open;\nwrite(s); end")
	require.True(t, len(res.Diagnostics) >= 1)
	assert.Equal(t, diag.Lexical, res.Diagnostics[0].Kind)
	assert.Equal(t, "unfinished string", res.Diagnostics[0].Msg)
}

func TestTruncatedInputsTerminate(t *testing.T) {
	full := `program constant N = 2; function f(a : integer) : integer begin
if a > N then return(a) else return(-(a)) fi; end;
var x : integer; begin for x := 1 to 3 do write(x) od; x := f(x); end.`
	for i := 0; i <= len(full); i++ {
		res, err := ParseString("t", full[:i])
		require.NoError(t, err)
		require.NotNil(t, res.Program(), "prefix %d", i)
		assert.Equal(t, 0, res.Tree.Count(res.Root, ast.Invalid))
	}
}

// ---------------------------------------------------------------------------
// Resource limits
// ---------------------------------------------------------------------------

func TestNestingLimitIsFatal(t *testing.T) {
	cfg := DefaultConfig
	cfg.MaxNesting = 50
	src := "program var x : integer; begin x := " + strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200) + "; end"
	res, err := Parse(source.New("deep", []byte(src)), cfg)
	assert.Equal(t, ErrTooDeep, err)
	assert.False(t, res.Succeeded())
}

func TestScopeLimitIsFatal(t *testing.T) {
	cfg := DefaultConfig
	cfg.MaxScopeDepth = 3
	src := "program " + strings.Repeat("begin ", 5) + strings.Repeat("end; ", 5)
	_, err := Parse(source.New("scopes", []byte(src)), cfg)
	assert.Equal(t, symtab.ErrScopeLimit, err)
}

func TestNodeLimitIsFatal(t *testing.T) {
	cfg := DefaultConfig
	cfg.MaxNodes = 10
	src := "program var x : integer; begin x := 1 + 2 + 3 + 4 + 5 + 6 + 7; end"
	res, err := Parse(source.New("big", []byte(src)), cfg)
	assert.Equal(t, ast.ErrTreeFull, err)
	assert.Equal(t, ast.NoNode, res.Root)
}

func TestCaseFoldingConfig(t *testing.T) {
	cfg := DefaultConfig
	cfg.FoldCase = true
	res, err := Parse(source.New("fold", []byte("program var Total : integer; begin TOTAL := 1; end.")), cfg)
	require.NoError(t, err)
	assert.True(t, res.Succeeded(), "%v", res.Diagnostics)

	res, err = ParseString("strict", "program var Total : integer; begin TOTAL := 1; end.")
	require.NoError(t, err)
	assert.False(t, res.Succeeded())
}

func TestConstantWrite(t *testing.T) {
	res := mustParse(t, "program constant N = 2 * 3; begin write(N); end.")
	n := res.Globals.LookupLocal("N")
	require.NotNil(t, n)
	assert.Equal(t, int64(6), n.ConstValue)
}

func TestSiblingBlocksRedeclare(t *testing.T) {
	mustParse(t, "program begin begin var x : integer; end; begin var x : integer; end; end.")
}
