// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/probechain/go-tiny/lang/diag"
	"github.com/probechain/go-tiny/lang/lexer"
	"github.com/probechain/go-tiny/lang/parser"
	"github.com/probechain/go-tiny/lang/symtab"
	"github.com/probechain/go-tiny/lang/token"
	"github.com/probechain/go-tiny/log"
	"gopkg.in/urfave/cli.v1"
)

var errNoFile = errors.New("no source file given")

var (
	tokensCommand = cli.Command{
		Action:    tokensCmd,
		Name:      "tokens",
		Usage:     "Print the token stream of a source file",
		ArgsUsage: "<file>",
		Category:  "SOURCE COMMANDS",
		Description: `
The tokens command prints one line per token: its position, its kind and,
for literals and identifiers, its value. Use - to read standard input.`,
	}
	checkCommand = cli.Command{
		Action:    checkCmd,
		Name:      "check",
		Usage:     "Parse source files and report diagnostics",
		ArgsUsage: "<file> [<file>...]",
		Flags:     []cli.Flag{watchFlag},
		Category:  "SOURCE COMMANDS",
		Description: `
The check command parses every file and prints its diagnostics. It exits with
status 1 if any file has diagnostics and 2 if a file could not be parsed at all.
With --watch the files are checked again whenever they change.`,
	}
	astCommand = cli.Command{
		Action:    astCmd,
		Name:      "ast",
		Usage:     "Print the syntax tree of a source file",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{rawFlag},
		Category:  "SOURCE COMMANDS",
		Description: `
The ast command prints the syntax tree in parenthesised form, or with --raw as
a full structural dump of every node.`,
	}
	symbolsCommand = cli.Command{
		Action:    symbolsCmd,
		Name:      "symbols",
		Usage:     "Print the global symbols of a source file",
		ArgsUsage: "<file>",
		Category:  "SOURCE COMMANDS",
		Description: `
The symbols command lists the global declarations of a program together with
the hash table statistics of the global scope.`,
	}

	watchFlag = cli.BoolFlag{
		Name:  "watch",
		Usage: "Check the files again whenever they change",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "Dump the node structures instead of the parenthesised form",
	}
)

func firstArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() < 1 {
		return "", errNoFile
	}
	return ctx.Args().First(), nil
}

// ---------------------------------------------------------------------------
// tokens
// ---------------------------------------------------------------------------

func tokensCmd(ctx *cli.Context) error {
	path, err := firstArg(ctx)
	if err != nil {
		return err
	}
	s, err := makeSession(ctx)
	if err != nil {
		return err
	}
	return exitStatus(s.tokens(path))
}

func (s *session) tokens(path string) int {
	f, err := s.compiler.Load(path)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return exitFatal
	}
	var diags diag.List
	for _, tok := range lexer.New(f, &diags).Tokenize() {
		fmt.Fprintf(s.out, "%-12s %-10s %s\n", tok.Pos, tokenKind(tok.Type), tok.Literal())
	}
	s.printer.Print(f, diags)
	if len(diags) > 0 {
		return exitDiags
	}
	return exitOK
}

func tokenKind(t token.Type) string {
	switch {
	case t.IsKeyword():
		return "keyword"
	case t.IsOperator():
		return "operator"
	case t == token.IDENT:
		return "identifier"
	case t.IsLiteral():
		return "literal"
	case t == token.EOF:
		return "eof"
	case t == token.ILLEGAL:
		return "illegal"
	}
	return "delimiter"
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func checkCmd(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errNoFile
	}
	s, err := makeSession(ctx)
	if err != nil {
		return err
	}
	paths := []string(ctx.Args())
	status := s.check(paths)
	if ctx.Bool(watchFlag.Name) {
		return s.watch(paths)
	}
	return exitStatus(status)
}

// check parses every path and prints its diagnostics, returning the worst
// exit status seen.
func (s *session) check(paths []string) int {
	status := exitOK
	for _, path := range paths {
		if st := s.checkOne(path); st > status {
			status = st
		}
	}
	return status
}

func (s *session) checkOne(path string) int {
	res, err := s.compile(path)
	if res == nil {
		return exitFatal
	}
	log.Info("Checked source", "file", path, "diagnostics", len(res.Diagnostics), "nodes", res.Tree.Len())
	switch {
	case err != nil:
		return exitFatal
	case !res.Succeeded():
		return exitDiags
	}
	return exitOK
}

// compile parses path and prints its diagnostics and any fatal error. The
// result is nil when the file could not be read.
func (s *session) compile(path string) (*parser.Result, error) {
	res, err := s.compiler.CompileFile(path)
	if res == nil {
		fmt.Fprintln(s.out, err)
		return nil, err
	}
	s.printer.Print(res.File, res.Diagnostics)
	if err != nil {
		fmt.Fprintf(s.out, "%s: fatal: %v\n", path, err)
	}
	return res, err
}

// ---------------------------------------------------------------------------
// ast
// ---------------------------------------------------------------------------

func astCmd(ctx *cli.Context) error {
	path, err := firstArg(ctx)
	if err != nil {
		return err
	}
	s, err := makeSession(ctx)
	if err != nil {
		return err
	}
	return exitStatus(s.ast(path, ctx.Bool(rawFlag.Name)))
}

func (s *session) ast(path string, raw bool) int {
	res, err := s.compile(path)
	switch {
	case res == nil, err != nil:
		return exitFatal
	case raw:
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		for _, id := range res.Program().Decls {
			dumper.Fdump(s.out, res.Tree.Node(id))
		}
	default:
		fmt.Fprintln(s.out, res.Tree.String(res.Root))
	}
	if !res.Succeeded() {
		return exitDiags
	}
	return exitOK
}

// ---------------------------------------------------------------------------
// symbols
// ---------------------------------------------------------------------------

func symbolsCmd(ctx *cli.Context) error {
	path, err := firstArg(ctx)
	if err != nil {
		return err
	}
	s, err := makeSession(ctx)
	if err != nil {
		return err
	}
	return exitStatus(s.symbols(path))
}

func (s *session) symbols(path string) int {
	res, err := s.compile(path)
	if res == nil || err != nil {
		return exitFatal
	}

	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Name", "Kind", "Type", "Line", "Value"})
	for _, sym := range res.Globals.Symbols() {
		table.Append(symbolRow(sym))
	}
	table.Render()

	st := res.Globals.Stats()
	stats := tablewriter.NewWriter(s.out)
	stats.SetHeader([]string{"Statistic", "Value"})
	stats.AppendBulk([][]string{
		{"entries", strconv.Itoa(st.Entries)},
		{"buckets", strconv.Itoa(st.Buckets)},
		{"empty buckets", strconv.Itoa(st.EmptyBuckets)},
		{"longest chain", strconv.Itoa(st.MaxChain)},
		{"collisions", strconv.Itoa(st.Collisions)},
		{"load factor", strconv.FormatFloat(st.LoadFactor, 'f', 2, 64)},
		{"lookups", strconv.Itoa(st.Lookups)},
		{"probes", strconv.Itoa(st.Probes)},
		{"hits", strconv.Itoa(st.Hits)},
	})
	stats.Render()

	if !res.Succeeded() {
		return exitDiags
	}
	return exitOK
}

func symbolRow(sym *symtab.Symbol) []string {
	var value string
	switch {
	case sym.IsConstant:
		value = strconv.FormatInt(sym.ConstValue, 10)
	case sym.Kind == symtab.Routine:
		value = sym.Signature()
	case sym.Placeholder:
		value = "(undeclared)"
	}
	return []string{sym.Name, sym.Kind.String(), sym.Type.String(), strconv.Itoa(sym.Line), value}
}
