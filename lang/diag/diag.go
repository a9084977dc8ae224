// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package diag collects the non-fatal problems found while compiling a
// source file and renders them for humans.
package diag

import (
	"fmt"
	"strings"

	"github.com/probechain/go-tiny/lang/token"
)

// Kind classifies a diagnostic by the phase that produced it.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
)

var kindNames = [...]string{
	Lexical:  "lexical error",
	Syntax:   "syntax error",
	Semantic: "semantic error",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("diag(%d)", int(k))
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Msg)
}

// List is an ordered collection of diagnostics, in the order they were
// reported.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(kind Kind, pos token.Position, format string, args ...interface{}) {
	*l = append(*l, Diagnostic{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Len returns the number of diagnostics.
func (l List) Len() int { return len(l) }

// Count returns the number of diagnostics of the given kind.
func (l List) Count(kind Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Errors returns the diagnostics as a slice of errors.
func (l List) Errors() []error {
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errs
}

// Err returns nil for an empty list and an error summarising the list
// otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error implements the error interface.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("%d errors:\n%s", len(l), strings.Join(msgs, "\n"))
}
