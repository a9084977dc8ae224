// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package symtab

import (
	"fmt"
	"strings"
)

// Kind says what a name denotes.
type Kind int

const (
	Variable Kind = iota
	Constant
	Routine
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Constant:
		return "constant"
	case Routine:
		return "routine"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is a value type of the language.
type Type int

const (
	None Type = iota
	Integer
	Float
	Boolean
	String
)

var typeNames = [...]string{
	None:    "none",
	Integer: "integer",
	Float:   "float",
	Boolean: "bool",
	String:  "string",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Symbol is one declared name. Symbols are owned by the scope they were
// declared in; everything else holds plain pointers to them.
type Symbol struct {
	Name string
	Kind Kind
	Type Type // value type; for routines see ResultType
	Line int  // declaration line

	ConstValue int64 // valid when IsConstant
	IsConstant bool

	ResultType Type      // routines: None for procedures
	Formals    []*Symbol // routines: formal parameters in order

	// Placeholder marks a symbol invented after an undeclared-name
	// diagnostic so that later uses stay quiet.
	Placeholder bool

	key  string  // lookup key, case folded when the table folds
	next *Symbol // bucket chain
}

// NewSymbol returns a symbol that belongs to no scope.
func NewSymbol(name string, kind Kind, line int) *Symbol {
	return &Symbol{Name: name, Kind: kind, Line: line, key: name}
}

// IsProcedure reports whether the symbol is a routine without a result.
func (s *Symbol) IsProcedure() bool {
	return s.Kind == Routine && s.ResultType == None
}

// Signature renders a routine header, e.g. "f(a: integer, b: float): bool".
func (s *Symbol) Signature() string {
	if s.Kind != Routine {
		return s.Type.String()
	}
	params := make([]string, len(s.Formals))
	for i, f := range s.Formals {
		params[i] = f.Name + ": " + f.Type.String()
	}
	sig := s.Name + "(" + strings.Join(params, ", ") + ")"
	if s.ResultType != None {
		sig += ": " + s.ResultType.String()
	}
	return sig
}

func (s *Symbol) String() string {
	switch {
	case s.Kind == Routine:
		return "routine " + s.Signature()
	case s.IsConstant:
		return fmt.Sprintf("constant %s = %d", s.Name, s.ConstValue)
	}
	return fmt.Sprintf("%s %s: %s", s.Kind, s.Name, s.Type)
}
