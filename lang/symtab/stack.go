// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package symtab

import (
	"errors"

	"github.com/probechain/go-tiny/log"
)

var (
	// ErrExitGlobal is returned when leaving the global scope is requested.
	ErrExitGlobal = errors.New("symtab: cannot exit the global scope")

	// ErrScopeLimit is returned when scopes nest deeper than allowed.
	ErrScopeLimit = errors.New("symtab: scope nesting limit exceeded")
)

// Stack is the chain of open scopes during a parse, innermost last. It
// always holds at least the global scope.
type Stack struct {
	scopes   []*Scope
	buckets  int
	fold     bool
	maxDepth int
	log      log.Logger
}

// NewStack returns a stack holding a fresh global scope. New scopes get the
// given bucket count and case folding. maxDepth bounds the nesting level;
// zero means unbounded.
func NewStack(buckets int, fold bool, maxDepth int) *Stack {
	return &Stack{
		scopes:   []*Scope{NewScope(nil, buckets, fold)},
		buckets:  buckets,
		fold:     fold,
		maxDepth: maxDepth,
		log:      log.New("module", "symtab"),
	}
}

// Current returns the innermost open scope.
func (s *Stack) Current() *Scope { return s.scopes[len(s.scopes)-1] }

// Global returns the outermost scope.
func (s *Stack) Global() *Scope { return s.scopes[0] }

// Depth returns the nesting level of the current scope.
func (s *Stack) Depth() int { return len(s.scopes) - 1 }

// Enter opens a scope nested in the current one.
func (s *Stack) Enter() (*Scope, error) {
	if s.maxDepth > 0 && s.Depth() >= s.maxDepth {
		return nil, ErrScopeLimit
	}
	sc := NewScope(s.Current(), s.buckets, s.fold)
	s.scopes = append(s.scopes, sc)
	s.log.Trace("Entered scope", "depth", sc.depth)
	return sc, nil
}

// Exit closes the current scope and returns it. The global scope stays
// open; asking to close it is an error.
func (s *Stack) Exit() (*Scope, error) {
	if len(s.scopes) == 1 {
		s.log.Error("Attempt to exit the global scope")
		return nil, ErrExitGlobal
	}
	sc := s.Current()
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.log.Trace("Exited scope", "depth", sc.depth, "symbols", sc.entries)
	return sc, nil
}
