// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package symtab implements lexically nested scope tables.
//
// A Scope is a fixed-size array of hash buckets holding chains of symbols,
// plus a link to the enclosing scope. Within one scope names are unique;
// an inner scope may shadow any outer name.
package symtab

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
)

// DefaultBuckets is the bucket count used when none is configured.
const DefaultBuckets = 19

// RedeclaredError is returned by Declare when the name already exists in
// the same scope.
type RedeclaredError struct {
	Name string
	Prev *Symbol
}

func (e *RedeclaredError) Error() string {
	return fmt.Sprintf("%s redeclared in this scope (previous declaration at line %d)", e.Name, e.Prev.Line)
}

// Scope is one level of the scope chain.
type Scope struct {
	buckets []*Symbol
	parent  *Scope
	depth   int
	fold    bool
	frozen  bool // usage counters no longer change

	entries int
	lookups int
	probes  int
	hits    int
}

// NewScope returns an empty scope nested in parent, which may be nil for a
// global scope. A non-positive bucket count selects DefaultBuckets. With
// fold set, names are compared after Unicode case folding.
func NewScope(parent *Scope, buckets int, fold bool) *Scope {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	s := &Scope{buckets: make([]*Symbol, buckets), parent: parent, fold: fold}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

// Parent returns the enclosing scope, nil for the global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Depth returns the nesting level; the global scope is 0.
func (s *Scope) Depth() int { return s.depth }

// Len returns the number of symbols declared directly in s.
func (s *Scope) Len() int { return s.entries }

// hash is the classic ELF hash reduced modulo the bucket count.
func hash(name string, size int) int {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h<<4 + uint32(name[i])
		if g := h & 0xF0000000; g != 0 {
			h ^= g >> 24
			h &^= g
		}
	}
	return int(h % uint32(size))
}

func (s *Scope) key(name string) string {
	if s.fold {
		return cases.Fold().String(name)
	}
	return name
}

// LookupLocal finds name in this scope only.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.lookupKey(s.key(name))
}

func (s *Scope) lookupKey(key string) *Symbol {
	probes := 0
	for sym := s.buckets[hash(key, len(s.buckets))]; sym != nil; sym = sym.next {
		probes++
		if sym.key == key {
			s.count(probes, true)
			return sym
		}
	}
	s.count(probes, false)
	return nil
}

func (s *Scope) count(probes int, hit bool) {
	if s.frozen {
		return
	}
	s.lookups++
	s.probes += probes
	if hit {
		s.hits++
	}
}

// Freeze stops the lookup counters reported by Stats. Lookups and
// declarations keep working.
func (s *Scope) Freeze() { s.frozen = true }

// Lookup finds name in this scope or the nearest enclosing scope that
// declares it.
func (s *Scope) Lookup(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym := sc.LookupLocal(name); sym != nil {
			return sym
		}
	}
	return nil
}

// Declare creates a symbol in this scope. It fails with a *RedeclaredError
// if the name is already declared here.
func (s *Scope) Declare(name string, kind Kind, line int) (*Symbol, error) {
	key := s.key(name)
	if prev := s.lookupKey(key); prev != nil {
		return nil, &RedeclaredError{Name: name, Prev: prev}
	}
	sym := &Symbol{Name: name, Kind: kind, Line: line, key: key}
	b := hash(key, len(s.buckets))
	sym.next = s.buckets[b]
	s.buckets[b] = sym
	s.entries++
	return sym, nil
}

// Symbols returns every symbol of this scope ordered by declaration line,
// then name.
func (s *Scope) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, s.entries)
	for _, head := range s.buckets {
		for sym := head; sym != nil; sym = sym.next {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].Line != syms[j].Line {
			return syms[i].Line < syms[j].Line
		}
		return syms[i].Name < syms[j].Name
	})
	return syms
}

// Stats describes the shape and usage of one scope's hash table.
type Stats struct {
	Entries      int
	Buckets      int
	EmptyBuckets int
	MaxChain     int
	Collisions   int // symbols sharing a bucket with an earlier one
	Lookups      int
	Probes       int // chain links inspected across all lookups
	Hits         int
	LoadFactor   float64
}

// Stats reports the table's statistics.
func (s *Scope) Stats() Stats {
	st := Stats{
		Entries: s.entries,
		Buckets: len(s.buckets),
		Lookups: s.lookups,
		Probes:  s.probes,
		Hits:    s.hits,
	}
	for _, head := range s.buckets {
		n := 0
		for sym := head; sym != nil; sym = sym.next {
			n++
		}
		if n == 0 {
			st.EmptyBuckets++
			continue
		}
		st.Collisions += n - 1
		if n > st.MaxChain {
			st.MaxChain = n
		}
	}
	st.LoadFactor = float64(st.Entries) / float64(st.Buckets)
	return st
}
