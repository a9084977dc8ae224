// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package frontend ties loading, lexing and parsing together and remembers
// recent parse results.
package frontend

import (
	"fmt"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru"
	"github.com/probechain/go-tiny/lang/parser"
	"github.com/probechain/go-tiny/lang/source"
	"github.com/probechain/go-tiny/log"
	"golang.org/x/crypto/sha3"
)

// DefaultCacheSize is the number of parse results kept by New when no size is
// given.
const DefaultCacheSize = 64

// StdinName is the file name that selects standard input in CompileFile.
const StdinName = "-"

// Key identifies one parse: the source name and text together with the
// parser configuration.
type Key [32]byte

func (k Key) String() string { return fmt.Sprintf("%x", k[:8]) }

// Compiler runs the front end. Results are shared between callers that
// compile identical input and must be treated as read-only.
type Compiler struct {
	cfg    parser.Config
	cache  *lru.ARCCache // nil disables caching
	stdin  io.Reader
	hits   uint64
	misses uint64
	log    log.Logger
}

// New creates a compiler. cacheSize 0 selects DefaultCacheSize, a negative
// size disables caching.
func New(cfg parser.Config, cacheSize int) (*Compiler, error) {
	c := &Compiler{
		cfg:   cfg,
		stdin: os.Stdin,
		log:   log.New("module", "frontend"),
	}
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheSize > 0 {
		cache, err := lru.NewARC(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating parse cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Config returns the parser configuration in use.
func (c *Compiler) Config() parser.Config { return c.cfg }

// SetInput replaces the reader used for StdinName.
func (c *Compiler) SetInput(r io.Reader) { c.stdin = r }

// Load reads a source file. StdinName reads standard input.
func (c *Compiler) Load(path string) (*source.File, error) {
	if path == StdinName {
		return source.ReadAll("<stdin>", c.stdin)
	}
	return source.ReadFile(path)
}

// CompileFile loads and parses path.
func (c *Compiler) CompileFile(path string) (*parser.Result, error) {
	f, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return c.CompileSource(f)
}

// Compile parses src under the given name.
func (c *Compiler) Compile(name string, src []byte) (*parser.Result, error) {
	return c.CompileSource(source.New(name, src))
}

// CompileSource parses f, answering from the cache when the same name, text
// and configuration were parsed before. Abandoned parses are not cached.
func (c *Compiler) CompileSource(f *source.File) (*parser.Result, error) {
	if c.cache == nil {
		return parser.Parse(f, c.cfg)
	}
	key := c.key(f)
	if v, ok := c.cache.Get(key); ok {
		c.hits++
		c.log.Debug("Parse cache hit", "file", f.Name, "key", key)
		return v.(*parser.Result), nil
	}
	c.misses++
	res, err := parser.Parse(f, c.cfg)
	if err != nil {
		return res, err
	}
	c.cache.Add(key, res)
	return res, nil
}

// key hashes everything a parse result depends on.
func (c *Compiler) key(f *source.File) (k Key) {
	hasher := sha3.NewLegacyKeccak256()
	fmt.Fprintf(hasher, "%s\x00%+v\x00", f.Name, c.cfg)
	hasher.Write(f.Bytes())
	hasher.Sum(k[:0])
	return k
}

// Stats reports cache usage.
func (c *Compiler) Stats() (hits, misses uint64, cached int) {
	if c.cache != nil {
		cached = c.cache.Len()
	}
	return c.hits, c.misses, cached
}

// Purge empties the cache.
func (c *Compiler) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}
