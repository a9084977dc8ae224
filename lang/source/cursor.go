// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package source

import "github.com/probechain/go-tiny/lang/token"

// EOF is returned by Next once the text is exhausted.
const EOF rune = -1

// Cursor hands out the characters of a File one at a time. It supports a
// single character of pushback: PushBack may be called once after each Next.
type Cursor struct {
	file *File
	off  int // offset of the next character
	line int
	col  int // column of the last character returned

	// state before the last Next, restored by PushBack
	prevOff, prevLine, prevCol int

	pushed bool // a pushed-back character is pending
	atEOF  bool // the last Next returned EOF
}

// NewCursor returns a cursor positioned before the first character of f.
func NewCursor(f *File) *Cursor {
	return &Cursor{file: f, line: 1}
}

// File returns the text being read.
func (c *Cursor) File() *File { return c.file }

// Next returns the next character, or EOF.
func (c *Cursor) Next() rune {
	c.pushed = false
	c.prevOff, c.prevLine, c.prevCol = c.off, c.line, c.col
	if c.off >= len(c.file.data) {
		c.atEOF = true
		return EOF
	}
	ch := c.file.data[c.off]
	if c.off > 0 && c.file.data[c.off-1] == '\n' {
		c.line++
		c.col = 0
	}
	c.off++
	c.col++
	return rune(ch)
}

// PushBack returns the last character read to the stream. Pushing back twice
// without an intervening Next is a programming error and panics.
func (c *Cursor) PushBack() {
	if c.pushed {
		panic("source: double push back")
	}
	c.pushed = true
	c.off, c.line, c.col = c.prevOff, c.prevLine, c.prevCol
	c.atEOF = false
}

// Pos returns the position of the last character read. Before the first
// read it reports line 1, column 1.
func (c *Cursor) Pos() token.Position {
	pos := token.Position{File: c.file.Name, Line: c.line, Column: c.col, Offset: c.off - 1}
	if c.col == 0 {
		pos.Column, pos.Offset = 1, 0
	}
	if c.atEOF {
		pos.Offset = len(c.file.data)
		pos.Column++
	}
	return pos
}
