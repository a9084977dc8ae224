// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package source

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorLineTracking(t *testing.T) {
	c := NewCursor(New("t", []byte("ab\ncd")))
	want := []struct {
		ch        rune
		line, col int
	}{
		{'a', 1, 1}, {'b', 1, 2}, {'\n', 1, 3}, {'c', 2, 1}, {'d', 2, 2},
	}
	for _, w := range want {
		ch := c.Next()
		pos := c.Pos()
		assert.Equal(t, w.ch, ch)
		assert.Equal(t, w.line, pos.Line, "line of %q", ch)
		assert.Equal(t, w.col, pos.Column, "column of %q", ch)
	}
	assert.Equal(t, EOF, c.Next())
	assert.Equal(t, EOF, c.Next())
}

func TestCursorPushBack(t *testing.T) {
	c := NewCursor(New("t", []byte("x\ny")))
	c.Next()
	assert.Equal(t, '\n', c.Next())
	c.PushBack()
	assert.Equal(t, 1, c.Pos().Line)
	assert.Equal(t, '\n', c.Next())
	assert.Equal(t, 'y', c.Next())
	assert.Equal(t, 2, c.Pos().Line)

	assert.Equal(t, EOF, c.Next())
	c.PushBack()
	assert.Equal(t, EOF, c.Next())
}

func TestCursorDoublePushBackPanics(t *testing.T) {
	c := NewCursor(New("t", []byte("xy")))
	c.Next()
	c.PushBack()
	assert.Panics(t, func() { c.PushBack() })
}

func TestFileLines(t *testing.T) {
	f := New("t", []byte("first\r\nsecond\nthird"))
	assert.Equal(t, 3, f.LineCount())
	assert.Equal(t, "first", f.Line(1))
	assert.Equal(t, "second", f.Line(2))
	assert.Equal(t, "third", f.Line(3))
	assert.Equal(t, "", f.Line(4))
	assert.Equal(t, 2, f.LineOf(strings.Index("first\r\nsecond", "sec")))
	assert.Equal(t, 1, f.LineOf(0))
}

func TestReadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "tiny-source")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "prog.tiny")
	require.NoError(t, ioutil.WriteFile(path, []byte("program\nvar x : integer;\n"), 0644))
	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "var x : integer;", f.Line(2))

	empty := filepath.Join(dir, "empty.tiny")
	require.NoError(t, ioutil.WriteFile(empty, nil, 0644))
	f, err = ReadFile(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Size())
	assert.Equal(t, EOF, NewCursor(f).Next())

	_, err = ReadFile(filepath.Join(dir, "missing.tiny"))
	assert.Error(t, err)
	_, err = ReadFile(dir)
	assert.Error(t, err)
}

func TestReadAll(t *testing.T) {
	f, err := ReadAll("<stdin>", strings.NewReader("begin end"))
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", f.Name)
	assert.Equal(t, 9, f.Size())
}
