// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package source holds program text and the character cursor the lexer reads
// it through.
package source

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"
)

// File is an immutable source text with a precomputed line index.
type File struct {
	Name string
	data []byte
	// lines[i] is the byte offset at which line i+1 starts.
	lines []int
}

// New wraps src. The slice is retained and must not be modified afterwards.
func New(name string, src []byte) *File {
	f := &File{Name: name, data: src, lines: []int{0}}
	for i, c := range src {
		if c == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

// ReadFile loads a file from disk through a read-only memory map. The
// contents are copied out before the mapping is released.
func ReadFile(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	st, err := fd.Stat()
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	// Zero-length files cannot be mapped.
	if st.Size() == 0 {
		return New(path, nil), nil
	}
	m, err := mmap.Map(fd, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	data := make([]byte, len(m))
	copy(data, m)
	if err := m.Unmap(); err != nil {
		return nil, err
	}
	return New(path, data), nil
}

// ReadAll loads a stream such as standard input.
func ReadAll(name string, r io.Reader) (*File, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(name, data), nil
}

// Bytes returns the raw text.
func (f *File) Bytes() []byte { return f.data }

// Size returns the text length in bytes.
func (f *File) Size() int { return len(f.data) }

// LineCount returns the number of lines, counting a trailing partial line.
func (f *File) LineCount() int { return len(f.lines) }

// Line returns the text of the 1-based line n without its newline, or ""
// when n is out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	start := f.lines[n-1]
	end := len(f.data)
	if n < len(f.lines) {
		end = f.lines[n] - 1
	}
	return string(bytes.TrimRight(f.data[start:end], "\r"))
}

// LineOf returns the 1-based line containing offset.
func (f *File) LineOf(offset int) int {
	return sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset })
}
