// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/probechain/go-tiny/lang/source"
)

// Printer writes diagnostics as a header followed by the offending source
// line and a caret under the reported column:
//
//	prog.tiny:3:9: syntax error: expected ';', found end
//	   3 | x := 5 end
//	     |        ^
type Printer struct {
	out    io.Writer
	header *color.Color
	caret  *color.Color
	limit  int
}

// NewPrinter returns a printer writing to out. Color escapes are emitted
// only when useColor is set. A positive limit caps the number of
// diagnostics printed per call to Print.
func NewPrinter(out io.Writer, useColor bool, limit int) *Printer {
	p := &Printer{
		out:    out,
		header: color.New(color.FgRed, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		limit:  limit,
	}
	if useColor {
		p.header.EnableColor()
		p.caret.EnableColor()
	} else {
		p.header.DisableColor()
		p.caret.DisableColor()
	}
	return p
}

// Print renders every diagnostic in l against the text of f. f may be nil,
// in which case only the headers are written.
func (p *Printer) Print(f *source.File, l List) {
	for i, d := range l {
		if p.limit > 0 && i == p.limit {
			fmt.Fprintf(p.out, "too many errors (%d more)\n", len(l)-i)
			return
		}
		p.print(f, d)
	}
}

func (p *Printer) print(f *source.File, d Diagnostic) {
	fmt.Fprintf(p.out, "%s: %s\n", d.Pos, p.header.Sprintf("%s: %s", d.Kind, d.Msg))
	if f == nil || d.Pos.Line < 1 || d.Pos.Line > f.LineCount() {
		return
	}
	text := f.Line(d.Pos.Line)
	fmt.Fprintf(p.out, "%4d | %s\n", d.Pos.Line, text)
	fmt.Fprintf(p.out, "     | %s%s\n", caretPad(text, d.Pos.Column), p.caret.Sprint("^"))
}

// caretPad returns the indentation that puts a caret under column col of
// text, copying tabs so the caret lines up in a terminal.
func caretPad(text string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1; i++ {
		if i < len(text) && text[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
