// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		ident string
		want  Type
	}{
		{"program", PROGRAM},
		{"begin", BEGIN},
		{"bool", BOOL},
		{"float", FLOATTYPE},
		{"string", STRINGTYPE},
		{"od", OD},
		{"fi", FI},
		{"write", WRITE},
		{"Program", IDENT},
		{"boolean", IDENT},
		{"x1", IDENT},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LookupIdent(c.ident), c.ident)
	}
	kws := Keywords()
	assert.Len(t, kws, 30)
	assert.Equal(t, "and", kws[0])
	assert.Equal(t, "while", kws[len(kws)-1])
}

func TestTypeClasses(t *testing.T) {
	assert.True(t, WHILE.IsKeyword())
	assert.False(t, IDENT.IsKeyword())
	assert.True(t, LTE.IsRelational())
	assert.False(t, PLUS.IsRelational())
	assert.True(t, SLASH.IsOperator())
	assert.True(t, STRING.IsLiteral())
	assert.True(t, RPAREN.EndsOperand())
	assert.False(t, ASSIGN.EndsOperand())
	assert.Equal(t, ":=", ASSIGN.String())
	assert.Equal(t, "token(999)", Type(999).String())
}

func TestTokenLiteral(t *testing.T) {
	assert.Equal(t, "-7", Token{Type: INT, Int: -7}.Literal())
	assert.Equal(t, "2.5", Token{Type: FLOAT, Float: 2.5}.Literal())
	assert.Equal(t, `"hi"`, Token{Type: STRING, Text: "hi"}.Literal())
	assert.Equal(t, "IDENT(x)", Token{Type: IDENT, Text: "x"}.String())
	assert.Equal(t, "end", Token{Type: END}.String())
	assert.Equal(t, "a.tiny:2:5", Position{File: "a.tiny", Line: 2, Column: 5}.String())
}
