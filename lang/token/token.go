// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package token defines the lexical token types for the Tiny language.
//
// Keywords are case-sensitive. Every token stream ends in exactly one EOF
// token; a lexer asked for more after that keeps returning EOF.
package token

import (
	"fmt"
	"strconv"
)

// Token represents a lexical token. Which payload field is meaningful
// depends on Type: Text for IDENT, STRING and ILLEGAL, Int for INT,
// Float for FLOAT. Keywords and operators carry no payload.
type Token struct {
	Type  Type
	Text  string
	Int   int64
	Float float64
	Pos   Position
}

// Literal returns the token as it would be written in source.
func (t Token) Literal() string {
	switch t.Type {
	case IDENT, ILLEGAL:
		return t.Text
	case STRING:
		return strconv.Quote(t.Text)
	case INT:
		return strconv.FormatInt(t.Int, 10)
	case FLOAT:
		return strconv.FormatFloat(t.Float, 'g', -1, 64)
	case EOF:
		return ""
	}
	return t.Type.String()
}

func (t Token) String() string {
	switch t.Type {
	case IDENT, INT, FLOAT, STRING, ILLEGAL:
		return fmt.Sprintf("%s(%s)", t.Type, t.Literal())
	}
	return t.Type.String()
}

// Position tracks source location.
type Position struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
	Offset int // byte offset
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position has been set.
func (p Position) IsValid() bool { return p.Line > 0 }

// Type is the set of lexical token types.
type Type int

const (
	// Special tokens
	ILLEGAL Type = iota
	EOF

	// Literals
	IDENT  // count
	INT    // 42, -7
	FLOAT  // 3.14
	STRING // "hello"

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	ASSIGN // :=
	EQ     // =
	NEQ    // !=
	LT     // <
	LTE    // <=
	GT     // >
	GTE    // >=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COLON     // :
	DOT       // .
	SEMICOLON // ;
	COMMA     // ,

	keywordStart
	AND
	BEGIN
	BOOL
	BY
	CONSTANT
	DO
	ELSE
	END
	FALSE
	FI
	FLOATTYPE
	FOR
	FROM
	FUNCTION
	IF
	INTEGER
	NOT
	OD
	OR
	PROCEDURE
	PROGRAM
	READ
	RETURN
	STRINGTYPE
	THEN
	TO
	TRUE
	VAR
	WHILE
	WRITE
	keywordEnd
)

var tokenNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	ASSIGN: ":=",
	EQ:     "=",
	NEQ:    "!=",
	LT:     "<",
	LTE:    "<=",
	GT:     ">",
	GTE:    ">=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COLON:     ":",
	DOT:       ".",
	SEMICOLON: ";",
	COMMA:     ",",

	AND:        "and",
	BEGIN:      "begin",
	BOOL:       "bool",
	BY:         "by",
	CONSTANT:   "constant",
	DO:         "do",
	ELSE:       "else",
	END:        "end",
	FALSE:      "false",
	FI:         "fi",
	FLOATTYPE:  "float",
	FOR:        "for",
	FROM:       "from",
	FUNCTION:   "function",
	IF:         "if",
	INTEGER:    "integer",
	NOT:        "not",
	OD:         "od",
	OR:         "or",
	PROCEDURE:  "procedure",
	PROGRAM:    "program",
	READ:       "read",
	RETURN:     "return",
	STRINGTYPE: "string",
	THEN:       "then",
	TO:         "to",
	TRUE:       "true",
	VAR:        "var",
	WHILE:      "while",
	WRITE:      "write",
}

// String returns the string form of a token type.
func (t Type) String() string {
	if t >= 0 && int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// IsKeyword returns true if the token is a keyword.
func (t Type) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// IsOperator returns true if the token is an arithmetic or relational operator.
func (t Type) IsOperator() bool {
	return t >= PLUS && t <= GTE
}

// IsRelational returns true for = != < <= > >=.
func (t Type) IsRelational() bool {
	return t >= EQ && t <= GTE
}

// IsLiteral returns true if the token is a literal value.
func (t Type) IsLiteral() bool {
	return t >= IDENT && t <= STRING
}

// EndsOperand reports whether a token of this type can be the last token of
// an operand. A '-' directly after such a token is always subtraction.
func (t Type) EndsOperand() bool {
	switch t {
	case IDENT, INT, FLOAT, STRING, TRUE, FALSE, RPAREN, RBRACKET, RBRACE:
		return true
	}
	return false
}

// keywords maps keyword strings to token types.
var keywords map[string]Type

func init() {
	keywords = make(map[string]Type, keywordEnd-keywordStart)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		keywords[tokenNames[i]] = i
	}
}

// LookupIdent checks if an identifier is a keyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	words := make([]string, 0, keywordEnd-keywordStart-1)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		words = append(words, tokenNames[i])
	}
	return words
}
