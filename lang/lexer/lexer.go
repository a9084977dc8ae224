// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package lexer turns Tiny source text into tokens, one per call to Scan.
//
// Lexical rules:
//   - whitespace is space, tab, CR, LF and form feed
//   - comments open with "##" and close with "##", the end of the line or EOF
//   - a '-' directly followed by a digit starts a signed number literal,
//     unless the previous token ends an operand (then it is subtraction)
//   - string literals are copied verbatim; there are no escapes
//
// Malformed input produces an ILLEGAL token plus a lexical diagnostic and
// scanning carries on; the lexer never stops before EOF.
package lexer

import (
	"strconv"
	"strings"

	"github.com/probechain/go-tiny/lang/diag"
	"github.com/probechain/go-tiny/lang/source"
	"github.com/probechain/go-tiny/lang/token"
)

// Lexer holds the state for one scan of a source file.
type Lexer struct {
	src   *source.Cursor
	diags *diag.List

	prev token.Type // type of the last token returned
	done bool       // EOF has been returned
	eof  token.Token
}

// New returns a lexer over f. Lexical diagnostics are appended to diags,
// which may be nil to discard them.
func New(f *source.File, diags *diag.List) *Lexer {
	if diags == nil {
		diags = new(diag.List)
	}
	return &Lexer{src: source.NewCursor(f), diags: diags, prev: token.ILLEGAL}
}

// FromString is shorthand for New(source.New(name, []byte(src)), diags).
func FromString(name, src string, diags *diag.List) *Lexer {
	return New(source.New(name, []byte(src)), diags)
}

// Scan returns the next token. After the first EOF every call returns the
// same EOF token.
func (l *Lexer) Scan() token.Token {
	if l.done {
		return l.eof
	}
	tok := l.scan()
	l.prev = tok.Type
	if tok.Type == token.EOF {
		l.done, l.eof = true, tok
	}
	return tok
}

// Tokenize scans the remaining input. The result always ends with EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.Scan()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...interface{}) {
	l.diags.Add(diag.Lexical, pos, format, args...)
}

func illegal(text string, pos token.Position) token.Token {
	return token.Token{Type: token.ILLEGAL, Text: text, Pos: pos}
}

func (l *Lexer) scan() token.Token {
	for {
		ch := l.src.Next()
		pos := l.src.Pos()
		switch {
		case ch == source.EOF:
			return token.Token{Type: token.EOF, Pos: pos}
		case isSpace(ch):
			continue
		case ch == '#':
			if l.src.Next() != '#' {
				l.src.PushBack()
				l.errorf(pos, "incomplete or wrong comment")
				return illegal("#", pos)
			}
			l.skipComment()
			continue
		case isIdentStart(ch):
			return l.scanIdent(ch, pos)
		case isDigit(ch):
			return l.scanNumber(ch, pos, false)
		case ch == '"':
			return l.scanString(pos)
		}
		return l.scanOperator(ch, pos)
	}
}

// skipComment consumes a comment body after the opening "##".
func (l *Lexer) skipComment() {
	for {
		switch l.src.Next() {
		case source.EOF, '\n':
			return
		case '#':
			if l.src.Next() == '#' {
				return
			}
			l.src.PushBack()
		}
	}
}

func (l *Lexer) scanIdent(first rune, pos token.Position) token.Token {
	var b strings.Builder
	b.WriteRune(first)
	for {
		ch := l.src.Next()
		if !isIdentContinue(ch) {
			l.src.PushBack()
			break
		}
		b.WriteRune(ch)
	}
	text := b.String()
	typ := token.LookupIdent(text)
	if typ != token.IDENT {
		return token.Token{Type: typ, Pos: pos}
	}
	return token.Token{Type: token.IDENT, Text: text, Pos: pos}
}

// scanNumber reads an integer or float literal whose first digit has been
// consumed. neg is set when a sign was read in front of it.
func (l *Lexer) scanNumber(first rune, pos token.Position, neg bool) token.Token {
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteRune(first)

	ch := l.readDigits(&b)
	isFloat := false
	if ch == '.' {
		b.WriteByte('.')
		ch = l.src.Next()
		if !isDigit(ch) {
			l.errorf(pos, "invalid floating-point number %q", b.String())
			return l.resync(&b, ch, pos)
		}
		b.WriteRune(ch)
		ch = l.readDigits(&b)
		isFloat = true
	}
	if isIdentStart(ch) {
		b.WriteRune(ch)
		if isFloat {
			l.errorf(pos, "invalid floating-point number %q", b.String())
		} else {
			l.errorf(pos, "invalid integer number %q", b.String())
		}
		return l.resync(&b, l.src.Next(), pos)
	}
	l.src.PushBack()

	text := b.String()
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.errorf(pos, "floating-point number %s out of range", text)
			return illegal(text, pos)
		}
		return token.Token{Type: token.FLOAT, Float: f, Pos: pos}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.errorf(pos, "integer number %s out of range", text)
		return illegal(text, pos)
	}
	return token.Token{Type: token.INT, Int: n, Pos: pos}
}

// readDigits appends a run of digits to b and returns the first non-digit,
// which has been consumed.
func (l *Lexer) readDigits(b *strings.Builder) rune {
	for {
		ch := l.src.Next()
		if !isDigit(ch) {
			return ch
		}
		b.WriteRune(ch)
	}
}

// resync skips the rest of a malformed literal up to whitespace or a
// delimiter, starting with ch which has already been consumed. The stopping
// character is left in the stream.
func (l *Lexer) resync(b *strings.Builder, ch rune, pos token.Position) token.Token {
	for ch != source.EOF && !isSpace(ch) && !isDelimiter(ch) {
		b.WriteRune(ch)
		ch = l.src.Next()
	}
	l.src.PushBack()
	return illegal(b.String(), pos)
}

func (l *Lexer) scanString(pos token.Position) token.Token {
	var b strings.Builder
	for {
		ch := l.src.Next()
		switch ch {
		case '"':
			return token.Token{Type: token.STRING, Text: b.String(), Pos: pos}
		case '\n':
			// Leave the newline so the next scan starts on the following line.
			l.src.PushBack()
			fallthrough
		case source.EOF:
			l.errorf(pos, "unfinished string")
			return illegal(`"`+b.String(), pos)
		}
		b.WriteRune(ch)
	}
}

var singleChar = map[rune]token.Type{
	'+': token.PLUS,
	'*': token.STAR,
	'/': token.SLASH,
	'=': token.EQ,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	'.': token.DOT,
	';': token.SEMICOLON,
	',': token.COMMA,
}

func (l *Lexer) scanOperator(ch rune, pos token.Position) token.Token {
	op := func(typ token.Type) token.Token { return token.Token{Type: typ, Pos: pos} }

	// twoChar returns long if the next character is '=', short otherwise.
	twoChar := func(short, long token.Type) token.Token {
		if l.src.Next() == '=' {
			return op(long)
		}
		l.src.PushBack()
		return op(short)
	}

	switch ch {
	case '-':
		if !l.prev.EndsOperand() {
			next := l.src.Next()
			if isDigit(next) {
				return l.scanNumber(next, pos, true)
			}
			l.src.PushBack()
		}
		return op(token.MINUS)
	case ':':
		return twoChar(token.COLON, token.ASSIGN)
	case '<':
		return twoChar(token.LT, token.LTE)
	case '>':
		return twoChar(token.GT, token.GTE)
	case '!':
		if l.src.Next() == '=' {
			return op(token.NEQ)
		}
		l.src.PushBack()
		l.errorf(pos, "'!' must be followed by '='")
		return illegal("!", pos)
	}
	if typ, ok := singleChar[ch]; ok {
		return op(typ)
	}
	l.errorf(pos, "unknown token %q", ch)
	return illegal(string(ch), pos)
}

// ---------------------------------------------------------------------------
// Character classification helpers
// ---------------------------------------------------------------------------

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// isDelimiter reports whether ch ends a malformed literal during recovery.
func isDelimiter(ch rune) bool {
	return strings.ContainsRune("(){}[];,", ch)
}
