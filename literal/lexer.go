// SPDX-License-Identifier: MIT

package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/katalvlaran/lawt/compute"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokSqrt
	tokLParen
	tokRParen
)

var tokenNames = map[tokenType]string{
	tokEOF:    "end of input",
	tokNumber: "number",
	tokPlus:   "'+'",
	tokMinus:  "'-'",
	tokStar:   "'*'",
	tokSlash:  "'/'",
	tokCaret:  "'^'",
	tokSqrt:   "'√'",
	tokLParen: "'('",
	tokRParen: "')'",
}

func (t tokenType) String() string { return tokenNames[t] }

type token struct {
	typ    tokenType
	lexeme string
	value  float64 // tokNumber only
	offset int     // byte offset of the first character
}

// lexer splits one literal into tokens. It works on bytes and decodes UTF-8
// only for the few non-ASCII symbols the notation allows.
type lexer struct {
	src   string
	cur   int
	start int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}

	return l.src[l.cur], true
}

func (l *lexer) peekN(n int) (byte, bool) {
	if l.cur+n >= len(l.src) {
		return 0, false
	}

	return l.src[l.cur+n], true
}

func (l *lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.src[l.cur] {
		case ' ', '\t', '\r', '\n':
			l.cur++
		default:
			return
		}
	}
}

func (l *lexer) emit(tt tokenType) token {
	return token{typ: tt, lexeme: l.src[l.start:l.cur], offset: l.start}
}

func (l *lexer) fail(tok, reason string) error {
	return &compute.ParseError{Token: tok, Offset: l.start, Reason: fmt.Sprintf("%s %q", reason, tok)}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// scan returns every token of the literal, ending with tokEOF.
func (l *lexer) scan() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.typ == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	l.start = l.cur
	b, ok := l.peek()
	if !ok {
		return token{typ: tokEOF, offset: l.cur}, nil
	}
	switch {
	case isDigit(b) || b == '.':
		return l.scanNumber()
	case b == '+':
		l.cur++
		return l.emit(tokPlus), nil
	case b == '-':
		l.cur++
		return l.emit(tokMinus), nil
	case b == '*':
		l.cur++
		return l.emit(tokStar), nil
	case b == '/':
		l.cur++
		return l.emit(tokSlash), nil
	case b == '^':
		l.cur++
		return l.emit(tokCaret), nil
	case b == '(':
		l.cur++
		return l.emit(tokLParen), nil
	case b == ')':
		l.cur++
		return l.emit(tokRParen), nil
	case strings.HasPrefix(strings.ToLower(l.src[l.cur:]), "sqrt"):
		l.cur += len("sqrt")
		return l.emit(tokSqrt), nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	switch r {
	case '√':
		return l.emit(tokSqrt), nil
	case '−':
		return l.emit(tokMinus), nil
	case '×', '·':
		return l.emit(tokStar), nil
	case '÷':
		return l.emit(tokSlash), nil
	}

	return token{}, l.fail(string(r), "illegal character")
}

// scanNumber reads digits [ "." digits ] [ exponent ].
func (l *lexer) scanNumber() (token, error) {
	sawDigits := false
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.cur++
		sawDigits = true
	}
	if b, ok := l.peek(); ok && b == '.' {
		l.cur++
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.cur++
			sawDigits = true
		}
	}
	if !sawDigits {
		return token{}, l.fail(l.src[l.start:l.cur], "malformed number")
	}

	// exponent; rewind when "e" is not followed by digits
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		save := l.cur
		n := 1
		if s, ok := l.peekN(1); ok && (s == '+' || s == '-') {
			n = 2
		}
		if d, ok := l.peekN(n); ok && isDigit(d) {
			l.cur += n
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.cur++
			}
		} else {
			l.cur = save
		}
	}

	tok := l.emit(tokNumber)
	v, err := strconv.ParseFloat(tok.lexeme, 64)
	if err != nil {
		return token{}, l.fail(tok.lexeme, "number out of range")
	}
	tok.value = v

	return tok, nil
}
