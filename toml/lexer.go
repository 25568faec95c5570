package toml

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokError
	tokNewline
	tokKey
	tokString
	tokInt
	tokFloat
	tokBool
	tokEqual
	tokDot
	tokComma
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	case tokError:
		return t.text
	}
	return strconv.Quote(t.text)
}

// lexer splits a document into tokens; comments are dropped
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: string(src), line: 1}
}

var punct = map[byte]tokenKind{
	'=': tokEqual,
	'.': tokDot,
	',': tokComma,
	'[': tokLBracket,
	']': tokRBracket,
	'{': tokLBrace,
	'}': tokRBrace,
}

func (lx *lexer) next() token {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return lx.scan(c)
		}
	}
	return token{kind: tokEOF, line: lx.line}
}

func (lx *lexer) scan(c byte) token {
	if c == '\n' {
		lx.pos++
		lx.line++
		return token{kind: tokNewline, text: "\n", line: lx.line - 1}
	}
	if k, ok := punct[c]; ok {
		lx.pos++
		return token{kind: k, text: string(c), line: lx.line}
	}
	switch {
	case c == '"':
		return lx.basicString()
	case c == '\'':
		return lx.literalString()
	case isBareChar(c):
		return lx.bare()
	}
	lx.pos++
	return lx.errorf("unexpected character %q", c)
}

func (lx *lexer) errorf(format string, args ...any) token {
	return token{kind: tokError, text: fmt.Sprintf("line %d: ", lx.line) + fmt.Sprintf(format, args...), line: lx.line}
}

func (lx *lexer) basicString() token {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
			continue
		case '\n':
			return lx.errorf("newline in string")
		case '"':
			lx.pos++
			s, err := strconv.Unquote(lx.src[start:lx.pos])
			if err != nil {
				return lx.errorf("bad string %s: %v", lx.src[start:lx.pos], err)
			}
			return token{kind: tokString, text: s, line: lx.line}
		}
		lx.pos++
	}
	return lx.errorf("unterminated string")
}

func (lx *lexer) literalString() token {
	lx.pos++
	end := strings.IndexAny(lx.src[lx.pos:], "'\n")
	if end < 0 || lx.src[lx.pos+end] == '\n' {
		return lx.errorf("unterminated literal string")
	}
	s := lx.src[lx.pos : lx.pos+end]
	lx.pos += end + 1
	return token{kind: tokString, text: s, line: lx.line}
}

func isBareChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == '+'
}

// bare reads a bare key or a scalar. Dots belong to the word only when it
// starts like a number, so a.b stays a dotted key.
func (lx *lexer) bare() token {
	start := lx.pos
	numeric := lx.src[start] >= '0' && lx.src[start] <= '9' || lx.src[start] == '+' || lx.src[start] == '-'
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if !isBareChar(c) && !(numeric && c == '.') {
			break
		}
		lx.pos++
	}
	word := lx.src[start:lx.pos]

	if word == "true" || word == "false" {
		return token{kind: tokBool, text: word, line: lx.line}
	}
	if numeric {
		if _, err := strconv.ParseInt(word, 0, 64); err == nil {
			return token{kind: tokInt, text: word, line: lx.line}
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(word, "_", ""), 64); err == nil {
			return token{kind: tokFloat, text: word, line: lx.line}
		}
	}
	return token{kind: tokKey, text: word, line: lx.line}
}
