package expr

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type lexer struct {
	src []rune
	pos int
}

func newLexer(formula string) *lexer {
	return &lexer{src: []rune(strings.ToLower(strings.TrimSpace(formula)))}
}

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}, nil
	}
	c := l.src[l.pos]
	switch {
	case c == '+':
		l.pos++
		return token{kind: tokPlus}, nil
	case c == '-':
		l.pos++
		return token{kind: tokMinus}, nil
	case c == '*':
		l.pos++
		return token{kind: tokStar}, nil
	case c == '/':
		l.pos++
		return token{kind: tokSlash}, nil
	case c == '^':
		l.pos++
		return token{kind: tokCaret}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma}, nil
	case isDigit(c) || c == '.':
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent()
	default:
		return token{}, fmt.Errorf("expr: unexpected character %q at position %d", c, l.pos)
	}
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	sawDot := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isDigit(c) {
			l.pos++
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			l.pos++
			continue
		}
		if (c == 'e' || c == 'E') && l.pos+1 < len(l.src) {
			nxt := l.src[l.pos+1]
			if isDigit(nxt) || ((nxt == '+' || nxt == '-') && l.pos+2 < len(l.src) && isDigit(l.src[l.pos+2])) {
				l.pos += 2
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
				continue
			}
		}
		break
	}
	text := string(l.src[start:l.pos])
	var v float64
	if _, err := fmt.Sscanf(text, "%g", &v); err != nil {
		return token{}, fmt.Errorf("expr: malformed number %q", text)
	}
	return token{kind: tokNumber, text: text, num: v}, nil
}

func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return token{kind: tokIdent, text: string(l.src[start:l.pos])}, nil
}

func isDigit(c rune) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c rune) bool { return (c >= 'a' && c <= 'z') || c == '_' }
func isIdentPart(c rune) bool  { return isIdentStart(c) || isDigit(c) }
