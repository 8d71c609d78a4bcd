// lexer.go — single-pass scanner for Lumen source text.
//
// The lexer walks the source once, left to right, with one byte of lookahead
// to split the two-character operators ("!=", "==", "<=", ">=", "**", "+=",
// "-=", "*=", "/=") from their one-character prefixes. It never stops on a
// bad character or an unterminated string: those are handed to the Reporter
// (keyed by line) and scanning continues, so the parser and resolver can
// surface their own diagnostics in the same run. The token stream always
// ends with a single EOF token.
package lumen

import (
	"fmt"
	"strconv"
)

// Lexer scans a Lumen source string into tokens.
type Lexer struct {
	src   string
	rep   *Reporter
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line

	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source. Diagnostics go to rep.
func NewLexer(src string, rep *Reporter) *Lexer {
	return &Lexer{
		src:  src,
		rep:  rep,
		line: 1,
		col:  0,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekNext() (byte, bool) {
	if l.cur+1 >= len(l.src) {
		return 0, false
	}
	return l.src[l.cur+1], true
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

// match consumes the next byte only when it equals want.
func (l *Lexer) match(want byte) bool {
	if b, ok := l.peek(); ok && b == want {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

// ----- scanners -----

// scanString consumes a double-quoted string literal. Embedded newlines are
// allowed and bump the line counter. An unterminated string is reported at
// the line where it started; the lexer keeps going from end-of-input.
func (l *Lexer) scanString() {
	for {
		b, ok := l.peek()
		if !ok {
			l.rep.Report(l.tokStartLine, "unterminated string")
			return
		}
		if b == '"' {
			l.advance()
			// trim the surrounding quotes
			l.addToken(STRING, l.src[l.start+1:l.cur-1])
			return
		}
		l.advance()
	}
}

// scanNumber consumes an integer or decimal literal. No exponent notation;
// a trailing '.' without digits belongs to the next token.
func (l *Lexer) scanNumber() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekNext(); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	lex := l.src[l.start:l.cur]
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		l.rep.Report(l.tokStartLine, fmt.Sprintf("invalid number literal %q", lex))
		return
	}
	l.addToken(NUMBER, v)
}

// scanIdentifier consumes [A-Za-z_][A-Za-z0-9_]* and classifies keywords.
func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if tt, ok := keywords[lex]; ok {
		l.addToken(tt, nil)
		return
	}
	l.addToken(IDENT, nil)
}

// ignoreUntilNewline eats until '\n' or EOF. The newline itself is left for
// the main loop so line accounting stays in one place.
func (l *Lexer) ignoreUntilNewline() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// ----- main scanner -----

func (l *Lexer) scanToken() {
	ch := l.advance()
	switch ch {
	case ' ', '\r', '\t', '\n':
		// whitespace; advance already tracked the line
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case '{':
		l.addToken(LBRACE, nil)
	case '}':
		l.addToken(RBRACE, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '.':
		l.addToken(DOT, nil)
	case ';':
		l.addToken(SEMICOLON, nil)
	case '%':
		l.addToken(PERCENT, nil)
	case '+':
		if l.match('=') {
			l.addToken(PLUS_EQ, nil)
		} else {
			l.addToken(PLUS, nil)
		}
	case '-':
		if l.match('=') {
			l.addToken(MINUS_EQ, nil)
		} else {
			l.addToken(MINUS, nil)
		}
	case '*':
		if l.match('*') {
			l.addToken(STARSTAR, nil)
		} else if l.match('=') {
			l.addToken(STAR_EQ, nil)
		} else {
			l.addToken(STAR, nil)
		}
	case '/':
		if l.match('/') {
			l.ignoreUntilNewline()
		} else if l.match('=') {
			l.addToken(SLASH_EQ, nil)
		} else {
			l.addToken(SLASH, nil)
		}
	case '!':
		if l.match('=') {
			l.addToken(BANG_EQ, nil)
		} else {
			l.addToken(BANG, nil)
		}
	case '=':
		if l.match('=') {
			l.addToken(EQ_EQ, nil)
		} else {
			l.addToken(EQ, nil)
		}
	case '<':
		if l.match('=') {
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '"':
		l.scanString()
	default:
		if isDigit(ch) {
			l.scanNumber()
			return
		}
		if isAlpha(ch) {
			l.scanIdentifier()
			return
		}
		l.rep.Report(l.tokStartLine, fmt.Sprintf("unexpected character: %q", ch))
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() []Token {
	for !l.isAtEnd() {
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens
}
