package lumen

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	COMMA     // ","
	DOT       // "."
	SEMICOLON // ";"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	STARSTAR    // "**"
	BANG        // "!"
	BANG_EQ     // "!="
	EQ          // "="
	EQ_EQ       // "=="
	LESS        // "<"
	LESS_EQ     // "<="
	GREATER     // ">"
	GREATER_EQ  // ">="
	PLUS_EQ     // "+="
	MINUS_EQ    // "-="
	STAR_EQ     // "*="
	SLASH_EQ    // "/="

	// Literals & identifiers
	IDENT
	STRING
	NUMBER

	// Keywords
	AND
	BREAK
	CLASS
	CONTINUE
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	THIS
	TRUE
	VAR
	WHILE
)

// Token is a lexical token with optional literal value. Immutable once
// produced by the lexer.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for NUMBER/STRING literals
	Line    int         // 1-based
	Col     int         // 0-based column within line
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end"
	}
	return fmt.Sprintf("'%s'", t.Lexeme)
}

// keywords map
var keywords = map[string]TokenType{
	"and":      AND,
	"break":    BREAK,
	"class":    CLASS,
	"continue": CONTINUE,
	"else":     ELSE,
	"false":    FALSE,
	"for":      FOR,
	"fun":      FUN,
	"if":       IF,
	"nil":      NIL,
	"or":       OR,
	"print":    PRINT,
	"return":   RETURN,
	"this":     THIS,
	"true":     TRUE,
	"var":      VAR,
	"while":    WHILE,
}
