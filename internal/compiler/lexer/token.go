package lexer

import "fmt"

// TokenType represents the type of a token in a route declaration
type TokenType int

const (
	// TOKEN_EOF marks the end of the token stream.
	TOKEN_EOF TokenType = iota
	// TOKEN_ERROR represents a lexical error encountered during scanning.
	TOKEN_ERROR

	// TOKEN_IDENTIFIER is a path segment or the leading spec keyword.
	TOKEN_IDENTIFIER

	TOKEN_COLON        // :
	TOKEN_DOUBLE_COLON // ::
	TOKEN_SEMICOLON    // ;
	TOKEN_COMMA        // ,
)

// SpecKeyword introduces the optional mutator clause. It is only a keyword at
// the first position of a declaration; the lexer always emits it as an
// identifier.
const SpecKeyword = "spec"

// TokenTypeNames maps token types to their string representations
var TokenTypeNames = map[TokenType]string{
	TOKEN_EOF:          "EOF",
	TOKEN_ERROR:        "ERROR",
	TOKEN_IDENTIFIER:   "IDENTIFIER",
	TOKEN_COLON:        "COLON",
	TOKEN_DOUBLE_COLON: "DOUBLE_COLON",
	TOKEN_SEMICOLON:    "SEMICOLON",
	TOKEN_COMMA:        "COMMA",
}

// TokenTypeSymbols maps punctuation token types to their source text, for
// diagnostics.
var TokenTypeSymbols = map[TokenType]string{
	TOKEN_COLON:        ":",
	TOKEN_DOUBLE_COLON: "::",
	TOKEN_SEMICOLON:    ";",
	TOKEN_COMMA:        ",",
}

// String returns the string representation of a TokenType
func (t TokenType) String() string {
	if name, ok := TokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// Describe returns a human-facing description used in diagnostics.
func (t TokenType) Describe() string {
	if sym, ok := TokenTypeSymbols[t]; ok {
		return sym
	}
	switch t {
	case TOKEN_IDENTIFIER:
		return "identifier"
	case TOKEN_EOF:
		return "end of input"
	default:
		return t.String()
	}
}

// Token represents a single lexical token
type Token struct {
	Type   TokenType // The type of the token
	Lexeme string    // The raw text of the token
	Line   int       // Line number (1-indexed)
	Column int       // Column number (1-indexed)
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s '%s' at %d:%d",
		t.Type.String(), t.Lexeme, t.Line, t.Column)
}

// IsSpecKeyword reports whether the token spells the spec keyword.
func (t Token) IsSpecKeyword() bool {
	return t.Type == TOKEN_IDENTIFIER && t.Lexeme == SpecKeyword
}

// LexError represents an error encountered during lexical analysis
type LexError struct {
	Message string // Error message
	Line    int    // Line number where error occurred
	Column  int    // Column number where error occurred
	Lexeme  string // The problematic text
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("Lexical error at %d:%d: %s (near '%s')",
		e.Line, e.Column, e.Message, e.Lexeme)
}
