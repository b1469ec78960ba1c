// Package lexer provides lexical analysis for route declarations.
// It tokenizes .routes files into a stream of tokens for the parser.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes route declaration source.
//
// Lexer instances are not safe for concurrent use; create one per source.
type Lexer struct {
	source  string     // Source code to tokenize
	start   int        // Start position of current token
	current int        // Current position in source
	line    int        // Current line number (1-indexed)
	column  int        // Current column number (1-indexed)
	tokens  []Token    // Collected tokens
	errors  []LexError // Collected errors
}

// New creates a new Lexer for the given source code
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0),
		errors: make([]LexError, 0),
	}
}

// ScanTokens tokenizes the entire source and returns tokens and errors.
// The token slice always ends with TOKEN_EOF.
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Lexeme: "",
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, l.errors
}

// scanToken processes the next token
func (l *Lexer) scanToken() {
	c := l.advance()

	switch {
	case c == ',':
		l.addToken(TOKEN_COMMA)
	case c == ';':
		l.addToken(TOKEN_SEMICOLON)
	case c == ':':
		l.scanColonToken()
	case c == '#':
		l.comment()
	case c == '/':
		l.scanSlashToken()
	case c == ' ' || c == '\r' || c == '\t':
		// Ignore whitespace
	case c == '\n':
		l.line++
		l.column = 1
	case isAlpha(c):
		l.identifier()
	case c >= utf8.RuneSelf:
		l.unicodeIdentifier()
	default:
		l.addError(fmt.Sprintf("Unexpected character: '%c'", c))
	}
}

// scanColonToken handles : and ::
func (l *Lexer) scanColonToken() {
	if l.match(':') {
		l.addToken(TOKEN_DOUBLE_COLON)
	} else {
		l.addToken(TOKEN_COLON)
	}
}

// scanSlashToken handles // comments; a lone slash is an error
func (l *Lexer) scanSlashToken() {
	if l.match('/') {
		l.comment()
		return
	}
	l.addError("Unexpected character '/' (did you mean '//'?)")
}

// comment consumes until end of line
func (l *Lexer) comment() {
	for l.peek() != '\n' && !l.isAtEnd() {
		l.advance()
	}
}

// identifier handles ASCII identifiers, switching to the unicode path if a
// multi-byte rune follows
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	if l.peek() >= utf8.RuneSelf {
		l.unicodeIdentifier()
		return
	}
	l.addToken(TOKEN_IDENTIFIER)
}

// unicodeIdentifier scans identifiers containing non-ASCII letters. Go
// identifiers may use any unicode letter, so route names may too.
func (l *Lexer) unicodeIdentifier() {
	// Rewind to the token start so the first rune is validated as well.
	l.column -= l.current - l.start
	l.current = l.start

	first := true
	for !l.isAtEnd() {
		r, size := utf8.DecodeRuneInString(l.source[l.current:])
		valid := unicode.IsLetter(r) || r == '_' || (!first && unicode.IsDigit(r))
		if !valid {
			break
		}
		l.current += size
		l.column++
		first = false
	}

	if first {
		r, size := utf8.DecodeRuneInString(l.source[l.current:])
		l.current += size
		l.column++
		l.addError(fmt.Sprintf("Unexpected character: '%c'", r))
		return
	}
	l.addToken(TOKEN_IDENTIFIER)
}

// Helper methods

// isAtEnd checks if we've reached the end of the source
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance consumes and returns the current byte
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	c := l.source[l.current]
	l.current++
	l.column++
	return c
}

// match checks if the current byte matches expected and consumes it
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

// peek returns the current byte without consuming it
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

// addToken adds a token with the current lexeme. Columns count runes for
// identifiers, bytes elsewhere; both agree for ASCII input.
func (l *Lexer) addToken(tokenType TokenType) {
	lexeme := l.source[l.start:l.current]
	l.tokens = append(l.tokens, Token{
		Type:   tokenType,
		Lexeme: lexeme,
		Line:   l.line,
		Column: l.column - utf8.RuneCountInString(lexeme),
	})
}

// addError records a lexical error
func (l *Lexer) addError(message string) {
	lexeme := ""
	if l.start < len(l.source) {
		end := l.current
		if end > l.start+20 {
			end = l.start + 20
		}
		lexeme = l.source[l.start:end]
	}

	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.line,
		Column:  l.column - utf8.RuneCountInString(lexeme),
		Lexeme:  lexeme,
	})
}

// isAlpha checks if a byte is an ASCII letter or underscore
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_'
}

// isAlphaNumeric checks if a byte is an ASCII letter, digit, or underscore
func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}
