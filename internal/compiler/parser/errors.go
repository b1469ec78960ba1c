// Package parser turns route declaration tokens into an ast.Declaration.
// It is a recursive descent parser with no error recovery: the first
// malformed token aborts parsing with a diagnostic at that token.
package parser

import (
	"github.com/conduit-lang/routegen/internal/compiler/ast"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/compiler/lexer"
)

// describe renders a token for diagnostics
func describe(token lexer.Token) string {
	if token.Type == lexer.TOKEN_EOF {
		return token.Type.Describe()
	}
	return token.Lexeme
}

// expected builds the diagnostic for a missing token
func expected(token lexer.Token, want lexer.TokenType, context string) *cerrors.CompilerError {
	loc := ast.TokenLocation(token)
	if token.Type == lexer.TOKEN_EOF {
		return cerrors.NewUnexpectedEOF(loc, context).WithExpected(want.Describe())
	}
	return cerrors.NewExpectedToken(loc, want.Describe(), describe(token))
}

// unexpected builds the diagnostic for a token that cannot start a path
// segment
func unexpected(token lexer.Token, context string) *cerrors.CompilerError {
	if token.Type == lexer.TOKEN_EOF {
		return expected(token, lexer.TOKEN_IDENTIFIER, context)
	}
	return cerrors.NewUnexpectedToken(ast.TokenLocation(token), describe(token), context).
		WithExpected(lexer.TOKEN_IDENTIFIER.Describe())
}

// fromLexError converts the first lexical error into a grammar diagnostic
func fromLexError(err lexer.LexError) *cerrors.CompilerError {
	return cerrors.NewUnexpectedCharacter(
		ast.SourceLocation{Line: err.Line, Column: err.Column},
		err.Message,
		err.Lexeme,
	).WithCause(err)
}
