package errors

import (
	"fmt"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
)

// Syntax error codes (SYN001-099)
const (
	// ErrUnexpectedToken indicates an unexpected token was encountered
	ErrUnexpectedToken ErrorCode = "SYN001"
	// ErrExpectedToken indicates a specific token was expected but not found
	ErrExpectedToken ErrorCode = "SYN002"
	// ErrUnexpectedEOF indicates unexpected end of file
	ErrUnexpectedEOF ErrorCode = "SYN010"
	// ErrEmptyRouteList indicates a declaration without any route
	ErrEmptyRouteList ErrorCode = "SYN018"
	// ErrUnexpectedCharacter indicates the lexer could not tokenize the input
	ErrUnexpectedCharacter ErrorCode = "SYN019"
)

// NewUnexpectedToken creates a SYN001 error
func NewUnexpectedToken(loc ast.SourceLocation, found, context string) *CompilerError {
	message := fmt.Sprintf("Unexpected token '%s'", found)
	if context != "" {
		message = fmt.Sprintf("Unexpected token '%s' in %s", found, context)
	}

	return newError(
		ErrUnexpectedToken,
		"unexpected_token",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	).WithActual(found)
}

// NewExpectedToken creates a SYN002 error
func NewExpectedToken(loc ast.SourceLocation, expected, found string) *CompilerError {
	return newError(
		ErrExpectedToken,
		"expected_token",
		CategorySyntax,
		SeverityError,
		fmt.Sprintf("Expected '%s' but found '%s'", expected, found),
		loc,
	).WithExpected(expected).WithActual(found)
}

// NewUnexpectedEOF creates a SYN010 error
func NewUnexpectedEOF(loc ast.SourceLocation, context string) *CompilerError {
	message := "Unexpected end of file"
	if context != "" {
		message = fmt.Sprintf("Unexpected end of file while parsing %s", context)
	}

	return newError(
		ErrUnexpectedEOF,
		"unexpected_eof",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	)
}

// NewEmptyRouteList creates a SYN018 error
func NewEmptyRouteList(loc ast.SourceLocation) *CompilerError {
	return newError(
		ErrEmptyRouteList,
		"empty_route_list",
		CategorySyntax,
		SeverityError,
		"At least one route required",
		loc,
	).WithSuggestion("List route values separated by commas").
		WithExamples(
			"users::List, users::Create",
			"spec: api::Customize; health",
		)
}

// NewUnexpectedCharacter creates a SYN019 error
func NewUnexpectedCharacter(loc ast.SourceLocation, message, lexeme string) *CompilerError {
	return newError(
		ErrUnexpectedCharacter,
		"unexpected_character",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	).WithActual(lexeme).
		WithSuggestion("Route paths use identifiers joined by '::'")
}
