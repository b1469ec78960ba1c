// Package errors provides structured diagnostics for the route generator.
// It defines error codes, categories, and the terminal formatting; the JSON
// tags serve machine-readable reports.
package errors

import (
	"github.com/conduit-lang/routegen/internal/compiler/ast"
)

// ErrorCode represents a unique diagnostic code
type ErrorCode string

// ErrorCategory represents the category of a diagnostic
type ErrorCategory string

const (
	// CategorySyntax represents grammar errors (SYN001-099)
	CategorySyntax ErrorCategory = "syntax"
	// CategoryConfig represents configuration errors (CFG001-099)
	CategoryConfig ErrorCategory = "config"
	// CategoryCodeGen represents code generation errors (GEN600-699)
	CategoryCodeGen ErrorCategory = "codegen"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that aborts generation
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a warning that suggests potential issues
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorContext provides source code context for an error
type ErrorContext struct {
	// Current is the line of code where the error occurred
	Current string `json:"current"`
	// SourceLines is a snippet of source code (before, error line, after)
	SourceLines []string `json:"source_lines"`
}

// CompilerError is a structured diagnostic
type CompilerError struct {
	// Code is the unique error code (e.g., "SYN001")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Location is the source location of the error
	Location ast.SourceLocation `json:"location"`
	// File is the source file name (optional)
	File string `json:"file,omitempty"`
	// Context provides source code context
	Context *ErrorContext `json:"context,omitempty"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Examples provides example fixes (optional)
	Examples []string `json:"examples,omitempty"`

	cause error
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return FormatCompact(e)
}

// Unwrap returns the underlying cause, if any
func (e *CompilerError) Unwrap() error {
	return e.cause
}

// Format returns a human-readable error message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// WithFile sets the source file name for the error
func (e *CompilerError) WithFile(file string) *CompilerError {
	e.File = file
	return e
}

// WithContext sets the source code context for the error
func (e *CompilerError) WithContext(current string, sourceLines []string) *CompilerError {
	e.Context = &ErrorContext{
		Current:     current,
		SourceLines: sourceLines,
	}
	return e
}

// WithSource attaches the offending line and its neighbours from source.
func (e *CompilerError) WithSource(source string) *CompilerError {
	lines := splitLines(source)
	idx := e.Location.Line - 1
	if idx < 0 || idx >= len(lines) {
		return e
	}

	snippet := make([]string, 0, 3)
	for i := idx - 1; i <= idx+1; i++ {
		if i >= 0 && i < len(lines) {
			snippet = append(snippet, lines[i])
		} else {
			snippet = append(snippet, "")
		}
	}
	return e.WithContext(lines[idx], snippet)
}

// WithExpected sets the expected value for the error
func (e *CompilerError) WithExpected(expected string) *CompilerError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value for the error
func (e *CompilerError) WithActual(actual string) *CompilerError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// WithExamples sets example fixes for the error
func (e *CompilerError) WithExamples(examples ...string) *CompilerError {
	e.Examples = examples
	return e
}

// WithCause records the error that triggered this diagnostic
func (e *CompilerError) WithCause(err error) *CompilerError {
	e.cause = err
	return e
}

// IsGrammar reports whether the diagnostic came from the lexer or parser.
func (e *CompilerError) IsGrammar() bool {
	return e.Category == CategorySyntax
}

// ErrorList is a collection of compiler errors
type ErrorList []*CompilerError

// HasErrors returns true if the list contains any errors (excludes warnings)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of errors by severity
func (el ErrorList) ErrorCount() (errors, warnings int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
	loc ast.SourceLocation,
) *CompilerError {
	return &CompilerError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Message:  message,
		Location: loc,
	}
}

func splitLines(source string) []string {
	lines := make([]string, 0)
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, trimCR(source[start:i]))
			start = i + 1
		}
	}
	return append(lines, trimCR(source[start:]))
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

// locationOf is a small helper for diagnostics without a source position.
func locationOf(line, column int) ast.SourceLocation {
	return ast.SourceLocation{Line: line, Column: column}
}
