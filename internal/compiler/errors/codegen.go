package errors

import (
	"fmt"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
)

// Code generation error codes (GEN600-699)
const (
	// ErrCodeGenFailed indicates a general code generation failure
	ErrCodeGenFailed ErrorCode = "GEN600"
	// ErrInvalidPackageName indicates the output package is not a Go identifier
	ErrInvalidPackageName ErrorCode = "GEN601"
	// ErrFormatFailed indicates the emitted source could not be gofmt'd
	ErrFormatFailed ErrorCode = "GEN602"
	// ErrInvalidImportAlias indicates an import map key is not a Go identifier
	ErrInvalidImportAlias ErrorCode = "GEN603"
	// ErrReservedIdentifier indicates a path clashes with a generated identifier
	ErrReservedIdentifier ErrorCode = "GEN604"
)

// NewCodeGenFailed creates a GEN600 error
func NewCodeGenFailed(loc ast.SourceLocation, reason string) *CompilerError {
	return newError(
		ErrCodeGenFailed,
		"codegen_failed",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Code generation failed: %s", reason),
		loc,
	)
}

// NewInvalidPackageName creates a GEN601 error
func NewInvalidPackageName(name string) *CompilerError {
	return newError(
		ErrInvalidPackageName,
		"invalid_package_name",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Package name '%s' is not a valid Go identifier", name),
		locationOf(0, 0),
	).WithSuggestion("Set output.package in routegen.yaml or pass --package").
		WithExamples("api", "petstore")
}

// NewFormatFailed creates a GEN602 error
func NewFormatFailed(cause error) *CompilerError {
	return newError(
		ErrFormatFailed,
		"format_failed",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Generated source does not parse: %v", cause),
		locationOf(0, 0),
	).WithCause(cause).
		WithSuggestion("Check that every route segment is a valid Go identifier")
}

// NewInvalidImportAlias creates a GEN603 error
func NewInvalidImportAlias(alias, path string) *CompilerError {
	return newError(
		ErrInvalidImportAlias,
		"invalid_import_alias",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Import alias '%s' for '%s' is not a valid Go identifier", alias, path),
		locationOf(0, 0),
	)
}

// NewReservedIdentifier creates a GEN604 error
func NewReservedIdentifier(loc ast.SourceLocation, name, path string) *CompilerError {
	return newError(
		ErrReservedIdentifier,
		"reserved_identifier",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("'%s' in %s clashes with an identifier of the generated file", name, path),
		loc,
	).WithSuggestion("Rename the value or qualify it with its package").
		WithExamples("health::Check", "api::Routes")
}
