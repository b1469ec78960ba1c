package errors

import (
	"fmt"
	"strings"
)

// Configuration error codes (CFG001-099)
const (
	// ErrMissingMetadata indicates required package metadata is absent
	ErrMissingMetadata ErrorCode = "CFG001"
	// ErrInvalidSpecPath indicates the document route path is unusable
	ErrInvalidSpecPath ErrorCode = "CFG002"
	// ErrOutputConflict indicates two declarations generate the same file
	ErrOutputConflict ErrorCode = "CFG003"
)

// NewMissingMetadata creates a CFG001 error
func NewMissingMetadata(field string, cause error) *CompilerError {
	return newError(
		ErrMissingMetadata,
		"missing_metadata",
		CategoryConfig,
		SeverityError,
		fmt.Sprintf("Package %s is required", field),
		locationOf(0, 0),
	).WithCause(cause).
		WithSuggestion(fmt.Sprintf("Set package.%s in routegen.yaml or ROUTEGEN_PACKAGE_%s", field, strings.ToUpper(field)))
}

// NewInvalidSpecPath creates a CFG002 error
func NewInvalidSpecPath(path string) *CompilerError {
	return newError(
		ErrInvalidSpecPath,
		"invalid_spec_path",
		CategoryConfig,
		SeverityError,
		fmt.Sprintf("Spec path '%s' must start with '/'", path),
		locationOf(0, 0),
	).WithExamples("/openapi.json", "/docs/openapi.yaml")
}

// NewOutputConflict creates a CFG003 error for source, whose output file is
// also produced by other.
func NewOutputConflict(source, other, output string) *CompilerError {
	return newError(
		ErrOutputConflict,
		"output_conflict",
		CategoryConfig,
		SeverityError,
		fmt.Sprintf("%s and %s both generate %s", source, other, output),
		locationOf(0, 0),
	).WithFile(source).
		WithSuggestion("Unset output.file or keep one .routes file per directory")
}
