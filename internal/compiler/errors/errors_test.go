package errors

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
)

func TestErrorCodeUniqueness(t *testing.T) {
	all := []ErrorCode{
		ErrUnexpectedToken, ErrExpectedToken, ErrUnexpectedEOF,
		ErrEmptyRouteList, ErrUnexpectedCharacter,
		ErrCodeGenFailed, ErrInvalidPackageName, ErrFormatFailed, ErrInvalidImportAlias,
		ErrReservedIdentifier,
		ErrMissingMetadata, ErrInvalidSpecPath, ErrOutputConflict,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range all {
		assert.False(t, seen[code], "duplicate error code %s", code)
		seen[code] = true
	}
}

func TestExpectedToken(t *testing.T) {
	err := NewExpectedToken(ast.SourceLocation{Line: 1, Column: 6}, ";", ",")

	assert.Equal(t, ErrExpectedToken, err.Code)
	assert.Equal(t, CategorySyntax, err.Category)
	assert.True(t, err.IsGrammar())
	assert.Equal(t, ";", err.Expected)
	assert.Equal(t, ",", err.Actual)
	assert.Equal(t, "<source>:1:6: error: Expected ';' but found ',' [SYN002]", err.Error())
}

func TestWithSourceAndFormat(t *testing.T) {
	source := "spec: api::tweak\nusers::List,\nusers::Create"
	err := NewExpectedToken(ast.SourceLocation{Line: 2, Column: 1}, ";", "users").
		WithFile("api.routes").
		WithSource(source)

	require.NotNil(t, err.Context)
	assert.Equal(t, "users::List,", err.Context.Current)
	assert.Equal(t, []string{"spec: api::tweak", "users::List,", "users::Create"}, err.Context.SourceLines)

	out := err.Format()
	assert.Contains(t, out, "Syntax Error in api.routes [SYN002]")
	assert.Contains(t, out, "Line 2, Column 1:")
	assert.Contains(t, out, "  2 |  users::List, ← Expected ';' but found 'users'")
	assert.Contains(t, out, "Expected: ;")
}

func TestWithSourceFirstLine(t *testing.T) {
	err := NewEmptyRouteList(ast.SourceLocation{Line: 1, Column: 1}).WithSource("")

	require.NotNil(t, err.Context)
	out := err.Format()
	assert.NotContains(t, out, "  0 |")
	assert.Contains(t, out, "At least one route required")
}

func TestWithSourceOutOfRange(t *testing.T) {
	err := NewEmptyRouteList(ast.SourceLocation{Line: 9, Column: 1}).WithSource("one line")
	assert.Nil(t, err.Context)
}

func TestCauseUnwraps(t *testing.T) {
	cause := stderrors.New("name is empty")
	err := NewMissingMetadata("name", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CategoryConfig, err.Category)
	assert.Contains(t, err.Suggestion, "ROUTEGEN_PACKAGE_NAME")
	assert.Equal(t, "<source>: error: Package name is required [CFG001]", err.Error())
}

func TestJSONFields(t *testing.T) {
	err := NewUnexpectedToken(ast.SourceLocation{Line: 3, Column: 4}, ";", "route list").WithFile("x.routes")

	out, jerr := json.Marshal(err)
	require.NoError(t, jerr)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "SYN001", decoded["code"])
	assert.Equal(t, "syntax", decoded["category"])
	assert.Equal(t, "x.routes", decoded["file"])
	assert.Equal(t, float64(3), decoded["location"].(map[string]interface{})["line"])
}

func TestErrorList(t *testing.T) {
	list := ErrorList{
		NewEmptyRouteList(ast.SourceLocation{Line: 1, Column: 1}),
		NewInvalidSpecPath("openapi.json"),
	}

	assert.True(t, list.HasErrors())
	errs, warns := list.ErrorCount()
	assert.Equal(t, 2, errs)
	assert.Equal(t, 0, warns)

	assert.False(t, ErrorList{}.HasErrors())
}

func TestOutputConflict(t *testing.T) {
	err := NewOutputConflict("api/b.routes", "api/a.routes", "api/routes_gen.go")

	assert.Equal(t, ErrOutputConflict, err.Code)
	assert.Equal(t, CategoryConfig, err.Category)
	assert.Equal(t, "api/b.routes", err.File)
	assert.Equal(t, "api/b.routes: error: api/b.routes and api/a.routes both generate api/routes_gen.go [CFG003]", err.Error())
}

func TestReservedIdentifier(t *testing.T) {
	err := NewReservedIdentifier(ast.SourceLocation{Line: 2, Column: 1}, "Routes", "Routes")

	assert.Equal(t, ErrReservedIdentifier, err.Code)
	assert.Equal(t, CategoryCodeGen, err.Category)
	assert.False(t, err.IsGrammar())
	assert.Contains(t, err.Message, "clashes with an identifier of the generated file")
}
