package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
)

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "api.routes")
	require.NoError(t, os.WriteFile(source, []byte("# pets\nusers::List,\nusers::Show\n"), 0644))

	opts := baseOptions()
	opts.SourceFile = ""
	decl, out, err := GenerateFile(source, opts)
	require.NoError(t, err)
	assert.Len(t, decl.Routes, 2)
	assert.Contains(t, string(out), "from api.routes. DO NOT EDIT.")
}

func TestGenerateFile_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "api.routes")
	require.NoError(t, os.WriteFile(source, []byte("users::List users::Show"), 0644))

	_, out, err := GenerateFile(source, baseOptions())
	assert.Nil(t, out)

	var compErr *cerrors.CompilerError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, source, compErr.File)
	assert.True(t, compErr.IsGrammar())
	assert.Equal(t, 1, compErr.Location.Line)
}

func TestGenerateFile_Missing(t *testing.T) {
	_, _, err := GenerateFile(filepath.Join(t.TempDir(), "nope.routes"), baseOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gen", "routes_gen.go")

	require.NoError(t, WriteFile(path, []byte("package a\n")))
	require.NoError(t, WriteFile(path, []byte("package b\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}
