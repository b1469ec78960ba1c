package codegen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/compiler/parser"
)

// GenerateFile reads and parses the declaration at source and generates its
// Go file. Diagnostics are annotated with source.
func GenerateFile(source string, opts Options) (*ast.Declaration, []byte, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	decl, err := parser.ParseSource(string(data))
	if err != nil {
		return nil, nil, annotate(err, source)
	}

	if opts.SourceFile == "" {
		opts.SourceFile = filepath.Base(source)
	}
	out, err := Generate(decl, opts)
	if err != nil {
		return nil, nil, annotate(err, source)
	}
	return decl, out, nil
}

// WriteFile replaces path with data via a temporary file in the same
// directory, so a failed write leaves any previous file intact.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func annotate(err error, source string) error {
	var compErr *cerrors.CompilerError
	if errors.As(err, &compErr) && compErr.File == "" {
		compErr.WithFile(source)
	}
	return err
}
