// Package ast defines the syntax tree produced by parsing a route declaration.
// A declaration is an optional spec mutator path followed by an ordered list of
// route paths.
package ast

import (
	"strings"

	"github.com/conduit-lang/routegen/internal/compiler/lexer"
)

// ScopeSeparator joins path segments in source form.
const ScopeSeparator = "::"

// SourceLocation tracks the position of an AST node in source code
type SourceLocation struct {
	Line   int `json:"line"`   // Line number (1-indexed)
	Column int `json:"column"` // Column number (1-indexed)
}

// Node is the base interface for all AST nodes
type Node interface {
	Location() SourceLocation
	node()
}

// Declaration is the root node of a parsed .routes file.
type Declaration struct {
	// Mutator names a function that receives the assembled document before
	// it is served. Nil when the declaration has no spec clause.
	Mutator *Path
	// Routes is never empty after a successful parse and keeps source order.
	Routes []*Path
}

func (d *Declaration) node() {}

// Location returns the location of the first node in the declaration.
func (d *Declaration) Location() SourceLocation {
	if d.Mutator != nil {
		return d.Mutator.Loc
	}
	if len(d.Routes) > 0 {
		return d.Routes[0].Loc
	}
	return SourceLocation{Line: 1, Column: 1}
}

// HasMutator reports whether a spec clause was declared.
func (d *Declaration) HasMutator() bool {
	return d.Mutator != nil
}

// Path is a qualified reference such as users::List. Segments are kept exactly
// as written; the parser does not interpret qualification depth.
type Path struct {
	Segments []string
	Loc      SourceLocation
}

func (p *Path) node() {}

// Location returns the location of the first segment.
func (p *Path) Location() SourceLocation {
	return p.Loc
}

// String renders the path in source form.
func (p *Path) String() string {
	return strings.Join(p.Segments, ScopeSeparator)
}

// Last returns the final segment.
func (p *Path) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Qualifier returns every segment but the last.
func (p *Path) Qualifier() []string {
	if len(p.Segments) == 0 {
		return nil
	}
	return p.Segments[:len(p.Segments)-1]
}

// Clone returns a deep copy so callers can rewrite segments safely.
func (p *Path) Clone() *Path {
	segments := make([]string, len(p.Segments))
	copy(segments, p.Segments)
	return &Path{Segments: segments, Loc: p.Loc}
}

// TokenLocation creates a SourceLocation from a lexer token
func TokenLocation(token lexer.Token) SourceLocation {
	return SourceLocation{
		Line:   token.Line,
		Column: token.Column,
	}
}
