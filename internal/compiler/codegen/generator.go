// Package codegen emits the Go source file generated from a .routes
// declaration. The file contains a Routes function that hands the declared
// routes, their companion registration functions and the package metadata to
// apigen.Assemble.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"path"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/compiler/naming"
	"github.com/conduit-lang/routegen/pkg/apigen"
)

// Import paths of the runtime packages referenced by generated code.
const (
	ApigenImport  = "github.com/conduit-lang/routegen/pkg/apigen"
	OpenAPIImport = "github.com/conduit-lang/routegen/pkg/openapi"
	RoutesImport  = "github.com/conduit-lang/routegen/pkg/routes"
)

var runtimeImports = map[string]string{
	"apigen":  ApigenImport,
	"openapi": OpenAPIImport,
	"routes":  RoutesImport,
}

// declared names the generated file binds in package or function scope.
var declared = map[string]bool{
	"Routes":     true,
	"MustRoutes": true,
	"opts":       true,
}

// Options carries everything besides the declaration that shapes the output.
type Options struct {
	SourceFile string            // api.routes, named in the header comment
	Package    string            // Go package of the generated file
	Metadata   apigen.Metadata   // baked in as literals
	SpecPath   string            // route path serving the document
	Imports    map[string]string // first path segment -> import path
	Rule       naming.Rule       // companion naming rule, DefaultRule when nil
	Logger     *zap.Logger
}

// Generator transforms a declaration into Go source
type Generator struct {
	buf     *bytes.Buffer
	indent  int
	imports map[string]string // import path -> alias, "" when not aliased
	opts    Options
	log     *zap.Logger
}

// NewGenerator creates a new code generator
func NewGenerator(opts Options) *Generator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Rule == nil {
		opts.Rule = naming.DefaultRule
	}
	return &Generator{
		buf:     &bytes.Buffer{},
		imports: make(map[string]string),
		opts:    opts,
		log:     log,
	}
}

// Generate is a convenience wrapper around NewGenerator and Generate.
func Generate(decl *ast.Declaration, opts Options) ([]byte, error) {
	return NewGenerator(opts).Generate(decl)
}

// Generate returns the formatted source for decl. Output is identical for
// identical input.
func (g *Generator) Generate(decl *ast.Declaration) ([]byte, error) {
	g.reset()

	if err := g.opts.Metadata.Validate(); err != nil {
		return nil, err
	}
	if !token.IsIdentifier(g.opts.Package) || g.opts.Package == "_" {
		return nil, cerrors.NewInvalidPackageName(g.opts.Package)
	}
	if !strings.HasPrefix(g.opts.SpecPath, "/") {
		return nil, cerrors.NewInvalidSpecPath(g.opts.SpecPath)
	}
	if err := g.checkImportAliases(); err != nil {
		return nil, err
	}
	if decl == nil || len(decl.Routes) == 0 {
		return nil, cerrors.NewEmptyRouteList(ast.SourceLocation{Line: 1, Column: 1})
	}

	for name, importPath := range runtimeImports {
		g.imports[importPath] = aliasFor(name, importPath)
	}

	// Expressions are rendered before the header so their imports are known.
	var mutator string
	if decl.HasMutator() {
		expr, err := g.expression(decl.Mutator)
		if err != nil {
			return nil, err
		}
		mutator = expr
	}

	derived := naming.Derive(decl.Routes, g.opts.Rule)
	entries := make([]string, 0, len(derived))
	for _, d := range derived {
		entry, err := g.routeEntry(d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		g.log.Debug("emitting route",
			zap.String("route", d.Route.String()),
			zap.String("companion", d.Companion.String()),
			zap.String("operation_id", d.OperationID))
	}

	g.writeHeader()
	g.writeRoutes(mutator, entries)
	g.writeLine("")
	g.writeMustRoutes()

	formatted, err := format.Source(g.buf.Bytes())
	if err != nil {
		return nil, cerrors.NewFormatFailed(err)
	}
	return formatted, nil
}

// reset clears the generator state
func (g *Generator) reset() {
	g.buf.Reset()
	g.indent = 0
	g.imports = make(map[string]string)
}

// writeLine writes a formatted line with proper indentation
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}

	for i := 0; i < g.indent; i++ {
		g.buf.WriteString("\t")
	}

	if len(args) > 0 {
		g.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}

func (g *Generator) writeHeader() {
	source := g.opts.SourceFile
	if source == "" {
		source = "routes declaration"
	}
	g.writeLine("// Code generated by routegen from %s. DO NOT EDIT.", source)
	g.writeLine("")
	g.writeLine("package %s", g.opts.Package)
	g.writeLine("")
	g.writeImports()
	g.writeLine("")
}

// writeImports writes the import block sorted by path
func (g *Generator) writeImports() {
	paths := make([]string, 0, len(g.imports))
	for p := range g.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	g.writeLine("import (")
	g.indent++
	for _, p := range paths {
		if alias := g.imports[p]; alias != "" {
			g.writeLine("%s %q", alias, p)
		} else {
			g.writeLine("%q", p)
		}
	}
	g.indent--
	g.writeLine(")")
}

func (g *Generator) writeRoutes(mutator string, entries []string) {
	g.writeLine("// Routes assembles the declared routes and the OpenAPI document route.")
	g.writeLine("func Routes(opts ...apigen.Option) ([]routes.Route, error) {")
	g.indent++
	g.writeLine("return apigen.Assemble(apigen.Declaration{")
	g.indent++
	if mutator != "" {
		g.writeLine("Mutator: %s,", mutator)
	}
	g.writeLine("Routes: []apigen.RouteEntry{")
	g.indent++
	for _, entry := range entries {
		g.writeLine("%s,", entry)
	}
	g.indent--
	g.writeLine("},")
	g.indent--
	g.writeLine("}, %s, openapi.Settings{JSONPath: %s}, opts...)", g.metadataLiteral(), strconv.Quote(g.opts.SpecPath))
	g.indent--
	g.writeLine("}")
}

func (g *Generator) writeMustRoutes() {
	g.writeLine("// MustRoutes is like Routes but panics if assembly fails.")
	g.writeLine("func MustRoutes(opts ...apigen.Option) []routes.Route {")
	g.indent++
	g.writeLine("rs, err := Routes(opts...)")
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("panic(err)")
	g.indent--
	g.writeLine("}")
	g.writeLine("return rs")
	g.indent--
	g.writeLine("}")
}

// metadataLiteral renders the package metadata, omitting empty optional
// fields.
func (g *Generator) metadataLiteral() string {
	m := g.opts.Metadata
	fields := []string{
		"Name: " + strconv.Quote(m.Name),
		"Version: " + strconv.Quote(m.Version),
	}
	if m.Description != "" {
		fields = append(fields, "Description: "+strconv.Quote(m.Description))
	}
	if m.RepositoryURL != "" {
		fields = append(fields, "RepositoryURL: "+strconv.Quote(m.RepositoryURL))
	}
	if m.HomepageURL != "" {
		fields = append(fields, "HomepageURL: "+strconv.Quote(m.HomepageURL))
	}
	return "apigen.Metadata{" + strings.Join(fields, ", ") + "}"
}

func (g *Generator) routeEntry(d naming.Derived) (string, error) {
	route, err := g.expression(d.Route)
	if err != nil {
		return "", err
	}
	companion, err := g.expression(d.Companion)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("{Ref: %s, OperationID: %s, Route: %s, Register: %s}",
		strconv.Quote(d.Route.String()),
		strconv.Quote(d.OperationID),
		route,
		companion,
	), nil
}

// expression renders a path as a Go selector expression and records the
// import its first segment refers to, if any.
func (g *Generator) expression(p *ast.Path) (string, error) {
	for _, seg := range p.Segments {
		if !token.IsIdentifier(seg) {
			return "", cerrors.NewCodeGenFailed(p.Loc,
				fmt.Sprintf("'%s' in %s is not a valid Go identifier", seg, p.String())).
				WithSuggestion("Rename the route or companion so every segment is a Go identifier")
		}
	}

	first := p.Segments[0]
	if declared[first] && (len(p.Segments) == 1 || first == "opts") {
		return "", cerrors.NewReservedIdentifier(p.Loc, first, p.String())
	}
	if _, ok := runtimeImports[first]; ok && len(p.Segments) == 1 {
		return "", cerrors.NewReservedIdentifier(p.Loc, first, p.String())
	}

	if len(p.Segments) > 1 {
		if importPath, ok := g.opts.Imports[p.Segments[0]]; ok {
			g.imports[importPath] = aliasFor(p.Segments[0], importPath)
		}
	}
	return strings.Join(p.Segments, "."), nil
}

func (g *Generator) checkImportAliases() error {
	aliases := make([]string, 0, len(g.opts.Imports))
	for alias := range g.opts.Imports {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		importPath := g.opts.Imports[alias]
		if !token.IsIdentifier(alias) || alias == "_" {
			return cerrors.NewInvalidImportAlias(alias, importPath)
		}
		if _, reserved := runtimeImports[alias]; reserved {
			return cerrors.NewInvalidImportAlias(alias, importPath).
				WithSuggestion(fmt.Sprintf("'%s' is used by generated code; choose another alias", alias))
		}
	}
	return nil
}

// aliasFor returns the explicit alias needed to refer to importPath by name,
// or "" when the path's last element already matches.
func aliasFor(name, importPath string) string {
	if path.Base(importPath) == name {
		return ""
	}
	return name
}
