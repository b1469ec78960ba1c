// Package openapi accumulates OpenAPI operations contributed by route
// companion functions and finalizes them into a Document.
//
// A Generator is single-use: companions call AddOperation while routes are
// assembled, then Finalize is called exactly once.
package openapi

import (
	"encoding"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// Version is the OpenAPI version written into every document.
const Version = "3.0.3"

// SchemaPrefix is the JSON pointer prefix for component schemas.
const SchemaPrefix = "#/components/schemas/"

// ErrFinalized is returned when a Generator is used after Finalize.
var ErrFinalized = errors.New("openapi: generator already finalized")

// ErrRouteClaimed is returned when an operation targets a method and path
// already registered under a different operation id.
var ErrRouteClaimed = errors.New("openapi: method and path already registered")

var textMarshaler = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// Generator collects operations in registration order.
type Generator struct {
	settings  Settings
	entries   []operationEntry
	byID      map[string]int
	byRoute   map[string]string // "METHOD path" -> operation id
	schemas   openapi3.Schemas
	finalized bool
}

type operationEntry struct {
	id     string
	method string
	path   string
	op     *openapi3.Operation
}

// NewGenerator creates an empty generator.
func NewGenerator(settings Settings) *Generator {
	return &Generator{
		settings: settings,
		entries:  make([]operationEntry, 0),
		byID:     make(map[string]int),
		byRoute:  make(map[string]string),
		schemas:  make(openapi3.Schemas),
	}
}

// Settings returns the settings the generator was created with.
func (g *Generator) Settings() Settings {
	return g.settings
}

// AddOperation registers op under method and path. The operation must carry
// a non-empty OperationID. Registering an id twice replaces the earlier
// operation but keeps its original position. A method and path belong to
// one operation id; a different id claiming them fails with ErrRouteClaimed.
func (g *Generator) AddOperation(method, path string, op *openapi3.Operation) error {
	if g.finalized {
		return ErrFinalized
	}
	if op == nil {
		return errors.New("openapi: operation is nil")
	}
	if op.OperationID == "" {
		return fmt.Errorf("openapi: operation for %s %s has no operationId", method, path)
	}

	method = strings.ToUpper(method)
	if !validMethods[method] {
		return fmt.Errorf("openapi: operation %q has unsupported method %q", op.OperationID, method)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("openapi: operation %q path %q must start with '/'", op.OperationID, path)
	}

	key := method + " " + path
	if owner, ok := g.byRoute[key]; ok && owner != op.OperationID {
		return fmt.Errorf("%w: %s is operation %q, not %q", ErrRouteClaimed, key, owner, op.OperationID)
	}

	entry := operationEntry{id: op.OperationID, method: method, path: path, op: op}
	if idx, ok := g.byID[entry.id]; ok {
		old := g.entries[idx]
		delete(g.byRoute, old.method+" "+old.path)
		g.entries[idx] = entry
	} else {
		g.byID[entry.id] = len(g.entries)
		g.entries = append(g.entries, entry)
	}
	g.byRoute[key] = entry.id
	return nil
}

// Len returns the number of distinct operations registered so far.
func (g *Generator) Len() int {
	return len(g.entries)
}

// SchemaFor reflects v's Go type into a schema. Named types are stored under
// components/schemas and returned as a reference; unnamed types are inline,
// with any struct they contain stored as a component.
func (g *Generator) SchemaFor(v any) (*openapi3.SchemaRef, error) {
	if g.finalized {
		return nil, ErrFinalized
	}

	ref, err := openapi3gen.NewSchemaRefForValue(v, g.schemas, openapi3gen.SchemaCustomizer(textSchema))
	if err != nil {
		return nil, fmt.Errorf("openapi: reflect schema for %T: %w", v, err)
	}

	name := schemaName(reflect.TypeOf(v))
	if name == "" {
		return ref, nil
	}
	g.schemas[name] = openapi3.NewSchemaRef("", ref.Value)
	return openapi3.NewSchemaRef(SchemaPrefix+name, ref.Value), nil
}

// Finalize produces the document. It may be called once; the generator is
// unusable afterwards.
func (g *Generator) Finalize() (*Document, error) {
	if g.finalized {
		return nil, ErrFinalized
	}
	g.finalized = true

	spec := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{},
		Paths:   openapi3.NewPaths(),
	}
	if len(g.schemas) > 0 {
		spec.Components = &openapi3.Components{Schemas: g.schemas}
	}

	order := make([]string, 0, len(g.entries))
	for _, e := range g.entries {
		item := spec.Paths.Value(e.path)
		if item == nil {
			item = &openapi3.PathItem{}
			spec.Paths.Set(e.path, item)
		}
		item.SetOperation(e.method, e.op)
		order = append(order, e.id)
	}

	return &Document{T: spec, order: order}, nil
}

// textSchema describes non-struct types that marshal to text, such as
// uuid.UUID, as strings instead of their Go representation.
func textSchema(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	if t.Kind() == reflect.Struct || !t.Implements(textMarshaler) {
		return nil
	}
	schema.Type = &openapi3.Types{openapi3.TypeString}
	schema.Items = nil
	schema.MinItems = 0
	schema.MaxItems = nil
	schema.Format = ""
	if strings.EqualFold(t.Name(), "uuid") {
		schema.Format = "uuid"
	}
	return nil
}

// schemaName returns the component name for t, or "" for unnamed types.
func schemaName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return ""
	}
	return t.Name()
}
