// Package apigen assembles declared routes and their OpenAPI operations into
// the route collection returned by generated Routes functions.
package apigen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/routegen/pkg/openapi"
	"github.com/conduit-lang/routegen/pkg/routes"
)

// RegisterFunc contributes the operation for one route to gen.
type RegisterFunc func(gen *openapi.Generator, operationID string) error

// MutatorFunc edits the assembled document before it is served.
type MutatorFunc func(doc *openapi.Document)

// RouteEntry is one declared route with its derived names.
type RouteEntry struct {
	Ref         string // users::List
	OperationID string // users_List
	Route       routes.Route
	Register    RegisterFunc
}

// Declaration is the parsed declaration in runtime form.
type Declaration struct {
	Mutator MutatorFunc
	Routes  []RouteEntry
}

type options struct {
	logger *zap.Logger
}

// Option configures Assemble.
type Option func(*options)

// WithLogger logs each assembly step at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Assemble registers every operation in declaration order, builds the
// document, applies the mutator and returns the declared routes followed by
// the route serving the document. The first failure aborts assembly.
func Assemble(decl Declaration, meta Metadata, settings openapi.Settings, opts ...Option) ([]routes.Route, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	if err := meta.Validate(); err != nil {
		return nil, err
	}
	if len(decl.Routes) == 0 {
		return nil, errors.New("apigen: at least one route required")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	doc, err := Document(decl, meta, settings, opts...)
	if err != nil {
		return nil, err
	}

	collection := make([]routes.Route, 0, len(decl.Routes)+1)
	for _, entry := range decl.Routes {
		bound, err := routes.Bind(entry.Ref, entry.Route)
		if err != nil {
			return nil, &RegistrationError{Ref: entry.Ref, OperationID: entry.OperationID, Err: err}
		}
		collection = append(collection, bound)
	}

	specRoute, err := routes.Spec(doc, settings.JSONPath)
	if err != nil {
		return nil, fmt.Errorf("apigen: %w", err)
	}
	collection = append(collection, specRoute)

	log.Debug("assembled routes",
		zap.Int("routes", len(collection)),
		zap.String("spec_path", settings.JSONPath))
	return collection, nil
}

// Document runs the registration, metadata and mutator steps and returns
// the finished document without building routes.
func Document(decl Declaration, meta Metadata, settings openapi.Settings, opts ...Option) (*openapi.Document, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	if err := meta.Validate(); err != nil {
		return nil, err
	}

	gen := openapi.NewGenerator(settings)
	for _, entry := range decl.Routes {
		if entry.Register == nil {
			return nil, &RegistrationError{
				Ref:         entry.Ref,
				OperationID: entry.OperationID,
				Err:         errors.New("no companion registration function"),
			}
		}
		if err := entry.Register(gen, entry.OperationID); err != nil {
			return nil, &RegistrationError{Ref: entry.Ref, OperationID: entry.OperationID, Err: err}
		}
		log.Debug("registered operation",
			zap.String("route", entry.Ref),
			zap.String("operation_id", entry.OperationID))
	}

	doc, err := gen.Finalize()
	if err != nil {
		return nil, fmt.Errorf("apigen: %w", err)
	}
	doc.Info = meta.Info()

	if decl.Mutator != nil {
		log.Debug("applying document mutator")
		decl.Mutator(doc)
	}
	return doc, nil
}
