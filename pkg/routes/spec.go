package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/conduit-lang/routegen/pkg/openapi"
)

// SpecRouteName names the route serving the OpenAPI document.
const SpecRouteName = "openapi"

const (
	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
)

// Spec creates a GET route at path serving doc. The document is encoded
// once, so later changes to doc are not visible through the route.
func Spec(doc *openapi.Document, path string) (Route, error) {
	if doc == nil {
		return Route{}, errors.New("spec route: document is nil")
	}

	yamlOut := openapi.IsYAMLPath(path)
	body, err := doc.Encode(yamlOut)
	if err != nil {
		return Route{}, fmt.Errorf("spec route: %w", err)
	}

	contentType := contentTypeJSON
	if yamlOut {
		contentType = contentTypeYAML
	}

	route := Get(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}).Named(SpecRouteName)

	if err := route.Validate(); err != nil {
		return Route{}, fmt.Errorf("spec route: %w", err)
	}
	return route, nil
}
