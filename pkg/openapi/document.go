package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Document is an assembled OpenAPI document. It embeds the kin-openapi model
// so mutators can edit Info, Paths and Components directly.
type Document struct {
	*openapi3.T
	order []string
}

// OperationIDs returns operation ids in registration order.
func (d *Document) OperationIDs() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Operation finds the operation with the given id, or nil.
func (d *Document) Operation(id string) *openapi3.Operation {
	if d.Paths == nil {
		return nil
	}
	for _, item := range d.Paths.Map() {
		for _, op := range item.Operations() {
			if op.OperationID == id {
				return op
			}
		}
	}
	return nil
}

// MarshalJSON encodes the underlying OpenAPI model.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.T.MarshalJSON()
}

// JSON returns the indented JSON encoding.
func (d *Document) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(d.T, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}
	return data, nil
}

// YAML returns the YAML encoding, with keys in the same order as JSON.
func (d *Document) YAML() ([]byte, error) {
	data, err := d.T.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("openapi: convert to yaml: %w", err)
	}
	plain(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode yaml: %w", err)
	}
	return out, nil
}

// Encode returns YAML when yamlOut is set and JSON otherwise.
func (d *Document) Encode(yamlOut bool) ([]byte, error) {
	if yamlOut {
		return d.YAML()
	}
	return d.JSON()
}

// plain drops the JSON quoting and flow styles so the encoder picks YAML
// defaults. Tags are kept, so strings like "3.0.3" stay quoted.
func plain(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		plain(child)
	}
}
