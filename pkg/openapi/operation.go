package openapi

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

// NewOperation returns an operation with the given id and summary and an
// empty response set.
func NewOperation(operationID, summary string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: operationID,
		Summary:     summary,
		Responses:   &openapi3.Responses{},
	}
}

// AddJSONResponse attaches a JSON response for status. A nil schema produces
// a response without content.
func AddJSONResponse(op *openapi3.Operation, status int, description string, schema *openapi3.SchemaRef) {
	resp := openapi3.NewResponse().WithDescription(description)
	if schema != nil {
		resp = resp.WithJSONSchemaRef(schema)
	}
	if op.Responses == nil {
		op.Responses = &openapi3.Responses{}
	}
	op.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{Value: resp})
}

// SetJSONBody sets a required JSON request body.
func SetJSONBody(op *openapi3.Operation, description string, schema *openapi3.SchemaRef) {
	body := openapi3.NewRequestBody().
		WithDescription(description).
		WithRequired(true).
		WithJSONSchemaRef(schema)
	op.RequestBody = &openapi3.RequestBodyRef{Value: body}
}

// AddPathParam declares a required string path parameter.
func AddPathParam(op *openapi3.Operation, name, description string) {
	param := openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())
	param.Description = description
	op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
}

// AddQueryParam declares an optional query parameter with the given schema.
func AddQueryParam(op *openapi3.Operation, name, description string, schema *openapi3.Schema) {
	param := openapi3.NewQueryParameter(name).WithSchema(schema)
	param.Description = description
	op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
}
