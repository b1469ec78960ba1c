package openapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type widget struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

func TestAddOperation_Validation(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		id     string
		nilOp  bool
		errMsg string
	}{
		{name: "nil operation", method: "GET", path: "/a", nilOp: true, errMsg: "operation is nil"},
		{name: "missing id", method: "GET", path: "/a", errMsg: "has no operationId"},
		{name: "bad method", method: "FETCH", path: "/a", id: "a", errMsg: "unsupported method"},
		{name: "relative path", method: "GET", path: "a", id: "a", errMsg: "must start with '/'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(DefaultSettings())
			op := NewOperation(tt.id, "")
			if tt.nilOp {
				op = nil
			}
			err := gen.AddOperation(tt.method, tt.path, op)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, 0, gen.Len())
		})
	}
}

func TestAddOperation_LowercaseMethod(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	require.NoError(t, gen.AddOperation("post", "/things", NewOperation("things_Create", "")))

	doc, err := gen.Finalize()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Value("/things").Post)
}

func TestFinalize_PreservesRegistrationOrder(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	require.NoError(t, gen.AddOperation(http.MethodGet, "/z", NewOperation("z", "")))
	require.NoError(t, gen.AddOperation(http.MethodGet, "/a", NewOperation("a", "")))
	require.NoError(t, gen.AddOperation(http.MethodPost, "/a", NewOperation("m", "")))

	doc, err := gen.Finalize()
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, doc.OperationIDs())
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, 2, doc.Paths.Len())
	assert.NotNil(t, doc.Operation("m"))
	assert.Nil(t, doc.Operation("missing"))
}

func TestAddOperation_CollisionOverwritesInPlace(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	require.NoError(t, gen.AddOperation(http.MethodGet, "/first", NewOperation("dup", "old")))
	require.NoError(t, gen.AddOperation(http.MethodGet, "/other", NewOperation("other", "")))
	require.NoError(t, gen.AddOperation(http.MethodGet, "/second", NewOperation("dup", "new")))

	assert.Equal(t, 2, gen.Len())

	doc, err := gen.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"dup", "other"}, doc.OperationIDs())
	assert.Equal(t, "new", doc.Operation("dup").Summary)
	assert.Nil(t, doc.Paths.Value("/first"))
}

func TestAddOperation_RouteClaimedByAnotherID(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	require.NoError(t, gen.AddOperation(http.MethodGet, "/users", NewOperation("users_list", "")))

	err := gen.AddOperation("get", "/users", NewOperation("users_all", ""))
	require.ErrorIs(t, err, ErrRouteClaimed)
	assert.Contains(t, err.Error(), `GET /users is operation "users_list"`)

	// Another method on the same path is a different route.
	require.NoError(t, gen.AddOperation(http.MethodPost, "/users", NewOperation("users_create", "")))

	doc, err := gen.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"users_list", "users_create"}, doc.OperationIDs())
	for _, id := range doc.OperationIDs() {
		assert.NotNil(t, doc.Operation(id), id)
	}
}

func TestAddOperation_MovedIDReleasesRoute(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	require.NoError(t, gen.AddOperation(http.MethodGet, "/old", NewOperation("a", "")))
	require.NoError(t, gen.AddOperation(http.MethodGet, "/new", NewOperation("a", "")))
	require.NoError(t, gen.AddOperation(http.MethodGet, "/old", NewOperation("b", "")))

	doc, err := gen.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, doc.OperationIDs())
	assert.Same(t, doc.Operation("b"), doc.Paths.Value("/old").Get)
}

func TestFinalize_SingleUse(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	_, err := gen.Finalize()
	require.NoError(t, err)

	_, err = gen.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)
	assert.ErrorIs(t, gen.AddOperation(http.MethodGet, "/x", NewOperation("x", "")), ErrFinalized)
	_, err = gen.SchemaFor(widget{})
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestSchemaFor(t *testing.T) {
	gen := NewGenerator(DefaultSettings())

	ref, err := gen.SchemaFor(&widget{})
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/widget", ref.Ref)
	require.NotNil(t, ref.Value)
	assert.Contains(t, ref.Value.Properties, "id")
	assert.Contains(t, ref.Value.Properties, "size")

	inline, err := gen.SchemaFor([]widget{})
	require.NoError(t, err)
	assert.Empty(t, inline.Ref)
	require.NotNil(t, inline.Value.Items)
	assert.Equal(t, "#/components/schemas/widget", inline.Value.Items.Ref)

	doc, err := gen.Finalize()
	require.NoError(t, err)
	require.NotNil(t, doc.Components)
	assert.Contains(t, doc.Components.Schemas, "widget")
}

type tagged struct {
	ID uuid.UUID `json:"id"`
}

func TestSchemaFor_TextMarshalers(t *testing.T) {
	gen := NewGenerator(DefaultSettings())

	ref, err := gen.SchemaFor(tagged{})
	require.NoError(t, err)

	id := ref.Value.Properties["id"]
	require.NotNil(t, id)
	require.NotNil(t, id.Value)
	assert.True(t, id.Value.Type.Is("string"))
	assert.Equal(t, "uuid", id.Value.Format)
	assert.Nil(t, id.Value.Items)
}

func TestOperationHelpers(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	schema, err := gen.SchemaFor(widget{})
	require.NoError(t, err)

	op := NewOperation("widgets_Create", "Create a widget")
	SetJSONBody(op, "widget to create", schema)
	AddPathParam(op, "shop", "shop identifier")
	AddJSONResponse(op, http.StatusCreated, "created", schema)
	AddJSONResponse(op, http.StatusNoContent, "nothing", nil)
	require.NoError(t, gen.AddOperation(http.MethodPost, "/shops/{shop}/widgets", op))

	doc, err := gen.Finalize()
	require.NoError(t, err)

	got := doc.Operation("widgets_Create")
	require.NotNil(t, got)
	assert.True(t, got.RequestBody.Value.Required)
	require.Len(t, got.Parameters, 1)
	assert.Equal(t, "path", got.Parameters[0].Value.In)
	assert.NotNil(t, got.Responses.Value("201"))
	assert.Empty(t, got.Responses.Value("204").Value.Content)
}

func TestDocumentEncoding(t *testing.T) {
	gen := NewGenerator(DefaultSettings())
	require.NoError(t, gen.AddOperation(http.MethodGet, "/ping", NewOperation("ping", "Ping")))
	doc, err := gen.Finalize()
	require.NoError(t, err)
	doc.Info.Title = "svc"
	doc.Info.Version = "1.0.0"

	jsonData, err := doc.JSON()
	require.NoError(t, err)
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(jsonData, &fromJSON))

	yamlData, err := doc.YAML()
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(yamlData, &fromYAML))

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, "svc", fromJSON["info"].(map[string]any)["title"])

	again, err := doc.JSON()
	require.NoError(t, err)
	assert.Equal(t, jsonData, again)
}

func TestSettings(t *testing.T) {
	assert.Equal(t, "/openapi.json", DefaultSettings().JSONPath)
	assert.NoError(t, DefaultSettings().Validate())
	assert.Error(t, Settings{JSONPath: "openapi.json"}.Validate())
	assert.True(t, Settings{JSONPath: "/docs/api.YAML"}.ServesYAML())
	assert.True(t, IsYAMLPath("/spec.yml"))
	assert.False(t, IsYAMLPath("/spec.json"))
}
