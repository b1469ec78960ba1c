package apigen

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/routegen/pkg/openapi"
	"github.com/conduit-lang/routegen/pkg/routes"
)

func handler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// entry builds a route entry whose companion registers a GET operation at
// the given pattern.
func entry(ref, pattern string) RouteEntry {
	opID := strings.ReplaceAll(ref, "::", "_")
	return RouteEntry{
		Ref:         ref,
		OperationID: opID,
		Route:       routes.Get(pattern, handler),
		Register: func(gen *openapi.Generator, operationID string) error {
			return gen.AddOperation(http.MethodGet, pattern, openapi.NewOperation(operationID, ref))
		},
	}
}

func svcMeta() Metadata {
	return Metadata{Name: "svc", Version: "1.0.0"}
}

func serve(t *testing.T, r routes.Route) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, r.Pattern, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestAssemble_CollectionSize(t *testing.T) {
	for n := 1; n <= 4; n++ {
		decl := Declaration{}
		for i := 0; i < n; i++ {
			name := string(rune('a' + i))
			decl.Routes = append(decl.Routes, entry("h::"+name, "/"+name))
		}

		rs, err := Assemble(decl, svcMeta(), openapi.DefaultSettings())
		require.NoError(t, err)
		require.Len(t, rs, n+1)

		last := rs[len(rs)-1]
		assert.Equal(t, routes.SpecRouteName, last.Name)
		assert.Equal(t, "/openapi.json", last.Pattern)
		for i := 0; i < n; i++ {
			assert.Equal(t, decl.Routes[i].Ref, rs[i].Name)
		}
	}
}

func TestAssemble_Scenario(t *testing.T) {
	calls := 0
	var seen []string
	decl := Declaration{
		Mutator: func(doc *openapi.Document) {
			calls++
			seen = doc.OperationIDs()
		},
		Routes: []RouteEntry{
			entry("users::list", "/users"),
			entry("users::create", "/users/new"),
		},
	}

	rs, err := Assemble(decl, svcMeta(), openapi.DefaultSettings())
	require.NoError(t, err)
	assert.Len(t, rs, 3)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"users_list", "users_create"}, seen)

	payload := serve(t, rs[2])
	info := payload["info"].(map[string]any)
	assert.Equal(t, "svc", info["title"])
	assert.Equal(t, "1.0.0", info["version"])
	assert.NotContains(t, info, "description")
	assert.NotContains(t, info, "contact")
}

func TestAssemble_RegistrationOrder(t *testing.T) {
	decl := Declaration{Routes: []RouteEntry{
		entry("z::last", "/z"),
		entry("a::first", "/a"),
		entry("m", "/m"),
	}}

	doc, err := Document(decl, svcMeta(), openapi.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, []string{"z_last", "a_first", "m"}, doc.OperationIDs())
}

func TestAssemble_MutatorSeesAssembledDocument(t *testing.T) {
	meta := svcMeta()
	meta.Description = "things"

	decl := Declaration{
		Mutator: func(doc *openapi.Document) {
			require.NotNil(t, doc.Info)
			assert.Equal(t, "svc", doc.Info.Title)
			assert.Equal(t, "things", doc.Info.Description)
			require.NotNil(t, doc.Operation("pets_List"))
			require.NotNil(t, doc.Operation("pets_Show"))

			doc.Info.Title = "Pet Store"
			doc.Operation("pets_Show").Summary = "Show one pet"
		},
		Routes: []RouteEntry{
			entry("pets::List", "/pets"),
			entry("pets::Show", "/pets/{id}"),
		},
	}

	rs, err := Assemble(decl, meta, openapi.DefaultSettings())
	require.NoError(t, err)

	payload := serve(t, rs[len(rs)-1])
	assert.Equal(t, "Pet Store", payload["info"].(map[string]any)["title"])

	paths := payload["paths"].(map[string]any)
	show := paths["/pets/{id}"].(map[string]any)["get"].(map[string]any)
	assert.Equal(t, "Show one pet", show["summary"])
}

func TestMetadata_Contact(t *testing.T) {
	tests := []struct {
		name       string
		repository string
		homepage   string
		wantName   string
		wantURL    string
	}{
		{name: "none"},
		{name: "repository only", repository: "https://repo", wantName: "Repository", wantURL: "https://repo"},
		{name: "homepage only", homepage: "https://home", wantName: "Homepage", wantURL: "https://home"},
		{name: "homepage wins", repository: "https://repo", homepage: "https://home", wantName: "Homepage", wantURL: "https://home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := svcMeta()
			meta.RepositoryURL = tt.repository
			meta.HomepageURL = tt.homepage

			info := meta.Info()
			if tt.wantName == "" {
				assert.Nil(t, info.Contact)
				return
			}
			require.NotNil(t, info.Contact)
			assert.Equal(t, tt.wantName, info.Contact.Name)
			assert.Equal(t, tt.wantURL, info.Contact.URL)
		})
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	build := func() []byte {
		meta := svcMeta()
		meta.RepositoryURL = "https://repo"
		decl := Declaration{Routes: []RouteEntry{entry("a::b::c", "/c"), entry("handler", "/h")}}
		rs, err := Assemble(decl, meta, openapi.DefaultSettings())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		rs[len(rs)-1].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
		return rec.Body.Bytes()
	}

	assert.Equal(t, build(), build())
}

func TestAssemble_ConfigurationError(t *testing.T) {
	tests := []struct {
		name  string
		meta  Metadata
		field string
	}{
		{"missing name", Metadata{Version: "1.0.0"}, "name"},
		{"missing version", Metadata{Name: "svc"}, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(Declaration{Routes: []RouteEntry{entry("a", "/a")}}, tt.meta, openapi.DefaultSettings())
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestAssemble_RegistrationErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	laterCalled := false
	mutated := false

	failing := entry("pets::Broken", "/broken")
	failing.Register = func(gen *openapi.Generator, operationID string) error { return boom }
	later := entry("pets::Later", "/later")
	later.Register = func(gen *openapi.Generator, operationID string) error {
		laterCalled = true
		return nil
	}

	decl := Declaration{
		Mutator: func(doc *openapi.Document) { mutated = true },
		Routes:  []RouteEntry{entry("pets::List", "/pets"), failing, later},
	}

	rs, err := Assemble(decl, svcMeta(), openapi.DefaultSettings())
	assert.Nil(t, rs)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "pets::Broken", regErr.Ref)
	assert.Equal(t, "pets_Broken", regErr.OperationID)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pets::Broken")
	assert.False(t, laterCalled)
	assert.False(t, mutated)
}

func TestAssemble_MissingCompanion(t *testing.T) {
	e := entry("pets::List", "/pets")
	e.Register = nil

	_, err := Assemble(Declaration{Routes: []RouteEntry{e}}, svcMeta(), openapi.DefaultSettings())
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Contains(t, err.Error(), "no companion registration function")
}

func TestAssemble_CompanionFragmentInvalid(t *testing.T) {
	e := entry("pets::List", "/pets")
	e.Register = func(gen *openapi.Generator, operationID string) error {
		return gen.AddOperation(http.MethodGet, "pets", openapi.NewOperation(operationID, ""))
	}

	_, err := Assemble(Declaration{Routes: []RouteEntry{e}}, svcMeta(), openapi.DefaultSettings())
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "pets::List", regErr.Ref)
}

func TestAssemble_SharedRouteDifferentIDs(t *testing.T) {
	decl := Declaration{Routes: []RouteEntry{
		entry("users::list", "/users"),
		entry("users::all", "/users"),
	}}

	rs, err := Assemble(decl, svcMeta(), openapi.DefaultSettings())
	assert.Nil(t, rs)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "users::all", regErr.Ref)
	assert.ErrorIs(t, err, openapi.ErrRouteClaimed)
}

func TestAssemble_InvalidRouteBinding(t *testing.T) {
	e := entry("pets::List", "/pets")
	e.Route = routes.Route{}

	_, err := Assemble(Declaration{Routes: []RouteEntry{e}}, svcMeta(), openapi.DefaultSettings())
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "pets::List", regErr.Ref)
}

func TestAssemble_EmptyDeclaration(t *testing.T) {
	rs, err := Assemble(Declaration{}, svcMeta(), openapi.DefaultSettings())
	assert.Error(t, err)
	assert.Nil(t, rs)
}

func TestAssemble_YAMLSpecPath(t *testing.T) {
	rs, err := Assemble(Declaration{Routes: []RouteEntry{entry("a", "/a")}}, svcMeta(), openapi.Settings{JSONPath: "/spec.yaml"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	rs[1].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/spec.yaml", nil))
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "title: svc")
}

func TestAssemble_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := Assemble(Declaration{Routes: []RouteEntry{entry("a", "/a")}}, svcMeta(), openapi.DefaultSettings(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("registered operation").Len())
	assert.Equal(t, 1, logs.FilterMessage("assembled routes").Len())
}
