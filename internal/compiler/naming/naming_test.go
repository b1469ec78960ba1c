package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
)

func path(segments ...string) *ast.Path {
	return &ast.Path{Segments: segments, Loc: ast.SourceLocation{Line: 1, Column: 1}}
}

func TestOperationID(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"handler"}, "handler"},
		{[]string{"a", "b", "c"}, "a_b_c"},
		{[]string{"users", "ListAll"}, "users_ListAll"},
		{[]string{"snake_mod", "get_one"}, "snake_mod_get_one"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OperationID(path(tt.segments...)))
	}
}

func TestCompanionPathReplacesOnlyLastSegment(t *testing.T) {
	original := path("api", "v1", "users", "List")
	companion := CompanionPath(original, DefaultRule)

	require.Len(t, companion.Segments, 4)
	assert.Equal(t, []string{"api", "v1", "users"}, companion.Qualifier())
	assert.Equal(t, "ListOperation", companion.Last())
	assert.Equal(t, original.Loc, companion.Loc)

	// the input is never mutated
	assert.Equal(t, "List", original.Last())
}

func TestCompanionPathSingleSegment(t *testing.T) {
	companion := CompanionPath(path("health"), nil)
	assert.Equal(t, []string{"healthOperation"}, companion.Segments)
}

func TestCompanionPathCustomRule(t *testing.T) {
	rule := func(base string) string { return "okapi_add_operation_for_" + base + "_" }
	companion := CompanionPath(path("users", "list"), rule)
	assert.Equal(t, "users::okapi_add_operation_for_list_", companion.String())
}

func TestAffixRule(t *testing.T) {
	tests := []struct {
		prefix, suffix, base, want string
	}{
		{"", "", "List", "ListOperation"},
		{"", "Spec", "List", "ListSpec"},
		{"add", "", "List", "AddList"},
		{"add", "", "list", "addList"},
		{"Add", "Op", "list", "addListOp"},
		{"register", "", "Ünïcode", "RegisterÜnïcode"},
		{"add", "", "_hidden", "add_hidden"},
	}

	for _, tt := range tests {
		got := AffixRule(tt.prefix, tt.suffix)(tt.base)
		assert.Equal(t, tt.want, got, "prefix=%q suffix=%q base=%q", tt.prefix, tt.suffix, tt.base)
	}
}

func TestRulesAreDeterministic(t *testing.T) {
	rule := AffixRule("add", "Operation")
	for i := 0; i < 3; i++ {
		assert.Equal(t, "AddListOperation", rule("List"))
	}
}

func TestDerive(t *testing.T) {
	routes := []*ast.Path{path("users", "list"), path("users", "create"), path("health")}
	derived := Derive(routes, DefaultRule)

	require.Len(t, derived, 3)
	assert.Equal(t, "users_list", derived[0].OperationID)
	assert.Equal(t, "users::listOperation", derived[0].Companion.String())
	assert.Equal(t, "users_create", derived[1].OperationID)
	assert.Equal(t, "health", derived[2].OperationID)
	assert.Same(t, routes[2], derived[2].Route)
}
