// Package naming derives the identifiers routegen attaches to every route:
// the operation id used as the OpenAPI key, and the companion function that
// registers the route's operation.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
)

// OperationSeparator joins path segments in an operation id.
const OperationSeparator = "_"

// DefaultSuffix is appended to a route's base name by DefaultRule.
const DefaultSuffix = "Operation"

// Rule maps a route's base name to the name of its companion registration
// function. Rules must be pure and total over valid identifiers.
type Rule func(base string) string

// DefaultRule appends DefaultSuffix, so ListPets pairs with ListPetsOperation.
func DefaultRule(base string) string {
	return base + DefaultSuffix
}

// AffixRule builds a rule that wraps the base name. With a prefix, the base is
// capitalised and the prefix takes the base's original export case, so the
// companion keeps the route's Go visibility:
//
//	AffixRule("add", "")("List") == "AddList"
//	AffixRule("add", "")("list") == "addList"
func AffixRule(prefix, suffix string) Rule {
	if prefix == "" && suffix == "" {
		return DefaultRule
	}
	return func(base string) string {
		if prefix == "" {
			return base + suffix
		}
		exported := isUpperStart(base)
		return matchCase(prefix, exported) + capitalize(base) + suffix
	}
}

// OperationID joins every segment with an underscore, without truncation or
// case changes: a::b::c becomes a_b_c.
func OperationID(path *ast.Path) string {
	return strings.Join(path.Segments, OperationSeparator)
}

// CompanionPath returns a copy of path whose final segment is replaced by
// rule(final). The qualifier segments are left untouched.
func CompanionPath(path *ast.Path, rule Rule) *ast.Path {
	if rule == nil {
		rule = DefaultRule
	}
	companion := path.Clone()
	if n := len(companion.Segments); n > 0 {
		companion.Segments[n-1] = rule(companion.Segments[n-1])
	}
	return companion
}

// Derived bundles everything derived from one route path.
type Derived struct {
	Route       *ast.Path
	Companion   *ast.Path
	OperationID string
}

// Derive computes the companion path and operation id for every route, in
// declaration order.
func Derive(routes []*ast.Path, rule Rule) []Derived {
	out := make([]Derived, 0, len(routes))
	for _, route := range routes {
		out = append(out, Derived{
			Route:       route,
			Companion:   CompanionPath(route, rule),
			OperationID: OperationID(route),
		})
	}
	return out
}

func isUpperStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func matchCase(s string, upper bool) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	if upper {
		return string(unicode.ToUpper(r)) + s[size:]
	}
	return string(unicode.ToLower(r)) + s[size:]
}
