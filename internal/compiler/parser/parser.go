package parser

import (
	"github.com/conduit-lang/routegen/internal/compiler/ast"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/compiler/lexer"
)

// Parser transforms a stream of tokens into a Declaration
type Parser struct {
	tokens  []lexer.Token
	current int
}

// New creates a new parser for the given token stream
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TOKEN_EOF {
		tokens = append(tokens, lexer.Token{Type: lexer.TOKEN_EOF, Line: 1, Column: 1})
	}
	return &Parser{tokens: tokens}
}

// ParseSource lexes and parses a declaration. The returned error, when
// non-nil, is a *errors.CompilerError in the syntax category.
func ParseSource(source string) (*ast.Declaration, error) {
	tokens, lexErrors := lexer.New(source).ScanTokens()
	if len(lexErrors) > 0 {
		return nil, fromLexError(lexErrors[0]).WithSource(source)
	}

	decl, err := New(tokens).Parse()
	if err != nil {
		return nil, err.WithSource(source)
	}
	return decl, nil
}

// Parse parses the declaration:
//
//	declaration    := [ mutator_clause ] route_list
//	mutator_clause := "spec" ":" path ";"
//	route_list     := path { "," path } [ "," ]
//	path           := identifier { "::" identifier }
func (p *Parser) Parse() (*ast.Declaration, *cerrors.CompilerError) {
	decl := &ast.Declaration{
		Routes: make([]*ast.Path, 0),
	}

	if p.atMutatorClause() {
		mutator, err := p.parseMutatorClause()
		if err != nil {
			return nil, err
		}
		decl.Mutator = mutator
	}

	routes, err := p.parseRouteList()
	if err != nil {
		return nil, err
	}
	decl.Routes = routes

	return decl, nil
}

// atMutatorClause reports whether the declaration opens with the spec
// keyword. Only the first token decides; elsewhere spec is a plain segment.
func (p *Parser) atMutatorClause() bool {
	return p.current == 0 && p.peek().IsSpecKeyword()
}

// parseMutatorClause parses: "spec" ":" path ";"
func (p *Parser) parseMutatorClause() (*ast.Path, *cerrors.CompilerError) {
	p.advance() // spec

	if !p.match(lexer.TOKEN_COLON) {
		return nil, expected(p.peek(), lexer.TOKEN_COLON, "spec clause").
			WithSuggestion("A declaration starting with 'spec' must open with 'spec: path;'").
			WithExamples("spec: docs::Customize; users::List")
	}

	path, err := p.parsePath("spec clause")
	if err != nil {
		return nil, err
	}

	if !p.match(lexer.TOKEN_SEMICOLON) {
		return nil, expected(p.peek(), lexer.TOKEN_SEMICOLON, "spec clause").
			WithSuggestion("Terminate the spec clause with ';' before the route list")
	}

	return path, nil
}

// parseRouteList parses: path { "," path } [ "," ]
func (p *Parser) parseRouteList() ([]*ast.Path, *cerrors.CompilerError) {
	if p.isAtEnd() {
		return nil, cerrors.NewEmptyRouteList(ast.TokenLocation(p.peek()))
	}

	routes := make([]*ast.Path, 0)
	for {
		path, err := p.parsePath("route list")
		if err != nil {
			return nil, err
		}
		routes = append(routes, path)

		if p.isAtEnd() {
			break
		}
		if !p.match(lexer.TOKEN_COMMA) {
			return nil, expected(p.peek(), lexer.TOKEN_COMMA, "route list").
				WithSuggestion("Separate routes with ','")
		}
		// One trailing comma is allowed.
		if p.isAtEnd() {
			break
		}
	}

	return routes, nil
}

// parsePath parses: identifier { "::" identifier }
func (p *Parser) parsePath(context string) (*ast.Path, *cerrors.CompilerError) {
	first := p.peek()
	if !p.check(lexer.TOKEN_IDENTIFIER) {
		return nil, unexpected(first, context)
	}
	p.advance()

	path := &ast.Path{
		Segments: []string{first.Lexeme},
		Loc:      ast.TokenLocation(first),
	}

	for p.match(lexer.TOKEN_DOUBLE_COLON) {
		segment := p.peek()
		if !p.check(lexer.TOKEN_IDENTIFIER) {
			return nil, unexpected(segment, context).
				WithSuggestion("A '::' must be followed by another path segment")
		}
		p.advance()
		path.Segments = append(path.Segments, segment.Lexeme)
	}

	return path, nil
}

// Helper methods

// match consumes the current token if it has the given type
func (p *Parser) match(tokenType lexer.TokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

// check tests the current token type without consuming
func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.peek().Type == tokenType
}

// advance consumes the current token and returns it
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// isAtEnd reports whether only EOF remains
func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TOKEN_EOF
}

// peek returns the current token without consuming
func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
