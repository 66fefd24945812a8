package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"
)

// Parser wraps a tree-sitter grammar and produces parser.Node trees: one
// sitter.Parser per instance, language fixed at construction. Parse does
// NOT reject input on RootNode().HasError() — ERROR/MISSING nodes are
// surfaced as NodeRecovery and lowered around, since tolerating
// partial/unparseable fragments is part of the contract here.
type Parser struct {
	sitter *sitter.Parser
}

// New constructs a Parser configured for the C grammar.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tsc.GetLanguage())
	return &Parser{sitter: p}
}

// Result bundles the parsed root Node with the Resolver used to build it,
// since callers (the function lowerer) need both.
type Result struct {
	Root     *Node
	Resolver Resolver
	HasError bool
}

// Parse parses source text and returns the translation_unit root.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Result, error) {
	tree, err := p.sitter.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parser: tree-sitter parse failed: %w", err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, fmt.Errorf("parser: empty parse tree")
	}

	builder := NewASTBuilder(source)
	root := builder.Build(tree)
	return &Result{
		Root:     root,
		Resolver: builder.resolver,
		HasError: tree.RootNode().HasError(),
	}, nil
}

// Close releases the underlying tree-sitter parser. Safe to call once the
// Parser is no longer needed; a zero-value Parser needs no Close.
func (p *Parser) Close() {
	if p.sitter != nil {
		p.sitter.Close()
	}
}
