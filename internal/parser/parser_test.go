package parser

import (
	"context"
	"testing"
)

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.sitter == nil {
		t.Fatal("sitter field is nil")
	}
	p.Close()
}

func TestParseSimpleFunction(t *testing.T) {
	p := New()
	defer p.Close()

	src := `int add(int a, int b) {
    return a + b;
}
`
	res, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Root == nil {
		t.Fatal("expected a non-nil root node")
	}
	if res.Root.Type != NodeTranslationUnit {
		t.Errorf("expected root type %s, got %s", NodeTranslationUnit, res.Root.Type)
	}
	if res.HasError {
		t.Error("expected well-formed source to report HasError=false")
	}

	builder := NewASTBuilderWithResolver(res.Resolver)
	defs := builder.FunctionDefs(res.Root)
	if len(defs) != 1 {
		t.Fatalf("expected 1 function definition, got %d", len(defs))
	}
	if defs[0].Name != "add" {
		t.Errorf("expected function name add, got %s", defs[0].Name)
	}
	if len(defs[0].Params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(defs[0].Params))
	}
}

func TestParseToleratesSyntaxErrors(t *testing.T) {
	p := New()
	defer p.Close()

	src := `int broken( {
    return
}
`
	res, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse should tolerate malformed input, got error: %v", err)
	}
	if !res.HasError {
		t.Error("expected malformed source to report HasError=true")
	}
}

func TestParseEmptySource(t *testing.T) {
	p := New()
	defer p.Close()

	res, err := p.Parse(context.Background(), []byte(""))
	if err != nil {
		t.Fatalf("Parse of empty source failed: %v", err)
	}
	if res.Root == nil {
		t.Fatal("expected a root node even for empty source")
	}
	if len(res.Root.Stmts) != 0 {
		t.Errorf("expected no top-level statements, got %d", len(res.Root.Stmts))
	}
}

func TestFunctionDefsIgnoresNonFunctionTopLevel(t *testing.T) {
	p := New()
	defer p.Close()

	src := `int g;

int main(void) {
    return 0;
}
`
	res, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	builder := NewASTBuilderWithResolver(res.Resolver)
	defs := builder.FunctionDefs(res.Root)
	if len(defs) != 1 {
		t.Fatalf("expected only the function definition, got %d", len(defs))
	}
	if defs[0].Name != "main" {
		t.Errorf("expected function name main, got %s", defs[0].Name)
	}
}
