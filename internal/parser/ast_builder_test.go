package parser

import (
	"context"
	"testing"
)

func parse(t *testing.T, src string) (*Node, Resolver) {
	t.Helper()
	p := New()
	defer p.Close()
	res, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return res.Root, res.Resolver
}

func firstFunc(t *testing.T, root *Node, resolver Resolver) *Node {
	t.Helper()
	b := NewASTBuilderWithResolver(resolver)
	defs := b.FunctionDefs(root)
	if len(defs) == 0 {
		t.Fatal("expected at least one function definition")
	}
	return defs[0]
}

func TestBuildIfElse(t *testing.T) {
	root, resolver := parse(t, `int f(int x) {
    if (x) {
        return 1;
    } else {
        return 2;
    }
}
`)
	fn := firstFunc(t, root, resolver)
	ifNode := fn.Body.Stmts[0]
	if ifNode.Type != NodeIf {
		t.Fatalf("expected an if statement, got %s", ifNode.Type)
	}
	if ifNode.Cond == nil || ifNode.Cond.Type != NodeIdentifier {
		t.Fatalf("expected the condition to be a bare identifier, got %+v", ifNode.Cond)
	}
	if ifNode.Then == nil || ifNode.Then.Type != NodeCompound {
		t.Fatal("expected a compound then-branch")
	}
	if ifNode.Else == nil || ifNode.Else.Type != NodeCompound {
		t.Fatal("expected a compound else-branch")
	}
}

func TestBuildWhileLoop(t *testing.T) {
	root, resolver := parse(t, `void f(int x) {
    while (x) {
        x = x - 1;
    }
}
`)
	fn := firstFunc(t, root, resolver)
	whileNode := fn.Body.Stmts[0]
	if whileNode.Type != NodeWhile {
		t.Fatalf("expected a while statement, got %s", whileNode.Type)
	}
	if whileNode.Cond.Type != NodeIdentifier {
		t.Fatalf("expected condition identifier, got %s", whileNode.Cond.Type)
	}
	if whileNode.Body.Type != NodeCompound {
		t.Fatal("expected a compound body")
	}
}

func TestBuildForLoop(t *testing.T) {
	root, resolver := parse(t, `void f(void) {
    for (int i = 0; i < 10; i = i + 1) {
    }
}
`)
	fn := firstFunc(t, root, resolver)
	forNode := fn.Body.Stmts[0]
	if forNode.Type != NodeFor {
		t.Fatalf("expected a for statement, got %s", forNode.Type)
	}
	if forNode.Init == nil || forNode.Init.Type != NodeDeclStmt {
		t.Fatalf("expected a declaration initializer, got %+v", forNode.Init)
	}
	if forNode.Cond == nil {
		t.Fatal("expected a condition")
	}
	if forNode.Update == nil {
		t.Fatal("expected an update expression")
	}
}

func TestBuildDeclarationWithInitializer(t *testing.T) {
	root, resolver := parse(t, `void f(void) {
    int a = 1, b;
}
`)
	fn := firstFunc(t, root, resolver)
	decl := fn.Body.Stmts[0]
	if decl.Type != NodeDeclStmt {
		t.Fatalf("expected a declaration statement, got %s", decl.Type)
	}
	if len(decl.Stmts) != 2 {
		t.Fatalf("expected 2 declared variables, got %d", len(decl.Stmts))
	}
	if decl.Stmts[0].Name != "a" || decl.Stmts[0].Init == nil {
		t.Errorf("expected a to have an initializer, got %+v", decl.Stmts[0])
	}
	if decl.Stmts[1].Name != "b" || decl.Stmts[1].Init != nil {
		t.Errorf("expected b to have no initializer, got %+v", decl.Stmts[1])
	}
}

func TestBuildCallExpression(t *testing.T) {
	root, resolver := parse(t, `int f(int x) {
    return g(x, 1);
}
`)
	fn := firstFunc(t, root, resolver)
	ret := fn.Body.Stmts[0]
	if ret.Type != NodeReturn {
		t.Fatalf("expected a return statement, got %s", ret.Type)
	}
	call := ret.Operand
	if call == nil || call.Type != NodeCall {
		t.Fatalf("expected a call expression, got %+v", call)
	}
	if call.Callee == nil || call.Callee.Name != "g" {
		t.Fatalf("expected callee g, got %+v", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Args))
	}
}

func TestBuildGotoAndLabel(t *testing.T) {
	root, resolver := parse(t, `void f(void) {
    goto done;
done:
    return;
}
`)
	fn := firstFunc(t, root, resolver)
	gotoNode := fn.Body.Stmts[0]
	if gotoNode.Type != NodeGoto {
		t.Fatalf("expected a goto statement, got %s", gotoNode.Type)
	}
	if gotoNode.Label != "done" {
		t.Errorf("expected label done, got %s", gotoNode.Label)
	}

	labelNode := fn.Body.Stmts[1]
	if labelNode.Type != NodeLabel {
		t.Fatalf("expected a labeled statement, got %s", labelNode.Type)
	}
	if labelNode.Label != "done" {
		t.Errorf("expected label done, got %s", labelNode.Label)
	}
	if labelNode.Sub == nil || labelNode.Sub.Type != NodeReturn {
		t.Fatalf("expected the label's substatement to be a return, got %+v", labelNode.Sub)
	}
}

func TestBuildSwitchIsRecordedButNotExpanded(t *testing.T) {
	root, resolver := parse(t, `void f(int x) {
    switch (x) {
    case 1:
        break;
    }
}
`)
	fn := firstFunc(t, root, resolver)
	sw := fn.Body.Stmts[0]
	if sw.Type != NodeSwitch {
		t.Fatalf("expected a switch statement, got %s", sw.Type)
	}
	if sw.Text == "" {
		t.Error("expected the switch's source text to be preserved for diagnostics")
	}
}

func TestBuildAssignmentVsCompoundAssignment(t *testing.T) {
	root, resolver := parse(t, `void f(int x) {
    x = 1;
    x += 2;
}
`)
	fn := firstFunc(t, root, resolver)
	plainAssign := fn.Body.Stmts[0].Operand
	if plainAssign.Type != NodeAssignment {
		t.Fatalf("expected a plain assignment, got %s", plainAssign.Type)
	}
	compoundAssign := fn.Body.Stmts[1].Operand
	if compoundAssign.Type != NodeCompoundAssign {
		t.Fatalf("expected a compound assignment, got %s", compoundAssign.Type)
	}
	if compoundAssign.Op != "+=" {
		t.Errorf("expected operator +=, got %s", compoundAssign.Op)
	}
}

func TestResolverReturnsSourceSlice(t *testing.T) {
	r := newSourceResolver([]byte("int x = 42;"))
	got := r.Resolve(Range{StartByte: 4, EndByte: 5})
	if got != "x" {
		t.Errorf("expected resolved text 'x', got %q", got)
	}
}
