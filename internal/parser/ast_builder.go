package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder converts a tree-sitter C parse tree into the internal AST
// representation (Node).
type ASTBuilder struct {
	resolver Resolver
}

// NewASTBuilder creates a builder that resolves text against source.
func NewASTBuilder(source []byte) *ASTBuilder {
	return &ASTBuilder{resolver: newSourceResolver(source)}
}

// NewASTBuilderWithResolver creates a builder using a caller-supplied
// Resolver, letting tests substitute deterministic text without a real
// parse.
func NewASTBuilderWithResolver(r Resolver) *ASTBuilder {
	return &ASTBuilder{resolver: r}
}

// Build converts a tree-sitter tree's root node into a Node.
func (b *ASTBuilder) Build(tree *sitter.Tree) *Node {
	if tree == nil {
		return nil
	}
	return b.buildNode(tree.RootNode())
}

// FunctionDefs returns every function_definition at the top level of a
// translation_unit, matching spec.md §6's "top-level function declarations".
func (b *ASTBuilder) FunctionDefs(root *Node) []*Node {
	if root == nil {
		return nil
	}
	var out []*Node
	for _, stmt := range root.Stmts {
		if stmt.Type == NodeFunctionDef {
			out = append(out, stmt)
		}
	}
	return out
}

func (b *ASTBuilder) rangeOf(ts *sitter.Node) Range {
	start := ts.StartPoint()
	end := ts.EndPoint()
	return Range{
		StartByte: ts.StartByte(),
		EndByte:   ts.EndByte(),
		Begin:     Location{StartLine: int(start.Row) + 1, StartCol: int(start.Column)},
		End:       Location{EndLine: int(end.Row) + 1, EndCol: int(end.Column)},
	}
}

func (b *ASTBuilder) textOf(ts *sitter.Node) string {
	return b.resolver.Resolve(b.rangeOf(ts))
}

func (b *ASTBuilder) locOf(ts *sitter.Node) Location {
	r := b.rangeOf(ts)
	return Location{
		StartLine: r.Begin.StartLine,
		StartCol:  r.Begin.StartCol,
		EndLine:   r.End.EndLine,
		EndCol:    r.End.EndCol,
	}
}

// buildNode dispatches on tree-sitter node type. Unknown/irrelevant grammar
// nodes (storage specifiers, punctuation, comments, ...) fall through to
// buildOther, which records the text and keeps the named children in Stmts.
func (b *ASTBuilder) buildNode(ts *sitter.Node) *Node {
	if ts == nil {
		return nil
	}
	if ts.IsError() || ts.IsMissing() {
		return &Node{Type: NodeRecovery, Text: b.textOf(ts), Location: b.locOf(ts)}
	}

	switch ts.Type() {
	case "translation_unit":
		return b.buildTranslationUnit(ts)
	case "function_definition":
		return b.buildFunctionDef(ts)
	case "compound_statement":
		return b.buildCompound(ts)
	case "declaration":
		return b.buildDeclStmt(ts)
	case "expression_statement":
		return b.buildExprStmt(ts)
	case "return_statement":
		return b.buildReturn(ts)
	case "if_statement":
		return b.buildIf(ts)
	case "while_statement":
		return b.buildWhile(ts)
	case "do_statement":
		return b.buildDoWhile(ts)
	case "for_statement":
		return b.buildFor(ts)
	case "break_statement":
		return &Node{Type: NodeBreak, Text: b.textOf(ts), Location: b.locOf(ts)}
	case "continue_statement":
		return &Node{Type: NodeContinue, Text: b.textOf(ts), Location: b.locOf(ts)}
	case "labeled_statement":
		return b.buildLabel(ts)
	case "goto_statement":
		return b.buildGoto(ts)
	case "switch_statement":
		return &Node{Type: NodeSwitch, Text: b.textOf(ts), Location: b.locOf(ts)}
	case "identifier":
		return &Node{Type: NodeIdentifier, Name: b.textOf(ts), Text: b.textOf(ts), Location: b.locOf(ts)}
	case "call_expression":
		return b.buildCall(ts)
	case "assignment_expression":
		return b.buildAssignment(ts)
	case "binary_expression":
		return b.buildBinary(ts)
	case "unary_expression":
		return b.buildUnary(ts, NodeUnary)
	case "update_expression":
		return b.buildUnary(ts, NodeUpdate)
	case "subscript_expression":
		return b.buildSubscript(ts)
	case "parenthesized_expression":
		return b.buildParen(ts)
	case "cast_expression":
		return b.buildCast(ts)
	case "number_literal":
		return &Node{Type: NodeNumberLit, Text: b.textOf(ts), Location: b.locOf(ts)}
	case "string_literal":
		return &Node{Type: NodeStringLit, Text: b.textOf(ts), Location: b.locOf(ts)}
	case "char_literal":
		return &Node{Type: NodeCharLit, Text: b.textOf(ts), Location: b.locOf(ts)}
	default:
		return b.buildOther(ts)
	}
}

func (b *ASTBuilder) buildTranslationUnit(ts *sitter.Node) *Node {
	n := &Node{Type: NodeTranslationUnit, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Stmts = b.childNodes(ts)
	return n
}

func (b *ASTBuilder) buildFunctionDef(ts *sitter.Node) *Node {
	n := &Node{Type: NodeFunctionDef, Text: b.textOf(ts), Location: b.locOf(ts)}
	if decl := ts.ChildByFieldName("declarator"); decl != nil {
		n.Name = b.functionName(decl)
		n.Params = b.functionParams(decl)
	}
	n.Body = b.buildNode(ts.ChildByFieldName("body"))
	return n
}

// functionName digs through the declarator chain (function_declarator wraps
// pointer_declarator wraps identifier, etc.) to find the declared name.
func (b *ASTBuilder) functionName(ts *sitter.Node) string {
	if ts == nil {
		return ""
	}
	if ts.Type() == "identifier" {
		return b.textOf(ts)
	}
	if name := ts.ChildByFieldName("declarator"); name != nil {
		return b.functionName(name)
	}
	count := int(ts.ChildCount())
	for i := 0; i < count; i++ {
		if n := b.functionName(ts.Child(i)); n != "" {
			return n
		}
	}
	return ""
}

func (b *ASTBuilder) functionParams(ts *sitter.Node) []*Node {
	paramList := ts.ChildByFieldName("parameters")
	if paramList == nil {
		return nil
	}
	var params []*Node
	count := int(paramList.ChildCount())
	for i := 0; i < count; i++ {
		child := paramList.Child(i)
		if child == nil || child.Type() != "parameter_declaration" {
			continue
		}
		p := &Node{Type: NodeParam, Text: b.textOf(child), Location: b.locOf(child)}
		if decl := child.ChildByFieldName("declarator"); decl != nil {
			p.Name = b.functionName(decl)
		}
		params = append(params, p)
	}
	return params
}

func (b *ASTBuilder) buildCompound(ts *sitter.Node) *Node {
	n := &Node{Type: NodeCompound, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Stmts = b.childNodes(ts)
	return n
}

// buildDeclStmt handles `declaration`, which may declare several variables
// (`int a = 1, b;`); each becomes one NodeVarDecl in Stmts.
func (b *ASTBuilder) buildDeclStmt(ts *sitter.Node) *Node {
	n := &Node{Type: NodeDeclStmt, Text: b.textOf(ts), Location: b.locOf(ts)}
	count := int(ts.ChildCount())
	for i := 0; i < count; i++ {
		child := ts.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "init_declarator":
			decl := &Node{Type: NodeVarDecl, Text: b.textOf(child), Location: b.locOf(child)}
			declarator := child.ChildByFieldName("declarator")
			decl.Name = b.functionName(declarator)
			if value := child.ChildByFieldName("value"); value != nil {
				decl.Init = b.buildNode(value)
			}
			n.Stmts = append(n.Stmts, decl)
		case "identifier", "pointer_declarator", "array_declarator":
			// a bare declaration with no initializer, e.g. `int a;`
			decl := &Node{Type: NodeVarDecl, Text: b.textOf(child), Location: b.locOf(child)}
			decl.Name = b.functionName(child)
			n.Stmts = append(n.Stmts, decl)
		}
	}
	return n
}

func (b *ASTBuilder) buildExprStmt(ts *sitter.Node) *Node {
	n := &Node{Type: NodeExprStmt, Text: b.textOf(ts), Location: b.locOf(ts)}
	if expr := b.firstNamedChild(ts); expr != nil {
		n.Operand = b.buildNode(expr)
	}
	return n
}

func (b *ASTBuilder) buildReturn(ts *sitter.Node) *Node {
	n := &Node{Type: NodeReturn, Text: b.textOf(ts), Location: b.locOf(ts)}
	if expr := b.firstNamedChild(ts); expr != nil {
		n.Operand = b.buildNode(expr)
	}
	return n
}

func (b *ASTBuilder) buildIf(ts *sitter.Node) *Node {
	n := &Node{Type: NodeIf, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Cond = b.buildCondition(ts.ChildByFieldName("condition"))
	n.Then = b.buildNode(ts.ChildByFieldName("consequence"))
	if alt := ts.ChildByFieldName("alternative"); alt != nil {
		n.Else = b.buildNode(alt)
	}
	return n
}

func (b *ASTBuilder) buildWhile(ts *sitter.Node) *Node {
	n := &Node{Type: NodeWhile, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Cond = b.buildCondition(ts.ChildByFieldName("condition"))
	n.Body = b.buildNode(ts.ChildByFieldName("body"))
	return n
}

func (b *ASTBuilder) buildDoWhile(ts *sitter.Node) *Node {
	n := &Node{Type: NodeDoWhile, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Body = b.buildNode(ts.ChildByFieldName("body"))
	n.Cond = b.buildCondition(ts.ChildByFieldName("condition"))
	return n
}

func (b *ASTBuilder) buildFor(ts *sitter.Node) *Node {
	n := &Node{Type: NodeFor, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Init = b.buildNode(ts.ChildByFieldName("initializer"))
	n.Cond = b.buildCondition(ts.ChildByFieldName("condition"))
	n.Update = b.buildNode(ts.ChildByFieldName("update"))
	n.Body = b.buildNode(ts.ChildByFieldName("body"))
	return n
}

// buildCondition unwraps the parenthesized_expression tree-sitter's C
// grammar wraps conditions in, since callers only ever want the inner
// expression.
func (b *ASTBuilder) buildCondition(ts *sitter.Node) *Node {
	if ts == nil {
		return nil
	}
	if ts.Type() == "parenthesized_expression" && ts.NamedChildCount() > 0 {
		ts = ts.NamedChild(0)
	}
	return b.buildNode(ts)
}

func (b *ASTBuilder) buildLabel(ts *sitter.Node) *Node {
	n := &Node{Type: NodeLabel, Text: b.textOf(ts), Location: b.locOf(ts)}
	if label := ts.ChildByFieldName("label"); label != nil {
		n.Label = b.textOf(label)
	}
	if sub := ts.ChildByFieldName("statement"); sub != nil {
		n.Sub = b.buildNode(sub)
	}
	return n
}

func (b *ASTBuilder) buildGoto(ts *sitter.Node) *Node {
	n := &Node{Type: NodeGoto, Text: b.textOf(ts), Location: b.locOf(ts)}
	if label := ts.ChildByFieldName("label"); label != nil {
		n.Label = b.textOf(label)
	}
	return n
}

func (b *ASTBuilder) buildCall(ts *sitter.Node) *Node {
	n := &Node{Type: NodeCall, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Callee = b.buildNode(ts.ChildByFieldName("function"))
	if argList := ts.ChildByFieldName("arguments"); argList != nil {
		count := int(argList.NamedChildCount())
		for i := 0; i < count; i++ {
			n.Args = append(n.Args, b.buildNode(argList.NamedChild(i)))
		}
	}
	return n
}

func (b *ASTBuilder) buildAssignment(ts *sitter.Node) *Node {
	op := b.fieldText(ts, "operator")
	nodeType := NodeAssignment
	if op != "" && op != "=" {
		nodeType = NodeCompoundAssign
	}
	n := &Node{Type: nodeType, Op: op, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Left = b.buildNode(ts.ChildByFieldName("left"))
	n.Right = b.buildNode(ts.ChildByFieldName("right"))
	return n
}

func (b *ASTBuilder) buildBinary(ts *sitter.Node) *Node {
	n := &Node{Type: NodeBinary, Op: b.fieldText(ts, "operator"), Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Left = b.buildNode(ts.ChildByFieldName("left"))
	n.Right = b.buildNode(ts.ChildByFieldName("right"))
	return n
}

func (b *ASTBuilder) buildUnary(ts *sitter.Node, nodeType NodeType) *Node {
	n := &Node{Type: nodeType, Op: b.fieldText(ts, "operator"), Text: b.textOf(ts), Location: b.locOf(ts)}
	operand := ts.ChildByFieldName("argument")
	if operand == nil {
		operand = ts.ChildByFieldName("operand")
	}
	n.Operand = b.buildNode(operand)
	return n
}

func (b *ASTBuilder) buildSubscript(ts *sitter.Node) *Node {
	n := &Node{Type: NodeSubscript, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Base = b.buildNode(ts.ChildByFieldName("argument"))
	n.Index = b.buildNode(ts.ChildByFieldName("index"))
	return n
}

func (b *ASTBuilder) buildParen(ts *sitter.Node) *Node {
	n := &Node{Type: NodeParenthesized, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Operand = b.buildNode(b.firstNamedChild(ts))
	return n
}

func (b *ASTBuilder) buildCast(ts *sitter.Node) *Node {
	n := &Node{Type: NodeCast, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Operand = b.buildNode(ts.ChildByFieldName("value"))
	return n
}

// buildOther is used for grammar nodes the lowerer's expression analyzer
// default case must still be able to recurse into (e.g. a comma_expression,
// a sizeof_expression, a field_expression) without this builder needing a
// bespoke case for every one of them.
func (b *ASTBuilder) buildOther(ts *sitter.Node) *Node {
	n := &Node{Type: NodeOther, Text: b.textOf(ts), Location: b.locOf(ts)}
	n.Stmts = b.namedChildNodes(ts)
	return n
}

func (b *ASTBuilder) childNodes(ts *sitter.Node) []*Node {
	var out []*Node
	count := int(ts.NamedChildCount())
	for i := 0; i < count; i++ {
		if n := b.buildNode(ts.NamedChild(i)); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (b *ASTBuilder) namedChildNodes(ts *sitter.Node) []*Node {
	return b.childNodes(ts)
}

func (b *ASTBuilder) firstNamedChild(ts *sitter.Node) *sitter.Node {
	if ts.NamedChildCount() == 0 {
		return nil
	}
	return ts.NamedChild(0)
}

func (b *ASTBuilder) fieldText(ts *sitter.Node, field string) string {
	n := ts.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return b.textOf(n)
}
