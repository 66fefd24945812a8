// Package parser adapts an external C/C++ syntax front-end (tree-sitter's
// C grammar) into the small AST shape the lowering core depends on.
package parser

// NodeType identifies the shape of a Node. Names follow the C grammar
// tree-sitter exposes, not clang's AST class names, since the front-end
// here is tree-sitter rather than clang.
type NodeType string

const (
	// Translation unit / structure
	NodeTranslationUnit NodeType = "translation_unit"
	NodeFunctionDef      NodeType = "function_definition"

	// Statements
	NodeCompound    NodeType = "compound_statement"
	NodeDeclStmt    NodeType = "declaration"
	NodeExprStmt    NodeType = "expression_statement"
	NodeReturn      NodeType = "return_statement"
	NodeIf          NodeType = "if_statement"
	NodeWhile       NodeType = "while_statement"
	NodeDoWhile     NodeType = "do_statement"
	NodeFor         NodeType = "for_statement"
	NodeBreak       NodeType = "break_statement"
	NodeContinue    NodeType = "continue_statement"
	NodeLabel       NodeType = "labeled_statement"
	NodeGoto        NodeType = "goto_statement"
	NodeSwitch      NodeType = "switch_statement"

	// Expressions
	NodeIdentifier  NodeType = "identifier"
	NodeCall        NodeType = "call_expression"
	NodeAssignment  NodeType = "assignment_expression"
	NodeCompoundAssign NodeType = "compound_assignment_expression"
	NodeBinary      NodeType = "binary_expression"
	NodeUnary       NodeType = "unary_expression"
	NodeUpdate      NodeType = "update_expression" // ++ / --
	NodeSubscript   NodeType = "subscript_expression"
	NodeParenthesized NodeType = "parenthesized_expression"
	NodeCast        NodeType = "cast_expression"
	NodeNumberLit   NodeType = "number_literal"
	NodeStringLit   NodeType = "string_literal"
	NodeCharLit     NodeType = "char_literal"

	// One node per declared variable inside a declaration statement.
	NodeVarDecl NodeType = "init_declarator"
	// A function parameter.
	NodeParam NodeType = "parameter_declaration"

	// Parse-error placeholder: tree-sitter's ERROR node, or a MISSING node.
	NodeRecovery NodeType = "ERROR"

	// Fallback for any grammar node this front-end does not special-case;
	// the lowerer's default case recurses into its children.
	NodeOther NodeType = "other"
)

// Location is the begin/end position of a Node's source range.
type Location struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Node is one AST node. Fields not relevant to a given NodeType are left
// zero; see the table in spec.md §4.1/§4.2 for which fields each statement
// or expression class populates.
type Node struct {
	Type     NodeType
	Text     string   // original source snippet, resolved at build time
	Location Location

	// Identifiers: declared name for Identifier/VarDecl/Param/FunctionDef.
	// Label/Goto keep their label name in Label, not here.
	Name string

	// FunctionDef
	Params []*Node
	Body   *Node // compound_statement

	// Compound statement
	Stmts []*Node

	// VarDecl (inside a DeclStmt's Stmts)
	Init *Node // nilable

	// If / While / Do-While / For condition, reused across all four.
	Cond *Node
	Then *Node
	Else *Node // nilable

	// While / Do-While / For: Cond holds the condition expression (nil for
	// a for-loop with no condition), Body the loop body.
	// For: Init/Update additionally populated.
	Update *Node

	// Binary / Assignment / CompoundAssign
	Left  *Node
	Right *Node
	Op    string

	// Unary / Update / Cast / Parenthesized: the single child expression.
	Operand *Node

	// Call
	Callee *Node
	Args   []*Node

	// Subscript
	Base  *Node
	Index *Node

	// Label / Goto
	Label string
	Sub   *Node // labeled_statement's inner statement
}

// IsStatement reports whether the node is one of the statement classes
// spec.md §4.2 dispatches on.
func (n *Node) IsStatement() bool {
	switch n.Type {
	case NodeCompound, NodeDeclStmt, NodeExprStmt, NodeReturn, NodeIf,
		NodeWhile, NodeDoWhile, NodeFor, NodeBreak, NodeContinue, NodeLabel,
		NodeGoto, NodeSwitch:
		return true
	default:
		return false
	}
}

// Children returns every non-nil child, in source order, for generic
// traversal (used by Visitor and by the expression analyzer's fallback
// "recurse into all children" case).
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, p := range n.Params {
		add(p)
	}
	add(n.Body)
	for _, s := range n.Stmts {
		add(s)
	}
	add(n.Init)
	add(n.Cond)
	add(n.Then)
	add(n.Else)
	add(n.Update)
	add(n.Left)
	add(n.Right)
	add(n.Operand)
	add(n.Callee)
	for _, a := range n.Args {
		add(a)
	}
	add(n.Base)
	add(n.Index)
	add(n.Sub)
	return out
}
