package analyzer

import "github.com/r7330980/gennm/internal/parser"

// DefUse is the intermediate result of analyzing a subexpression: the set
// of variables it defines, the set it uses, and whether it is a "direct
// use" of a single variable (see isDirectUse).
type DefUse struct {
	Defs      []VarRef
	Uses      []VarRef
	DirectUse bool
}

// ExprAnalyzer walks parser.Node expression subtrees and lowers them to
// Expr. Each top-level RHSParse call owns one "intermediate-expression
// buffer": every Call extracted from the subtree, in post-order (operands
// before operators), plus any argument expressions orphaned by an
// un-namable callee. The function lowerer splices this buffer into the
// current block immediately before the statement consuming the RHS result.
type ExprAnalyzer struct {
	intermediate []*Expr
}

// NewExprAnalyzer constructs an analyzer with an empty buffer.
func NewExprAnalyzer() *ExprAnalyzer {
	return &ExprAnalyzer{}
}

// TakeIntermediate drains and returns the buffer accumulated since the last
// RHSParse (or since the analyzer was constructed).
func (a *ExprAnalyzer) TakeIntermediate() []*Expr {
	buf := a.intermediate
	a.intermediate = nil
	return buf
}

// LHSParse strips parentheses and succeeds on a direct variable reference or
// a recovery node (whose snippet becomes a synthetic identifier). Any other
// shape is a complex l-value and LHSParse reports ok=false, signalling the
// caller to fall back to a full RHS analysis of the left side.
func (a *ExprAnalyzer) LHSParse(n *parser.Node) (VarRef, bool) {
	n = unwrapParens(n)
	if n == nil {
		return VarRef{}, false
	}
	switch n.Type {
	case parser.NodeIdentifier:
		return VarRef{Name: n.Name, Text: n.Text}, true
	case parser.NodeRecovery:
		return VarRef{Name: n.Text, Text: n.Text}, true
	default:
		return VarRef{}, false
	}
}

// RHSParse is the public recursion entry point. It clears the intermediate
// buffer, analyzes n, and collapses the resulting DefUse to a canonical
// Expr per the termination rules in RHS-parse termination.
func (a *ExprAnalyzer) RHSParse(n *parser.Node) *Expr {
	a.intermediate = nil
	return a.finalize(a.analyze(n), n)
}

// finalize applies RHS-parse termination: a singleton implicit-return use
// collapses to that reference; a singleton plain use that is syntactically
// a direct read of its own name collapses to that variable; anything else
// becomes a Basic expression.
func (a *ExprAnalyzer) finalize(d DefUse, n *parser.Node) *Expr {
	if len(d.Uses) == 1 && len(d.Defs) == 0 {
		sole := d.Uses[0]
		if sole.IsImplicitReturn {
			return NewImplicitReturnExpr(sole)
		}
		if a.isDirectUse(n, sole.Name) {
			return NewVariableExpr(sole)
		}
	}
	return NewBasicExpr(d.Defs, d.Uses, d.DirectUse, textOf(n))
}

// analyze is the core recursion over an arbitrary expression subtree.
func (a *ExprAnalyzer) analyze(n *parser.Node) DefUse {
	n = unwrapParens(n)
	if n == nil {
		return DefUse{}
	}

	switch n.Type {
	case parser.NodeIdentifier:
		return DefUse{Uses: []VarRef{{Name: n.Name, Text: n.Text}}, DirectUse: true}

	case parser.NodeRecovery:
		return DefUse{Uses: []VarRef{{Name: n.Text, Text: n.Text}}, DirectUse: true}

	case parser.NodeSubscript:
		base := a.analyze(n.Base)
		idx := a.analyze(n.Index)
		return DefUse{
			Defs: concat(base.Defs, idx.Defs),
			Uses: concat(base.Uses, idx.Uses),
		}

	case parser.NodeAssignment:
		result := a.analyze(n.Right)
		if v, ok := a.LHSParse(n.Left); ok {
			result.Defs = append(result.Defs, v)
		} else {
			lhs := a.analyze(n.Left)
			result.Defs = concat(result.Defs, lhs.Defs)
			result.Uses = concat(result.Uses, lhs.Uses)
		}
		return result

	case parser.NodeCompoundAssign:
		rhs := a.analyze(n.Right)
		var defs, uses []VarRef
		if v, ok := a.LHSParse(n.Left); ok {
			// read-modify-write: the target is both defined and used.
			defs = append(defs, v)
			uses = append(uses, v)
		} else {
			lhs := a.analyze(n.Left)
			defs = concat(defs, lhs.Defs)
			uses = concat(uses, lhs.Uses)
		}
		return DefUse{Defs: concat(defs, rhs.Defs), Uses: concat(uses, rhs.Uses)}

	case parser.NodeBinary:
		l := a.analyze(n.Left)
		r := a.analyze(n.Right)
		return DefUse{Defs: concat(l.Defs, r.Defs), Uses: concat(l.Uses, r.Uses)}

	case parser.NodeUnary:
		operand := a.analyze(n.Operand)
		operand.DirectUse = false
		return operand

	case parser.NodeUpdate:
		// ++ / --: preserve the operand's direct_use.
		return a.analyze(n.Operand)

	case parser.NodeCall:
		return a.analyzeCall(n)

	case parser.NodeNumberLit, parser.NodeStringLit, parser.NodeCharLit:
		return DefUse{}

	case parser.NodeCast:
		return a.analyze(n.Operand)

	default:
		var defs, uses []VarRef
		for _, c := range n.Children() {
			cd := a.analyze(c)
			defs = concat(defs, cd.Defs)
			uses = concat(uses, cd.Uses)
		}
		return DefUse{Defs: defs, Uses: uses}
	}
}

// analyzeCall lowers a call expression: each argument is analyzed and
// collapsed via lowerCallArg, the callee is resolved LHS-parse-style, and
// either a Call is appended to the intermediate buffer (named callee) or the
// call is abandoned and its built arguments are appended individually
// (un-namable callee) — def/use does not flow through an abandoned call.
func (a *ExprAnalyzer) analyzeCall(n *parser.Node) DefUse {
	args := make([]*Expr, 0, len(n.Args))
	for _, argNode := range n.Args {
		ad := a.analyze(argNode)
		args = append(args, a.lowerCallArg(ad, argNode))
	}

	callee, ok := a.resolveCallee(n.Callee)
	if !ok {
		a.intermediate = append(a.intermediate, args...)
		return DefUse{}
	}

	a.intermediate = append(a.intermediate, NewCallExpr(callee, args, n.Text))
	retVar := NewImplicitReturn(callee, n.Text)
	return DefUse{Uses: []VarRef{retVar}, DirectUse: true}
}

// lowerCallArg collapses one already-analyzed argument to its canonical
// form: a bare variable when the argument is syntactically a direct use of
// it, the implicit-return reference when that's the argument's sole use, or
// a Basic expression otherwise.
func (a *ExprAnalyzer) lowerCallArg(ad DefUse, argNode *parser.Node) *Expr {
	if len(ad.Uses) == 1 && len(ad.Defs) == 0 {
		sole := ad.Uses[0]
		if a.isDirectUse(argNode, sole.Name) {
			return NewVariableExpr(sole)
		}
		if sole.IsImplicitReturn {
			return NewImplicitReturnExpr(sole)
		}
	}
	return NewBasicExpr(ad.Defs, ad.Uses, false, textOf(argNode))
}

// resolveCallee accepts a declared name or a recovery snippet, mirroring
// LHSParse; any other callee shape cannot be named.
func (a *ExprAnalyzer) resolveCallee(n *parser.Node) (string, bool) {
	n = unwrapParens(n)
	if n == nil {
		return "", false
	}
	switch n.Type {
	case parser.NodeIdentifier:
		return n.Name, true
	case parser.NodeRecovery:
		return n.Text, true
	default:
		return "", false
	}
}

// isDirectUse reports whether every write/read along n is compatible with
// "this expression is just a read of target": a matching variable node is
// direct; an assignment or increment/decrement is direct (its side effect on
// another variable is intended, not disqualifying); a literal is never
// direct; anything else requires every child to be direct.
func (a *ExprAnalyzer) isDirectUse(n *parser.Node, target string) bool {
	n = unwrapParens(n)
	if n == nil {
		return false
	}
	switch n.Type {
	case parser.NodeIdentifier:
		return n.Name == target
	case parser.NodeRecovery:
		return n.Text == target
	case parser.NodeAssignment, parser.NodeCompoundAssign, parser.NodeUpdate:
		return true
	case parser.NodeNumberLit, parser.NodeStringLit, parser.NodeCharLit:
		return false
	default:
		children := n.Children()
		if len(children) == 0 {
			return false
		}
		for _, c := range children {
			if !a.isDirectUse(c, target) {
				return false
			}
		}
		return true
	}
}

// unwrapParens strips parenthesized_expression wrappers; tree-sitter's C
// grammar has no separate implicit-conversion node, so this is the whole of
// "strip parens/implicit conversions" for this front-end.
func unwrapParens(n *parser.Node) *parser.Node {
	for n != nil && n.Type == parser.NodeParenthesized {
		n = n.Operand
	}
	return n
}

func textOf(n *parser.Node) string {
	if n == nil {
		return ""
	}
	return n.Text
}

func concat(a, b []VarRef) []VarRef {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]VarRef, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
