package analyzer

import (
	"fmt"
	"log"

	"github.com/r7330980/gennm/internal/parser"
)

// loopTargets is one entry of the break/continue stack: the block a break
// jumps to and the block a continue jumps to, pushed on entering a loop.
type loopTargets struct {
	breakTarget    BlockHandle
	continueTarget BlockHandle
}

// FunctionLowerer drives the expression analyzer across one function's
// statements, emitting statements into the current block and creating/
// linking blocks on structured control flow. All mutable traversal state —
// current block, the break/continue stack, the label table — lives on this
// value; there is no global or hidden state (see cfg_builder.go's
// CFGBuilder for the teacher's equivalent shape, adapted here for C control
// flow instead of Python).
type FunctionLowerer struct {
	fn       *Function
	exprs    *ExprAnalyzer
	current  BlockHandle
	loops    []loopTargets
	labels   map[string]BlockHandle
	logger   *log.Logger
}

// NewFunctionLowerer prepares a lowerer for a function with the given id and
// parameters (name + declared text already resolved by the caller).
func NewFunctionLowerer(funcID string, params []VarRef) *FunctionLowerer {
	fn := NewFunction(funcID, params)
	return &FunctionLowerer{
		fn:      fn,
		exprs:   NewExprAnalyzer(),
		current: 0, // entry block, created by NewFunction
		labels:  make(map[string]BlockHandle),
	}
}

// SetLogger attaches an optional logger used only for compile-time-gated
// tracing; lowering never writes to stdout/stderr directly.
func (l *FunctionLowerer) SetLogger(logger *log.Logger) {
	l.logger = logger
}

func (l *FunctionLowerer) logf(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Printf("FunctionLowerer(%s): "+format, append([]interface{}{l.fn.FuncID}, args...)...)
	}
}

// newBlock creates a block, appends it to the function, and — if attach is
// true and there is a current block — links it as current's successor,
// before making it current.
func (l *FunctionLowerer) newBlock(origLabel string, attach bool) BlockHandle {
	h := l.fn.NewBlock(origLabel)
	if attach {
		l.fn.Connect(l.current, h)
	}
	l.current = h
	return h
}

func (l *FunctionLowerer) block(h BlockHandle) *BasicBlock {
	return l.fn.Block(h)
}

// splice appends every expression gathered in the analyzer's intermediate
// buffer (post-order calls, plus orphaned arguments of an abandoned call)
// to the current block as bare expression statements, preserving the
// invariant that a call's result precedes the statement consuming it.
func (l *FunctionLowerer) splice() {
	for _, e := range l.exprs.TakeIntermediate() {
		l.block(l.current).Append(NewExprStmt(e, e.Text))
	}
}

// rhs runs RHSParse and splices the resulting intermediate buffer into the
// current block, returning the canonical Expr for the top-level
// subexpression.
func (l *FunctionLowerer) rhs(n *parser.Node) *Expr {
	expr := l.exprs.RHSParse(n)
	l.splice()
	return expr
}

// LowerFunction lowers a function_definition node end to end and returns the
// completed, label-normalized Function.
func LowerFunction(def *parser.Node) *Function {
	params := make([]VarRef, 0, len(def.Params))
	for _, p := range def.Params {
		params = append(params, VarRef{Name: p.Name, Text: p.Text})
	}
	l := NewFunctionLowerer(def.Name, params)
	l.LowerBody(def.Body)
	l.fn.NormalizeLabels()
	return l.fn
}

// LowerFunctionSafely lowers def like LowerFunction, but recovers a panic
// raised by a fatal invariant violation (e.g. break/continue outside a
// loop) and reports it as an error instead of unwinding past the caller.
// Invariant violations are fatal to the one function being lowered, not to
// the run as a whole.
func LowerFunctionSafely(def *parser.Node) (fn *Function, err error) {
	defer func() {
		if r := recover(); r != nil {
			fn = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return LowerFunction(def), nil
}

// LowerBody lowers a compound_statement function body in place.
func (l *FunctionLowerer) LowerBody(body *parser.Node) {
	l.lowerStmt(body)
}

// lowerStmt dispatches on statement class, per clang-family statement
// handling.
func (l *FunctionLowerer) lowerStmt(n *parser.Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case parser.NodeCompound:
		for _, stmt := range n.Stmts {
			l.lowerStmt(stmt)
		}

	case parser.NodeDeclStmt:
		l.lowerDecl(n)

	case parser.NodeExprStmt:
		expr := l.rhs(n.Operand)
		l.block(l.current).Append(NewExprStmt(expr, n.Text))

	case parser.NodeReturn:
		var value *Expr
		if n.Operand != nil {
			value = l.rhs(n.Operand)
		}
		l.block(l.current).Append(NewReturn(value, n.Text))

	case parser.NodeIf:
		l.lowerIf(n)

	case parser.NodeWhile:
		l.lowerWhile(n)

	case parser.NodeDoWhile:
		l.lowerDoWhile(n)

	case parser.NodeFor:
		l.lowerFor(n)

	case parser.NodeBreak:
		l.lowerBreak(n)

	case parser.NodeContinue:
		l.lowerContinue(n)

	case parser.NodeLabel:
		l.lowerLabel(n)

	case parser.NodeGoto:
		l.lowerGoto(n)

	case parser.NodeSwitch:
		// Unimplemented per design: record the omission, emit nothing.
		l.fn.Diagnose(fmt.Sprintf("switch statement not lowered: %s", n.Text))

	default:
		// Anything else reachable here is an expression used as a
		// statement (e.g. a bare identifier or call stripped of its
		// expression_statement wrapper by a caller).
		expr := l.rhs(n)
		l.block(l.current).Append(NewExprStmt(expr, n.Text))
	}
}

// lowerDecl lowers each declared variable's initializer and appends an
// Assignment with the declared name as target.
func (l *FunctionLowerer) lowerDecl(n *parser.Node) {
	for _, decl := range n.Stmts {
		if decl.Init == nil {
			continue
		}
		value := l.rhs(decl.Init)
		target := VarRef{Name: decl.Name, Text: decl.Text}
		l.block(l.current).Append(NewAssignment(target, value, decl.Text))
	}
}

func (l *FunctionLowerer) lowerIf(n *parser.Node) {
	l.rhs(n.Cond)

	thenBlock := l.fn.NewBlock("if.then")
	elseBlock := l.fn.NewBlock("if.else")
	mergeBlock := l.fn.NewBlock("if.end")

	l.block(l.current).Append(NewBranch(n.Cond.Text, thenBlock, elseBlock))
	l.fn.Connect(l.current, thenBlock)
	l.fn.Connect(l.current, elseBlock)

	l.current = thenBlock
	l.lowerStmt(n.Then)
	if !l.block(l.current).Terminated() {
		l.block(l.current).Append(NewBranch("", mergeBlock))
		l.fn.Connect(l.current, mergeBlock)
	}

	l.current = elseBlock
	if n.Else != nil {
		l.lowerStmt(n.Else)
	}
	if !l.block(l.current).Terminated() {
		l.block(l.current).Append(NewBranch("", mergeBlock))
		l.fn.Connect(l.current, mergeBlock)
	}

	l.current = mergeBlock
}

func (l *FunctionLowerer) lowerWhile(n *parser.Node) {
	condBlock := l.newBlock("while.cond", true)
	l.rhs(n.Cond)
	bodyBlock := l.fn.NewBlock("while.body")
	endBlock := l.fn.NewBlock("while.end")
	l.block(condBlock).Append(NewBranch(n.Cond.Text, bodyBlock, endBlock))
	l.fn.Connect(condBlock, bodyBlock)
	l.fn.Connect(condBlock, endBlock)

	l.loops = append(l.loops, loopTargets{breakTarget: endBlock, continueTarget: condBlock})
	l.current = bodyBlock
	l.lowerStmt(n.Body)
	if !l.block(l.current).Terminated() {
		l.block(l.current).Append(NewBranch("", condBlock))
		l.fn.Connect(l.current, condBlock)
	}
	l.popLoop()

	l.current = endBlock
}

func (l *FunctionLowerer) lowerDoWhile(n *parser.Node) {
	bodyBlock := l.newBlock("do.body", true)
	condBlock := l.fn.NewBlock("do.cond")
	endBlock := l.fn.NewBlock("do.end")

	l.loops = append(l.loops, loopTargets{breakTarget: endBlock, continueTarget: condBlock})
	l.current = bodyBlock
	l.lowerStmt(n.Body)
	if !l.block(l.current).Terminated() {
		l.block(l.current).Append(NewBranch("", condBlock))
		l.fn.Connect(l.current, condBlock)
	}
	l.popLoop()

	l.current = condBlock
	l.rhs(n.Cond)
	l.block(condBlock).Append(NewBranch(n.Cond.Text, bodyBlock, endBlock))
	l.fn.Connect(condBlock, bodyBlock)
	l.fn.Connect(condBlock, endBlock)

	l.current = endBlock
}

func (l *FunctionLowerer) lowerFor(n *parser.Node) {
	if n.Init != nil {
		l.lowerStmt(n.Init)
	}

	condBlock := l.newBlock("for.cond", true)
	bodyBlock := l.fn.NewBlock("for.body")
	incBlock := l.fn.NewBlock("for.inc")
	endBlock := l.fn.NewBlock("for.end")

	condText := ""
	if n.Cond != nil {
		l.rhs(n.Cond)
		condText = n.Cond.Text
	}
	l.block(condBlock).Append(NewBranch(condText, bodyBlock, endBlock))
	l.fn.Connect(condBlock, bodyBlock)
	l.fn.Connect(condBlock, endBlock)

	l.loops = append(l.loops, loopTargets{breakTarget: endBlock, continueTarget: incBlock})
	l.current = bodyBlock
	l.lowerStmt(n.Body)
	if !l.block(l.current).Terminated() {
		l.block(l.current).Append(NewBranch("", incBlock))
		l.fn.Connect(l.current, incBlock)
	}
	l.popLoop()

	l.current = incBlock
	if n.Update != nil {
		l.lowerStmt(wrapExprAsStatement(n.Update))
	}
	if !l.block(l.current).Terminated() {
		l.block(l.current).Append(NewBranch("", condBlock))
		l.fn.Connect(l.current, condBlock)
	}

	l.current = endBlock
}

// wrapExprAsStatement lets a bare update expression (e.g. a for loop's
// `i++`) flow through lowerStmt's default expression-statement case without
// requiring the parser to have wrapped it in an expression_statement.
func wrapExprAsStatement(expr *parser.Node) *parser.Node {
	return &parser.Node{Type: parser.NodeExprStmt, Text: expr.Text, Location: expr.Location, Operand: expr}
}

func (l *FunctionLowerer) lowerBreak(n *parser.Node) {
	if len(l.loops) == 0 {
		panic("analyzer: break statement with empty break/continue stack")
	}
	target := l.loops[len(l.loops)-1].breakTarget
	l.block(l.current).Append(NewBranch(n.Text, target))
	l.fn.Connect(l.current, target)
}

func (l *FunctionLowerer) lowerContinue(n *parser.Node) {
	if len(l.loops) == 0 {
		panic("analyzer: continue statement with empty break/continue stack")
	}
	target := l.loops[len(l.loops)-1].continueTarget
	l.block(l.current).Append(NewBranch(n.Text, target))
	l.fn.Connect(l.current, target)
}

func (l *FunctionLowerer) popLoop() {
	l.loops = l.loops[:len(l.loops)-1]
}

// labelBlock looks up or lazily creates the named block, so both forward
// and backward gotos resolve to the same handle.
func (l *FunctionLowerer) labelBlock(name string) BlockHandle {
	if h, ok := l.labels[name]; ok {
		return h
	}
	h := l.fn.NewBlock(name)
	// NewBlock just allocated and switched nothing; undo the accidental
	// Blocks-length-based current assumption by not touching l.current here.
	l.labels[name] = h
	return h
}

func (l *FunctionLowerer) lowerLabel(n *parser.Node) {
	target := l.labelBlock(n.Label)
	l.fn.Connect(l.current, target)
	l.current = target
	l.lowerStmt(n.Sub)
}

func (l *FunctionLowerer) lowerGoto(n *parser.Node) {
	target := l.labelBlock(n.Label)
	l.block(l.current).Append(NewBranch(n.Text, target))
	l.fn.Connect(l.current, target)
}
