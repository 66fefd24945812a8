package analyzer

import (
	"encoding/gob"
	"io"
)

// WireFunction is the binary-encoded function record the output adapter
// writes: function id, ordered parameters, ordered blocks. Field names are
// exported so encoding/gob can see them; there is no other serialization
// concern here; compatibility with whatever consumes the stream is the
// consumer's problem, not this package's.
type WireFunction struct {
	FuncID string
	Params []string
	Blocks []WireBlock
}

// WireBlock is one basic block: its normalized label, whether it ends in a
// terminator, its ordered entries, and its edges by label (not index, so the
// encoding is self-contained without a side table).
type WireBlock struct {
	Label        string
	Terminated   bool
	Entries      []WireEntry
	Successors   []string
	Predecessors []string
}

// WireEntry is one statement-level record, tagged the way §4.3 of the
// lowering contract describes: variable, implicit-return, basic, call,
// branch, or return. Assignment and bare-expression statements take the tag
// of the expression they carry; Branch is tagged directly, and Return is
// tagged directly while carrying its value expression's payload (if any).
type WireEntry struct {
	Tag  string
	Text string

	// variable / implicit-return
	VarName string
	Callee  string // implicit-return: the call that produced it

	// call
	CallCallee string
	Args       []WireEntry

	// basic
	Defs []string
	Uses []string

	// assignment (tag still reflects Source's kind; Target carried alongside)
	AssignTarget string

	// branch
	BranchTargets []string
}

// EncodeFunction writes fn to w as the binary IR record described by the
// output adapter contract. It and DecodeFunction are the only places the
// core touches I/O.
func EncodeFunction(w io.Writer, fn *Function) error {
	return gob.NewEncoder(w).Encode(toWireFunction(fn))
}

// DecodeFunction reads back a WireFunction previously written by
// EncodeFunction. Downstream consumers that only need the wire shape (not
// the full Function with its BlockHandle-based graph) can use this directly.
func DecodeFunction(r io.Reader) (*WireFunction, error) {
	var wf WireFunction
	if err := gob.NewDecoder(r).Decode(&wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func toWireFunction(fn *Function) *WireFunction {
	wf := &WireFunction{
		FuncID: fn.FuncID,
		Params: make([]string, len(fn.Params)),
		Blocks: make([]WireBlock, len(fn.Blocks)),
	}
	for i, p := range fn.Params {
		wf.Params[i] = p.Name
	}
	for i, b := range fn.Blocks {
		wf.Blocks[i] = toWireBlock(fn, b)
	}
	return wf
}

func toWireBlock(fn *Function, b *BasicBlock) WireBlock {
	wb := WireBlock{
		Label:        b.Label,
		Terminated:   b.Terminated(),
		Entries:      make([]WireEntry, 0, len(b.Stmts)),
		Successors:   labelsOf(fn, b.Successors),
		Predecessors: labelsOf(fn, b.Predecessors),
	}
	for _, s := range b.Stmts {
		wb.Entries = append(wb.Entries, toWireEntry(fn, s))
	}
	return wb
}

func labelsOf(fn *Function, handles []BlockHandle) []string {
	if len(handles) == 0 {
		return nil
	}
	labels := make([]string, len(handles))
	for i, h := range handles {
		labels[i] = fn.Block(h).Label
	}
	return labels
}

func toWireEntry(fn *Function, s *Stmt) WireEntry {
	switch s.Kind {
	case StmtBranch:
		return WireEntry{Tag: "branch", Text: s.Text, BranchTargets: labelsOf(fn, s.Successors)}
	case StmtReturn:
		e := WireEntry{Tag: "return", Text: s.Text}
		if s.Value != nil {
			nested := toWireExpr(s.Value)
			e.VarName = nested.VarName
			e.Callee = nested.Callee
			e.CallCallee = nested.CallCallee
			e.Args = nested.Args
			e.Defs = nested.Defs
			e.Uses = nested.Uses
		}
		return e
	case StmtAssignment:
		e := toWireExpr(s.Source)
		e.Text = s.Text
		if s.Target != nil {
			e.AssignTarget = s.Target.Name
		}
		return e
	case StmtExpr:
		e := toWireExpr(s.Expression)
		e.Text = s.Text
		return e
	default:
		return WireEntry{Tag: "basic", Text: s.Text}
	}
}

func toWireExpr(e *Expr) WireEntry {
	if e == nil {
		return WireEntry{Tag: "basic"}
	}
	switch e.Kind {
	case ExprVariable:
		return WireEntry{Tag: "variable", Text: e.Text, VarName: e.Var.Name}
	case ExprImplicitReturn:
		return WireEntry{Tag: "implicit-return", Text: e.Text, VarName: e.Var.Name, Callee: e.Var.Callee}
	case ExprCall:
		args := make([]WireEntry, 0, len(e.Call.Args))
		for _, a := range e.Call.Args {
			args = append(args, toWireExpr(a))
		}
		return WireEntry{Tag: "call", Text: e.Text, CallCallee: e.Call.Callee, Args: args}
	case ExprBasic:
		we := WireEntry{Tag: "basic", Text: e.Text}
		if e.Basic != nil {
			we.Defs = namesOf(e.Basic.Defs)
			we.Uses = namesOf(e.Basic.Uses)
		}
		return we
	default:
		return WireEntry{Tag: "basic", Text: e.Text}
	}
}

func namesOf(vars []VarRef) []string {
	if len(vars) == 0 {
		return nil
	}
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}
