package analyzer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/bits-and-blooms/bitset"
)

// labelPattern matches a normalized block label "bb:%<index>-<original>".
var labelPattern = regexp.MustCompile(`^bb:%(\d+)-`)

// Verify checks a lowered Function against the invariants every lowering
// must satisfy: edge consistency (P1), terminator placement (P2), label
// normalization (P3), def/use set uniqueness (P4), and post-order of calls
// (P5). It returns the first violation found; a clean function returns nil.
func Verify(fn *Function) error {
	if err := verifyEdgeConsistency(fn); err != nil {
		return err
	}
	if err := verifyTerminatorPlacement(fn); err != nil {
		return err
	}
	if err := verifyLabels(fn); err != nil {
		return err
	}
	if err := verifyExprSets(fn); err != nil {
		return err
	}
	return verifyPostOrderOfCalls(fn)
}

// verifyEdgeConsistency checks P1: for every pair of blocks A, B,
// B ∈ succs(A) ⇔ A ∈ preds(B). Membership is tracked with a bitset per
// block so the n² comparison below is a bit test, not a slice scan.
func verifyEdgeConsistency(fn *Function) error {
	n := uint(len(fn.Blocks))
	succHas := make([]*bitset.BitSet, n)
	predHas := make([]*bitset.BitSet, n)
	for i, b := range fn.Blocks {
		succHas[i] = bitset.New(n)
		for _, s := range b.Successors {
			succHas[i].Set(uint(s))
		}
		predHas[i] = bitset.New(n)
		for _, p := range b.Predecessors {
			predHas[i].Set(uint(p))
		}
	}
	for a := uint(0); a < n; a++ {
		for b := uint(0); b < n; b++ {
			aInPredsOfB := predHas[b].Test(a)
			bInSuccsOfA := succHas[a].Test(b)
			if aInPredsOfB != bInSuccsOfA {
				return fmt.Errorf("analyzer: edge inconsistency between block %d and block %d", a, b)
			}
		}
	}
	return nil
}

// verifyTerminatorPlacement checks P2: within any block's statement list, a
// terminator (Branch or Return) may only occur as the last entry. Append
// already enforces this at construction time by panicking; this re-checks
// statically in case a Function was assembled some other way (e.g. by a
// test fixture).
func verifyTerminatorPlacement(fn *Function) error {
	for bi, b := range fn.Blocks {
		for si, st := range b.Stmts {
			if st.Kind.IsTerminator() && si != len(b.Stmts)-1 {
				return fmt.Errorf("analyzer: block %d has a terminator at position %d, not its last", bi, si)
			}
		}
	}
	return nil
}

// verifyLabels checks P3: labels already normalized by NormalizeLabels
// follow "bb:%<index>-<original>" with index equal to the block's position.
func verifyLabels(fn *Function) error {
	for i, b := range fn.Blocks {
		if b.Label == "" {
			continue // not yet normalized; nothing to check
		}
		m := labelPattern.FindStringSubmatch(b.Label)
		if m == nil {
			return fmt.Errorf("analyzer: block %d has malformed label %q", i, b.Label)
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx != i {
			return fmt.Errorf("analyzer: block %d label %q does not encode its own index", i, b.Label)
		}
	}
	return nil
}

// verifyExprSets checks P4: within any Basic expression, defs and uses are
// each unique by name.
func verifyExprSets(fn *Function) error {
	for bi, b := range fn.Blocks {
		for si, st := range b.Stmts {
			for _, e := range stmtExprs(st) {
				if err := checkExprSetUniqueness(e); err != nil {
					return fmt.Errorf("analyzer: block %d stmt %d: %w", bi, si, err)
				}
			}
		}
	}
	return nil
}

func checkExprSetUniqueness(e *Expr) error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ExprBasic:
		if dup := firstDuplicateName(e.Basic.Defs); dup != "" {
			return fmt.Errorf("duplicate def %q in basic expression %q", dup, e.Text)
		}
		if dup := firstDuplicateName(e.Basic.Uses); dup != "" {
			return fmt.Errorf("duplicate use %q in basic expression %q", dup, e.Text)
		}
	case ExprCall:
		for _, a := range e.Call.Args {
			if err := checkExprSetUniqueness(a); err != nil {
				return err
			}
		}
	}
	return nil
}

func firstDuplicateName(vars []VarRef) string {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v.Name] {
			return v.Name
		}
		seen[v.Name] = true
	}
	return ""
}

// verifyPostOrderOfCalls checks P5: within any block, a Call expression
// appears before any expression whose uses contain its implicit-return
// reference.
func verifyPostOrderOfCalls(fn *Function) error {
	for bi, b := range fn.Blocks {
		produced := make(map[string]bool)
		for si, st := range b.Stmts {
			for _, e := range stmtExprs(st) {
				for _, use := range collectImplicitReturnUses(e) {
					if !produced[use] {
						return fmt.Errorf("analyzer: block %d stmt %d uses %q before its call is lowered", bi, si, use)
					}
				}
				for _, produces := range collectCallImplicitReturns(e) {
					produced[produces] = true
				}
			}
		}
	}
	return nil
}

func stmtExprs(st *Stmt) []*Expr {
	switch st.Kind {
	case StmtAssignment:
		if st.Source != nil {
			return []*Expr{st.Source}
		}
	case StmtReturn:
		if st.Value != nil {
			return []*Expr{st.Value}
		}
	case StmtExpr:
		if st.Expression != nil {
			return []*Expr{st.Expression}
		}
	}
	return nil
}

func collectImplicitReturnUses(e *Expr) []string {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ExprImplicitReturn:
		return []string{e.Var.Name}
	case ExprBasic:
		var out []string
		for _, u := range e.Basic.Uses {
			if u.IsImplicitReturn {
				out = append(out, u.Name)
			}
		}
		return out
	case ExprCall:
		var out []string
		for _, a := range e.Call.Args {
			out = append(out, collectImplicitReturnUses(a)...)
		}
		return out
	default:
		return nil
	}
}

func collectCallImplicitReturns(e *Expr) []string {
	if e == nil || e.Kind != ExprCall {
		return nil
	}
	return []string{ImplicitReturnName(e.Call.Callee)}
}
