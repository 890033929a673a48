// Package worth provides the expression language that turns a reward vector
// into a value that can be ordered.
//
// Expressions form a closed set of variants. Build them with the short
// constructors and evaluate them with Evaluate:
//
//	G, W := worth.ID(0), worth.ID(1)
//	expr := worth.Lex(worth.Gt(G, worth.Num(0)), worth.Neg(W))
//	v, err := worth.Evaluate(expr, reward.Vector{1, 0})
//
// Expressions are immutable and evaluation has no side effects.
package worth

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a worth expression node. The variant set is fixed; only types in
// this package implement Expr.
type Expr interface {
	fmt.Stringer
	node()
}

// Identifier reads component Index of the reward vector.
type Identifier struct {
	Index int
}

// Constant evaluates to N.
type Constant struct {
	N float64
}

// Negate evaluates to -X.
type Negate struct {
	X Expr
}

// Add evaluates to L + R.
type Add struct {
	L, R Expr
}

// Multiply evaluates to L * R.
type Multiply struct {
	L, R Expr
}

// GreaterEqual is 0 when L >= R and otherwise the negated distance
// |L-R|/√2 to the boundary.
type GreaterEqual struct {
	L, R Expr
}

// GreaterThan is 0 when L > R and otherwise the negated distance to the
// boundary minus StrictMargin, so equality ranks below any strict win.
type GreaterThan struct {
	L, R Expr
}

// Lexicographic evaluates every term into a tuple; earlier terms dominate.
type Lexicographic struct {
	Terms []Expr
}

func (Identifier) node()    {}
func (Constant) node()      {}
func (Negate) node()        {}
func (Add) node()           {}
func (Multiply) node()      {}
func (GreaterEqual) node()  {}
func (GreaterThan) node()   {}
func (Lexicographic) node() {}

// ID references component k of the reward vector.
func ID(k int) Expr { return Identifier{Index: k} }

// Num is a constant.
func Num(n float64) Expr { return Constant{N: n} }

// Neg negates e.
func Neg(e Expr) Expr { return Negate{X: e} }

// Plus adds two expressions.
func Plus(l, r Expr) Expr { return Add{L: l, R: r} }

// Times multiplies two expressions.
func Times(l, r Expr) Expr { return Multiply{L: l, R: r} }

// Gte is the soft l >= r predicate.
func Gte(l, r Expr) Expr { return GreaterEqual{L: l, R: r} }

// Gt is the soft strict l > r predicate.
func Gt(l, r Expr) Expr { return GreaterThan{L: l, R: r} }

// Lte is Gte with the operands swapped.
func Lte(l, r Expr) Expr { return GreaterEqual{L: r, R: l} }

// Lt is Gt with the operands swapped.
func Lt(l, r Expr) Expr { return GreaterThan{L: r, R: l} }

// Lex orders by each term in turn.
func Lex(terms ...Expr) Expr {
	out := make([]Expr, len(terms))
	copy(out, terms)
	return Lexicographic{Terms: out}
}

func (e Identifier) String() string { return "id(" + strconv.Itoa(e.Index) + ")" }
func (e Constant) String() string   { return strconv.FormatFloat(e.N, 'g', -1, 64) }
func (e Negate) String() string     { return "neg(" + str(e.X) + ")" }
func (e Add) String() string        { return "add(" + str(e.L) + ", " + str(e.R) + ")" }
func (e Multiply) String() string   { return "mul(" + str(e.L) + ", " + str(e.R) + ")" }
func (e GreaterEqual) String() string {
	return "gte(" + str(e.L) + ", " + str(e.R) + ")"
}
func (e GreaterThan) String() string {
	return "gt(" + str(e.L) + ", " + str(e.R) + ")"
}

func (e Lexicographic) String() string {
	parts := make([]string, len(e.Terms))
	for i, t := range e.Terms {
		parts[i] = str(t)
	}
	return "lex(" + strings.Join(parts, ", ") + ")"
}

func str(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
