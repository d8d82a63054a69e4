package ast

import "github.com/fo-lang/foc/types"

// Factory centralizes construction of the synthetic nodes the lowering
// passes introduce — temporaries, fake var specs that stand in for a
// one-off assignment, and so on — the same way the teacher's ast.Factory
// centralizes construction of its lowered-concurrency nodes, so every
// call site builds these in a consistent shape.
type Factory struct{}

// NewFactory returns a new Factory.
func NewFactory() *Factory { return &Factory{} }

// Ident creates an Identifier with the given name and type.
func (f *Factory) Ident(name string, t types.Type) *Identifier {
	return &Identifier{Name: name, Typ: t}
}

// VarSpecOf creates a `var name T;` declaration with no initializer.
func (f *Factory) VarSpecOf(name string, t types.Type, line int) *VarSpec {
	return &VarSpec{
		BaseStmt: BaseStmt{SourceLine: line},
		Var:      f.Ident(name, t),
	}
}

// AssignmentOf creates a `name = expr;` node.
func (f *Factory) AssignmentOf(name string, t types.Type, expr Expr, line int) *Assignment {
	return &Assignment{
		BaseStmt: BaseStmt{SourceLine: line},
		Var:      f.Ident(name, t),
		Expr:     expr,
	}
}
