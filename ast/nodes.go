// Package ast defines the Fo abstract syntax tree: the node set produced
// by the parser and rewritten in place by the compiler's passes.
package ast

import "github.com/fo-lang/foc/types"

// Node is the interface implemented by every AST node.
type Node interface {
	node()
}

// Statement is the interface for statement-level nodes.
type Statement interface {
	Node
	stmt()
	Line() int
}

// Expr is the interface for expression-level nodes. Type returns the
// node's current type, which starts as a placeholder for most expression
// kinds and is progressively resolved by the type-inference pass.
type Expr interface {
	Node
	expr()
	Type() types.Type
}

// BaseStmt carries the source line every statement is parsed with, used
// for diagnostics.
type BaseStmt struct {
	SourceLine int
}

func (b BaseStmt) Line() int { return b.SourceLine }

// Program is the root of a parsed Fo source file.
type Program struct {
	VarDecls      []*VarSpec
	TypeDecls     []*TypeSpec
	FunctionDecls []*FunctionDecl
	SourceFile    string
}

func (p *Program) node() {}

// TypeSpec represents a top-level `type Name T;` alias declaration. No
// pass resolves or substitutes these (see DESIGN.md, Open Question 2);
// they are parsed and retained on Program.TypeDecls only.
type TypeSpec struct {
	BaseStmt
	Name       string
	Underlying types.Type
}

func (t *TypeSpec) node() {}
func (t *TypeSpec) stmt() {}

// Function is implemented by both FunctionDecl and FunctionLit so that
// passes which treat named functions and closures uniformly (naming,
// flattening, uniquify, reveal, fix-ast, inference) can share one
// traversal without a type switch on every call site.
type Function interface {
	Node
	Name() string
	SetName(string)
	Parameters() []*Param
	ParameterNames() []string
	ReturnType() types.Type
	Type() types.Type
	Body() []Statement
	SetBody([]Statement)
	Varset() *ScopeVarset
}

// Param is one (identifier, type) entry in a function signature.
type Param struct {
	Var  *Identifier
	Type types.Type
}

// FunctionDecl is a top-level named function: func name(params) ret { body }.
type FunctionDecl struct {
	BaseStmt
	FuncName   string
	Params     []*Param
	RetType    types.Type
	Stmts      []Statement
	scopeVarset ScopeVarset
}

func (f *FunctionDecl) node() {}
func (f *FunctionDecl) stmt() {}

func (f *FunctionDecl) Name() string           { return f.FuncName }
func (f *FunctionDecl) SetName(n string)       { f.FuncName = n }
func (f *FunctionDecl) Parameters() []*Param   { return f.Params }
func (f *FunctionDecl) ReturnType() types.Type { return f.RetType }
func (f *FunctionDecl) Body() []Statement      { return f.Stmts }
func (f *FunctionDecl) SetBody(b []Statement)  { f.Stmts = b }
func (f *FunctionDecl) Varset() *ScopeVarset   { return &f.scopeVarset }

func (f *FunctionDecl) ParameterNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Var.Name
	}
	return names
}

// Type returns the function's signature as a func(...) type, built from
// its parameter and return types.
func (f *FunctionDecl) Type() types.Type {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return types.NewFunc(params, f.RetType)
}

// FunctionLit is an anonymous closure literal: func(params) ret { body }.
// Name is empty until Pass 1 assigns it a synthetic name; from that point
// on it behaves exactly like a FunctionDecl for every later pass.
type FunctionLit struct {
	LitName     string
	Params      []*Param
	RetType     types.Type
	Stmts       []Statement
	scopeVarset ScopeVarset
}

func (f *FunctionLit) node() {}
func (f *FunctionLit) expr() {}

// Type satisfies Expr: a closure literal's type is its own function type.
func (f *FunctionLit) Type() types.Type {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return types.NewFunc(params, f.RetType)
}

func (f *FunctionLit) Name() string           { return f.LitName }
func (f *FunctionLit) SetName(n string)       { f.LitName = n }
func (f *FunctionLit) Parameters() []*Param   { return f.Params }
func (f *FunctionLit) ReturnType() types.Type { return f.RetType }
func (f *FunctionLit) Body() []Statement      { return f.Stmts }
func (f *FunctionLit) SetBody(b []Statement)  { f.Stmts = b }
func (f *FunctionLit) Varset() *ScopeVarset   { return &f.scopeVarset }

func (f *FunctionLit) ParameterNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Var.Name
	}
	return names
}

// Block is a nested `{ stmts }` statement that introduces its own lexical
// scope without being a function boundary.
type Block struct {
	BaseStmt
	Stmts       []Statement
	scopeVarset ScopeVarset
}

func (b *Block) node() {}
func (b *Block) stmt() {}

func (b *Block) Varset() *ScopeVarset { return &b.scopeVarset }

// ScopeHolder is implemented by any node that owns a ScopeVarset: Block,
// FunctionDecl, FunctionLit.
type ScopeHolder interface {
	Varset() *ScopeVarset
}

// VarSpec represents `var name Type [= initExpr];`.
type VarSpec struct {
	BaseStmt
	Var      *Identifier
	InitExpr Expr // nil if no initializer
}

func (v *VarSpec) node() {}
func (v *VarSpec) stmt() {}

// SpecType returns the declared type, mirroring the original's
// var_spec_type property (which reads the type off the identifier, not a
// separate field).
func (v *VarSpec) SpecType() types.Type { return v.Var.Typ }

// Assignment represents `var = expr;`.
type Assignment struct {
	BaseStmt
	Var  *Identifier
	Expr Expr
}

func (a *Assignment) node() {}
func (a *Assignment) stmt() {}

// Return represents `return [expr];`.
type Return struct {
	BaseStmt
	Expr Expr // nil for a bare return
}

func (r *Return) node() {}
func (r *Return) stmt() {}

// ExpressionStmt is a statement consisting of a bare expression
// (used for call-for-effect, e.g. a closure invoked for its side effects).
type ExpressionStmt struct {
	BaseStmt
	Expr Expr
}

func (e *ExpressionStmt) node() {}
func (e *ExpressionStmt) stmt() {}

// UnaryExpr represents `op expr`.
type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (u *UnaryExpr) node() {}
func (u *UnaryExpr) expr() {}

// Type returns the operand's type. The original implementation stores a
// separate _type field via set_type, but its type property always
// delegates to the operand's type instead of reading that field back —
// so the stored value is never observed. This port keeps that behavior
// (SetType is a no-op) rather than "fixing" an invisible quirk.
func (u *UnaryExpr) Type() types.Type { return u.Expr.Type() }

// SetType is a no-op; see Type's comment.
func (u *UnaryExpr) SetType(types.Type) {}

// BinaryExpr represents `lhs op rhs`.
type BinaryExpr struct {
	LHS, RHS Expr
	Op       string
	Typ      types.Type
}

func (b *BinaryExpr) node() {}
func (b *BinaryExpr) expr() {}

func (b *BinaryExpr) Type() types.Type    { return b.Typ }
func (b *BinaryExpr) SetType(t types.Type) { b.Typ = t }

// IntLit is an integer literal; its type is always int64_t.
type IntLit struct {
	Val int64
}

func (i *IntLit) node() {}
func (i *IntLit) expr() {}
func (i *IntLit) Type() types.Type { return types.NewInt() }

// FloatLit is a floating-point literal; its type is always double.
type FloatLit struct {
	Val float64
}

func (f *FloatLit) node() {}
func (f *FloatLit) expr() {}
func (f *FloatLit) Type() types.Type { return types.NewFloat() }

// Identifier is a variable or function reference. Its Typ starts out as the
// zero types.Type (a placeholder) for most identifiers and is filled in by
// uniquify (name only) and inference (type).
type Identifier struct {
	Name string
	Typ  types.Type
}

func (id *Identifier) node() {}
func (id *Identifier) expr() {}

// Type returns the identifier's current type. The zero value of
// types.Type already has Kind() == Placeholder, so an Identifier created
// without an explicit type (e.g. by the parser, before inference runs)
// reports Placeholder with no extra bookkeeping.
func (id *Identifier) Type() types.Type { return id.Typ }
func (id *Identifier) SetType(t types.Type) { id.Typ = t }
func (id *Identifier) SetName(n string)     { id.Name = n }

// FunctionCall represents `funcExpr(args...)`.
type FunctionCall struct {
	FuncExpr Expr
	Args     []Expr
}

func (c *FunctionCall) node() {}
func (c *FunctionCall) expr() {}

// Type mirrors the original's computed `type` property: the return type
// of the callee's function type, or a placeholder if the callee's type
// isn't (yet) a function type.
func (c *FunctionCall) Type() types.Type {
	t := c.FuncExpr.Type()
	if !t.IsFunc() {
		return types.NewPlaceholder()
	}
	return t.ReturnType()
}
