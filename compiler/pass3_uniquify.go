package compiler

import (
	"fmt"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/scope"
)

// uniquifyPass renames every declared variable and parameter to a
// globally unique name ("name_uniqN"), so later passes never have to
// worry about shadowing across nested scopes. Function names are
// pre-registered as identity mappings in the outermost frame, matching
// fo_compiler.py's _UniquifyVisitor/_UniquifyScopeEnvNode: a per-name
// counter shared across the whole program (_global_key_count), and
// function names installed before any scope walking starts so a call to
// a sibling function is never mistaken for an unresolved variable.
func uniquifyPass(ctx *Context, prog *ast.Program) {
	var stack scope.Stack[map[string]string]
	counts := map[string]int{}

	root := map[string]string{}
	for name := range ctx.Functions {
		root[name] = name
	}
	stack.Push(root)

	for _, fn := range prog.FunctionDecls {
		uniquifyFunction(ctx, &stack, counts, fn)
	}
}

// uniquifyRegister renames name to a fresh "name_uniqN" and records that
// name in ctx.VarTypes, the registry of every name this pass has handed
// out. A name already present in that registry is the product of a
// previous run of this same pass over this same Context — mapped to
// itself, not renamed again — so a second uniquify pass over an
// already-uniquified program is a no-op (Scenario F).
func uniquifyRegister(ctx *Context, stack *scope.Stack[map[string]string], counts map[string]int, name string) string {
	if ctx.VarTypes[name] {
		stack.Top()[name] = name
		return name
	}
	unique := fmt.Sprintf("%s_uniq%d", name, counts[name])
	counts[name]++
	ctx.VarTypes[unique] = true
	stack.Top()[name] = unique
	return unique
}

func uniquifyLookup(stack *scope.Stack[map[string]string], name string) string {
	for _, frame := range stack.FramesOutward() {
		if mapped, ok := frame[name]; ok {
			return mapped
		}
	}
	return name
}

func uniquifyFunction(ctx *Context, stack *scope.Stack[map[string]string], counts map[string]int, fn ast.Function) {
	frame := map[string]string{}
	stack.With(frame, func() {
		for _, p := range fn.Parameters() {
			p.Var.Name = uniquifyRegister(ctx, stack, counts, p.Var.Name)
		}
		uniquifyStmts(ctx, stack, counts, fn.Body())
	})
}

func uniquifyStmts(ctx *Context, stack *scope.Stack[map[string]string], counts map[string]int, stmts []ast.Statement) {
	for _, s := range stmts {
		uniquifyStmt(ctx, stack, counts, s)
	}
}

func uniquifyStmt(ctx *Context, stack *scope.Stack[map[string]string], counts map[string]int, s ast.Statement) {
	switch st := s.(type) {
	case *ast.Block:
		frame := map[string]string{}
		stack.With(frame, func() {
			uniquifyStmts(ctx, stack, counts, st.Stmts)
		})
	case *ast.VarSpec:
		if st.InitExpr != nil {
			uniquifyExpr(ctx, stack, counts, st.InitExpr)
		}
		st.Var.Name = uniquifyRegister(ctx, stack, counts, st.Var.Name)
	case *ast.Assignment:
		uniquifyExpr(ctx, stack, counts, st.Expr)
		st.Var.Name = uniquifyLookup(stack, st.Var.Name)
	case *ast.Return:
		if st.Expr != nil {
			uniquifyExpr(ctx, stack, counts, st.Expr)
		}
	case *ast.ExpressionStmt:
		uniquifyExpr(ctx, stack, counts, st.Expr)
	}
}

func uniquifyExpr(ctx *Context, stack *scope.Stack[map[string]string], counts map[string]int, e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Identifier:
		ex.Name = uniquifyLookup(stack, ex.Name)
	case *ast.BinaryExpr:
		uniquifyExpr(ctx, stack, counts, ex.LHS)
		uniquifyExpr(ctx, stack, counts, ex.RHS)
	case *ast.UnaryExpr:
		uniquifyExpr(ctx, stack, counts, ex.Expr)
	case *ast.FunctionCall:
		uniquifyExpr(ctx, stack, counts, ex.FuncExpr)
		for _, a := range ex.Args {
			uniquifyExpr(ctx, stack, counts, a)
		}
	case *ast.FunctionLit:
		uniquifyFunction(ctx, stack, counts, ex)
	}
}
