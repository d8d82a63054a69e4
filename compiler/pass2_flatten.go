package compiler

import (
	"fmt"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/types"
)

// flattenPass lowers every registered function's body to three-address
// form: any non-primitive subexpression (an operand of a binary/unary
// expression, the callee or an argument of a call) is hoisted into a
// freshly named placeholder-typed variable before the statement that uses
// it. Grounded on fo_compiler.py's _FlattenVisitor/_FlattenScopeNode
// (alloc_assigned_var_name and the per-construct hoisting rules).
func flattenPass(ctx *Context) {
	for _, fn := range ctx.Functions {
		counter := 0
		allocName := func(scopeName, info string) string {
			name := fmt.Sprintf("%s_%s_flat%d", scopeName, info, counter)
			counter++
			return name
		}
		fn.SetBody(flattenStmts(fn.Name(), fn.Body(), allocName))
	}
}

// isPrimitiveArg mirrors fo_compiler.py's _is_primitve_arg: identifiers and
// literals never need hoisting, everything else might.
func isPrimitiveArg(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.IntLit, *ast.FloatLit:
		return true
	default:
		return false
	}
}

// nameForHoist implements spec §4.3's two temp-naming schemes. A binary or
// unary operand is anchored to the variable its result feeds into —
// "x_lhs", "x_rhs", "x_unary" — so it reads naturally next to the
// assignment it serves, mirroring Scenario C's x_lhs. A call's callee or
// argument, or a hoisted return/expression-statement value, has no such
// variable to anchor to and instead gets a counter-suffixed name scoped to
// the enclosing function: "main_arg_flat0", "main_retarg_flat1", etc.
func nameForHoist(scopeName, varName, suffix string, allocName func(string, string) string) string {
	switch suffix {
	case "lhs", "rhs", "unary":
		return varName + "_" + suffix
	default:
		return allocName(scopeName, suffix)
	}
}

// hoist materializes e into a fresh placeholder-typed variable (unless e
// is already primitive) and returns an Identifier referencing it. The
// declaration and its initializing assignment are emitted as two separate
// statements, not one combined var-with-initializer node, for the same
// reason the VarSpec case in flattenStmts splits them: code_gen expects
// every VarSpec it sees is declaration-only.
func hoist(e ast.Expr, scopeName, varName, suffix string, allocName func(string, string) string, emit func(ast.Statement), line int) ast.Expr {
	if isPrimitiveArg(e) {
		return e
	}
	name := nameForHoist(scopeName, varName, suffix, allocName)
	placeholder := types.NewPlaceholder()
	emit(astFactory.VarSpecOf(name, placeholder, line))
	emit(astFactory.AssignmentOf(name, placeholder, e, line))
	return astFactory.Ident(name, placeholder)
}

// flattenExprChildren rewrites e's immediate children in place, hoisting
// any compound subexpression, but leaves e itself un-hoisted — the caller
// decides whether e, as a whole, needs hoisting too. scopeName is the
// enclosing function's name (used for the call/retarg/expr flat scheme);
// varName is the variable (or hoisted temporary) this expression's value is
// assigned into, or empty when there isn't one (used for the lhs/rhs/unary
// scheme); the operands of a hoisted operand are anchored to that operand's
// own temporary, so "x_lhs" gets "x_lhs_lhs", and so on.
func flattenExprChildren(scopeName, varName string, e ast.Expr, allocName func(string, string) string, emit func(ast.Statement), line int) ast.Expr {
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		ex.LHS = hoist(flattenExprChildren(scopeName, varName+"_lhs", ex.LHS, allocName, emit, line), scopeName, varName, "lhs", allocName, emit, line)
		ex.RHS = hoist(flattenExprChildren(scopeName, varName+"_rhs", ex.RHS, allocName, emit, line), scopeName, varName, "rhs", allocName, emit, line)
		return ex
	case *ast.UnaryExpr:
		ex.Expr = hoist(flattenExprChildren(scopeName, varName+"_unary", ex.Expr, allocName, emit, line), scopeName, varName, "unary", allocName, emit, line)
		return ex
	case *ast.FunctionCall:
		ex.FuncExpr = hoist(flattenExprChildren(scopeName, varName, ex.FuncExpr, allocName, emit, line), scopeName, varName, "func_call", allocName, emit, line)
		for i, a := range ex.Args {
			ex.Args[i] = hoist(flattenExprChildren(scopeName, varName, a, allocName, emit, line), scopeName, varName, "arg", allocName, emit, line)
		}
		return ex
	default:
		// Identifier, IntLit, FloatLit, FunctionLit: no children to hoist.
		// A FunctionLit's own body is flattened independently since it is
		// registered in ctx.Functions in its own right.
		return e
	}
}

func flattenStmts(scopeName string, stmts []ast.Statement, allocName func(string, string) string) []ast.Statement {
	var out []ast.Statement
	emit := func(s ast.Statement) { out = append(out, s) }

	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.Block:
			st.Stmts = flattenStmts(scopeName, st.Stmts, allocName)
			emit(st)

		case *ast.VarSpec:
			// var foo T = initExpr; splits into a bare declaration plus an
			// ordinary assignment, mirroring fo_compiler.py's
			// visit_var_spec — so that by the time code_gen runs, every
			// VarSpec it sees is declaration-only (its visit_var_spec
			// asserts init_expr is None).
			if st.InitExpr == nil {
				emit(st)
				continue
			}
			initExpr := flattenExprChildren(scopeName, st.Var.Name, st.InitExpr, allocName, emit, st.Line())
			emit(astFactory.VarSpecOf(st.Var.Name, st.Var.Typ, st.Line()))
			emit(astFactory.AssignmentOf(st.Var.Name, st.Var.Typ, initExpr, st.Line()))

		case *ast.Assignment:
			st.Expr = flattenExprChildren(scopeName, st.Var.Name, st.Expr, allocName, emit, st.Line())
			emit(st)

		case *ast.Return:
			if st.Expr != nil {
				st.Expr = flattenExprChildren(scopeName, "", st.Expr, allocName, emit, st.Line())
				st.Expr = hoist(st.Expr, scopeName, "", "retarg", allocName, emit, st.Line())
			}
			emit(st)

		case *ast.ExpressionStmt:
			st.Expr = flattenExprChildren(scopeName, "", st.Expr, allocName, emit, st.Line())
			emit(st)

		default:
			emit(s)
		}
	}
	return out
}
