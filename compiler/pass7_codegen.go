package compiler

import (
	"fmt"
	"sort"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/types"
)

const gcHeaderType = "gc_header_t*"

// codeGenPass lowers every function in ctx.Functions to C, grounded on
// fo_compiler.py's _CodeGenVisitor: closures are heap tuples (slot 0 the
// function pointer, slots 1..n the free variables, in FreeVars order);
// captured locals are single-slot boxes allocated with
// gc_alloc_trivial and dereferenced through GC_TO_OBJ on every read or
// write. Functions are emitted in name-sorted order for determinism —
// the original iterates an unordered Python dict, so any order is
// semantically equivalent; here it's made reproducible instead.
func codeGenPass(ctx *Context) string {
	w := &cWriter{}

	headers := []string{
		`#include "runtime/base.h"`,
		`#include "runtime/gc.h"`,
		`#include "runtime/gc_header.h"`,
		`#include "runtime/memory.h"`,
		`#include "runtime/tuple.h"`,
	}
	for _, h := range headers {
		w.Line("%s", h)
	}

	names := make([]string, 0, len(ctx.Functions))
	for name := range ctx.Functions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w.Line("")
		defineFunction(ctx, w, ctx.Functions[name])
	}

	return w.String()
}

func cTypeName(t types.Type) string {
	switch t.Kind() {
	case types.Bool:
		return "bool"
	case types.Int:
		return "int64_t"
	case types.Float:
		return "double"
	case types.Void:
		return "void"
	default:
		return gcHeaderType
	}
}

func cFuncPtrType(t types.Type) string {
	result := cTypeName(t.ReturnType()) + "(*)(" + gcHeaderType
	for _, pt := range t.ParamTypes() {
		result += ", " + cTypeName(pt)
	}
	result += ")"
	return result
}

func defineFunction(ctx *Context, w *cWriter, fn ast.Function) {
	w.Line("%s %s(%s context_tuple%s) {", cTypeName(fn.ReturnType()), fn.Name(), gcHeaderType, paramList(fn))
	w.Indent()

	for i, name := range fn.Varset().FreeVars() {
		w.Line("%s %s = (%s)get_tuple_at(context_tuple, %d);", gcHeaderType, name, gcHeaderType, i+1)
	}

	cg := &codeGen{ctx: ctx, fn: fn}
	for _, stmt := range fn.Body() {
		cg.stmt(w, stmt)
	}

	w.Dedent()
	w.Line("}")
}

func paramList(fn ast.Function) string {
	out := ""
	for _, p := range fn.Parameters() {
		out += fmt.Sprintf(", %s %s", cTypeName(p.Var.Typ), p.Var.Name)
	}
	return out
}

// codeGen carries the one piece of state every statement/expr visit needs:
// which function's ScopeVarset governs captured/free lookups right now.
type codeGen struct {
	ctx *Context
	fn  ast.Function
}

func (cg *codeGen) idExpr(name string) string {
	vs := cg.fn.Varset()
	if contains(vs.CapturedVars(), name) || contains(vs.FreeVars(), name) {
		return fmt.Sprintf("*GC_TO_OBJ(FAKE_TYPE, %s)", name)
	}
	return name
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (cg *codeGen) stmt(w *cWriter, s ast.Statement) {
	switch st := s.(type) {
	case *ast.Block:
		w.Line("{")
		w.Indent()
		for _, inner := range st.Stmts {
			cg.stmt(w, inner)
		}
		w.Dedent()
		w.Line("}")

	case *ast.VarSpec:
		if contains(cg.fn.Varset().CapturedVars(), st.Var.Name) {
			w.Line("%s %s = gc_alloc_trivial(sizeof(val_t), get_trivial_obj_operators());", gcHeaderType, st.Var.Name)
			return
		}
		w.Line("%s %s = (%s)0;", cTypeName(st.Var.Typ), st.Var.Name, cTypeName(st.Var.Typ))

	case *ast.Assignment:
		if cg.isFunctionRef(st.Expr) {
			cg.assignFunction(w, st.Var.Name, st.Expr)
			return
		}
		w.Line("%s = %s;", cg.idExpr(st.Var.Name), cg.expr(st.Expr))

	case *ast.Return:
		if st.Expr == nil {
			w.Line("return;")
			return
		}
		w.Line("return %s;", cg.expr(st.Expr))

	case *ast.ExpressionStmt:
		w.Line("(%s);", cg.expr(st.Expr))
	}
}

// isFunctionRef reports whether expr is a function literal or a
// reference to a top-level function, the two shapes that must be
// lowered to a tuple allocation instead of a plain C assignment.
func (cg *codeGen) isFunctionRef(e ast.Expr) bool {
	switch ex := e.(type) {
	case *ast.FunctionLit:
		return true
	case *ast.Identifier:
		return cg.ctx.IsFunctionName(ex.Name)
	default:
		return false
	}
}

// assignFunction emits the closure tuple allocation: slot 0 gets the
// function pointer, slots 1..n get the free variables captured at the
// point the closure was created, in FreeVars order.
func (cg *codeGen) assignFunction(w *cWriter, varName string, expr ast.Expr) {
	var target ast.Function
	switch ex := expr.(type) {
	case *ast.FunctionLit:
		target = cg.ctx.Functions[ex.LitName]
	case *ast.Identifier:
		target = cg.ctx.Functions[ex.Name]
	}

	varCExpr := cg.idExpr(varName)
	free := target.Varset().FreeVars()
	w.Line("%s = alloc_tuple(%d);", varCExpr, 1+len(free))
	w.Line("set_tuple_at(%s, 0, (val_t)%s, /*needs_gc=*/false);", varCExpr, target.Name())
	for i, fvar := range free {
		w.Line("set_tuple_at(%s, %d, (val_t)%s, /*needs_gc=*/false);", varCExpr, i+1, fvar)
	}
}

func (cg *codeGen) expr(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.Identifier:
		return cg.idExpr(ex.Name)
	case *ast.IntLit:
		return fmt.Sprintf("%d", ex.Val)
	case *ast.FloatLit:
		return fmt.Sprintf("%v", ex.Val)
	case *ast.UnaryExpr:
		return fmt.Sprintf("%s (%s)", ex.Op, cg.expr(ex.Expr))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s) %s (%s)", cg.expr(ex.LHS), ex.Op, cg.expr(ex.RHS))
	case *ast.FunctionCall:
		return cg.call(ex)
	default:
		return ""
	}
}

// call lowers a call site: a direct call to a top-level function decl
// dereferences no tuple and passes NULL as the (unused) context_tuple
// argument; any other callee (a closure value) is invoked through its
// tuple's slot-0 function pointer, cast to the right C function-pointer
// type, with the tuple itself threaded through as context_tuple.
func (cg *codeGen) call(fc *ast.FunctionCall) string {
	ident, _ := fc.FuncExpr.(*ast.Identifier)

	isPlain := false
	if ident != nil {
		if target, ok := cg.ctx.Functions[ident.Name]; ok {
			if _, ok := target.(*ast.FunctionDecl); ok {
				isPlain = true
			}
		}
	}

	var callee, ctxArg string
	if isPlain {
		callee = ident.Name
		ctxArg = "NULL"
	} else {
		funcExprCode := cg.expr(fc.FuncExpr)
		callee = fmt.Sprintf("((%s)get_tuple_at(%s, 0))", cFuncPtrType(fc.FuncExpr.Type()), funcExprCode)
		ctxArg = funcExprCode
	}

	out := callee + "(" + ctxArg
	for _, a := range fc.Args {
		out += ", " + cg.expr(a)
	}
	out += ")"
	return out
}
