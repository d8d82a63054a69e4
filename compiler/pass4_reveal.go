package compiler

import (
	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/scope"
)

// revealFrame is one entry in the scope chain reveal walks outward
// through: the set of names declared directly in this scope, the
// ScopeVarset that owns free/captured bookkeeping for it, and whether
// this frame is a function boundary (as opposed to a plain nested block).
type revealFrame struct {
	declared map[string]bool
	varset   *ast.ScopeVarset
	isFunc   bool
	// funcName is the name of the function this frame belongs to — the
	// frame's own name if isFunc, or the enclosing function's name if this
	// frame is a plain nested block. Used to tell a genuine cross-function
	// capture apart from a local reference to a variable declared in the
	// same function (possibly in an enclosing block).
	funcName string
}

// revealPass computes, for every identifier reference, which scope
// declares it and marks free/captured variables along the way. Grounded
// on fo_compiler.py's _RevealVarsVisitor/_RevealVarsScopeNode: walking the
// scope chain outward from the reference, calling add_free_var on every
// function-boundary frame passed through, and add_captured_var on the
// frame that actually declares the name. Unresolved names (not declared
// anywhere in the chain — e.g. a reference to a top-level var_decl, which
// no pass lowers) are silently ignored, matching the original's swallowed
// ScopeVarsetError.
func revealPass(ctx *Context, prog *ast.Program) {
	var stack scope.Stack[*revealFrame]
	for _, fn := range prog.FunctionDecls {
		revealFunction(ctx, &stack, fn)
	}
}

func revealFunction(ctx *Context, stack *scope.Stack[*revealFrame], fn ast.Function) {
	declared := map[string]bool{}
	for _, p := range fn.Parameters() {
		declared[p.Var.Name] = true
	}
	frame := &revealFrame{declared: declared, varset: fn.Varset(), isFunc: true, funcName: fn.Name()}
	stack.With(frame, func() {
		revealStmts(ctx, stack, fn.Body())
	})
}

func revealBlock(ctx *Context, stack *scope.Stack[*revealFrame], b *ast.Block) {
	frame := &revealFrame{declared: map[string]bool{}, varset: b.Varset(), isFunc: false, funcName: stack.Top().funcName}
	stack.With(frame, func() {
		revealStmts(ctx, stack, b.Stmts)
	})
}

func revealStmts(ctx *Context, stack *scope.Stack[*revealFrame], stmts []ast.Statement) {
	for _, s := range stmts {
		revealStmt(ctx, stack, s)
	}
}

func revealStmt(ctx *Context, stack *scope.Stack[*revealFrame], s ast.Statement) {
	switch st := s.(type) {
	case *ast.Block:
		revealBlock(ctx, stack, st)
	case *ast.VarSpec:
		if st.InitExpr != nil {
			revealExpr(ctx, stack, st.InitExpr)
		}
		stack.Top().declared[st.Var.Name] = true
		stack.Top().varset.AddDeclared(st.Var.Name)
	case *ast.Assignment:
		revealExpr(ctx, stack, st.Expr)
		revealIdentifierName(ctx, stack, st.Var.Name)
	case *ast.Return:
		if st.Expr != nil {
			revealExpr(ctx, stack, st.Expr)
		}
	case *ast.ExpressionStmt:
		revealExpr(ctx, stack, st.Expr)
	}
}

func revealExpr(ctx *Context, stack *scope.Stack[*revealFrame], e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Identifier:
		revealIdentifierName(ctx, stack, ex.Name)
	case *ast.BinaryExpr:
		revealExpr(ctx, stack, ex.LHS)
		revealExpr(ctx, stack, ex.RHS)
	case *ast.UnaryExpr:
		revealExpr(ctx, stack, ex.Expr)
	case *ast.FunctionCall:
		revealExpr(ctx, stack, ex.FuncExpr)
		for _, a := range ex.Args {
			revealExpr(ctx, stack, a)
		}
	case *ast.FunctionLit:
		revealFunction(ctx, stack, ex)
	}
}

// revealIdentifierName walks the scope chain outward from the reference at
// name, calling AddFree on every function-boundary frame passed through and
// AddCaptured on the frame that actually declares the name — but only if
// that declaring frame belongs to a different function than the reference
// site. A name declared and used within the same function (directly or
// through an enclosing block) is a local reference, not a capture, and is
// left untouched, mirroring fo_compiler.py's same-function guard.
func revealIdentifierName(ctx *Context, stack *scope.Stack[*revealFrame], name string) {
	if ctx.IsFunctionName(name) {
		return
	}
	refFuncName := stack.Top().funcName
	frames := stack.FramesOutward()
	defIdx := -1
	for i, frame := range frames {
		if frame.declared[name] {
			defIdx = i
			break
		}
	}
	if defIdx < 0 {
		return
	}
	for _, frame := range frames[:defIdx] {
		if frame.isFunc {
			frame.varset.AddFree(name)
		}
	}
	if def := frames[defIdx]; def.funcName != refFuncName {
		def.varset.AddCaptured(name)
	}
}
