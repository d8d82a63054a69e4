package compiler

import (
	"fmt"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/scope"
)

// nameFrame counts, per enclosing named function, how many anonymous
// function literals have been named so far — grounded on
// fo_compiler.py's _FunctionNameScopeNode.
type nameFrame struct {
	baseName string
	counter  int
}

// namePass assigns every anonymous FunctionLit a unique name derived from
// its enclosing function ("outer_c0", "outer_c1", ...) and registers every
// function (decl or literal) into ctx.Functions. Grounded on
// fo_compiler.py's _AssignFunctionLitNameVisitor.
func namePass(ctx *Context, prog *ast.Program) {
	var stack scope.Stack[*nameFrame]
	for _, fn := range prog.FunctionDecls {
		nameFunctionTree(ctx, &stack, fn)
	}
}

func nameFunctionTree(ctx *Context, stack *scope.Stack[*nameFrame], fn ast.Function) {
	ctx.RegisterFunction(fn)
	frame := &nameFrame{baseName: fn.Name()}
	stack.With(frame, func() {
		nameStatements(ctx, stack, fn.Body())
	})
}

func nameStatements(ctx *Context, stack *scope.Stack[*nameFrame], stmts []ast.Statement) {
	for _, s := range stmts {
		nameStatement(ctx, stack, s)
	}
}

func nameStatement(ctx *Context, stack *scope.Stack[*nameFrame], s ast.Statement) {
	switch st := s.(type) {
	case *ast.Block:
		nameStatements(ctx, stack, st.Stmts)
	case *ast.VarSpec:
		if st.InitExpr != nil {
			nameExpr(ctx, stack, st.InitExpr)
		}
	case *ast.Assignment:
		nameExpr(ctx, stack, st.Expr)
	case *ast.Return:
		if st.Expr != nil {
			nameExpr(ctx, stack, st.Expr)
		}
	case *ast.ExpressionStmt:
		nameExpr(ctx, stack, st.Expr)
	}
}

func nameExpr(ctx *Context, stack *scope.Stack[*nameFrame], e ast.Expr) {
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		nameExpr(ctx, stack, ex.LHS)
		nameExpr(ctx, stack, ex.RHS)
	case *ast.UnaryExpr:
		nameExpr(ctx, stack, ex.Expr)
	case *ast.FunctionCall:
		for _, a := range ex.Args {
			nameExpr(ctx, stack, a)
		}
		nameExpr(ctx, stack, ex.FuncExpr)
	case *ast.FunctionLit:
		frame := stack.Top()
		name := fmt.Sprintf("%s_c%d", frame.baseName, frame.counter)
		frame.counter++
		ex.SetName(name)
		nameFunctionTree(ctx, stack, ex)
	}
}
