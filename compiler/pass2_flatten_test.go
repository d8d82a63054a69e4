package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/parser"
)

// runNameAndFlatten is the minimal prefix every flatten-level test needs:
// name pass registers ctx.Functions (including any literals), flatten then
// runs against that populated context.
func runNameAndFlatten(t *testing.T, src string) (*Context, *ast.Program) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	ctx := NewContext()
	namePass(ctx, prog)
	flattenPass(ctx)
	return ctx, prog
}

func TestFlattenSplitsVarSpecDeclarationFromInitializer(t *testing.T) {
	ctx, _ := runNameAndFlatten(t, `
		func main() {
			var x int = 1;
		}
	`)
	fn := ctx.Functions["main"]
	require.Len(t, fn.Body(), 2)

	spec, ok := fn.Body()[0].(*ast.VarSpec)
	require.True(t, ok)
	assert.Equal(t, "x", spec.Var.Name)
	assert.Nil(t, spec.InitExpr, "code_gen expects every VarSpec to be declaration-only")

	assign, ok := fn.Body()[1].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Var.Name)
	lit, ok := assign.Expr.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Val)
}

func TestFlattenHoistsArithmeticScenarioC(t *testing.T) {
	// var x int = (a + b) * c;
	ctx, _ := runNameAndFlatten(t, `
		func main(a int, b int, c int) {
			var x int = (a + b) * c;
		}
	`)
	fn := ctx.Functions["main"]
	stmts := fn.Body()
	require.Len(t, stmts, 4)

	hoistSpec, ok := stmts[0].(*ast.VarSpec)
	require.True(t, ok)
	hoistAssign, ok := stmts[1].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, hoistSpec.Var.Name, hoistAssign.Var.Name)
	hoistedBinary, ok := hoistAssign.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", hoistedBinary.Op)

	xSpec, ok := stmts[2].(*ast.VarSpec)
	require.True(t, ok)
	assert.Equal(t, "x", xSpec.Var.Name)
	assert.Nil(t, xSpec.InitExpr)

	xAssign, ok := stmts[3].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "x", xAssign.Var.Name)
	topBinary, ok := xAssign.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", topBinary.Op)

	lhsIdent, ok := topBinary.LHS.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, hoistSpec.Var.Name, lhsIdent.Name)
}

func TestFlattenLeavesBareVarSpecAlone(t *testing.T) {
	ctx, _ := runNameAndFlatten(t, `
		func main() {
			var x int;
		}
	`)
	fn := ctx.Functions["main"]
	require.Len(t, fn.Body(), 1)
	spec, ok := fn.Body()[0].(*ast.VarSpec)
	require.True(t, ok)
	assert.Nil(t, spec.InitExpr)
}

func TestFlattenHoistsReturnOfNonPrimitive(t *testing.T) {
	ctx, _ := runNameAndFlatten(t, `
		func main(a int, b int) int {
			return a + b;
		}
	`)
	fn := ctx.Functions["main"]
	stmts := fn.Body()
	require.Len(t, stmts, 3)

	_, ok := stmts[0].(*ast.VarSpec)
	assert.True(t, ok)
	_, ok = stmts[1].(*ast.Assignment)
	assert.True(t, ok)

	ret, ok := stmts[2].(*ast.Return)
	require.True(t, ok)
	ident, ok := ret.Expr.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, stmts[0].(*ast.VarSpec).Var.Name, ident.Name)
}

func TestFlattenLeavesReturnOfIdentifierAlone(t *testing.T) {
	ctx, _ := runNameAndFlatten(t, `
		func main(a int) int {
			return a;
		}
	`)
	fn := ctx.Functions["main"]
	require.Len(t, fn.Body(), 1)
	ret, ok := fn.Body()[0].(*ast.Return)
	require.True(t, ok)
	ident, ok := ret.Expr.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "a", ident.Name)
}

func TestFlattenHoistsCallArgumentButNotBareCallee(t *testing.T) {
	ctx, _ := runNameAndFlatten(t, `
		func add(a int, b int) int { return a + b; }
		func main() {
			add(1 + 2, 3);
		}
	`)
	fn := ctx.Functions["main"]
	stmts := fn.Body()
	// The non-primitive first argument (1 + 2) is hoisted into its own
	// var+assignment pair ahead of the call statement; the callee "add"
	// is a bare identifier, which never needs hoisting.
	require.Len(t, stmts, 3)

	_, ok := stmts[0].(*ast.VarSpec)
	assert.True(t, ok)
	argAssign, ok := stmts[1].(*ast.Assignment)
	require.True(t, ok)
	_, ok = argAssign.Expr.(*ast.BinaryExpr)
	assert.True(t, ok)

	exprStmt, ok := stmts[2].(*ast.ExpressionStmt)
	require.True(t, ok)
	call, ok := exprStmt.Expr.(*ast.FunctionCall)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	firstArg, ok := call.Args[0].(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, stmts[0].(*ast.VarSpec).Var.Name, firstArg.Name)
	secondArg, ok := call.Args[1].(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(3), secondArg.Val)
}
