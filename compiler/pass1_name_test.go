package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/parser"
)

func TestNamePassAssignsNestedLitNames(t *testing.T) {
	prog, err := parser.Parse(`
		func main() {
			func() { return 1; }();
		}
	`)
	require.NoError(t, err)

	ctx := NewContext()
	namePass(ctx, prog)

	_, ok := ctx.Functions["main"]
	require.True(t, ok)
	_, ok = ctx.Functions["main_c0"]
	require.True(t, ok, "anonymous literal should be registered as main_c0")
}

func TestNamePassCountsSiblingLitsIndependently(t *testing.T) {
	prog, err := parser.Parse(`
		func main() {
			var a func() int = func() int { return 1; };
			var b func() int = func() int { return 2; };
		}
	`)
	require.NoError(t, err)

	ctx := NewContext()
	namePass(ctx, prog)

	_, ok := ctx.Functions["main_c0"]
	assert.True(t, ok)
	_, ok = ctx.Functions["main_c1"]
	assert.True(t, ok)
}

func TestNamePassNestsCounterPerEnclosingFunction(t *testing.T) {
	prog, err := parser.Parse(`
		func outer() func() int {
			return func() int {
				return func() int { return 1; }();
			};
		}
	`)
	require.NoError(t, err)

	ctx := NewContext()
	namePass(ctx, prog)

	_, ok := ctx.Functions["outer_c0"]
	require.True(t, ok)
	// The innermost literal is named relative to its own immediate
	// enclosing literal, not the top-level function.
	_, ok = ctx.Functions["outer_c0_c0"]
	require.True(t, ok)
}

func TestNamePassIdempotentSecondRun(t *testing.T) {
	prog, err := parser.Parse(`
		func main() {
			func() { return 1; }();
		}
	`)
	require.NoError(t, err)
	ctx := NewContext()
	namePass(ctx, prog)

	before := make([]string, 0, len(ctx.Functions))
	for name := range ctx.Functions {
		before = append(before, name)
	}

	require.NotPanics(t, func() { namePass(ctx, prog) })

	after := make([]string, 0, len(ctx.Functions))
	for name := range ctx.Functions {
		after = append(after, name)
	}
	assert.ElementsMatch(t, before, after)
}

func TestNamePassDuplicateFunctionNamePanics(t *testing.T) {
	fn1 := &ast.FunctionDecl{FuncName: "dup"}
	fn2 := &ast.FunctionDecl{FuncName: "dup"}
	ctx := NewContext()
	ctx.RegisterFunction(fn1)
	assert.PanicsWithError(t, (&DuplicateFunctionError{Name: "dup"}).Error(), func() {
		ctx.RegisterFunction(fn2)
	})
}
