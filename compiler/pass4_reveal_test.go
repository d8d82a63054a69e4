package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fo-lang/foc/parser"
)

func compileThroughReveal(t *testing.T, src string) *Context {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	ctx := NewContext()
	namePass(ctx, prog)
	flattenPass(ctx)
	uniquifyPass(ctx, prog)
	revealPass(ctx, prog)
	return ctx
}

func TestRevealScenarioAClosureOverParameter(t *testing.T) {
	ctx := compileThroughReveal(t, `
		func makeClosure(i int) func() int {
			return func() int { return i; };
		}
		func main() {
			var f func() int = makeClosure(2);
			var r int = f();
		}
	`)

	makeClosure := ctx.Functions["makeClosure"]
	require.Len(t, makeClosure.Varset().CapturedVars(), 1)

	lit := ctx.Functions["makeClosure_c0"]
	require.Len(t, lit.Varset().FreeVars(), 1)

	// The captured/free name is the uniquified parameter "i", not the raw
	// source name — confirm it's the same identifier on both ends.
	assert.Equal(t, makeClosure.Varset().CapturedVars()[0], lit.Varset().FreeVars()[0])
}

func TestRevealScenarioBTwoLevelCapture(t *testing.T) {
	ctx := compileThroughReveal(t, `
		func outer(i int) func() int {
			return func() func() int {
				var j int = 2;
				return func() int { i = i + j; return i; };
			}();
		}
	`)

	outer := ctx.Functions["outer"]
	require.Len(t, outer.Varset().CapturedVars(), 1)

	middle := ctx.Functions["outer_c0"]
	require.Len(t, middle.Varset().FreeVars(), 1)
	require.Len(t, middle.Varset().CapturedVars(), 1)

	innermost := ctx.Functions["outer_c0_c0"]
	require.Len(t, innermost.Varset().FreeVars(), 2)
}

func TestRevealLeavesUncapturedLocalsAlone(t *testing.T) {
	ctx := compileThroughReveal(t, `
		func main() {
			var x int = 1;
			var y int = x;
		}
	`)
	main := ctx.Functions["main"]
	assert.Empty(t, main.Varset().CapturedVars())
	assert.Empty(t, main.Varset().FreeVars())
}

func TestRevealIgnoresFunctionNameReferences(t *testing.T) {
	ctx := compileThroughReveal(t, `
		func helper() int { return 1; }
		func main() int { return helper(); }
	`)
	main := ctx.Functions["main"]
	// "helper" is a function reference, never a capture candidate.
	assert.Empty(t, main.Varset().FreeVars())
	assert.Empty(t, main.Varset().CapturedVars())
}
