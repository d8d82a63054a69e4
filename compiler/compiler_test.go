package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScenarioAClosureOverParameter(t *testing.T) {
	c := &Compiler{}
	result, err := c.Compile(`
		func makeClosure(i int) func() int {
			return func() int { return i; };
		}
		func main() int {
			var f func() int = makeClosure(2);
			return f();
		}
	`)
	require.NoError(t, err)
	assert.Contains(t, result.CSource, "alloc_tuple(2);")
	assert.Contains(t, result.CSource, "gc_alloc_trivial(sizeof(val_t)")
}

func TestCompileScenarioCFlattenArithmetic(t *testing.T) {
	c := &Compiler{}
	result, err := c.Compile(`
		func main() {
			var a int = 1;
			var b int = 2;
			var c int = 3;
			var x int = (a + b) * c;
		}
	`)
	require.NoError(t, err)
	assert.Contains(t, result.CSource, "void main(gc_header_t* context_tuple) {")
}

func TestCompileScenarioEAnonymousLiteralGetsSyntheticName(t *testing.T) {
	c := &Compiler{}
	result, err := c.Compile(`
		func main() {
			func() { return 1; }();
		}
	`)
	require.NoError(t, err)
	_, ok := result.Context.Functions["main_c0"]
	assert.True(t, ok)
}

func TestCompilePropagatesUnresolvedTypeError(t *testing.T) {
	c := &Compiler{}
	_, err := c.Compile(`
		func main() {
			var a int = missingFunc();
		}
	`)
	require.Error(t, err)
	var cerr *CompilerError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnresolvedType, cerr.Kind)
}

func TestCompilePropagatesParseError(t *testing.T) {
	c := &Compiler{}
	_, err := c.Compile(`func main( {`)
	require.Error(t, err)
	var cerr *CompilerError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrParse, cerr.Kind)
}

func TestEmitReturnsSourceOnly(t *testing.T) {
	c := &Compiler{}
	src, err := c.Emit(`func main() {}`)
	require.NoError(t, err)
	assert.Contains(t, src, "void main(gc_header_t* context_tuple) {")
}

func TestBuildWritesGeneratedSourceToOutputPath(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "main.fo")
	out := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(in, []byte(`func main() {}`), 0o644))

	c := &Compiler{}
	require.NoError(t, c.Build(in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "void main(gc_header_t* context_tuple) {")
}

func TestBuildReportsMissingInputFile(t *testing.T) {
	c := &Compiler{}
	err := c.Build(filepath.Join(t.TempDir(), "missing.fo"), filepath.Join(t.TempDir(), "out.c"))
	require.Error(t, err)
}
