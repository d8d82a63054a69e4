package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasicProgram(t *testing.T) {
	src := `func add(a int, b int) int {
		return a + b;
	}`
	toks, err := Tokenize(src)
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		Func, Ident, LParen, Ident, Ident, Comma, Ident, Ident, RParen, Ident, LBrace,
		Return, Ident, AddOp, Ident, Semicolon,
		RBrace, EOF,
	}, kinds)
}

func TestTokenizeNumbers(t *testing.T) {
	toks, err := Tokenize("0 42 3.14 .5 7.")
	require.NoError(t, err)
	require.Len(t, toks, 6)
	assert.Equal(t, IntLit, toks[0].Kind)
	assert.Equal(t, "0", toks[0].Text)
	assert.Equal(t, IntLit, toks[1].Kind)
	assert.Equal(t, FloatLit, toks[2].Kind)
	assert.Equal(t, "3.14", toks[2].Text)
	assert.Equal(t, FloatLit, toks[3].Kind)
	assert.Equal(t, FloatLit, toks[4].Kind)
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := Tokenize("<- && || == != <= >= < > ! = + - * / %")
	require.NoError(t, err)
	kinds := make([]Kind, 0, len(toks)-1)
	for _, tok := range toks[:len(toks)-1] {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		LArrow, AndOp, OrOp, RelOp, RelOp, RelOp, RelOp, RelOp, RelOp, NotOp,
		Equal, AddOp, MinusOp, TimesOp, DivideOp, ModuloOp,
	}, kinds)
}

func TestTokenizeLineComment(t *testing.T) {
	toks, err := Tokenize("var x int; // trailing comment\nvar y int;")
	require.NoError(t, err)
	assert.Equal(t, Var, toks[0].Kind)
	// line comment produces no tokens at all
	var varCount int
	for _, tok := range toks {
		if tok.Kind == Var {
			varCount++
		}
	}
	assert.Equal(t, 2, varCount)
}

func TestTokenizeUnknownByteIsError(t *testing.T) {
	_, err := Tokenize("var x int = @;")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
}

func TestKeywordsAreReserved(t *testing.T) {
	toks, err := Tokenize("break chan continue else fo for func if return select type var")
	require.NoError(t, err)
	want := []Kind{Break, Chan, Continue, Else, Fo, For, Func, If, Return, Select, Type, Var}
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind)
	}
}
