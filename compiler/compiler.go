package compiler

import (
	"errors"
	"fmt"
	"os"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/lexer"
	"github.com/fo-lang/foc/parser"
)

// Compiler orchestrates the full seven-pass lowering pipeline, from
// source text to generated C. Grounded on the teacher's compiler.Compiler
// entry-point shape — a handful of exported config fields driving a
// single Compile method — rather than a config file or env-var setup.
type Compiler struct {
	// EmitLineDirectives is a forward-compatible knob mirroring the
	// teacher's TestMode-style boolean switches; C codegen does not yet
	// emit //line directives (there is no single shared convention across
	// the runtime's C toolchains), so this currently has no effect.
	EmitLineDirectives bool
}

// CompileResult holds the output of a successful compilation: the
// generated C source plus the Context accumulated along the way, which
// callers such as the `ast` CLI subcommand use to inspect per-function
// free/captured variable sets once the whole pipeline has run.
type CompileResult struct {
	CSource string
	Context *Context
	Program *ast.Program
}

// namedPass wraps a pass that mutates ctx/prog in place into an
// ast.Transform: runPass still supplies the panic-recovery chokepoint,
// but any resulting *CompilerError is re-raised as a panic so it can
// propagate through ast.Chain's plain *Program-to-*Program signature,
// then recovered once at the top of Compile.
func namedPass(name string, ctx *Context, fn func(ctx *Context, prog *ast.Program)) ast.Transform {
	return ast.TransformFunc{
		N: name,
		F: func(prog *ast.Program) *ast.Program {
			if err := runPass(name, func() { fn(ctx, prog) }); err != nil {
				panic(err)
			}
			return prog
		},
	}
}

// Compile lexes and parses src (delegating to package parser) and then
// runs the seven lowering/codegen passes in fixed order:
// assign_function_lit_name, flatten, uniquify_vars, reveal_vars, fix_ast,
// assign_check_types, code_gen. The first five are order-dependent,
// program-mutating steps wired together with ast.Chain; assign_check_types
// and code_gen don't fit that *Program-to-*Program shape (one returns an
// error, the other a string) so they run as their own runPass calls
// after the chain completes.
func (c *Compiler) Compile(src string) (result *CompileResult, err error) {
	prog, perr := parser.Parse(src)
	if perr != nil {
		kind := ErrParse
		var lexErr *lexer.Error
		if errors.As(perr, &lexErr) {
			kind = ErrLex
		}
		return nil, &CompilerError{Kind: kind, Msg: perr.Error()}
	}

	ctx := NewContext()

	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CompilerError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	chain := ast.Chain(
		namedPass("assign_function_lit_name", ctx, func(ctx *Context, prog *ast.Program) { namePass(ctx, prog) }),
		namedPass("flatten", ctx, func(ctx *Context, prog *ast.Program) { flattenPass(ctx) }),
		namedPass("uniquify_vars", ctx, func(ctx *Context, prog *ast.Program) { uniquifyPass(ctx, prog) }),
		namedPass("reveal_vars", ctx, func(ctx *Context, prog *ast.Program) { revealPass(ctx, prog) }),
		namedPass("fix_ast", ctx, func(ctx *Context, prog *ast.Program) { fixAstPass(ctx) }),
	)
	prog = chain.Transform(prog)

	var inferErr error
	if err := runPass("assign_check_types", func() {
		inferErr = inferPass(ctx)
	}); err != nil {
		return nil, err
	}
	if inferErr != nil {
		return nil, inferErr
	}

	var csource string
	if err := runPass("code_gen", func() { csource = codeGenPass(ctx) }); err != nil {
		return nil, err
	}

	return &CompileResult{CSource: csource, Context: ctx, Program: prog}, nil
}

// Emit compiles src and returns just the generated C source — the shape
// the `emit` CLI subcommand needs.
func (c *Compiler) Emit(src string) (string, error) {
	result, err := c.Compile(src)
	if err != nil {
		return "", err
	}
	return result.CSource, nil
}

// Build reads the .fo source at path, compiles it, and writes the
// generated C source to outPath.
func (c *Compiler) Build(path, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := c.Compile(string(data))
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, []byte(result.CSource), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
