package compiler

import "github.com/fo-lang/foc/ast"

// fixAstPass rewrites every function that has at least one captured
// parameter: the parameter itself is renamed to "name_raw", and a
// `var name T; name = name_raw;` pair is prepended to the body. Pass 7
// recognizes a var_spec declaring a captured name and allocates a boxed
// heap slot for it instead of a plain local, so every later reference to
// the original parameter name (inside this function or a nested closure)
// goes through the box. Grounded on fo_compiler.py's
// _FixAstVisitor._visit_function.
func fixAstPass(ctx *Context) {
	for _, fn := range ctx.Functions {
		captured := map[string]bool{}
		for _, name := range fn.Varset().CapturedVars() {
			captured[name] = true
		}

		var prelude []ast.Statement
		for _, p := range fn.Parameters() {
			if !captured[p.Var.Name] {
				continue
			}
			orig := p.Var.Name
			origType := p.Var.Typ
			raw := orig + "_raw"
			p.Var.Name = raw

			prelude = append(prelude, astFactory.VarSpecOf(orig, origType, 0))
			prelude = append(prelude, astFactory.AssignmentOf(orig, origType, astFactory.Ident(raw, origType), 0))
		}

		if len(prelude) > 0 {
			fn.SetBody(append(prelude, fn.Body()...))
		}
	}
}
