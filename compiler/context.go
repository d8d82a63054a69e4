package compiler

import "github.com/fo-lang/foc/ast"

// Context tracks cross-pass bookkeeping for a single compilation: every
// named function (decl or, after pass 1, a renamed literal) indexed by
// name, and the set of "_uniqN" variable names the uniquify pass has
// already handed out, so a repeated uniquify run maps them to themselves
// instead of renaming them again.
//
// Grounded on fo_compiler.py's _ProgramContext (functions, var_types,
// add_var_type asserting on conflict).
type Context struct {
	Functions map[string]ast.Function
	VarTypes  map[string]bool
}

// astFactory builds the synthetic nodes (temporaries, boxing var specs)
// that pass 2 and pass 5 introduce.
var astFactory = ast.NewFactory()

// NewContext builds an empty Context.
func NewContext() *Context {
	return &Context{
		Functions: make(map[string]ast.Function),
		VarTypes:  make(map[string]bool),
	}
}

// RegisterFunction indexes a function (decl or named literal) by name.
// Re-registering the exact same function value under the name it already
// holds is a no-op, not a conflict — this is what makes running pass 1
// twice over the same Context and Program harmless (Scenario F's
// idempotence requirement, ported to pass 1 as well as pass 3). Any other
// name collision is a genuine internal invariant violation: pass 1
// guarantees every distinct function in a program has a unique name
// before any later pass runs.
func (c *Context) RegisterFunction(fn ast.Function) {
	if existing, exists := c.Functions[fn.Name()]; exists {
		if existing == fn {
			return
		}
		panic(&DuplicateFunctionError{Name: fn.Name()})
	}
	c.Functions[fn.Name()] = fn
}

// IsFunctionName reports whether name refers to a registered function
// rather than a variable — reveal (pass 4) needs this distinction because
// a function reference in an expression is never a capture candidate.
func (c *Context) IsFunctionName(name string) bool {
	_, ok := c.Functions[name]
	return ok
}

// DuplicateFunctionError is an internal invariant violation: two
// functions registered under the same name after pass 1 has run.
type DuplicateFunctionError struct{ Name string }

func (e *DuplicateFunctionError) Error() string {
	return "duplicate function name: " + e.Name
}
