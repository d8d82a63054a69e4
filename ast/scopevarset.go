package ast

import "fmt"

// DuplicateVarError is raised as a panic when a name is added to a
// ScopeVarset's declared-vars set twice. It signals a compiler invariant
// violation (Pass 3's uniquify pass guarantees every declared name is
// unique within a function, so a collision here means an earlier pass
// has a bug), not a user-facing error — see DESIGN.md Open Question 3.
// It is recovered and re-wrapped at the single pass-driver chokepoint in
// package compiler.
type DuplicateVarError struct {
	Name string
}

func (e *DuplicateVarError) Error() string {
	return fmt.Sprintf("cannot re-add variable %q to scope", e.Name)
}

// ScopeVarset tracks, for one lexical scope (a function or a nested
// block), which variable names were declared in it, which of its own
// names a nested function reaches across a function boundary ("captured"),
// and, for a function, which names declared in an enclosing function it
// or a function nested in it references ("free" in the closure sense).
type ScopeVarset struct {
	declared []string
	captured []string
	free     []string
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// DeclaredVars returns the names declared directly in this scope.
func (s *ScopeVarset) DeclaredVars() []string { return s.declared }

// AddDeclared records a declared variable. It panics with
// *DuplicateVarError if the name is already declared in this scope.
func (s *ScopeVarset) AddDeclared(name string) {
	if contains(s.declared, name) {
		panic(&DuplicateVarError{Name: name})
	}
	s.declared = append(s.declared, name)
}

// CapturedVars returns the names declared in this scope (or as parameters
// of this function) that a nested closure reaches across the function
// boundary to read or write.
func (s *ScopeVarset) CapturedVars() []string { return s.captured }

// AddCaptured records a captured variable. Unlike AddDeclared, a repeat
// add is tolerated (insert-if-absent): the same name can legitimately be
// captured by more than one nested closure, and the original Python
// implementation swallows the resulting "cannot re-add" exception at this
// specific call site (see DESIGN.md Open Question 3).
func (s *ScopeVarset) AddCaptured(name string) {
	if !contains(s.captured, name) {
		s.captured = append(s.captured, name)
	}
}

// FreeVars returns the names referenced somewhere in this function's body
// (directly or in a nested closure) that are declared in an enclosing
// function — i.e. this function needs them threaded through its closure
// context, without itself being where they were captured.
func (s *ScopeVarset) FreeVars() []string { return s.free }

// AddFree records a free variable. Insert-if-absent for the same reason
// as AddCaptured.
func (s *ScopeVarset) AddFree(name string) {
	if !contains(s.free, name) {
		s.free = append(s.free, name)
	}
}
