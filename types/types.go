// Package types implements Fo's small structural type system: the
// primitive types, function types, named aliases, and the placeholder
// type used before inference has resolved an expression.
package types

import "fmt"

// Kind distinguishes the shape of a Type value.
type Kind int

const (
	// Placeholder marks a type slot inference hasn't resolved yet.
	Placeholder Kind = iota
	Void
	Bool
	Int
	Float
	Func
	// Named is a type alias introduced by a top-level type declaration.
	Named
)

func (k Kind) String() string {
	switch k {
	case Placeholder:
		return "__placeholder__"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int64_t"
	case Float:
		return "double"
	case Func:
		return "func"
	case Named:
		return "named"
	default:
		return "?"
	}
}

// Type is an immutable value describing the type of an expression or
// variable. Two Types are equal (see Equal) iff they have the same Kind
// and, for Func, structurally identical parameter/return types, or, for
// Named, the same alias name.
type Type struct {
	kind   Kind
	params []Type // Func only
	ret    *Type  // Func only
	alias  string // Named only
}

var (
	voidType        = Type{kind: Void}
	boolType        = Type{kind: Bool}
	intType         = Type{kind: Int}
	floatType       = Type{kind: Float}
	placeholderType = Type{kind: Placeholder}
)

// NewVoid returns the void type.
func NewVoid() Type { return voidType }

// NewBool returns the bool type.
func NewBool() Type { return boolType }

// NewInt returns the int64_t type.
func NewInt() Type { return intType }

// NewFloat returns the double type.
func NewFloat() Type { return floatType }

// NewPlaceholder returns the unresolved-type marker.
func NewPlaceholder() Type { return placeholderType }

// NewFunc builds a function type from parameter types and a return type.
func NewFunc(params []Type, ret Type) Type {
	cp := make([]Type, len(params))
	copy(cp, params)
	return Type{kind: Func, params: cp, ret: &ret}
}

// NewNamed builds a named-alias type reference. The alias is not resolved
// here; resolution of named types to their underlying definition is left
// unimplemented by every compiler pass (see DESIGN.md), matching the
// original implementation which never substitutes type_decls either.
func NewNamed(alias string) Type { return Type{kind: Named, alias: alias} }

// FromTypeName maps a parsed type-name token to a Type: "int" to the
// 64-bit int type the way the original lexer/parser layer does, "float",
// "bool" and "void" to their primitive types, and anything else to a
// named alias.
func FromTypeName(name string) Type {
	switch name {
	case "int":
		return intType
	case "float":
		return floatType
	case "bool":
		return boolType
	case "void":
		return voidType
	default:
		return NewNamed(name)
	}
}

// Kind reports the receiver's Kind.
func (t Type) Kind() Kind { return t.kind }

// IsPrimitive reports whether t is one of void/bool/int/float.
func (t Type) IsPrimitive() bool {
	switch t.kind {
	case Void, Bool, Int, Float:
		return true
	default:
		return false
	}
}

// IsPlaceholder reports whether t is the unresolved-type marker.
func (t Type) IsPlaceholder() bool { return t.kind == Placeholder }

// IsFunc reports whether t is a function type.
func (t Type) IsFunc() bool { return t.kind == Func }

// ParamTypes returns the parameter types of a function type. It panics if
// t is not a function type — callers must check IsFunc first, mirroring
// the original's TypeMismatchError-on-non-func-type behavior being an
// internal invariant once parsing/inference have run.
func (t Type) ParamTypes() []Type {
	if !t.IsFunc() {
		panic(fmt.Sprintf("type %s is not a function type", t))
	}
	return t.params
}

// ReturnType returns the return type of a function type. See ParamTypes
// for the panic contract.
func (t Type) ReturnType() Type {
	if !t.IsFunc() {
		panic(fmt.Sprintf("type %s is not a function type", t))
	}
	return *t.ret
}

// Alias returns the alias name of a Named type.
func (t Type) Alias() string { return t.alias }

// Equal reports structural equality: function types compare parameter and
// return types recursively, named types compare by alias name, everything
// else compares by Kind alone.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case Func:
		if len(t.params) != len(other.params) {
			return false
		}
		for i := range t.params {
			if !t.params[i].Equal(other.params[i]) {
				return false
			}
		}
		return t.ret.Equal(*other.ret)
	case Named:
		return t.alias == other.alias
	default:
		return true
	}
}

// String renders the type the way the C code generator spells it:
// primitives as their C type name, functions as "func(params) ret".
func (t Type) String() string {
	switch t.kind {
	case Func:
		s := "func("
		for i, p := range t.params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ") " + t.ret.String()
	case Named:
		return t.alias
	default:
		return t.kind.String()
	}
}
