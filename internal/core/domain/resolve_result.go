package domain

import (
	"maps"
	"slices"
	"strings"
	"weak"
)

// ResolveResult describes what a class resolves to once its supertype chain has
// been walked: every supertype declaration, nearest first, and the type each of
// their parameters is bound to. A ResolveResult is immutable.
//
// Declarations are referenced weakly. A declaration links to its file and so to
// every class of that file, which may include the class the result was cached
// for; a strong reference would keep that key alive through its own value.
type ResolveResult struct {
	specialization map[string]TypeExpr
	supertypes     []supertype
	unresolved     []string
}

// supertype keeps what rendering needs next to the weak declaration.
type supertype struct {
	decl   weak.Pointer[Node]
	name   string
	params []string
}

// NewResolveResult builds a result from a specialization keyed by qualified
// parameter name ("Decl.Param"), the supertype declarations and the names of
// supertypes that could not be found.
func NewResolveResult(specialization map[string]TypeExpr, supertypes []*Node, unresolved []string) *ResolveResult {
	spec := maps.Clone(specialization)
	if spec == nil {
		spec = make(map[string]TypeExpr)
	}
	return &ResolveResult{
		specialization: spec,
		supertypes:     newSupertypes(supertypes),
		unresolved:     slices.Clone(unresolved),
	}
}

func newSupertypes(decls []*Node) []supertype {
	out := make([]supertype, len(decls))
	for i, d := range decls {
		out[i] = supertype{decl: weak.Make(d), name: d.Name, params: slices.Clone(d.Params)}
	}
	return out
}

// Lookup returns the type bound to a qualified parameter.
func (r *ResolveResult) Lookup(qualifiedParam string) (TypeExpr, bool) {
	t, ok := r.specialization[qualifiedParam]
	return t, ok
}

// Specialization returns a copy of the parameter bindings.
func (r *ResolveResult) Specialization() map[string]TypeExpr {
	return maps.Clone(r.specialization)
}

// Supertypes returns the supertype declarations that are still reachable,
// nearest first.
func (r *ResolveResult) Supertypes() []*Node {
	out := make([]*Node, 0, len(r.supertypes))
	for _, s := range r.supertypes {
		if d := s.decl.Value(); d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Unresolved returns the names of supertypes that were not declared anywhere.
func (r *ResolveResult) Unresolved() []string {
	return slices.Clone(r.unresolved)
}

// SupertypeExprs returns every supertype applied to its bound arguments.
// Unbound parameters are rendered with their qualified name.
func (r *ResolveResult) SupertypeExprs() []TypeExpr {
	out := make([]TypeExpr, 0, len(r.supertypes))
	for _, d := range r.supertypes {
		expr := TypeExpr{Name: d.name}
		for _, p := range d.params {
			qualified := d.name + "." + p
			arg, ok := r.specialization[qualified]
			if !ok {
				arg = TypeExpr{Name: qualified}
			}
			expr.Args = append(expr.Args, arg)
		}
		out = append(out, expr)
	}
	return out
}

// String renders the bindings sorted by parameter, e.g. "Polygon.U=Float Shape.T=Float".
func (r *ResolveResult) String() string {
	keys := slices.Sorted(maps.Keys(r.specialization))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + r.specialization[k].String()
	}
	return strings.Join(parts, " ")
}
