package domain

import (
	"fmt"
	"slices"
)

// NodeKind identifies the syntactic category of a Node.
type NodeKind uint8

const (
	// KindFile is the root node of a parsed program file.
	KindFile NodeKind = iota
	// KindClass is a class or interface declaration.
	KindClass
	// KindTypeRef is a reference to another type from a class header.
	KindTypeRef
)

// String returns a lowercase name for the kind.
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindClass:
		return "class"
	case KindTypeRef:
		return "typeref"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// RefRole tells how a type reference relates to its declaring class.
type RefRole uint8

const (
	// RoleExtends marks the superclass reference.
	RoleExtends RefRole = iota
	// RoleImplements marks an implemented interface reference.
	RoleImplements
)

// String returns the keyword for the role.
func (r RefRole) String() string {
	if r == RoleImplements {
		return "implements"
	}
	return "extends"
}

// Node is a syntax tree node.
//
// Nodes are identity objects: two nodes are the same only if they are the same
// pointer, even when all their fields are equal. Once a file tree has been built
// its nodes are never mutated; edits replace whole files.
type Node struct {
	Kind NodeKind
	// Name is the file path for files, the declared name for classes and the
	// referenced type name for type references.
	Name string
	// Package is set on file nodes.
	Package string
	// Params lists the type parameters of a class.
	Params []string
	// Interface is set on class nodes declared as interfaces.
	Interface bool
	// Type is the referenced type expression of a type reference.
	Type TypeExpr
	// Role is set on type references.
	Role RefRole
	// Line is the 1-based source line, zero when unknown.
	Line int

	Parent   *Node
	Children []*Node
}

// NewFile creates a file root node.
func NewFile(path, pkg string) *Node {
	return &Node{Kind: KindFile, Name: path, Package: pkg}
}

// NewClass creates a class declaration node.
func NewClass(name string, params []string, line int) *Node {
	return &Node{Kind: KindClass, Name: name, Params: slices.Clone(params), Line: line}
}

// NewTypeRef creates a type reference node.
func NewTypeRef(expr TypeExpr, role RefRole, line int) *Node {
	return &Node{Kind: KindTypeRef, Name: expr.Name, Type: expr, Role: role, Line: line}
}

// AddChild appends c to n's children and sets its parent.
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// File returns the file node n belongs to, or nil for detached nodes.
func (n *Node) File() *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Kind == KindFile {
			return cur
		}
	}
	return nil
}

// ChildrenOf returns the direct children of the given kind.
func (n *Node) ChildrenOf(kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Supers returns the extends reference followed by the implements references of a class.
func (n *Node) Supers() []*Node {
	refs := n.ChildrenOf(KindTypeRef)
	slices.SortStableFunc(refs, func(a, b *Node) int {
		return int(a.Role) - int(b.Role)
	})
	return refs
}

// HasParam reports whether the class declares the type parameter p.
func (n *Node) HasParam(p string) bool {
	return slices.Contains(n.Params, p)
}

// QualifiedParam returns the name under which a class parameter appears in a specialization.
func (n *Node) QualifiedParam(p string) string {
	return n.Name + "." + p
}

// Pos returns "file:line" for the node.
func (n *Node) Pos() string {
	f := n.File()
	if f == nil {
		return fmt.Sprintf("?:%d", n.Line)
	}
	return fmt.Sprintf("%s:%d", f.Name, n.Line)
}

// String returns a short human-readable description.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindFile:
		return "file " + n.Name
	case KindTypeRef:
		return n.Role.String() + " " + n.Type.String()
	default:
		return n.Kind.String() + " " + n.Name
	}
}
