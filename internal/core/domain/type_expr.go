package domain

import (
	"strings"
	"unicode"

	"go.trai.ch/zerr"
)

// TypeExpr is a possibly generic type expression such as Map<String, List<T>>.
type TypeExpr struct {
	Name string
	Args []TypeExpr
}

// ParseTypeExpr parses a type expression.
func ParseTypeExpr(s string) (TypeExpr, error) {
	p := &typeParser{src: []rune(s)}
	expr, err := p.parse()
	if err != nil {
		return TypeExpr{}, zerr.With(err, "expr", s)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeExpr{}, zerr.With(invalidAt(p.pos), "expr", s)
	}
	return expr, nil
}

// MustParseTypeExpr is like ParseTypeExpr but panics on error.
func MustParseTypeExpr(s string) TypeExpr {
	t, err := ParseTypeExpr(s)
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero reports whether t is the empty expression.
func (t TypeExpr) IsZero() bool {
	return t.Name == "" && len(t.Args) == 0
}

// String formats the expression in its canonical form.
func (t TypeExpr) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeExpr) write(b *strings.Builder) {
	b.WriteString(t.Name)
	if len(t.Args) == 0 {
		return
	}
	b.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.write(b)
	}
	b.WriteByte('>')
}

// Substitute replaces every argument-free name found in bindings by its bound expression.
func (t TypeExpr) Substitute(bindings map[string]TypeExpr) TypeExpr {
	if len(t.Args) == 0 {
		if bound, ok := bindings[t.Name]; ok {
			return bound
		}
		return t
	}
	args := make([]TypeExpr, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Substitute(bindings)
	}
	return TypeExpr{Name: t.Name, Args: args}
}

// Equal reports whether two expressions are structurally identical.
func (t TypeExpr) Equal(o TypeExpr) bool {
	if t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

type typeParser struct {
	src []rune
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *typeParser) parse() (TypeExpr, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return TypeExpr{}, invalidAt(p.pos)
	}
	expr := TypeExpr{Name: string(p.src[start:p.pos])}

	p.skipSpace()
	if p.pos == len(p.src) || p.src[p.pos] != '<' {
		return expr, nil
	}
	p.pos++

	for {
		arg, err := p.parse()
		if err != nil {
			return TypeExpr{}, err
		}
		expr.Args = append(expr.Args, arg)

		p.skipSpace()
		if p.pos == len(p.src) {
			return TypeExpr{}, invalidAt(p.pos)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return expr, nil
		default:
			return TypeExpr{}, invalidAt(p.pos)
		}
	}
}

func invalidAt(offset int) error {
	return zerr.With(zerr.Wrap(ErrInvalidTypeExpr, "syntax error"), "offset", offset)
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
