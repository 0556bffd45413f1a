package lambda

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/termmap/pkg/errors"
)

// Macros resolves macro names to closed terms during parsing.
type Macros interface {
	Lookup(name string) (Term, bool)
}

// MacroMap is a [Macros] backed by a plain map.
type MacroMap map[string]Term

// Lookup implements [Macros].
func (m MacroMap) Lookup(name string) (Term, bool) {
	t, ok := m[name]
	return t, ok
}

// ParseOption configures [Parse].
type ParseOption func(*parseConfig)

type parseConfig struct {
	macros Macros
	free   []string
}

// WithMacros expands identifiers found in m. Bound names shadow macros.
func WithMacros(m Macros) ParseOption {
	return func(c *parseConfig) { c.macros = m }
}

// WithFree seeds the context with names in the given order before any free
// variable discovered in the source.
func WithFree(names ...string) ParseOption {
	return func(c *parseConfig) { c.free = append(c.free, names...) }
}

// Parse reads a term from src and returns it together with the context
// naming its free variables.
//
// Grammar:
//
//	term  = abs | app
//	abs   = ("\" | "λ") ident {ident} "." term
//	app   = atom {atom} [abs]
//	atom  = ident | "(" term ")"
//
// Application is left-associative and an abstraction extends as far right
// as possible.
func Parse(src string, opts ...ParseOption) (Term, *Context, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	toks, err := lex(src)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{toks: toks}
	tree, err := p.term()
	if err != nil {
		return nil, nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, nil, p.unexpected(tok, "end of input")
	}

	r := &resolver{macros: cfg.macros}
	for _, name := range cfg.free {
		r.addFree(name)
	}
	r.collect(tree, nil)
	t, err := r.build(tree, nil)
	if err != nil {
		return nil, nil, err
	}
	return t, NewContext(r.free...), nil
}

// MustParse is like [Parse] but panics on error. It is meant for tests and
// package-level tables of known-good terms.
func MustParse(src string, opts ...ParseOption) Term {
	t, _, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// =============================================================================
// Lexer
// =============================================================================

type tokKind int

const (
	tokEOF tokKind = iota
	tokLambda
	tokDot
	tokLParen
	tokRParen
	tokIdent
)

func (k tokKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLambda:
		return "lambda"
	case tokDot:
		return `"."`
	case tokLParen:
		return `"("`
	case tokRParen:
		return `")"`
	default:
		return "identifier"
	}
}

type token struct {
	kind   tokKind
	text   string
	offset int
}

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return nil, errors.New(errors.ErrCodeParse, "invalid UTF-8 at offset %d", i)
		case unicode.IsSpace(r):
			i += size
		case r == '\\' || r == 'λ':
			toks = append(toks, token{kind: tokLambda, text: string(r), offset: i})
			i += size
		case r == '.':
			toks = append(toks, token{kind: tokDot, text: ".", offset: i})
			i += size
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", offset: i})
			i += size
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", offset: i})
			i += size
		case isIdentStart(r):
			start := i
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r) {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], offset: start})
		default:
			return nil, errors.New(errors.ErrCodeParse, "unexpected character %q at offset %d", r, i)
		}
	}
	return append(toks, token{kind: tokEOF, offset: len(src)}), nil
}

func isIdentStart(r rune) bool {
	return r != 'λ' && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '\''
}

// =============================================================================
// Parser
// =============================================================================

type rawKind int

const (
	rawVar rawKind = iota
	rawAbs
	rawApp
)

type raw struct {
	kind        rawKind
	name        string
	offset      int
	body        *raw
	left, right *raw
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) unexpected(tok token, want string) error {
	found := tok.kind.String()
	if tok.kind == tokIdent {
		found = fmt.Sprintf("identifier %q", tok.text)
	}
	return errors.New(errors.ErrCodeParse, "expected %s at offset %d, found %s", want, tok.offset, found)
}

func (p *parser) term() (*raw, error) {
	if p.peek().kind == tokLambda {
		return p.abs()
	}
	return p.app()
}

func (p *parser) abs() (*raw, error) {
	p.next()
	var names []token
	for p.peek().kind == tokIdent {
		names = append(names, p.next())
	}
	if len(names) == 0 {
		return nil, p.unexpected(p.peek(), "binder name")
	}
	if tok := p.next(); tok.kind != tokDot {
		return nil, p.unexpected(tok, `"."`)
	}
	body, err := p.term()
	if err != nil {
		return nil, err
	}
	for i := len(names) - 1; i >= 0; i-- {
		body = &raw{kind: rawAbs, name: names[i].text, offset: names[i].offset, body: body}
	}
	return body, nil
}

func (p *parser) app() (*raw, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokIdent, tokLParen:
			right, err := p.atom()
			if err != nil {
				return nil, err
			}
			left = &raw{kind: rawApp, offset: left.offset, left: left, right: right}
		case tokLambda:
			right, err := p.abs()
			if err != nil {
				return nil, err
			}
			return &raw{kind: rawApp, offset: left.offset, left: left, right: right}, nil
		default:
			return left, nil
		}
	}
}

func (p *parser) atom() (*raw, error) {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		return &raw{kind: rawVar, name: tok.text, offset: tok.offset}, nil
	case tokLParen:
		inner, err := p.term()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.unexpected(closing, `")"`)
		}
		return inner, nil
	default:
		return nil, p.unexpected(tok, "term")
	}
}

// =============================================================================
// Name resolution
// =============================================================================

type resolver struct {
	macros Macros
	free   []string
}

func (r *resolver) addFree(name string) {
	if !slices.Contains(r.free, name) {
		r.free = append(r.free, name)
	}
}

func (r *resolver) isMacro(name string) (Term, bool) {
	if r.macros == nil {
		return nil, false
	}
	return r.macros.Lookup(name)
}

// collect records free names in order of first occurrence.
func (r *resolver) collect(n *raw, bound []string) {
	switch n.kind {
	case rawVar:
		if slices.Contains(bound, n.name) {
			return
		}
		if _, ok := r.isMacro(n.name); ok {
			return
		}
		r.addFree(n.name)
	case rawAbs:
		r.collect(n.body, append(bound, n.name))
	case rawApp:
		r.collect(n.left, bound)
		r.collect(n.right, bound)
	}
}

// build converts the named tree to de Bruijn form. bound lists enclosing
// binder names, innermost last.
func (r *resolver) build(n *raw, bound []string) (Term, error) {
	switch n.kind {
	case rawAbs:
		body, err := r.build(n.body, append(bound, n.name))
		if err != nil {
			return nil, err
		}
		return Abs{Label: n.name, Body: body}, nil
	case rawApp:
		left, err := r.build(n.left, bound)
		if err != nil {
			return nil, err
		}
		right, err := r.build(n.right, bound)
		if err != nil {
			return nil, err
		}
		return App{Left: left, Right: right}, nil
	}

	for i := len(bound) - 1; i >= 0; i-- {
		if bound[i] == n.name {
			return Var{Index: len(bound) - 1 - i}, nil
		}
	}
	if t, ok := r.isMacro(n.name); ok {
		if !IsClosed(t) {
			return nil, errors.New(errors.ErrCodeInvalidTerm, "macro %s at offset %d has free variables", n.name, n.offset)
		}
		return t, nil
	}
	rank := slices.Index(r.free, n.name)
	return Var{Index: len(bound) + len(r.free) - 1 - rank}, nil
}
