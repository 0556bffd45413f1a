package lambda

import (
	"strconv"
	"strings"
)

type position int

const (
	posTop position = iota
	posFunc
	posArg
)

// Print renders t with display names. Bound variables use their abstraction
// labels, primed where a label would shadow a visible name; free variables
// use the names in ctx. A nil ctx is treated as empty. Indices that resolve
// to nothing are printed as "#i".
func Print(t Term, ctx *Context) string {
	var b strings.Builder
	p := printer{b: &b, ctx: ctx.Clone(), named: true}
	p.print(t, posTop)
	return b.String()
}

// PrintIndices renders t in raw de Bruijn form, e.g. "(λ 0) 1".
func PrintIndices(t Term) string {
	var b strings.Builder
	p := printer{b: &b}
	p.print(t, posTop)
	return b.String()
}

type printer struct {
	b     *strings.Builder
	ctx   *Context
	named bool
}

func (p *printer) print(t Term, pos position) {
	switch t := t.(type) {
	case Var:
		if !p.named {
			p.b.WriteString(strconv.Itoa(t.Index))
			return
		}
		if b, _, ok := p.ctx.Lookup(t.Index); ok {
			p.b.WriteString(b.Label)
			return
		}
		p.b.WriteString("#" + strconv.Itoa(t.Index))
	case Abs:
		if pos != posTop {
			p.b.WriteByte('(')
		}
		if p.named {
			label := p.ctx.Fresh(t.Label)
			p.b.WriteString("λ" + label + ". ")
			p.ctx.Push(Binding{ID: label, Label: label})
			p.print(t.Body, posTop)
			p.ctx.Pop()
		} else {
			p.b.WriteString("λ ")
			p.print(t.Body, posTop)
		}
		if pos != posTop {
			p.b.WriteByte(')')
		}
	case App:
		if pos == posArg {
			p.b.WriteByte('(')
		}
		p.print(t.Left, posFunc)
		p.b.WriteByte(' ')
		p.print(t.Right, posArg)
		if pos == posArg {
			p.b.WriteByte(')')
		}
	}
}
