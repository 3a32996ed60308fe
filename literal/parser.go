// SPDX-License-Identifier: MIT

package literal

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lawt/compute"
)

// parser evaluates the token stream by recursive descent:
//
//	expr    := term { ("+"|"-") term }
//	term    := unary { ("*"|"/") unary | implicit }
//	unary   := ("+"|"-") unary | power
//	power   := primary [ "^" unary ]
//	primary := number | "√" unary | "(" expr ")"
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}

	return t
}

func (p *parser) fail(t token, reason string) error {
	lex := t.lexeme
	if t.typ == tokEOF {
		lex = ""
	}

	return &compute.ParseError{Token: lex, Offset: t.offset, Reason: reason}
}

func (p *parser) parse() (float64, error) {
	if p.peek().typ == tokEOF {
		return 0, p.fail(p.peek(), "empty literal")
	}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.typ != tokEOF {
		return 0, p.fail(t, fmt.Sprintf("unexpected %s", t.typ))
	}

	return v, nil
}

func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().typ {
		case tokPlus:
			p.advance()
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v += r
		case tokMinus:
			p.advance()
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch t := p.peek(); t.typ {
		case tokStar:
			p.advance()
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v *= r
		case tokSlash:
			p.advance()
			d := p.peek()
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, p.fail(d, "division by zero")
			}
			v /= r
		case tokSqrt, tokLParen:
			// implicit product: 2√3, 3(1+√2)
			r, err := p.power()
			if err != nil {
				return 0, err
			}
			v *= r
		default:
			return v, nil
		}
	}
}

func (p *parser) unary() (float64, error) {
	switch p.peek().typ {
	case tokPlus:
		p.advance()
		return p.unary()
	case tokMinus:
		p.advance()
		v, err := p.unary()
		return -v, err
	default:
		return p.power()
	}
}

func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek().typ != tokCaret {
		return base, nil
	}
	caret := p.advance()
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	v := math.Pow(base, exp)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.fail(caret, "power is not a finite real number")
	}

	return v, nil
}

func (p *parser) primary() (float64, error) {
	t := p.advance()
	switch t.typ {
	case tokNumber:
		return t.value, nil
	case tokSqrt:
		arg := p.peek()
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, p.fail(arg, "square root of a negative number")
		}
		return math.Sqrt(v), nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if c := p.peek(); c.typ != tokRParen {
			return 0, p.fail(c, "missing ')'")
		}
		p.advance()
		return v, nil
	case tokEOF:
		return 0, p.fail(t, "unexpected end of input")
	default:
		return 0, p.fail(t, fmt.Sprintf("unexpected %s", t.typ))
	}
}
