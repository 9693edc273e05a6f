package dice

import (
	"strconv"
	"strings"
)

// AST is a parsed roll expression plus its trailing comment, ready to be
// rolled any number of times.
type AST struct {
	root    node
	Comment string
}

type node interface {
	eval(ev *evaluation) (part, error)
}

type literal struct {
	n int
}

// keep is a kh/kl operator attached to a die roll.
type keep struct {
	set  bool
	high bool
	n    int
}

type dieRoll struct {
	count int
	sides int
	keep  keep
}

type binary struct {
	op  byte
	lhs node
	rhs node
}

type negate struct {
	inner node
}

type group struct {
	inner node
}

// Parse reads a roll expression from input. When allowComments is true,
// any text after the expression becomes the AST's comment; otherwise
// trailing text is a syntax error.
func Parse(input string, allowComments bool) (*AST, error) {
	p := &parser{src: input}
	p.skipSpace()
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rest := strings.TrimSpace(p.src[p.pos:])
	if rest != "" && !allowComments {
		return nil, &SyntaxError{Pos: p.pos, Msg: "unexpected trailing input"}
	}
	return &AST{root: root, Comment: rest}, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) parseExpr() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op, ok := p.peekOp('+', '-')
		if !ok {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = binary{op: op, lhs: lhs, rhs: rhs}
	}
}

func (p *parser) parseTerm() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op, ok := p.peekOp('*', '/')
		if !ok {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = binary{op: op, lhs: lhs, rhs: rhs}
	}
}

func (p *parser) parseUnary() (node, error) {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate{inner: inner}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (node, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, &SyntaxError{Pos: p.pos, Msg: "expected a number, die, or parenthesized expression"}
	}

	if p.src[p.pos] == '(' {
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return nil, &SyntaxError{Pos: p.pos, Msg: "expected closing parenthesis"}
		}
		p.pos++
		return group{inner: inner}, nil
	}

	count := 1
	haveCount := false
	if isDigit(p.peekByte()) {
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		count = n
		haveCount = true
	}

	if p.peekByte() != 'd' {
		if !haveCount {
			return nil, &SyntaxError{Pos: p.pos, Msg: "expected a number, die, or parenthesized expression"}
		}
		return literal{n: count}, nil
	}
	p.pos++

	if !isDigit(p.peekByte()) {
		return nil, &SyntaxError{Pos: p.pos, Msg: "expected die size"}
	}
	sides, err := p.parseNumber()
	if err != nil {
		return nil, err
	}

	d := dieRoll{count: count, sides: sides}
	if p.peekByte() == 'k' {
		p.pos++
		var high bool
		switch p.peekByte() {
		case 'h':
			high = true
		case 'l':
			high = false
		default:
			return nil, &SyntaxError{Pos: p.pos, Msg: "expected kh or kl selector"}
		}
		p.pos++
		if !isDigit(p.peekByte()) {
			return nil, &SyntaxError{Pos: p.pos, Msg: "expected keep count"}
		}
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		d.keep = keep{set: true, high: high, n: n}
	}
	return d, nil
}

func (p *parser) parseNumber() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, &SyntaxError{Pos: start, Msg: "number out of range"}
	}
	return n, nil
}

func (p *parser) peekOp(ops ...byte) (byte, bool) {
	b := p.peekByte()
	for _, op := range ops {
		if b == op {
			return op, true
		}
	}
	return 0, false
}

func (p *parser) peekByte() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
