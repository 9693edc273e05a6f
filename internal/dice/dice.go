// Package dice parses and evaluates roll expressions: integer arithmetic,
// NdM dice with keep-highest/keep-lowest operators, parentheses, trailing
// comments, and the d20 advantage convention. Evaluation reports two error
// classes: *SyntaxError for input that cannot be parsed, and *RollError for
// expressions that parsed but could not be resolved.
package dice

import "fmt"

// Adv selects advantage behavior for single-d20 rolls.
type Adv int

const (
	AdvNone Adv = iota
	Advantage
	Disadvantage
)

func (a Adv) String() string {
	switch a {
	case Advantage:
		return "adv"
	case Disadvantage:
		return "dis"
	default:
		return "none"
	}
}

// RollError is a recoverable evaluation failure: the expression parsed but
// could not be resolved (division by zero, roll budget exhausted, a die
// with no sides). Callers render the message and continue.
type RollError struct {
	Msg string
}

func (e *RollError) Error() string { return e.Msg }

func rollErrorf(format string, args ...any) *RollError {
	return &RollError{Msg: fmt.Sprintf(format, args...)}
}

// SyntaxError reports input the parser could not understand. Unlike
// RollError there is no partial result worth rendering.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

// DefaultMaxRolls bounds how many dice one evaluation context may spend.
const DefaultMaxRolls = 1000

// Context tracks the dice spent during evaluation. A plain context resets
// its budget at the start of every roll; a persistent context accumulates
// across rolls, so the iterations of one batch share a single budget.
type Context struct {
	maxRolls   int
	rolled     int
	persistent bool
}

// NewContext returns a context whose budget resets on every roll.
func NewContext(maxRolls int) *Context {
	return &Context{maxRolls: maxRolls}
}

// NewPersistentContext returns a context whose budget spans all rolls made
// against it for its lifetime.
func NewPersistentContext(maxRolls int) *Context {
	return &Context{maxRolls: maxRolls, persistent: true}
}

func (c *Context) beginRoll() {
	if !c.persistent {
		c.rolled = 0
	}
}

func (c *Context) spend(n int) error {
	c.rolled += n
	if c.rolled > c.maxRolls {
		return &RollError{Msg: "too many dice rolled"}
	}
	return nil
}
