package dice

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Roller produces roll results. It is safe for concurrent use; evaluation
// contexts are not shared between events, but the random source is.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller returns a roller seeded from the current time.
func NewRoller() *Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller returns a roller with a deterministic source: the same
// seed and the same sequence of rolls reproduce the same results.
func NewSeededRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

func (r *Roller) die(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}

// Result is one evaluated roll: the rendered expression, its numeric
// total, and the expression's comment if any.
type Result struct {
	Total   int
	Comment string
	text    string
}

// String renders the result the way it appears in chat, e.g.
// "1d20 (15) + 3 = `18`".
func (r *Result) String() string {
	return r.text + " = `" + strconv.Itoa(r.Total) + "`"
}

// Roll evaluates ast against rctx. adv rewrites a bare 1d20 into a
// keep-highest or keep-lowest pair, the tabletop advantage convention.
// A nil rctx gets a fresh per-roll context with the default budget.
// Failures are always *RollError; syntax problems never reach this stage.
func (r *Roller) Roll(ast *AST, rctx *Context, adv Adv) (*Result, error) {
	if ast == nil || ast.root == nil {
		return nil, &RollError{Msg: "nothing to roll"}
	}
	if rctx == nil {
		rctx = NewContext(DefaultMaxRolls)
	}
	rctx.beginRoll()
	ev := &evaluation{roller: r, ctx: rctx, adv: adv}
	p, err := ast.root.eval(ev)
	if err != nil {
		return nil, err
	}
	return &Result{Total: p.value, Comment: ast.Comment, text: p.text}, nil
}

type evaluation struct {
	roller *Roller
	ctx    *Context
	adv    Adv
}

// part is one evaluated subtree: its value and chat rendering.
type part struct {
	value int
	text  string
}

func (l literal) eval(_ *evaluation) (part, error) {
	return part{value: l.n, text: strconv.Itoa(l.n)}, nil
}

func (d dieRoll) eval(ev *evaluation) (part, error) {
	count, sides, kp := d.count, d.sides, d.keep

	// Advantage only rewrites a bare single d20.
	if ev.adv != AdvNone && count == 1 && sides == 20 && !kp.set {
		count = 2
		kp = keep{set: true, high: ev.adv == Advantage, n: 1}
	}

	if sides < 1 {
		return part{}, rollErrorf("cannot roll a die with %d sides", sides)
	}
	if count < 1 {
		return part{}, rollErrorf("cannot roll %d dice", count)
	}
	if err := ev.ctx.spend(count); err != nil {
		return part{}, err
	}

	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = ev.roller.die(sides)
	}
	kept := keptIndices(rolls, kp)

	total := 0
	rendered := make([]string, count)
	for i, v := range rolls {
		if kept[i] {
			total += v
			rendered[i] = strconv.Itoa(v)
		} else {
			rendered[i] = "~~" + strconv.Itoa(v) + "~~"
		}
	}

	spelling := fmt.Sprintf("%dd%d", count, sides)
	if kp.set {
		sel := "kl"
		if kp.high {
			sel = "kh"
		}
		spelling += sel + strconv.Itoa(kp.n)
	}
	return part{value: total, text: spelling + " (" + strings.Join(rendered, ", ") + ")"}, nil
}

// keptIndices marks which rolls count toward the total. Without a keep
// operator every roll counts; with one, the n highest (or lowest) do,
// earlier dice winning ties.
func keptIndices(rolls []int, kp keep) []bool {
	kept := make([]bool, len(rolls))
	if !kp.set {
		for i := range kept {
			kept[i] = true
		}
		return kept
	}
	n := kp.n
	if n > len(rolls) {
		n = len(rolls)
	}
	if n <= 0 {
		return kept
	}
	order := make([]int, len(rolls))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if kp.high {
			return rolls[order[a]] > rolls[order[b]]
		}
		return rolls[order[a]] < rolls[order[b]]
	})
	for _, idx := range order[:n] {
		kept[idx] = true
	}
	return kept
}

func (b binary) eval(ev *evaluation) (part, error) {
	lhs, err := b.lhs.eval(ev)
	if err != nil {
		return part{}, err
	}
	rhs, err := b.rhs.eval(ev)
	if err != nil {
		return part{}, err
	}

	var value int
	switch b.op {
	case '+':
		value = lhs.value + rhs.value
	case '-':
		value = lhs.value - rhs.value
	case '*':
		value = lhs.value * rhs.value
	case '/':
		if rhs.value == 0 {
			return part{}, &RollError{Msg: "cannot divide by zero"}
		}
		// Integer division, truncated toward zero.
		value = lhs.value / rhs.value
	}
	return part{value: value, text: lhs.text + " " + string(b.op) + " " + rhs.text}, nil
}

func (n negate) eval(ev *evaluation) (part, error) {
	inner, err := n.inner.eval(ev)
	if err != nil {
		return part{}, err
	}
	return part{value: -inner.value, text: "-" + inner.text}, nil
}

func (g group) eval(ev *evaluation) (part, error) {
	inner, err := g.inner.eval(ev)
	if err != nil {
		return part{}, err
	}
	return part{value: inner.value, text: "(" + inner.text + ")"}, nil
}
