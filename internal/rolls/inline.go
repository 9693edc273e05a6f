package rolls

import (
	"context"
	"errors"
	"strings"

	"github.com/ProperAttorney/avrae/internal/dice"
	"github.com/ProperAttorney/avrae/internal/inline"
)

// HasInline reports whether content contains at least one well-formed
// inline expression.
func HasInline(content string) bool {
	return len(inline.Locate(content)) > 0
}

// InlineReply finds and evaluates every inline expression in content and
// builds the reply body: one line per expression, framed by its context
// windows. An empty return means no reply should be sent at all.
//
// All expressions in one message share one persistent roll context, so
// their dice budgets are linked. Expressions that fail to parse are
// dropped silently; inline detection is best effort and parse noise would
// spam the channel. Recoverable evaluation errors are rendered in place
// of a result, and the remaining expressions still roll.
func (s *Service) InlineReply(ctx context.Context, content string) string {
	candidates := inline.Locate(content)
	if len(candidates) == 0 {
		return ""
	}
	windows := inline.Windows(content, candidates, s.window)

	rctx := dice.NewPersistentContext(dice.DefaultMaxRolls)
	lines := make([]string, 0, len(windows))
	for _, w := range windows {
		before := strings.ReplaceAll(w.Before, "\n", " ")
		after := strings.ReplaceAll(w.After, "\n", " ")

		ast, err := dice.Parse(w.Expr, true)
		if err != nil {
			continue
		}
		res, err := s.roller.Roll(ast, rctx, dice.AdvNone)
		if err != nil {
			var rerr *dice.RollError
			if errors.As(err, &rerr) {
				lines = append(lines, before+"("+rerr.Msg+")"+after)
			}
			continue
		}
		lines = append(lines, before+"("+res.String()+")"+after)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}
