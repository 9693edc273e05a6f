// Package rolls is the command layer of the bot: it turns dice commands and
// chat messages into rendered reply bodies, leaving transport to the caller.
package rolls

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ProperAttorney/avrae/internal/dice"
	"github.com/ProperAttorney/avrae/internal/inline"
)

// Reply-size policy: a single roll reply is capped near the platform
// message limit; batch output degrades to a summary past 1500 characters.
const (
	singleReplyCap = 1999
	batchReplyCap  = 1500
)

// Iteration bounds for batch rolls, inclusive.
const (
	MinIterations = 1
	MaxIterations = 100
)

const diceEmoji = "\U0001F3B2"

// statDiceRolled counts every completed dice command.
const statDiceRolled = "dice_rolled_life"

// StatSink records lifetime counters. The store provides one; a nil sink
// disables counting.
type StatSink interface {
	Increment(ctx context.Context, name string) error
}

// Service executes dice commands and renders chat reply bodies. It holds
// no per-event state; one instance serves all events concurrently.
type Service struct {
	logger *slog.Logger
	roller *dice.Roller
	stats  StatSink
	window inline.Config
}

// NewService builds the command layer around a roller. stats may be nil.
func NewService(log *slog.Logger, roller *dice.Roller, stats StatSink, window inline.Config) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger: log.With(slog.String("service", "rolls")),
		roller: roller,
		stats:  stats,
		window: window,
	}
}

// Roll evaluates one direct roll command and renders the reply body.
// Syntax and evaluation errors become the reply text; a direct command
// surfaces them rather than staying silent.
func (s *Service) Roll(ctx context.Context, input string) string {
	if strings.TrimSpace(input) == "" {
		input = "1d20"
	}
	if input == "0/0" { // easter egg
		return "What do you expect me to do, destroy the universe?"
	}

	cleaned, adv := StripAdv(input)
	ast, err := dice.Parse(cleaned, true)
	if err != nil {
		return err.Error()
	}
	res, err := s.roller.Roll(ast, dice.NewContext(dice.DefaultMaxRolls), adv)
	if err != nil {
		return err.Error()
	}

	out := diceEmoji + "\n" + res.String()
	if len(out) > singleReplyCap {
		out = fmt.Sprintf("%s\n%s...\n**Total**: %d", diceEmoji, firstRunes(res.String(), 100), res.Total)
	}
	s.count(ctx)
	return out
}

// QuickRoll rolls a d20 with a modifier: mod "4" rolls 1d20+4.
func (s *Service) QuickRoll(ctx context.Context, mod string) string {
	if strings.TrimSpace(mod) == "" {
		mod = "0"
	}
	return s.Roll(ctx, "1d20+"+mod)
}

// RollMany rolls one parsed expression iterations times against a shared
// persistent context, so the iterations draw on a single dice budget. When
// dc is non-nil, iterations whose total meets or exceeds it count as
// successes. Out-of-bounds iteration counts are rejected before any
// rolling happens.
func (s *Service) RollMany(ctx context.Context, iterations int, input string, dc *int, adv dice.Adv) string {
	if iterations < MinIterations || iterations > MaxIterations {
		return "Too many or too few iterations."
	}
	ast, err := dice.Parse(input, true)
	if err != nil {
		return err.Error()
	}

	rctx := dice.NewPersistentContext(dice.DefaultMaxRolls)
	lines := make([]string, 0, iterations)
	successes, total := 0, 0
	for i := 0; i < iterations; i++ {
		res, err := s.roller.Roll(ast, rctx, adv)
		if err != nil {
			return err.Error()
		}
		if dc != nil && res.Total >= *dc {
			successes++
		}
		total += res.Total
		lines = append(lines, res.String())
	}

	header := fmt.Sprintf("Rolling %d iterations...", iterations)
	footer := fmt.Sprintf("%d total.", total)
	if dc != nil {
		header = fmt.Sprintf("Rolling %d iterations, DC %d...", iterations, *dc)
		footer = fmt.Sprintf("%d successes, %d total.", successes, total)
	}
	if ast.Comment != "" {
		header = ast.Comment + ": " + header
	}

	out := header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if len(out) > batchReplyCap {
		// Degrade to the first result plus a count, never a mid-line cut.
		out = fmt.Sprintf("%s\n%s\n[%d results omitted for output size.]\n%s",
			header, lines[0], len(lines)-1, footer)
	}
	s.count(ctx)
	return out
}

func (s *Service) count(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Increment(ctx, statDiceRolled); err != nil {
		s.logger.Warn("stat increment failed", slog.Any("error", err))
	}
}

func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
