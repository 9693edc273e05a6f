package discord

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ProperAttorney/avrae/internal/dice"
	"github.com/ProperAttorney/avrae/internal/inline"
	"github.com/ProperAttorney/avrae/internal/rolls"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in   string
		name string
		args string
	}{
		{"roll 1d20", "roll", "1d20"},
		{"r  1d20+3 adv ", "r", "1d20+3 adv"},
		{"RR 3 1d6", "rr", "3 1d6"},
		{"roll", "roll", ""},
		{"  roll  ", "roll", ""},
		{"2 4", "2", "4"},
	}
	for _, tt := range tests {
		name, args := splitCommand(tt.in)
		assert.Equal(t, tt.name, name, "name of %q", tt.in)
		assert.Equal(t, tt.args, args, "args of %q", tt.in)
	}
}

func newTestBot() *Bot {
	svc := rolls.NewService(slog.Default(), dice.NewSeededRoller(1), nil, inline.DefaultConfig())
	return &Bot{logger: slog.Default(), svc: svc}
}

func TestRollManyParsing(t *testing.T) {
	ctx := context.Background()
	b := newTestBot()

	out := b.rollMany(ctx, "3 1+1", false)
	assert.Contains(t, out, "Rolling 3 iterations...")
	assert.True(t, strings.HasSuffix(out, "6 total."))

	out = b.rollMany(ctx, "3 1+1 2", true)
	assert.Contains(t, out, "Rolling 3 iterations, DC 2...")
	assert.Contains(t, out, "3 successes, 6 total.")
}

func TestRollManyParsingErrors(t *testing.T) {
	ctx := context.Background()
	b := newTestBot()

	assert.Equal(t, "Too many or too few iterations.", b.rollMany(ctx, "", false))
	assert.Equal(t, "Too many or too few iterations.", b.rollMany(ctx, "1d6", false))
	assert.Equal(t, "Too many or too few iterations.", b.rollMany(ctx, "x 1d6", false))
	assert.Equal(t, "Too many or too few iterations.", b.rollMany(ctx, "101 1d6", false))
	assert.Equal(t, "Invalid DC.", b.rollMany(ctx, "3 1d6 x", true))
}

func TestRollManyStripsAdvantage(t *testing.T) {
	ctx := context.Background()
	b := newTestBot()

	out := b.rollMany(ctx, "2 1d20 adv", false)
	assert.Contains(t, out, "2d20kh1 (")
}
