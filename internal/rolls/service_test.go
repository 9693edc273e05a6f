package rolls

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProperAttorney/avrae/internal/dice"
	"github.com/ProperAttorney/avrae/internal/inline"
)

type countingSink struct {
	names []string
}

func (c *countingSink) Increment(_ context.Context, name string) error {
	c.names = append(c.names, name)
	return nil
}

func newTestService(sink StatSink) *Service {
	return NewService(nil, dice.NewSeededRoller(1), sink, inline.DefaultConfig())
}

func intPtr(n int) *int { return &n }

func TestRollArithmeticReply(t *testing.T) {
	sink := &countingSink{}
	svc := newTestService(sink)

	out := svc.Roll(context.Background(), "1+1")
	assert.Equal(t, diceEmoji+"\n1 + 1 = `2`", out)
	assert.Equal(t, []string{statDiceRolled}, sink.names)
}

func TestRollSyntaxErrorSurfaced(t *testing.T) {
	svc := newTestService(nil)
	out := svc.Roll(context.Background(), "1d")
	assert.Contains(t, out, "syntax error")
}

func TestRollEasterEgg(t *testing.T) {
	svc := newTestService(nil)
	out := svc.Roll(context.Background(), "0/0")
	assert.Equal(t, "What do you expect me to do, destroy the universe?", out)
}

func TestRollDefaultsToD20(t *testing.T) {
	svc := newTestService(nil)
	out := svc.Roll(context.Background(), "   ")
	assert.Contains(t, out, "1d20 (")
}

func TestQuickRoll(t *testing.T) {
	svc := newTestService(nil)
	out := svc.QuickRoll(context.Background(), "4")
	assert.Contains(t, out, "1d20 (")
	assert.Contains(t, out, "+ 4 = `")
}

func TestRollManyNoThreshold(t *testing.T) {
	svc := newTestService(nil)
	out := svc.RollMany(context.Background(), 3, "1+1", nil, dice.AdvNone)
	want := "Rolling 3 iterations...\n" +
		"1 + 1 = `2`\n1 + 1 = `2`\n1 + 1 = `2`\n" +
		"6 total."
	assert.Equal(t, want, out)
}

func TestRollManyWithThreshold(t *testing.T) {
	svc := newTestService(nil)
	out := svc.RollMany(context.Background(), 3, "1+1", intPtr(5), dice.AdvNone)
	want := "Rolling 3 iterations, DC 5...\n" +
		"1 + 1 = `2`\n1 + 1 = `2`\n1 + 1 = `2`\n" +
		"0 successes, 6 total."
	assert.Equal(t, want, out)
}

func TestRollManyThresholdMet(t *testing.T) {
	svc := newTestService(nil)
	out := svc.RollMany(context.Background(), 2, "10", intPtr(5), dice.AdvNone)
	assert.True(t, strings.HasSuffix(out, "2 successes, 20 total."), "got %q", out)
}

func TestRollManyCommentHeader(t *testing.T) {
	svc := newTestService(nil)
	out := svc.RollMany(context.Background(), 2, "1+1 Ice Knife", nil, dice.AdvNone)
	assert.True(t, strings.HasPrefix(out, "Ice Knife: Rolling 2 iterations..."), "got %q", out)
}

func TestRollManyIterationBounds(t *testing.T) {
	sink := &countingSink{}
	svc := newTestService(sink)
	for _, n := range []int{0, -1, 101, 1000} {
		out := svc.RollMany(context.Background(), n, "1+1", nil, dice.AdvNone)
		assert.Equal(t, "Too many or too few iterations.", out)
	}
	// Rejected before any rolling: nothing was counted.
	assert.Empty(t, sink.names)
}

func TestRollManyOutputDegradation(t *testing.T) {
	svc := newTestService(nil)
	out := svc.RollMany(context.Background(), 100, "10+10+10", nil, dice.AdvNone)
	want := "Rolling 100 iterations...\n" +
		"10 + 10 + 10 = `30`\n" +
		"[99 results omitted for output size.]\n" +
		"3000 total."
	require.Equal(t, want, out)
	assert.LessOrEqual(t, len(out), batchReplyCap)
}

func TestRollManySharedContextBudget(t *testing.T) {
	svc := newTestService(nil)
	// 100 iterations of 11d6 spend 1100 dice, past the shared budget of a
	// single persistent context.
	out := svc.RollMany(context.Background(), 100, "11d6", nil, dice.AdvNone)
	assert.Equal(t, "too many dice rolled", out)
}
