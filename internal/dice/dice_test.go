package dice

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *AST {
	t.Helper()
	ast, err := Parse(input, true)
	require.NoError(t, err)
	return ast
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"1d",
		"(1d6",
		"*5",
		"1d6kx2",
		"1d6kh",
		"d",
		"+",
	}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input, true)
			var serr *SyntaxError
			assert.True(t, errors.As(err, &serr), "want syntax error, got %v", err)
		})
	}
}

func TestParseComments(t *testing.T) {
	ast := mustParse(t, "1d6 + 3 fire damage")
	assert.Equal(t, "fire damage", ast.Comment)

	ast = mustParse(t, "4d6kh3")
	assert.Equal(t, "", ast.Comment)

	_, err := Parse("1d6 + 3 fire damage", false)
	var serr *SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestRollArithmetic(t *testing.T) {
	roller := NewSeededRoller(1)
	cases := []struct {
		input string
		total int
		text  string
	}{
		{"1+1", 2, "1 + 1 = `2`"},
		{"2 * 3 + 4", 10, "2 * 3 + 4 = `10`"},
		{"(1+2)*3", 9, "(1 + 2) * 3 = `9`"},
		{"7/2", 3, "7 / 2 = `3`"},
		{"-4+10", 6, "-4 + 10 = `6`"},
		{"-(2+3)", -5, "-(2 + 3) = `-5`"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			res, err := roller.Roll(mustParse(t, tc.input), nil, AdvNone)
			require.NoError(t, err)
			assert.Equal(t, tc.total, res.Total)
			assert.Equal(t, tc.text, res.String())
		})
	}
}

func TestRollDiceBounds(t *testing.T) {
	roller := NewSeededRoller(42)
	for i := 0; i < 50; i++ {
		res, err := roller.Roll(mustParse(t, "4d6"), nil, AdvNone)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Total, 4)
		assert.LessOrEqual(t, res.Total, 24)
		assert.Regexp(t, regexp.MustCompile("^4d6 \\(\\d+, \\d+, \\d+, \\d+\\) = `\\d+`$"), res.String())
	}
}

func TestRollKeepHighest(t *testing.T) {
	roller := NewSeededRoller(7)
	res, err := roller.Roll(mustParse(t, "4d6kh3"), nil, AdvNone)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Total, 3)
	assert.LessOrEqual(t, res.Total, 18)
	// Exactly one die dropped, shown struck through.
	assert.Equal(t, 2, strings.Count(res.String(), "~~"))
}

func TestRollAdvantage(t *testing.T) {
	roller := NewSeededRoller(3)
	res, err := roller.Roll(mustParse(t, "1d20"), nil, Advantage)
	require.NoError(t, err)
	assert.Contains(t, res.String(), "2d20kh1 (")
	assert.GreaterOrEqual(t, res.Total, 1)
	assert.LessOrEqual(t, res.Total, 20)

	res, err = roller.Roll(mustParse(t, "1d20"), nil, Disadvantage)
	require.NoError(t, err)
	assert.Contains(t, res.String(), "2d20kl1 (")

	// Advantage leaves anything but a bare 1d20 alone.
	res, err = roller.Roll(mustParse(t, "2d20"), nil, Advantage)
	require.NoError(t, err)
	assert.Contains(t, res.String(), "2d20 (")
}

func TestRollDeterministicSeed(t *testing.T) {
	a := NewSeededRoller(99)
	b := NewSeededRoller(99)
	for i := 0; i < 10; i++ {
		ra, err := a.Roll(mustParse(t, "10d10"), nil, AdvNone)
		require.NoError(t, err)
		rb, err := b.Roll(mustParse(t, "10d10"), nil, AdvNone)
		require.NoError(t, err)
		assert.Equal(t, ra.String(), rb.String())
	}
}

func TestRollErrors(t *testing.T) {
	roller := NewSeededRoller(1)
	for _, input := range []string{"1/0", "0d6", "1d0", "1d6/(1-1)"} {
		t.Run(input, func(t *testing.T) {
			_, err := roller.Roll(mustParse(t, input), nil, AdvNone)
			var rerr *RollError
			assert.True(t, errors.As(err, &rerr), "want roll error, got %v", err)
		})
	}
}

func TestContextBudget(t *testing.T) {
	roller := NewSeededRoller(1)

	_, err := roller.Roll(mustParse(t, "11d6"), NewContext(10), AdvNone)
	var rerr *RollError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "too many dice rolled", rerr.Msg)

	// A plain context resets between rolls.
	rctx := NewContext(10)
	for i := 0; i < 3; i++ {
		_, err := roller.Roll(mustParse(t, "6d6"), rctx, AdvNone)
		require.NoError(t, err)
	}

	// A persistent context does not.
	pctx := NewPersistentContext(10)
	_, err = roller.Roll(mustParse(t, "6d6"), pctx, AdvNone)
	require.NoError(t, err)
	_, err = roller.Roll(mustParse(t, "6d6"), pctx, AdvNone)
	assert.True(t, errors.As(err, &rerr))
}
