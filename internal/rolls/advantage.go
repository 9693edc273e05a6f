package rolls

import (
	"regexp"

	"github.com/ProperAttorney/avrae/internal/dice"
)

var (
	advTokenPattern = regexp.MustCompile(`(^|\s+)(adv|dis)(\s+|$)`)
	advPattern      = regexp.MustCompile(`(^|\s+)adv(\s+|$)`)
	advRemove       = regexp.MustCompile(`adv(\s+|$)`)
	disRemove       = regexp.MustCompile(`dis(\s+|$)`)
)

// StripAdv detects a whole-word adv or dis token anywhere in input and
// returns the input with every occurrence of the detected token removed.
// Only the token itself goes; the whitespace around it stays, so a
// mid-string token leaves a doubled space behind. adv wins when both
// tokens appear. Absence of a token is not an error.
func StripAdv(input string) (string, dice.Adv) {
	if !advTokenPattern.MatchString(input) {
		return input, dice.AdvNone
	}
	if advPattern.MatchString(input) {
		return advRemove.ReplaceAllString(input, "$1"), dice.Advantage
	}
	return disRemove.ReplaceAllString(input, "$1"), dice.Disadvantage
}
