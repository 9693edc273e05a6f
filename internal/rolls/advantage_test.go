package rolls

import (
	"testing"

	"github.com/ProperAttorney/avrae/internal/dice"
)

func TestStripAdv(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		adv   dice.Adv
	}{
		{
			name:  "trailing adv",
			input: "1d20+1 adv",
			want:  "1d20+1 ",
			adv:   dice.Advantage,
		},
		{
			name:  "dis in the middle",
			input: "1d20 dis extra",
			want:  "1d20  extra",
			adv:   dice.Disadvantage,
		},
		{
			name:  "no token",
			input: "1d20+3",
			want:  "1d20+3",
			adv:   dice.AdvNone,
		},
		{
			name:  "not a whole word",
			input: "advantage",
			want:  "advantage",
			adv:   dice.AdvNone,
		},
		{
			name:  "adv wins over dis",
			input: "1d20 dis adv",
			want:  "1d20 dis ",
			adv:   dice.Advantage,
		},
		{
			name:  "leading adv keeps its whitespace",
			input: "adv 1d20",
			want:  " 1d20",
			adv:   dice.Advantage,
		},
		{
			name:  "repeated token",
			input: "dis 1d20 dis",
			want:  " 1d20 ",
			adv:   dice.Disadvantage,
		},
		{
			name:  "bare token",
			input: "adv",
			want:  "",
			adv:   dice.Advantage,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, adv := StripAdv(tc.input)
			if got != tc.want {
				t.Fatalf("StripAdv(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if adv != tc.adv {
				t.Fatalf("StripAdv(%q) adv = %v, want %v", tc.input, adv, tc.adv)
			}
		})
	}
}
