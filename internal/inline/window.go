package inline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default context bounds: five words of prose before an expression, two
// after, and a 128-character hard cap per side applied before word trimming.
const (
	DefaultBeforeWords   = 5
	DefaultAfterWords    = 2
	DefaultMaxContextLen = 128
)

// Ellipsis marks a context window that was cut short of the message edge.
const Ellipsis = "..."

// Config bounds the context windows computed by Windows.
type Config struct {
	BeforeWords   int
	AfterWords    int
	MaxContextLen int
}

// DefaultConfig returns the standard context bounds.
func DefaultConfig() Config {
	return Config{
		BeforeWords:   DefaultBeforeWords,
		AfterWords:    DefaultAfterWords,
		MaxContextLen: DefaultMaxContextLen,
	}
}

// Window is the bounded prose surrounding one inline expression. Before and
// After are word-aligned, whitespace-stripped, and carry an ellipsis marker
// on the side where the window stops short of the message edge. Expr is the
// trimmed expression content between the delimiters.
type Window struct {
	Before string
	Expr   string
	After  string
}

// span is a window's claim on the original text, as half-open offsets.
type span struct {
	beforeStart int
	afterEnd    int
}

// Windows computes one context window per candidate. Raw windows are capped
// at MaxContextLen characters per side and trimmed to whole words, dropping
// a partial leading or trailing fragment. Two clamping passes then resolve
// adjacent windows: a forward pass keeps each window from reaching back past
// the previous candidate's closing delimiter, and a backward pass keeps each
// window from reaching forward into text the (now clamped) next window
// starts at. No two windows ever claim the same text, and re-running the
// passes on clamped windows changes nothing.
func Windows(content string, candidates []CandidateRange, cfg Config) []Window {
	spans := make([]span, len(candidates))
	for i, c := range candidates {
		spans[i] = rawSpan(content, c, cfg)
	}
	clampSpans(spans, candidates)

	out := make([]Window, len(candidates))
	for i, c := range candidates {
		before := strings.TrimLeftFunc(content[spans[i].beforeStart:c.OuterStart], unicode.IsSpace)
		after := strings.TrimRightFunc(content[c.OuterEnd:spans[i].afterEnd], unicode.IsSpace)
		if spans[i].beforeStart > 0 {
			before = Ellipsis + before
		}
		if spans[i].afterEnd < len(content) {
			after += Ellipsis
		}
		out[i] = Window{
			Before: before,
			Expr:   strings.TrimSpace(content[c.InnerStart:c.InnerEnd]),
			After:  after,
		}
	}
	return out
}

// clampSpans resolves adjacent windows in two fixed-order passes over the
// whole list. The forward pass keeps each window from reaching back past
// the previous candidate's closing delimiter; the backward pass keeps each
// window from reaching forward into text the pass-1-clamped next window
// starts at. The passes are idempotent on already-clamped spans.
func clampSpans(spans []span, candidates []CandidateRange) {
	for i := 1; i < len(spans); i++ {
		if prev := candidates[i-1].OuterEnd; spans[i].beforeStart < prev {
			spans[i].beforeStart = prev
		}
	}
	for i := 0; i+1 < len(spans); i++ {
		if next := spans[i+1].beforeStart; spans[i].afterEnd > next {
			spans[i].afterEnd = next
		}
	}
}

// rawSpan computes a candidate's pre-clamp window: the character cap first,
// then word trimming on each side. The cap counts characters, not bytes,
// so multibyte prose gets the same window as ASCII.
func rawSpan(content string, c CandidateRange, cfg Config) span {
	beforeStart := retreatRunes(content, c.OuterStart, cfg.MaxContextLen)
	if head, ok := headBeforeLastWords(content[beforeStart:c.OuterStart], cfg.BeforeWords); ok {
		beforeStart += head
	}

	afterEnd := advanceRunes(content, c.OuterEnd, cfg.MaxContextLen)
	if tail, ok := tailAfterFirstWords(content[c.OuterEnd:afterEnd], cfg.AfterWords); ok {
		afterEnd -= tail
	}
	return span{beforeStart: beforeStart, afterEnd: afterEnd}
}

// headBeforeLastWords returns the length of the prefix of s preceding its
// last n whitespace-separated words. ok is false when s holds no text
// beyond those n words, in which case the window needs no trimming.
func headBeforeLastWords(s string, n int) (int, bool) {
	pos := retreatSpace(s, len(s))
	for i := 0; i < n; i++ {
		if pos == 0 {
			return 0, false
		}
		pos = retreatWord(s, pos)
		pos = retreatSpace(s, pos)
	}
	if pos == 0 {
		return 0, false
	}
	return pos, true
}

// tailAfterFirstWords returns the length of the suffix of s following its
// first n whitespace-separated words.
func tailAfterFirstWords(s string, n int) (int, bool) {
	pos := advanceSpace(s, 0)
	for i := 0; i < n; i++ {
		if pos == len(s) {
			return 0, false
		}
		pos = advanceWord(s, pos)
		pos = advanceSpace(s, pos)
	}
	if pos == len(s) {
		return 0, false
	}
	return len(s) - pos, true
}

func retreatSpace(s string, pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:pos])
		if !unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	return pos
}

func retreatWord(s string, pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:pos])
		if unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	return pos
}

func advanceSpace(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

func advanceWord(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

// retreatRunes moves pos back by at most n runes.
func retreatRunes(s string, pos, n int) int {
	for i := 0; i < n && pos > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:pos])
		pos -= size
	}
	return pos
}

// advanceRunes moves pos forward by at most n runes.
func advanceRunes(s string, pos, n int) int {
	for i := 0; i < n && pos < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[pos:])
		pos += size
	}
	return pos
}
