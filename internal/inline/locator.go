// Package inline finds bracketed roll expressions embedded in chat messages
// and computes the bounded prose around each one so a reply can quote what
// the expression was attached to.
package inline

import "strings"

// Delimiters bounding an inline roll expression.
const (
	openDelim  = "[["
	closeDelim = "]]"
)

// CandidateRange locates one inline expression within the original text.
// OuterStart and OuterEnd include the delimiters; InnerStart and InnerEnd
// bound the expression content between them.
type CandidateRange struct {
	OuterStart int
	InnerStart int
	InnerEnd   int
	OuterEnd   int
}

// Locate scans content left to right and returns every well-formed
// delimiter-bounded candidate in order of appearance. Delimiters do not
// nest: the closer is searched from the opener's end, so a second opener
// before the first closer is absorbed into the first candidate's inner
// text. A dangling opener with no closer ends the scan without emitting a
// candidate. Each character is visited at most once.
func Locate(content string) []CandidateRange {
	var found []CandidateRange
	pos := 0
	for {
		open := strings.Index(content[pos:], openDelim)
		if open < 0 {
			return found
		}
		open += pos
		inner := open + len(openDelim)
		cls := strings.Index(content[inner:], closeDelim)
		if cls < 0 {
			return found
		}
		cls += inner
		found = append(found, CandidateRange{
			OuterStart: open,
			InnerStart: inner,
			InnerEnd:   cls,
			OuterEnd:   cls + len(closeDelim),
		})
		pos = cls + len(closeDelim)
	}
}
