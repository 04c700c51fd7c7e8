package deck

import (
	"bufio"
	"io"
	"strings"

	"github.com/slidetxt/slidetxt/sliceedit"
)

// The marker characters of the language.
const (
	tokenMarker        = ':'
	commentMarker      = '#'
	continuationMarker = '\\'
	escapedMarker      = "\\:"
)

// LineKind classifies a logical line.
type LineKind uint32

const (
	// LineDirective is a line carrying one or more directive runs.
	LineDirective LineKind = iota
	// LineContent is a literal text line belonging to the open text block.
	LineContent
)

// Directive is one (token, args) pair of a directive line. A single
// physical line may carry several, applied left to right.
type Directive struct {
	Token string
	Args  []string
}

// Line is one classified logical line of the source. Number is the 1-based
// physical line the logical line started on, kept for diagnostics.
type Line struct {
	Number int
	Kind   LineKind

	// Text is the literal content for LineContent lines, whitespace
	// preserved as authored, marker escapes removed.
	Text string

	// Directives is the ordered directive sequence for LineDirective lines.
	Directives []Directive
}

// lineScanner turns raw source text into a stream of classified logical
// lines. Comments and blank lines are discarded here, and backslash
// continuations are resolved before classification, so the parser above
// only ever sees directive and content lines.
type lineScanner struct {
	s        *bufio.Scanner
	fileName string
	num      int // physical lines consumed so far
}

func newLineScanner(fileName string, r io.Reader) *lineScanner {
	return &lineScanner{
		s:        bufio.NewScanner(r),
		fileName: fileName,
	}
}

// Next returns the next classified logical line, or nil at end of input.
func (ls *lineScanner) Next() (*Line, error) {
	for ls.s.Scan() {
		ls.num++
		raw := ls.s.Text()
		startLine := ls.num

		// Resolve trailing continuations before anything else. The marker
		// and the hard break collapse to a single space.
		for hasContinuation(raw) {
			if !ls.s.Scan() {
				if err := ls.s.Err(); err != nil {
					return nil, ls.scanError(err)
				}
				return nil, &ParseError{
					Kind: ErrKindLex,
					File: ls.fileName,
					Line: ls.num,
					Msg:  "line continuation at end of input",
				}
			}
			ls.num++
			raw = joinContinuation(raw, ls.s.Text())
		}

		trimmed := strings.TrimSpace(raw)
		if len(trimmed) == 0 {
			continue
		}
		if trimmed[0] == commentMarker {
			continue
		}

		if trimmed[0] == tokenMarker {
			return &Line{
				Number:     startLine,
				Kind:       LineDirective,
				Directives: splitDirectives(trimmed),
			}, nil
		}

		return &Line{
			Number: startLine,
			Kind:   LineContent,
			Text:   unescapeContent(raw),
		}, nil
	}

	if err := ls.s.Err(); err != nil {
		return nil, ls.scanError(err)
	}
	return nil, nil
}

// scanError wraps a raw scanner failure, e.g. a line longer than the
// scanner's buffer, so it carries the same location every other error does.
func (ls *lineScanner) scanError(err error) *ParseError {
	return &ParseError{
		Kind: ErrKindLex,
		File: ls.fileName,
		Line: ls.num + 1,
		Msg:  "reading source: " + err.Error(),
		Err:  err,
	}
}

// hasContinuation reports whether the physical line ends with the
// continuation marker, ignoring trailing layout whitespace. A line ending
// in the escape sequence "\:" is not a continuation.
func hasContinuation(line string) bool {
	t := strings.TrimRight(line, " \t")
	return strings.HasSuffix(t, string(continuationMarker))
}

// joinContinuation joins a continued line with its successor, replacing the
// marker and the break with exactly one space.
func joinContinuation(head, tail string) string {
	head = strings.TrimRight(head, " \t")
	head = strings.TrimRight(head[:len(head)-1], " \t")
	return head + " " + strings.TrimLeft(tail, " \t")
}

// splitDirectives splits a directive line into its ordered (token, args)
// runs. A new run starts at every whitespace-separated word beginning with
// the marker, and the words up to the next such word are its arguments.
func splitDirectives(line string) []Directive {
	var runs []Directive
	for _, field := range strings.Fields(line) {
		if field[0] == tokenMarker {
			runs = append(runs, Directive{Token: field})
			continue
		}
		d := &runs[len(runs)-1]
		d.Args = append(d.Args, field)
	}
	return runs
}

// unescapeContent removes marker escapes ("\:" -> ":") from a content line.
func unescapeContent(line string) string {
	if !strings.Contains(line, escapedMarker) {
		return line
	}
	buf := sliceedit.NewBuffer([]byte(line))
	buf.ReplaceAllString(escapedMarker, string(tokenMarker))
	return buf.String()
}
