package deck

import (
	"bufio"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func scanAll(t *testing.T, src string) []Line {
	t.Helper()
	ls := newLineScanner("test.txt", strings.NewReader(src))
	var lines []Line
	for {
		line, err := ls.Next()
		if err != nil {
			t.Fatalf("scanning %q: %v", src, err)
		}
		if line == nil {
			return lines
		}
		lines = append(lines, *line)
	}
}

func TestScanDirectiveRuns(t *testing.T) {
	lines := scanAll(t, ":tb :ps 0.1 0.2 :fc 255 0 0 255")

	want := []Line{{
		Number: 1,
		Kind:   LineDirective,
		Directives: []Directive{
			{Token: ":tb"},
			{Token: ":ps", Args: []string{"0.1", "0.2"}},
			{Token: ":fc", Args: []string{"255", "0", "0", "255"}},
		},
	}}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %#v, want %#v", lines, want)
	}
}

func TestScanClassification(t *testing.T) {
	src := `# a comment!

:sl
   a text line with \:ge escaped
:sz something
`
	lines := scanAll(t, src)

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %#v", len(lines), lines)
	}

	if lines[0].Kind != LineDirective || lines[0].Number != 3 {
		t.Errorf("line 0: got kind %v number %d, want directive at line 3", lines[0].Kind, lines[0].Number)
	}

	// Content keeps its layout whitespace and loses the marker escape
	if lines[1].Kind != LineContent || lines[1].Number != 4 {
		t.Errorf("line 1: got kind %v number %d, want content at line 4", lines[1].Kind, lines[1].Number)
	}
	if got, want := lines[1].Text, "   a text line with :ge escaped"; got != want {
		t.Errorf("content: got %q, want %q", got, want)
	}

	if lines[2].Kind != LineDirective || lines[2].Directives[0].Token != ":sz" {
		t.Errorf("line 2: got %#v, want :sz directive", lines[2])
	}
}

func TestScanOverlongLine(t *testing.T) {
	src := ":sl\n" + strings.Repeat("x", bufio.MaxScanTokenSize+1) + "\n"
	ls := newLineScanner("test.txt", strings.NewReader(src))

	var err error
	for {
		var line *Line
		line, err = ls.Next()
		if line == nil {
			break
		}
	}
	if err == nil {
		t.Fatal("scanning an overlong line succeeded")
	}
	pe := wantParseError(t, err, ErrKindLex, 2)
	if pe.File != "test.txt" {
		t.Errorf("file = %q, want test.txt", pe.File)
	}
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Errorf("got %v, want it to wrap bufio.ErrTooLong", err)
	}
}

func TestScanTrailingWhitespace(t *testing.T) {
	lines := scanAll(t, ":sl\n  padded  \n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got, want := lines[1].Text, "  padded  "; got != want {
		t.Errorf("content: got %q, want %q", got, want)
	}
}

func TestScanContinuation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "single join",
			src:  "A line \\\nAnother line",
			want: "A line Another line",
		},
		{
			name: "chained joins",
			src:  "A line \\\nAnother line \\\nAnd the last one",
			want: "A line Another line And the last one",
		},
		{
			name: "indented continuation",
			src:  "A line \\\n    Another line",
			want: "A line Another line",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := scanAll(t, tt.src)
			if len(lines) != 1 {
				t.Fatalf("got %d lines, want 1", len(lines))
			}
			if lines[0].Text != tt.want {
				t.Errorf("got %q, want %q", lines[0].Text, tt.want)
			}
			if lines[0].Number != 1 {
				t.Errorf("got line number %d, want 1", lines[0].Number)
			}
		})
	}
}

func TestScanContinuationAtEOF(t *testing.T) {
	ls := newLineScanner("test.txt", strings.NewReader("dangling \\"))
	_, err := ls.Next()

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want a *ParseError", err)
	}
	if pe.Kind != ErrKindLex {
		t.Errorf("got kind %v, want %v", pe.Kind, ErrKindLex)
	}
	if pe.Line != 1 {
		t.Errorf("got line %d, want 1", pe.Line)
	}
}

func TestScanBlankAndCommentOnly(t *testing.T) {
	lines := scanAll(t, "\n\n   \n# nothing here\n  # indented comment\n")
	if len(lines) != 0 {
		t.Errorf("got %d lines, want 0: %#v", len(lines), lines)
	}
}
