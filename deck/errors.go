package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind classifies a ParseError.
type ErrorKind uint32

const (
	// ErrKindLex means the raw line stream was malformed, e.g. a
	// continuation marker on the last line of the file.
	ErrKindLex ErrorKind = iota
	// ErrKindFormat means a directive carried bad arguments: a color that
	// does not resolve, a non-positive size, a position with wrong arity.
	ErrKindFormat
	// ErrKindStructural means a directive or content line appeared without
	// the open scope it requires.
	ErrKindStructural
	// ErrKindImport means an ':im' directive failed: missing or unreadable
	// file, or a cyclic inclusion.
	ErrKindImport
	// ErrKindUnknownDirective means a ':' token outside the vocabulary.
	ErrKindUnknownDirective
)

// String returns a string representation of the ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindLex:
		return "lex"
	case ErrKindFormat:
		return "format"
	case ErrKindStructural:
		return "structural"
	case ErrKindImport:
		return "import"
	case ErrKindUnknownDirective:
		return "unknown-directive"
	}
	return "invalid(" + strconv.Itoa(int(k)) + ")"
}

// ParseError is the single error type returned by the compiler. It always
// carries the file and 1-based line where parsing stopped, and for failures
// inside imported files the chain of paths that led there.
type ParseError struct {
	Kind ErrorKind
	File string
	Line int
	Msg  string

	// Chain is the stack of files being imported when the error occurred,
	// outermost first. Import failures always carry it; other kinds carry
	// it only when they happened inside an imported file.
	Chain []string

	// Err is the underlying error, if any (typically an I/O error).
	Err error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d: %s error: %s", e.File, e.Line, e.Kind, e.Msg)
	if len(e.Chain) > 0 {
		sb.WriteString(" (imported via ")
		sb.WriteString(strings.Join(e.Chain, " -> "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
