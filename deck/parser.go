package deck

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// scope is the tagged variant of what the parse cursor currently has open.
// Every directive handler matches on it and rejects illegal combinations
// explicitly.
type scope uint32

const (
	scopeNone scope = iota
	scopeGlobal
	scopeSlide
	scopeText
	scopeImage
)

// String returns a string representation of the scope, used in
// diagnostics.
func (s scope) String() string {
	switch s {
	case scopeNone:
		return "no open scope"
	case scopeGlobal:
		return "the global scope"
	case scopeSlide:
		return "a slide"
	case scopeText:
		return "a text block"
	case scopeImage:
		return "an image block"
	}
	return "invalid(" + strconv.Itoa(int(s)) + ")"
}

// Parser holds the mutable parse cursor for one source file: the globals,
// the slide under construction and the block under construction. Imports
// share the destination Document but get their own nested Parser, sealed
// before control returns to the parent.
type Parser struct {
	fileName string
	baseDir  string
	doc      *Document
	log      *zap.SugaredLogger

	// importing is the stack of absolute file paths currently being
	// parsed, outermost first and this file last. Checked for membership
	// before every recursive import.
	importing []string

	globals    Globals
	globalsSet bool
	sawSlide   bool

	cur   scope
	slide *Slide
	text  *TextBlock
	image *ImageBlock

	// textHasContent marks that the open text block received its first
	// content line, freezing its properties.
	textHasContent bool
}

// ParseFile compiles the deck source at fileName into a Document.
// The logger may be nil. On failure the Document is nil and the error is a
// *ParseError locating the first problem.
func ParseFile(fileName string, logger *zap.SugaredLogger) (*Document, error) {
	return ParseFileWithConfig(fileName, nil, logger)
}

// ParseFileWithConfig is ParseFile with an optional deck configuration
// applied before parsing: the config's font table and default globals act
// as the built-in defaults.
func ParseFileWithConfig(fileName string, cfg *Config, logger *zap.SugaredLogger) (*Document, error) {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		return nil, &ParseError{Kind: ErrKindImport, File: fileName, Msg: err.Error(), Err: err}
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, &ParseError{Kind: ErrKindImport, File: fileName, Msg: "cannot open deck source", Err: err}
	}
	defer file.Close()
	return parse(abs, file, cfg, logger)
}

// ParseBytes compiles an in-memory deck source. fileName is used for
// diagnostics and as the base for resolving import and figure paths.
func ParseBytes(fileName string, src []byte, logger *zap.SugaredLogger) (*Document, error) {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		return nil, &ParseError{Kind: ErrKindImport, File: fileName, Msg: err.Error(), Err: err}
	}
	return parse(abs, bytes.NewReader(src), nil, logger)
}

func parse(absPath string, r io.Reader, cfg *Config, logger *zap.SugaredLogger) (*Document, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	doc := &Document{Globals: DefaultGlobals()}
	if cfg != nil {
		if err := cfg.apply(doc); err != nil {
			return nil, err
		}
	}

	p := &Parser{
		fileName:  absPath,
		baseDir:   filepath.Dir(absPath),
		doc:       doc,
		log:       logger,
		importing: []string{absPath},
		globals:   doc.Globals,
	}
	if err := p.run(r); err != nil {
		return nil, err
	}

	// The top-level file's globals are the document's.
	doc.Globals = p.globals
	return doc, nil
}

// run drives the lexer over one source and dispatches every logical line,
// closing any open block and slide at end of input.
func (p *Parser) run(r io.Reader) error {
	ls := newLineScanner(p.fileName, r)
	for {
		line, err := ls.Next()
		if err != nil {
			return p.withChain(err)
		}
		if line == nil {
			break
		}

		if line.Kind == LineContent {
			if err := p.appendContent(line); err != nil {
				return err
			}
			continue
		}

		for _, d := range line.Directives {
			if err := p.applyDirective(d, line.Number); err != nil {
				return err
			}
		}
	}

	p.closeSlide()
	return nil
}

// withChain attaches the import chain to errors born below the parser,
// such as lexer errors.
func (p *Parser) withChain(err error) error {
	if pe, ok := err.(*ParseError); ok && len(p.importing) > 1 && len(pe.Chain) == 0 {
		pe.Chain = append([]string(nil), p.importing...)
	}
	return err
}

func (p *Parser) errorf(kind ErrorKind, line int, format string, args ...any) error {
	e := &ParseError{
		Kind: kind,
		File: p.fileName,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	}
	// Import failures always name the path that led there, even when that
	// is just the top-level file importing itself.
	if len(p.importing) > 1 || kind == ErrKindImport {
		e.Chain = append([]string(nil), p.importing...)
	}
	return e
}

// appendContent adds a literal text line to the open text block.
func (p *Parser) appendContent(line *Line) error {
	if p.cur != scopeText {
		return p.errorf(ErrKindStructural, line.Number, "content line with %s; open a text block with :tb first", p.cur)
	}
	p.text.Lines = append(p.text.Lines, line.Text)
	p.textHasContent = true
	return nil
}

// applyDirective mutates the parse cursor according to one (token, args)
// run. Directives on the same physical line arrive here left to right.
func (p *Parser) applyDirective(d Directive, line int) error {
	switch d.Token {
	case ":ge":
		if p.sawSlide {
			return p.errorf(ErrKindStructural, line, ":ge must precede the first :sl")
		}
		if p.globalsSet {
			return p.errorf(ErrKindStructural, line, "global config is already set")
		}
		if len(d.Args) > 0 {
			return p.errorf(ErrKindFormat, line, ":ge takes no arguments, properties follow as :bc/:fc/:sz")
		}
		p.globalsSet = true
		p.cur = scopeGlobal

	case ":sl":
		if len(d.Args) > 0 {
			return p.errorf(ErrKindFormat, line, ":sl takes no arguments")
		}
		p.closeSlide()
		p.slide = &Slide{Background: p.globals.Background}
		p.sawSlide = true
		p.cur = scopeSlide

	case ":tb":
		if p.slide == nil {
			return p.errorf(ErrKindStructural, line, ":tb requires an open slide")
		}
		if len(d.Args) > 0 {
			return p.errorf(ErrKindFormat, line, ":tb takes no arguments")
		}
		p.closeBlock()
		p.text = &TextBlock{
			FontSize: p.globals.FontSize,
			Color:    p.globals.FontColor,
		}
		p.cur = scopeText

	case ":fg":
		if p.slide == nil {
			return p.errorf(ErrKindStructural, line, ":fg requires an open slide")
		}
		if len(d.Args) != 1 {
			return p.errorf(ErrKindFormat, line, ":fg expects exactly one path argument")
		}
		p.closeBlock()
		p.image = &ImageBlock{Path: filepath.Join(p.baseDir, d.Args[0])}
		p.cur = scopeImage

	case ":bc":
		c, err := p.colorArg(d, line)
		if err != nil {
			return err
		}
		switch p.cur {
		case scopeGlobal:
			p.globals.Background = c
		case scopeSlide:
			p.slide.Background = c
		default:
			return p.errorf(ErrKindStructural, line, ":bc is not valid in %s", p.cur)
		}

	case ":fc":
		c, err := p.colorArg(d, line)
		if err != nil {
			return err
		}
		switch p.cur {
		case scopeGlobal:
			p.globals.FontColor = c
		case scopeText:
			if err := p.textMutable(d, line); err != nil {
				return err
			}
			p.text.Color = c
		default:
			return p.errorf(ErrKindStructural, line, ":fc is not valid in %s", p.cur)
		}

	case ":cl":
		c, err := p.colorArg(d, line)
		if err != nil {
			return err
		}
		switch p.cur {
		case scopeGlobal:
			p.globals.Background = c
		case scopeSlide:
			p.slide.Background = c
		case scopeText:
			if err := p.textMutable(d, line); err != nil {
				return err
			}
			p.text.Color = c
		default:
			return p.errorf(ErrKindStructural, line, ":cl is not valid in %s", p.cur)
		}

	case ":sz":
		v, err := p.floatArg(d, line)
		if err != nil {
			return err
		}
		if v <= 0 {
			return p.errorf(ErrKindFormat, line, ":sz expects a positive number, got %v", v)
		}
		switch p.cur {
		case scopeGlobal:
			p.globals.FontSize = v
		case scopeText:
			if err := p.textMutable(d, line); err != nil {
				return err
			}
			p.text.FontSize = v
		case scopeImage:
			p.image.Scale = v
		default:
			return p.errorf(ErrKindStructural, line, ":sz is not valid in %s", p.cur)
		}

	case ":ps":
		if len(d.Args) != 2 {
			return p.errorf(ErrKindFormat, line, ":ps expects two coordinates, got %d arguments", len(d.Args))
		}
		x, errX := strconv.ParseFloat(d.Args[0], 64)
		y, errY := strconv.ParseFloat(d.Args[1], 64)
		if errX != nil || errY != nil {
			return p.errorf(ErrKindFormat, line, ":ps coordinates must be numbers, got %q %q", d.Args[0], d.Args[1])
		}
		switch p.cur {
		case scopeText:
			if err := p.textMutable(d, line); err != nil {
				return err
			}
			p.text.Position = Position{X: x, Y: y}
		case scopeImage:
			p.image.Position = Position{X: x, Y: y}
		default:
			return p.errorf(ErrKindStructural, line, ":ps is not valid in %s", p.cur)
		}

	case ":rt":
		v, err := p.floatArg(d, line)
		if err != nil {
			return err
		}
		if p.cur != scopeImage {
			return p.errorf(ErrKindStructural, line, ":rt is not valid in %s", p.cur)
		}
		p.image.Rotation = v

	case ":im":
		if len(d.Args) != 1 {
			return p.errorf(ErrKindFormat, line, ":im expects exactly one path argument")
		}
		return p.importFile(d.Args[0], line)

	default:
		return p.errorf(ErrKindUnknownDirective, line, "unknown directive %q", d.Token)
	}
	return nil
}

// textMutable rejects property changes on a text block once its first
// content line has been appended.
func (p *Parser) textMutable(d Directive, line int) error {
	if p.textHasContent {
		return p.errorf(ErrKindStructural, line, "%s after content lines; text block properties are sealed", d.Token)
	}
	return nil
}

func (p *Parser) colorArg(d Directive, line int) (Color, error) {
	if p.cur == scopeNone {
		return Color{}, p.errorf(ErrKindStructural, line, "%s with no open scope", d.Token)
	}
	c, err := ResolveColor(d.Args)
	if err != nil {
		return Color{}, p.errorf(ErrKindFormat, line, "%s: %v", d.Token, err)
	}
	return c, nil
}

func (p *Parser) floatArg(d Directive, line int) (float64, error) {
	if len(d.Args) != 1 {
		return 0, p.errorf(ErrKindFormat, line, "%s expects exactly one number, got %d arguments", d.Token, len(d.Args))
	}
	v, err := strconv.ParseFloat(d.Args[0], 64)
	if err != nil {
		return 0, p.errorf(ErrKindFormat, line, "%s expects a number, got %q", d.Token, d.Args[0])
	}
	return v, nil
}

// closeBlock seals the block under construction, if any, appending it to
// the current slide.
func (p *Parser) closeBlock() {
	if p.text != nil {
		p.slide.Blocks = append(p.slide.Blocks, Block{Text: p.text})
		p.text = nil
		p.textHasContent = false
	}
	if p.image != nil {
		p.slide.Blocks = append(p.slide.Blocks, Block{Image: p.image})
		p.image = nil
	}
}

// closeSlide seals the slide under construction, if any, appending it to
// the document. Once sealed, nothing mutates it again.
func (p *Parser) closeSlide() {
	p.closeBlock()
	if p.slide != nil {
		p.log.Debugw("slide sealed", "file", p.fileName, "blocks", len(p.slide.Blocks))
		p.doc.Slides = append(p.doc.Slides, *p.slide)
		p.slide = nil
	}
}

// importFile parses another deck source and splices its slides into the
// document at this point. The path is resolved relative to the importing
// file's directory. The current slide is sealed first: an import boundary
// closes it, and the imported file's globals never leak back here.
func (p *Parser) importFile(rel string, line int) error {
	abs, err := filepath.Abs(filepath.Join(p.baseDir, rel))
	if err != nil {
		return p.errorf(ErrKindImport, line, "invalid import path %q: %v", rel, err)
	}

	for _, f := range p.importing {
		if f == abs {
			return p.errorf(ErrKindImport, line, "cyclic import of %s", abs)
		}
	}

	p.closeSlide()
	p.cur = scopeNone

	file, err := os.Open(abs)
	if err != nil {
		e := p.errorf(ErrKindImport, line, "cannot open imported file %q", rel).(*ParseError)
		e.Err = err
		return e
	}
	defer file.Close()

	p.log.Debugw("importing deck", "from", p.fileName, "path", abs)

	sub := &Parser{
		fileName:  abs,
		baseDir:   filepath.Dir(abs),
		doc:       p.doc,
		log:       p.log,
		importing: append(append([]string(nil), p.importing...), abs),
		// The importing file's globals are the starting defaults; a ':ge'
		// in the imported file replaces them for its own slides only.
		globals: p.globals,
	}
	return sub.run(file)
}
