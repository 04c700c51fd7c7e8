// Package deck compiles plain-text slide sources into a Document, the
// renderer-agnostic model of a slide deck. The language is a flat
// declarative format: lines starting with the ':' marker carry directives,
// every other non-blank line is literal text for the block being built.
package deck

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Color is the canonical RGBA value. The three surface notations of the
// language (numeric channels, hex literal, symbolic name) all resolve to
// this single representation; the notation is never retained.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Hex re-encodes the color as a lowercase hex literal, "#rrggbb" when the
// color is fully opaque and "#rrggbbaa" otherwise.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Position is a point in the unit square, origin at the top-left corner and
// (1,1) at the bottom-right. Values are not clamped at parse time; whatever
// the source says is passed through to the renderer.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Globals holds the document-wide defaults set by the ':ge' directive, or
// the built-in defaults when the deck has none.
type Globals struct {
	Background Color   `json:"background"`
	FontColor  Color   `json:"font_color"`
	FontSize   float64 `json:"font_size"`
}

// DefaultGlobals returns the built-in defaults applied when neither a deck
// config nor a ':ge' directive sets them: white text on black, size 20.
func DefaultGlobals() Globals {
	return Globals{
		Background: Color{0x00, 0x00, 0x00, 0xff},
		FontColor:  Color{0xff, 0xff, 0xff, 0xff},
		FontSize:   20,
	}
}

// TextBlock is a positioned run of text lines inside a slide. Insertion
// order is reading order. Size, color and position are seeded from the
// globals of the file that created the block and may be overridden by
// directives until the first content line arrives.
type TextBlock struct {
	Lines    []string `json:"lines"`
	Position Position `json:"position"`
	FontSize float64  `json:"font_size"`
	Color    Color    `json:"color"`
}

// ImageBlock references an image by path. The deck compiler never loads
// pixel data; resolving and loading the path is the renderer's job.
type ImageBlock struct {
	Path     string   `json:"path"`
	Position Position `json:"position"`
	Scale    float64  `json:"scale,omitempty"`
	Rotation float64  `json:"rotation,omitempty"`
}

// Block is the variant over the two block kinds. Exactly one of the fields
// is non-nil.
type Block struct {
	Text  *TextBlock  `json:"text,omitempty"`
	Image *ImageBlock `json:"image,omitempty"`
}

// Slide is an ordered sequence of blocks with its own background color,
// seeded from the globals of the file that opened it.
type Slide struct {
	Background Color   `json:"background"`
	Blocks     []Block `json:"blocks"`
}

// Document is the compiled deck: the ordered slides plus the top-level
// globals and the font table for the renderer. Imports append slides into
// the same Document; a parse never produces more than one.
type Document struct {
	Globals Globals           `json:"globals"`
	Fonts   map[string]string `json:"fonts,omitempty"`
	Slides  []Slide           `json:"slides"`
}

// WriteJSON writes the document to w as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// LoadJSON reads a previously compiled document back from its JSON form.
func LoadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding deck json: %w", err)
	}
	return &d, nil
}

// LoadJSONFile is LoadJSON over a file on disk.
func LoadJSONFile(fileName string) (*Document, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadJSON(file)
}
