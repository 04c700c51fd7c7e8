package deck

import (
	"path/filepath"
	"testing"
)

func TestConfigDefaultsAndFonts(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeDeck(t, dir, "deck.yaml", `fonts:
    title: fonts/Inter-Bold.ttf
    body: fonts/Inter-Regular.ttf
background: "#202828"
font_color: silver
font_size: 18
`)
	main := writeDeck(t, dir, "main.txt", ":sl\n:tb\nhello\n")

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := ParseFileWithConfig(main, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := doc.Fonts["title"]; got != "fonts/Inter-Bold.ttf" {
		t.Errorf("fonts[title] = %q, want the configured path", got)
	}
	if len(doc.Fonts) != 2 {
		t.Errorf("got %d fonts, want 2", len(doc.Fonts))
	}
	if doc.Globals.Background != (Color{0x20, 0x28, 0x28, 0xff}) {
		t.Errorf("background = %v, want the configured #202828", doc.Globals.Background)
	}
	if doc.Globals.FontSize != 18 {
		t.Errorf("font size = %v, want 18", doc.Globals.FontSize)
	}

	// The config acts as the default, so blocks inherit it
	tb := doc.Slides[0].Blocks[0].Text
	if tb.Color != (Color{0xc0, 0xc0, 0xc0, 0xff}) || tb.FontSize != 18 {
		t.Errorf("block did not inherit config defaults: %+v", tb)
	}
}

func TestConfigFontSize(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want float64
		ok   bool
	}{
		{"number node", "font_size: 18\n", 18, true},
		{"quoted number", "font_size: \"24.5\"\n", 24.5, true},
		{"absent keeps default", "font_color: silver\n", 20, true},
		{"zero", "font_size: 0\n", 0, false},
		{"not a number", "font_size: big\n", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfgFile := writeDeck(t, dir, "deck.yaml", tt.yaml)
			main := writeDeck(t, dir, "main.txt", ":sl\n:tb\nhello\n")

			cfg, err := LoadConfig(cfgFile)
			if err != nil {
				t.Fatal(err)
			}
			doc, err := ParseFileWithConfig(main, cfg, nil)
			if !tt.ok {
				wantParseError(t, err, ErrKindFormat, 0)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if doc.Globals.FontSize != tt.want {
				t.Errorf("font size = %v, want %v", doc.Globals.FontSize, tt.want)
			}
			if tb := doc.Slides[0].Blocks[0].Text; tb.FontSize != tt.want {
				t.Errorf("block font size = %v, want %v", tb.FontSize, tt.want)
			}
		})
	}
}

func TestConfigOverriddenByGe(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeDeck(t, dir, "deck.yaml", "font_color: silver\n")
	main := writeDeck(t, dir, "main.txt", ":ge :fc red\n:sl\n:tb\nhello\n")

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := ParseFileWithConfig(main, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Globals.FontColor != (Color{255, 0, 0, 255}) {
		t.Errorf("font color = %v, want :ge to win over the config", doc.Globals.FontColor)
	}
}

func TestConfigBadColor(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeDeck(t, dir, "deck.yaml", "background: nosuchcolor\n")
	main := writeDeck(t, dir, "main.txt", ":sl\n")

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFileWithConfig(main, cfg, nil); err == nil {
		t.Fatal("parsing with a bad config color succeeded")
	}
}

func TestParseFileMissingSource(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"), nil)
	if err == nil {
		t.Fatal("parsing a missing source succeeded")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
	if pe.Kind != ErrKindImport {
		t.Errorf("kind = %v, want %v", pe.Kind, ErrKindImport)
	}
}
