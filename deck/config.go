package deck

import (
	"strconv"
	"strings"

	"github.com/hesusruiz/vcutils/yaml"
)

// Config is the optional deck configuration, loaded from a YAML file next
// to the deck sources. It supplies the font table handed to the renderer
// and can replace the built-in default globals. Example:
//
//	fonts:
//	    title: fonts/Inter-Bold.ttf
//	    body: fonts/Inter-Regular.ttf
//	background: "#202828"
//	font_color: white
//	font_size: 18
type Config struct {
	fileName    string
	fonts       map[string]string
	background  string
	fontColor   string
	fontSize    float64
	fontSizeSet bool
}

// LoadConfig reads a deck configuration file.
func LoadConfig(fileName string) (*Config, error) {
	y, err := yaml.ParseYamlFile(fileName)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		fileName:   fileName,
		fonts:      map[string]string{},
		background: y.String("background"),
		fontColor:  y.String("font_color"),
	}

	// font_size is usually a number node, but accept a quoted one too.
	if node, err := y.Get("font_size"); err == nil && node != nil {
		cfg.fontSizeSet = true
		cfg.fontSize = y.Float64("font_size")
		if s := strings.TrimSpace(y.String("font_size")); cfg.fontSize == 0 && s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				cfg.fontSize = v
			}
		}
	}

	for name, v := range y.Map("fonts") {
		if path, ok := v.(string); ok {
			cfg.fonts[name] = path
		}
	}

	return cfg, nil
}

// apply installs the configuration on a fresh document before parsing
// begins. Color values accept the same three notations as the language.
func (c *Config) apply(doc *Document) error {
	if len(c.fonts) > 0 {
		doc.Fonts = make(map[string]string, len(c.fonts))
		for name, path := range c.fonts {
			doc.Fonts[name] = path
		}
	}

	if c.background != "" {
		col, err := ResolveColor(strings.Fields(c.background))
		if err != nil {
			return &ParseError{Kind: ErrKindFormat, File: c.fileName, Msg: "config background: " + err.Error()}
		}
		doc.Globals.Background = col
	}

	if c.fontColor != "" {
		col, err := ResolveColor(strings.Fields(c.fontColor))
		if err != nil {
			return &ParseError{Kind: ErrKindFormat, File: c.fileName, Msg: "config font_color: " + err.Error()}
		}
		doc.Globals.FontColor = col
	}

	if c.fontSizeSet {
		if c.fontSize <= 0 {
			return &ParseError{Kind: ErrKindFormat, File: c.fileName, Msg: "config font_size must be a positive number"}
		}
		doc.Globals.FontSize = c.fontSize
	}

	return nil
}
