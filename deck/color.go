package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// webSafeColors is the fixed palette of symbolic color names the language
// accepts, the sixteen basic web-safe colors. Lookup is case-insensitive.
var webSafeColors = map[string]Color{
	"aqua":    {0x00, 0xff, 0xff, 0xff},
	"black":   {0x00, 0x00, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"fuchsia": {0xff, 0x00, 0xff, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"lime":    {0x00, 0xff, 0x00, 0xff},
	"maroon":  {0x80, 0x00, 0x00, 0xff},
	"navy":    {0x00, 0x00, 0x80, 0xff},
	"olive":   {0x80, 0x80, 0x00, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"silver":  {0xc0, 0xc0, 0xc0, 0xff},
	"teal":    {0x00, 0x80, 0x80, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
}

// ResolveColor turns the argument words of a color directive into a Color.
// Three surface forms exist: 3 or 4 numeric channels in [0,255], a hex
// literal "#rrggbb" or "#rrggbbaa", or a web-safe color name. A missing
// alpha channel defaults to fully opaque. Dispatch is by argument count and
// first character; once a form has syntactically matched, its errors are
// final and no other form is tried.
func ResolveColor(args []string) (Color, error) {
	switch len(args) {
	case 0:
		return Color{}, fmt.Errorf("color expects a value")
	case 1:
		if strings.HasPrefix(args[0], "#") {
			return resolveHexColor(args[0])
		}
		return resolveNamedColor(args[0])
	case 3, 4:
		return resolveChannels(args)
	default:
		return Color{}, fmt.Errorf("color expects 1, 3 or 4 arguments, got %d", len(args))
	}
}

func resolveChannels(args []string) (Color, error) {
	var ch [4]uint8
	ch[3] = 0xff // missing alpha is opaque
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color channel %q is not an integer in [0,255]", arg)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func resolveHexColor(arg string) (Color, error) {
	digits := arg[1:]
	if len(digits) != 6 && len(digits) != 8 {
		return Color{}, fmt.Errorf("hex color %q must have 6 or 8 digits", arg)
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(digits[i:i+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("hex color %q contains non-hex characters", arg)
		}
		ch[i/2] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func resolveNamedColor(arg string) (Color, error) {
	c, ok := webSafeColors[strings.ToLower(arg)]
	if !ok {
		return Color{}, fmt.Errorf("%q is not a known color name", arg)
	}
	return c, nil
}
