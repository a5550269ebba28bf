package style

import (
	"fmt"
	"image/color"
	"strings"
)

// namedColors covers the names accepted on the CLI and the HTTP API.
var namedColors = map[string]color.NRGBA{
	"black":   {0x00, 0x00, 0x00, 0xFF},
	"white":   {0xFF, 0xFF, 0xFF, 0xFF},
	"red":     {0xFF, 0x00, 0x00, 0xFF},
	"green":   {0x00, 0x80, 0x00, 0xFF},
	"blue":    {0x00, 0x00, 0xFF, 0xFF},
	"gray":    {0x80, 0x80, 0x80, 0xFF},
	"orange":  {0xFF, 0xA5, 0x00, 0xFF},
	"purple":  {0x80, 0x00, 0x80, 0xFF},
	"teal":    {0x00, 0x80, 0x80, 0xFF},
	"navy":    {0x00, 0x00, 0x80, 0xFF},
	"magenta": {0xFF, 0x00, 0xFF, 0xFF},
	"yellow":  {0xFF, 0xFF, 0x00, 0xFF},
}

// ParseColor resolves "#rgb", "#rrggbb", "#rrggbbaa" or a named color.
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(name, "#")
	var c color.NRGBA
	c.A = 0xFF
	switch len(hex) {
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B); err != nil {
			return c, fmt.Errorf("invalid color %q", s)
		}
		c.R *= 0x11
		c.G *= 0x11
		c.B *= 0x11
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return c, fmt.Errorf("invalid color %q", s)
		}
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return c, fmt.Errorf("invalid color %q", s)
		}
	default:
		return c, fmt.Errorf("invalid color %q", s)
	}
	return c, nil
}

func toNRGBAColor(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// lerpColor interpolates between a and b; t is clamped to [0, 1].
func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.NRGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: uint8(float64(a.A) + t*(float64(b.A)-float64(a.A))),
	}
}
