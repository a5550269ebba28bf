// Package style implements the visual post-processing applied to a
// generated symbol raster. Each Style selects one compositing strategy;
// strategies recolor and reshape ink, but never flip a pixel's ink/empty
// classification, so styled symbols stay scannable.
package style

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Style selects a compositing strategy. The set is closed.
type Style int

const (
	// StyleUnknown is the zero value; callers treat it as "not specified".
	StyleUnknown Style = iota
	StyleStandard
	StyleRounded
	StyleWithLogo
	StyleGradient
	StyleFancyEyes
	StyleDots
	StyleFramed
	StyleShadow
	StyleMosaic
	StylePixelArt
)

// Styles lists every style in a stable order.
var Styles = []Style{
	StyleStandard,
	StyleRounded,
	StyleWithLogo,
	StyleGradient,
	StyleFancyEyes,
	StyleDots,
	StyleFramed,
	StyleShadow,
	StyleMosaic,
	StylePixelArt,
}

var styleNames = map[Style]string{
	StyleStandard:  "standard",
	StyleRounded:   "rounded",
	StyleWithLogo:  "with-logo",
	StyleGradient:  "gradient",
	StyleFancyEyes: "fancy-eyes",
	StyleDots:      "dots",
	StyleFramed:    "framed",
	StyleShadow:    "shadow",
	StyleMosaic:    "mosaic",
	StylePixelArt:  "pixel-art",
}

var styleLabels = map[Style]string{
	StyleStandard:  "Standard",
	StyleRounded:   "Rounded modules",
	StyleWithLogo:  "Embedded logo",
	StyleGradient:  "Diagonal gradient",
	StyleFancyEyes: "Colored finder eyes",
	StyleDots:      "Dots",
	StyleFramed:    "Framed",
	StyleShadow:    "Drop shadow",
	StyleMosaic:    "Mosaic",
	StylePixelArt:  "Pixel art corners",
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return "unknown"
}

// Label returns the human-readable name of the style.
func (s Style) Label() string {
	if l, ok := styleLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// ParseStyle resolves a user-supplied style name.
func ParseStyle(s string) (Style, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	// Tolerate the camel-case spellings used by older configs.
	name = strings.ReplaceAll(name, "_", "-")
	switch name {
	case "withlogo", "logo":
		name = "with-logo"
	case "fancyeyes", "eyes":
		name = "fancy-eyes"
	case "pixelart":
		name = "pixel-art"
	}
	for st, n := range styleNames {
		if n == name {
			return st, nil
		}
	}
	return StyleUnknown, fmt.Errorf("unknown style %q", s)
}

// Palette holds the colors a strategy may reference. Nil fields fall back
// to documented defaults: white background, black primary, slate secondary,
// light slate tertiary.
type Palette struct {
	Background color.Color
	Primary    color.Color
	Secondary  color.Color
	Tertiary   color.Color
}

// Fallbacks for unset palette slots. Styles that need a secondary or
// tertiary color must render something sensible without failing.
var (
	fallbackBackground = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	fallbackPrimary    = color.NRGBA{0x00, 0x00, 0x00, 0xFF}
	fallbackSecondary  = color.NRGBA{0x47, 0x5D, 0x6E, 0xFF}
	fallbackTertiary   = color.NRGBA{0x8A, 0xA0, 0xB0, 0xFF}
)

// resolved is a palette with every slot filled in.
type resolved struct {
	bg        color.NRGBA
	primary   color.NRGBA
	secondary color.NRGBA
	tertiary  color.NRGBA
}

func (p Palette) resolve() resolved {
	r := resolved{
		bg:        fallbackBackground,
		primary:   fallbackPrimary,
		secondary: fallbackSecondary,
		tertiary:  fallbackTertiary,
	}
	if p.Background != nil {
		r.bg = toNRGBAColor(p.Background)
	}
	if p.Primary != nil {
		r.primary = toNRGBAColor(p.Primary)
	}
	if p.Secondary != nil {
		r.secondary = toNRGBAColor(p.Secondary)
	}
	if p.Tertiary != nil {
		r.tertiary = toNRGBAColor(p.Tertiary)
	}
	return r
}

// Colors returns every palette slot with fallbacks applied.
func (p Palette) Colors() (bg, primary, secondary, tertiary color.NRGBA) {
	r := p.resolve()
	return r.bg, r.primary, r.secondary, r.tertiary
}

// Defaults for style-specific geometry.
const (
	DefaultLogoFraction = 0.20
	DefaultEyeFraction  = 0.20
	DefaultMosaicCells  = 10
	DefaultShadowBlur   = 4.0
)

// DefaultShadowOffset is the shadow displacement used when none is given.
var DefaultShadowOffset = image.Pt(6, 6)

// Params carries style-specific geometry. Zero values degrade to the
// documented defaults; a zero frame width or shadow blur simply produces
// no visible border or shadow.
type Params struct {
	// FrameWidth is the border band width in pixels (framed).
	FrameWidth int
	// FrameColor is the border color; nil uses the primary color.
	FrameColor color.Color

	// ShadowOffset displaces the shadow copy (shadow). Zero uses
	// DefaultShadowOffset.
	ShadowOffset image.Point
	// ShadowBlur is the gaussian sigma applied to the shadow copy.
	// Negative values use DefaultShadowBlur; zero means a hard shadow.
	ShadowBlur float64
	// ShadowColor is the shadow color; nil uses half-opaque black.
	ShadowColor color.Color

	// Logo is composited over the symbol center (with-logo). Nil behaves
	// as the standard style.
	Logo image.Image
	// LogoFraction is the central box side as a fraction of the symbol
	// size; values outside (0, 0.4] use DefaultLogoFraction.
	LogoFraction float64

	// MosaicCells is the mosaic grid dimension; non-positive uses
	// DefaultMosaicCells.
	MosaicCells int

	// EyeFraction is the corner-region side as a fraction of the symbol
	// size (fancy-eyes, pixel-art); values outside (0, 0.5) use
	// DefaultEyeFraction.
	EyeFraction float64
}

func (p Params) logoFraction() float64 {
	if p.LogoFraction <= 0 || p.LogoFraction > 0.4 {
		return DefaultLogoFraction
	}
	return p.LogoFraction
}

func (p Params) eyeFraction() float64 {
	if p.EyeFraction <= 0 || p.EyeFraction >= 0.5 {
		return DefaultEyeFraction
	}
	return p.EyeFraction
}

func (p Params) mosaicCells() int {
	if p.MosaicCells <= 0 {
		return DefaultMosaicCells
	}
	return p.MosaicCells
}

func (p Params) shadowOffset() image.Point {
	if p.ShadowOffset == (image.Point{}) {
		return DefaultShadowOffset
	}
	return p.ShadowOffset
}

func (p Params) shadowBlur() float64 {
	if p.ShadowBlur < 0 {
		return DefaultShadowBlur
	}
	return p.ShadowBlur
}

func (p Params) shadowColor() color.NRGBA {
	if p.ShadowColor == nil {
		return color.NRGBA{0x00, 0x00, 0x00, 0x80}
	}
	return toNRGBAColor(p.ShadowColor)
}

func (p Params) frameColor(pal resolved) color.NRGBA {
	if p.FrameColor == nil {
		return pal.primary
	}
	return toNRGBAColor(p.FrameColor)
}

// eyeRegions returns the three approximate finder-marker regions
// (top-left, top-right, bottom-left). The regions are a fixed fraction of
// the symbol size, not an exact per-module alignment.
func eyeRegions(size int, frac float64) [3]image.Rectangle {
	e := int(float64(size) * frac)
	return [3]image.Rectangle{
		image.Rect(0, 0, e, e),
		image.Rect(size-e, 0, size, e),
		image.Rect(0, size-e, e, size),
	}
}

func inAnyRegion(x, y int, regions [3]image.Rectangle) bool {
	pt := image.Pt(x, y)
	for _, r := range regions {
		if pt.In(r) {
			return true
		}
	}
	return false
}
