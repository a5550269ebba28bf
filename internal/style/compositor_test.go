package style

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/stipple/internal/testutil"
)

var (
	black = color.NRGBA{0x00, 0x00, 0x00, 0xFF}
	white = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	red   = color.NRGBA{0xFF, 0x00, 0x00, 0xFF}
	blue  = color.NRGBA{0x00, 0x00, 0xFF, 0xFF}
	lime  = color.NRGBA{0x00, 0xFF, 0x00, 0xFF}
)

func bwPalette() Palette {
	return Palette{Background: white, Primary: black}
}

func TestCompose_PreservesDimensionsForAllStyles(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 21, 105)
	logo := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for _, s := range Styles {
		out, err := Compose(r, s, bwPalette(), Params{Logo: logo, FrameWidth: 8})
		require.NoError(t, err, "style %s", s)
		assert.Equal(t, r.Bounds(), out.Bounds(), "style %s", s)
	}
}

func TestCompose_UnknownStyleFails(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 5, 25)
	_, err := Compose(r, Style(42), bwPalette(), Params{})
	require.Error(t, err)
}

func TestCompose_IsDeterministic(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 21, 105)
	logo := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	params := Params{Logo: logo, FrameWidth: 8, ShadowBlur: 2}
	for _, s := range Styles {
		a, err := Compose(r, s, bwPalette(), params)
		require.NoError(t, err)
		b, err := Compose(r, s, bwPalette(), params)
		require.NoError(t, err)
		testutil.RequireSameImage(t, a, b)
	}
}

// 21x21 diagonal, standard style: diagonal ink is black, the rest white.
func TestComposeStandard_DiagonalScenario(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 21, 21)
	out, err := Compose(r, StyleStandard, bwPalette(), Params{})
	require.NoError(t, err)
	testutil.RequirePixel(t, out, 10, 10, black)
	testutil.RequirePixel(t, out, 0, 20, white)
}

func TestComposeStandard_NoInversion(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 9, 45)
	out, err := Compose(r, StyleStandard, bwPalette(), Params{})
	require.NoError(t, err)
	for y := range 45 {
		for x := range 45 {
			if r.Ink(x, y) {
				testutil.RequirePixel(t, out, x, y, black)
			} else {
				testutil.RequirePixel(t, out, x, y, white)
			}
		}
	}
}

func TestComposeCircles_ModuleCentersInked(t *testing.T) {
	r := testutil.NewSolidRaster(t, 9, 90)
	for _, s := range []Style{StyleRounded, StyleDots} {
		out, err := Compose(r, s, bwPalette(), Params{})
		require.NoError(t, err)
		// Every ink module keeps an opaque center pixel.
		for my := range 9 {
			for mx := range 9 {
				cell := r.ModuleRect(mx, my)
				c := testutil.PixelNRGBA(out, cell.Min.X+cell.Dx()/2, cell.Min.Y+cell.Dy()/2)
				assert.Less(t, int(c.R), 128, "style %s module (%d,%d) center must stay dark", s, mx, my)
			}
		}
	}
}

func TestComposeCircles_EmptyStaysBackground(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 9, 45)
	for _, s := range []Style{StyleRounded, StyleDots} {
		out, err := Compose(r, s, bwPalette(), Params{})
		require.NoError(t, err)
		// Circles are inscribed per module, so no empty pixel may pick
		// up ink, not even from anti-aliased edges.
		for y := range 45 {
			for x := range 45 {
				if !r.Ink(x, y) {
					require.Equal(t, white, testutil.PixelNRGBA(out, x, y),
						"style %s pixel (%d,%d)", s, x, y)
				}
			}
		}
	}
}

func TestComposeDots_RoundsCellCorners(t *testing.T) {
	r := testutil.NewSolidRaster(t, 5, 100)
	out, err := Compose(r, StyleDots, bwPalette(), Params{})
	require.NoError(t, err)
	// The corner of an ink cell lies outside the inscribed circle.
	corner := testutil.PixelNRGBA(out, 0, 0)
	assert.Equal(t, white.R, corner.R)
}

func TestComposeGradient_MonotonicAlongDiagonal(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 21, 105)
	out, err := Compose(r, StyleGradient, Palette{Background: white, Primary: red, Secondary: blue}, Params{})
	require.NoError(t, err)

	prevB := -1
	for k := range 21 {
		cell := r.ModuleRect(k, k)
		x := cell.Min.X + cell.Dx()/2
		c := testutil.PixelNRGBA(out, x, x)
		assert.GreaterOrEqual(t, int(c.B), prevB, "blue must not decrease along the diagonal")
		assert.LessOrEqual(t, int(c.R), 0xFF)
		prevB = int(c.B)
	}
	// Endpoints approach the palette colors.
	first := testutil.PixelNRGBA(out, 2, 2)
	last := testutil.PixelNRGBA(out, 102, 102)
	assert.Greater(t, int(first.R), int(first.B))
	assert.Greater(t, int(last.B), int(last.R))
}

func TestComposeGradient_MissingSecondaryFallsBack(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 21, 105)
	out, err := Compose(r, StyleGradient, Palette{Background: white, Primary: black}, Params{})
	require.NoError(t, err)
	// The bottom-right ink approaches the documented fallback secondary.
	c := testutil.PixelNRGBA(out, 102, 102)
	assert.NotEqual(t, black, c)
	assert.Positive(t, int(c.A))
}

func TestComposeMosaic_Parity(t *testing.T) {
	r := testutil.NewSolidRaster(t, 10, 100)
	out, err := Compose(r, StyleMosaic, Palette{Background: white, Primary: black, Secondary: blue}, Params{MosaicCells: 10})
	require.NoError(t, err)

	cellPx := 10
	sample := func(cx, cy int) color.NRGBA {
		return testutil.PixelNRGBA(out, cx*cellPx+cellPx/2, cy*cellPx+cellPx/2)
	}
	// Same parity, same treatment.
	assert.Equal(t, sample(0, 0), sample(1, 1))
	assert.Equal(t, sample(1, 0), sample(0, 1))
	// Opposite parity, different treatment.
	assert.NotEqual(t, sample(0, 0), sample(1, 0))
}

func TestComposeMosaic_EmptyStaysBackground(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 10, 100)
	out, err := Compose(r, StyleMosaic, bwPalette(), Params{})
	require.NoError(t, err)
	testutil.RequirePixel(t, out, 95, 5, white)
}

// Framed at 200px with a 10px band: uniform border, ink scaled inside.
func TestComposeFramed_BandAndInterior(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 20, 200)
	out, err := Compose(r, StyleFramed, bwPalette(), Params{FrameWidth: 10, FrameColor: red})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 200), out.Bounds())

	// The outer 10px band is uniformly the frame color.
	for i := range 200 {
		testutil.RequirePixel(t, out, i, 0, red)
		testutil.RequirePixel(t, out, i, 199, red)
		testutil.RequirePixel(t, out, 0, i, red)
		testutil.RequirePixel(t, out, 199, i, red)
		testutil.RequirePixel(t, out, i%200, 9, red)
	}
	// The interior carries the scaled ink pattern.
	found := false
	for y := 10; y < 190 && !found; y++ {
		for x := 10; x < 190; x++ {
			if testutil.PixelNRGBA(out, x, y) == black {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "interior must contain ink")
}

func TestComposeFramed_ZeroWidthIsStandard(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 10, 50)
	framed, err := Compose(r, StyleFramed, bwPalette(), Params{FrameWidth: 0})
	require.NoError(t, err)
	std, err := Compose(r, StyleStandard, bwPalette(), Params{})
	require.NoError(t, err)
	testutil.RequireSameImage(t, framed, std)
}

func TestComposeShadow_HardShadow(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 5, 50)
	shadowColor := color.NRGBA{0x00, 0x00, 0x00, 0x80}
	out, err := Compose(r, StyleShadow, bwPalette(), Params{
		ShadowOffset: image.Pt(3, 3),
		ShadowBlur:   0,
		ShadowColor:  shadowColor,
	})
	require.NoError(t, err)

	// Ink stays primary on top.
	testutil.RequirePixel(t, out, 5, 5, black)
	// Pixel (12,3): shadow of ink pixel (9,0), itself empty.
	got := testutil.PixelNRGBA(out, 12, 3)
	assert.NotEqual(t, white, got)
	assert.NotEqual(t, black, got)
	// Far corner untouched.
	testutil.RequirePixel(t, out, 5, 45, white)
}

func TestComposeFancyEyes_RegionColors(t *testing.T) {
	r := testutil.NewSolidRaster(t, 10, 100)
	out, err := Compose(r, StyleFancyEyes, Palette{Background: white, Primary: black, Secondary: blue}, Params{})
	require.NoError(t, err)
	testutil.RequirePixel(t, out, 5, 5, blue)    // top-left eye
	testutil.RequirePixel(t, out, 95, 5, blue)   // top-right eye
	testutil.RequirePixel(t, out, 5, 95, blue)   // bottom-left eye
	testutil.RequirePixel(t, out, 50, 50, black) // data region
	testutil.RequirePixel(t, out, 95, 95, black) // bottom-right is data
}

func TestComposePixelArt_RegionColors(t *testing.T) {
	r := testutil.NewSolidRaster(t, 10, 100)
	pal := Palette{Background: white, Primary: black, Secondary: blue, Tertiary: lime}
	out, err := Compose(r, StylePixelArt, pal, Params{})
	require.NoError(t, err)
	testutil.RequirePixel(t, out, 5, 5, lime)    // top-left
	testutil.RequirePixel(t, out, 95, 5, blue)   // top-right
	testutil.RequirePixel(t, out, 5, 95, blue)   // bottom-left
	testutil.RequirePixel(t, out, 50, 50, black) // remaining ink
}

func TestComposePixelArt_FallbackColorsDoNotFail(t *testing.T) {
	r := testutil.NewSolidRaster(t, 10, 100)
	out, err := Compose(r, StylePixelArt, bwPalette(), Params{})
	require.NoError(t, err)
	assert.Equal(t, fallbackTertiary, testutil.PixelNRGBA(out, 5, 5))
	assert.Equal(t, fallbackSecondary, testutil.PixelNRGBA(out, 95, 5))
}

func TestComposeWithLogo_NilLogoIsStandard(t *testing.T) {
	r := testutil.NewDiagonalRaster(t, 10, 50)
	withLogo, err := Compose(r, StyleWithLogo, bwPalette(), Params{})
	require.NoError(t, err)
	std, err := Compose(r, StyleStandard, bwPalette(), Params{})
	require.NoError(t, err)
	testutil.RequireSameImage(t, withLogo, std)
}

func TestComposeWithLogo_CentersLogoAndClearsInk(t *testing.T) {
	r := testutil.NewSolidRaster(t, 10, 100)
	logo := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := range 10 {
		for x := range 10 {
			logo.SetNRGBA(x, y, red)
		}
	}
	out, err := Compose(r, StyleWithLogo, bwPalette(), Params{Logo: logo, LogoFraction: 0.2})
	require.NoError(t, err)
	// Logo pixel at the exact center.
	testutil.RequirePixel(t, out, 50, 50, red)
	// Ink inside the hole but outside the logo is cleared to background.
	testutil.RequirePixel(t, out, 41, 41, white)
	// Ink outside the hole keeps the primary color.
	testutil.RequirePixel(t, out, 20, 20, black)
}
