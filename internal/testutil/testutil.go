// Package testutil provides helpers for building synthetic symbol rasters
// and asserting on rendered pixels in tests.
package testutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/stipple/internal/raster"
)

// DiagonalModules returns an n x n matrix with a single-module-wide ink
// diagonal from (0,0) to (n-1,n-1).
func DiagonalModules(n int) [][]bool {
	m := make([][]bool, n)
	for y := range n {
		m[y] = make([]bool, n)
		m[y][y] = true
	}
	return m
}

// SolidModules returns an n x n matrix that is entirely ink.
func SolidModules(n int) [][]bool {
	m := make([][]bool, n)
	for y := range n {
		m[y] = make([]bool, n)
		for x := range n {
			m[y][x] = true
		}
	}
	return m
}

// NewDiagonalRaster builds a diagonal raster scaled to sizePx pixels.
func NewDiagonalRaster(t *testing.T, modules, sizePx int) *raster.Raster {
	t.Helper()
	r, err := raster.FromModules(DiagonalModules(modules), sizePx)
	require.NoError(t, err)
	return r
}

// NewSolidRaster builds an all-ink raster scaled to sizePx pixels.
func NewSolidRaster(t *testing.T, modules, sizePx int) *raster.Raster {
	t.Helper()
	r, err := raster.FromModules(SolidModules(modules), sizePx)
	require.NoError(t, err)
	return r
}

// PixelNRGBA reads a pixel in NRGBA space.
func PixelNRGBA(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// RequirePixel asserts one pixel's exact NRGBA value.
func RequirePixel(t *testing.T, img image.Image, x, y int, want color.NRGBA) {
	t.Helper()
	require.Equal(t, want, PixelNRGBA(img, x, y), "pixel (%d,%d)", x, y)
}

// RequireSameImage asserts two images are byte-identical in NRGBA space.
func RequireSameImage(t *testing.T, a, b image.Image) {
	t.Helper()
	require.Equal(t, a.Bounds(), b.Bounds())
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			require.Equal(t, PixelNRGBA(a, x, y), PixelNRGBA(b, x, y), "pixel (%d,%d)", x, y)
		}
	}
}
