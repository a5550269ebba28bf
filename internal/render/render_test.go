package render

import (
	"bytes"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/style"
	"github.com/MeKo-Tech/stipple/internal/testutil"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewBuilder().Build()
	require.NoError(t, err)
	return r
}

func TestRender_QRStandard(t *testing.T) {
	r := newRenderer(t)
	res, err := r.Render(Request{Data: "https://example.com", Size: 200})
	require.NoError(t, err)
	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 200, res.Height)
	assert.Equal(t, encode.FormatQR, res.Format)

	img, err := res.Image()
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestRender_AllStylesSucceedForQR(t *testing.T) {
	r := newRenderer(t)
	for _, s := range style.Styles {
		res, err := r.Render(Request{Data: "stipple", Size: 128, Style: s})
		require.NoError(t, err, "style %s", s)
		assert.Equal(t, 128, res.Width, "style %s", s)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := newRenderer(t)
	req := Request{Data: "TEST", Size: 128, Style: style.StyleMosaic}
	a, err := r.Render(req)
	require.NoError(t, err)
	b, err := r.Render(req)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a.PNG, b.PNG), "identical requests must produce identical bytes")
}

func TestRender_EncodingErrorPropagates(t *testing.T) {
	r := newRenderer(t)
	_, err := r.Render(Request{Data: "not numeric", Format: encode.FormatEAN13})
	var encErr *encode.EncodingError
	require.ErrorAs(t, err, &encErr)
	var renderErr *RenderError
	assert.NotErrorAs(t, err, &renderErr)
}

func TestRender_StripRejectsStyling(t *testing.T) {
	r := newRenderer(t)
	_, err := r.Render(Request{Data: "INV-1", Format: encode.FormatCode128, Style: style.StyleGradient})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
}

func TestRender_StripWithPalette(t *testing.T) {
	r := newRenderer(t)
	res, err := r.Render(Request{
		Data:        "INV-1",
		Format:      encode.FormatCode128,
		Size:        300,
		StripHeight: 90,
		Palette: style.Palette{
			Background: color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF},
			Primary:    color.NRGBA{0x00, 0x00, 0x80, 0xFF},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 300, res.Width)
	assert.Equal(t, 90, res.Height)

	img, err := res.Image()
	require.NoError(t, err)
	// Bars carry the primary color, not black.
	foundPrimary := false
	for x := range 300 {
		if testutil.PixelNRGBA(img, x, 45) == (color.NRGBA{0x00, 0x00, 0x80, 0xFF}) {
			foundPrimary = true
			break
		}
	}
	assert.True(t, foundPrimary)
}

func TestRender_ConcurrentCallsAreIndependent(t *testing.T) {
	r := newRenderer(t)
	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := r.Render(Request{Data: "concurrent", Size: 96, Style: style.StyleGradient})
			if err == nil {
				results[i] = res.PNG
			}
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		require.NotNil(t, results[i])
		assert.True(t, bytes.Equal(results[0], results[i]))
	}
}

func TestRender_PNGIsDecodable(t *testing.T) {
	r := newRenderer(t)
	res, err := r.Render(Request{Data: "decode me", Size: 64})
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
}

func TestBuilder_Defaults(t *testing.T) {
	r, err := NewBuilder().
		WithSize(512).
		WithFormat(encode.FormatQR).
		WithLevel(encode.LevelHighest).
		WithStyle(style.StyleRounded).
		WithStripHeight(100).
		Build()
	require.NoError(t, err)

	res, err := r.Render(Request{Data: "defaults"})
	require.NoError(t, err)
	assert.Equal(t, 512, res.Width)
	assert.Equal(t, style.StyleRounded, res.Style)
}
