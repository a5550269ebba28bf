// Package render orchestrates one symbol render: encode the payload into a
// monochrome raster, run the style compositor, and encode the result as
// PNG. Each call owns its buffers, so renders may run concurrently.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/mempool"
	"github.com/MeKo-Tech/stipple/internal/style"
)

// RenderError reports that the styled image could not be produced or
// serialized. It is distinct from encode.EncodingError so callers can tell
// "no symbol could be generated" from "the symbol could not be rendered".
type RenderError struct {
	Operation string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error in %s: %v", e.Operation, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Request describes one render call. Zero values fall back to the
// renderer's defaults.
type Request struct {
	Data    string
	Format  encode.Format
	Size    int
	Level   encode.Level
	Style   style.Style
	Palette style.Palette
	Params  style.Params

	// StripHeight overrides the height of non-square symbols; zero keeps
	// the renderer default.
	StripHeight int
}

// Result is the terminal artifact of one render call: lossless PNG bytes
// plus pixel dimensions.
type Result struct {
	PNG     []byte
	Width   int
	Height  int
	Format  encode.Format
	Style   style.Style
	Elapsed time.Duration
}

// Image decodes the result back into an image. Used by verification and
// tests; the PNG bytes are the primary artifact.
func (r *Result) Image() (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(r.PNG))
	if err != nil {
		return nil, &RenderError{Operation: "decode", Err: err}
	}
	return img, nil
}

// Renderer renders symbols with a fixed set of defaults. It holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	defaultSize   int
	defaultFormat encode.Format
	defaultLevel  encode.Level
	defaultStyle  style.Style
	stripHeight   int
}

// Builder constructs a Renderer with fluent configuration.
type Builder struct {
	r   Renderer
	err error
}

// NewBuilder creates a builder with package defaults.
func NewBuilder() *Builder {
	return &Builder{r: Renderer{
		defaultSize:   encode.DefaultSize,
		defaultFormat: encode.FormatQR,
		defaultLevel:  encode.LevelMedium,
		defaultStyle:  style.StyleStandard,
		stripHeight:   encode.DefaultSize / 3,
	}}
}

// WithSize sets the default output side length in pixels.
func (b *Builder) WithSize(size int) *Builder {
	if size > 0 {
		b.r.defaultSize = size
	}
	return b
}

// WithFormat sets the default symbology.
func (b *Builder) WithFormat(f encode.Format) *Builder {
	if f != encode.FormatUnknown {
		b.r.defaultFormat = f
	}
	return b
}

// WithLevel sets the default QR error correction level.
func (b *Builder) WithLevel(l encode.Level) *Builder {
	b.r.defaultLevel = l
	return b
}

// WithStyle sets the default compositing style.
func (b *Builder) WithStyle(s style.Style) *Builder {
	b.r.defaultStyle = s
	return b
}

// WithStripHeight sets the default height for non-square symbols.
func (b *Builder) WithStripHeight(h int) *Builder {
	if h > 0 {
		b.r.stripHeight = h
	}
	return b
}

// Build returns the configured renderer.
func (b *Builder) Build() (*Renderer, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := b.r
	return &r, nil
}

// Render produces the final styled image for one request. Encoding
// failures propagate as *encode.EncodingError without retry; everything
// after a successful encode fails only as *RenderError.
func (r *Renderer) Render(req Request) (*Result, error) {
	start := time.Now()

	format := req.Format
	if format == encode.FormatUnknown {
		format = r.defaultFormat
	}
	size := req.Size
	if size <= 0 {
		size = r.defaultSize
	}
	st := req.Style
	if st == style.StyleUnknown {
		st = r.defaultStyle
	}
	level := req.Level
	if level == encode.LevelDefault {
		level = r.defaultLevel
	}

	var img image.Image
	if format.IsSquare() {
		mono, err := encode.Generate(req.Data, encode.Options{Format: format, Size: size, Level: level})
		if err != nil {
			return nil, err
		}
		styled, err := style.Compose(mono, st, req.Palette, req.Params)
		if err != nil {
			return nil, &RenderError{Operation: "compose", Err: err}
		}
		img = styled
	} else {
		if st != style.StyleStandard {
			return nil, &RenderError{
				Operation: "compose",
				Err:       fmt.Errorf("style %s requires a square symbology, got %s", st, format),
			}
		}
		height := req.StripHeight
		if height <= 0 {
			height = r.stripHeight
		}
		strip, err := encode.GenerateStrip(req.Data, format, size, height)
		if err != nil {
			var encErr *encode.EncodingError
			if errors.As(err, &encErr) {
				return nil, err
			}
			return nil, &RenderError{Operation: "scale", Err: err}
		}
		img = recolorStrip(strip, req.Palette)
	}

	buf := mempool.GetBuffer()
	defer mempool.PutBuffer(buf)
	if err := png.Encode(buf, img); err != nil {
		return nil, &RenderError{Operation: "encode", Err: err}
	}

	b := img.Bounds()
	return &Result{
		PNG:     append([]byte(nil), buf.Bytes()...),
		Width:   b.Dx(),
		Height:  b.Dy(),
		Format:  format,
		Style:   st,
		Elapsed: time.Since(start),
	}, nil
}

// recolorStrip substitutes the palette's background and primary colors into
// a black-on-white strip symbol.
func recolorStrip(src image.Image, pal style.Palette) *image.NRGBA {
	bg, primary, _, _ := pal.Colors()
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if (299*int(c.R)+587*int(c.G)+114*int(c.B))/1000 < 128 {
				out.SetNRGBA(x, y, primary)
			} else {
				out.SetNRGBA(x, y, bg)
			}
		}
	}
	return out
}
