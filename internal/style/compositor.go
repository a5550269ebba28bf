package style

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/MeKo-Tech/stipple/internal/raster"
)

// Compose transforms a monochrome raster into a colored image according to
// the style, palette and parameters. The output has the raster's exact
// dimensions. Compose is deterministic and total over the enumerated
// styles; it only fails for a style value outside the closed set.
func Compose(r *raster.Raster, s Style, pal Palette, params Params) (*image.NRGBA, error) {
	p := pal.resolve()
	switch s {
	case StyleStandard:
		return composeFlat(r, p), nil
	case StyleRounded:
		return composeCircles(r, p, params, true), nil
	case StyleDots:
		return composeCircles(r, p, params, false), nil
	case StyleWithLogo:
		return composeWithLogo(r, p, params), nil
	case StyleGradient:
		return composeGradient(r, p), nil
	case StyleFancyEyes:
		return composeFancyEyes(r, p, params), nil
	case StyleFramed:
		return composeFramed(r, p, params), nil
	case StyleShadow:
		return composeShadow(r, p, params), nil
	case StyleMosaic:
		return composeMosaic(r, p, params), nil
	case StylePixelArt:
		return composePixelArt(r, p, params), nil
	default:
		return nil, fmt.Errorf("unknown style %d", int(s))
	}
}

// newCanvas allocates the output image filled with the background color.
func newCanvas(size int, p resolved) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(p.bg), image.Point{}, draw.Src)
	return img
}

// composeFlat is the standard strategy: ink to primary, empty to background.
func composeFlat(r *raster.Raster, p resolved) *image.NRGBA {
	size := r.Size()
	img := newCanvas(size, p)
	for y := range size {
		for x := range size {
			if r.Ink(x, y) {
				img.SetNRGBA(x, y, p.primary)
			}
		}
	}
	return img
}

// composeCircles renders each ink module as a circle instead of a square
// cell. With squareEyes, modules inside the finder-marker regions keep
// their square shape so the eyes stay solid; the dots style rounds
// everything uniformly.
func composeCircles(r *raster.Raster, p resolved, params Params, squareEyes bool) *image.NRGBA {
	size := r.Size()
	dc := gg.NewContext(size, size)
	dc.SetColor(p.bg)
	dc.Clear()
	dc.SetColor(p.primary)

	eyes := eyeRegions(size, params.eyeFraction())
	n := r.ModuleCount()
	for my := range n {
		for mx := range n {
			if !r.ModuleInk(mx, my) {
				continue
			}
			cell := r.ModuleRect(mx, my)
			cx := float64(cell.Min.X) + float64(cell.Dx())/2
			cy := float64(cell.Min.Y) + float64(cell.Dy())/2
			if squareEyes && inAnyRegion(int(cx), int(cy), eyes) {
				dc.DrawRectangle(float64(cell.Min.X), float64(cell.Min.Y), float64(cell.Dx()), float64(cell.Dy()))
			} else {
				dc.DrawCircle(cx, cy, float64(cell.Dx())/2)
			}
			dc.Fill()
		}
	}
	return toNRGBA(dc.Image())
}

// composeWithLogo paints the standard strategy but keeps a central box
// clear of ink, then composites the logo into it. A nil logo degrades to
// the standard strategy.
func composeWithLogo(r *raster.Raster, p resolved, params Params) *image.NRGBA {
	if params.Logo == nil {
		return composeFlat(r, p)
	}
	size := r.Size()
	box := int(float64(size) * params.logoFraction())
	x0 := (size - box) / 2
	hole := image.Rect(x0, x0, x0+box, x0+box)

	img := newCanvas(size, p)
	for y := range size {
		for x := range size {
			if r.Ink(x, y) && !image.Pt(x, y).In(hole) {
				img.SetNRGBA(x, y, p.primary)
			}
		}
	}

	fitted := imaging.Fit(params.Logo, box, box, imaging.Lanczos)
	fx := x0 + (box-fitted.Bounds().Dx())/2
	fy := x0 + (box-fitted.Bounds().Dy())/2
	target := image.Rect(fx, fy, fx+fitted.Bounds().Dx(), fy+fitted.Bounds().Dy())
	draw.Draw(img, target, fitted, image.Point{}, draw.Over)
	return img
}

// composeGradient blends ink pixels from primary to secondary along the
// main diagonal.
func composeGradient(r *raster.Raster, p resolved) *image.NRGBA {
	size := r.Size()
	img := newCanvas(size, p)
	span := float64(2 * (size - 1))
	if span <= 0 {
		span = 1
	}
	for y := range size {
		for x := range size {
			if !r.Ink(x, y) {
				continue
			}
			t := float64(x+y) / span
			img.SetNRGBA(x, y, lerpColor(p.primary, p.secondary, t))
		}
	}
	return img
}

// composeFancyEyes recolors ink inside the three finder-marker regions.
func composeFancyEyes(r *raster.Raster, p resolved, params Params) *image.NRGBA {
	size := r.Size()
	img := newCanvas(size, p)
	eyes := eyeRegions(size, params.eyeFraction())
	for y := range size {
		for x := range size {
			if !r.Ink(x, y) {
				continue
			}
			if inAnyRegion(x, y, eyes) {
				img.SetNRGBA(x, y, p.secondary)
			} else {
				img.SetNRGBA(x, y, p.primary)
			}
		}
	}
	return img
}

// composeFramed draws a border band around the symbol and scales the
// standard rendering to fit inside it.
func composeFramed(r *raster.Raster, p resolved, params Params) *image.NRGBA {
	size := r.Size()
	fw := params.FrameWidth
	if fw <= 0 {
		return composeFlat(r, p)
	}
	if size-2*fw < 1 {
		fw = (size - 1) / 2
	}
	inner := size - 2*fw

	scaled := imaging.Resize(composeFlat(r, p), inner, inner, imaging.NearestNeighbor)
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(params.frameColor(p)), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(fw, fw, fw+inner, fw+inner), scaled, image.Point{}, draw.Src)
	return img
}

// composeShadow paints a displaced, optionally blurred copy of the ink mask
// beneath the standard rendering.
func composeShadow(r *raster.Raster, p resolved, params Params) *image.NRGBA {
	size := r.Size()
	off := params.shadowOffset()
	sc := params.shadowColor()

	shadow := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if !r.Ink(x, y) {
				continue
			}
			sx, sy := x+off.X, y+off.Y
			if sx >= 0 && sy >= 0 && sx < size && sy < size {
				shadow.SetNRGBA(sx, sy, sc)
			}
		}
	}
	if sigma := params.shadowBlur(); sigma > 0 {
		shadow = imaging.Blur(shadow, sigma)
	}

	img := newCanvas(size, p)
	draw.Draw(img, img.Bounds(), shadow, image.Point{}, draw.Over)
	for y := range size {
		for x := range size {
			if r.Ink(x, y) {
				img.SetNRGBA(x, y, p.primary)
			}
		}
	}
	return img
}

// composeMosaic overlays a fixed grid and recolors ink in checkerboard
// cells. The grid is an approximation, not aligned to the module grid.
func composeMosaic(r *raster.Raster, p resolved, params Params) *image.NRGBA {
	size := r.Size()
	img := newCanvas(size, p)
	cells := params.mosaicCells()
	cellPx := (size + cells - 1) / cells

	alt := p.secondary
	// Reduced opacity keeps the checkerboard subtle.
	alt.A = uint8(int(alt.A) * 4 / 5)

	for y := range size {
		for x := range size {
			if !r.Ink(x, y) {
				continue
			}
			if (x/cellPx+y/cellPx)%2 == 0 {
				img.SetNRGBA(x, y, alt)
			} else {
				img.SetNRGBA(x, y, p.primary)
			}
		}
	}
	return img
}

// composePixelArt recolors the three corner regions: tertiary on the
// top-left, secondary on the other two, primary elsewhere.
func composePixelArt(r *raster.Raster, p resolved, params Params) *image.NRGBA {
	size := r.Size()
	img := newCanvas(size, p)
	eyes := eyeRegions(size, params.eyeFraction())
	for y := range size {
		for x := range size {
			if !r.Ink(x, y) {
				continue
			}
			pt := image.Pt(x, y)
			switch {
			case pt.In(eyes[0]):
				img.SetNRGBA(x, y, p.tertiary)
			case pt.In(eyes[1]) || pt.In(eyes[2]):
				img.SetNRGBA(x, y, p.secondary)
			default:
				img.SetNRGBA(x, y, p.primary)
			}
		}
	}
	return img
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
