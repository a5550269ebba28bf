package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Raster is a square monochrome mask produced by a symbol encoder.
// Each pixel is either ink (symbol foreground) or empty (background).
// A Raster is immutable after construction; styling strategies only read it.
type Raster struct {
	size     int
	modules  int // modules per side, including quiet zone; 0 if unknown
	modulePx int // pixel size of one module; 1 if unknown
	offX     int // pixel offset of the module grid origin
	offY     int
	ink      []bool
}

// ErrNotSquare is returned when a source matrix or image is not square.
var ErrNotSquare = errors.New("raster: source is not square")

// FromModules scales a square module matrix to targetPx pixels using
// nearest-neighbor expansion. Every module maps to a modulePx x modulePx
// cell; leftover pixels are distributed as extra margin so the output is
// exactly targetPx wide.
func FromModules(modules [][]bool, targetPx int) (*Raster, error) {
	n := len(modules)
	if n == 0 {
		return nil, errors.New("raster: empty module matrix")
	}
	for _, row := range modules {
		if len(row) != n {
			return nil, ErrNotSquare
		}
	}
	if targetPx < n {
		targetPx = n
	}
	modulePx := targetPx / n
	used := modulePx * n
	off := (targetPx - used) / 2

	r := &Raster{
		size:     targetPx,
		modules:  n,
		modulePx: modulePx,
		offX:     off,
		offY:     off,
		ink:      make([]bool, targetPx*targetPx),
	}
	for my := range n {
		for mx := range n {
			if !modules[my][mx] {
				continue
			}
			x0 := off + mx*modulePx
			y0 := off + my*modulePx
			for y := y0; y < y0+modulePx; y++ {
				for x := x0; x < x0+modulePx; x++ {
					r.ink[y*targetPx+x] = true
				}
			}
		}
	}
	return r, nil
}

// FromImage thresholds a square image into an ink mask. A pixel is ink when
// it is mostly opaque and darker than mid-gray. Module geometry is unknown,
// so the module grid degenerates to one pixel per module.
func FromImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, ErrNotSquare
	}
	size := b.Dx()
	r := &Raster{
		size:     size,
		modules:  size,
		modulePx: 1,
		ink:      make([]bool, size*size),
	}
	for y := range size {
		for x := range size {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if c.A >= 128 && luma(c) < 128 {
				r.ink[y*size+x] = true
			}
		}
	}
	return r, nil
}

func luma(c color.NRGBA) int {
	// Rec. 601 integer approximation.
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

// Size returns the raster's side length in pixels.
func (r *Raster) Size() int { return r.size }

// Bounds returns the raster's pixel bounds.
func (r *Raster) Bounds() image.Rectangle { return image.Rect(0, 0, r.size, r.size) }

// Ink reports whether the pixel at (x, y) belongs to the symbol foreground.
// Out-of-range coordinates are empty.
func (r *Raster) Ink(x, y int) bool {
	if x < 0 || y < 0 || x >= r.size || y >= r.size {
		return false
	}
	return r.ink[y*r.size+x]
}

// ModuleCount returns the number of modules per side (including any quiet
// zone the encoder emitted), or the pixel count if the grid is unknown.
func (r *Raster) ModuleCount() int { return r.modules }

// ModulePx returns the pixel size of one module (1 if unknown).
func (r *Raster) ModulePx() int { return r.modulePx }

// ModuleInk reports whether module (mx, my) is ink, sampling the cell center.
func (r *Raster) ModuleInk(mx, my int) bool {
	rect := r.ModuleRect(mx, my)
	cx := rect.Min.X + rect.Dx()/2
	cy := rect.Min.Y + rect.Dy()/2
	return r.Ink(cx, cy)
}

// ModuleRect returns the pixel cell covered by module (mx, my).
func (r *Raster) ModuleRect(mx, my int) image.Rectangle {
	x0 := r.offX + mx*r.modulePx
	y0 := r.offY + my*r.modulePx
	return image.Rect(x0, y0, x0+r.modulePx, y0+r.modulePx)
}

// InkCount returns the number of ink pixels. Used for sanity checks.
func (r *Raster) InkCount() int {
	n := 0
	for _, v := range r.ink {
		if v {
			n++
		}
	}
	return n
}

func (r *Raster) String() string {
	return fmt.Sprintf("raster %dx%d (%d modules @ %dpx)", r.size, r.size, r.modules, r.modulePx)
}
