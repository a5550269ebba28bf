package server

import (
	"image"
	"image/color"
)

// testLogoImage builds a small opaque square used as a logo in tests.
func testLogoImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0xE0, G: 0x40, B: 0x40, A: 0xFF})
		}
	}
	return img
}
