package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkerboard(n int) [][]bool {
	m := make([][]bool, n)
	for y := range n {
		m[y] = make([]bool, n)
		for x := range n {
			m[y][x] = (x+y)%2 == 0
		}
	}
	return m
}

func TestFromModules_ScalesToTarget(t *testing.T) {
	r, err := FromModules(checkerboard(5), 50)
	require.NoError(t, err)
	assert.Equal(t, 50, r.Size())
	assert.Equal(t, 5, r.ModuleCount())
	assert.Equal(t, 10, r.ModulePx())

	// Module (0,0) is ink, so its entire 10x10 cell is ink.
	for y := range 10 {
		for x := range 10 {
			assert.True(t, r.Ink(x, y))
		}
	}
	// Module (1,0) is empty.
	assert.False(t, r.Ink(15, 5))
}

func TestFromModules_UnevenTargetCentersGrid(t *testing.T) {
	// 53 / 5 = 10 with 3 leftover pixels; grid origin shifts by 1.
	r, err := FromModules(checkerboard(5), 53)
	require.NoError(t, err)
	assert.Equal(t, 53, r.Size())
	assert.Equal(t, 10, r.ModulePx())
	assert.False(t, r.Ink(0, 0)) // margin pixel
	assert.True(t, r.Ink(1, 1))
}

func TestFromModules_RejectsRaggedMatrix(t *testing.T) {
	m := [][]bool{{true, false}, {true}}
	_, err := FromModules(m, 10)
	require.ErrorIs(t, err, ErrNotSquare)
}

func TestFromImage_Threshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})                          // black, ink
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255}) // white
	img.SetNRGBA(2, 0, color.NRGBA{A: 10})                          // transparent
	r, err := FromImage(img)
	require.NoError(t, err)
	assert.True(t, r.Ink(0, 0))
	assert.False(t, r.Ink(1, 0))
	assert.False(t, r.Ink(2, 0))
	assert.Equal(t, 1, r.InkCount())
}

func TestFromImage_RejectsNonSquare(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 6))
	_, err := FromImage(img)
	require.ErrorIs(t, err, ErrNotSquare)
}

func TestModuleAccessors(t *testing.T) {
	r, err := FromModules(checkerboard(3), 30)
	require.NoError(t, err)
	assert.True(t, r.ModuleInk(0, 0))
	assert.False(t, r.ModuleInk(1, 0))
	assert.Equal(t, image.Rect(10, 0, 20, 10), r.ModuleRect(1, 0))
}

func TestInk_OutOfRangeIsEmpty(t *testing.T) {
	r, err := FromModules(checkerboard(3), 9)
	require.NoError(t, err)
	assert.False(t, r.Ink(-1, 0))
	assert.False(t, r.Ink(0, 9))
}
