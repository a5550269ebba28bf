//go:build !decode_gozxing

package decode

import (
	"context"
	"image"
)

type defaultBackend struct{}

func newDefaultBackend() (Backend, error) { return &defaultBackend{}, nil }

func (d *defaultBackend) Decode(_ context.Context, _ image.Image, _ Options) (*Result, error) {
	return nil, ErrNoBackend
}
