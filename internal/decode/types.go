package decode

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/stipple/internal/encode"
)

// ErrNoBackend is returned when no decoder backend is linked into the
// binary. Enable one via build tags, e.g. -tags=decode_gozxing.
var ErrNoBackend = errors.New("decode: no decoder backend linked; build with -tags=decode_gozxing")

// Options controls backend decoding behavior.
type Options struct {
	// Formats constrains the set of symbologies to search.
	Formats []encode.Format

	// TryHarder enables more exhaustive search (slower but more robust).
	TryHarder bool
}

// Result represents a decoded symbol.
type Result struct {
	Format encode.Format
	Value  string
}

// Backend is a pluggable symbol decoder implementation.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts Options) (*Result, error)
}

// NewBackend returns the default backend implementation.
// The default build has no backend; enable specific backends via build tags.
func NewBackend() (Backend, error) { return newDefaultBackend() }

// Verify decodes a rendered symbol and checks that it still carries the
// expected payload. Styling must never break scannability; this is the
// check behind `stipple generate --verify`.
func Verify(ctx context.Context, b Backend, img image.Image, want string, f encode.Format) error {
	res, err := b.Decode(ctx, img, Options{Formats: []encode.Format{f}, TryHarder: true})
	if err != nil {
		return fmt.Errorf("verify %s symbol: %w", f, err)
	}
	if res.Value != want {
		return fmt.Errorf("verify %s symbol: decoded %q, want %q", f, res.Value, want)
	}
	return nil
}
