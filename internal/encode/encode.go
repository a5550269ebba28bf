// Package encode wraps the symbol encoding libraries behind a single
// generation boundary. QR symbols come from skip2/go-qrcode at module
// resolution; every other symbology is produced by boombuler/barcode.
// The package never retries and never styles; it only yields monochrome
// symbol rasters (or strip images for non-square symbologies).
package encode

import (
	"errors"
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/twooffive"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/text/unicode/norm"

	"github.com/MeKo-Tech/stipple/internal/raster"
)

// Level selects QR error correction strength. The zero value defers to the
// caller's default (medium).
type Level int

const (
	LevelDefault Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelHighest
)

// ParseLevel resolves the single-letter level names used by QR tooling.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "":
		return LevelDefault, nil
	case "L", "l", "low":
		return LevelLow, nil
	case "M", "m", "medium":
		return LevelMedium, nil
	case "Q", "q", "high":
		return LevelHigh, nil
	case "H", "h", "highest":
		return LevelHighest, nil
	default:
		return LevelDefault, fmt.Errorf("unknown error correction level %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelHigh:
		return "Q"
	case LevelHighest:
		return "H"
	default:
		return "M"
	}
}

func mapRecoveryLevel(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelHigh:
		return qrcode.High
	case LevelHighest:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// EncodingError reports that a payload cannot be represented in the
// requested symbology (wrong alphabet, over capacity, bad check digit).
type EncodingError struct {
	Format Format
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Options controls symbol generation.
type Options struct {
	// Format selects the symbology.
	Format Format

	// Size is the target side length in pixels for square symbologies.
	Size int

	// Level is the QR error correction level; ignored by other formats.
	Level Level
}

// DefaultSize is used when Options.Size is unset.
const DefaultSize = 256

// quiet zone width in modules for 2D symbols encoded at module resolution.
const quietModules = 2

// Generate produces a square monochrome raster for the payload. The payload
// is normalized to NFC before encoding. Non-square symbologies are rejected
// here; use GenerateStrip for those.
func Generate(data string, opts Options) (*raster.Raster, error) {
	data = norm.NFC.String(data)
	if data == "" {
		return nil, &EncodingError{Format: opts.Format, Err: errors.New("empty payload")}
	}
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}

	switch opts.Format {
	case FormatQR:
		return generateQR(data, size, opts.Level)
	case FormatDataMatrix:
		bc, err := datamatrix.Encode(data)
		if err != nil {
			return nil, &EncodingError{Format: opts.Format, Err: err}
		}
		return rasterFromModuleImage(bc, opts.Format, size)
	case FormatAztec:
		// 33% is the library's recommended minimum ECC share; 0 layers
		// lets the encoder pick the smallest symbol that fits.
		bc, err := aztec.Encode([]byte(data), 33, 0)
		if err != nil {
			return nil, &EncodingError{Format: opts.Format, Err: err}
		}
		return rasterFromModuleImage(bc, opts.Format, size)
	default:
		return nil, &EncodingError{
			Format: opts.Format,
			Err:    fmt.Errorf("symbology %s does not produce square symbols", opts.Format),
		}
	}
}

func generateQR(data string, size int, level Level) (*raster.Raster, error) {
	q, err := qrcode.New(data, mapRecoveryLevel(level))
	if err != nil {
		return nil, &EncodingError{Format: FormatQR, Err: err}
	}
	// Bitmap() yields the module matrix including the quiet zone.
	return raster.FromModules(q.Bitmap(), size)
}

// rasterFromModuleImage converts a module-resolution barcode image (one
// pixel per module, as the encoders emit before scaling) into a raster,
// adding a quiet zone around the symbol.
func rasterFromModuleImage(bc barcode.Barcode, f Format, size int) (*raster.Raster, error) {
	b := bc.Bounds()
	w, h := b.Dx(), b.Dy()
	if w != h {
		return nil, &EncodingError{
			Format: f,
			Err:    fmt.Errorf("payload maps to a %dx%d symbol; only square variants are supported", w, h),
		}
	}
	n := w + 2*quietModules
	modules := make([][]bool, n)
	for y := range n {
		modules[y] = make([]bool, n)
	}
	for y := range h {
		for x := range w {
			r, g, bl, _ := bc.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r == 0 && g == 0 && bl == 0 {
				modules[y+quietModules][x+quietModules] = true
			}
		}
	}
	return raster.FromModules(modules, size)
}

// GenerateStrip encodes a non-square symbology and scales it to the given
// pixel dimensions. Encoding failures are EncodingErrors; scaling failures
// (target smaller than the symbol) are plain errors for the caller to wrap.
func GenerateStrip(data string, f Format, width, height int) (image.Image, error) {
	data = norm.NFC.String(data)
	if data == "" {
		return nil, &EncodingError{Format: f, Err: errors.New("empty payload")}
	}

	var (
		bc  barcode.Barcode
		err error
	)
	switch f {
	case FormatCode128:
		bc, err = code128.Encode(data)
	case FormatCode39:
		bc, err = code39.Encode(data, true, true)
	case FormatCode93:
		bc, err = code93.Encode(data, true, true)
	case FormatEAN8, FormatEAN13:
		bc, err = ean.Encode(data)
	case FormatCodabar:
		bc, err = codabar.Encode(data)
	case FormatITF:
		bc, err = twooffive.Encode(data, true)
	case FormatPDF417:
		bc, err = pdf417.Encode(data, 4)
	default:
		return nil, &EncodingError{Format: f, Err: errors.New("unsupported strip symbology")}
	}
	if err != nil {
		return nil, &EncodingError{Format: f, Err: err}
	}

	// ean.Encode picks EAN-8 or EAN-13 from the payload length; reject the
	// symbol if it is not the one the caller asked for.
	if kind, ok := mapFormatKind(f); ok && bc.Metadata().CodeKind != kind {
		return nil, &EncodingError{
			Format: f,
			Err:    fmt.Errorf("payload encodes as %s", MapFormatFromKind(bc.Metadata().CodeKind)),
		}
	}

	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return nil, fmt.Errorf("scale %s to %dx%d: %w", f, width, height, err)
	}
	return scaled, nil
}
