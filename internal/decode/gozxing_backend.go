//go:build decode_gozxing

package decode

import (
	"context"
	"image"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	"github.com/makiuchi-d/gozxing/multi"

	"github.com/MeKo-Tech/stipple/internal/encode"
)

// newDefaultBackend returns the gozxing-backed implementation when the build tag is enabled.
func newDefaultBackend() (Backend, error) { return &gozxingBackend{}, nil }

type gozxingBackend struct{}

func (b *gozxingBackend) Decode(_ context.Context, img image.Image, opts Options) (*Result, error) {
	hints := make(map[gozxing.DecodeHintType]interface{})
	if len(opts.Formats) > 0 {
		var formats []gozxing.BarcodeFormat
		for _, f := range opts.Formats {
			if bf, ok := mapFormatToZXing(f); ok {
				formats = append(formats, bf)
			}
		}
		if len(formats) > 0 {
			hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
		}
	}
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap := gozxing.NewBinaryBitmap(common.NewHybridBinarizer(source))

	reader := multi.NewMultiFormatReader()
	r, err := reader.Decode(bitmap, hints)
	if err != nil {
		r, err = reader.DecodeWithoutHints(bitmap)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Format: mapFormatFromZXing(r.GetBarcodeFormat()),
		Value:  r.GetText(),
	}, nil
}

func mapFormatToZXing(f encode.Format) (gozxing.BarcodeFormat, bool) {
	switch f {
	case encode.FormatQR:
		return gozxing.BarcodeFormat_QR_CODE, true
	case encode.FormatDataMatrix:
		return gozxing.BarcodeFormat_DATA_MATRIX, true
	case encode.FormatAztec:
		return gozxing.BarcodeFormat_AZTEC, true
	case encode.FormatPDF417:
		return gozxing.BarcodeFormat_PDF_417, true
	case encode.FormatCode128:
		return gozxing.BarcodeFormat_CODE_128, true
	case encode.FormatCode39:
		return gozxing.BarcodeFormat_CODE_39, true
	case encode.FormatCode93:
		return gozxing.BarcodeFormat_CODE_93, true
	case encode.FormatEAN8:
		return gozxing.BarcodeFormat_EAN_8, true
	case encode.FormatEAN13:
		return gozxing.BarcodeFormat_EAN_13, true
	case encode.FormatCodabar:
		return gozxing.BarcodeFormat_CODABAR, true
	case encode.FormatITF:
		return gozxing.BarcodeFormat_ITF, true
	default:
		return 0, false
	}
}

func mapFormatFromZXing(bf gozxing.BarcodeFormat) encode.Format {
	switch bf {
	case gozxing.BarcodeFormat_QR_CODE:
		return encode.FormatQR
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return encode.FormatDataMatrix
	case gozxing.BarcodeFormat_AZTEC:
		return encode.FormatAztec
	case gozxing.BarcodeFormat_PDF_417:
		return encode.FormatPDF417
	case gozxing.BarcodeFormat_CODE_128:
		return encode.FormatCode128
	case gozxing.BarcodeFormat_CODE_39:
		return encode.FormatCode39
	case gozxing.BarcodeFormat_CODE_93:
		return encode.FormatCode93
	case gozxing.BarcodeFormat_EAN_8:
		return encode.FormatEAN8
	case gozxing.BarcodeFormat_EAN_13:
		return encode.FormatEAN13
	case gozxing.BarcodeFormat_CODABAR:
		return encode.FormatCodabar
	case gozxing.BarcodeFormat_ITF:
		return encode.FormatITF
	default:
		return encode.FormatUnknown
	}
}
