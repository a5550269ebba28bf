package encode

import (
	"fmt"
	"strings"

	"github.com/boombuler/barcode"
)

// Format represents a barcode symbology in the package's own vocabulary.
type Format int

const (
	FormatUnknown Format = iota
	FormatQR
	FormatDataMatrix
	FormatAztec
	FormatPDF417
	FormatCode128
	FormatCode39
	FormatCode93
	FormatEAN8
	FormatEAN13
	FormatCodabar
	FormatITF
)

// Formats lists every supported symbology in a stable order.
var Formats = []Format{
	FormatQR,
	FormatDataMatrix,
	FormatAztec,
	FormatPDF417,
	FormatCode128,
	FormatCode39,
	FormatCode93,
	FormatEAN8,
	FormatEAN13,
	FormatCodabar,
	FormatITF,
}

var formatNames = map[Format]string{
	FormatQR:         "qr",
	FormatDataMatrix: "datamatrix",
	FormatAztec:      "aztec",
	FormatPDF417:     "pdf417",
	FormatCode128:    "code128",
	FormatCode39:     "code39",
	FormatCode93:     "code93",
	FormatEAN8:       "ean8",
	FormatEAN13:      "ean13",
	FormatCodabar:    "codabar",
	FormatITF:        "itf",
}

var formatLabels = map[Format]string{
	FormatQR:         "QR Code",
	FormatDataMatrix: "Data Matrix",
	FormatAztec:      "Aztec",
	FormatPDF417:     "PDF417",
	FormatCode128:    "Code 128",
	FormatCode39:     "Code 39",
	FormatCode93:     "Code 93",
	FormatEAN8:       "EAN-8",
	FormatEAN13:      "EAN-13",
	FormatCodabar:    "Codabar",
	FormatITF:        "ITF (Interleaved 2 of 5)",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// Label returns the human-readable name of the symbology.
func (f Format) Label() string {
	if s, ok := formatLabels[f]; ok {
		return s
	}
	return "Unknown"
}

// IsSquare reports whether the symbology produces square symbols that the
// style compositor can operate on. Strip symbologies only support plain
// foreground/background coloring.
func (f Format) IsSquare() bool {
	switch f {
	case FormatQR, FormatDataMatrix, FormatAztec:
		return true
	default:
		return false
	}
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	// Accept a few common spellings seen in the wild.
	switch name {
	case "qrcode", "qr-code":
		name = "qr"
	case "ean":
		name = "ean13"
	case "2of5", "interleaved2of5":
		name = "itf"
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown format %q", s)
}

// mapFormatKind translates our Format to the encoding library's kind string.
func mapFormatKind(f Format) (string, bool) {
	switch f {
	case FormatQR:
		return barcode.TypeQR, true
	case FormatDataMatrix:
		return barcode.TypeDataMatrix, true
	case FormatAztec:
		return barcode.TypeAztec, true
	case FormatPDF417:
		return barcode.TypePDF, true
	case FormatCode128:
		return barcode.TypeCode128, true
	case FormatCode39:
		return barcode.TypeCode39, true
	case FormatCode93:
		return barcode.TypeCode93, true
	case FormatEAN8:
		return barcode.TypeEAN8, true
	case FormatEAN13:
		return barcode.TypeEAN13, true
	case FormatCodabar:
		return barcode.TypeCodabar, true
	case FormatITF:
		return barcode.Type2of5Interleaved, true
	default:
		return "", false
	}
}

// MapFormatFromKind translates an encoding library kind string back to our
// vocabulary. Unknown kinds map to FormatUnknown.
func MapFormatFromKind(kind string) Format {
	switch kind {
	case barcode.TypeQR:
		return FormatQR
	case barcode.TypeDataMatrix:
		return FormatDataMatrix
	case barcode.TypeAztec:
		return FormatAztec
	case barcode.TypePDF:
		return FormatPDF417
	case barcode.TypeCode128:
		return FormatCode128
	case barcode.TypeCode39:
		return FormatCode39
	case barcode.TypeCode93:
		return FormatCode93
	case barcode.TypeEAN8:
		return FormatEAN8
	case barcode.TypeEAN13:
		return FormatEAN13
	case barcode.TypeCodabar:
		return FormatCodabar
	case barcode.Type2of5, barcode.Type2of5Interleaved:
		return FormatITF
	default:
		return FormatUnknown
	}
}
