package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// ImageIOError represents errors during image loading or saving.
type ImageIOError struct {
	Operation string
	Err       error
}

func (e *ImageIOError) Error() string {
	return fmt.Sprintf("image %s error: %v", e.Operation, e.Err)
}

func (e *ImageIOError) Unwrap() error { return e.Err }

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// LoadImage opens and decodes an image file (logos, test fixtures).
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, &ImageIOError{Operation: "load", Err: errors.New("empty path")}
	}
	if !IsSupportedImage(path) {
		return nil, &ImageIOError{Operation: "load", Err: fmt.Errorf("unsupported format: %s", filepath.Ext(path))}
	}

	f, err := os.Open(path) //nolint:gosec // G304: Reading user-provided image file path is expected
	if err != nil {
		return nil, &ImageIOError{Operation: "load", Err: err}
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &ImageIOError{Operation: "decode", Err: err}
	}
	return img, nil
}

// WriteBytes copies encoded image bytes to a file or, when path is "-",
// to the given writer.
func WriteBytes(data []byte, path string, stdout io.Writer) error {
	if path == "-" || path == "" {
		_, err := stdout.Write(data)
		if err != nil {
			return &ImageIOError{Operation: "write", Err: err}
		}
		return nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &ImageIOError{Operation: "write", Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &ImageIOError{Operation: "write", Err: err}
	}
	return nil
}
