package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommand_WritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "code.png")

	_, err := execute(t, "generate", "https://example.com", "-o", out, "--size", "128")
	require.NoError(t, err)

	data, err := os.ReadFile(out) //nolint:gosec // G304: test path
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())
}

func TestGenerateCommand_StyleAndColors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "styled.png")

	_, err := execute(t, "generate", "payload",
		"-o", out,
		"--style", "gradient",
		"--fg", "#1A237E",
		"--secondary", "#26A69A",
		"--size", "96")
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestGenerateCommand_MissingPayload(t *testing.T) {
	_, err := execute(t, "generate")
	require.Error(t, err)
}

func TestGenerateCommand_UnknownStyle(t *testing.T) {
	_, err := execute(t, "generate", "payload", "--style", "sparkle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "style")
}

func TestGenerateCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "generate", "payload", "--format", "maxicode")
	require.Error(t, err)
}

func TestGenerateCommand_BadColor(t *testing.T) {
	_, err := execute(t, "generate", "payload", "--fg", "#GG0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fg")
}

func TestGenerateCommand_LinearBarcode(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ean.png")

	_, err := execute(t, "generate", "4006381333931",
		"-o", out, "--format", "ean13", "--strip-height", "60")
	require.NoError(t, err)

	data, err := os.ReadFile(out) //nolint:gosec // G304: test path
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestGenerateCommand_UnencodablePayload(t *testing.T) {
	_, err := execute(t, "generate", "not-numeric", "--format", "ean13")
	require.Error(t, err)
}

func TestBatchCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.txt")
	content := strings.Join([]string{
		"badge-a\thttps://example.com/a",
		"https://example.com/b",
	}, "\n")
	require.NoError(t, os.WriteFile(manifest, []byte(content), 0o600))

	outDir := filepath.Join(dir, "out")
	output, err := execute(t, "batch", manifest, "--out-dir", outDir, "--workers", "2", "--size", "96")
	require.NoError(t, err)

	assert.Contains(t, output, "2 total, 2 succeeded, 0 failed")
	assert.FileExists(t, filepath.Join(outDir, "badge-a.png"))
	assert.FileExists(t, filepath.Join(outDir, "code_0002.png"))
}

func TestSheetCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("one payload\n"), 0o600))

	out := filepath.Join(dir, "codes.pdf")
	output, err := execute(t, "sheet", manifest, "-o", out, "--size", "96")
	require.NoError(t, err)

	assert.Contains(t, output, "1 page(s)")
	assert.FileExists(t, out)
}

func TestSheetCommand_RequiresOut(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("payload\n"), 0o600))

	_, err := execute(t, "sheet", manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out")
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "stipple.yaml")

	output, err := execute(t, "config", "init", target)
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote")
	assert.FileExists(t, target)
}

func TestConfigShowCommand(t *testing.T) {
	output, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "log_level")
	assert.Contains(t, output, "generate")
}
