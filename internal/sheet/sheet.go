// Package sheet assembles rendered codes into printable PDF sheets.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/MeKo-Tech/stipple/internal/batch"
)

// Config holds sheet assembly configuration.
type Config struct {
	// Render carries the per-entry rendering settings.
	Render batch.Config

	// Description is a pdfcpu import description controlling page
	// size and image placement, e.g. "form:A4, pos:c". Empty uses
	// pdfcpu's defaults.
	Description string
}

// Build renders every entry and imports the resulting images into a
// PDF, one page per code. It returns the per-entry render outcomes.
func Build(ctx context.Context, entries []batch.Entry, output string, config Config) (*batch.Result, error) {
	if output == "" {
		return nil, errors.New("output path must not be empty")
	}

	tempDir, err := os.MkdirTemp("", "stipple-sheet-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	renderCfg := config.Render
	renderCfg.OutputDir = tempDir

	result, err := batch.Process(ctx, entries, renderCfg)
	if err != nil {
		return result, err
	}

	images := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Err == nil {
			images = append(images, item.Path)
		}
	}
	if len(images) == 0 {
		return result, errors.New("no codes rendered, nothing to import")
	}

	imp := pdfcpu.DefaultImportConfig()
	if config.Description != "" {
		imp, err = api.Import(config.Description, types.POINTS)
		if err != nil {
			return result, fmt.Errorf("invalid import description %q: %w", config.Description, err)
		}
	}

	if err := api.ImportImagesFile(images, output, imp, nil); err != nil {
		return result, fmt.Errorf("failed to import images into PDF: %w", err)
	}

	return result, nil
}

// PageCount returns the number of pages in a PDF file.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
