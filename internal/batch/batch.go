// Package batch renders many codes from a manifest using a pool of
// workers.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/render"
	"github.com/MeKo-Tech/stipple/internal/style"
	"github.com/MeKo-Tech/stipple/internal/utils"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Rendering settings applied to every entry.
	Format  encode.Format
	Style   style.Style
	Size    int
	Level   encode.Level
	Palette style.Palette
	Params  style.Params

	// Output settings.
	OutputDir string

	// Parallel processing settings.
	Workers         int
	ContinueOnError bool
}

// ErrNotProcessed marks entries skipped because an earlier failure
// cancelled the run.
var ErrNotProcessed = errors.New("entry not processed")

// ItemResult records the outcome for one manifest entry.
type ItemResult struct {
	Entry   Entry
	Path    string
	Bytes   int
	Elapsed time.Duration
	Err     error
}

// Result aggregates the outcome of a batch run.
type Result struct {
	Items    []ItemResult
	Duration time.Duration
	Workers  int
}

// Succeeded counts the entries rendered without error.
func (r *Result) Succeeded() int {
	n := 0
	for _, item := range r.Items {
		if item.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts the entries that errored.
func (r *Result) Failed() int {
	return len(r.Items) - r.Succeeded()
}

// Process renders all entries and writes one PNG per entry into the
// output directory. When ContinueOnError is false the first failure
// cancels the remaining work.
func Process(ctx context.Context, entries []Entry, config Config) (*Result, error) {
	if len(entries) == 0 {
		return nil, errors.New("no entries to process")
	}

	renderer, err := newRenderer(config)
	if err != nil {
		return nil, fmt.Errorf("building renderer: %w", err)
	}

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)

	// Pre-mark every entry as skipped; workers overwrite the slot with
	// the real result, so a cancelled run cannot report leftovers as
	// successes.
	items := make([]ItemResult, len(entries))
	for idx := range entries {
		items[idx] = ItemResult{Entry: entries[idx], Err: ErrNotProcessed}
	}

	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				items[idx] = processEntry(renderer, entries[idx], idx, config)
				if items[idx].Err != nil && !config.ContinueOnError {
					cancel()
					return
				}
			}
		}()
	}

feed:
	for idx := range entries {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	result := &Result{
		Items:    items,
		Duration: time.Since(start),
		Workers:  workers,
	}

	if !config.ContinueOnError {
		// Report the failure that triggered the cancel, not a skip marker.
		var firstErr error
		for _, item := range result.Items {
			if item.Err == nil {
				continue
			}
			if firstErr == nil || errors.Is(firstErr, ErrNotProcessed) {
				firstErr = item.Err
			}
		}
		if firstErr != nil {
			return result, fmt.Errorf("batch processing failed: %w", firstErr)
		}
	}

	return result, nil
}

// newRenderer builds the shared renderer for a batch run.
func newRenderer(config Config) (*render.Renderer, error) {
	builder := render.NewBuilder()
	if config.Size > 0 {
		builder = builder.WithSize(config.Size)
	}
	if config.Format != encode.FormatUnknown {
		builder = builder.WithFormat(config.Format)
	}
	if config.Style != style.StyleUnknown {
		builder = builder.WithStyle(config.Style)
	}
	if config.Level != encode.LevelDefault {
		builder = builder.WithLevel(config.Level)
	}
	return builder.Build()
}

// processEntry renders one entry and writes its PNG.
func processEntry(renderer *render.Renderer, entry Entry, index int, config Config) ItemResult {
	item := ItemResult{Entry: entry}

	result, err := renderer.Render(render.Request{
		Data:    entry.Data,
		Palette: config.Palette,
		Params:  config.Params,
	})
	if err != nil {
		item.Err = fmt.Errorf("rendering %q: %w", entry.Data, err)
		slog.Error("batch entry failed", "index", index, "error", err)
		return item
	}

	item.Path = filepath.Join(config.OutputDir, outputName(entry, index)+".png")
	if err := utils.WriteBytes(result.PNG, item.Path, os.Stdout); err != nil {
		item.Err = fmt.Errorf("writing %s: %w", item.Path, err)
		return item
	}

	item.Bytes = len(result.PNG)
	item.Elapsed = result.Elapsed
	return item
}
