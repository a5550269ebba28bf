package cmd

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/stipple/internal/config"
	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/style"
	"github.com/MeKo-Tech/stipple/internal/utils"
)

// renderSettings bundles the parsed rendering flags shared by the
// generate, batch and sheet commands.
type renderSettings struct {
	Format  encode.Format
	Style   style.Style
	Size    int
	Level   encode.Level
	Palette style.Palette
	Params  style.Params

	StripHeight int
}

// addRenderFlags registers the rendering flags shared by generation
// commands.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "symbology (qr, datamatrix, aztec, pdf417, code128, code39, code93, ean8, ean13, codabar, itf)")
	cmd.Flags().StringP("style", "s", "", "visual style (standard, rounded, with-logo, gradient, fancy-eyes, dots, framed, shadow, mosaic, pixel-art)")
	cmd.Flags().Int("size", 0, "output size in pixels (square formats)")
	cmd.Flags().StringP("error-correction", "e", "", "QR error correction level (low, medium, high, highest)")
	cmd.Flags().Int("strip-height", 0, "output height in pixels for linear barcodes")

	cmd.Flags().String("fg", "", "primary (ink) color, hex or named")
	cmd.Flags().String("bg", "", "background color, hex or named")
	cmd.Flags().String("secondary", "", "secondary accent color, hex or named")
	cmd.Flags().String("tertiary", "", "tertiary accent color, hex or named")

	cmd.Flags().Int("frame-width", 0, "framed: border band width in pixels")
	cmd.Flags().String("frame-color", "", "framed: border color (default: primary)")

	cmd.Flags().Int("shadow-dx", 0, "shadow: horizontal offset in pixels")
	cmd.Flags().Int("shadow-dy", 0, "shadow: vertical offset in pixels")
	cmd.Flags().Float64("shadow-blur", 0, "shadow: gaussian blur sigma (0 = hard shadow)")
	cmd.Flags().String("shadow-color", "", "shadow: shadow color (default: translucent black)")

	cmd.Flags().String("logo", "", "with-logo: path to a logo image")
	cmd.Flags().Float64("logo-fraction", 0, "with-logo: logo box side as a fraction of the symbol size")

	cmd.Flags().Int("mosaic-cells", 0, "mosaic: grid dimension in cells")
	cmd.Flags().Float64("eye-fraction", 0, "fancy-eyes, pixel-art: corner region fraction")
}

// parseRenderFlags resolves the rendering settings from flags, falling
// back to the loaded configuration.
func parseRenderFlags(cmd *cobra.Command, cfg *config.Config) (renderSettings, error) {
	var rs renderSettings

	formatName := cfg.Generate.Format
	if cmd.Flags().Changed("format") {
		formatName, _ = cmd.Flags().GetString("format")
	}
	if formatName != "" {
		f, err := encode.ParseFormat(formatName)
		if err != nil {
			return rs, err
		}
		rs.Format = f
	}

	styleName := cfg.Generate.Style
	if cmd.Flags().Changed("style") {
		styleName, _ = cmd.Flags().GetString("style")
	}
	if styleName != "" {
		st, err := style.ParseStyle(styleName)
		if err != nil {
			return rs, err
		}
		rs.Style = st
	}

	rs.Size = cfg.Generate.Size
	if cmd.Flags().Changed("size") {
		rs.Size, _ = cmd.Flags().GetInt("size")
	}
	if rs.Size < 0 {
		return rs, fmt.Errorf("invalid size: %d (must not be negative)", rs.Size)
	}

	levelName := cfg.Generate.ErrorCorrection
	if cmd.Flags().Changed("error-correction") {
		levelName, _ = cmd.Flags().GetString("error-correction")
	}
	level, err := encode.ParseLevel(levelName)
	if err != nil {
		return rs, err
	}
	rs.Level = level

	rs.StripHeight = cfg.Generate.StripHeight
	if cmd.Flags().Changed("strip-height") {
		rs.StripHeight, _ = cmd.Flags().GetInt("strip-height")
	}

	if err := parsePaletteFlags(cmd, cfg, &rs); err != nil {
		return rs, err
	}
	if err := parseParamFlags(cmd, cfg, &rs); err != nil {
		return rs, err
	}

	return rs, nil
}

func parsePaletteFlags(cmd *cobra.Command, cfg *config.Config, rs *renderSettings) error {
	colorFlag := func(flag, fallback string) string {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag)
			return value
		}
		return fallback
	}

	if value := colorFlag("fg", cfg.Generate.Foreground); value != "" {
		c, err := style.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid fg color: %w", err)
		}
		rs.Palette.Primary = c
	}
	if value := colorFlag("bg", cfg.Generate.Background); value != "" {
		c, err := style.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid bg color: %w", err)
		}
		rs.Palette.Background = c
	}
	if value := colorFlag("secondary", cfg.Generate.Secondary); value != "" {
		c, err := style.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid secondary color: %w", err)
		}
		rs.Palette.Secondary = c
	}
	if value := colorFlag("tertiary", cfg.Generate.Tertiary); value != "" {
		c, err := style.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid tertiary color: %w", err)
		}
		rs.Palette.Tertiary = c
	}
	return nil
}

func parseParamFlags(cmd *cobra.Command, cfg *config.Config, rs *renderSettings) error {
	rs.Params.FrameWidth, _ = cmd.Flags().GetInt("frame-width")

	if value, _ := cmd.Flags().GetString("frame-color"); value != "" {
		c, err := style.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid frame color: %w", err)
		}
		rs.Params.FrameColor = c
	}

	dx, _ := cmd.Flags().GetInt("shadow-dx")
	dy, _ := cmd.Flags().GetInt("shadow-dy")
	rs.Params.ShadowOffset = image.Pt(dx, dy)
	rs.Params.ShadowBlur, _ = cmd.Flags().GetFloat64("shadow-blur")

	if value, _ := cmd.Flags().GetString("shadow-color"); value != "" {
		c, err := style.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid shadow color: %w", err)
		}
		rs.Params.ShadowColor = c
	}

	if path, _ := cmd.Flags().GetString("logo"); path != "" {
		logo, err := utils.LoadImage(path)
		if err != nil {
			return fmt.Errorf("loading logo: %w", err)
		}
		rs.Params.Logo = logo
	}

	rs.Params.LogoFraction = cfg.Generate.LogoFraction
	if cmd.Flags().Changed("logo-fraction") {
		rs.Params.LogoFraction, _ = cmd.Flags().GetFloat64("logo-fraction")
	}

	rs.Params.MosaicCells = cfg.Generate.MosaicCells
	if cmd.Flags().Changed("mosaic-cells") {
		rs.Params.MosaicCells, _ = cmd.Flags().GetInt("mosaic-cells")
	}

	rs.Params.EyeFraction, _ = cmd.Flags().GetFloat64("eye-fraction")

	return nil
}
