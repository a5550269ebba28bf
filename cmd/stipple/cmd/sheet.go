package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/stipple/internal/batch"
	"github.com/MeKo-Tech/stipple/internal/sheet"
)

// sheetCmd represents the sheet command.
var sheetCmd = &cobra.Command{
	Use:   "sheet <manifest>",
	Short: "Assemble codes from a manifest into a printable PDF",
	Long: `Render every manifest entry and import the images into a PDF,
one page per code.

The --page flag takes a pdfcpu import description controlling page
size and placement.

Examples:
  stipple sheet manifest.txt -o codes.pdf
  stipple sheet manifest.txt -o codes.pdf --page "form:A4, pos:c"
  stipple sheet manifest.txt -o badges.pdf --style framed --frame-width 12`,
	Args: cobra.ExactArgs(1),
	RunE: runSheet,
}

func runSheet(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	rs, err := parseRenderFlags(cmd, cfg)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("out")
	if output == "" {
		return errors.New("missing required flag: --out")
	}

	entries, err := batch.LoadManifest(args[0])
	if err != nil {
		return err
	}

	workers := cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	page, _ := cmd.Flags().GetString("page")

	result, err := sheet.Build(cmd.Context(), entries, output, sheet.Config{
		Render: batch.Config{
			Format:  rs.Format,
			Style:   rs.Style,
			Size:    rs.Size,
			Level:   rs.Level,
			Palette: rs.Palette,
			Params:  rs.Params,
			Workers: workers,
		},
		Description: page,
	})
	if err != nil {
		return err
	}

	pages, err := sheet.PageCount(output)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d page(s) from %d entries\n",
		output, pages, result.Succeeded())
	return nil
}

func init() {
	rootCmd.AddCommand(sheetCmd)

	addRenderFlags(sheetCmd)
	sheetCmd.Flags().StringP("out", "o", "", "output PDF path (required)")
	sheetCmd.Flags().Int("workers", 0, "number of parallel workers")
	sheetCmd.Flags().String("page", "", `pdfcpu import description, e.g. "form:A4, pos:c"`)
}
