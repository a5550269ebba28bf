package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/stipple/internal/batch"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Render many codes from a manifest file",
	Long: `Render one PNG per manifest line using a pool of workers.

Each non-empty manifest line holds one payload, optionally prefixed
with an output name and a tab. Lines starting with '#' are comments.
Pass "-" to read the manifest from stdin.

Examples:
  stipple batch manifest.txt --out-dir codes/
  stipple batch manifest.txt --style dots --workers 8
  stipple batch - --out-dir codes/ < payloads.txt
  stipple batch manifest.txt --continue-on-error --report json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	rs, err := parseRenderFlags(cmd, cfg)
	if err != nil {
		return err
	}

	entries, err := batch.LoadManifest(args[0])
	if err != nil {
		return err
	}

	outDir := cfg.Output.Directory
	if cmd.Flags().Changed("out-dir") {
		outDir, _ = cmd.Flags().GetString("out-dir")
	}

	workers := cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	continueOnError := cfg.Batch.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		continueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	report, _ := cmd.Flags().GetString("report")

	result, err := batch.Process(cmd.Context(), entries, batch.Config{
		Format:          rs.Format,
		Style:           rs.Style,
		Size:            rs.Size,
		Level:           rs.Level,
		Palette:         rs.Palette,
		Params:          rs.Params,
		OutputDir:       outDir,
		Workers:         workers,
		ContinueOnError: continueOnError,
	})
	if result != nil {
		out, fmtErr := batch.FormatResult(result, report)
		if fmtErr != nil {
			return fmtErr
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	if err != nil {
		return err
	}

	if result.Failed() > 0 {
		return fmt.Errorf("%d of %d entries failed", result.Failed(), len(result.Items))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addRenderFlags(batchCmd)
	batchCmd.Flags().String("out-dir", "", "output directory for rendered PNGs")
	batchCmd.Flags().Int("workers", 0, "number of parallel workers")
	batchCmd.Flags().Bool("continue-on-error", false, "keep processing after an entry fails")
	batchCmd.Flags().String("report", "text", "report format (text, json, csv)")
}
