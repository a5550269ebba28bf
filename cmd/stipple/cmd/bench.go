package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/stipple/internal/benchmark"
)

// benchCmd represents the bench command.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure render throughput for every style",
	Long: `Render a fixed payload repeatedly with each style and report the
average time and symbols per second, so slow compositors stand out.

Examples:
  stipple bench
  stipple bench --iterations 50 --size 512`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func runBench(cmd *cobra.Command, _ []string) error {
	payload, _ := cmd.Flags().GetString("payload")
	size, _ := cmd.Flags().GetInt("size")
	iterations, _ := cmd.Flags().GetInt("iterations")
	if iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	sb := benchmark.NewStyleBenchmark(payload, size)
	results := sb.Run(iterations)
	fmt.Fprint(cmd.OutOrStdout(), sb.Report())

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("benchmark %s failed: %w", r.Name, r.Error)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().String("payload", "https://example.com/benchmark", "payload to render")
	benchCmd.Flags().Int("size", 256, "output side length in pixels")
	benchCmd.Flags().Int("iterations", 20, "renders per style")
}
