package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/style"
)

// stylesCmd lists the available visual styles.
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List available visual styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, s := range style.Styles {
			fmt.Fprintf(w, "%s\t%s\n", s.String(), s.Label())
		}
		return w.Flush()
	},
}

// formatsCmd lists the supported symbologies.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported symbologies",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION\tSHAPE")
		for _, f := range encode.Formats {
			shape := "linear"
			if f.IsSquare() {
				shape = "square"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.String(), f.Label(), shape)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(formatsCmd)
}
