package cli

import (
	"fmt"

	"github.com/MaksymStoianov/Sheet/a1"
	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <range>",
	Short: "Parse an A1 range reference",
	Long: `Parse an A1-style range reference (e.g., B5:D10, C:C, 5:5) and print
its normalized descriptor: positions, indexes, span, and canonical notation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stripNulls, err := cmd.Flags().GetBool("strip-nulls")
		if err != nil {
			return fmt.Errorf("failed to get strip-nulls flag: %w", err)
		}

		var transforms []a1.Transform
		if stripNulls {
			transforms = append(transforms, a1.StripUnbounded)
		}

		r, err := a1.Parse(args[0], transforms...)
		if err != nil {
			return err
		}

		format := GetFormatFromCmd(cmd)
		return output.Print(r, format)
	},
}

func init() {
	parseCmd.Flags().Bool("strip-nulls", false, "Drop unresolved end coordinates from the output")
	rootCmd.AddCommand(parseCmd)
}
