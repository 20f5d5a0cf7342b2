package cli

import (
	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <file.xlsx> [range]",
	Short: "Read a cell range",
	Long: `Read cells addressed by an A1 range reference (e.g., B2:D10, C:C, 5:5).
If no range is given, reads the entire sheet.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, s, err := openSheet(cmd, args[0])
		if err != nil {
			return err
		}
		defer host.Close()

		ref := ""
		if len(args) > 1 {
			ref = args[1]
		}

		display, err := cmd.Flags().GetBool("display")
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		var rows [][]any
		if display {
			rows, err = s.DisplayValues(ctx, ref)
		} else {
			rows, err = s.Values(ctx, ref)
		}
		if err != nil {
			return err
		}

		return output.PrintRows(rows, GetFormatFromCmd(cmd))
	},
}

func init() {
	readCmd.Flags().StringP("sheet", "s", "", "Sheet name (default: first sheet)")
	readCmd.Flags().Bool("display", false, "Return rendered cell text instead of raw values")
	rootCmd.AddCommand(readCmd)
}
