package cli

import (
	"strconv"

	"github.com/MaksymStoianov/Sheet/a1"
	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/spf13/cobra"
)

type colResult struct {
	Label    string `json:"label"`
	Position int    `json:"position"`
}

var colCmd = &cobra.Command{
	Use:   "col <label-or-position>",
	Short: "Convert between column labels and positions",
	Long:  `Convert a column label to its 1-based position (A=1, Z=26, AA=27) or back.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result colResult

		if position, err := strconv.Atoi(args[0]); err == nil {
			label, err := a1.PositionToLabel(position)
			if err != nil {
				return err
			}
			result = colResult{Label: label, Position: position}
		} else {
			position, err := a1.LabelToPosition(args[0])
			if err != nil {
				return err
			}
			label, _ := a1.PositionToLabel(position)
			result = colResult{Label: label, Position: position}
		}

		format := GetFormatFromCmd(cmd)
		return output.Print(result, format)
	},
}

func init() {
	rootCmd.AddCommand(colCmd)
}
