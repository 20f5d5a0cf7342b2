package cli

import (
	"fmt"
	"strings"

	"github.com/MaksymStoianov/Sheet/a1"
	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/spf13/cobra"
)

type deleteResult struct {
	File    string `json:"file"`
	Sheet   string `json:"sheet"`
	Column  string `json:"column"`
	Deleted int    `json:"deleted"`
}

var deleteCmd = &cobra.Command{
	Use:   "delete <file.xlsx>",
	Short: "Delete rows matching a condition",
	Long: `Delete every row whose cell in the column given by --col matches the
condition: --equals compares the cell text, --blank matches empty cells.
Rows are removed bottom-up in a single pass under the sheet lock.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := cmd.Flags().GetString("col")
		if err != nil {
			return err
		}
		equals, err := cmd.Flags().GetString("equals")
		if err != nil {
			return err
		}
		blank, err := cmd.Flags().GetBool("blank")
		if err != nil {
			return err
		}
		if equals == "" && !blank {
			return fmt.Errorf("%w: one of --equals or --blank is required", a1.ErrMissingArgument)
		}

		position, err := a1.LabelToPosition(col)
		if err != nil {
			return err
		}
		index := position - 1

		host, s, err := openSheet(cmd, args[0])
		if err != nil {
			return err
		}
		defer host.Close()

		match := func(row int, values []any) bool {
			var cell string
			if index < len(values) && values[index] != nil {
				cell = strings.TrimSpace(fmt.Sprint(values[index]))
			}
			if blank {
				return cell == ""
			}
			return cell == equals
		}

		deleted, err := s.DeleteRowsWhere(cmd.Context(), match)
		if err != nil {
			return err
		}
		if deleted > 0 {
			if err := host.Save(); err != nil {
				return err
			}
		}

		result := deleteResult{
			File:    args[0],
			Sheet:   host.Sheet(),
			Column:  strings.ToUpper(col),
			Deleted: deleted,
		}
		return output.Print(result, GetFormatFromCmd(cmd))
	},
}

func init() {
	deleteCmd.Flags().StringP("sheet", "s", "", "Sheet name (default: first sheet)")
	deleteCmd.Flags().String("col", "A", "Column label to test")
	deleteCmd.Flags().String("equals", "", "Delete rows whose cell equals this text")
	deleteCmd.Flags().Bool("blank", false, "Delete rows whose cell is blank")
	rootCmd.AddCommand(deleteCmd)
}
