package cli

import (
	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/spf13/cobra"
)

type appendResult struct {
	File     string `json:"file"`
	Sheet    string `json:"sheet"`
	Appended int    `json:"appended"`
	Columns  bool   `json:"columns,omitempty"`
}

var appendCmd = &cobra.Command{
	Use:   "append <file.xlsx> <data-file>",
	Short: "Append rows to a sheet",
	Long: `Append rows from a JSON array-of-arrays file after the last occupied
row. With --columns the data is treated as columns and appended after the
last occupied column instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, err := cmd.Flags().GetBool("columns")
		if err != nil {
			return err
		}

		data, err := readRowsFile(args[1])
		if err != nil {
			return err
		}

		host, s, err := openSheet(cmd, args[0])
		if err != nil {
			return err
		}
		defer host.Close()

		ctx := cmd.Context()
		if columns {
			err = s.AppendColumns(ctx, data)
		} else {
			err = s.AppendRows(ctx, data)
		}
		if err != nil {
			return err
		}
		if err := host.Save(); err != nil {
			return err
		}

		result := appendResult{
			File:     args[0],
			Sheet:    host.Sheet(),
			Appended: len(data),
			Columns:  columns,
		}
		return output.Print(result, GetFormatFromCmd(cmd))
	},
}

func init() {
	appendCmd.Flags().StringP("sheet", "s", "", "Sheet name (default: first sheet)")
	appendCmd.Flags().Bool("columns", false, "Treat the data as columns instead of rows")
	rootCmd.AddCommand(appendCmd)
}
