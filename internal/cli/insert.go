package cli

import (
	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/spf13/cobra"
)

type insertResult struct {
	File     string `json:"file"`
	Sheet    string `json:"sheet"`
	Position int    `json:"position"`
	Inserted int    `json:"inserted"`
	Columns  bool   `json:"columns,omitempty"`
}

var insertCmd = &cobra.Command{
	Use:   "insert <file.xlsx> <data-file>",
	Short: "Insert rows at a position",
	Long: `Insert rows from a JSON array-of-arrays file before the 1-based row
given by --at, shifting existing rows down. With --columns the data is
treated as columns and existing columns shift right.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := cmd.Flags().GetInt("at")
		if err != nil {
			return err
		}
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
			err = s.InsertColumnsAt(ctx, at, data)
		} else {
			err = s.InsertRowsAt(ctx, at, data)
		}
		if err != nil {
			return err
		}
		if err := host.Save(); err != nil {
			return err
		}

		result := insertResult{
			File:     args[0],
			Sheet:    host.Sheet(),
			Position: at,
			Inserted: len(data),
			Columns:  columns,
		}
		return output.Print(result, GetFormatFromCmd(cmd))
	},
}

func init() {
	insertCmd.Flags().Int("at", 1, "1-based position to insert before")
	insertCmd.Flags().StringP("sheet", "s", "", "Sheet name (default: first sheet)")
	insertCmd.Flags().Bool("columns", false, "Treat the data as columns instead of rows")
	rootCmd.AddCommand(insertCmd)
}
