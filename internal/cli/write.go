package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/spf13/cobra"
)

type writeResult struct {
	File  string `json:"file"`
	Sheet string `json:"sheet"`
	Range string `json:"range"`
	Rows  int    `json:"rows_written"`
}

var writeCmd = &cobra.Command{
	Use:   "write <file.xlsx> <range> <data-file>",
	Short: "Write values into a range",
	Long: `Write a JSON array of rows into the cells addressed by an A1 range
reference. The data must match the range dimensions exactly.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := readRowsFile(args[2])
		if err != nil {
			return err
		}

		host, s, err := openSheet(cmd, args[0])
		if err != nil {
			return err
		}
		defer host.Close()

		if err := s.SetValues(cmd.Context(), args[1], rows); err != nil {
			return err
		}
		if err := host.Save(); err != nil {
			return err
		}

		result := writeResult{
			File:  args[0],
			Sheet: host.Sheet(),
			Range: args[1],
			Rows:  len(rows),
		}
		return output.Print(result, GetFormatFromCmd(cmd))
	},
}

// readRowsFile reads a JSON array-of-arrays data file.
func readRowsFile(path string) ([][]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	var rows [][]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse data as JSON array: %w", err)
	}
	return rows, nil
}

func init() {
	writeCmd.Flags().StringP("sheet", "s", "", "Sheet name (default: first sheet)")
	rootCmd.AddCommand(writeCmd)
}
