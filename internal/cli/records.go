package cli

import (
	"strings"

	"github.com/MaksymStoianov/Sheet/internal/output"
	"github.com/MaksymStoianov/Sheet/sheet"
	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records <file.xlsx> [range]",
	Short: "Read rows as keyed records",
	Long: `Read rows as objects keyed by a schema. With --header the schema is
inferred from the first row; with --schema the field names are given
explicitly. Columns without a field name fall back to their column label.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		header, err := cmd.Flags().GetBool("header")
		if err != nil {
			return err
		}
		fields, err := cmd.Flags().GetString("schema")
		if err != nil {
			return err
		}

		var opts []sheet.Option
		if fields != "" {
			opts = append(opts, sheet.WithSchema(sheet.NewSchema(strings.Split(fields, ",")...)))
		} else if header {
			opts = append(opts, sheet.WithHeaderSchema())
		}

		host, s, err := openSheet(cmd, args[0], opts...)
		if err != nil {
			return err
		}
		defer host.Close()

		ref := ""
		if len(args) > 1 {
			ref = args[1]
		}

		records, err := s.Records(cmd.Context(), ref)
		if err != nil {
			return err
		}

		rows := make([]any, len(records))
		for i, record := range records {
			rows[i] = map[string]any(record)
		}
		return output.PrintRows(rows, GetFormatFromCmd(cmd))
	},
}

func init() {
	recordsCmd.Flags().StringP("sheet", "s", "", "Sheet name (default: first sheet)")
	recordsCmd.Flags().Bool("header", false, "Infer the schema from the first row")
	recordsCmd.Flags().String("schema", "", "Comma-separated field names (overrides --header)")
	rootCmd.AddCommand(recordsCmd)
}
