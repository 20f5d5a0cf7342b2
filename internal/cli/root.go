package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "sheetq",
	Short: "sheetq - A1 range tooling for spreadsheets",
	Long:  `sheetq parses A1-style range references and reads, writes, and restructures xlsx sheets through them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, date string) error {

	// Build version string with commit and date
	versionStr := version
	if versionStr == "" {
		versionStr = "dev"
	}
	if commit != "" {
		versionStr += fmt.Sprintf(" (commit: %s)", commit)
	}
	if date != "" {
		versionStr += fmt.Sprintf(" built: %s", date)
	}

	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(versionStr),
	)
}

func init() {
	rootCmd.PersistentFlags().StringP("format", "f", "json", "Output format (json, csv, tsv)")
	rootCmd.PersistentFlags().String("basepath", "", "Base directory for relative file paths (env: SHEETQ_BASEPATH)")
}

// GetFormatFromCmd returns the output format flag value
func GetFormatFromCmd(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "json"
	}
	return format
}
