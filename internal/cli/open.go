package cli

import (
	"fmt"

	"github.com/MaksymStoianov/Sheet/sheet"
	"github.com/MaksymStoianov/Sheet/xlsxhost"
	"github.com/spf13/cobra"
)

// openSheet opens the workbook named by file, binds the sheet selected by
// the --sheet flag, and wraps it in a sheet handle. The caller must Close
// the returned host.
func openSheet(cmd *cobra.Command, file string, opts ...sheet.Option) (*xlsxhost.Host, *sheet.Sheet, error) {
	sheetName, err := cmd.Flags().GetString("sheet")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sheet flag: %w", err)
	}

	filePath := ResolveFilePath(GetBasepathFromCmd(cmd), file)
	host, err := xlsxhost.Open(filePath, sheetName)
	if err != nil {
		return nil, nil, err
	}

	s, err := sheet.New(host, opts...)
	if err != nil {
		host.Close()
		return nil, nil, err
	}
	return host, s, nil
}
