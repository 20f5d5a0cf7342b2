package output

import (
	"fmt"
	"os"
)

// Print outputs a single result in the specified format to stdout.
func Print(result any, format string) error {
	out, err := FormatSingle(format, result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Fprint(os.Stdout, string(out))
	return nil
}

// PrintRows outputs row data in the specified format to stdout.
func PrintRows(rows any, format string) error {
	out, err := FormatRows(format, rows)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Fprint(os.Stdout, string(out))
	return nil
}
