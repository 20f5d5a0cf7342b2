package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Format represents output format options
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// Formatter renders values in one output format
type Formatter interface {
	// FormatValue formats a single value
	FormatValue(v any) ([]byte, error)

	// FormatSlice formats a slice of values, one row per element
	FormatSlice(v any) ([]byte, error)
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format string) (Formatter, error) {
	switch Format(strings.ToLower(format)) {
	case FormatJSON, "":
		return &JSONFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	case FormatTSV:
		return &TSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid: json, csv, tsv)", format)
	}
}

// JSONFormatter outputs JSON format
type JSONFormatter struct{}

func (f *JSONFormatter) FormatValue(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON value: %w", err)
	}
	return append(data, '\n'), nil
}

func (f *JSONFormatter) FormatSlice(v any) ([]byte, error) {
	return f.FormatValue(v)
}

// CSVFormatter outputs CSV format
type CSVFormatter struct{}

func (f *CSVFormatter) FormatValue(v any) ([]byte, error) {
	row, err := toStringSlice(v)
	if err != nil {
		return nil, err
	}
	return writeSeparated(',', [][]string{row})
}

func (f *CSVFormatter) FormatSlice(v any) ([]byte, error) {
	rows, err := toStringSliceSlice(v)
	if err != nil {
		return nil, err
	}
	return writeSeparated(',', rows)
}

// TSVFormatter outputs tab-separated format
type TSVFormatter struct{}

func (f *TSVFormatter) FormatValue(v any) ([]byte, error) {
	row, err := toStringSlice(v)
	if err != nil {
		return nil, err
	}
	return writeSeparated('\t', [][]string{row})
}

func (f *TSVFormatter) FormatSlice(v any) ([]byte, error) {
	rows, err := toStringSliceSlice(v)
	if err != nil {
		return nil, err
	}
	return writeSeparated('\t', rows)
}

func writeSeparated(comma rune, rows [][]string) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Comma = comma
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writer error: %w", err)
	}
	return []byte(buf.String()), nil
}

// toStringSlice converts various types to []string for CSV/TSV output
func toStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			result[i] = stringify(item)
		}
		return result, nil
	case map[string]any:
		// Objects render as values in key order so output stays stable
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		result := make([]string, len(keys))
		for i, k := range keys {
			result[i] = stringify(val[k])
		}
		return result, nil
	default:
		return []string{stringify(v)}, nil
	}
}

// toStringSliceSlice converts to [][]string for multi-row output
func toStringSliceSlice(v any) ([][]string, error) {
	switch val := v.(type) {
	case [][]string:
		return val, nil
	case [][]any:
		result := make([][]string, len(val))
		for i, row := range val {
			var err error
			result[i], err = toStringSlice(row)
			if err != nil {
				return nil, fmt.Errorf("failed to convert row %d: %w", i, err)
			}
		}
		return result, nil
	case []any:
		result := make([][]string, len(val))
		for i, row := range val {
			var err error
			result[i], err = toStringSlice(row)
			if err != nil {
				return nil, fmt.Errorf("failed to convert row %d: %w", i, err)
			}
		}
		return result, nil
	default:
		row, err := toStringSlice(v)
		if err != nil {
			return nil, err
		}
		return [][]string{row}, nil
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// FormatRows is a convenience function for formatting row data
func FormatRows(format string, rows any) ([]byte, error) {
	f, err := NewFormatter(format)
	if err != nil {
		return nil, err
	}
	return f.FormatSlice(rows)
}

// FormatSingle is a convenience function for formatting a single object
func FormatSingle(format string, v any) ([]byte, error) {
	f, err := NewFormatter(format)
	if err != nil {
		return nil, err
	}
	return f.FormatValue(v)
}
