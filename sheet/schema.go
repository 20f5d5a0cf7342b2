package sheet

import (
	"fmt"
	"strings"
)

// Schema names the columns of a sheet so rows can be read as records.
// Index 0 names column A. Blank names leave a column unnamed.
type Schema struct {
	fields []string
}

// NewSchema builds a schema from column field names in column order.
func NewSchema(fields ...string) *Schema {
	copied := make([]string, len(fields))
	copy(copied, fields)
	return &Schema{fields: copied}
}

// InferSchema derives a schema from a header row, stringifying each cell
// and trimming surrounding whitespace.
func InferSchema(header []any) *Schema {
	fields := make([]string, len(header))
	for i, cell := range header {
		if cell == nil {
			continue
		}
		fields[i] = strings.TrimSpace(fmt.Sprintf("%v", cell))
	}
	return &Schema{fields: fields}
}

// Field returns the name for the column at the given 0-based index.
// The second return is false when the column is out of range or unnamed.
func (s *Schema) Field(index int) (string, bool) {
	if s == nil || index < 0 || index >= len(s.fields) || s.fields[index] == "" {
		return "", false
	}
	return s.fields[index], true
}

// Len returns the number of columns the schema covers.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Fields returns a copy of the field names.
func (s *Schema) Fields() []string {
	if s == nil {
		return nil
	}
	copied := make([]string, len(s.fields))
	copy(copied, s.fields)
	return copied
}
