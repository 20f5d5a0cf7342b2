// Package a1 parses A1-style range references (B2:D10, M:X, 5:15) into
// normalized range descriptors and converts column labels to and from
// 1-based column positions.
package a1

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Error types
var (
	ErrInvalidSyntax   = errors.New("invalid range syntax")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMissingArgument = errors.New("missing required argument")
)

// Range is the normalized descriptor for an A1-style reference.
//
// Positions are 1-based, indices are 0-based (always position-1). End
// coordinates and spans are nil when the reference leaves that side
// unbounded ("M:X" has no end row, "5:15" has no end column).
type Range struct {
	StartRowPosition    int    `json:"start_row_position"`
	StartRowIndex       int    `json:"start_row_index"`
	StartColumnLabel    string `json:"start_column_label"`
	StartColumnPosition int    `json:"start_column_position"`
	StartColumnIndex    int    `json:"start_column_index"`

	EndRowPosition    *int    `json:"end_row_position,omitempty"`
	EndRowIndex       *int    `json:"end_row_index,omitempty"`
	EndColumnLabel    *string `json:"end_column_label,omitempty"`
	EndColumnPosition *int    `json:"end_column_position,omitempty"`
	EndColumnIndex    *int    `json:"end_column_index,omitempty"`

	NumRows    *int `json:"num_rows,omitempty"`
	NumColumns *int `json:"num_columns,omitempty"`

	IsCell     bool   `json:"is_cell"`
	A1Notation string `json:"a1_notation"`
}

// rangeRegex matches a start part and an optional end part, each an
// optional column label followed by an optional row number.
var rangeRegex = regexp.MustCompile(`^([A-Za-z]*)([0-9]*)(?::([A-Za-z]*)([0-9]*))?$`)

// Parse parses an A1-style reference into a normalized Range.
//
// One trailing colon and surrounding whitespace are stripped before
// matching. Letters are case-insensitive and normalized to uppercase.
// Missing start coordinates default to column A and row 1; missing end
// coordinates stay unbounded. Out-of-order coordinates are swapped per
// axis, and a reference that denotes a single cell collapses to the cell
// form ("B2:B2" parses the same as "B2").
//
// Optional transforms are applied to the finished descriptor, see
// Transform.
func Parse(input string, transforms ...Transform) (*Range, error) {
	s := strings.TrimSuffix(input, ":")
	s = strings.TrimSpace(s)

	m := rangeRegex.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: %q is not a valid A1 range reference", ErrInvalidSyntax, input)
	}

	hasColon := strings.Contains(s, ":")
	hadStartLabel := m[1] != ""

	// Start coordinates, defaulted when absent.
	startRowPos := 1
	if m[2] != "" {
		v, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: row number %q out of range", ErrInvalidSyntax, m[2])
		}
		startRowPos = v
	}
	startColLabel := "A"
	if hadStartLabel {
		startColLabel = strings.ToUpper(m[1])
	}
	startColPos, err := LabelToPosition(startColLabel)
	if err != nil {
		return nil, err
	}

	// End coordinates, nil when absent.
	var endRowPos, endColPos *int
	var endColLabel *string
	if m[4] != "" {
		v, err := strconv.Atoi(m[4])
		if err != nil {
			return nil, fmt.Errorf("%w: row number %q out of range", ErrInvalidSyntax, m[4])
		}
		endRowPos = &v
	}
	if m[3] != "" {
		label := strings.ToUpper(m[3])
		pos, err := LabelToPosition(label)
		if err != nil {
			return nil, err
		}
		endColLabel = &label
		endColPos = &pos
	}

	isCell := !hasColon
	if !isCell && endRowPos != nil && endColPos != nil &&
		*endRowPos == startRowPos && *endColPos == startColPos {
		isCell = true
	}

	var numRows, numColumns *int
	if isCell {
		one := 1
		endRow, endCol, endLabel := startRowPos, startColPos, startColLabel
		endRowPos = &endRow
		endColPos = &endCol
		endColLabel = &endLabel
		numRows, numColumns = &one, &one
	} else {
		// Rows and columns normalize independently.
		if endRowPos != nil {
			if *endRowPos < startRowPos {
				startRowPos, *endRowPos = *endRowPos, startRowPos
			}
			n := *endRowPos - startRowPos + 1
			numRows = &n
		}
		if endColPos != nil {
			if *endColPos < startColPos {
				startColPos, *endColPos = *endColPos, startColPos
				startColLabel, *endColLabel = *endColLabel, startColLabel
			}
			n := *endColPos - startColPos + 1
			numColumns = &n
		}
	}

	r := &Range{
		StartRowPosition:    startRowPos,
		StartRowIndex:       startRowPos - 1,
		StartColumnLabel:    startColLabel,
		StartColumnPosition: startColPos,
		StartColumnIndex:    startColPos - 1,
		EndRowPosition:      endRowPos,
		EndColumnLabel:      endColLabel,
		EndColumnPosition:   endColPos,
		NumRows:             numRows,
		NumColumns:          numColumns,
		IsCell:              isCell,
	}
	if endRowPos != nil {
		i := *endRowPos - 1
		r.EndRowIndex = &i
	}
	if endColPos != nil {
		i := *endColPos - 1
		r.EndColumnIndex = &i
	}

	r.A1Notation = r.notation(hadStartLabel)

	// A range whose halves render identically is a single cell, even when
	// an unresolved end coordinate kept the index check from seeing it
	// ("B:B", "5:5").
	if parts := strings.Split(r.A1Notation, ":"); len(parts) == 2 && parts[0] == parts[1] {
		r.collapseToCell()
	}

	return applyTransforms(r, transforms)
}

// notation renders the canonical serialization, first matching rule wins.
func (r *Range) notation(hadStartLabel bool) string {
	startCell := r.StartColumnLabel + strconv.Itoa(r.StartRowPosition)
	switch {
	case r.IsCell:
		return startCell
	case r.EndColumnLabel != nil && r.EndRowPosition != nil:
		return startCell + ":" + *r.EndColumnLabel + strconv.Itoa(*r.EndRowPosition)
	case r.EndColumnLabel != nil:
		return r.StartColumnLabel + ":" + *r.EndColumnLabel
	case r.EndRowPosition != nil && !hadStartLabel:
		return strconv.Itoa(r.StartRowPosition) + ":" + strconv.Itoa(*r.EndRowPosition)
	case r.EndRowPosition != nil:
		return startCell + ":" + r.StartColumnLabel + strconv.Itoa(*r.EndRowPosition)
	default:
		return startCell
	}
}

// collapseToCell forces the descriptor into its single-cell form.
func (r *Range) collapseToCell() {
	one := 1
	endRow := r.StartRowPosition
	endRowIdx := r.StartRowIndex
	endCol := r.StartColumnPosition
	endColIdx := r.StartColumnIndex
	endLabel := r.StartColumnLabel

	r.IsCell = true
	r.EndRowPosition = &endRow
	r.EndRowIndex = &endRowIdx
	r.EndColumnPosition = &endCol
	r.EndColumnIndex = &endColIdx
	r.EndColumnLabel = &endLabel
	r.NumRows = &one
	r.NumColumns = &one
	r.A1Notation = r.StartColumnLabel + strconv.Itoa(r.StartRowPosition)
}

// String returns the canonical A1 notation.
func (r *Range) String() string {
	return r.A1Notation
}

// Bounds resolves the descriptor against a grid of totalRows x totalCols,
// clamping unbounded sides to the grid extent. It returns the 1-based
// top-left corner and the spans; spans are 0 when the start lies outside
// the grid.
func (r *Range) Bounds(totalRows, totalCols int) (row, col, numRows, numCols int) {
	row, col = r.StartRowPosition, r.StartColumnPosition

	endRow := totalRows
	if r.EndRowPosition != nil && *r.EndRowPosition < endRow {
		endRow = *r.EndRowPosition
	}
	endCol := totalCols
	if r.EndColumnPosition != nil && *r.EndColumnPosition < endCol {
		endCol = *r.EndColumnPosition
	}

	numRows = endRow - row + 1
	if numRows < 0 {
		numRows = 0
	}
	numCols = endCol - col + 1
	if numCols < 0 {
		numCols = 0
	}
	return row, col, numRows, numCols
}
