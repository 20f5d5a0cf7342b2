// Package sheet is a convenience layer over a hosted spreadsheet. It
// addresses the grid with A1-style references, reads rows as records
// against an optional schema, and performs bulk structural edits under
// the host's document lock.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MaksymStoianov/Sheet/a1"
	"github.com/MaksymStoianov/Sheet/internal/cache"
)

// Limits for bulk edit operations
const (
	MaxBulkRows    = 1000  // Maximum rows inserted or deleted in a single operation
	MaxBulkColumns = 100   // Maximum columns inserted in a single operation
	MaxWriteCells  = 10000 // Maximum cells written in a single range operation

	// DefaultLockTimeout bounds the wait for the document lock before a
	// bulk edit gives up.
	DefaultLockTimeout = 30 * time.Second

	rangeCacheSize = 256
)

// Error types
var (
	ErrRowLimitExceeded    = errors.New("row limit exceeded")
	ErrColumnLimitExceeded = errors.New("column limit exceeded")
	ErrCellLimitExceeded   = errors.New("cell limit exceeded")
	ErrSizeMismatch        = errors.New("values do not match range dimensions")
)

// Record is one grid row read as an object, keyed by schema field names.
// Columns the schema does not name are keyed by their column label.
type Record map[string]any

// Sheet wraps a Host with range addressing, records, and bulk edits.
type Sheet struct {
	host         Host
	schema       *Schema
	headerSchema bool
	lockTimeout  time.Duration
	ranges       *cache.LRU
}

// Option configures a Sheet.
type Option func(*Sheet)

// WithSchema attaches an explicit column schema.
func WithSchema(schema *Schema) Option {
	return func(s *Sheet) { s.schema = schema }
}

// WithHeaderSchema infers the schema from the first row of the grid on
// first use. An explicit schema takes precedence.
func WithHeaderSchema() Option {
	return func(s *Sheet) { s.headerSchema = true }
}

// WithLockTimeout overrides the document lock wait bound.
func WithLockTimeout(timeout time.Duration) Option {
	return func(s *Sheet) { s.lockTimeout = timeout }
}

// New creates a Sheet over the given host.
func New(host Host, opts ...Option) (*Sheet, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: host", a1.ErrMissingArgument)
	}

	s := &Sheet{
		host:        host,
		lockTimeout: DefaultLockTimeout,
		ranges:      cache.New(rangeCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Range parses an A1 reference, memoizing descriptors per reference
// string. The returned descriptor is shared and must not be modified.
func (s *Sheet) Range(ref string) (*a1.Range, error) {
	if r, ok := s.ranges.Get(ref); ok {
		return r, nil
	}
	r, err := a1.Parse(ref)
	if err != nil {
		return nil, err
	}
	s.ranges.Set(ref, r)
	return r, nil
}

// bounds resolves ref against the current grid extent. An empty ref
// addresses the whole grid.
func (s *Sheet) bounds(ctx context.Context, ref string) (row, col, numRows, numCols int, err error) {
	rows, cols, err := s.host.Dimensions(ctx)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("read grid dimensions: %w", err)
	}
	if ref == "" {
		return 1, 1, rows, cols, nil
	}

	r, err := s.Range(ref)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	row, col, numRows, numCols = r.Bounds(rows, cols)
	return row, col, numRows, numCols, nil
}

// Values reads the values of a range. An empty ref reads the whole grid;
// unbounded ranges are clamped to the grid extent.
func (s *Sheet) Values(ctx context.Context, ref string) ([][]any, error) {
	return s.values(ctx, ref, false)
}

// DisplayValues reads the host's rendered strings for a range.
func (s *Sheet) DisplayValues(ctx context.Context, ref string) ([][]any, error) {
	return s.values(ctx, ref, true)
}

func (s *Sheet) values(ctx context.Context, ref string, display bool) ([][]any, error) {
	row, col, numRows, numCols, err := s.bounds(ctx, ref)
	if err != nil {
		return nil, err
	}
	if numRows == 0 || numCols == 0 {
		return nil, nil
	}

	values, err := s.host.RangeValues(ctx, row, col, numRows, numCols, display)
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", ref, err)
	}
	return values, nil
}

// SetValues writes a rectangle of values to a range. When the range is
// bounded its spans must match the shape of values.
func (s *Sheet) SetValues(ctx context.Context, ref string, values [][]any) error {
	if len(values) == 0 {
		return nil
	}
	if err := checkCellCount(values); err != nil {
		return err
	}

	r, err := s.Range(ref)
	if err != nil {
		return err
	}
	if r.NumRows != nil && *r.NumRows != len(values) {
		return fmt.Errorf("%w: range %s spans %d rows, got %d",
			ErrSizeMismatch, r.A1Notation, *r.NumRows, len(values))
	}
	if r.NumColumns != nil && *r.NumColumns != len(values[0]) {
		return fmt.Errorf("%w: range %s spans %d columns, got %d",
			ErrSizeMismatch, r.A1Notation, *r.NumColumns, len(values[0]))
	}

	return s.withLock(ctx, func() error {
		if err := s.host.SetRangeValues(ctx, r.StartRowPosition, r.StartColumnPosition, values); err != nil {
			return fmt.Errorf("write range %s: %w", r.A1Notation, err)
		}
		return nil
	})
}

// AppendRows writes rows after the last row of the grid.
func (s *Sheet) AppendRows(ctx context.Context, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if len(rows) > MaxBulkRows {
		return fmt.Errorf("%w: attempting to append %d rows, limit is %d",
			ErrRowLimitExceeded, len(rows), MaxBulkRows)
	}

	return s.withLock(ctx, func() error {
		lastRow, _, err := s.host.Dimensions(ctx)
		if err != nil {
			return fmt.Errorf("read grid dimensions: %w", err)
		}
		if err := s.host.SetRangeValues(ctx, lastRow+1, 1, rows); err != nil {
			return fmt.Errorf("append %d rows at row %d: %w", len(rows), lastRow+1, err)
		}
		return nil
	})
}

// InsertRowsAt inserts rows before the given 1-based row position,
// shifting existing rows down, and fills them with the given values.
func (s *Sheet) InsertRowsAt(ctx context.Context, row int, rows [][]any) error {
	if row < 1 {
		return fmt.Errorf("%w: row position %d must be >= 1", a1.ErrInvalidArgument, row)
	}
	if len(rows) == 0 {
		return nil
	}
	if len(rows) > MaxBulkRows {
		return fmt.Errorf("%w: attempting to insert %d rows, limit is %d",
			ErrRowLimitExceeded, len(rows), MaxBulkRows)
	}

	return s.withLock(ctx, func() error {
		if err := s.host.InsertRows(ctx, row, len(rows)); err != nil {
			return fmt.Errorf("insert %d rows at row %d: %w", len(rows), row, err)
		}
		if err := s.host.SetRangeValues(ctx, row, 1, rows); err != nil {
			return fmt.Errorf("fill inserted rows at row %d: %w", row, err)
		}
		return nil
	})
}

// AppendColumns writes columns after the last column of the grid.
// Each element of cols is one column's values, top to bottom.
func (s *Sheet) AppendColumns(ctx context.Context, cols [][]any) error {
	if len(cols) == 0 {
		return nil
	}
	if len(cols) > MaxBulkColumns {
		return fmt.Errorf("%w: attempting to append %d columns, limit is %d",
			ErrColumnLimitExceeded, len(cols), MaxBulkColumns)
	}

	return s.withLock(ctx, func() error {
		_, lastCol, err := s.host.Dimensions(ctx)
		if err != nil {
			return fmt.Errorf("read grid dimensions: %w", err)
		}
		if err := s.host.SetRangeValues(ctx, 1, lastCol+1, transpose(cols)); err != nil {
			return fmt.Errorf("append %d columns at column %d: %w", len(cols), lastCol+1, err)
		}
		return nil
	})
}

// InsertColumnsAt inserts columns before the given 1-based column
// position, shifting existing columns right, and fills them with the
// given values. Each element of cols is one column's values.
func (s *Sheet) InsertColumnsAt(ctx context.Context, col int, cols [][]any) error {
	if col < 1 {
		return fmt.Errorf("%w: column position %d must be >= 1", a1.ErrInvalidArgument, col)
	}
	if len(cols) == 0 {
		return nil
	}
	if len(cols) > MaxBulkColumns {
		return fmt.Errorf("%w: attempting to insert %d columns, limit is %d",
			ErrColumnLimitExceeded, len(cols), MaxBulkColumns)
	}

	return s.withLock(ctx, func() error {
		if err := s.host.InsertColumns(ctx, col, len(cols)); err != nil {
			return fmt.Errorf("insert %d columns at column %d: %w", len(cols), col, err)
		}
		if err := s.host.SetRangeValues(ctx, 1, col, transpose(cols)); err != nil {
			return fmt.Errorf("fill inserted columns at column %d: %w", col, err)
		}
		return nil
	})
}

// DeleteRowsWhere deletes every row whose values satisfy match, scanning
// the whole grid once and deleting bottom-up under a single lock
// acquisition. It reports the number of rows deleted. The match callback
// receives the 1-based row position and the row's values.
func (s *Sheet) DeleteRowsWhere(ctx context.Context, match func(row int, values []any) bool) (int, error) {
	if match == nil {
		return 0, fmt.Errorf("%w: match", a1.ErrMissingArgument)
	}

	deleted := 0
	err := s.withLock(ctx, func() error {
		rows, cols, err := s.host.Dimensions(ctx)
		if err != nil {
			return fmt.Errorf("read grid dimensions: %w", err)
		}
		if rows == 0 {
			return nil
		}

		values, err := s.host.RangeValues(ctx, 1, 1, rows, cols, false)
		if err != nil {
			return fmt.Errorf("scan rows: %w", err)
		}

		// Delete in reverse so earlier positions stay valid.
		for i := len(values) - 1; i >= 0; i-- {
			if !match(i+1, values[i]) {
				continue
			}
			if err := s.host.DeleteRows(ctx, i+1, 1); err != nil {
				return fmt.Errorf("delete row %d: %w", i+1, err)
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

// Schema returns the sheet's column schema: the explicit one when
// attached, an inferred one from the header row when enabled, nil
// otherwise.
func (s *Sheet) Schema(ctx context.Context) (*Schema, error) {
	if s.schema != nil {
		return s.schema, nil
	}
	if !s.headerSchema {
		return nil, nil
	}

	_, cols, err := s.host.Dimensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read grid dimensions: %w", err)
	}
	if cols == 0 {
		return nil, nil
	}
	header, err := s.host.RangeValues(ctx, 1, 1, 1, cols, true)
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if len(header) == 0 {
		return nil, nil
	}

	s.schema = InferSchema(header[0])
	return s.schema, nil
}

// Records reads a range as one object per row, keyed by the schema's
// field names. Columns without a schema name are keyed by their column
// label. When the schema is header-inferred, the header row itself is
// skipped. An empty ref reads the whole grid.
func (s *Sheet) Records(ctx context.Context, ref string) ([]Record, error) {
	schema, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}

	row, col, numRows, numCols, err := s.bounds(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Header-inferred schemas occupy row 1; data starts below it.
	if s.headerSchema && row == 1 {
		row++
		numRows--
	}
	if numRows <= 0 || numCols == 0 {
		return nil, nil
	}

	values, err := s.host.RangeValues(ctx, row, col, numRows, numCols, false)
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", ref, err)
	}

	records := make([]Record, 0, len(values))
	for _, rowValues := range values {
		record := make(Record, numCols)
		for i := 0; i < numCols; i++ {
			var value any
			if i < len(rowValues) {
				value = rowValues[i]
			}

			key, ok := schema.Field(col - 1 + i)
			if !ok {
				key, err = a1.PositionToLabel(col + i)
				if err != nil {
					return nil, err
				}
			}
			record[key] = value
		}
		records = append(records, record)
	}
	return records, nil
}

// withLock runs fn while holding the host's document lock, releasing it
// on every exit path.
func (s *Sheet) withLock(ctx context.Context, fn func() error) error {
	release, err := s.host.AcquireLock(ctx, s.lockTimeout)
	if err != nil {
		return fmt.Errorf("acquire document lock: %w", err)
	}
	defer release()
	return fn()
}

// transpose turns column-major values into the row-major rectangle the
// host expects, padding short columns with nil.
func transpose(cols [][]any) [][]any {
	numRows := 0
	for _, col := range cols {
		if len(col) > numRows {
			numRows = len(col)
		}
	}

	rows := make([][]any, numRows)
	for i := range rows {
		row := make([]any, len(cols))
		for j, col := range cols {
			if i < len(col) {
				row[j] = col[i]
			}
		}
		rows[i] = row
	}
	return rows
}

func checkCellCount(values [][]any) error {
	total := 0
	for _, row := range values {
		total += len(row)
	}
	if total > MaxWriteCells {
		return fmt.Errorf("%w: attempting to write %d cells, limit is %d",
			ErrCellLimitExceeded, total, MaxWriteCells)
	}
	return nil
}
