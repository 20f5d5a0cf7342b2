// Package xlsxhost backs the sheet.Host contract with an xlsx workbook
// through excelize.
package xlsxhost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MaksymStoianov/Sheet/a1"
)

// MaxFileSize is the maximum workbook size accepted for editing.
const MaxFileSize = 50 * 1024 * 1024 // 50MB

// Error types
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrFileTooLarge  = errors.New("file exceeds size limit")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrLockTimeout   = errors.New("timed out waiting for document lock")
)

// Host implements sheet.Host over a single worksheet of an excelize
// workbook. The document lock is an in-process mutex; mutating callers
// are expected to go through it, reads are not serialized.
type Host struct {
	f     *excelize.File
	sheet string
	path  string
	lock  chan struct{}
}

// Open opens an xlsx file and binds the host to the named sheet. An
// empty sheet name selects the first sheet; names match
// case-insensitively, as the host resolves them.
func Open(path, sheet string) (*Host, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: file size %d bytes exceeds limit of %d bytes",
			ErrFileTooLarge, info.Size(), MaxFileSize)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}

	h, err := New(f, sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	h.path = path
	return h, nil
}

// New binds a host to a sheet of an already-open workbook.
func New(f *excelize.File, sheet string) (*Host, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: file handle", a1.ErrMissingArgument)
	}

	resolved, err := resolveSheetName(f, sheet)
	if err != nil {
		return nil, err
	}

	return &Host{
		f:     f,
		sheet: resolved,
		lock:  make(chan struct{}, 1),
	}, nil
}

// Sheet returns the resolved worksheet name.
func (h *Host) Sheet() string {
	return h.sheet
}

// Close releases the underlying workbook handle.
func (h *Host) Close() error {
	return h.f.Close()
}

// Save writes the workbook back to its path atomically using a temp
// file and rename, so an interrupted save never corrupts the original.
func (h *Host) Save() error {
	if h.path == "" {
		return fmt.Errorf("host was not opened from a file, nothing to save")
	}

	dir := filepath.Dir(h.path)
	tmpPath := filepath.Join(dir, filepath.Base(h.path)+".tmp")

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmpPath, err)
	}

	if err := h.f.Write(tmpFile); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write to temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, h.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", h.path, err)
	}
	return nil
}

// Dimensions streams the sheet once to count rows and the widest row.
func (h *Host) Dimensions(ctx context.Context) (int, int, error) {
	rows, err := h.f.Rows(h.sheet)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open row iterator: %w", err)
	}
	defer rows.Close()

	numRows, numCols := 0, 0
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		numRows++
		cols, err := rows.Columns()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read columns at row %d: %w", numRows, err)
		}
		if len(cols) > numCols {
			numCols = len(cols)
		}
	}
	if err := rows.Error(); err != nil {
		return 0, 0, fmt.Errorf("error iterating rows: %w", err)
	}
	return numRows, numCols, nil
}

// RangeValues reads a rectangle of cell values. Display selects the
// rendered cell text, otherwise raw values are returned.
func (h *Host) RangeValues(ctx context.Context, row, col, numRows, numCols int, display bool) ([][]any, error) {
	opts := excelize.Options{RawCellValue: !display}

	values := make([][]any, numRows)
	for i := 0; i < numRows; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values[i] = make([]any, numCols)
		for j := 0; j < numCols; j++ {
			cell := cellName(col+j, row+i)
			value, err := h.f.GetCellValue(h.sheet, cell, opts)
			if err != nil {
				return nil, fmt.Errorf("failed to get cell %s: %w", cell, err)
			}
			values[i][j] = value
		}
	}
	return values, nil
}

// SetRangeValues writes a rectangle of values anchored at (row, col).
func (h *Host) SetRangeValues(ctx context.Context, row, col int, values [][]any) error {
	for i, rowValues := range values {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells := make([]any, len(rowValues))
		copy(cells, rowValues)

		cell := cellName(col, row+i)
		if err := h.f.SetSheetRow(h.sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row+i, err)
		}
	}
	return nil
}

// InsertRows inserts count blank rows before row.
func (h *Host) InsertRows(ctx context.Context, row, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.f.InsertRows(h.sheet, row, count); err != nil {
		return fmt.Errorf("failed to insert rows at row %d: %w", row, err)
	}
	return nil
}

// DeleteRows removes count rows starting at row, deleting in reverse
// order so positions stay valid as rows shift up.
func (h *Host) DeleteRows(ctx context.Context, row, count int) error {
	for i := row + count - 1; i >= row; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.f.RemoveRow(h.sheet, i); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", i, err)
		}
	}
	return nil
}

// InsertColumns inserts count blank columns before col.
func (h *Host) InsertColumns(ctx context.Context, col, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	label, err := a1.PositionToLabel(col)
	if err != nil {
		return err
	}
	if err := h.f.InsertCols(h.sheet, label, count); err != nil {
		return fmt.Errorf("failed to insert columns at column %s: %w", label, err)
	}
	return nil
}

// DeleteColumns removes count columns starting at col. Removing the same
// label repeatedly works because later columns shift left each time.
func (h *Host) DeleteColumns(ctx context.Context, col, count int) error {
	label, err := a1.PositionToLabel(col)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.f.RemoveCol(h.sheet, label); err != nil {
			return fmt.Errorf("failed to remove column %s: %w", label, err)
		}
	}
	return nil
}

// AcquireLock takes the in-process document lock, waiting at most
// timeout. The returned release function is idempotent.
func (h *Host) AcquireLock(ctx context.Context, timeout time.Duration) (func(), error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case h.lock <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-h.lock })
		}, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrLockTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolveSheetName returns the actual sheet name (with correct casing)
// or the first sheet when name is empty.
func resolveSheetName(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in workbook")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSheetNotFound, name)
}

// cellName formats a 1-based (col, row) pair as a cell address.
func cellName(col, row int) string {
	label, _ := a1.PositionToLabel(col)
	return label + strconv.Itoa(row)
}
