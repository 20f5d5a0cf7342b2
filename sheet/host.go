package sheet

import (
	"context"
	"time"
)

// Host is the external spreadsheet collaborator a Sheet drives. It exposes
// rectangular value access, structural row/column edits, and a document
// lock; everything else (rendering, formatting, persistence) belongs to
// the host and is out of scope here.
//
// Positions are 1-based. Implementations must be safe for concurrent use.
type Host interface {
	// Dimensions reports the extent of the grid as the number of rows and
	// columns that contain data.
	Dimensions(ctx context.Context) (rows, cols int, err error)

	// RangeValues reads a numRows x numCols rectangle anchored at
	// (row, col). When display is true values are the host's rendered
	// strings, otherwise they are the underlying values.
	RangeValues(ctx context.Context, row, col, numRows, numCols int, display bool) ([][]any, error)

	// SetRangeValues writes a rectangle of values anchored at (row, col),
	// growing the grid if needed.
	SetRangeValues(ctx context.Context, row, col int, values [][]any) error

	// InsertRows inserts count blank rows before row, shifting existing
	// rows down.
	InsertRows(ctx context.Context, row, count int) error

	// DeleteRows removes count rows starting at row.
	DeleteRows(ctx context.Context, row, count int) error

	// InsertColumns inserts count blank columns before col, shifting
	// existing columns right.
	InsertColumns(ctx context.Context, col, count int) error

	// DeleteColumns removes count columns starting at col.
	DeleteColumns(ctx context.Context, col, count int) error

	// AcquireLock takes the document-wide mutual-exclusion lock, waiting
	// at most timeout. The returned release function must be called
	// exactly once; callers are expected to defer it so the lock is
	// released on every exit path.
	AcquireLock(ctx context.Context, timeout time.Duration) (release func(), err error)
}
