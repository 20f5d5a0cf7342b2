package sheet

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/MaksymStoianov/Sheet/a1"
)

// fakeHost is an in-memory grid implementing Host, with lock accounting.
type fakeHost struct {
	grid [][]any

	locked       bool
	lockAcquired int
	lockReleased int
	lockErr      error
}

func newFakeHost(grid [][]any) *fakeHost {
	return &fakeHost{grid: grid}
}

func (h *fakeHost) Dimensions(ctx context.Context) (int, int, error) {
	cols := 0
	for _, row := range h.grid {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(h.grid), cols, nil
}

func (h *fakeHost) RangeValues(ctx context.Context, row, col, numRows, numCols int, display bool) ([][]any, error) {
	values := make([][]any, numRows)
	for i := 0; i < numRows; i++ {
		values[i] = make([]any, numCols)
		gr := row - 1 + i
		if gr >= len(h.grid) {
			continue
		}
		for j := 0; j < numCols; j++ {
			gc := col - 1 + j
			if gc < len(h.grid[gr]) {
				values[i][j] = h.grid[gr][gc]
			}
		}
	}
	return values, nil
}

func (h *fakeHost) SetRangeValues(ctx context.Context, row, col int, values [][]any) error {
	for i, rowValues := range values {
		gr := row - 1 + i
		for gr >= len(h.grid) {
			h.grid = append(h.grid, nil)
		}
		for j, value := range rowValues {
			gc := col - 1 + j
			for gc >= len(h.grid[gr]) {
				h.grid[gr] = append(h.grid[gr], nil)
			}
			h.grid[gr][gc] = value
		}
	}
	return nil
}

func (h *fakeHost) InsertRows(ctx context.Context, row, count int) error {
	blank := make([][]any, count)
	h.grid = append(h.grid[:row-1], append(blank, h.grid[row-1:]...)...)
	return nil
}

func (h *fakeHost) DeleteRows(ctx context.Context, row, count int) error {
	h.grid = append(h.grid[:row-1], h.grid[row-1+count:]...)
	return nil
}

func (h *fakeHost) InsertColumns(ctx context.Context, col, count int) error {
	for i, row := range h.grid {
		if col-1 > len(row) {
			continue
		}
		blank := make([]any, count)
		h.grid[i] = append(row[:col-1], append(blank, row[col-1:]...)...)
	}
	return nil
}

func (h *fakeHost) DeleteColumns(ctx context.Context, col, count int) error {
	for i, row := range h.grid {
		if col-1 >= len(row) {
			continue
		}
		end := col - 1 + count
		if end > len(row) {
			end = len(row)
		}
		h.grid[i] = append(row[:col-1], row[end:]...)
	}
	return nil
}

func (h *fakeHost) AcquireLock(ctx context.Context, timeout time.Duration) (func(), error) {
	if h.lockErr != nil {
		return nil, h.lockErr
	}
	if h.locked {
		return nil, errors.New("lock already held")
	}
	h.locked = true
	h.lockAcquired++
	return func() {
		h.locked = false
		h.lockReleased++
	}, nil
}

func testGrid() [][]any {
	return [][]any{
		{"name", "age", "city"},
		{"ada", 36, "london"},
		{"alan", 41, "manchester"},
		{"grace", 85, "arlington"},
	}
}

func TestNewRequiresHost(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, a1.ErrMissingArgument) {
		t.Errorf("New(nil) error = %v, want ErrMissingArgument", err)
	}
}

func TestValues(t *testing.T) {
	host := newFakeHost(testGrid())
	s, err := New(host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		ref  string
		want [][]any
	}{
		{
			name: "bounded range",
			ref:  "A2:B3",
			want: [][]any{{"ada", 36}, {"alan", 41}},
		},
		{
			name: "single cell",
			ref:  "C4",
			want: [][]any{{"arlington"}},
		},
		{
			name: "column-only range clamps to grid",
			ref:  "B:C",
			want: [][]any{{"age", "city"}, {36, "london"}, {41, "manchester"}, {85, "arlington"}},
		},
		{
			name: "row-only range clamps to grid",
			ref:  "2:3",
			want: [][]any{{"ada", 36, "london"}, {"alan", 41, "manchester"}},
		},
		{
			name: "empty ref reads whole grid",
			ref:  "",
			want: testGrid(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Values(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("Values(%q) unexpected error: %v", tt.ref, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Values(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestValuesOutsideGrid(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	got, err := s.Values(context.Background(), "A100:B200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Values outside grid = %v, want nil", got)
	}
}

func TestValuesInvalidRef(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	_, err := s.Values(context.Background(), "1A")
	if !errors.Is(err, a1.ErrInvalidSyntax) {
		t.Errorf("error = %v, want ErrInvalidSyntax", err)
	}
}

func TestSetValues(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	err := s.SetValues(context.Background(), "B2:B3", [][]any{{37}, {42}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if host.grid[1][1] != 37 || host.grid[2][1] != 42 {
		t.Errorf("grid after SetValues = %v", host.grid)
	}
	if host.lockAcquired != 1 || host.lockReleased != 1 {
		t.Errorf("lock acquired/released = %d/%d, want 1/1", host.lockAcquired, host.lockReleased)
	}
}

func TestSetValuesSizeMismatch(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	err := s.SetValues(context.Background(), "B2:B3", [][]any{{37}})
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("error = %v, want ErrSizeMismatch", err)
	}

	err = s.SetValues(context.Background(), "B2:C2", [][]any{{37, 38, 39}})
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("error = %v, want ErrSizeMismatch", err)
	}
}

func TestSetValuesCellLimit(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	row := make([]any, MaxWriteCells+1)
	err := s.SetValues(context.Background(), "A1", [][]any{row})
	if !errors.Is(err, ErrCellLimitExceeded) {
		t.Errorf("error = %v, want ErrCellLimitExceeded", err)
	}
}

func TestAppendRows(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	err := s.AppendRows(context.Background(), [][]any{{"linus", 55, "helsinki"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(host.grid) != 5 {
		t.Fatalf("grid has %d rows, want 5", len(host.grid))
	}
	if !reflect.DeepEqual(host.grid[4], []any{"linus", 55, "helsinki"}) {
		t.Errorf("appended row = %v", host.grid[4])
	}
}

func TestAppendRowsLimit(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	rows := make([][]any, MaxBulkRows+1)
	err := s.AppendRows(context.Background(), rows)
	if !errors.Is(err, ErrRowLimitExceeded) {
		t.Errorf("error = %v, want ErrRowLimitExceeded", err)
	}
	if host.lockAcquired != 0 {
		t.Errorf("lock acquired %d times, want 0 (limit checked first)", host.lockAcquired)
	}
}

func TestInsertRowsAt(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	err := s.InsertRowsAt(context.Background(), 2, [][]any{{"edsger", 72, "rotterdam"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(host.grid) != 5 {
		t.Fatalf("grid has %d rows, want 5", len(host.grid))
	}
	if !reflect.DeepEqual(host.grid[1], []any{"edsger", 72, "rotterdam"}) {
		t.Errorf("inserted row = %v", host.grid[1])
	}
	if host.grid[2][0] != "ada" {
		t.Errorf("shifted row = %v, want ada first", host.grid[2])
	}
}

func TestInsertRowsAtInvalidPosition(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	err := s.InsertRowsAt(context.Background(), 0, [][]any{{"x"}})
	if !errors.Is(err, a1.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestAppendColumns(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	err := s.AppendColumns(context.Background(), [][]any{{"id", 1, 2, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if host.grid[0][3] != "id" || host.grid[3][3] != 3 {
		t.Errorf("grid after AppendColumns = %v", host.grid)
	}
}

func TestInsertColumnsAt(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	err := s.InsertColumnsAt(context.Background(), 2, [][]any{{"id", 1, 2, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if host.grid[0][1] != "id" {
		t.Errorf("inserted column header = %v, want id", host.grid[0][1])
	}
	if host.grid[1][2] != 36 {
		t.Errorf("shifted cell = %v, want 36", host.grid[1][2])
	}
}

func TestDeleteRowsWhere(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	deleted, err := s.DeleteRowsWhere(context.Background(), func(row int, values []any) bool {
		age, ok := values[1].(int)
		return ok && age > 40
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if len(host.grid) != 2 {
		t.Fatalf("grid has %d rows, want 2", len(host.grid))
	}
	if host.grid[1][0] != "ada" {
		t.Errorf("surviving row = %v, want ada", host.grid[1])
	}
	// The whole scan-and-delete runs under one lock acquisition.
	if host.lockAcquired != 1 || host.lockReleased != 1 {
		t.Errorf("lock acquired/released = %d/%d, want 1/1", host.lockAcquired, host.lockReleased)
	}
}

func TestDeleteRowsWhereNilMatch(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	_, err := s.DeleteRowsWhere(context.Background(), nil)
	if !errors.Is(err, a1.ErrMissingArgument) {
		t.Errorf("error = %v, want ErrMissingArgument", err)
	}
}

func TestLockFailurePropagates(t *testing.T) {
	host := newFakeHost(testGrid())
	host.lockErr = errors.New("lock wait timed out")
	s, _ := New(host)

	err := s.AppendRows(context.Background(), [][]any{{"x"}})
	if err == nil || !errors.Is(err, host.lockErr) {
		t.Errorf("error = %v, want wrapped lock error", err)
	}
}

func TestRecordsWithExplicitSchema(t *testing.T) {
	host := newFakeHost([][]any{
		{"ada", 36, "london"},
		{"alan", 41, "manchester"},
	})
	s, _ := New(host, WithSchema(NewSchema("name", "age", "city")))

	records, err := s.Records(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Record{
		{"name": "ada", "age": 36, "city": "london"},
		{"name": "alan", "age": 41, "city": "manchester"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Records = %v, want %v", records, want)
	}
}

func TestRecordsWithHeaderSchema(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host, WithHeaderSchema())

	records, err := s.Records(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (header skipped)", len(records))
	}
	if records[0]["name"] != "ada" || records[2]["city"] != "arlington" {
		t.Errorf("records = %v", records)
	}
}

func TestRecordsColumnLabelFallback(t *testing.T) {
	host := newFakeHost([][]any{
		{"ada", 36, "london"},
	})
	s, _ := New(host, WithSchema(NewSchema("name")))

	records, err := s.Records(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Record{{"name": "ada", "B": 36, "C": "london"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Records = %v, want %v", records, want)
	}
}

func TestRecordsSubRange(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host, WithHeaderSchema())

	records, err := s.Records(context.Background(), "B2:C3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Record{
		{"age": 36, "city": "london"},
		{"age": 41, "city": "manchester"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Records = %v, want %v", records, want)
	}
}

func TestRangeMemoization(t *testing.T) {
	host := newFakeHost(testGrid())
	s, _ := New(host)

	first, err := s.Range("B2:D10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Range("B2:D10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected memoized descriptor to be reused")
	}
}
