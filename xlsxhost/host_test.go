package xlsxhost

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MaksymStoianov/Sheet/sheet"
)

// testWorkbook builds an in-memory workbook with a small people grid.
func testWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	rows := [][]any{
		{"name", "age", "city"},
		{"ada", 36, "london"},
		{"alan", 41, "manchester"},
		{"grace", 85, "arlington"},
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		copy(cells, row)
		if err := f.SetSheetRow("Sheet1", cellName(1, i+1), &cells); err != nil {
			t.Fatalf("seed row %d: %v", i+1, err)
		}
	}
	return f
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	f := testWorkbook(t)
	t.Cleanup(func() { f.Close() })

	h, err := New(f, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestNewResolvesSheetName(t *testing.T) {
	f := testWorkbook(t)
	defer f.Close()

	h, err := New(f, "sheet1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Sheet() != "Sheet1" {
		t.Errorf("Sheet() = %q, want %q", h.Sheet(), "Sheet1")
	}

	if _, err := New(f, "nope"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("error = %v, want ErrSheetNotFound", err)
	}
}

func TestNewDefaultsToFirstSheet(t *testing.T) {
	h := newTestHost(t)
	if h.Sheet() != "Sheet1" {
		t.Errorf("Sheet() = %q, want %q", h.Sheet(), "Sheet1")
	}
}

func TestDimensions(t *testing.T) {
	h := newTestHost(t)

	rows, cols, err := h.Dimensions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 4 || cols != 3 {
		t.Errorf("Dimensions = (%d, %d), want (4, 3)", rows, cols)
	}
}

func TestRangeValues(t *testing.T) {
	h := newTestHost(t)

	values, err := h.RangeValues(context.Background(), 2, 1, 2, 2, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]any{
		{"ada", "36"},
		{"alan", "41"},
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("RangeValues = %v, want %v", values, want)
	}
}

func TestRangeValuesPadsBeyondData(t *testing.T) {
	h := newTestHost(t)

	values, err := h.RangeValues(context.Background(), 4, 3, 2, 2, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]any{
		{"arlington", ""},
		{"", ""},
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("RangeValues = %v, want %v", values, want)
	}
}

func TestSetRangeValues(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()

	err := h.SetRangeValues(ctx, 5, 1, [][]any{{"linus", 55, "helsinki"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, err := h.RangeValues(ctx, 5, 1, 1, 3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]any{{"linus", "55", "helsinki"}}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("row after write = %v, want %v", values, want)
	}
}

func TestInsertAndDeleteRows(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()

	if err := h.InsertRows(ctx, 2, 2); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	rows, _, err := h.Dimensions(ctx)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if rows != 6 {
		t.Errorf("rows after insert = %d, want 6", rows)
	}

	// The shifted data row must now sit below the blanks.
	values, err := h.RangeValues(ctx, 4, 1, 1, 1, true)
	if err != nil {
		t.Fatalf("RangeValues: %v", err)
	}
	if values[0][0] != "ada" {
		t.Errorf("shifted row value = %v, want ada", values[0][0])
	}

	if err := h.DeleteRows(ctx, 2, 2); err != nil {
		t.Fatalf("DeleteRows: %v", err)
	}
	values, err = h.RangeValues(ctx, 2, 1, 1, 1, true)
	if err != nil {
		t.Fatalf("RangeValues: %v", err)
	}
	if values[0][0] != "ada" {
		t.Errorf("row 2 after delete = %v, want ada", values[0][0])
	}
}

func TestInsertAndDeleteColumns(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()

	if err := h.InsertColumns(ctx, 2, 1); err != nil {
		t.Fatalf("InsertColumns: %v", err)
	}
	values, err := h.RangeValues(ctx, 1, 3, 1, 1, true)
	if err != nil {
		t.Fatalf("RangeValues: %v", err)
	}
	if values[0][0] != "age" {
		t.Errorf("shifted header = %v, want age", values[0][0])
	}

	if err := h.DeleteColumns(ctx, 2, 1); err != nil {
		t.Fatalf("DeleteColumns: %v", err)
	}
	values, err = h.RangeValues(ctx, 1, 2, 1, 1, true)
	if err != nil {
		t.Fatalf("RangeValues: %v", err)
	}
	if values[0][0] != "age" {
		t.Errorf("header after delete = %v, want age", values[0][0])
	}
}

func TestAcquireLock(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()

	release, err := h.AcquireLock(ctx, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second acquisition must time out while the lock is held.
	if _, err := h.AcquireLock(ctx, 10*time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		t.Errorf("error = %v, want ErrLockTimeout", err)
	}

	release()
	release() // release is idempotent

	release2, err := h.AcquireLock(ctx, time.Second)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	release2()
}

func TestAcquireLockHonorsContext(t *testing.T) {
	h := newTestHost(t)

	release, err := h.AcquireLock(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.AcquireLock(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSaveRequiresPath(t *testing.T) {
	h := newTestHost(t)
	if err := h.Save(); err == nil {
		t.Error("Save() on an in-memory host should fail")
	}
}

func TestOpenSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.xlsx")

	f := testWorkbook(t)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	h, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()

	if err := h.SetRangeValues(ctx, 2, 2, [][]any{{37}}); err != nil {
		t.Fatalf("SetRangeValues: %v", err)
	}
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	h.Close()

	reopened, err := Open(path, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	values, err := reopened.RangeValues(ctx, 2, 2, 1, 1, true)
	if err != nil {
		t.Fatalf("RangeValues: %v", err)
	}
	if values[0][0] != "37" {
		t.Errorf("saved value = %v, want 37", values[0][0])
	}
}

// The host must satisfy the sheet layer end to end.
func TestHostDrivesSheetLayer(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()

	s, err := sheet.New(h, sheet.WithHeaderSchema())
	if err != nil {
		t.Fatalf("sheet.New: %v", err)
	}

	records, err := s.Records(ctx, "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0]["name"] != "ada" {
		t.Errorf("first record = %v", records[0])
	}

	deleted, err := s.DeleteRowsWhere(ctx, func(row int, values []any) bool {
		return row > 1 && values[2] == "manchester"
	})
	if err != nil {
		t.Fatalf("DeleteRowsWhere: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	records, err = s.Records(ctx, "")
	if err != nil {
		t.Fatalf("Records after delete: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records after delete, want 2", len(records))
	}
}
