package workbook

import (
	"errors"
	"fmt"
	"iter"
)

// ErrColumnNotFound means the requested column name does not appear in the
// sheet's header row.
var ErrColumnNotFound = errors.New("column not found")

// Series is the ordered sequence of cells under one column across a sheet's
// data rows (everything after the header row). It is a cheap view over the
// sheet: derivation happens lazily during iteration and every call to Cells
// starts over from the first data row.
type Series struct {
	sheet *Sheet
	col   int
}

// Column resolves columnName against the header row (row 0) with an exact,
// case-sensitive match and returns the series of cells under it. A sheet
// with no rows at all has no header, so every column lookup fails.
func (s *Sheet) Column(columnName string) (Series, error) {
	if len(s.Rows) == 0 {
		return Series{}, fmt.Errorf("%w: %q (sheet %q is empty)", ErrColumnNotFound, columnName, s.Name)
	}
	for i, cell := range s.Rows[0] {
		if !cell.IsEmpty() && cell.String() == columnName {
			return Series{sheet: s, col: i}, nil
		}
	}
	return Series{}, fmt.Errorf("%w: %q in sheet %q", ErrColumnNotFound, columnName, s.Name)
}

// Len is the number of data rows the series spans, counting rows whose cell
// in this column is absent.
func (s Series) Len() int {
	if s.sheet == nil {
		return 0
	}
	return s.sheet.DataRowCount()
}

// Cells returns a fresh iterator over the series in original row order.
// Rows shorter than the resolved column index contribute the absent-cell
// sentinel.
func (s Series) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		if s.sheet == nil {
			return
		}
		for row := 1; row < len(s.sheet.Rows); row++ {
			if !yield(s.sheet.CellAt(row, s.col)) {
				return
			}
		}
	}
}
