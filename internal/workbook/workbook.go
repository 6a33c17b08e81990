// Package workbook decodes uploaded spreadsheet files into a normalized
// in-memory representation shared by every downstream consumer. Both XLSX
// workbooks and plain CSV files normalize to the same Workbook shape, so
// column extraction and statistics never care which format was uploaded.
package workbook

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the variants a Cell can hold.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindNumber
	KindText
	KindBool
	KindDate
)

// Cell is a tagged variant holding one spreadsheet cell value. Exactly one
// of the value fields is meaningful, selected by Kind. The zero value is an
// empty cell.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
	Bool   bool
	Date   time.Time
}

// EmptyCell is the absent-cell sentinel used for missing trailing cells in
// short rows.
var EmptyCell = Cell{Kind: KindEmpty}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: KindText, Text: s} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// DateCell returns a date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }

// IsEmpty reports whether the cell is absent.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// Numeric reports the cell's numeric value under the platform typing policy:
// number cells are numeric, and text cells whose entire content parses as a
// number (locale-invariant, strconv syntax) are numeric. Boolean and date
// cells are not coerced.
func (c Cell) Numeric() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.Number, true
	case KindText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// Value returns the cell's natural Go value for serialization. Empty cells
// yield nil so previews round-trip absence as JSON null.
func (c Cell) Value() any {
	switch c.Kind {
	case KindNumber:
		return c.Number
	case KindText:
		return c.Text
	case KindBool:
		return c.Bool
	case KindDate:
		return c.Date.Format(time.RFC3339)
	default:
		return nil
	}
}

// String renders the cell the way it appeared in the source, for logs and
// debugging only.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindText:
		return c.Text
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindDate:
		return c.Date.Format(time.RFC3339)
	default:
		return ""
	}
}

// Row is one ordered line of cells. Rows within a sheet may have different
// lengths; indexing past the end is handled by Sheet.CellAt.
type Row []Cell

// Sheet is one tab's worth of rows, in source order.
type Sheet struct {
	Name string
	Rows []Row
}

// CellAt returns the cell at (row, col), yielding the absent-cell sentinel
// for any index outside the stored data. Rows shorter than the header read
// as absent cells, never as an out-of-range panic.
func (s *Sheet) CellAt(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) {
		return EmptyCell
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return EmptyCell
	}
	return r[col]
}

// DataRowCount returns the number of rows excluding the header row.
func (s *Sheet) DataRowCount() int {
	if len(s.Rows) <= 1 {
		return 0
	}
	return len(s.Rows) - 1
}

// Workbook is the fully parsed spreadsheet: an ordered collection of named
// sheets. Order matches the source container's declared sheet order, which
// keeps previews and statistics reproducible across requests. A Workbook is
// immutable once parsed and lives only for the request that parsed it.
type Workbook struct {
	Sheets []*Sheet
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the named sheet, or nil if the workbook has no such sheet.
// Lookup is exact and case-sensitive.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}
