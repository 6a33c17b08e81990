package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors for format detection and decoding. Handlers map these to
// client-facing responses; everything wrapped underneath is diagnostic only.
var (
	// ErrUnsupportedFormat means the byte stream is not a recognized
	// spreadsheet container (neither a zip-based workbook nor delimited text).
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCorruptFile means the container was recognized but is internally
	// inconsistent (truncated archive, malformed records).
	ErrCorruptFile = errors.New("corrupt spreadsheet file")
)

// zipMagic is the local-file-header signature of a zip archive, which is how
// XLSX workbooks are containered.
var zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// csvSheetName is the synthetic sheet name given to delimited-text uploads,
// matching the default sheet name of a fresh workbook so downstream code is
// format-agnostic.
const csvSheetName = "Sheet1"

// Parse decodes raw spreadsheet bytes into a Workbook. It is a pure
// transform: no side effects, no retained references to raw.
//
// Two encodings are recognized: zip-based XLSX workbooks (decoded with
// excelize) and plain delimited text (decoded as CSV into a single sheet).
func Parse(raw []byte) (*Workbook, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedFormat)
	}

	if bytes.HasPrefix(raw, zipMagic) {
		return parseXLSX(raw)
	}

	if !looksLikeText(raw) {
		return nil, fmt.Errorf("%w: not a workbook or delimited text file", ErrUnsupportedFormat)
	}
	return parseCSV(raw)
}

func parseXLSX(raw []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrCorruptFile, name, err)
		}

		sheet := &Sheet{Name: name, Rows: make([]Row, 0, len(rows))}
		for ri, raw := range rows {
			row := make(Row, 0, len(raw))
			for ci, val := range raw {
				row = append(row, typedCell(f, name, ri, ci, val))
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// typedCell classifies one XLSX cell. GetRows hands back formatted strings,
// so the stored cell type decides the variant tag; textual numbers still
// classify numeric later via Cell.Numeric.
func typedCell(f *excelize.File, sheet string, rowIdx, colIdx int, val string) Cell {
	if val == "" {
		return EmptyCell
	}

	axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err == nil {
		if ct, err := f.GetCellType(sheet, axis); err == nil {
			switch ct {
			case excelize.CellTypeBool:
				return BoolCell(strings.EqualFold(val, "TRUE") || val == "1")
			case excelize.CellTypeDate:
				if t, ok := parseDate(val); ok {
					return DateCell(t)
				}
			}
		}
	}

	if n, err := strconv.ParseFloat(val, 64); err == nil {
		return NumberCell(n)
	}
	return TextCell(val)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/2006",
}

func parseDate(val string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseCSV(raw []byte) (*Workbook, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1 // ragged rows are normal in uploads
	r.TrimLeadingSpace = false

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	sheet := &Sheet{Name: csvSheetName, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		row := make(Row, 0, len(rec))
		for _, field := range rec {
			if field == "" {
				row = append(row, EmptyCell)
				continue
			}
			row = append(row, TextCell(field))
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return &Workbook{Sheets: []*Sheet{sheet}}, nil
}

// looksLikeText reports whether raw is plausibly a delimited-text file:
// valid UTF-8 with no NUL bytes. Binary uploads that are not zip archives
// fail this check and report as unsupported rather than corrupt.
func looksLikeText(raw []byte) bool {
	if bytes.IndexByte(raw, 0x00) >= 0 {
		return false
	}
	return utf8.Valid(raw)
}
