package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSheet() *Sheet {
	return &Sheet{
		Name: "data",
		Rows: []Row{
			{TextCell("Name"), TextCell("Score")},
			{TextCell("ana"), NumberCell(10)},
			{TextCell("bob")}, // short row, no score
			{TextCell("cat"), NumberCell(7)},
		},
	}
}

func TestColumnResolution(t *testing.T) {
	series, err := testSheet().Column("Score")
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
}

func TestColumnNotFound(t *testing.T) {
	_, err := testSheet().Column("score") // case matters
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = testSheet().Column("Missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestColumnOnEmptySheet(t *testing.T) {
	sheet := &Sheet{Name: "empty"}
	_, err := sheet.Column("anything")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSeriesShortRowTolerance(t *testing.T) {
	series, err := testSheet().Column("Score")
	require.NoError(t, err)

	var cells []Cell
	for cell := range series.Cells() {
		cells = append(cells, cell)
	}

	require.Len(t, cells, 3)
	assert.Equal(t, 10.0, cells[0].Number)
	assert.True(t, cells[1].IsEmpty())
	assert.Equal(t, 7.0, cells[2].Number)
}

func TestSeriesIsRestartable(t *testing.T) {
	series, err := testSheet().Column("Score")
	require.NoError(t, err)

	first := 0
	for range series.Cells() {
		first++
	}
	second := 0
	for range series.Cells() {
		second++
	}
	assert.Equal(t, first, second)
}

func TestSeriesEarlyBreak(t *testing.T) {
	series, err := testSheet().Column("Name")
	require.NoError(t, err)

	count := 0
	for range series.Cells() {
		count++
		if count == 1 {
			break
		}
	}
	assert.Equal(t, 1, count)
}

func TestHeaderOnlySheetHasEmptySeries(t *testing.T) {
	sheet := &Sheet{Name: "header-only", Rows: []Row{{TextCell("Sales")}}}
	series, err := sheet.Column("Sales")
	require.NoError(t, err)
	assert.Equal(t, 0, series.Len())

	for range series.Cells() {
		t.Fatal("expected no cells")
	}
}
