// Package analytics computes column-level descriptive statistics over a
// workbook column series. The record shape matches what the platform has
// always persisted: counts plus min/max/sum/average, with the numeric
// aggregates absent (JSON null, never zero) when the column has no numeric
// values.
package analytics

import (
	"strconv"

	"excelytics/internal/workbook"
)

// AnalysisTypeBasicStats tags entries produced by Compute in the analytics
// history.
const AnalysisTypeBasicStats = "basic_stats"

// Statistics is the aggregate result for one column series. Pointer fields
// are nil when the series holds no numeric values, so serialization
// round-trips absence as an explicit null.
type Statistics struct {
	TotalRows     int      `json:"totalRows"`
	TotalValues   int      `json:"totalValues"`
	NumericValues int      `json:"numericValues"`
	Min           *float64 `json:"min"`
	Max           *float64 `json:"max"`
	Sum           *float64 `json:"sum"`
	Average       *float64 `json:"average"`
	UniqueValues  int      `json:"uniqueValues"`
}

// Compute aggregates a column series into a Statistics record.
//
// Classification follows the workbook typing policy: a cell counts as
// numeric if it is a number cell or a text cell that fully parses as a
// number. Uniqueness is value-normalized — any cell classifying numeric is
// keyed by its numeric value, so the text "5" and the number 5 count as one
// distinct value. Normalization applies only here; raw cell values are
// untouched for preview output.
//
// An empty series yields zero counts and nil aggregates, never an error.
func Compute(series workbook.Series) Statistics {
	stats := Statistics{TotalRows: series.Len()}

	var (
		sum      float64
		min, max float64
		distinct = make(map[string]struct{})
	)

	for cell := range series.Cells() {
		if cell.IsEmpty() {
			continue
		}
		stats.TotalValues++

		if v, ok := cell.Numeric(); ok {
			if stats.NumericValues == 0 || v < min {
				min = v
			}
			if stats.NumericValues == 0 || v > max {
				max = v
			}
			sum += v
			stats.NumericValues++
			distinct[numericKey(v)] = struct{}{}
			continue
		}
		distinct[rawKey(cell)] = struct{}{}
	}

	stats.UniqueValues = len(distinct)
	if stats.NumericValues > 0 {
		avg := sum / float64(stats.NumericValues)
		stats.Min = &min
		stats.Max = &max
		stats.Sum = &sum
		stats.Average = &avg
	}
	return stats
}

// numericKey keys numeric cells by value so equal numbers collide regardless
// of their original textual form.
func numericKey(v float64) string {
	return "n:" + strconv.FormatFloat(v, 'g', -1, 64)
}

// rawKey keys non-numeric cells by tag plus rendering so values of different
// kinds never collide (the boolean true and the text "true" stay distinct).
func rawKey(c workbook.Cell) string {
	switch c.Kind {
	case workbook.KindBool:
		return "b:" + c.String()
	case workbook.KindDate:
		return "d:" + c.String()
	default:
		return "t:" + c.String()
	}
}
