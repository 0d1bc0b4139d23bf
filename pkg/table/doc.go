// Package table builds the canonical tabular form of a chart.
//
// Every surface that shows numbers next to the chart (the HTML table, the
// terminal table, the workbook and the PDF document) renders the rows
// produced here and takes cell text from [Cell.Text] or [Cell.ValueText]
// unmodified. Formatting is therefore defined exactly once, which keeps
// all outputs digit-for-digit identical.
//
// A cell shows the series' raw value converted into the display unit and
// formatted with [format.Number]. Pie and donut charts add the value's
// share of the grand total; percentage-mode charts add the pre-computed
// share carried in the series' plotted data:
//
//	33.33% (10 公噸)
//	2500 公斤
package table
