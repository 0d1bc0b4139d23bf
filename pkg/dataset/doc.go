// Package dataset defines the chart input model shared by every output:
// the [Dataset] of category labels and [Series], and the [ChartType] it is
// drawn as.
//
// A Dataset is decoded once per render request with [Decode] and never
// mutated afterwards. Every series carries two aligned value slices:
//
//   - RawData: values in the series' own unit, the source of truth for
//     tables and stack sums
//   - Data: values as plotted, which in percentage mode are the
//     pre-computed shares of the category total
//
// JSON null entries decode to 0 and out-of-range indices read as 0, so
// absent values never propagate as NaN.
package dataset
