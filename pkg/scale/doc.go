// Package scale chooses value-axis bounds made of "nice" numbers.
//
// # Algorithm
//
// [Compute] divides the data maximum by the ideal tick count to get a rough
// interval, then picks the first of 1, 2, 5 or 10 times the rough
// interval's power of ten that is at least as large. The axis maximum is the
// data maximum rounded up to a whole number of intervals:
//
//	a := scale.Compute(47, 5) // Interval 10, Max 50, TickCount 5
//	b := scale.Compute(3, 5)  // Interval 1, Max 3, TickCount 3
//
// Every [Axis] satisfies Max == TickCount*Interval, Max >= the data maximum
// and TickCount >= 2. A non-positive maximum yields a degenerate but
// drawable axis (interval 1) rather than an error.
//
// # Percentage axes
//
// Percentage charts use a fixed 0-100 axis with 10 ticks on a fine grid or
// 5 on a coarse one, see [Percentage].
//
// # Datasets
//
// [ForDataset] picks the maximum a chart type is scaled by. Stacked bars are
// scaled by the largest stack sum, never by the largest single series, so
// the tallest stack always fits.
package scale
