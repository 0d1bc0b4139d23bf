// Package format turns chart values into the strings shown on axes, data
// labels, tooltips and table cells.
//
// There are two families of formatting:
//
//   - Axis ticks ([Tick], [Axis]): the number of decimals is derived once
//     from the axis interval and shared by every tick of that axis, so a
//     0.2 interval prints 0, 0.2, 0.4 rather than mixing precisions.
//   - Magnitude-adaptive values ([Number]): used by every table and export,
//     the precision follows the size of the value and trailing zeros are
//     dropped.
//
// Percentages ([Percent]) always carry two decimals. Currency axes add
// thousands grouping for the Traditional Chinese locale after the decimal
// rule has been applied.
package format
