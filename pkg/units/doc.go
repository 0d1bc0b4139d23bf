// Package units converts measurement values between the units a waste
// report can be expressed in.
//
// # Units
//
// Three units are supported:
//
//   - [MetricTon]: mass, displayed as 公噸
//   - [Kilogram]: mass, displayed as 公斤
//   - [NewTaiwanDollar]: currency, displayed as 新台幣
//
// Mass units convert into each other with a factor of 1000. Currency has no
// conversion partner.
//
// # Conversion
//
// [Convert] is pure and total: converting into the same unit is the
// identity, and a pair without a defined conversion returns the value
// unchanged. Callers that need to know whether a pair is meaningful use
// [Compatible] or [ConvertStrict]; the aggregation and table code logs such
// pairs rather than failing the render.
//
//	kg := units.Convert(2.5, units.MetricTon, units.Kilogram) // 2500
//
// # Y-axis modes
//
// A report request names its y-axis with a [Mode] such as
// "weight_percentage_metric_ton". [ParseMode] resolves a mode into the
// display unit and whether values are shown as percentages of the category
// total.
package units
