// Package render turns a dataset into the chart options every output is
// drawn from, and owns the "current chart" of a viewer.
//
// # Options
//
// [Build] runs the whole chain once per render request: unit conversion,
// aggregation, axis scaling, label formatting and the canonical table. The
// resulting [Options] is immutable. Exporters never touch it directly; they
// take a themed copy with [Options.WithTheme]:
//
//	chart, err := render.Build(render.Request{Dataset: ds, Mode: "metric_ton"})
//	dark := chart.Options.WithTheme(theme.Dark) // chart.Options is untouched
//
// The value axis always starts at 0 and uses the maximum and tick count
// computed by the scale package. Axis labels, data labels and tooltips are
// formatted up front so JSON consumers and Go renderers print the same
// text.
//
// # Sessions
//
// A [Session] holds at most one current [Chart]. Rendering a new chart
// first releases the previous one (running every hook registered with
// [Chart.OnRelease]) and only publishes the new chart once it is fully
// built, so [Session.Current] never returns a half-built or half-released
// chart.
package render
