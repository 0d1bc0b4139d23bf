// Package pkg provides the libraries behind wastechart, which turns waste
// statistics into charts, data tables and exported documents.
//
// # Overview
//
// A dataset (series of waste volumes or costs per category, usually months)
// is drawn against a y-axis mode such as metric tons, kilograms, New Taiwan
// dollars or a percentage share. Everything the user sees, the chart, the
// table under it and every exported file, is derived from the same
// aggregated values so the numbers always agree.
//
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [units], [aggregate], [scale], [format], [table]
//  2. Presentation and export: [render], [theme], [page], [export], [fonts]
//  3. Infrastructure: [config], [cache], [session], [pipeline], [server],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	dataset JSON
//	     ↓
//	[dataset] decode and validate
//	     ↓
//	[units] + [aggregate] convert into the display unit, compute totals
//	     ↓
//	[scale] + [format] nice axis range, tick labels
//	     ↓
//	[render] chart options and [table] rows for one chart instance
//	     ↓
//	[export] xlsx, pdf, png or a printer
//
// [pipeline] runs the render and export steps with an artifact [cache] in
// front of the exporters. The CLI and the HTTP [server] both go through it.
//
// # Quick Start
//
//	ds, err := dataset.Decode(r)
//	if err != nil {
//	    return err
//	}
//
//	sess := render.NewSession(logger)
//	defer sess.Close(ctx)
//
//	chart, err := sess.Render(ctx, render.Request{
//	    Dataset:   ds,
//	    Mode:      "metric_ton_percentage",
//	    TickCount: 5,
//	})
//	if err != nil {
//	    return err
//	}
//
//	coord, err := export.New(export.Capabilities{Workbook: xlsx.New()})
//	if err != nil {
//	    return err
//	}
//	art, err := coord.Export(ctx, export.KindWorkbook, export.Request{Chart: chart})
//
// # Numbers
//
// Table values use magnitude-adaptive precision ([format.Number]) and
// percentages always carry two decimals ([format.Percent]). Axis labels
// round every tick to the precision of the tick interval ([format.Decimals]).
package pkg
