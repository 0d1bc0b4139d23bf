// Package export turns the current chart into files: a spreadsheet
// workbook, a PDF document, a PNG snapshot, or a printed page.
//
// # Pipeline
//
// Every export runs the same one-shot pipeline and is never retried:
//
//  1. validating: the capability, the render target and the dataset are
//     checked before anything else happens
//  2. building: a themed copy of the chart options is taken, so the live
//     chart is never modified
//  3. delegating: the copy and the canonical table are handed to the
//     writer
//  4. cleaning-up: scratch files are removed whether the export succeeded
//     or failed
//
// Writers are injected as [Capabilities] when the [Coordinator] is built.
// A missing writer surfaces as MISSING_CAPABILITY ("export unavailable"),
// a missing chart as MISSING_RENDER_TARGET ("nothing to export").
//
// # Raster exports
//
// Only one PNG capture runs at a time. A request that arrives while a
// capture is in flight returns an [Artifact] with Skipped set and no error.
//
// # Naming
//
// [Filename] and [SheetName] build file and worksheet names that are safe
// for every target platform.
package export
