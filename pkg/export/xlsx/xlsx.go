// Package xlsx writes chart tables as spreadsheet workbooks.
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
)

const defaultSheet = "Sheet1"

// Column widths in characters.
const (
	labelColWidth = 16
	valueColWidth = 22
)

// Writer writes one worksheet per chart: the header row, an optional unit
// row and one row per category. The chart title is stored in the workbook
// properties so row 1 is always the header.
type Writer struct{}

// New returns a workbook writer.
func New() *Writer { return &Writer{} }

var _ export.WorkbookWriter = (*Writer)(nil)

// WriteWorkbook implements export.WorkbookWriter.
func (w *Writer) WriteWorkbook(ctx context.Context, out io.Writer, s *export.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := s.SheetName
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	styles, err := newStyles(f, s.Options.Theme)
	if err != nil {
		return err
	}

	t := s.Table
	ncols := len(t.Header)
	last := colName(ncols)
	row := 1

	if err := f.SetDocProps(&excelize.DocProperties{Title: t.Title}); err != nil {
		return fmt.Errorf("set workbook title: %w", err)
	}

	if err := writeRow(f, sheet, row, t.Header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, row), cell(ncols, row), styles.header); err != nil {
		return err
	}
	row++

	if s.SeparateUnits {
		if err := writeRow(f, sheet, row, t.Units); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(ncols, row), styles.unit); err != nil {
			return err
		}
		row++
	}

	first := row
	for _, r := range t.Rows {
		if err := writeRow(f, sheet, row, r.Texts(!s.SeparateUnits)); err != nil {
			return err
		}
		row++
	}
	if row > first {
		if err := f.SetCellStyle(sheet, cell(1, first), cell(ncols, row-1), styles.body); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", labelColWidth); err != nil {
		return err
	}
	if ncols > 1 {
		if err := f.SetColWidth(sheet, "B", last, valueColWidth); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type styleSet struct {
	header, unit, body int
}

func newStyles(f *excelize.File, th theme.Theme) (styleSet, error) {
	var s styleSet
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: th.Text},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{th.Header}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    []excelize.Border{{Type: "bottom", Color: th.Grid, Style: 1}},
	}); err != nil {
		return s, err
	}
	if s.unit, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true, Color: th.Text},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{th.Header}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.body, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    []excelize.Border{{Type: "bottom", Color: th.Grid, Style: 1}},
	}); err != nil {
		return s, err
	}
	return s, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return err
		}
	}
	return nil
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "A1"
	}
	return name
}

func colName(col int) string {
	if col < 1 {
		col = 1
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "A"
	}
	return name
}
