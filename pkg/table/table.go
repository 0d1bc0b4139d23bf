package table

import (
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/format"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

// DefaultCategoryCaption heads the label column.
const DefaultCategoryCaption = "類別"

// Options controls how a dataset is tabulated.
type Options struct {
	Target          units.Unit // display unit
	PercentageMode  bool       // cells carry Series.Data as their percentage
	PieOrDonut      bool       // cells carry their share of GrandTotal
	GrandTotal      float64    // sum of all converted raw values, pie/donut only
	CategoryCaption string     // header of the label column
}

// Cell is one formatted value.
type Cell struct {
	Value        float64    // converted raw value
	DisplayValue string     // Value formatted with format.Number
	Percentage   *string    // two-decimal share, when shown
	Unit         units.Unit // display unit
}

// UnitLabel returns the display label of the cell's unit.
func (c Cell) UnitLabel() string { return units.Label(c.Unit) }

// Text is the cell as shown everywhere a unit is printed next to the value.
func (c Cell) Text() string {
	if c.Percentage != nil {
		return *c.Percentage + "% (" + c.DisplayValue + " " + c.UnitLabel() + ")"
	}
	return c.DisplayValue + " " + c.UnitLabel()
}

// ValueText is Text without the unit label, for layouts that print units
// in a separate header row.
func (c Cell) ValueText() string {
	if c.Percentage != nil {
		return *c.Percentage + "% (" + c.DisplayValue + ")"
	}
	return c.DisplayValue
}

// Row is one category with a cell per series.
type Row struct {
	Label string
	Cells []Cell
}

// Texts returns the row's cell texts, prefixed by its label.
func (r Row) Texts(withUnits bool) []string {
	out := make([]string, 0, len(r.Cells)+1)
	out = append(out, r.Label)
	for _, c := range r.Cells {
		if withUnits {
			out = append(out, c.Text())
		} else {
			out = append(out, c.ValueText())
		}
	}
	return out
}

// Table is a titled header plus rows.
type Table struct {
	Title  string
	Header []string // label caption followed by series names
	Units  []string // empty caption followed by each column's unit label
	Rows   []Row
}

// Generate returns one row per category label with one cell per series.
func Generate(ds *dataset.Dataset, opts Options) []Row {
	if ds.Empty() {
		return nil
	}
	rows := make([]Row, len(ds.XAxisLabels))
	for idx, label := range ds.XAxisLabels {
		cells := make([]Cell, len(ds.Series))
		for si, s := range ds.Series {
			cells[si] = cell(s, idx, opts)
		}
		rows[idx] = Row{Label: label, Cells: cells}
	}
	return rows
}

func cell(s dataset.Series, idx int, opts Options) Cell {
	value := units.Convert(s.Raw(idx), s.Unit, opts.Target)
	c := Cell{
		Value:        value,
		DisplayValue: format.Number(value),
		Unit:         opts.Target,
	}
	switch {
	case opts.PieOrDonut:
		if opts.GrandTotal > 0 {
			p := format.Percent(value / opts.GrandTotal * 100)
			c.Percentage = &p
		}
	case opts.PercentageMode:
		p := format.Percent(s.Plotted(idx))
		c.Percentage = &p
	}
	return c
}

// Header returns the label caption followed by the series names.
func Header(ds *dataset.Dataset, caption string) []string {
	if caption == "" {
		caption = DefaultCategoryCaption
	}
	out := make([]string, 0, len(ds.Series)+1)
	out = append(out, caption)
	for _, s := range ds.Series {
		out = append(out, s.Name)
	}
	return out
}

// Build assembles the full table for ds.
func Build(ds *dataset.Dataset, opts Options) *Table {
	t := &Table{
		Title:  ds.Title,
		Header: Header(ds, opts.CategoryCaption),
		Rows:   Generate(ds, opts),
	}
	t.Units = make([]string, len(t.Header))
	for i := 1; i < len(t.Units); i++ {
		t.Units[i] = units.Label(opts.Target)
	}
	return t
}
