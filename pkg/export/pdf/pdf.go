// Package pdf writes charts and their tables as PDF documents.
package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/signintech/gopdf"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/fonts"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
)

// Layout in points on a landscape A4 page.
const (
	margin       = 36.0
	titleSize    = 18
	bodySize     = 10
	rowHeight    = 18.0
	maxImageFrac = 0.55 // of the page height
)

// Writer lays out one landscape A4 document per chart: the title, the
// captured chart image when there is one, then the table.
type Writer struct {
	font *fonts.Font
}

// New returns a document writer drawing text in font.
func New(font *fonts.Font) *Writer {
	return &Writer{font: font}
}

var _ export.DocumentWriter = (*Writer)(nil)

// WriteDocument implements export.DocumentWriter.
func (w *Writer) WriteDocument(ctx context.Context, out io.Writer, s *export.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.font == nil {
		return fmt.Errorf("no font loaded")
	}

	page := *gopdf.PageSizeA4Landscape
	doc := &document{pdf: &gopdf.GoPdf{}, page: page, theme: s.Options.Theme}
	doc.pdf.Start(gopdf.Config{PageSize: page})
	if err := doc.pdf.AddTTFFontData(fonts.Family, w.font.TTF); err != nil {
		return fmt.Errorf("embed font: %w", err)
	}
	doc.newPage()

	if err := doc.title(s.Title); err != nil {
		return err
	}
	if s.ChartImage != "" {
		if err := doc.image(s.ChartImage, s.Target.Width, s.Target.Height); err != nil {
			return err
		}
	}
	if err := doc.table(s.Table, s.SeparateUnits); err != nil {
		return err
	}

	if _, err := doc.pdf.WriteTo(out); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

type document struct {
	pdf   *gopdf.GoPdf
	page  gopdf.Rect
	theme theme.Theme
	y     float64
}

func (d *document) newPage() {
	d.pdf.AddPage()
	r, g, b := theme.RGB(d.theme.Background)
	d.pdf.SetFillColor(r, g, b)
	d.pdf.RectFromUpperLeftWithStyle(0, 0, d.page.W, d.page.H, "F")
	d.y = margin
}

func (d *document) textColor(hex string) {
	r, g, b := theme.RGB(hex)
	d.pdf.SetTextColor(r, g, b)
}

func (d *document) title(text string) error {
	if text == "" {
		return nil
	}
	if err := d.pdf.SetFont(fonts.Family, "", titleSize); err != nil {
		return err
	}
	d.textColor(d.theme.Text)
	d.pdf.SetX(margin)
	d.pdf.SetY(d.y)
	if err := d.pdf.Cell(nil, text); err != nil {
		return err
	}
	d.y += titleSize * 2
	return nil
}

func (d *document) image(path string, width, height int) error {
	w := d.page.W - 2*margin
	h := w
	if width > 0 {
		h = w * float64(height) / float64(width)
	}
	if maxH := d.page.H * maxImageFrac; h > maxH {
		w *= maxH / h
		h = maxH
	}
	x := (d.page.W - w) / 2
	if err := d.pdf.Image(path, x, d.y, &gopdf.Rect{W: w, H: h}); err != nil {
		return fmt.Errorf("place chart image: %w", err)
	}
	d.y += h + rowHeight
	return nil
}

func (d *document) table(t *table.Table, separateUnits bool) error {
	if t == nil || len(t.Header) == 0 {
		return nil
	}
	if err := d.pdf.SetFont(fonts.Family, "", bodySize); err != nil {
		return err
	}
	colW := (d.page.W - 2*margin) / float64(len(t.Header))

	header := func() error {
		if err := d.row(t.Header, colW, true); err != nil {
			return err
		}
		if separateUnits {
			return d.row(t.Units, colW, true)
		}
		return nil
	}
	if err := header(); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if d.y+rowHeight > d.page.H-margin {
			d.newPage()
			if err := d.pdf.SetFont(fonts.Family, "", bodySize); err != nil {
				return err
			}
			if err := header(); err != nil {
				return err
			}
		}
		if err := d.row(r.Texts(!separateUnits), colW, false); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) row(cells []string, colW float64, header bool) error {
	if header {
		r, g, b := theme.RGB(d.theme.Header)
		d.pdf.SetFillColor(r, g, b)
		d.pdf.RectFromUpperLeftWithStyle(margin, d.y, colW*float64(len(cells)), rowHeight, "F")
	}
	d.textColor(d.theme.Text)
	for i, text := range cells {
		d.pdf.SetX(margin + float64(i)*colW + 4)
		d.pdf.SetY(d.y + 4)
		if err := d.pdf.Cell(&gopdf.Rect{W: colW - 8, H: rowHeight - 4}, text); err != nil {
			return err
		}
	}
	r, g, b := theme.RGB(d.theme.Grid)
	d.pdf.SetStrokeColor(r, g, b)
	d.pdf.Line(margin, d.y+rowHeight, margin+colW*float64(len(cells)), d.y+rowHeight)
	d.y += rowHeight
	return nil
}
