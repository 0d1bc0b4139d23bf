package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/aggregate"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/format"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/page"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/scale"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

// =============================================================================
// render
// =============================================================================

func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "render <dataset.json>",
		Short: "Render a dataset as an interactive chart page",
		Long: `Render a dataset as an HTML page holding the chart and its data table.

With --json the computed chart options, table and axis are printed instead.
Use "-" to read the dataset from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, chart, err := c.renderFile(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			defer sess.Close(cmd.Context())

			if asJSON {
				return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
					return writeChartJSON(w, chart)
				})
			}
			if output == "" {
				output = "chart.html"
			}
			if err := writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return page.Write(w, chart.Options, chart.Table)
			}); err != nil {
				return err
			}
			if output != "-" {
				printSuccess("Rendered %s", chart.Dataset.Title)
				printFile(output, false)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default chart.html, or stdout with --json)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print chart options, table and axis as JSON")
	return cmd
}

// chartJSON is the machine-readable form of a rendered chart.
type chartJSON struct {
	Options *render.Options `json:"options"`
	Table   tableJSON       `json:"table"`
	Scale   *scale.Axis     `json:"scale,omitempty"`
}

type tableJSON struct {
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func writeChartJSON(w io.Writer, chart *render.Chart) error {
	out := chartJSON{
		Options: chart.Options,
		Table: tableJSON{
			Title:  chart.Table.Title,
			Header: chart.Table.Header,
			Rows:   make([][]string, len(chart.Table.Rows)),
		},
	}
	for i, r := range chart.Table.Rows {
		out.Table.Rows[i] = r.Texts(true)
	}
	if chart.HasAxis {
		axis := chart.Axis
		out.Scale = &axis
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// writeOutput runs write against stdout when path is "" or "-", otherwise
// against a newly created file.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// =============================================================================
// table
// =============================================================================

func (c *CLI) tableCommand() *cobra.Command {
	var (
		flags         renderFlags
		separateUnits bool
	)

	cmd := &cobra.Command{
		Use:   "table <dataset.json>",
		Short: "Print the data table of a dataset",
		Long: `Print the table that accompanies the chart, with every cell formatted
exactly as in exports, e.g. "33.33% (10 公噸)".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, chart, err := c.renderFile(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			defer sess.Close(cmd.Context())
			printTable(cmd.OutOrStdout(), chart.Table, separateUnits)
			printTotal(cmd.OutOrStdout(), chart)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&separateUnits, "separate-units", false, "print units in their own row")
	return cmd
}

// printTotal prints the sum of every value in the display unit. Nothing is
// printed when a series has no conversion into that unit.
func printTotal(w io.Writer, ch *render.Chart) {
	unit := ch.Mode.Unit
	for _, s := range ch.Dataset.Series {
		if !units.Compatible(s.Unit, unit) {
			return
		}
	}
	total := aggregate.GrandTotal(ch.Dataset.Series, unit)
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("Total: %s %s", format.Grouped(total), units.Label(unit))))
}

// =============================================================================
// scale
// =============================================================================

func (c *CLI) scaleCommand() *cobra.Command {
	var (
		ticks      int
		percentage bool
		fineGrid   bool
		currency   bool
	)

	cmd := &cobra.Command{
		Use:   "scale <max>",
		Short: "Compute the nice axis for a maximum value",
		Long: `Compute the y-axis interval, maximum and tick labels for data whose
largest value is <max>. With --percentage the axis is fixed at 0-100.`,
		Example: `  wastechart scale 87.3
  wastechart scale 12345 --ticks 10
  wastechart scale 0 --percentage --fine-grid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxValue, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errs.New(errs.ErrCodeInvalidInput, "invalid max value %q", args[0])
			}
			if ticks != 5 && ticks != 10 {
				return errs.New(errs.ErrCodeInvalidInput, "--ticks must be 5 or 10, got %d", ticks)
			}

			axis, kind := scale.Compute(maxValue, ticks), format.Plain
			if currency {
				kind = format.Currency
			}
			if percentage {
				axis, kind = scale.Percentage(fineGrid), format.Percentage
			}
			labels := format.NewAxis(axis.Interval, kind).Labels(axis.Ticks())
			printAxis(cmd.OutOrStdout(), axis, labels)
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", scale.DefaultTickCount, "ideal tick count (5 or 10)")
	cmd.Flags().BoolVar(&percentage, "percentage", false, "fixed 0-100 percentage axis")
	cmd.Flags().BoolVar(&fineGrid, "fine-grid", false, "10 ticks on the percentage axis")
	cmd.Flags().BoolVar(&currency, "currency", false, "format labels as currency")
	return cmd
}
