package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/pipeline"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
)

// exportFlags holds the flags of the export command.
type exportFlags struct {
	renderFlags
	formats       string
	output        string
	period        string
	exportType    string
	separateUnits bool
	noCache       bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export <dataset.json>",
		Short: "Export a chart and its table to xlsx, pdf, png or a printer",
		Long: `Render a dataset and export it in one or more formats.

Formats:
  xlsx    workbook holding the data table
  pdf     A4 document with the chart image and the table
  png     chart image at twice the configured size
  print   the pdf document sent to the system printer

Repeated exports of an unchanged chart are served from the artifact cache.`,
		Example: `  wastechart export monthly.json -f xlsx,png
  wastechart export monthly.json -f xlsx --period 2024-05 --export-type 比例
  wastechart export monthly.json -f pdf --theme dark -o reports/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.formats, "format", "f", "xlsx", "comma-separated formats: xlsx, pdf, png, print")
	cmd.Flags().StringVarP(&f.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&f.period, "period", "", "reporting month for the sheet name (YYYY-MM)")
	cmd.Flags().StringVar(&f.exportType, "export-type", "", "sheet name suffix used with --period")
	cmd.Flags().BoolVar(&f.separateUnits, "separate-units", false, "put units in their own row")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the artifact cache")
	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, path string, f exportFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := errs.ValidateOutputDir(f.output); err != nil {
		return err
	}
	formats, err := pipeline.ParseFormats(f.formats)
	if err != nil {
		return err
	}
	period, err := export.ParsePeriod(f.period)
	if err != nil {
		return err
	}
	req, err := c.renderRequest(path, f.renderFlags)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Exporting %s...", f.formats))
	exporter, err := newExporter(cfg, logger, export.WithStateHook(reportState(spinner)))
	if err != nil {
		return err
	}
	store := cache.NewNull()
	if !f.noCache {
		if store, err = newCache(ctx, cfg); err != nil {
			logger.Warn("artifact cache unavailable, continuing without it", "error", err)
			store = cache.NewNull()
		}
	}
	defer store.Close()

	runner := pipeline.NewRunner(cache.Instrument(store, "artifact"), nil, exporter, logger)
	runner.TTL = artifactTTL(cfg)

	exportType := f.exportType
	if exportType == "" {
		exportType = cfg.Export.SheetType
	}
	if err := os.MkdirAll(f.output, 0o755); err != nil {
		return err
	}

	sess := render.NewSession(logger)
	defer sess.Close(ctx)

	prog := newProgress(logger)
	spinner.Start()
	result, err := runner.Execute(ctx, sess, pipeline.Options{
		Render:        req,
		Formats:       formats,
		Theme:         req.Theme,
		Period:        period,
		ExportType:    exportType,
		SeparateUnits: f.separateUnits || cfg.Export.SeparateUnits,
	})
	if err != nil {
		spinner.StopWithError("Export failed")
		if result == nil {
			return err
		}
		// Keep what was produced before the failure.
		if werr := writeOutputs(f.output, result.Outputs); werr != nil {
			logger.Warn("write partial exports", "error", werr)
		}
		return err
	}
	spinner.Stop()

	if err := writeOutputs(f.output, result.Outputs); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Exported %s", result.Chart.Dataset.Title))
	return nil
}

// reportState shows each export state transition on the spinner.
func reportState(s *Spinner) func(export.Kind, export.State) {
	return func(kind export.Kind, state export.State) {
		s.Update(fmt.Sprintf("Exporting %s: %s...", kind, state))
	}
}

// writeOutputs saves every file artifact into dir and reports it.
func writeOutputs(dir string, outputs []pipeline.Output) error {
	for _, out := range outputs {
		art := out.Artifact
		switch {
		case art.Skipped:
			printWarning("%s skipped, another capture was running", art.Kind)
			continue
		case art.Kind == export.KindPrint:
			printSuccess("Sent to printer")
			continue
		}
		p := filepath.Join(dir, art.Filename)
		if err := os.WriteFile(p, art.Data, 0o644); err != nil {
			return err
		}
		printFile(p, out.Cached)
	}
	return nil
}
