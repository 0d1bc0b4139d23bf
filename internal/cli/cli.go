// Package cli implements the wastechart command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/buildinfo"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/config"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export/pdf"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export/printer"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export/raster"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export/xlsx"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/fonts"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "wastechart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Wastechart renders waste statistics as charts, tables and exports",
		Long:         `Wastechart draws waste-volume datasets as bar, line and pie charts with readable axes, builds the matching data table and exports both to xlsx, pdf, png or a printer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.scaleCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Shared helpers
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// newCache opens the artifact cache selected in cfg.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return cache.NewRedis(ctx, cache.RedisConfig{
			Addr:   cfg.Cache.RedisAddr,
			DB:     cfg.Cache.RedisDB,
			Prefix: appName + ":",
		})
	case config.CacheFile:
		return cache.NewFile(cfg.Cache.Dir)
	default:
		return cache.NewNull(), nil
	}
}

// newExporter wires every export capability available on this machine.
// The printer is only registered when its spooler command is installed.
func newExporter(cfg *config.Config, logger *log.Logger, opts ...export.Option) (*export.Coordinator, error) {
	font, err := fonts.Load(cfg.Export.Font)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	if font.Fallback() {
		logger.Warn("no CJK font found, exports may not show Chinese text", "hint", config.EnvFont)
	} else {
		logger.Debug("loaded font", "path", font.Path)
	}

	caps := export.Capabilities{
		Workbook: xlsx.New(),
		Document: pdf.New(font),
		Raster:   raster.New(font.Face),
	}
	if sp := printer.New(cfg.Export.PrintCommand, cfg.Export.PrintQueue); sp.Available() {
		caps.Printer = sp
	} else {
		logger.Debug("print spooler not found", "command", sp.Command)
	}

	opts = append([]export.Option{
		export.WithLogger(logger),
		export.WithScratchDir(cfg.Export.ScratchDir),
		export.WithRasterScale(cfg.Export.RasterScale),
		export.WithFontPath(font.Path),
	}, opts...)
	return export.New(caps, opts...)
}

// artifactTTL is the configured artifact lifetime, or cache.DefaultTTL
// when none is set.
func artifactTTL(cfg *config.Config) time.Duration {
	if ttl := cfg.Cache.TTL.Duration; ttl > 0 {
		return ttl
	}
	return cache.DefaultTTL
}

// renderFlags are the flags shared by commands that render a dataset.
type renderFlags struct {
	mode      string
	normalize bool
	fineGrid  bool
	theme     string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "y-axis mode (default: dataset y_axis, then metric_ton)")
	cmd.Flags().BoolVar(&f.normalize, "percentage-normalize", false, "recompute percentages from raw values")
	cmd.Flags().BoolVar(&f.fineGrid, "fine-grid", false, "use 10 ticks on percentage axes")
	cmd.Flags().StringVar(&f.theme, "theme", "", "colour theme (light, dark or a configured name)")
}

// renderRequest decodes the dataset at path into a render request using
// the configured chart defaults.
func (c *CLI) renderRequest(path string, f renderFlags) (render.Request, error) {
	cfg, err := c.config()
	if err != nil {
		return render.Request{}, err
	}
	th, err := cfg.Themes().Get(f.theme)
	if err != nil {
		return render.Request{}, err
	}
	ds, err := readDataset(path)
	if err != nil {
		return render.Request{}, err
	}
	return render.Request{
		Dataset:         ds,
		Mode:            f.mode,
		Normalize:       f.normalize,
		TickCount:       cfg.Chart.TickCount,
		FineGrid:        f.fineGrid || cfg.Chart.FineGrid,
		Target:          render.Target{Width: cfg.Chart.Width, Height: cfg.Chart.Height},
		Theme:           th,
		CategoryCaption: cfg.Chart.CategoryCaption,
	}, nil
}

// renderFile renders the dataset at path into a fresh session. The caller
// owns the session and must close it.
func (c *CLI) renderFile(ctx context.Context, path string, f renderFlags) (*render.Session, *render.Chart, error) {
	req, err := c.renderRequest(path, f)
	if err != nil {
		return nil, nil, err
	}
	sess := render.NewSession(loggerFromContext(ctx))
	chart, err := sess.Render(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return sess, chart, nil
}

// readDataset reads a dataset from path, or stdin when path is "-".
func readDataset(path string) (*dataset.Dataset, error) {
	if path == "-" {
		return dataset.Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.Decode(f)
}
