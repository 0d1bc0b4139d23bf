package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/buildinfo"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/config"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render and export API over HTTP",
		Long: `Start the HTTP server. Variables from a .env file in the working
directory are loaded before the configuration is read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return err
			}
			c.cfg = nil // re-read with the .env overrides
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := serverLogger(loggerFromContext(ctx), cfg.Log)
			exporter, err := newExporter(cfg, logger)
			if err != nil {
				return err
			}
			store, err := newCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			logger.Info("starting "+appName, "version", buildinfo.String(), "cache", cfg.Cache.Backend)

			return server.New(cfg, exporter, store, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.EnvAddr+")")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	return cmd
}

// serverLogger returns base, or a copy that also writes to a rotated log
// file when one is configured. --verbose wins over the configured level.
func serverLogger(base *log.Logger, cfg config.Log) *log.Logger {
	level := base.GetLevel()
	if l, err := log.ParseLevel(cfg.Level); err == nil && level != log.DebugLevel {
		level = l
	}
	if cfg.File == "" {
		base.SetLevel(level)
		return base
	}
	w := io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	})
	return newLogger(w, level)
}
