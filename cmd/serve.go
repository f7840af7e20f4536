package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/titulos-converter/internal/api"
	"github.com/insightdelivered/titulos-converter/internal/assembler"
	"github.com/insightdelivered/titulos-converter/internal/config"
	"github.com/insightdelivered/titulos-converter/internal/extractor"
	"github.com/insightdelivered/titulos-converter/internal/metrics"
	"github.com/insightdelivered/titulos-converter/internal/version"
)

var serveHost string
var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser over HTTP",
	Long: `Start the HTTP API. POST a report to /api/parse-titulos as multipart field
"file"; GET /api/health and /metrics are also served.

Settings come from TITULOS_* environment variables or a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveHost != "" {
			cfg.Server.Host = serveHost
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		logger, err := newLogger(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		defer logger.Sync()

		collector := assembler.New(extractor.New(logger), logger)
		collector.Workers = cfg.Parser.Workers

		h := &api.Handler{Collector: collector, Logger: logger}
		if cfg.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			collector.Metrics = metrics.New(reg)
			h.Gatherer = reg
		}

		app := api.NewApp(h, cfg.Server.MaxUploadMB)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening",
				zap.String("addr", cfg.Server.Addr()),
				zap.String("version", version.Version),
				zap.Bool("metrics", cfg.Metrics.Enabled),
			)
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default TITULOS_HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default TITULOS_PORT)")

	rootCmd.AddCommand(serveCmd)
}
