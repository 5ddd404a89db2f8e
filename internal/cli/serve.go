package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/engine"
	"github.com/dm/esaudit-go/internal/logging"
	"github.com/dm/esaudit-go/internal/metrics"
	"github.com/dm/esaudit-go/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Background poller behind an HTTP JSON facade",
	Long: `Poll the cluster continuously and expose the derived state over HTTP:
live dashboard and deep-dive documents, audit endpoints per finding family,
suggestions, Prometheus self-metrics on /metrics, and a /health probe.
Periodic snapshots are written to the snapshot directory.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logging.Setup(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		m := metrics.New(prometheus.DefaultRegisterer)
		store, err := buildStore(ctx, cfg, m, true)
		if err != nil {
			return err
		}

		poller := engine.NewPoller(store, cfg.PollInterval, cfg.Thresholds, m)
		srv := server.New(store, cfg.Thresholds, prometheus.DefaultGatherer)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return poller.Run(gctx)
		})
		g.Go(func() error {
			logrus.WithField("addr", cfg.HTTPListen).Info("http facade listening")
			if err := srv.Start(cfg.HTTPListen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logrus.Info("esaudit stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen", ":8844", "HTTP listen address.")
	serveCmd.Flags().String("snapshot-dir", "snapshots", "Directory for periodic snapshot files.")
	viper.BindPFlag("http.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("snapshots.dir", serveCmd.Flags().Lookup("snapshot-dir"))
}
