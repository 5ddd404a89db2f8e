package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/model"
)

// SnapshotSource is the read side of the snapshot store. *engine.Store
// satisfies it; handlers never trigger refreshes themselves.
type SnapshotSource interface {
	Current() *model.Snapshot
	Pair() (current, previous *model.Snapshot)
}

// Server is the HTTP façade over the audit engine. Every route reads the
// latest snapshot; the refresh loop runs elsewhere.
type Server struct {
	echo  *echo.Echo
	store SnapshotSource
	th    config.Thresholds
}

// New builds the façade with its middleware and routes. gatherer backs the
// /metrics endpoint and may be prometheus.DefaultGatherer.
func New(store SnapshotSource, th config.Thresholds, gatherer prometheus.Gatherer) *Server {
	s := &Server{store: store, th: th}

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"id":         v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
			}
			logrus.WithFields(fields).Info("request")
			return nil
		},
	}))

	e.GET("/health", s.getHealth)

	e.GET("/api/v1/live/dashboard", s.getDashboard)
	e.GET("/api/v1/live/deep-dive", s.getDeepDive)
	e.GET("/api/v1/live/shard-distribution", s.getShardDistribution)

	e.GET("/api/v1/audit/node-load-correlation", s.getNodeLoadCorrelation)
	e.GET("/api/v1/audit/shard-imbalance", s.getShardImbalance)
	e.GET("/api/v1/audit/shard-toxicity", s.getShardToxicity)
	e.GET("/api/v1/audit/slow-tasks", s.getSlowTasks)
	e.GET("/api/v1/audit/causality-chain", s.getCausalityChain)
	e.GET("/api/v1/audit/index-templates", s.getIndexTemplates)
	e.GET("/api/v1/audit/mapping-explosion", s.getMappingExplosion)
	e.GET("/api/v1/audit/dusty-shards", s.getDustyShards)
	e.GET("/api/v1/audit/configuration-drift", s.getConfigurationDrift)

	e.GET("/api/v1/report/suggestions", s.getSuggestions)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	s.echo = e
	return s
}

// Start serves on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
