package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zostay/go-cef"
	"github.com/zostay/go-cef/field"
	"github.com/zostay/go-cef/internal/config"
	"github.com/zostay/go-cef/internal/metrics"
	"github.com/zostay/go-cef/sink"
)

// env is everything a subcommand needs after configuration is loaded.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	escaper *field.Escaper
	metrics *metrics.Collector
	sink    sink.Sink
	server  *http.Server
}

// loadEnv loads the configuration and builds the logger and the escaper that
// reports to it.
func loadEnv(opts *rootOptions) (*env, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		if err := config.ValidateLogLevel(opts.logLevel); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.Log.Level = opts.logLevel
	}

	logger := opts.logger
	if logger == nil {
		logger, err = initLogger(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		escaper: field.NewEscaper(field.WithLogger(logger)),
	}, nil
}

// setup is loadEnv plus the metrics collector, the configured sink writing to
// out, and the metrics listener if one is configured.
func setup(opts *rootOptions, out io.Writer) (*env, error) {
	e, err := loadEnv(opts)
	if err != nil {
		return nil, err
	}

	cfg, logger := e.cfg, e.logger

	reg := prometheus.NewRegistry()
	e.metrics = metrics.NewCollector(reg)

	switch cfg.Output {
	case config.OutputKafka:
		k, err := sink.NewKafka(cfg.Kafka, logger)
		if err != nil {
			return nil, err
		}
		e.sink = k
	default:
		e.sink = sink.NewWriter(nopCloser{out}, cfg.LineBreak(), logger)
	}

	if cfg.Metrics.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		e.server = &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("Starting metrics server", zap.String("address", cfg.Metrics.Address))
			if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	return e, nil
}

// eventOptions are applied to every event a subcommand builds.
func (e *env) eventOptions() []cef.Option {
	return []cef.Option{cef.WithEscaper(e.escaper)}
}

func (e *env) close() {
	if e.sink != nil {
		if err := e.sink.Close(); err != nil {
			e.logger.Warn("failed to close sink", zap.Error(err))
		}
	}

	if e.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.server.Shutdown(ctx)
	}

	_ = e.logger.Sync()
}

// nopCloser keeps the writer sink from closing stdout.
type nopCloser struct {
	io.Writer
}
