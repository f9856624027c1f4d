package main

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rentflow/rentflow/pkg/api"
	"github.com/rentflow/rentflow/pkg/keyvalue"
	"github.com/rentflow/rentflow/pkg/lease"
	"github.com/rentflow/rentflow/pkg/ledger"
	"github.com/rentflow/rentflow/pkg/libs/ntptime"
	"github.com/rentflow/rentflow/pkg/logging"
	"github.com/rentflow/rentflow/pkg/metrics"
	"github.com/rentflow/rentflow/pkg/settings"
)

const (
	defaultTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	fs := flag.NewFlagSet("leased", flag.ContinueOnError)
	s, err := settings.Load(fs, os.Args[1:], os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		return 2
	}
	logger, _, err := logging.Setup(s.Logging)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	if err := run(s, logger); err != nil {
		logger.Error("Failed to run lease service", logging.ErrorTrace(err))
		return 1
	}
	return 0
}

func run(s *settings.Settings, logger *zap.Logger) (retErr error) {
	program, err := s.Program()
	if err != nil {
		return err
	}
	kv, err := openStorage(s.Storage)
	if err != nil {
		return errors.Wrap(err, "failed to open storage")
	}
	defer func() {
		if clErr := kv.Close(); clErr != nil {
			retErr = stderrs.Join(retErr, errors.Wrap(clErr, "failed to close storage"))
		}
	}()

	eg, ctx := errgroup.WithContext(context.Background())
	defer func() {
		if wErr := eg.Wait(); wErr != nil && !errors.Is(wErr, context.Canceled) {
			retErr = stderrs.Join(retErr, wErr)
		}
	}()
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("RentFlow lease service",
		zap.String("program", s.ProgramID), zap.Bool("in_memory", s.Storage.InMemory))
	logger.Debug("Starting with settings", zap.Any("settings", s))

	if s.Metrics.PrometheusAddr != "" {
		eg.Go(func() error {
			<-runPrometheusMetricsServer(ctx, s.Metrics.PrometheusAddr, logger)
			return nil
		})
	}
	if s.Metrics.InfluxURL != "" {
		if err := metrics.Start(ctx, s.Metrics.NodeID, s.Metrics.InfluxURL); err != nil {
			logger.Warn("Metrics reporting failed to start", zap.Error(err))
			logger.Warn("Proceeding without reporting any metrics")
		} else {
			logger.Info("Metrics reporting activated")
		}
	}

	store := ledger.NewStore(program, kv, s.Storage.CacheSize, logger.Named(logging.LedgerNamespace))
	leases := lease.NewProgram(store, logger.Named(logging.LeaseNamespace))

	clock := ntptime.New(ctx, s.NTP.Server)
	eg.Go(func() error {
		clock.Run(ctx, s.NTP.Interval)
		return nil
	})

	a := api.NewLeaseApi(leases, clock, logger.Named(logging.APINamespace))
	eg.Go(func() error {
		if err := api.Run(ctx, s.API.Addr, a, apiRunOptions(s.API)); err != nil {
			return errors.Wrap(err, "failed to run API")
		}
		return nil
	})

	<-ctx.Done()
	logger.Info("User termination in progress...")
	return nil
}

func openStorage(s settings.StorageSettings) (*keyvalue.KeyVal, error) {
	params := keyvalue.BloomFilterParams{
		N:                        s.BloomFilterCapacity,
		FalsePositiveProbability: s.BloomFilterFalsePositive,
		Disable:                  s.BloomFilterCapacity == 0,
	}
	if s.InMemory {
		return keyvalue.NewMemKeyVal(params)
	}
	if err := os.MkdirAll(s.Path, 0750); err != nil {
		return nil, err
	}
	return keyvalue.NewKeyVal(s.Path, params, s.Sync)
}

func apiRunOptions(s settings.APISettings) *api.RunOptions {
	opts := api.DefaultRunOptions()
	opts.LogHttpRequestOpts = true
	opts.MaxBodySize = s.MaxBodySize
	opts.MaxClockSkew = s.MaxClockSkew
	opts.MaxConnections = s.MaxConnections
	if s.RateLimit == 0 {
		opts.RateLimiterOpts = nil
	} else {
		opts.RateLimiterOpts.MaxRequestsPerSecond = s.RateLimit
		opts.RateLimiterOpts.MaxBurst = s.RateBurst
	}
	return opts
}

func runPrometheusMetricsServer(ctx context.Context, prometheusAddr string, logger *zap.Logger) <-chan struct{} {
	h := http.NewServeMux()
	h.Handle("/metrics", promhttp.Handler())
	s := &http.Server{
		Addr:              prometheusAddr,
		Handler:           h,
		ReadHeaderTimeout: defaultTimeout,
		ReadTimeout:       defaultTimeout,
		ErrorLog:          zap.NewStdLog(logger),
	}
	s.RegisterOnShutdown(func() {
		logger.Info("Prometheus metrics server is shutting down...")
	})
	go func() {
		logger.Info("Starting prometheus metrics server", zap.String("address", prometheusAddr))
		err := s.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start prometheus metrics server", zap.Error(err))
		}
	}()
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown prometheus", zap.Error(err))
		}
	}()
	return done
}
