package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "bodymetrics/internal/adapter/http"
	"bodymetrics/internal/adapter/sqldb"
	"bodymetrics/internal/app"
	"bodymetrics/internal/config"
	"bodymetrics/internal/fetch"
	"bodymetrics/internal/logging"
	"bodymetrics/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file (empty for env only)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] serve|report\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := "serve"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logCloser := logging.Setup(logging.Params{
		FilePath:   cfg.LogsPath,
		AlsoStdout: cfg.LogToStdout,
		Level:      cfg.LogLevel,
		JSON:       cfg.LogFormatJSON,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = serve(ctx, cfg)
	case "report":
		err = report(ctx, cfg, os.Stdin, os.Stdout)
	default:
		flag.Usage()
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if logCloser != nil {
		err = multierr.Append(err, logCloser.Close())
	}
	if err != nil {
		log.Errorf("%s: %s", cmd, err)
		os.Exit(1)
	}
}

type components struct {
	db       *sqldb.DB
	fetcher  *fetch.Fetcher
	metrics  *metrics.Manager
	registry *prometheus.Registry
}

func setup(ctx context.Context, cfg *config.Config, subsystem string) (*components, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mm := metrics.NewManager(cfg.MetricsNamespace, subsystem, reg)

	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return &components{
		db:       db,
		fetcher:  fetch.New(db, mm),
		metrics:  mm,
		registry: reg,
	}, nil
}

func serve(ctx context.Context, cfg *config.Config) (err error) {
	c, err := setup(ctx, cfg, "server")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, c.db.Close())
	}()

	svc := adapthttp.Services{
		Users:        app.NewUserService(c.db, c.metrics),
		Types:        app.NewMeasurementTypeService(c.db, c.db, c.metrics),
		Measurements: app.NewMeasurementService(c.db, c.db, c.db, c.metrics),
		Goals:        app.NewGoalService(c.db, c.metrics),
		Progress:     app.NewProgressService(c.fetcher, cfg.DashboardType),
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(svc, c.metrics, c.registry, cfg.WebDir).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-serveErr
}

func report(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (err error) {
	c, err := setup(ctx, cfg, "report")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, c.db.Close())
	}()
	return runReport(ctx, c.fetcher, c.metrics, in, out)
}
