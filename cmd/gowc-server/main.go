package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-wc/api"
	"github.com/gcbaptista/go-wc/config"
	"github.com/gcbaptista/go-wc/internal/engine"
	"github.com/gcbaptista/go-wc/internal/jobs"
	"github.com/gcbaptista/go-wc/internal/logging"
	"github.com/gcbaptista/go-wc/internal/metrics"
)

const version = "1.0.0"

// newRouter wires the API onto a gin engine using the given registry for
// every collector.
func newRouter(opts *config.ServerOptions, log *zap.Logger, reg *prometheus.Registry,
	manager *jobs.Manager) *gin.Engine {

	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.RequestIDMiddleware(),
		api.LoggerMiddleware(log.Named("http"), metrics.NewHTTP(reg)),
		api.CORSMiddleware(),
		api.RequestSizeLimitMiddleware(opts.MaxBodyBytes),
	)

	eng := engine.New(
		engine.WithWorkers(opts.Workers),
		engine.WithLogger(log),
		engine.WithMetrics(metrics.New(reg)),
	)
	api.SetupRoutes(router, api.Dependencies{
		Analyzer:    eng,
		Jobs:        manager,
		Gatherer:    reg,
		DefaultTopK: opts.DefaultTopK,
		Logger:      log,
	})
	return router
}

func newRegistry(manager *jobs.Manager) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		manager.Collector(),
	)
	return reg
}

func realMain() error {
	opts := config.NewServerOptions()
	flags := pflag.NewFlagSet("gowc-server", pflag.ContinueOnError)
	opts.AddFlags(flags)
	showVersion := flags.Bool("version", false, "Show version information")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Printf("gowc-server v%s\n", version)
		return nil
	}
	opts.ApplyDefaults()
	if err := opts.Check(); err != nil {
		return err
	}

	log, err := logging.New(opts.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if !log.Core().Enabled(zap.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := jobs.NewManager(opts.Workers, opts.JobRetention, log)
	manager.Start()
	defer manager.Stop()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           newRouter(opts, log, newRegistry(manager), manager),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
		ErrorLog: zap.NewStdLog(log.Named("http.server").WithOptions(
			zap.AddStacktrace(zap.FatalLevel),
		)),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("signaled: stopping server")
		if err := srv.Shutdown(sctx); err != nil {
			log.Error("server: error during shutdown", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("addr", opts.Addr),
		zap.Int("workers", opts.Workers), zap.Int("default_top_k", opts.DefaultTopK))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "gowc-server: %v\n", err)
		os.Exit(1)
	}
}
