package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gossipgrid/internal/config"
	"gossipgrid/internal/node"
	"gossipgrid/internal/sink"
	"gossipgrid/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		port        uint16
		period      uint
		connect     string
		metricsAddr string
		logLevel    string
	)
	pflag.Uint16Var(&port, "port", 0, "port to listen on (required)")
	pflag.UintVar(&period, "period", 0, "gossip period in seconds (required)")
	pflag.StringVar(&connect, "connect", "", "address of an existing node to join through")
	pflag.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	pflag.StringVar(&logLevel, "log-level", "info", "log verbosity (debug, info, warn, error)")
	pflag.Parse()

	lvl, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", logLevel, err)
		return 1
	}
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		return 1
	}
	defer log.Sync()

	if port == 0 {
		log.Error("--port is required")
		pflag.Usage()
		return 1
	}
	if period == 0 {
		log.Error("--period is required")
		pflag.Usage()
		return 1
	}

	cfg := config.Config{
		Port:        port,
		Period:      time.Duration(period) * time.Second,
		Connect:     connect,
		MetricsAddr: metricsAddr,
	}

	n, err := node.New(cfg, sink.NewConsole(log), log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.MetricsHandler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	log.Info("node listening", zap.String("addr", n.Addr()))
	n.Run(ctx)
	log.Info("shutdown complete")
	return 0
}
