// Command opc-console is an interactive console for OPC scanners.
//
// It connects to scanners through a serial-over-TCP bridge (dial mode) or
// accepts bridges and simulators (listen mode), prints every scan and
// battery reading, and sends menu commands typed at the prompt.
//
// Usage:
//
//	opc-console [flags]
//
// Flags:
//
//	-config string     YAML configuration file
//	-mode string       Connection mode: dial, listen (default "dial")
//	-addr string       Address to dial or listen on (default "localhost:4001")
//	-device string     Device ID in dial mode (default "scanner")
//	-capture string    Write a protocol capture to this .olog file
//	-metrics string    Serve Prometheus metrics on this address
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Talk to a scanner behind a serial bridge
//	opc-console -addr 192.168.1.20:4001 -device cradle-1
//
//	# Accept simulators and capture the traffic
//	opc-console -mode listen -addr :4001 -capture session.olog
//
//	# Use a config file and expose metrics
//	opc-console -config console.yaml -metrics :9100
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/opticonnect/opc-go/pkg/log"
	"github.com/opticonnect/opc-go/pkg/metrics"
	"github.com/opticonnect/opc-go/pkg/session"
	"github.com/opticonnect/opc-go/pkg/transport"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, _ := parseLevel(cfg.LogLevel)
	loc, _ := cfg.location()

	var capture []log.Logger
	if cfg.Capture != "" {
		fl, err := log.NewFileLogger(cfg.Capture)
		if err != nil {
			return err
		}
		defer fl.Close()
		capture = append(capture, fl)
	}

	console, err := NewConsole(cfg)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(console.Stderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if cfg.CaptureLog {
		capture = append(capture, log.NewSlogAdapter(logger).WithLevel(slog.LevelDebug))
	}

	promReg := prometheus.NewRegistry()
	regCfg := session.Config{
		Logger:             logger,
		Metrics:            metrics.New(promReg),
		CommandTimeout:     cfg.Command.Timeout,
		RetryOnNak:         cfg.Command.RetryOnNak,
		Feedback:           feedbackDefaults(cfg.Command.Feedback),
		PersistDelay:       cfg.Command.PersistDelay,
		AcceptZeroChecksum: cfg.Decoder.AcceptZeroChecksum,
		ParsePrefix:        cfg.Decoder.ParsePrefix,
		MaxFrameSize:       cfg.Decoder.MaxFrameSize,
		Location:           loc,
	}
	if len(capture) > 0 {
		regCfg.ProtocolLogger = log.NewMultiLogger(capture...)
	}
	reg := session.NewRegistry(regCfg)
	defer reg.Close()
	console.Attach(reg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(serveLinks(ctx, cfg, console.Router(), logger))
	})

	if cfg.MetricsAddress != "" {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.MetricsAddress, promReg, logger)
		})
	}

	g.Go(func() error {
		console.Run(ctx)
		cancel()
		return nil
	})

	err = g.Wait()
	reg.Close()
	console.Wait()
	return err
}

// serveLinks dials or accepts scanner links until ctx is done.
func serveLinks(ctx context.Context, cfg Config, r transport.Router, logger *slog.Logger) error {
	if cfg.Mode == ModeDial {
		return transport.Run(ctx, transport.DialConfig{
			Address:  cfg.Address,
			DeviceID: cfg.DeviceID,
			Logger:   logger,
			OnStateChange: func(oldState, newState transport.LinkState) {
				logger.Info("link state changed", "from", oldState, "to", newState)
			},
		}, r)
	}

	srv, err := transport.NewServer(transport.ServerConfig{
		Address: cfg.Address,
		Router:  r,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}
	logger.Info("listening for scanners", "addr", srv.Addr().String())

	<-ctx.Done()
	return srv.Stop()
}

// serveMetrics serves /metrics for reg until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
