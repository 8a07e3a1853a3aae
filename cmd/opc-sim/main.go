// Command opc-sim simulates an OPC scanner behind a serial-over-TCP bridge.
//
// The simulator answers menu commands according to a YAML script and sends
// scripted or generated barcode scans. It either listens for hosts
// (opc-console in dial mode) or dials a listening host.
//
// Usage:
//
//	opc-sim [flags]
//
// Flags:
//
//	-listen string     Address to accept hosts on (default ":4001")
//	-dial string       Dial this host address instead of listening
//	-script string     YAML scan script
//	-interval duration Send a generated scan this often when the script has none
//	-zero-crc          Send 0x0000 checksums like older firmware
//	-metrics string    Serve Prometheus metrics on this address
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Scan every two seconds for a console that dials in
//	opc-sim -listen :4001 -interval 2s
//
//	# Replay a script against a listening console
//	opc-sim -dial localhost:4001 -script scans.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opticonnect/opc-go/pkg/transport"
)

func main() {
	listenAddr := flag.String("listen", ":4001", "Address to accept hosts on")
	dialAddr := flag.String("dial", "", "Dial this host address instead of listening")
	scriptPath := flag.String("script", "", "YAML scan script")
	interval := flag.Duration("interval", 0, "Send a generated scan this often when the script has none")
	zeroCRC := flag.Bool("zero-crc", false, "Send 0x0000 checksums like older firmware")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level: %s\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	script := &Script{}
	if *scriptPath != "" {
		var err error
		if script, err = LoadScript(*scriptPath); err != nil {
			logger.Error("failed to load script", "error", err)
			os.Exit(1)
		}
	}

	promReg := prometheus.NewRegistry()
	cfg := ScannerConfig{
		Script:   script,
		Interval: *interval,
		Logger:   logger,
		Metrics:  newSimMetrics(promReg),
	}
	if *zeroCRC {
		cfg.Checksum = func([]byte) uint16 { return 0 }
	}
	scanner := NewScanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		go serveMetrics(ctx, *metricsAddr, promReg, logger)
	}

	var err error
	if *dialAddr != "" {
		err = dial(ctx, *dialAddr, scanner, logger)
	} else {
		err = listen(ctx, *listenAddr, scanner, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulator stopped", "error", err)
		os.Exit(1)
	}
}

// listen serves every host that connects until ctx is done.
func listen(ctx context.Context, addr string, scanner *Scanner, logger *slog.Logger) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("scanner listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveConn(ctx, conn, scanner, logger)
		}()
	}
}

// dial connects to a listening host and reconnects with backoff.
func dial(ctx context.Context, addr string, scanner *Scanner, logger *slog.Logger) error {
	backoff := transport.NewBackoff(transport.BackoffConfig{})
	dialer := &net.Dialer{Timeout: transport.DefaultDialTimeout}

	for {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			backoff.Reset()
			serveConn(ctx, conn, scanner, logger)
		} else {
			logger.Warn("dial failed", "addr", addr, "error", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := wait(ctx, backoff.Next()); err != nil {
			return err
		}
	}
}

func serveConn(ctx context.Context, conn net.Conn, scanner *Scanner, logger *slog.Logger) {
	remote := conn.RemoteAddr().String()
	logger.Info("host connected", "remote", remote)
	if err := scanner.Serve(ctx, conn); err != nil {
		logger.Warn("connection failed", "remote", remote, "error", err)
	}
	logger.Info("host disconnected", "remote", remote)
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
