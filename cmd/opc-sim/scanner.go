package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/opticonnect/opc-go/pkg/symbology"
	"github.com/opticonnect/opc-go/pkg/wire"
)

// errHostGone ends a connection's goroutines once the host hangs up.
var errHostGone = errors.New("host disconnected")

// Answers recorded by simMetrics.
const (
	answerAck    = "ack"
	answerNak    = "nak"
	answerSilent = "silent"
)

// simMetrics counts the simulator's traffic.
type simMetrics struct {
	commands *prometheus.CounterVec
	scans    prometheus.Counter
}

func newSimMetrics(reg prometheus.Registerer) *simMetrics {
	m := &simMetrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opc_sim",
			Name:      "commands_received_total",
			Help:      "Menu commands received, by answer.",
		}, []string{"answer"}),
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "opc_sim",
			Name:      "scans_sent_total",
			Help:      "Barcode frames sent.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.commands, m.scans)
	}
	return m
}

// ScannerConfig configures a simulated scanner.
type ScannerConfig struct {
	Script *Script

	// Interval sends a generated scan this often when the script has no
	// scans. Zero disables it.
	Interval time.Duration

	// Checksum seals outgoing frames. Defaults to wire.CRC16.
	Checksum wire.ChecksumFunc

	Logger  *slog.Logger
	Metrics *simMetrics
}

// Scanner emulates the OPC side of one scanner.
type Scanner struct {
	cfg    ScannerConfig
	logger *slog.Logger
	enc    *wire.Encoder
}

// NewScanner returns a scanner for cfg.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.Script == nil {
		cfg.Script = &Script{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = newSimMetrics(nil)
	}
	return &Scanner{
		cfg:    cfg,
		logger: cfg.Logger,
		enc:    wire.NewEncoder(cfg.Checksum),
	}
}

// lockedWriter serializes answers and scans on one connection.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Serve answers commands and sends scans on conn until the host hangs up
// or ctx is done. It closes conn.
func (s *Scanner) Serve(ctx context.Context, conn io.ReadWriteCloser) error {
	g, ctx := errgroup.WithContext(ctx)
	w := &lockedWriter{w: conn}

	g.Go(func() error { return s.answer(conn, w) })
	g.Go(func() error { return s.emit(ctx, w) })
	g.Go(func() error {
		<-ctx.Done()
		return conn.Close()
	})

	err := g.Wait()
	if errors.Is(err, errHostGone) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// answer decodes command frames from r and writes the scripted answers.
func (s *Scanner) answer(r io.Reader, w io.Writer) error {
	dec := wire.NewDecoder(wire.DecoderConfig{
		OnError: func(fe *wire.FramingError) {
			s.logger.Warn("dropped frame from host", "error", fe)
		},
	})

	buf := make([]byte, 512)
	for {
		n, err := r.Read(buf)
		for _, f := range dec.Feed(buf[:n]) {
			if f.Kind != wire.FrameCommand {
				continue
			}
			if werr := s.reply(w, string(f.Payload)); werr != nil {
				return werr
			}
		}
		if err != nil {
			return errHostGone
		}
	}
}

// reply answers one command according to the script.
func (s *Scanner) reply(w io.Writer, text string) error {
	rule := s.cfg.Script.Rule(text)
	if rule.Delay > 0 {
		time.Sleep(rule.Delay)
	}

	switch {
	case rule.Silent:
		s.cfg.Metrics.commands.WithLabelValues(answerSilent).Inc()
		s.logger.Info("ignoring command", "command", text)
		return nil
	case rule.Nak:
		s.cfg.Metrics.commands.WithLabelValues(answerNak).Inc()
		s.logger.Info("rejecting command", "command", text)
		return s.write(w, s.enc.EncodeResponse([]byte{wire.NAK}))
	}

	s.cfg.Metrics.commands.WithLabelValues(answerAck).Inc()
	s.logger.Info("acknowledging command", "command", text)
	if rule.Reply != "" {
		if err := s.write(w, s.enc.EncodeResponse([]byte(rule.Reply))); err != nil {
			return err
		}
	}
	return s.write(w, s.enc.EncodeResponse([]byte{wire.ACK}))
}

// emit sends the scripted scans, or generated ones every Interval.
func (s *Scanner) emit(ctx context.Context, w io.Writer) error {
	steps := s.cfg.Script.Scans
	if len(steps) == 0 {
		return s.emitGenerated(ctx, w)
	}

	for {
		for _, step := range steps {
			if err := wait(ctx, step.After); err != nil {
				return err
			}
			scan := wire.Scan{Data: []byte(step.Data), CodeID: step.CodeID, Quantity: step.Quantity}
			if step.Timestamp {
				scan.ScannedAt = time.Now()
			}
			if err := s.sendScan(w, scan); err != nil {
				return err
			}
		}
		if !s.cfg.Script.Repeat {
			return nil
		}
	}
}

// generatedCodeID is the code ID of generated scans.
const generatedCodeID = 0x0E

func (s *Scanner) emitGenerated(ctx context.Context, w io.Writer) error {
	if s.cfg.Interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		scan := wire.Scan{Data: fmt.Appendf(nil, "SIM%06d", n), CodeID: generatedCodeID}
		if err := s.sendScan(w, scan); err != nil {
			return err
		}
	}
}

func (s *Scanner) sendScan(w io.Writer, scan wire.Scan) error {
	if err := s.write(w, s.enc.EncodeBarcode(scan)); err != nil {
		return err
	}
	s.cfg.Metrics.scans.Inc()
	s.logger.Info("sent scan", "data", string(scan.Data), "symbology", symbology.ByCodeID(scan.CodeID).String())
	return nil
}

func (s *Scanner) write(w io.Writer, frame []byte) error {
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write to host: %w", err)
	}
	return nil
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
