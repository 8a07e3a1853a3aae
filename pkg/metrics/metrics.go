// Package metrics exposes Prometheus counters for OPC sessions.
//
// All methods are safe on a nil *Metrics, so callers that do not export
// metrics pass nil instead of branching.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "opc"

// Metrics holds the collectors of one registry.
type Metrics struct {
	bytesReceived prometheus.Counter
	framesDecoded *prometheus.CounterVec
	framingErrors *prometheus.CounterVec
	commands      *prometheus.CounterVec
	retransmits   prometheus.Counter
	barcodes      prometheus.Counter
	sessions      prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Raw bytes routed from scanners.",
		}),
		framesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_decoded_total",
			Help:      "Frames that passed the checksum, by kind.",
		}, []string{"kind"}),
		framingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "framing_errors_total",
			Help:      "Frames dropped by the decoder, by reason.",
		}, []string{"reason"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Completed menu commands, by result.",
		}, []string{"result"}),
		retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_retransmits_total",
			Help:      "Commands that were sent a second time.",
		}),
		barcodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barcodes_total",
			Help:      "Barcodes delivered to consumers.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Device sessions currently open.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.bytesReceived,
			m.framesDecoded,
			m.framingErrors,
			m.commands,
			m.retransmits,
			m.barcodes,
			m.sessions,
		)
	}
	return m
}

// BytesReceived counts n routed bytes.
func (m *Metrics) BytesReceived(n int) {
	if m == nil {
		return
	}
	m.bytesReceived.Add(float64(n))
}

// FrameDecoded counts a frame of the given kind.
func (m *Metrics) FrameDecoded(kind string) {
	if m == nil {
		return
	}
	m.framesDecoded.WithLabelValues(kind).Inc()
}

// FramingError counts a dropped frame.
func (m *Metrics) FramingError(reason string) {
	if m == nil {
		return
	}
	m.framingErrors.WithLabelValues(reason).Inc()
}

// CommandCompleted counts a command result.
func (m *Metrics) CommandCompleted(result string, retried bool) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(result).Inc()
	if retried {
		m.retransmits.Inc()
	}
}

// BarcodeDelivered counts a delivered scan.
func (m *Metrics) BarcodeDelivered() {
	if m == nil {
		return
	}
	m.barcodes.Inc()
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}
