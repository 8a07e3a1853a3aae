package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gather returns the value of every series as "name{label=value}".
func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			out[key] = value(mf.GetType(), m)
		}
	}
	return out
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	}
	return 0
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.BytesReceived(12)
	m.FrameDecoded("BARCODE")
	m.FrameDecoded("BARCODE")
	m.FrameDecoded("ACK")
	m.FramingError("checksum mismatch")
	m.CommandCompleted("ACK", false)
	m.CommandCompleted("TIMEOUT", true)
	m.BarcodeDelivered()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	got := gather(t, reg)
	assert.Equal(t, 12.0, got["opc_bytes_received_total"])
	assert.Equal(t, 2.0, got["opc_frames_decoded_total{kind=BARCODE}"])
	assert.Equal(t, 1.0, got["opc_frames_decoded_total{kind=ACK}"])
	assert.Equal(t, 1.0, got["opc_framing_errors_total{reason=checksum mismatch}"])
	assert.Equal(t, 1.0, got["opc_commands_total{result=TIMEOUT}"])
	assert.Equal(t, 1.0, got["opc_command_retransmits_total"])
	assert.Equal(t, 1.0, got["opc_barcodes_total"])
	assert.Equal(t, 1.0, got["opc_active_sessions"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BytesReceived(1)
		m.FrameDecoded("ACK")
		m.FramingError("x")
		m.CommandCompleted("ACK", true)
		m.BarcodeDelivered()
		m.SessionOpened()
		m.SessionClosed()
	})
}

func TestNewWithoutRegistry(t *testing.T) {
	m := New(nil)
	assert.NotPanics(t, func() { m.BarcodeDelivered() })
}
