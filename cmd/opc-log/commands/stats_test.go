package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/opticonnect/opc-go/pkg/log"
)

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, []log.Event{
		{Timestamp: ts, Layer: log.LayerLink},
		{Timestamp: ts, Layer: log.LayerFrame},
		{Timestamp: ts, Layer: log.LayerCommand},
		{Timestamp: ts, Layer: log.LayerSession},
	})

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Total Events: 4", "LINK:", "FRAME:", "COMMAND:", "SESSION:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestStatsCountsCommandsAndBarcodes(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, []log.Event{
		{Timestamp: ts, ConnectionID: "conn-aaaa-bbbb", DeviceID: "dev-1", Layer: log.LayerCommand,
			Command: &log.CommandEvent{Code: "Z2", Result: log.CommandAcked}},
		{Timestamp: ts, ConnectionID: "conn-aaaa-bbbb", DeviceID: "dev-1", Layer: log.LayerCommand,
			Command: &log.CommandEvent{Code: "R8", Result: log.CommandTimedOut}},
		{Timestamp: ts.Add(time.Second), ConnectionID: "conn-aaaa-bbbb", DeviceID: "dev-1", Layer: log.LayerSession,
			Barcode: &log.BarcodeEvent{Text: "1"}},
		{Timestamp: ts.Add(2 * time.Second), ConnectionID: "conn-cccc-dddd", Category: log.CategoryError,
			Error: &log.ErrorEventData{Message: "checksum mismatch"}},
	})

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Events by Kind:",
		"Command:",
		"Command Results:",
		"ACK:",
		"TIMEOUT:",
		"Barcodes: 1",
		"Connections: 2",
		"[conn-aaa]",
		"Device: dev-1",
		"Barcodes: 1  Commands: 2",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestStatsEmptyCapture(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero total, got: %s", buf.String())
	}
}
