package commands

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opticonnect/opc-go/pkg/log"
)

func exportEvents() []log.Event {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	return []log.Event{
		{Timestamp: ts, ConnectionID: "conn-1", DeviceID: "dev-1", Layer: log.LayerLink,
			Chunk: &log.ChunkEvent{Size: 2, Data: []byte{0x10, 0x02}}},
		{Timestamp: ts.Add(time.Millisecond), ConnectionID: "conn-1", DeviceID: "dev-1",
			Direction: log.DirectionOut, Layer: log.LayerCommand,
			Command: &log.CommandEvent{Code: "Z2", Result: log.CommandAcked}},
		{Timestamp: ts.Add(2 * time.Millisecond), ConnectionID: "conn-1", DeviceID: "dev-1", Layer: log.LayerSession,
			Barcode: &log.BarcodeEvent{Text: "12345", Quantity: 1}},
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestLogFile(t, exportEvents())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("line %d is not JSON: %v", lines, err)
		}
		if m["ConnectionID"] != "conn-1" {
			t.Errorf("line %d ConnectionID = %v", lines, m["ConnectionID"])
		}
		lines++
	}
	if lines != 3 {
		t.Errorf("got %d lines, want 3", lines)
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestLogFile(t, exportEvents())
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4 (header + 3)", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", records[0])
	}

	wantTypes := []string{"chunk", "command", "barcode"}
	wantDetails := []string{"10 02", "Z2 ACK", "12345"}
	for i, rec := range records[1:] {
		if rec[6] != wantTypes[i] {
			t.Errorf("row %d type = %q, want %q", i, rec[6], wantTypes[i])
		}
		if !strings.EqualFold(rec[7], wantDetails[i]) {
			t.Errorf("row %d detail = %q, want %q", i, rec[7], wantDetails[i])
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, exportEvents())
	if err := RunExport(path, "xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}
