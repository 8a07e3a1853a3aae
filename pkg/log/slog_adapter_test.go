package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/opticonnect/opc-go/pkg/wire"
)

func logOne(t *testing.T, level slog.Level, adapterLevel slog.Level, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	NewSlogAdapter(slog.New(handler)).WithLevel(adapterLevel).Log(event)

	if buf.Len() == 0 {
		return nil
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsChunkEvent(t *testing.T) {
	entry := logOne(t, slog.LevelDebug, slog.LevelDebug, Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		DeviceID:     "dev-1",
		Direction:    DirectionIn,
		Layer:        LayerLink,
		Chunk:        NewChunkEvent([]byte{0x10, 0x02}),
	})
	if entry == nil {
		t.Fatal("no output produced")
	}

	want := map[string]any{
		"msg":        "protocol",
		"conn_id":    "conn-123",
		"device_id":  "dev-1",
		"direction":  "IN",
		"layer":      "LINK",
		"category":   "MESSAGE",
		"chunk_size": float64(2),
		"data":       "10 02",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %v", k, entry[k], v)
		}
	}
}

func TestSlogAdapterLogsCommandEvent(t *testing.T) {
	elapsed := 20 * time.Millisecond
	entry := logOne(t, slog.LevelDebug, slog.LevelDebug, Event{
		Direction: DirectionOut,
		Layer:     LayerCommand,
		Command:   &CommandEvent{Code: "Z2", Result: CommandTimedOut, Retried: true, Elapsed: &elapsed},
	})
	if entry == nil {
		t.Fatal("no output produced")
	}
	if entry["code"] != "Z2" || entry["result"] != "TIMEOUT" || entry["retried"] != true {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["elapsed"]; !ok {
		t.Error("missing elapsed")
	}
}

func TestSlogAdapterLogsFrameEvent(t *testing.T) {
	seq := uint16(7)
	entry := logOne(t, slog.LevelDebug, slog.LevelDebug, Event{
		Layer: LayerFrame,
		Frame: &FrameEvent{Type: wire.TypeBarcode, Kind: wire.FrameBarcode, Sequence: &seq, Payload: []byte("abc")},
	})
	if entry["frame_type"] != "BARCODE" || entry["frame_kind"] != "BARCODE" {
		t.Errorf("entry = %v", entry)
	}
	if entry["seq"] != float64(7) || entry["payload_size"] != float64(3) {
		t.Errorf("seq/payload_size = %v/%v", entry["seq"], entry["payload_size"])
	}
}

func TestSlogAdapterLogsErrorEvent(t *testing.T) {
	entry := logOne(t, slog.LevelDebug, slog.LevelDebug, Event{
		Category: CategoryError,
		Error:    &ErrorEventData{Layer: LayerFrame, Message: "checksum mismatch", Context: "decode"},
	})
	if entry["error_layer"] != "FRAME" || entry["error_msg"] != "checksum mismatch" || entry["error_context"] != "decode" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	if entry := logOne(t, slog.LevelInfo, slog.LevelDebug, Event{}); entry != nil {
		t.Errorf("debug event logged at info handler: %v", entry)
	}
	if entry := logOne(t, slog.LevelInfo, slog.LevelWarn, Event{}); entry == nil {
		t.Error("warn event not logged")
	}
}
