package commands

import (
	"testing"
	"time"

	"github.com/opticonnect/opc-go/pkg/log"
)

func TestFilterOptionsParse(t *testing.T) {
	opts := FilterOptions{
		ConnID:    "conn-1",
		DeviceID:  "dev-1",
		TimeStart: "2026-01-28T10:00:00Z",
		TimeEnd:   "2026-01-28T11:00:00Z",
		Layer:     "Command",
		Direction: "OUT",
		Category:  "error",
		Kind:      "BARCODE",
	}

	f, err := opts.Filter()
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if f.ConnectionID != "conn-1" || f.DeviceID != "dev-1" {
		t.Errorf("ids = %q/%q", f.ConnectionID, f.DeviceID)
	}
	if f.TimeStart == nil || !f.TimeStart.Equal(time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("TimeStart = %v", f.TimeStart)
	}
	if f.TimeEnd == nil || !f.TimeEnd.Equal(time.Date(2026, 1, 28, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("TimeEnd = %v", f.TimeEnd)
	}
	if f.Layer == nil || *f.Layer != log.LayerCommand {
		t.Errorf("Layer = %v", f.Layer)
	}
	if f.Direction == nil || *f.Direction != log.DirectionOut {
		t.Errorf("Direction = %v", f.Direction)
	}
	if f.Category == nil || *f.Category != log.CategoryError {
		t.Errorf("Category = %v", f.Category)
	}
	if f.Kind == nil || *f.Kind != log.KindBarcode {
		t.Errorf("Kind = %v", f.Kind)
	}
}

func TestFilterOptionsEmpty(t *testing.T) {
	f, err := FilterOptions{}.Filter()
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if f.Layer != nil || f.Direction != nil || f.Category != nil || f.Kind != nil || f.TimeStart != nil || f.TimeEnd != nil {
		t.Errorf("empty options produced constraints: %+v", f)
	}
}

func TestFilterOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts FilterOptions
	}{
		{"layer", FilterOptions{Layer: "transport"}},
		{"direction", FilterOptions{Direction: "sideways"}},
		{"category", FilterOptions{Category: "control"}},
		{"kind", FilterOptions{Kind: "message"}},
		{"time-start", FilterOptions{TimeStart: "yesterday"}},
		{"time-end", FilterOptions{TimeEnd: "2026-01-28"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.opts.Filter(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
