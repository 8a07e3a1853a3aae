package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/opticonnect/opc-go/pkg/log"
)

// RunView writes every event matching filter to output.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [conn:%s] %-3s %-7s %s", ts, shortenConnID(event.ConnectionID),
		event.Direction.String(), event.Layer.String(), event.Kind().String())
	if event.DeviceID != "" {
		fmt.Fprintf(w, " (%s)", event.DeviceID)
	}
	fmt.Fprintln(w)

	switch {
	case event.Chunk != nil:
		formatChunkDetails(w, event.Chunk)
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Command != nil:
		formatCommandDetails(w, event.Command)
	case event.Barcode != nil:
		formatBarcodeDetails(w, event.Barcode)
	case event.Battery != nil:
		formatBatteryDetails(w, event.Battery)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatChunkDetails(w io.Writer, c *log.ChunkEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", c.Size)
	if len(c.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", log.FormatHex(c.Data))
		if c.Truncated {
			fmt.Fprint(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatFrameDetails(w io.Writer, f *log.FrameEvent) {
	fmt.Fprintf(w, "  Type: %s (0x%02X)  Kind: %s\n", f.Type.String(), byte(f.Type), f.Kind.String())
	if f.Sequence != nil {
		fmt.Fprintf(w, "  Sequence: %d\n", *f.Sequence)
	}
	if len(f.Payload) > 0 {
		fmt.Fprintf(w, "  Payload: %s\n", log.FormatHex(f.Payload))
	}
}

func formatCommandDetails(w io.Writer, c *log.CommandEvent) {
	fmt.Fprintf(w, "  Code: %s", c.Code)
	if c.Encoded != "" && c.Encoded != c.Code {
		fmt.Fprintf(w, "  Encoded: %s", c.Encoded)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Result: %s", c.Result.String())
	if c.Retried {
		fmt.Fprint(w, " (retried)")
	}
	fmt.Fprintln(w)
	if c.Response != "" {
		fmt.Fprintf(w, "  Response: %q\n", c.Response)
	}
	if c.Elapsed != nil {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*c.Elapsed))
	}
}

func formatBarcodeDetails(w io.Writer, b *log.BarcodeEvent) {
	fmt.Fprintf(w, "  Text: %q\n", b.Text)
	sym := b.Symbology
	if sym == "" {
		sym = "unknown"
	}
	fmt.Fprintf(w, "  Symbology: %s (%d)  Quantity: %d  Sequence: %d\n", sym, b.SymbologyID, b.Quantity, b.Sequence)
	if !b.ScannedAt.IsZero() {
		fmt.Fprintf(w, "  Scanned: %s\n", b.ScannedAt.Format(time.RFC3339))
	}
}

func formatBatteryDetails(w io.Writer, b *log.BatteryEvent) {
	level := "not reported"
	if b.Percentage >= 0 {
		level = fmt.Sprintf("%d%%", b.Percentage)
	}
	fmt.Fprintf(w, "  Level: %s\n", level)
	fmt.Fprintf(w, "  Present: %t  Charging: %t  Wired: %t  Wireless: %t  Fault: %t\n",
		b.Present, b.Charging, b.WiredCharging, b.WirelessCharging, b.Fault)
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", e.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
	if len(e.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s\n", log.FormatHex(e.Data))
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
