package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at a fixed level.
// Useful during development to watch scanner traffic on the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter returns an adapter logging at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter logging at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event as one record with flat attributes.
func (a *SlogAdapter) Log(event Event) {
	ctx := context.Background()
	if !a.logger.Enabled(ctx, a.level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}

	switch {
	case event.Chunk != nil:
		attrs = append(attrs,
			slog.Int("chunk_size", event.Chunk.Size),
			slog.String("data", FormatHex(event.Chunk.Data)),
		)
		if event.Chunk.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Frame != nil:
		attrs = append(attrs,
			slog.String("frame_type", event.Frame.Type.String()),
			slog.String("frame_kind", event.Frame.Kind.String()),
			slog.Int("payload_size", len(event.Frame.Payload)),
		)
		if event.Frame.Sequence != nil {
			attrs = append(attrs, slog.Uint64("seq", uint64(*event.Frame.Sequence)))
		}
	case event.Command != nil:
		attrs = append(attrs,
			slog.String("code", event.Command.Code),
			slog.String("result", event.Command.Result.String()),
		)
		if event.Command.Retried {
			attrs = append(attrs, slog.Bool("retried", true))
		}
		if event.Command.Response != "" {
			attrs = append(attrs, slog.String("response", event.Command.Response))
		}
		if event.Command.Elapsed != nil {
			attrs = append(attrs, slog.Duration("elapsed", *event.Command.Elapsed))
		}
	case event.Barcode != nil:
		attrs = append(attrs,
			slog.String("text", event.Barcode.Text),
			slog.String("symbology", event.Barcode.Symbology),
			slog.Int("quantity", event.Barcode.Quantity),
		)
	case event.Battery != nil:
		attrs = append(attrs,
			slog.Int("percentage", event.Battery.Percentage),
			slog.Bool("charging", event.Battery.Charging),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(ctx, a.level, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
