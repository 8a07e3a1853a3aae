package session

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opticonnect/opc-go/pkg/battery"
	"github.com/opticonnect/opc-go/pkg/command"
	"github.com/opticonnect/opc-go/pkg/log"
	"github.com/opticonnect/opc-go/pkg/metrics"
	"github.com/opticonnect/opc-go/pkg/wire"
)

// Session states reported in capture events.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
)

// Session is the state of one connected device.
type Session struct {
	deviceID  string
	connID    string
	createdAt time.Time

	logger  *slog.Logger
	plog    log.Logger
	metrics *metrics.Metrics

	// mu serializes routing; decoder and the fields below it are guarded
	// by it.
	mu      sync.Mutex
	decoder *wire.Decoder
	closed  bool
	battery battery.Status

	channel  *command.Channel
	barcodes *stream[wire.BarcodeRecord]
	power    *stream[battery.Status]
}

func newSession(deviceID string, w io.Writer, cfg *Config) *Session {
	s := &Session{
		deviceID:  deviceID,
		connID:    uuid.New().String(),
		createdAt: time.Now(),
		plog:      cfg.ProtocolLogger,
		metrics:   cfg.Metrics,
		battery:   battery.Unknown(),
		barcodes:  newStream[wire.BarcodeRecord](),
		power:     newStream[battery.Status](),
	}
	s.logger = cfg.Logger.With(slog.String("device_id", deviceID))

	s.decoder = wire.NewDecoder(wire.DecoderConfig{
		DeviceID:           deviceID,
		Checksum:           cfg.Checksum,
		AcceptZeroChecksum: cfg.AcceptZeroChecksum,
		ParsePrefix:        cfg.ParsePrefix,
		MaxFrameSize:       cfg.MaxFrameSize,
		Location:           cfg.Location,
		OnError:            s.onFramingError,
	})

	s.channel = command.NewChannel(command.Config{
		DeviceID:     deviceID,
		Writer:       &captureWriter{w: w, s: s},
		Encoder:      wire.NewEncoder(cfg.Checksum),
		Timeout:      cfg.CommandTimeout,
		RetryOnNak:   cfg.RetryOnNak,
		Feedback:     cfg.Feedback,
		PersistDelay: cfg.PersistDelay,
		Logger:       cfg.Logger,
		OnResult:     s.onResult,
	})

	return s
}

// DeviceID returns the device identifier.
func (s *Session) DeviceID() string { return s.deviceID }

// ConnectionID returns the identifier stamped on this session's capture
// events. It is unique per connection of the device.
func (s *Session) ConnectionID() string { return s.connID }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Barcodes returns the scans of this device, in arrival order. The channel
// is closed when the session is destroyed.
func (s *Session) Barcodes() <-chan wire.BarcodeRecord { return s.barcodes.C() }

// BatteryEvents returns battery readings of this device. The channel is
// closed when the session is destroyed.
func (s *Session) BatteryEvents() <-chan battery.Status { return s.power.C() }

// Battery returns the last battery reading, or battery.Unknown().
func (s *Session) Battery() battery.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battery
}

// Commands returns the command channel of the device.
func (s *Session) Commands() *command.Channel { return s.channel }

// DecoderStats returns the frame decoder's counters.
func (s *Session) DecoderStats() wire.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decoder.Stats()
}

// Closed reports whether the session has been destroyed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// route decodes a chunk and dispatches the frames it completes.
func (s *Session) route(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.metrics.BytesReceived(len(chunk))
	s.logEvent(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerLink,
		Chunk:     log.NewChunkEvent(chunk),
	})

	for _, f := range s.decoder.Feed(chunk) {
		s.dispatch(f)
	}
}

func (s *Session) dispatch(f wire.Frame) {
	s.metrics.FrameDecoded(f.Kind.String())
	s.logEvent(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerFrame,
		Frame:     log.NewFrameEvent(f),
	})

	switch f.Kind {
	case wire.FrameCommandAck, wire.FrameCommandNak, wire.FrameCommandData:
		s.channel.Resolve(f)

	case wire.FrameBarcode:
		rec := *f.Barcode
		s.metrics.BarcodeDelivered()
		s.logEvent(log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerSession,
			Barcode: &log.BarcodeEvent{
				Text:        rec.Text,
				SymbologyID: int(rec.SymbologyID),
				Symbology:   rec.Symbology,
				Quantity:    rec.Quantity,
				Sequence:    rec.Sequence,
				ScannedAt:   rec.ScannedAt,
			},
		})
		s.barcodes.push(rec)

	case wire.FrameMalformed:
		s.logger.Debug("malformed frame", slog.String("type", f.Type.String()), slog.Int("size", len(f.Payload)))
		s.logEvent(log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerFrame,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerFrame,
				Message: "malformed frame",
				Data:    f.Raw,
			},
		})

	default:
		s.logger.Debug("ignoring frame", slog.String("kind", f.Kind.String()))
	}
}

// updateBattery caches and publishes a reading.
// ApplyBatteryStatus decodes a battery status payload, caches it and
// publishes it. It does nothing once the session is closed.
func (s *Session) ApplyBatteryStatus(payload []byte) {
	st := battery.Decode(payload)
	s.updateBattery(func(battery.Status) battery.Status {
		return st
	}, payload)
}

// ApplyBatteryLevel applies a standard battery level reading to the cached
// status and publishes the result. It does nothing once the session is
// closed.
func (s *Session) ApplyBatteryLevel(payload []byte) {
	level := battery.DecodeLevel(payload)
	s.updateBattery(func(st battery.Status) battery.Status {
		st.Percentage = level
		return st
	}, payload)
}

func (s *Session) updateBattery(apply func(battery.Status) battery.Status, raw []byte) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	st := apply(s.battery)
	s.battery = st
	s.mu.Unlock()

	s.logEvent(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerSession,
		Battery: &log.BatteryEvent{
			Present:          st.Present,
			WirelessCharging: st.WirelessCharging,
			WiredCharging:    st.WiredCharging,
			Charging:         st.Charging,
			Fault:            st.Fault,
			Percentage:       st.Percentage,
			Raw:              raw,
		},
	})
	s.power.push(st)
}

// close fails pending commands and closes the event streams. It is
// idempotent.
func (s *Session) close(reason string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.channel.Close()
	s.barcodes.close()
	s.power.close()

	s.metrics.SessionClosed()
	s.logState(StateOpen, StateClosed, reason)
	s.logger.Info("session closed", slog.String("reason", reason))
}

func (s *Session) onFramingError(fe *wire.FramingError) {
	s.metrics.FramingError(fe.Err.Error())
	s.logger.Debug("frame dropped", slog.String("reason", fe.Err.Error()), slog.Int("size", len(fe.Raw)))
	s.logEvent(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerFrame,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerFrame,
			Message: fe.Err.Error(),
			Context: fe.Error(),
			Data:    fe.Raw,
		},
	})
}

func (s *Session) onResult(r command.Result) {
	result := commandResult(r.Err)
	s.metrics.CommandCompleted(result.String(), r.Retried)

	ev := &log.CommandEvent{
		Code:    r.Spec.Code,
		Encoded: string(r.Spec.Encode()),
		Result:  result,
		Retried: r.Retried,
	}
	if r.Response != nil {
		ev.Response = r.Response.Data
	}
	if r.Elapsed > 0 {
		elapsed := r.Elapsed
		ev.Elapsed = &elapsed
	}

	category := log.CategoryMessage
	if r.Err != nil {
		category = log.CategoryError
		s.logger.Debug("command failed", slog.String("code", r.Spec.Code), slog.String("result", result.String()))
	}
	s.logEvent(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerCommand,
		Category:  category,
		Command:   ev,
	})
}

func commandResult(err error) log.CommandResult {
	switch {
	case err == nil:
		return log.CommandAcked
	case errors.Is(err, command.ErrNak):
		return log.CommandNaked
	case errors.Is(err, command.ErrTimeout):
		return log.CommandTimedOut
	case errors.Is(err, command.ErrDisconnected):
		return log.CommandDisconnected
	case errors.Is(err, command.ErrWrite):
		return log.CommandWriteFailed
	default:
		return log.CommandCancelled
	}
}

func (s *Session) logState(oldState, newState, reason string) {
	s.logEvent(log.Event{
		Layer:    log.LayerSession,
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntitySession,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (s *Session) logEvent(ev log.Event) {
	ev.Timestamp = time.Now()
	ev.ConnectionID = s.connID
	ev.DeviceID = s.deviceID
	s.plog.Log(ev)
}

// captureWriter records outbound bytes before handing them to the
// transport.
type captureWriter struct {
	w io.Writer
	s *Session
}

func (c *captureWriter) Write(p []byte) (int, error) {
	c.s.logEvent(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerLink,
		Chunk:     log.NewChunkEvent(p),
	})
	return c.w.Write(p)
}
