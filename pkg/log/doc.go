// Package log provides structured protocol capture for OPC device sessions.
//
// This package defines the Logger interface and Event types for capturing
// protocol events at every layer of a session (link, frame, command,
// session). It is separate from operational logging (slog): protocol capture
// is a complete machine-readable trace for debugging scanner traffic.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For field captures: write to a binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("scanner.olog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
//   - Link: raw chunks in and out (ChunkEvent)
//   - Frame: decoded frames (FrameEvent)
//   - Command: command outcomes (CommandEvent)
//   - Session: scans, battery readings and lifecycle changes
//
// Dropped frames are recorded as ErrorEventData with the offending bytes.
//
// # File Format
//
// Capture files are a sequence of CBOR-encoded events with the .olog
// extension. The opc-log tool views, filters and exports them.
package log
