package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opticonnect/opc-go/pkg/command"
)

// Connection modes.
const (
	ModeDial   = "dial"
	ModeListen = "listen"
)

// Config holds the console configuration. It is read from an optional YAML
// file; flags given on the command line override the file.
type Config struct {
	// Mode is "dial" (connect to a serial bridge) or "listen" (accept
	// bridges and simulators).
	Mode string `yaml:"mode"`

	// Address to dial or listen on.
	Address string `yaml:"address"`

	// DeviceID names the scanner in dial mode. Listen mode names devices
	// by remote address.
	DeviceID string `yaml:"device_id"`

	LogLevel string `yaml:"log_level"`

	// Capture is the path of a protocol capture file (.olog).
	Capture string `yaml:"capture"`

	// CaptureLog also writes protocol events to the operational log at
	// debug level.
	CaptureLog bool `yaml:"capture_log"`

	// MetricsAddress serves /metrics when set, e.g. ":9100".
	MetricsAddress string `yaml:"metrics_address"`

	Command CommandConfig `yaml:"command"`
	Decoder DecoderConfig `yaml:"decoder"`
}

// CommandConfig configures the command channel of each device.
type CommandConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	RetryOnNak   bool          `yaml:"retry_on_nak"`
	PersistDelay time.Duration `yaml:"persist_delay"`
	Feedback     bool          `yaml:"feedback"`
}

// DecoderConfig configures the frame decoder of each device.
type DecoderConfig struct {
	AcceptZeroChecksum bool   `yaml:"accept_zero_checksum"`
	ParsePrefix        bool   `yaml:"parse_prefix"`
	MaxFrameSize       int    `yaml:"max_frame_size"`
	Location           string `yaml:"location"`
}

func defaultConfig() Config {
	return Config{
		Mode:     ModeDial,
		Address:  "localhost:4001",
		DeviceID: "scanner",
		LogLevel: "info",
		Command: CommandConfig{
			Timeout:  command.DefaultTimeout,
			Feedback: true,
		},
	}
}

// loadConfigFile reads a YAML config file over cfg.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// parseConfig parses the command line, loading the -config file first and
// applying explicitly set flags on top of it.
func parseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("opc-console", flag.ContinueOnError)

	var fv Config
	def := defaultConfig()
	configPath := fs.String("config", "", "YAML configuration file")
	fs.StringVar(&fv.Mode, "mode", def.Mode, "Connection mode: dial, listen")
	fs.StringVar(&fv.Address, "addr", def.Address, "Address to dial or listen on")
	fs.StringVar(&fv.DeviceID, "device", def.DeviceID, "Device ID in dial mode")
	fs.StringVar(&fv.LogLevel, "log-level", def.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&fv.Capture, "capture", "", "Write a protocol capture to this .olog file")
	fs.BoolVar(&fv.CaptureLog, "capture-log", false, "Also log protocol events at debug level")
	fs.StringVar(&fv.MetricsAddress, "metrics", "", "Serve Prometheus metrics on this address")
	fs.DurationVar(&fv.Command.Timeout, "timeout", def.Command.Timeout, "Command answer timeout")
	fs.BoolVar(&fv.Command.RetryOnNak, "retry-nak", false, "Retransmit a rejected command once")
	fs.DurationVar(&fv.Command.PersistDelay, "persist-delay", 0, "Save settings this long after the last command (0 disables)")
	fs.BoolVar(&fv.Command.Feedback, "feedback", def.Command.Feedback, "Send indicator commands after completed commands")
	fs.BoolVar(&fv.Decoder.AcceptZeroChecksum, "accept-zero-crc", false, "Accept frames with a 0x0000 checksum")
	fs.BoolVar(&fv.Decoder.ParsePrefix, "parse-prefix", false, "Resolve symbologies from identifier prefixes")
	fs.StringVar(&fv.Decoder.Location, "tz", "", "Time zone of scanner timestamps (default UTC)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := def
	if *configPath != "" {
		if err := loadConfigFile(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = fv.Mode
		case "addr":
			cfg.Address = fv.Address
		case "device":
			cfg.DeviceID = fv.DeviceID
		case "log-level":
			cfg.LogLevel = fv.LogLevel
		case "capture":
			cfg.Capture = fv.Capture
		case "capture-log":
			cfg.CaptureLog = fv.CaptureLog
		case "metrics":
			cfg.MetricsAddress = fv.MetricsAddress
		case "timeout":
			cfg.Command.Timeout = fv.Command.Timeout
		case "retry-nak":
			cfg.Command.RetryOnNak = fv.Command.RetryOnNak
		case "persist-delay":
			cfg.Command.PersistDelay = fv.Command.PersistDelay
		case "feedback":
			cfg.Command.Feedback = fv.Command.Feedback
		case "accept-zero-crc":
			cfg.Decoder.AcceptZeroChecksum = fv.Decoder.AcceptZeroChecksum
		case "parse-prefix":
			cfg.Decoder.ParsePrefix = fv.Decoder.ParsePrefix
		case "tz":
			cfg.Decoder.Location = fv.Decoder.Location
		}
	})

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Mode != ModeDial && c.Mode != ModeListen {
		return fmt.Errorf("mode must be %s or %s, got %q", ModeDial, ModeListen, c.Mode)
	}
	if c.Address == "" {
		return errors.New("address is required")
	}
	if c.Mode == ModeDial && c.DeviceID == "" {
		return errors.New("device id is required in dial mode")
	}
	if c.Command.Timeout < 0 || c.Command.PersistDelay < 0 {
		return errors.New("durations must not be negative")
	}
	if _, err := c.location(); err != nil {
		return err
	}
	_, err := parseLevel(c.LogLevel)
	return err
}

// location returns the configured scanner time zone; nil means UTC.
func (c Config) location() (*time.Location, error) {
	if c.Decoder.Location == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Decoder.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}
	return loc, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}
