package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/opticonnect/opc-go/pkg/battery"
	"github.com/opticonnect/opc-go/pkg/command"
	"github.com/opticonnect/opc-go/pkg/session"
	"github.com/opticonnect/opc-go/pkg/transport"
)

// Console is the interactive command loop of opc-console.
type Console struct {
	reg *session.Registry
	rl  *readline.Instance
	out io.Writer

	// timeout bounds one send; it covers a retransmit.
	timeout time.Duration

	feedbackMu sync.Mutex
	feedback   bool

	watchers sync.WaitGroup
}

// NewConsole creates the console and its readline prompt. Attach a
// registry before running it.
func NewConsole(cfg Config) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "opc> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return newConsole(nil, rl.Stdout(), rl, cfg), nil
}

// Attach sets the registry the console operates on.
func (c *Console) Attach(reg *session.Registry) {
	c.reg = reg
}

func newConsole(reg *session.Registry, out io.Writer, rl *readline.Instance, cfg Config) *Console {
	return &Console{
		reg:      reg,
		rl:       rl,
		out:      out,
		timeout:  3*cfg.Command.Timeout + time.Second,
		feedback: cfg.Command.Feedback,
	}
}

// Stdout returns a writer that coordinates with the readline input.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Stderr returns a writer for log output that coordinates with the
// readline input.
func (c *Console) Stderr() io.Writer {
	if c.rl == nil {
		return c.out
	}
	return c.rl.Stderr()
}

// Router returns a transport router that prints the barcodes and battery
// readings of every session it creates.
func (c *Console) Router() transport.Router {
	return &printingRouter{Registry: c.reg, console: c}
}

// Run reads commands until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context) {
	defer c.rl.Close()

	c.printHelp()

	go func() {
		<-ctx.Done()
		c.rl.Close()
	}()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) && ctx.Err() == nil {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			return
		}
		if c.execute(ctx, line) {
			return
		}
	}
}

// Wait blocks until every session watcher has returned.
func (c *Console) Wait() {
	c.watchers.Wait()
}

// execute runs one command line and reports whether the console should
// exit.
func (c *Console) execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "devices", "d":
		c.cmdDevices()
	case "send", "s":
		c.cmdSend(ctx, args, command.New)
	case "raw":
		c.cmdSend(ctx, args, command.Raw)
	case "battery", "b":
		c.cmdBattery(args)
	case "stats":
		c.cmdStats(args)
	case "feedback":
		c.cmdFeedback(args)
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  devices                        List connected devices
  send <device> <code> [params]  Send a menu command and wait for the answer
  raw <device> <code> [params]   Send a command without bracket encoding
  battery <device> [hex]         Show battery status; hex routes a status payload
  stats <device>                 Show decoder counters
  feedback on|off                Toggle indicator commands after commands
  help                           Show this help
  quit                           Exit
`)
}

func (c *Console) cmdDevices() {
	ids := c.reg.Devices()
	if len(ids) == 0 {
		fmt.Fprintln(c.out, "No devices connected")
		return
	}
	for _, id := range ids {
		s, ok := c.reg.Session(id)
		if !ok {
			continue
		}
		fmt.Fprintf(c.out, "  %-24s conn:%s  up %s  pending %d  battery %s\n",
			id, shortID(s.ConnectionID()), time.Since(s.CreatedAt()).Round(time.Second),
			s.Commands().Pending(), formatLevel(s.Battery()))
	}
}

func (c *Console) cmdSend(ctx context.Context, args []string, build func(string, ...string) command.Spec) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: send <device> <code> [params...]")
		return
	}
	spec := build(args[1], args[2:]...)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.reg.Submit(ctx, args[0], spec)
	if err != nil {
		fmt.Fprintf(c.out, "%s failed: %v\n", spec, err)
		return
	}

	fmt.Fprintf(c.out, "%s OK in %s", spec, resp.Elapsed.Round(time.Millisecond))
	if resp.Retried {
		fmt.Fprint(c.out, " (retried)")
	}
	fmt.Fprintln(c.out)
	if resp.Data != "" {
		fmt.Fprintf(c.out, "  Response: %q\n", resp.Data)
	}
}

func (c *Console) cmdBattery(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: battery <device> [status-hex]")
		return
	}
	s, ok := c.reg.Session(args[0])
	if !ok {
		fmt.Fprintf(c.out, "Unknown device: %s\n", args[0])
		return
	}
	var payload []byte
	if len(args) > 1 {
		var err error
		if payload, err = hex.DecodeString(strings.Join(args[1:], "")); err != nil {
			fmt.Fprintf(c.out, "Invalid payload: %v\n", err)
			return
		}
	}
	c.showBattery(s, payload)
}

// showBattery applies an optional status payload to s and prints the
// cached status. The session may have closed since it was looked up.
func (c *Console) showBattery(s *session.Session, payload []byte) {
	if payload != nil {
		s.ApplyBatteryStatus(payload)
	}
	if s.Closed() {
		fmt.Fprintf(c.out, "[%s] disconnected\n", s.DeviceID())
		return
	}
	printBattery(c.out, s.DeviceID(), s.Battery())
}

func (c *Console) cmdStats(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: stats <device>")
		return
	}
	s, ok := c.reg.Session(args[0])
	if !ok {
		fmt.Fprintf(c.out, "Unknown device: %s\n", args[0])
		return
	}
	st := s.DecoderStats()
	fmt.Fprintf(c.out, "  Frames:          %d\n", st.Frames)
	fmt.Fprintf(c.out, "  Checksum errors: %d\n", st.ChecksumErrors)
	fmt.Fprintf(c.out, "  Escape errors:   %d\n", st.EscapeErrors)
	fmt.Fprintf(c.out, "  Restarts:        %d\n", st.Restarts)
	fmt.Fprintf(c.out, "  Oversize:        %d\n", st.Oversize)
	fmt.Fprintf(c.out, "  Duplicates:      %d\n", st.Duplicates)
}

func (c *Console) cmdFeedback(args []string) {
	c.feedbackMu.Lock()
	defer c.feedbackMu.Unlock()

	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on":
			c.feedback = true
		case "off":
			c.feedback = false
		default:
			fmt.Fprintln(c.out, "Usage: feedback on|off")
			return
		}
		c.reg.SetFeedback(feedbackDefaults(c.feedback))
	}

	state := "off"
	if c.feedback {
		state = "on"
	}
	fmt.Fprintf(c.out, "Feedback %s\n", state)
}

// feedbackDefaults maps the console switch onto registry defaults.
func feedbackDefaults(on bool) *command.FeedbackDefaults {
	if !on {
		return nil
	}
	def := command.AllFeedback
	return &def
}

// watch prints a session's scans and battery readings until it closes.
func (c *Console) watch(s *session.Session) {
	defer c.watchers.Done()

	barcodes, power := s.Barcodes(), s.BatteryEvents()
	for barcodes != nil || power != nil {
		select {
		case b, ok := <-barcodes:
			if !ok {
				barcodes = nil
				continue
			}
			sym := b.Symbology
			if sym == "" {
				sym = "unknown"
			}
			fmt.Fprintf(c.out, "[%s] %s %q (%s, qty %d)\n",
				s.DeviceID(), b.ScannedAt.Format(time.TimeOnly), b.Text, sym, b.Quantity)
		case st, ok := <-power:
			if !ok {
				power = nil
				continue
			}
			printBattery(c.out, s.DeviceID(), st)
		}
	}
	fmt.Fprintf(c.out, "[%s] disconnected\n", s.DeviceID())
}

func printBattery(w io.Writer, deviceID string, st battery.Status) {
	var flags []string
	if st.Present {
		flags = append(flags, "present")
	}
	if st.Charging {
		flags = append(flags, "charging")
	}
	if st.WiredCharging {
		flags = append(flags, "wired")
	}
	if st.WirelessCharging {
		flags = append(flags, "wireless")
	}
	if st.Fault {
		flags = append(flags, "FAULT")
	}
	if len(flags) == 0 {
		flags = append(flags, "no battery")
	}
	fmt.Fprintf(w, "[%s] battery %s (%s)\n", deviceID, formatLevel(st), strings.Join(flags, ", "))
}

func formatLevel(st battery.Status) string {
	if st.Percentage == battery.NotReported {
		return "?"
	}
	return fmt.Sprintf("%d%%", st.Percentage)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// printingRouter starts a console watcher for each new session.
type printingRouter struct {
	*session.Registry
	console *Console
}

func (p *printingRouter) CreateSession(deviceID string, w io.Writer) (*session.Session, error) {
	s, err := p.Registry.CreateSession(deviceID, w)
	if err != nil {
		return nil, err
	}
	p.console.watchers.Add(1)
	go p.console.watch(s)
	fmt.Fprintf(p.console.out, "[%s] connected\n", deviceID)
	return s, nil
}
