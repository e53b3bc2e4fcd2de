package passthrough

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.bug.st/serial"
)

// DefaultConsoleBaud is the baud rate of the radio CLI.
const DefaultConsoleBaud = 115200

// Port is the subset of serial.Port the handshake needs.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Opener opens a serial port.
type Opener func(name string, mode *serial.Mode) (Port, error)

func openSerial(name string, mode *serial.Mode) (Port, error) {
	return serial.Open(name, mode)
}

// step is one CLI command followed by an optional settle delay.
type step struct {
	cmd   string
	delay time.Duration
}

// Handshaker performs the init passthrough sequence.
type Handshaker struct {
	open          Opener
	consoleBaud   int
	readTimeout   time.Duration
	powerOffDelay time.Duration
	bootDelay     time.Duration
	log           Logger
}

// Logger is an optional logging interface. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Option configures a Handshaker.
type Option func(*Handshaker)

// WithOpener replaces the serial port opener.
func WithOpener(o Opener) Option {
	return func(h *Handshaker) {
		if o != nil {
			h.open = o
		}
	}
}

// WithConsoleBaud sets the baud rate used to talk to the radio CLI.
func WithConsoleBaud(baud int) Option {
	return func(h *Handshaker) {
		if baud > 0 {
			h.consoleBaud = baud
		}
	}
}

// WithReadTimeout bounds the wait for each command's reply line.
func WithReadTimeout(d time.Duration) Option {
	return func(h *Handshaker) {
		if d >= 0 {
			h.readTimeout = d
		}
	}
}

// WithDelays sets the settle times after powering the module off and after powering it on.
func WithDelays(powerOff, boot time.Duration) Option {
	return func(h *Handshaker) {
		h.powerOffDelay = powerOff
		h.bootDelay = boot
	}
}

// WithLogger sets the logger for the handshake transcript.
func WithLogger(l Logger) Option {
	return func(h *Handshaker) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates a Handshaker using go.bug.st/serial.
func New(opts ...Option) *Handshaker {
	h := &Handshaker{
		open:          openSerial,
		consoleBaud:   DefaultConsoleBaud,
		readTimeout:   time.Second,
		powerOffDelay: 500 * time.Millisecond,
		bootDelay:     100 * time.Millisecond,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handshaker) script() []step {
	return []step{
		// the first command after opening the port is dropped by the radio
		{cmd: "set pulses 0"},
		{cmd: "set pulses 0"},
		{cmd: "set rfmod 0 power off", delay: h.powerOffDelay},
		{cmd: "set rfmod 0 bootpin 1"},
		{cmd: "set rfmod 0 power on", delay: h.bootDelay},
		{cmd: "set rfmod 0 bootpin 0"},
	}
}

// Init runs the handshake on port and leaves the radio relaying at baud.
func (h *Handshaker) Init(ctx context.Context, port string, baud int) error {
	if port == "" {
		return fmt.Errorf("passthrough init: port is empty")
	}
	if baud <= 0 {
		return fmt.Errorf("passthrough init: invalid baud %d", baud)
	}

	h.log.Info("passthrough init", "port", port, "baud", baud)

	p, err := h.open(port, &serial.Mode{
		BaudRate: h.consoleBaud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", port, err)
	}
	defer func() { _ = p.Close() }()

	if err := p.ResetInputBuffer(); err != nil {
		return fmt.Errorf("flush %s: %w", port, err)
	}

	for _, s := range h.script() {
		if err := h.send(ctx, p, s.cmd); err != nil {
			return err
		}
		if s.delay > 0 {
			if err := sleep(ctx, s.delay); err != nil {
				return err
			}
		}
	}

	// the radio stops answering once it relays bytes, so no reply is read
	cmd := fmt.Sprintf("serialpassthrough rfmod 0 %d", baud)
	h.log.Debug("enabling serial passthrough", "cmd", cmd)
	if _, err := p.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}

	return nil
}

func (h *Handshaker) send(ctx context.Context, p Port, cmd string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}

	reply, err := readLine(ctx, p, h.readTimeout)
	if err != nil {
		return fmt.Errorf("read reply to %q: %w", cmd, err)
	}
	h.log.Debug("radio cli", "cmd", cmd, "reply", reply)
	return nil
}

// readLine reads until a newline or the CLI prompt, or until timeout passes.
// A timeout is not an error: the radio does not echo every command.
func readLine(ctx context.Context, p Port, timeout time.Duration) (string, error) {
	var line bytes.Buffer
	buf := make([]byte, 64)
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if err := p.SetReadTimeout(remaining); err != nil {
			return "", err
		}

		n, err := p.Read(buf)
		if err != nil && err != io.EOF {
			return "", err
		}
		if n == 0 {
			break
		}
		line.Write(buf[:n])

		s := line.String()
		if strings.Contains(s, "\n") || strings.HasSuffix(s, "> ") {
			break
		}
	}

	return strings.TrimSpace(line.String()), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
