package upload

import (
	"context"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/backpack"
	"github.com/spf13/afero"
)

// Engine runs the flashing engine with an argument vector.
// *esptool.Runner satisfies it.
type Engine interface {
	Run(ctx context.Context, args []string) error
}

// PortFinder picks a serial port when the request names none.
// *serials.Finder satisfies it.
type PortFinder interface {
	FindPort(ctx context.Context) (string, error)
}

// PassthroughInitializer switches a radio into serial passthrough.
// *passthrough.Handshaker satisfies it.
type PassthroughInitializer interface {
	Init(ctx context.Context, port string, baud int) error
}

// WirelessUploader sends an image to a device over WiFi.
// *backpack.Uploader satisfies it.
type WirelessUploader interface {
	Upload(ctx context.Context, payload string, mode backpack.Mode, addrs []string, isSTM bool, params map[string]string) error
}

// Config holds the dispatcher collaborators.
type Config struct {
	Engine      Engine
	PortFinder  PortFinder
	Passthrough PassthroughInitializer
	Wireless    WirelessUploader

	// Fs is used to resolve partition files and copy images
	Fs afero.Fs

	// ProgressCallback is called at each phase change (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		Fs: afero.NewOsFs(),
	}
}

// Option is a functional option for configuring the Dispatcher.
type Option func(*Config)

// WithEngine sets the flashing engine used by uart, edgetx and passthru.
//
// Example:
//
//	d := upload.New(upload.WithEngine(esptool.NewRunner()))
func WithEngine(e Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithPortFinder sets the serial port discovery used when no port is given.
func WithPortFinder(f PortFinder) Option {
	return func(c *Config) {
		c.PortFinder = f
	}
}

// WithPassthrough sets the handshake used by the edgetx method.
func WithPassthrough(p PassthroughInitializer) Option {
	return func(c *Config) {
		c.Passthrough = p
	}
}

// WithWireless sets the uploader used by the wifi method.
func WithWireless(w WirelessUploader) Option {
	return func(c *Config) {
		c.Wireless = w
	}
}

// WithFs sets the filesystem. Defaults to the OS filesystem.
//
// Example:
//
//	d := upload.New(upload.WithFs(afero.NewMemMapFs()))
func WithFs(fs afero.Fs) Option {
	return func(c *Config) {
		if fs != nil {
			c.Fs = fs
		}
	}
}

// WithProgressCallback sets a callback to track upload phases.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for dispatcher operations.
//
// Example:
//
//	d := upload.New(upload.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
