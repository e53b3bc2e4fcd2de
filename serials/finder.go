package serials

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// ErrNoPort is returned when no candidate serial port is attached.
var ErrNoPort = errors.New("no valid serial port detected or port already open")

// Name prefixes of USB serial adapters commonly used by receivers and radios.
var knownPrefixes = []string{
	"ttyUSB",
	"ttyACM",
	"cu.usbserial",
	"cu.usbmodem",
	"cu.SLAB",
	"cu.wchusbserial",
	"COM",
}

// Lister enumerates serial ports.
type Lister func() ([]*enumerator.PortDetails, error)

// Finder picks a serial port from the ports attached to the host.
type Finder struct {
	list Lister
}

// Option configures a Finder.
type Option func(*Finder)

// WithLister replaces the system port enumerator.
func WithLister(l Lister) Option {
	return func(f *Finder) {
		if l != nil {
			f.list = l
		}
	}
}

// New creates a Finder backed by go.bug.st/serial's enumerator.
func New(opts ...Option) *Finder {
	f := &Finder{list: enumerator.GetDetailedPortsList}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Candidates returns the plausible flashing ports, sorted by name.
func (f *Finder) Candidates() ([]string, error) {
	ports, err := f.list()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	var names []string
	for _, p := range ports {
		if p == nil || p.Name == "" {
			continue
		}
		if p.IsUSB || hasKnownPrefix(p.Name) {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindPort returns the first candidate port, or ErrNoPort.
func (f *Finder) FindPort(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	names, err := f.Candidates()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNoPort
	}
	return names[0], nil
}

func hasKnownPrefix(name string) bool {
	base := filepath.Base(name)
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
