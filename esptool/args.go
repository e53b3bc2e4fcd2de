package esptool

import (
	"fmt"
	"strconv"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

// FlashParams are the optional write_flash SPI flash settings.
type FlashParams struct {
	Compress bool
	Mode     string
	Freq     string
	Size     string
}

// Options describe a single write_flash invocation.
type Options struct {
	Chip string
	Port string
	Baud int

	// Before is the --before action, omitted when empty
	Before string

	// After is the --after action, omitted when empty
	After string

	// Passthrough sets the --passthrough flag of the ExpressLRS fork
	Passthrough bool

	// Flash holds SPI flash parameters, nil for none
	Flash *FlashParams

	// Writes is the flash plan, usually PartitionFileSet.Writes
	Writes []layout.Write
}

// WriteFlashArgs builds the esptool argument vector for opts.
//
// Global options come first in a fixed order: --passthrough, --chip,
// --port, --baud, --before, --after. Then write_flash, flash parameters and
// offset/file pairs in the order given.
func WriteFlashArgs(opts Options) ([]string, error) {
	if opts.Chip == "" {
		return nil, fmt.Errorf("chip is required")
	}
	if opts.Port == "" {
		return nil, fmt.Errorf("port is required")
	}
	if opts.Baud <= 0 {
		return nil, fmt.Errorf("baud must be positive, got %d", opts.Baud)
	}
	if len(opts.Writes) == 0 {
		return nil, fmt.Errorf("at least one write is required")
	}

	args := make([]string, 0, 16+2*len(opts.Writes))
	if opts.Passthrough {
		args = append(args, "--passthrough")
	}
	args = append(args,
		"--chip", opts.Chip,
		"--port", opts.Port,
		"--baud", strconv.Itoa(opts.Baud),
	)
	if opts.Before != "" {
		args = append(args, "--before", opts.Before)
	}
	if opts.After != "" {
		args = append(args, "--after", opts.After)
	}

	args = append(args, "write_flash")

	if f := opts.Flash; f != nil {
		if f.Compress {
			args = append(args, "-z")
		}
		if f.Mode != "" {
			args = append(args, "--flash_mode", f.Mode)
		}
		if f.Freq != "" {
			args = append(args, "--flash_freq", f.Freq)
		}
		if f.Size != "" {
			args = append(args, "--flash_size", f.Size)
		}
	}

	for _, w := range opts.Writes {
		if w.Path == "" {
			return nil, fmt.Errorf("write at %s has no file", FormatOffset(w.Offset))
		}
		args = append(args, FormatOffset(w.Offset), w.Path)
	}

	return args, nil
}

// FormatOffset renders a flash offset the way esptool users write it:
// lower case hex with at least four digits (0x0000, 0xe000, 0x10000).
func FormatOffset(offset uint32) string {
	return fmt.Sprintf("0x%04x", offset)
}
