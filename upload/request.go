package upload

import (
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/esptool"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

// Request describes one upload attempt.
type Request struct {
	Role   Role
	Family layout.Family
	Method Method

	// File is the primary firmware image
	File string

	// OutDir is the destination of the dir method
	OutDir string

	// Port is a serial device, or a host name for wifi. Empty selects
	// discovery (serial) or the role's default host names (wifi).
	Port string

	// Baud is the serial rate for uart; 0 selects the default
	Baud int

	// Force confirms a target mismatch on wifi uploads
	Force bool

	// Confirm confirms a previously reported target mismatch on wifi uploads
	Confirm bool
}

// normalized returns a copy of r with defaults applied.
func (r Request) normalized() Request {
	if r.Baud == 0 {
		r.Baud = esptool.BaudDefault
	}
	return r
}
