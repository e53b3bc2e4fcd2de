// Package serials locates the serial port a flashing target is attached to.
//
// Ports are listed with go.bug.st/serial's enumerator. A port is a
// candidate when the enumerator reports it as USB, or when its base name
// starts with a prefix used by common USB serial adapters (ttyUSB, ttyACM,
// cu.usbserial, cu.SLAB, COM and so on). Candidates are sorted by name and
// the first one wins.
//
// # Usage
//
//	port, err := serials.New().FindPort(ctx)
//	if errors.Is(err, serials.ErrNoPort) {
//	    log.Fatal("plug in the receiver or pass --port")
//	}
//
// Tests and tools that know their ports can replace the enumerator:
//
//	f := serials.New(serials.WithLister(func() ([]*enumerator.PortDetails, error) {
//	    return []*enumerator.PortDetails{{Name: "/dev/ttyUSB0", IsUSB: true}}, nil
//	}))
package serials
