// Package passthrough switches a radio handset into transparent serial
// passthrough so the module bay's backpack bootloader can be reached.
//
// # Handshake
//
// The handset exposes a line oriented CLI on its USB serial port. Init
// opens that port at the console baud rate (115200 8N1 by default) and
// sends:
//
//	set pulses 0
//	set pulses 0
//	set rfmod 0 power off
//	set rfmod 0 bootpin 1
//	set rfmod 0 power on
//	set rfmod 0 bootpin 0
//	serialpassthrough rfmod 0 <baud>
//
// A reply line is read after each command except the last; the radio stops
// answering once it relays bytes. The module is given time to power down
// and to boot between steps.
//
// # Usage
//
//	h := passthrough.New(
//	    passthrough.WithConsoleBaud(115200),
//	    passthrough.WithLogger(slog.Default()),
//	)
//	if err := h.Init(ctx, "/dev/ttyACM0", 460800); err != nil {
//	    log.Fatal(err)
//	}
//	// esptool may now talk to the backpack through /dev/ttyACM0
package passthrough
