// Package upload selects and runs the flashing procedure for a receiver or
// transmitter backpack.
//
// # Overview
//
// A Request names a device role, a microcontroller family and an upload
// method. The Dispatcher checks the combination against a fixed route table,
// runs the single matching procedure and reports a Result:
//
//	Role   Family   Methods
//	vrx    esp8266  uart, wifi
//	vrx    esp32    uart, wifi
//	txbp   esp8266  edgetx, uart, passthru, wifi
//	txbp   esp32    edgetx, uart, passthru, wifi
//
// The dir method is accepted for every role and only copies the image files
// to an output directory.
//
// # Basic Usage
//
//	d := upload.New(
//	    upload.WithEngine(esptool.NewRunner()),
//	    upload.WithPortFinder(serials.New()),
//	    upload.WithPassthrough(passthrough.New()),
//	    upload.WithWireless(backpack.New()),
//	    upload.WithLogger(slog.Default()),
//	)
//
//	res, err := d.Upload(ctx, upload.Request{
//	    Role:   upload.RoleTXBackpack,
//	    Family: layout.ESP32,
//	    Method: upload.MethodUART,
//	    File:   "build/firmware.bin",
//	})
//	if err != nil {
//	    log.Fatal(err) // fatal: directory copy failure or interruption
//	}
//	os.Exit(res.ExitCode())
//
// # Procedures
//
//   - uart: esptool write_flash at the requested baud (460800 when zero)
//   - edgetx: init passthrough handshake through the radio, then esptool
//     with --passthrough at 460800 without resetting the target first
//   - passthru: esptool with --passthrough at 230400 over an already
//     relaying radio
//   - wifi: HTTP upload to the device's update endpoint
//   - dir: copy the image files to an output directory
//
// ESP8266 images are written at 0x0000 and soft reset afterwards. ESP32
// images are written as a four file partition set (see package layout) and
// hard reset afterwards.
//
// # Error Handling
//
// Every failure of the flashing engine, port discovery, handshake or WiFi
// upload is reported as ErrorGeneral with a nil error. A target mismatch
// reported by a WiFi device is ErrorMismatch. Directory copy failures and
// context cancellation are returned as a non-nil error alongside
// ErrorGeneral.
package upload
