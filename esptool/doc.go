// Package esptool builds esptool command lines and runs them.
//
// esptool implements the Espressif serial bootloader protocol. This package
// never speaks that protocol itself; it only produces the argument vector
// for a write_flash invocation and executes the configured esptool binary.
//
// # Argument Builder
//
// Build a write_flash argv from Options:
//
//	args, err := esptool.WriteFlashArgs(esptool.Options{
//	    Chip:  esptool.ChipESP8266,
//	    Port:  "/dev/ttyUSB0",
//	    Baud:  460800,
//	    After: esptool.ResetSoft,
//	    Writes: []layout.Write{{Offset: 0x0000, Path: "firmware.bin"}},
//	})
//	// --chip esp8266 --port /dev/ttyUSB0 --baud 460800 --after soft_reset write_flash 0x0000 firmware.bin
//
// The ExpressLRS esptool fork adds a --passthrough flag and a "passthru"
// before-action for flashing through a radio module; both are supported.
//
// # Runner
//
// Runner executes the argv as a subprocess:
//
//	r := esptool.NewRunner(esptool.WithCommand("python3", "external/esptool/esptool.py"))
//	if err := r.Run(ctx, args); err != nil {
//	    var exitErr *esptool.ExitError
//	    if errors.As(err, &exitErr) {
//	        fmt.Println("esptool exited with", exitErr.Code)
//	    }
//	}
package esptool
