// Command binary-flash uploads a prebuilt backpack firmware image to a VRX
// or TX backpack device, or copies it to a directory.
//
// Usage:
//
//	binary-flash --target txbp.esp8266 --flash edgetx firmware.bin
//	binary-flash --target vrx.fusion.esp32.generic --flash wifi --port 10.0.0.1 firmware.bin
//	binary-flash --target vrx.rapidfire.esp8285 --flash dir --out /media/sd firmware.bin
//
// The exit status is 0 on success, 2 when a WiFi device reports a target
// mismatch and 1 for any other failure.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
