// Package layout describes where firmware images live in flash for each
// supported microcontroller family, and which files make up a flashable set.
//
// # Address Layouts
//
// ESP8266 targets take a single application image written at offset 0x0000.
// ESP32 targets take a four segment partition set:
//
//	0x1000   bootloader.bin
//	0x8000   partitions.bin
//	0xe000   boot_app0.bin
//	0x10000  application (the primary firmware file)
//
// The three non-application files are expected beside the primary file.
//
// # Usage
//
// Resolve the files for a firmware image before writing anything:
//
//	set, err := layout.Resolve(afero.NewOsFs(), layout.ESP32, "build/firmware.bin")
//	if err != nil {
//	    var missing *layout.MissingFileError
//	    if errors.As(err, &missing) {
//	        log.Fatalf("incomplete partition set: %s", missing.Path)
//	    }
//	    log.Fatal(err)
//	}
//
//	for _, w := range set.Writes() {
//	    fmt.Printf("0x%x <- %s\n", w.Offset, w.Path)
//	}
//
// Resolve checks every file up front, so a missing partition file fails
// before a single byte is sent to the device.
package layout
