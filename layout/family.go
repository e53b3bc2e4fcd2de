package layout

import (
	"fmt"
	"strings"
)

// Family identifies a microcontroller family.
type Family int

const (
	// ESP8266 is the single image family.
	ESP8266 Family = iota + 1

	// ESP32 is the multi-partition family.
	ESP32
)

// Families lists every known family in declaration order.
var Families = []Family{ESP8266, ESP32}

func (f Family) String() string {
	switch f {
	case ESP8266:
		return "esp8266"
	case ESP32:
		return "esp32"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	return f == ESP8266 || f == ESP32
}

// ParseFamily maps a chip name such as "esp32" to a Family.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "esp8266", "esp8285":
		return ESP8266, nil
	case "esp32":
		return ESP32, nil
	default:
		return 0, fmt.Errorf("unknown mcu family %q", s)
	}
}
