package main

import (
	"fmt"
	"strings"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/upload"
)

// parseTarget derives the device role and chip family from a unified
// target id such as "vrx.steadyview.esp32.generic" or "txbp.esp8266".
//
// A "txbp" prefix always means an ESP8266 backpack. Any other prefix is a
// VRX whose third segment names the chip; only "esp32" selects ESP32.
func parseTarget(target string) (upload.Role, layout.Family, error) {
	parts := strings.Split(strings.TrimSpace(target), ".")
	if parts[0] == "" {
		return 0, 0, fmt.Errorf("empty target")
	}

	if role, err := upload.ParseRole(parts[0]); err == nil && role == upload.RoleTXBackpack {
		return upload.RoleTXBackpack, layout.ESP8266, nil
	}

	if len(parts) < 3 {
		return 0, 0, fmt.Errorf("target %q: want <type>.<vendor>.<chip>[.<variant>]", target)
	}
	if parts[2] == layout.ESP32.String() {
		return upload.RoleVRX, layout.ESP32, nil
	}
	return upload.RoleVRX, layout.ESP8266, nil
}
