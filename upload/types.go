package upload

import (
	"fmt"
	"strings"
)

// Role is the kind of device being flashed.
type Role int

const (
	// RoleVRX is a video receiver module
	RoleVRX Role = iota + 1

	// RoleTXBackpack is the backpack attached to a transmitter module
	RoleTXBackpack
)

// Roles lists every known role.
var Roles = []Role{RoleVRX, RoleTXBackpack}

func (r Role) String() string {
	switch r {
	case RoleVRX:
		return "vrx"
	case RoleTXBackpack:
		return "txbp"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole maps "vrx" or "txbp" to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vrx":
		return RoleVRX, nil
	case "txbp":
		return RoleTXBackpack, nil
	default:
		return 0, fmt.Errorf("unknown device role %q", s)
	}
}

// Method is the requested upload transport.
type Method string

const (
	MethodUART        Method = "uart"
	MethodPassthrough Method = "passthru"
	MethodEdgeTX      Method = "edgetx"
	MethodWiFi        Method = "wifi"
	MethodDir         Method = "dir"
)

// Methods lists every known method.
var Methods = []Method{MethodUART, MethodPassthrough, MethodEdgeTX, MethodWiFi, MethodDir}

func (m Method) String() string {
	return string(m)
}

// ParseMethod maps a method name to a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown upload method %q", s)
}

// Result is the outcome of an upload attempt.
type Result int

const (
	Success       Result = 0
	ErrorGeneral  Result = -1
	ErrorMismatch Result = -2
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case ErrorGeneral:
		return "error"
	case ErrorMismatch:
		return "target mismatch"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// ExitCode maps r to a process exit status.
func (r Result) ExitCode() int {
	switch r {
	case Success:
		return 0
	case ErrorMismatch:
		return 2
	default:
		return 1
	}
}
