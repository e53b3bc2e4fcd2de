package upload

import (
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

// procedure identifies one transport procedure.
type procedure int

const (
	procSerial procedure = iota + 1
	procInitPassthrough
	procPassthrough
	procWireless
	procDirCopy
)

func (p procedure) String() string {
	switch p {
	case procSerial:
		return "serial"
	case procInitPassthrough:
		return "init-passthrough"
	case procPassthrough:
		return "passthrough"
	case procWireless:
		return "wireless"
	case procDirCopy:
		return "directory-copy"
	default:
		return "unknown"
	}
}

type route struct {
	role   Role
	family layout.Family
	method Method
}

// routes is the compatibility table. The dir method is not listed: it is
// legal for every role and resolved by family alone.
var routes = map[route]procedure{
	{RoleVRX, layout.ESP8266, MethodUART}: procSerial,
	{RoleVRX, layout.ESP8266, MethodWiFi}: procWireless,
	{RoleVRX, layout.ESP32, MethodUART}:   procSerial,
	{RoleVRX, layout.ESP32, MethodWiFi}:   procWireless,

	{RoleTXBackpack, layout.ESP8266, MethodEdgeTX}:      procInitPassthrough,
	{RoleTXBackpack, layout.ESP8266, MethodUART}:        procSerial,
	{RoleTXBackpack, layout.ESP8266, MethodPassthrough}: procPassthrough,
	{RoleTXBackpack, layout.ESP8266, MethodWiFi}:        procWireless,
	{RoleTXBackpack, layout.ESP32, MethodEdgeTX}:        procInitPassthrough,
	{RoleTXBackpack, layout.ESP32, MethodUART}:          procSerial,
	{RoleTXBackpack, layout.ESP32, MethodPassthrough}:   procPassthrough,
	{RoleTXBackpack, layout.ESP32, MethodWiFi}:          procWireless,
}

// resolve maps a combination to its procedure. It performs no I/O.
func resolve(role Role, family layout.Family, method Method) (procedure, error) {
	if method == MethodDir {
		if !family.Valid() {
			return 0, &RouteError{Role: role, Family: family, Method: method}
		}
		return procDirCopy, nil
	}

	p, ok := routes[route{role, family, method}]
	if !ok {
		return 0, &RouteError{Role: role, Family: family, Method: method}
	}
	return p, nil
}

// SupportedMethods returns the methods legal for role and family, in the
// order of Methods. The dir method is included for any valid family.
func SupportedMethods(role Role, family layout.Family) []Method {
	var out []Method
	for _, m := range Methods {
		if _, err := resolve(role, family, m); err == nil {
			out = append(out, m)
		}
	}
	return out
}
