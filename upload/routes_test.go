package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

func TestResolveMatrix(t *testing.T) {
	want := map[Role]map[Method]procedure{
		RoleVRX: {
			MethodUART: procSerial,
			MethodWiFi: procWireless,
			MethodDir:  procDirCopy,
		},
		RoleTXBackpack: {
			MethodEdgeTX:      procInitPassthrough,
			MethodUART:        procSerial,
			MethodPassthrough: procPassthrough,
			MethodWiFi:        procWireless,
			MethodDir:         procDirCopy,
		},
	}

	for _, role := range Roles {
		for _, family := range layout.Families {
			for _, method := range Methods {
				name := role.String() + "/" + family.String() + "/" + method.String()
				t.Run(name, func(t *testing.T) {
					got, err := resolve(role, family, method)
					expected, legal := want[role][method]
					if !legal {
						var routeErr *RouteError
						require.True(t, errors.As(err, &routeErr), "want RouteError, got %v", err)
						assert.Equal(t, method, routeErr.Method)
						return
					}
					require.NoError(t, err)
					assert.Equal(t, expected, got)
				})
			}
		}
	}
}

func TestResolveUnknownValues(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		family layout.Family
		method Method
	}{
		{name: "unknown role", role: Role(0), family: layout.ESP32, method: MethodUART},
		{name: "unknown family", role: RoleTXBackpack, family: layout.Family(0), method: MethodUART},
		{name: "unknown method", role: RoleTXBackpack, family: layout.ESP32, method: Method("jtag")},
		{name: "dir with unknown family", role: RoleVRX, family: layout.Family(9), method: MethodDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(tt.role, tt.family, tt.method)
			assert.Error(t, err)
		})
	}
}

func TestDirIsRoleIndependent(t *testing.T) {
	for _, family := range layout.Families {
		got, err := resolve(Role(0), family, MethodDir)
		require.NoError(t, err)
		assert.Equal(t, procDirCopy, got)
	}
}

func TestSupportedMethods(t *testing.T) {
	assert.Equal(t,
		[]Method{MethodUART, MethodWiFi, MethodDir},
		SupportedMethods(RoleVRX, layout.ESP32))
	assert.Equal(t,
		[]Method{MethodUART, MethodPassthrough, MethodEdgeTX, MethodWiFi, MethodDir},
		SupportedMethods(RoleTXBackpack, layout.ESP8266))
	assert.Empty(t, SupportedMethods(RoleVRX, layout.Family(0)))
}

func TestProcedureString(t *testing.T) {
	assert.Equal(t, "init-passthrough", procInitPassthrough.String())
	assert.Equal(t, "unknown", procedure(0).String())
}
