package esptool

// DefaultCommand is the esptool executable looked up in PATH.
const DefaultCommand = "esptool.py"

// Chip names accepted by --chip.
const (
	ChipESP8266 = "esp8266"
	ChipESP32   = "esp32"
)

// Actions accepted by --before.
const (
	BeforeNoReset = "no_reset"

	// BeforePassthru is the ExpressLRS fork action that relies on an
	// already established radio passthrough.
	BeforePassthru = "passthru"
)

// Actions accepted by --after.
const (
	ResetSoft = "soft_reset"
	ResetHard = "hard_reset"
)

// ESP32 flash parameters used for multi-partition writes.
const (
	FlashModeDIO    = "dio"
	FlashFreq40M    = "40m"
	FlashSizeDetect = "detect"
)

// Baud rates used by the upload procedures.
const (
	// BaudDefault replaces a zero baud request
	BaudDefault = 460800

	// BaudPassthroughInit is the rate of the init passthrough handshake and the flash that follows
	BaudPassthroughInit = 460800

	// BaudPassthrough is the fixed rate for direct passthrough flashing
	BaudPassthrough = 230400
)
