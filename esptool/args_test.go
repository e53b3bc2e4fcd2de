package esptool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

var esp32Flash = &FlashParams{
	Compress: true,
	Mode:     FlashModeDIO,
	Freq:     FlashFreq40M,
	Size:     FlashSizeDetect,
}

var esp32Writes = []layout.Write{
	{Offset: 0x1000, Path: "out/bootloader.bin"},
	{Offset: 0x8000, Path: "out/partitions.bin"},
	{Offset: 0xe000, Path: "out/boot_app0.bin"},
	{Offset: 0x10000, Path: "out/firmware.bin"},
}

func TestWriteFlashArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "esp8266 uart",
			opts: Options{
				Chip:   ChipESP8266,
				Port:   "/dev/ttyUSB0",
				Baud:   460800,
				After:  ResetSoft,
				Writes: []layout.Write{{Offset: 0x0000, Path: "firmware.bin"}},
			},
			want: []string{
				"--chip", "esp8266", "--port", "/dev/ttyUSB0", "--baud", "460800",
				"--after", "soft_reset", "write_flash", "0x0000", "firmware.bin",
			},
		},
		{
			name: "esp8266 init passthrough",
			opts: Options{
				Chip:        ChipESP8266,
				Port:        "COM3",
				Baud:        BaudPassthroughInit,
				Before:      BeforeNoReset,
				After:       ResetSoft,
				Passthrough: true,
				Writes:      []layout.Write{{Offset: 0x0000, Path: "firmware.bin"}},
			},
			want: []string{
				"--passthrough", "--chip", "esp8266", "--port", "COM3", "--baud", "460800",
				"--before", "no_reset", "--after", "soft_reset", "write_flash", "0x0000", "firmware.bin",
			},
		},
		{
			name: "esp32 direct passthrough",
			opts: Options{
				Chip:        ChipESP32,
				Port:        "/dev/ttyACM0",
				Baud:        BaudPassthrough,
				Before:      BeforePassthru,
				After:       ResetHard,
				Passthrough: true,
				Flash:       esp32Flash,
				Writes:      esp32Writes,
			},
			want: []string{
				"--passthrough", "--chip", "esp32", "--port", "/dev/ttyACM0", "--baud", "230400",
				"--before", "passthru", "--after", "hard_reset", "write_flash",
				"-z", "--flash_mode", "dio", "--flash_freq", "40m", "--flash_size", "detect",
				"0x1000", "out/bootloader.bin", "0x8000", "out/partitions.bin",
				"0xe000", "out/boot_app0.bin", "0x10000", "out/firmware.bin",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WriteFlashArgs(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFlashArgsValidation(t *testing.T) {
	valid := Options{
		Chip:   ChipESP8266,
		Port:   "/dev/ttyUSB0",
		Baud:   115200,
		Writes: []layout.Write{{Offset: 0, Path: "fw.bin"}},
	}

	tests := []struct {
		name   string
		mutate func(*Options)
		errMsg string
	}{
		{name: "no chip", mutate: func(o *Options) { o.Chip = "" }, errMsg: "chip is required"},
		{name: "no port", mutate: func(o *Options) { o.Port = "" }, errMsg: "port is required"},
		{name: "zero baud", mutate: func(o *Options) { o.Baud = 0 }, errMsg: "baud must be positive"},
		{name: "no writes", mutate: func(o *Options) { o.Writes = nil }, errMsg: "at least one write"},
		{name: "empty path", mutate: func(o *Options) { o.Writes = []layout.Write{{Offset: 0x8000}} }, errMsg: "0x8000 has no file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			_, err := WriteFlashArgs(opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFormatOffset(t *testing.T) {
	tests := map[uint32]string{
		0x0000:  "0x0000",
		0x1000:  "0x1000",
		0xe000:  "0xe000",
		0x10000: "0x10000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatOffset(in))
	}
}
