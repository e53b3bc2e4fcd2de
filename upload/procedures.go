package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/backpack"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/esptool"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

// transport is the serial side of a flash: how esptool reaches the target.
type transport struct {
	baud        int
	passthrough bool
	before      string

	// handshake runs the init passthrough sequence first
	handshake bool
}

func serialTransport(req Request) transport {
	return transport{baud: req.Baud}
}

var initPassthroughTransport = transport{
	baud:        esptool.BaudPassthroughInit,
	passthrough: true,
	before:      esptool.BeforeNoReset,
	handshake:   true,
}

var passthroughTransport = transport{
	baud:        esptool.BaudPassthrough,
	passthrough: true,
	before:      esptool.BeforePassthru,
}

// Default WiFi host names per role, plain name first.
var wifiHosts = map[Role][]string{
	RoleVRX:        {"elrs_vrx", "elrs_vrx.local"},
	RoleTXBackpack: {"elrs_txbp", "elrs_txbp.local"},
}

// flash runs one esptool write_flash for the request's partition set.
func (d *Dispatcher) flash(ctx context.Context, req Request, t transport) error {
	if d.config.Engine == nil {
		return &MissingCollaboratorError{Name: "flashing engine"}
	}

	set, err := layout.Resolve(d.config.Fs, req.Family, req.File)
	if err != nil {
		return fmt.Errorf("resolve partition files: %w", err)
	}

	port := req.Port
	if port == "" {
		if d.config.PortFinder == nil {
			return &MissingCollaboratorError{Name: "serial port finder"}
		}
		d.reportProgress(Progress{Phase: PhaseDiscovering, Method: req.Method})
		port, err = d.config.PortFinder.FindPort(ctx)
		if err != nil {
			return fmt.Errorf("find serial port: %w", err)
		}
		d.logInfo("using serial port", "port", port)
	}

	if t.handshake {
		if d.config.Passthrough == nil {
			return &MissingCollaboratorError{Name: "passthrough initializer"}
		}
		d.reportProgress(Progress{Phase: PhaseHandshake, Method: req.Method, Port: port})
		if err := d.config.Passthrough.Init(ctx, port, t.baud); err != nil {
			return fmt.Errorf("init passthrough: %w", err)
		}
	}

	args, err := esptool.WriteFlashArgs(esptool.Options{
		Chip:        chipName(req.Family),
		Port:        port,
		Baud:        t.baud,
		Before:      t.before,
		After:       resetAfter(req.Family),
		Passthrough: t.passthrough,
		Flash:       flashParams(req.Family),
		Writes:      set.Writes(),
	})
	if err != nil {
		return err
	}

	d.reportProgress(Progress{Phase: PhaseFlashing, Method: req.Method, Port: port})
	d.logDebug("running flashing engine", "args", strings.Join(args, " "))

	if err := d.config.Engine.Run(ctx, args); err != nil {
		return fmt.Errorf("flash: %w", err)
	}
	return nil
}

// uploadWireless hands the image to the WiFi uploader.
func (d *Dispatcher) uploadWireless(ctx context.Context, req Request) error {
	if d.config.Wireless == nil {
		return &MissingCollaboratorError{Name: "wireless uploader"}
	}

	addrs := append([]string(nil), wifiHosts[req.Role]...)
	if req.Port != "" {
		addrs = []string{req.Port}
	}

	d.reportProgress(Progress{
		Phase:  PhaseUploading,
		Method: req.Method,
		Port:   strings.Join(addrs, ","),
	})

	return d.config.Wireless.Upload(ctx, wirelessPayload(req), wirelessMode(req), addrs, false, map[string]string{})
}

// copyDir copies the image files to the output directory.
func (d *Dispatcher) copyDir(req Request) error {
	set, err := layout.Resolve(d.config.Fs, req.Family, req.File)
	if err != nil {
		return &CopyError{Src: req.File, Err: err}
	}
	if req.OutDir == "" {
		return &CopyError{Src: req.File, Err: fmt.Errorf("no output directory")}
	}

	files := set.Files()
	for _, src := range files {
		dst := filepath.Join(req.OutDir, filepath.Base(src))
		if sameFile(d.config.Fs, src, dst) {
			return &CopyError{Src: src, Dst: dst, Err: ErrSameFile}
		}
	}

	d.reportProgress(Progress{Phase: PhaseCopying, Method: req.Method, Port: req.OutDir})

	for _, src := range files {
		dst := filepath.Join(req.OutDir, filepath.Base(src))
		if err := copyFile(d.config.Fs, src, dst); err != nil {
			return &CopyError{Src: src, Dst: dst, Err: err}
		}
		d.logDebug("copied", "src", src, "dst", dst)
	}
	return nil
}

// sameFile reports whether dst names src. Paths are compared first; on the
// OS filesystem links and bind mounts are caught by comparing file identity.
func sameFile(fs afero.Fs, src, dst string) bool {
	a, errA := filepath.Abs(src)
	b, errB := filepath.Abs(dst)
	if errA == nil && errB == nil && a == b {
		return true
	}

	if _, ok := fs.(*afero.OsFs); !ok {
		return false
	}
	si, err := os.Stat(src)
	if err != nil {
		return false
	}
	di, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return os.SameFile(si, di)
}

// copyFile copies contents, permission bits and modification time.
func copyFile(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return fs.Chtimes(dst, info.ModTime(), info.ModTime())
}

func wirelessMode(req Request) backpack.Mode {
	switch {
	case req.Force:
		return backpack.ModeForce
	case req.Confirm:
		return backpack.ModeConfirm
	default:
		return backpack.ModeUpload
	}
}

// wirelessPayload picks the image a device accepts over WiFi: ESP8266
// devices take the gzip image built beside the primary file.
func wirelessPayload(req Request) string {
	if req.Family == layout.ESP8266 {
		return filepath.Join(filepath.Dir(req.File), layout.CompressedFirmwareFile)
	}
	return req.File
}

func chipName(f layout.Family) string {
	if f == layout.ESP32 {
		return esptool.ChipESP32
	}
	return esptool.ChipESP8266
}

func resetAfter(f layout.Family) string {
	if f == layout.ESP32 {
		return esptool.ResetHard
	}
	return esptool.ResetSoft
}

func flashParams(f layout.Family) *esptool.FlashParams {
	if f != layout.ESP32 {
		return nil
	}
	return &esptool.FlashParams{
		Compress: true,
		Mode:     esptool.FlashModeDIO,
		Freq:     esptool.FlashFreq40M,
		Size:     esptool.FlashSizeDetect,
	}
}
