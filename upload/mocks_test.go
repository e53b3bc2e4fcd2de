package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/backpack"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

// calls records collaborator invocations in order across all fakes.
type calls []string

func (c *calls) add(format string, args ...interface{}) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

// MockEngine records esptool argument vectors.
type MockEngine struct {
	log  *calls
	runs [][]string
	err  error
}

func (e *MockEngine) Run(ctx context.Context, args []string) error {
	e.log.add("engine")
	e.runs = append(e.runs, args)
	return e.err
}

// MockFinder returns a fixed port.
type MockFinder struct {
	log  *calls
	port string
	err  error
}

func (f *MockFinder) FindPort(ctx context.Context) (string, error) {
	f.log.add("find")
	return f.port, f.err
}

// MockHandshaker records init passthrough requests.
type MockHandshaker struct {
	log *calls
	err error
}

func (h *MockHandshaker) Init(ctx context.Context, port string, baud int) error {
	h.log.add("handshake %s %d", port, baud)
	return h.err
}

// MockWireless records WiFi uploads.
type MockWireless struct {
	log     *calls
	payload string
	mode    backpack.Mode
	addrs   []string
	isSTM   bool
	params  map[string]string
	err     error
}

func (w *MockWireless) Upload(ctx context.Context, payload string, mode backpack.Mode, addrs []string, isSTM bool, params map[string]string) error {
	w.log.add("wireless")
	w.payload = payload
	w.mode = mode
	w.addrs = addrs
	w.isSTM = isSTM
	w.params = params
	return w.err
}

// MockLogger collects messages by level.
type MockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.debugMsgs = append(l.debugMsgs, msg)
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.infoMsgs = append(l.infoMsgs, msg)
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.errorMsgs = append(l.errorMsgs, msg)
}

// harness bundles a dispatcher with recording fakes.
type harness struct {
	calls     calls
	engine    *MockEngine
	finder    *MockFinder
	handshake *MockHandshaker
	wireless  *MockWireless
	logger    *MockLogger
	fs        afero.Fs
	progress  []Progress
	d         *Dispatcher
}

const (
	buildDir    = "build"
	primaryFile = "build/firmware.bin"
	foundPort   = "/dev/ttyUSB0"
)

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{fs: afero.NewMemMapFs(), logger: &MockLogger{}}
	h.engine = &MockEngine{log: &h.calls}
	h.finder = &MockFinder{log: &h.calls, port: foundPort}
	h.handshake = &MockHandshaker{log: &h.calls}
	h.wireless = &MockWireless{log: &h.calls}

	for _, name := range []string{
		"firmware.bin",
		layout.BootloaderFile,
		layout.PartitionTableFile,
		layout.AppSelectorFile,
		layout.CompressedFirmwareFile,
	} {
		require.NoError(t, afero.WriteFile(h.fs, filepath.Join(buildDir, name), []byte(name), 0o644))
	}

	h.d = New(
		WithEngine(h.engine),
		WithPortFinder(h.finder),
		WithPassthrough(h.handshake),
		WithWireless(h.wireless),
		WithFs(h.fs),
		WithLogger(h.logger),
		WithProgressCallback(func(p Progress) { h.progress = append(h.progress, p) }),
	)
	return h
}

func (h *harness) phases() []string {
	var out []string
	for _, p := range h.progress {
		out = append(out, p.Phase)
	}
	return out
}
