package upload

import "time"

// Phases reported through ProgressCallback.
const (
	PhaseResolving   = "resolving"
	PhaseDiscovering = "discovering"
	PhaseHandshake   = "handshake"
	PhaseFlashing    = "flashing"
	PhaseUploading   = "uploading"
	PhaseCopying     = "copying"
	PhaseComplete    = "complete"
)

// Progress describes where an upload is.
type Progress struct {
	// Phase is one of the Phase* constants
	Phase string

	Method Method

	// Port is the serial port or host list in use, once known
	Port string

	// ElapsedTime is the time since Upload was called
	ElapsedTime time.Duration
}

// ProgressCallback is called at each phase change. It must return quickly.
//
// Example:
//
//	d := upload.New(
//	    upload.WithProgressCallback(func(p upload.Progress) {
//	        fmt.Printf("[%s] %s %s\n", p.Phase, p.Method, p.Port)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface. *slog.Logger satisfies it.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
