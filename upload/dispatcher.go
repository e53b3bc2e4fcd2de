package upload

import (
	"context"
	"errors"
	"time"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/backpack"
)

// Dispatcher resolves upload requests to a procedure and runs it.
//
// A Dispatcher holds no per-upload state; each Upload call is independent.
type Dispatcher struct {
	config Config
}

// New creates a Dispatcher with the given options.
//
// Example:
//
//	d := upload.New(
//	    upload.WithEngine(esptool.NewRunner()),
//	    upload.WithPortFinder(serials.New()),
//	)
func New(opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Dispatcher{config: cfg}
}

// Upload runs the single procedure legal for req.
//
// The returned error is non-nil only for failures that are not classified
// into a Result: a directory copy failure or a cancelled context. In both
// cases the Result is ErrorGeneral.
//
// Example:
//
//	res, err := d.Upload(ctx, upload.Request{
//	    Role:   upload.RoleVRX,
//	    Family: layout.ESP8266,
//	    Method: upload.MethodWiFi,
//	    File:   "firmware.bin",
//	})
func (d *Dispatcher) Upload(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	req = req.normalized()

	d.reportProgress(Progress{Phase: PhaseResolving, Method: req.Method})

	proc, err := resolve(req.Role, req.Family, req.Method)
	if err != nil {
		d.logError("Invalid upload method for firmware",
			"role", req.Role.String(),
			"family", req.Family.String(),
			"method", req.Method.String(),
			"error", err,
		)
		return ErrorGeneral, nil
	}

	d.logDebug("resolved upload procedure",
		"procedure", proc.String(),
		"role", req.Role.String(),
		"family", req.Family.String(),
		"method", req.Method.String(),
		"baud", req.Baud,
	)

	err = d.run(ctx, proc, req)
	res, fatal := classify(ctx, err)

	switch res {
	case Success:
		d.reportProgress(Progress{
			Phase:       PhaseComplete,
			Method:      req.Method,
			ElapsedTime: time.Since(start),
		})
		d.logInfo("upload complete",
			"method", req.Method.String(),
			"elapsed", time.Since(start).String(),
		)
	default:
		d.logError("upload failed",
			"method", req.Method.String(),
			"result", res.String(),
			"error", err,
		)
	}

	return res, fatal
}

// run executes the procedure. Every procedure error flows back to Upload
// for classification.
func (d *Dispatcher) run(ctx context.Context, proc procedure, req Request) error {
	switch proc {
	case procSerial:
		return d.flash(ctx, req, serialTransport(req))
	case procInitPassthrough:
		return d.flash(ctx, req, initPassthroughTransport)
	case procPassthrough:
		return d.flash(ctx, req, passthroughTransport)
	case procWireless:
		return d.uploadWireless(ctx, req)
	case procDirCopy:
		return d.copyDir(req)
	default:
		return &RouteError{Role: req.Role, Family: req.Family, Method: req.Method}
	}
}

// classify turns a procedure error into a Result. It is the only place
// errors are downgraded.
//
// Copy failures and cancellation are returned as fatal errors.
func classify(ctx context.Context, err error) (Result, error) {
	if err == nil {
		return Success, nil
	}

	var copyErr *CopyError
	if errors.As(err, &copyErr) {
		return ErrorGeneral, err
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorGeneral, err
	}
	if backpack.IsMismatch(err) {
		return ErrorMismatch, nil
	}
	return ErrorGeneral, nil
}

// reportProgress calls the progress callback if configured.
func (d *Dispatcher) reportProgress(progress Progress) {
	if d.config.ProgressCallback != nil {
		d.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (d *Dispatcher) logDebug(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (d *Dispatcher) logInfo(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (d *Dispatcher) logError(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Error(msg, keysAndValues...)
	}
}
