package backpack

import (
	"errors"
	"fmt"
)

// MismatchError reports a device that holds firmware for a different target.
type MismatchError struct {
	Addr string
	Msg  string
}

func (e *MismatchError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("target mismatch on %s", e.Addr)
	}
	return fmt.Sprintf("target mismatch on %s: %s", e.Addr, e.Msg)
}

// StatusError reports a device that answered but rejected the upload.
type StatusError struct {
	Addr string

	// Code is the HTTP status code
	Code int

	// Status is the "status" field of the JSON reply, if any
	Status string

	Msg string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("upload to %s rejected: %s: %s", e.Addr, e.Status, e.Msg)
	}
	return fmt.Sprintf("upload to %s failed: HTTP %d: %s", e.Addr, e.Code, e.Msg)
}

// ConfirmError reports a failed mismatch confirmation. The device has
// already answered the upload, so the image is not sent again.
type ConfirmError struct {
	Addr string
	Err  error
}

func (e *ConfirmError) Error() string {
	return fmt.Sprintf("confirm update on %s: %v", e.Addr, e.Err)
}

func (e *ConfirmError) Unwrap() error {
	return e.Err
}

// IsMismatch returns true if err is or wraps a MismatchError.
func IsMismatch(err error) bool {
	var m *MismatchError
	return errors.As(err, &m)
}

// answered reports whether err came from a device reply rather than the transport.
func answered(err error) bool {
	var s *StatusError
	var c *ConfirmError
	return IsMismatch(err) || errors.As(err, &s) || errors.As(err, &c)
}
