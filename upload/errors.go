package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/layout"
)

// RouteError reports a role/family/method combination with no procedure.
type RouteError struct {
	Role   Role
	Family layout.Family
	Method Method
}

func (e *RouteError) Error() string {
	allowed := SupportedMethods(e.Role, e.Family)
	if len(allowed) == 0 {
		return fmt.Sprintf("invalid upload method %q for %s/%s", e.Method, e.Role, e.Family)
	}

	names := make([]string, len(allowed))
	for i, m := range allowed {
		names[i] = string(m)
	}
	return fmt.Sprintf("invalid upload method %q for %s/%s (supported: %s)",
		e.Method, e.Role, e.Family, strings.Join(names, ", "))
}

// ErrSameFile is returned by the dir method when a destination is its own source.
var ErrSameFile = errors.New("source and destination are the same file")

// CopyError reports a failed file copy of the dir method.
type CopyError struct {
	Src string
	Dst string
	Err error
}

func (e *CopyError) Error() string {
	if e.Dst == "" {
		return fmt.Sprintf("copy %s: %v", e.Src, e.Err)
	}
	return fmt.Sprintf("copy %s to %s: %v", e.Src, e.Dst, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// MissingCollaboratorError reports a procedure whose dependency was not configured.
type MissingCollaboratorError struct {
	Name string
}

func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("no %s configured", e.Name)
}
