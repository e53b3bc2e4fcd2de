package esptool

import (
	"fmt"
	"strings"
)

// ExitError reports an esptool run that exited with a non-zero status.
type ExitError struct {
	// Code is the process exit status
	Code int

	// Args is the argument vector passed to esptool
	Args []string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("esptool exited with status %d (args: %s)", e.Code, strings.Join(e.Args, " "))
}
