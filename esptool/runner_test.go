package esptool

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunnerCommand(t *testing.T) {
	r := NewRunner()
	assert.Equal(t, []string{DefaultCommand, "--chip", "esp32"}, r.Command([]string{"--chip", "esp32"}))

	r = NewRunner(WithCommand("python3", "external/esptool/esptool.py"))
	assert.Equal(t,
		[]string{"python3", "external/esptool/esptool.py", "write_flash"},
		r.Command([]string{"write_flash"}))

	r = NewRunner(WithCommand(""))
	assert.Equal(t, DefaultCommand, r.Command(nil)[0])
}

func TestRunnerRun(t *testing.T) {
	requireShell(t)

	t.Run("success streams output", func(t *testing.T) {
		var stdout bytes.Buffer
		r := NewRunner(
			WithCommand("sh", "-c", `echo "$FLASHER_MARK $1"`, "esptool"),
			WithOutput(&stdout, &stdout),
			WithEnv("FLASHER_MARK=wrote"),
		)

		require.NoError(t, r.Run(context.Background(), []string{"0x0000"}))
		assert.Equal(t, "wrote 0x0000\n", stdout.String())
	})

	t.Run("non-zero exit", func(t *testing.T) {
		var sink bytes.Buffer
		r := NewRunner(WithCommand("sh", "-c", "exit 2", "esptool"), WithOutput(&sink, &sink))

		err := r.Run(context.Background(), []string{"--chip", "esp32"})
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), "got %v", err)
		assert.Equal(t, 2, exitErr.Code)
		assert.Equal(t, []string{"--chip", "esp32"}, exitErr.Args)
	})

	t.Run("missing executable", func(t *testing.T) {
		r := NewRunner(WithCommand("esptool-that-does-not-exist"))
		err := r.Run(context.Background(), nil)
		require.Error(t, err)
		var exitErr *ExitError
		assert.False(t, errors.As(err, &exitErr))
		assert.Contains(t, err.Error(), "start esptool")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		var sink bytes.Buffer
		r := NewRunner(WithCommand("sh", "-c", "exec sleep 5", "esptool"), WithOutput(&sink, &sink))
		err := r.Run(ctx, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Code: 1, Args: []string{"--chip", "esp8266"}}
	assert.Equal(t, "esptool exited with status 1 (args: --chip esp8266)", err.Error())
}
