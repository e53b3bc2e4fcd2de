package esptool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes esptool as a subprocess.
type Runner struct {
	command string
	prefix  []string
	stdout  io.Writer
	stderr  io.Writer
	env     []string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCommand sets the executable and any leading arguments, e.g.
// WithCommand("python3", "external/esptool/esptool.py").
func WithCommand(command string, prefix ...string) RunnerOption {
	return func(r *Runner) {
		if command != "" {
			r.command = command
			r.prefix = append([]string(nil), prefix...)
		}
	}
}

// WithOutput sets where esptool's stdout and stderr are copied.
func WithOutput(stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv appends KEY=value entries to the subprocess environment.
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// NewRunner creates a Runner for DefaultCommand writing to the process stdout/stderr.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		command: DefaultCommand,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Command returns the full argv that Run would execute for args.
func (r *Runner) Command(args []string) []string {
	argv := make([]string, 0, 1+len(r.prefix)+len(args))
	argv = append(argv, r.command)
	argv = append(argv, r.prefix...)
	return append(argv, args...)
}

// Run executes esptool with args and waits for it to exit.
// A non-zero exit status is returned as *ExitError.
func (r *Runner) Run(ctx context.Context, args []string) error {
	argv := r.Command(args)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("esptool interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Args: args}
	}
	return fmt.Errorf("start esptool: %w", err)
}
