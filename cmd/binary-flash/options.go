package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// options holds the parsed command line.
type options struct {
	Target  string `validate:"required"`
	Flash   string `validate:"required,oneof=uart passthru edgetx wifi dir"`
	Out     string `validate:"required_if=Flash dir"`
	File    string `validate:"required"`
	Port    string
	Baud    int `validate:"gte=0"`
	Force   bool
	Confirm bool

	ConfigDir string
	Verbose   bool
}

var validate = validator.New()

// check validates the flags and the output directory.
func (o *options) check() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if o.Out != "" {
		if err := writableDir(o.Out); err != nil {
			return err
		}
	}
	return nil
}

// writableDir reports an error unless dir is an existing directory that
// accepts new files.
func writableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".binary-flash-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
