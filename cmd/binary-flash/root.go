package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/backpack"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/config"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/esptool"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/passthrough"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/serials"
	"github.com/kotannio/https-github.com-ExpressLRS-Backpack/upload"
)

// retryDelay is the pause between WiFi upload attempts to one address.
const retryDelay = time.Second

// run executes the command line and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var res upload.Result
	cmd := newRootCmd(&res, stdin)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return res.ExitCode()
}

func newRootCmd(res *upload.Result, stdin io.Reader) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "binary-flash [flags] file",
		Short: "Flash prebuilt backpack firmware",
		Long: "Uploads a prebuilt firmware image to a VRX or TX backpack over UART,\n" +
			"EdgeTX or transmitter passthrough, or WiFi, or copies it to a directory.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.File = args[0]
			}
			r, err := flash(cmd, opts, stdin)
			*res = r
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Target, "target", "", "unified target id, e.g. vrx.steadyview.esp32.generic or txbp.esp8266")
	f.StringVar(&opts.Flash, "flash", "", "flashing method: uart, passthru, edgetx, wifi or dir")
	f.StringVar(&opts.Out, "out", "", "output directory for the dir method")
	f.StringVar(&opts.Port, "port", "", "serial port or WiFi address to flash firmware to")
	f.IntVar(&opts.Baud, "baud", 0, "baud rate for serial communication (0 selects 460800)")
	f.BoolVar(&opts.Force, "force", false, "force upload even if target does not match")
	f.BoolVar(&opts.Confirm, "confirm", false, "confirm upload if a mismatched target was previously uploaded")
	f.StringVar(&opts.ConfigDir, "config", ".", "directory holding flasher.yaml and .env")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	f.String("esptool", "", "esptool executable (ESPTOOL_PATH)")
	f.Int("console-baud", 0, "transmitter console baud rate (CONSOLE_BAUD)")
	f.Int("wifi-timeout", 0, "WiFi upload timeout in seconds (WIFI_TIMEOUT_SECONDS)")
	f.Int("wifi-retries", 0, "WiFi upload retries per address (WIFI_RETRIES)")

	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("flash")

	return cmd
}

// flash builds the collaborators from configuration and runs one upload.
func flash(cmd *cobra.Command, opts *options, stdin io.Reader) (upload.Result, error) {
	if err := opts.check(); err != nil {
		return upload.ErrorGeneral, err
	}

	role, family, err := parseTarget(opts.Target)
	if err != nil {
		return upload.ErrorGeneral, err
	}

	cfg, err := config.Load(opts.ConfigDir, cmd.Flags())
	if err != nil {
		return upload.ErrorGeneral, err
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	wifiOpts := []backpack.Option{
		backpack.WithTimeout(cfg.WiFiTimeout()),
		backpack.WithRetries(cfg.WiFiRetries, retryDelay),
		backpack.WithLogger(logger),
	}
	if c := terminalConfirmer(stdin, cmd.ErrOrStderr()); c != nil {
		wifiOpts = append(wifiOpts, backpack.WithConfirmer(c))
	}

	d := upload.New(
		upload.WithEngine(esptool.NewRunner(
			esptool.WithCommand(cfg.EsptoolPath, cfg.EsptoolPrefix()...),
			esptool.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		)),
		upload.WithPortFinder(serials.New()),
		upload.WithPassthrough(passthrough.New(
			passthrough.WithConsoleBaud(cfg.ConsoleBaud),
			passthrough.WithReadTimeout(cfg.HandshakeReadTimeout()),
			passthrough.WithLogger(logger),
		)),
		upload.WithWireless(backpack.New(wifiOpts...)),
		upload.WithLogger(logger),
	)

	logger.Info("flashing",
		"role", role.String(),
		"family", family.String(),
		"method", opts.Flash,
		"file", opts.File,
	)

	res, err := d.Upload(cmd.Context(), upload.Request{
		Role:    role,
		Family:  family,
		Method:  upload.Method(opts.Flash),
		File:    opts.File,
		OutDir:  opts.Out,
		Port:    opts.Port,
		Baud:    opts.Baud,
		Force:   opts.Force,
		Confirm: opts.Confirm,
	})
	if err != nil {
		return res, err
	}

	if res != upload.Success {
		fmt.Fprintf(cmd.ErrOrStderr(), "upload failed: %s\n", res)
	}
	return res, nil
}

// terminalConfirmer returns a Confirmer that asks on the terminal, or nil
// when stdin is not a terminal.
func terminalConfirmer(stdin io.Reader, prompt io.Writer) backpack.Confirmer {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return promptConfirmer(bufio.NewReader(stdin), prompt)
}

func promptConfirmer(in *bufio.Reader, prompt io.Writer) backpack.Confirmer {
	return func(addr, msg string) bool {
		fmt.Fprintf(prompt, "%s reports a target mismatch: %s\nFlash anyway? [y/N] ", addr, msg)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
