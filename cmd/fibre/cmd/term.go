package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/engine"
	"github.com/go-drift/fibre/pkg/term"
	"github.com/go-drift/fibre/pkg/widgets"
)

// Logical size of one terminal cell.
const (
	cellWidth  = 8
	cellHeight = 16
)

var termCmd *Command

func init() {
	termCmd = &Command{
		Name:  "term",
		Short: "Run the demo in the terminal",
		Long: `Run the demo tree in the terminal with the character-cell backend.

Keys and mouse motion are delivered to the tree as events. Press +/- to
change the counter, esc to dismiss the toast and Ctrl+C to quit. Logs are
discarded unless --log-file is set, since the terminal shows the frames.`,
		Usage: "fibre term [flags]",
		Run:   runTerm,
	}
	RegisterCommand(termCmd)
}

func runTerm(args []string) error {
	var host hostFlags
	fs := pflag.NewFlagSet("term", pflag.ContinueOnError)
	host.add(fs)
	if ok, err := parseFlags(termCmd, fs, args); !ok || err != nil {
		return err
	}
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return fmt.Errorf("term needs an interactive terminal; use \"fibre frames\" for headless output")
	}

	cfg, err := host.load(fs)
	if err != nil {
		return err
	}
	out, closeLog, err := host.logOutput(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()
	log := cfg.Logger(out)

	cols := int(math.Ceil(cfg.Window.Width / cellWidth))
	rows := int(math.Ceil(cfg.Window.Height / cellHeight))
	surface := term.NewSurface(cols, rows, cellWidth, cellHeight)
	size := surface.LogicalSize()
	f := core.New(surface, size.Width, size.Height, cfg.Options(log)...)
	r := engine.NewRunner(f, cfg.RunnerOptions(log)...)
	mountDemo(f, cfg.Window.Title, r.RequestRedraw, widgets.SystemClock)

	if cfg.Debug.Addr != "" {
		port, err := r.StartDebugServer(cfg.Debug.Addr)
		if err != nil {
			return err
		}
		log.Info("debug server listening", "port", port)
		defer r.StopDebugServer()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
		cancel()
	}()

	err = term.Run(ctx, surface, r.Send)
	cancel()
	if runErr := <-done; err == nil {
		err = runErr
	}
	return err
}
