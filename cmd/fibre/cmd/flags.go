package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-drift/fibre/pkg/config"
)

// hostFlags are the flags shared by the commands that run the demo tree.
// Explicit flags override fibre.yaml.
type hostFlags struct {
	configPath string
	width      float64
	height     float64
	debugAddr  string
	logFile    string
}

func (h *hostFlags) add(fs *pflag.FlagSet) {
	fs.StringVarP(&h.configPath, "config", "c", "", "path to fibre.yaml (default: nearest fibre.yaml above the working directory)")
	fs.Float64Var(&h.width, "width", 0, "window width in logical pixels")
	fs.Float64Var(&h.height, "height", 0, "window height in logical pixels")
	fs.StringVar(&h.debugAddr, "debug-addr", "", "serve diagnostics over HTTP on this address")
	fs.StringVar(&h.logFile, "log-file", "", "append log records to this file")
}

// load resolves the configuration and applies flag overrides.
func (h *hostFlags) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := loadConfig(h.configPath)
	if err != nil {
		return nil, err
	}
	if fs.Changed("width") {
		cfg.Window.Width = h.width
	}
	if fs.Changed("height") {
		cfg.Window.Height = h.height
	}
	if fs.Changed("debug-addr") {
		cfg.Debug.Addr = h.debugAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logOutput opens the log destination. fallback is used without --log-file.
func (h *hostFlags) logOutput(fallback io.Writer) (io.Writer, func(), error) {
	if h.logFile == "" {
		return fallback, func() {}, nil
	}
	f, err := os.OpenFile(h.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if found, err := config.Find(dir); err == nil {
		dir = found
	}
	return config.LoadOptional(dir)
}

// parseFlags parses args into fs. It returns false when help was printed
// and the command should stop.
func parseFlags(cmd *Command, fs *pflag.FlagSet, args []string) (bool, error) {
	fs.BoolP("help", "h", false, "show help")
	fs.Usage = func() { printCommandHelp(cmd, fs) }
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printCommandHelp(cmd, fs)
			return false, nil
		}
		return false, err
	}
	if help, _ := fs.GetBool("help"); help {
		printCommandHelp(cmd, fs)
		return false, nil
	}
	if rest := fs.Args(); len(rest) > 0 {
		return false, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return true, nil
}

func printCommandHelp(cmd *Command, fs *pflag.FlagSet) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	if fs != nil {
		fmt.Println()
		fmt.Println("Flags:")
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
	}
}
