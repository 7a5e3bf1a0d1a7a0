package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/go-drift/fibre/pkg/config"
)

var configCmd *Command

func init() {
	configCmd = &Command{
		Name:  "config",
		Short: "Show or create fibre.yaml",
		Long: `Print the resolved configuration as YAML.

Without --config, the nearest fibre.yaml above the working directory is
used, or the defaults when there is none. With --init, a default
fibre.yaml is written to the given directory instead.`,
		Usage: "fibre config [--init DIR [--force]] [flags]",
		Run:   runConfig,
	}
	RegisterCommand(configCmd)
}

func runConfig(args []string) error {
	var host hostFlags
	var initDir string
	var force bool

	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	host.add(fs)
	fs.StringVar(&initDir, "init", "", "write a default fibre.yaml into this directory")
	fs.BoolVar(&force, "force", false, "overwrite an existing fibre.yaml with --init")
	if ok, err := parseFlags(configCmd, fs, args); !ok || err != nil {
		return err
	}

	if initDir != "" {
		return writeDefaultConfig(initDir, force)
	}

	cfg, err := host.load(fs)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func writeDefaultConfig(dir string, force bool) error {
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
