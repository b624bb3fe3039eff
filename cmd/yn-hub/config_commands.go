package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jetrotal/YN-HUB/pkg/config"
)

// configCommand handles configuration management subcommands.
type configCommand struct {
	configPath string
	out        io.Writer
}

// Execute runs the config command with given arguments.
func (c *configCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "show":
		return c.runShow(subargs)
	case "path":
		return c.runPath()
	case "init":
		return c.runInit(subargs)
	case "help":
		return c.showHelp()
	default:
		return fmt.Errorf("unknown config subcommand: %s", subcommand)
	}
}

// runShow displays the effective configuration.
func (c *configCommand) runShow(args []string) error {
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	fs.SetOutput(c.out)
	format := fs.String("format", "yaml", "output format (yaml, json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.NewLoader(c.configPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch *format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(c.out, string(data))
		return nil
	case "yaml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, "# Current Configuration")
		fmt.Fprintln(c.out, "# Source:", c.source())
		fmt.Fprintln(c.out)
		fmt.Fprint(c.out, string(data))
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be yaml or json", *format)
	}
}

// runPath shows where configuration is read from.
func (c *configCommand) runPath() error {
	paths := []string{
		"./config.yaml",
		"./config.toml",
		config.DefaultPath(),
	}

	fmt.Fprintln(c.out, "Configuration file search paths (in order of precedence):")
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  -config flag or %s\n", config.EnvConfig)

	for i, p := range paths {
		exists := "not found"
		if _, err := os.Stat(p); err == nil {
			exists = "found"
		}
		fmt.Fprintf(c.out, "  %d. %s [%s]\n", i+1, p, exists)
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Active configuration:", c.source())
	return nil
}

// runInit writes the default configuration.
func (c *configCommand) runInit(args []string) error {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(c.out)
	force := fs.Bool("force", false, "overwrite an existing file")
	output := fs.String("output", "", "output path for config file (default: ~/.config/yn-hub/config.yaml)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = config.DefaultPath()
	}

	if _, err := os.Stat(outputPath); err == nil && !*force {
		return fmt.Errorf("configuration file already exists at %s (use -force to overwrite)", outputPath)
	}

	if err := config.Save(config.Default(), outputPath); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Default configuration written to: %s\n", outputPath)
	return nil
}

// source returns the path of the active configuration file.
func (c *configCommand) source() string {
	if p := config.ResolvePath(c.configPath); p != "" {
		return p
	}
	return "defaults (no config file found)"
}

// showHelp displays help for config command.
func (c *configCommand) showHelp() error {
	help := `Config - Configuration management

Usage:
  yn-hub config <subcommand> [flags]

Subcommands:
  show      Display the effective configuration
  path      Show configuration file paths
  init      Write the default configuration

Show Flags:
  -format   Output format (yaml, json) (default: yaml)

Init Flags:
  -force    Overwrite an existing file
  -output   Output path for config file

Examples:
  # Show current configuration
  yn-hub config show

  # Write defaults next to the binary
  yn-hub config init -output ./config.yaml
`
	_, err := fmt.Fprint(c.out, help)
	return err
}
