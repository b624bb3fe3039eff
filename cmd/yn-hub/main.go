// Package main provides the yn-hub CLI application.
//
// yn-hub hosts the command channel of an EasyRPG game: the game writes
// "gotoURL <location>" into a text file of its virtual filesystem, and the
// hub navigates the connected host pages to that location.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("yn-hub", flag.ContinueOnError)
	flags.SetOutput(stdout)
	configPath := flags.String("config", "", "path to configuration file")
	showVersion := flags.Bool("version", false, "show version information")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "yn-hub %s\n", version)
		return nil
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return showUsage(stdout)
	}

	a := &app{configPath: *configPath, out: stdout}
	command, cmdArgs := rest[0], rest[1:]

	switch command {
	case "run":
		return a.runServe(cmdArgs)
	case "send":
		return a.runSend(cmdArgs)
	case "clear":
		return a.runClear()
	case "read":
		return a.runRead()
	case "ls":
		return a.runList(cmdArgs)
	case "history":
		return a.runHistory(cmdArgs)
	case "counters":
		return a.runCounters(cmdArgs)
	case "config":
		cmd := &configCommand{configPath: *configPath, out: stdout}
		return cmd.Execute(cmdArgs)
	case "help":
		return showUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// showUsage displays usage information.
func showUsage(w io.Writer) error {
	usage := `YN-HUB - file-mediated command channel for EasyRPG hosts

Usage:
  yn-hub [flags] <command> [command flags]

Commands:
  run         Watch the command channel and serve the host bridge
  send        Write a command to the channel
  clear       Empty the channel
  read        Print the current channel content
  ls          List a virtual directory
  history     Show handled commands
  counters    Fetch and publish counters once
  config      Configuration management (show, path, init)
  help        Show this help message

Global Flags:
  -config     Path to configuration file (or YNHUB_CONFIG)
  -version    Show version information

Run Command Flags:
  -dry-run    Log navigations instead of serving the host bridge

History Command Flags:
  -limit      Number of entries to show (default: 20, 0 for all)
  -format     Output format (table, json, simple)
  -timestamps Show timestamps

Examples:
  # Serve the host bridge and handle commands
  yn-hub run

  # Ask connected hosts to navigate
  yn-hub send gotoURL https://ynoproject.net/2kki/

  # Show the last 5 handled commands as JSON
  yn-hub history -limit 5 -format json

  # List the texts directory of the virtual filesystem
  yn-hub ls /easyrpg/texts

Version: %s
`

	_, err := fmt.Fprintf(w, usage, version)
	return err
}
