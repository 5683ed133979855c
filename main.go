// ABOUTME: Entry point for the measurebook CLI, TUI, and MCP server
// ABOUTME: Routes to the workbook editor or a single command based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/harperreed/measurebook/cli"
	"github.com/harperreed/measurebook/config"
	"github.com/harperreed/measurebook/logging"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/measurebook)")
	debug := flag.Bool("debug", false, "Verbose logging to stderr")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("measurebook version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"tui"}
	}

	command := args[0]
	commandArgs := args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		os.Exit(0)
	}
	if !knownCommand(command) {
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(*dataDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *debug {
		cfg.Debug = true
	}

	logger := logging.New(cfg.LogFile, cfg.Debug)
	defer func() { _ = logger.Sync() }()

	app, err := cli.Open(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open workbook: %v", err)
	}

	logger.Debug("command started", zap.String("command", command), zap.String("data_dir", cfg.DataDir))
	runErr := run(app, command, commandArgs)

	if err := app.Close(); err != nil {
		logger.Error("close failed", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		log.Fatalf("Error: %v", runErr)
	}
}

var commands = []string{
	"tui", "show", "set", "toggle", "select", "fields",
	"attach", "detach", "photos", "validate",
	"export", "history", "reset", "config", "mcp",
}

func knownCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}

func run(app *cli.App, command string, args []string) error {
	switch command {
	case "tui":
		return cli.TUICommand(app)
	case "show":
		return cli.ShowCommand(app, args)
	case "set":
		return cli.SetCommand(app, args)
	case "toggle":
		return cli.ToggleCommand(app, args)
	case "select":
		return cli.SelectCommand(app, args)
	case "fields":
		return cli.FieldsCommand(app, args)
	case "attach":
		return cli.AttachCommand(app, args)
	case "detach":
		return cli.DetachCommand(app, args)
	case "photos":
		return cli.PhotosCommand(app, args)
	case "validate":
		return cli.ValidateCommand(app, args)
	case "export":
		return cli.ExportCommand(app, args)
	case "history":
		return cli.HistoryCommand(app, args)
	case "reset":
		return cli.ResetCommand(app, args)
	case "config":
		return cli.ConfigCommand(app, args)
	case "mcp":
		return cli.MCPCommand(app, version)
	}
	return fmt.Errorf("unknown command: %s", command)
}

func printUsage() {
	fmt.Printf(`measurebook v%s - Shower remodel measurement workbook

USAGE:
  measurebook [global flags] [command] [args] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --data-dir <path>      Data directory (default: ~/.local/share/measurebook)
  --debug                Verbose logging to stderr

COMMANDS:
  tui                    Step-by-step workbook editor (default)
  show                   Print the workbook summary and warnings
  set <key> <value>      Set a text field
  toggle <key>           Flip a checkbox
  select <group> [value] Choose an option (omit value to clear)
  fields                 List every field key and option group
  attach <slot> <file>   Compress and attach a photo
  detach [--yes] <slot>  Remove a photo
  photos                 List photo slots
  validate               Check measurements against typical ranges
  export                 Write the workbook to a file
    --format <fmt>         json, yaml, or xlsx (default: json)
    --out <dir>            Output directory (default: <data-dir>/exports)
  history [id]           List past exports, or show one by id
    --customer <name>      Filter by customer name
    --limit <n>            Max results (default: 20)
  reset [--yes]          Start a new workbook, deleting all data and photos
  config [--save]        Show effective settings, optionally writing config.json
  mcp                    Start MCP server on stdio

EXAMPLES:
  measurebook set jobInfo.customerName "Jane Doe"
  measurebook select showerType walk-in
  measurebook attach entry ~/Pictures/bath.jpg
  measurebook export --format xlsx

`, version)
}
