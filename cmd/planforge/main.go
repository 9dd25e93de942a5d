package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/db"
	"github.com/planforge/planforge/internal/llm"
	"github.com/planforge/planforge/internal/logging"
	"github.com/planforge/planforge/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"generate": true, "get": true, "recent": true,
	"update-tasks": true, "export": true,
	"serve": true, "health": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// baseDir returns the data directory, ~/.planforge unless overridden.
func baseDir() (string, error) {
	if dir := os.Getenv("PLANFORGE_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".planforge"), nil
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
        _            __
   ___ | |__ _ _ _  / _|___ _ _ __ _ ___
  | _ \| / _` + "`" + ` | ' \|  _/ _ \ '_/ _` + "`" + `/ -_)
  | .__/|_\__,_|_||_|_| \___/_| \__, |\___|
  |_|                           |___/

  Feature plan generator

  Usage: planforge <command> [options]
         planforge --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any initialization
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dir, err := baseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.Init(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	for _, warning := range cfg.Validate() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	logger, err := logging.New(os.Getenv("PLANFORGE_DEBUG") != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gateway := llm.NewGateway(llm.NewClient(cfg), cfg.MaxAttempts, logger)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, gateway, logger)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'planforge --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(database, gateway, logger, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
