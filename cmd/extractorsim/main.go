package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/auth"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/config"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/db"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/document"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/logger"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/mcp"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"agents": true, "terminales": true, "notas": true, "historial": true,
	"inventario": true, "export": true, "sim": true, "supervisor": true,
	"serve": true, "info": true, "help": true,
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
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
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
	return isCharDevice(os.Stdin)
}

// isCharDevice reports false when f cannot be stat'ed, as with a closed stdin.
func isCharDevice(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  EXTRACTOR SIM

  SIM delivery records and PDF receipts

  Usage: extractorsim <command> [options]
         extractorsim --help

  MCP server mode requires piped input.`)
}

// baseDir is where config.json lives: EXTRACTORSIM_DATA_DIR, else next to the binary.
func baseDir() string {
	if dir := os.Getenv(config.EnvPrefix + "_DATA_DIR"); dir != "" {
		return dir
	}
	return config.ExecutableDir()
}

// buildDeps wires the store, the credential database and the renderer.
// The returned database must be closed by the caller.
func buildDeps(cfg *config.Config, log zerolog.Logger, chooser document.PathChooser) (*ops.Deps, *sql.DB, error) {
	st := store.New(cfg.DataDir, log.With().Str("component", "store").Logger())
	if err := st.Init(); err != nil {
		return nil, nil, err
	}

	database, err := db.Init(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize credential database: %w", err)
	}

	renderer := document.NewRenderer(
		&document.ChromeRasterizer{ExecPath: cfg.ChromePath},
		chooser,
		document.WithTimeout(time.Duration(cfg.RenderTimeoutSeconds)*time.Second),
		document.WithDefaults(document.PrintOptions{
			PageSize:        cfg.PageSize,
			Landscape:       cfg.Landscape,
			PrintBackground: cfg.PrintBackgroundEnabled(),
		}),
		document.WithLogger(log.With().Str("component", "document").Logger()),
	)

	return &ops.Deps{
		Store:    st,
		Auth:     auth.NewDBAuthenticator(database),
		Renderer: renderer,
		Chooser:  chooser,
		Config:   cfg,
		Log:      log,
	}, database, nil
}

// pickChooser asks for a destination on interactive CLI runs, like a save dialog.
// MCP, serve and piped runs save under the output dir with the suggested name.
func pickChooser(cfg *config.Config) document.PathChooser {
	if isCLIMode() && isTerminal() && os.Args[1] != "serve" {
		return document.NewPromptChooser(os.Stdin, os.Stderr, cfg.OutputDir)
	}
	return document.DirChooser{Dir: cfg.OutputDir}
}

func main() {
	ops.Version = Version

	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any file is touched
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(baseDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries MCP frames and CLI JSON; logs always go to stderr.
	log := logger.New(os.Stderr, ops.AppName, cfg.LogLevel)

	deps, database, err := buildDeps(cfg, log, pickChooser(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			database.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'extractorsim --help' for usage.\n")
		database.Close()
		os.Exit(1)
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn().Strs("tools", unknown).Msg("unknown tools in disabled_tools")
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		log.Warn().Strs("types", unknown).Msg("unknown types in disabled_types")
	}

	if err := mcp.Run(deps, Version); err != nil {
		log.Error().Err(err).Msg("mcp server stopped")
		database.Close()
		os.Exit(1)
	}
}
