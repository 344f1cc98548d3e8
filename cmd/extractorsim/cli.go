package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/urfave/cli/v2"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/document"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/web"
)

// newCLIApp creates the CLI application with all commands.
// deps may be nil when only --help or --version will run.
func newCLIApp(deps *ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "extractorsim",
		Usage:   "SIM delivery records and PDF receipts",
		Version: Version,
		Commands: []*cli.Command{
			agentsCmd(deps),
			terminalesCmd(deps),
			notasCmd(deps),
			historialCmd(deps),
			inventarioCmd(deps),
			exportCmd(deps),
			simCmd(deps),
			supervisorCmd(deps),
			serveCmd(deps),
			infoCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// dataFlag accepts a JSON object; comments and trailing commas are allowed.
func dataFlag() cli.Flag {
	return &cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "Record as a JSON object"}
}

func agentsCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "agents",
		Usage: "Manage agents",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List agents, default first",
				Action: func(c *cli.Context) error {
					return outputJSON(c, ops.ListAgents(deps))
				},
			},
			{
				Name:  "add",
				Usage: "Add an agent or update the one with the same correo",
				Flags: []cli.Flag{
					dataFlag(),
					&cli.StringFlag{Name: "correo", Usage: "Agent email"},
					&cli.StringFlag{Name: "nombre", Usage: "Agent name"},
				},
				Action: func(c *cli.Context) error {
					agent, err := recordFromFlags(c, "correo", "nombre")
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.AddAgent(deps, agent))
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove an agent",
				ArgsUsage: "<correo>",
				Action: func(c *cli.Context) error {
					return result(c)(ops.RemoveAgent(deps, c.Args().First()))
				},
			},
			{
				Name:      "default",
				Usage:     "Set the default agent (no argument clears it)",
				ArgsUsage: "[correo]",
				Action: func(c *cli.Context) error {
					return result(c)(ops.SetDefaultAgent(deps, c.Args().First()))
				},
			},
		},
	}
}

func terminalesCmd(deps *ops.Deps) *cli.Command {
	keyFlags := func() []cli.Flag {
		return []cli.Flag{
			dataFlag(),
			&cli.StringFlag{Name: "agencia", Usage: "Agency"},
			&cli.StringFlag{Name: "marca", Usage: "Brand"},
			&cli.StringFlag{Name: "terminal", Usage: "Terminal model"},
		}
	}
	return &cli.Command{
		Name:  "terminales",
		Usage: "Manage the terminal catalogue",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List terminals",
				Action: func(c *cli.Context) error {
					return outputJSON(c, ops.ListTerminals(deps))
				},
			},
			{
				Name:  "add",
				Usage: "Add a terminal or merge into the one with the same key",
				Flags: append(keyFlags(), &cli.StringFlag{Name: "disponible", Usage: "Units available"}),
				Action: func(c *cli.Context) error {
					terminal, err := recordFromFlags(c, "agencia", "marca", "terminal", "disponible")
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.AddTerminal(deps, terminal))
				},
			},
			{
				Name:  "remove",
				Usage: "Remove the terminal matching agencia, marca and terminal",
				Flags: keyFlags(),
				Action: func(c *cli.Context) error {
					terminal, err := recordFromFlags(c, "agencia", "marca", "terminal")
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.RemoveTerminal(deps, terminal))
				},
			},
			{
				Name:      "import",
				Usage:     "Reconcile a JSON array of terminals into the catalogue",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewValidation("file argument is required"))
					}
					return result(c)(ops.ImportTerminals(deps, c.Args().First()))
				},
			},
		},
	}
}

func notasCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "notas",
		Usage: "Manage notes",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List notes",
				Action: func(c *cli.Context) error {
					return outputJSON(c, ops.ListNotes(deps))
				},
			},
			{
				Name:  "add",
				Usage: "Add a note",
				Flags: []cli.Flag{dataFlag(), &cli.StringFlag{Name: "texto", Usage: "Note text"}},
				Action: func(c *cli.Context) error {
					note, err := recordFromFlags(c, "texto")
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.AddNote(deps, note))
				},
			},
			{
				Name:      "update",
				Usage:     "Update a note",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{dataFlag(), &cli.StringFlag{Name: "texto", Usage: "Note text"}},
				Action: func(c *cli.Context) error {
					patch, err := recordFromFlags(c, "texto")
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.UpdateNote(deps, c.Args().First(), patch))
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a note",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					return result(c)(ops.RemoveNote(deps, c.Args().First()))
				},
			},
		},
	}
}

func historialCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "historial",
		Usage: "Delivery history",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List deliveries",
				Flags: []cli.Flag{&cli.StringFlag{Name: "correo", Usage: "Only this agent's deliveries"}},
				Action: func(c *cli.Context) error {
					return outputJSON(c, ops.ListHistory(deps, c.String("correo")))
				},
			},
			{
				Name:  "add",
				Usage: "Record a delivery",
				Flags: []cli.Flag{
					dataFlag(),
					&cli.StringFlag{Name: "correo", Usage: "Agent email"},
					&cli.StringFlag{Name: "usuario", Usage: "Recipient"},
					&cli.StringFlag{Name: "terminal", Usage: "Terminal delivered"},
					&cli.StringFlag{Name: "sim", Usage: "SIM number"},
					&cli.StringFlag{Name: "observaciones", Usage: "Remarks (markdown)"},
				},
				Action: func(c *cli.Context) error {
					entry, err := recordFromFlags(c, "correo", "usuario", "terminal", "sim", "observaciones")
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.AddHistory(deps, entry))
				},
			},
			{
				Name:  "pdf",
				Usage: "Render an agent's delivery history to PDF",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "correo", Required: true, Usage: "Agent email"},
				}, printFlags()...),
				Action: func(c *cli.Context) error {
					input := ops.HistoryPDFInput{
						Correo:  c.String("correo"),
						Path:    c.String("out"),
						Options: printOptions(c),
					}
					return result(c)(ops.HistoryPDF(c.Context, deps, input))
				},
			},
		},
	}
}

func inventarioCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "inventario",
		Usage: "Manage the device inventory",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List items",
				Action: func(c *cli.Context) error {
					return outputJSON(c, ops.ListItems(deps))
				},
			},
			{
				Name:  "add",
				Usage: "Add an item",
				Flags: []cli.Flag{dataFlag()},
				Action: func(c *cli.Context) error {
					item, err := recordFromFlags(c)
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.AddItem(deps, item))
				},
			},
			{
				Name:      "update",
				Usage:     "Update an item",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{dataFlag()},
				Action: func(c *cli.Context) error {
					patch, err := recordFromFlags(c)
					if err != nil {
						return outputError(err)
					}
					return result(c)(ops.UpdateItem(deps, c.Args().First(), patch))
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove an item",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					return result(c)(ops.RemoveItem(deps, c.Args().First()))
				},
			},
			{
				Name:  "filter",
				Usage: "List items whose fields contain every filter value",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "where", Aliases: []string{"w"}, Usage: "field=value (repeatable)"},
				},
				Action: func(c *cli.Context) error {
					filters, err := parseFilters(c.StringSlice("where"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, ops.FilterItems(deps, filters))
				},
			},
		},
	}
}

func exportCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a collection as JSON",
		ArgsUsage: "<agents|terminales|notas|historial|inventario>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Destination .json file"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{Tipo: c.Args().First(), Path: c.String("out")}
			return result(c)(ops.Export(c.Context, deps, input))
		},
	}
}

func simCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "sim",
		Usage: "Render a SIM delivery receipt to PDF",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "payload", Usage: "Read the receipt payload from a JSON file"},
			&cli.StringFlag{Name: "agente", Usage: "Agent name"},
			&cli.StringFlag{Name: "usuario", Usage: "Recipient"},
			&cli.StringFlag{Name: "correo", Usage: "Agent email"},
			&cli.StringFlag{Name: "fecha", Usage: "Delivery date"},
			&cli.StringFlag{Name: "contenido", Usage: "Receipt body"},
			&cli.StringFlag{Name: "firma", Usage: "Signature image file"},
		}, printFlags()...),
		Action: func(c *cli.Context) error {
			var payload document.Payload
			if path := c.String("payload"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewIO(path, err))
				}
				if err := json.Unmarshal(jsonc.ToJSON(data), &payload); err != nil {
					return outputError(errors.NewValidation(fmt.Sprintf("invalid payload: %v", err)))
				}
			}
			overrideString(c, "agente", &payload.Agente)
			overrideString(c, "usuario", &payload.Usuario)
			overrideString(c, "correo", &payload.Correo)
			overrideString(c, "fecha", &payload.Fecha)
			overrideString(c, "contenido", &payload.Contenido)
			overrideString(c, "firma", &payload.FirmaPath)

			input := ops.GenerateSIMInput{Payload: payload, Path: c.String("out"), Options: printOptions(c)}
			return result(c)(ops.GenerateSIM(c.Context, deps, input))
		},
	}
}

func supervisorCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "supervisor",
		Usage: "Supervisor credentials",
		Subcommands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Verify a supervisor credential (password from --password or stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Supervisor email"},
					&cli.StringFlag{Name: "password", Usage: "Password"},
				},
				Action: func(c *cli.Context) error {
					password, err := passwordFrom(c)
					if err != nil {
						return outputError(err)
					}
					input := ops.SupervisorAuthInput{Email: c.String("email"), Password: password}
					return result(c)(ops.SupervisorAuth(c.Context, deps, input))
				},
			},
			{
				Name:      "check",
				Usage:     "Report whether an email belongs to an active supervisor",
				ArgsUsage: "<email>",
				Action: func(c *cli.Context) error {
					return result(c)(ops.SupervisorCheck(c.Context, deps, c.Args().First()))
				},
			},
			{
				Name:  "enroll",
				Usage: "Create or replace a supervisor credential (password from --password or stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Supervisor email"},
					&cli.StringFlag{Name: "nombre", Usage: "Display name"},
					&cli.StringFlag{Name: "password", Usage: "Password"},
				},
				Action: func(c *cli.Context) error {
					password, err := passwordFrom(c)
					if err != nil {
						return outputError(err)
					}
					input := ops.SupervisorEnrollInput{Email: c.String("email"), Nombre: c.String("nombre"), Password: password}
					return result(c)(ops.SupervisorEnroll(c.Context, deps, input))
				},
			},
			{
				Name:  "list",
				Usage: "List active supervisors",
				Action: func(c *cli.Context) error {
					return result(c)(ops.SupervisorList(c.Context, deps))
				},
			},
			{
				Name:      "revoke",
				Usage:     "Disable a supervisor credential",
				ArgsUsage: "<email>",
				Action: func(c *cli.Context) error {
					return result(c)(ops.SupervisorRevoke(c.Context, deps, c.Args().First()))
				},
			},
		},
	}
}

func serveCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the local JSON API for the desktop shell",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind, port := deps.Config.HTTPBind, deps.Config.HTTPPort
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			if c.IsSet("port") {
				port = c.Int("port")
			}
			return web.Serve(deps, bind, port)
		},
	}
}

func infoCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show application information",
		Action: func(c *cli.Context) error {
			return outputJSON(c, ops.Info(deps))
		},
	}
}

// Helper functions

// printFlags are shared by the commands that render PDFs.
func printFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Destination .pdf file"},
		&cli.StringFlag{Name: "page-size", Usage: "A3, A4, A5, Letter or Legal"},
		&cli.BoolFlag{Name: "landscape", Usage: "Landscape orientation"},
		&cli.BoolFlag{Name: "no-background", Usage: "Do not print background graphics"},
	}
}

// printOptions returns nil unless a print flag was given, so the renderer defaults apply.
func printOptions(c *cli.Context) *document.PrintOptions {
	if !c.IsSet("page-size") && !c.IsSet("landscape") && !c.IsSet("no-background") {
		return nil
	}
	return &document.PrintOptions{
		PageSize:        c.String("page-size"),
		Landscape:       c.Bool("landscape"),
		PrintBackground: !c.Bool("no-background"),
	}
}

// result returns a function rendering an operation's (output, error) pair.
func result(c *cli.Context) func(any, error) error {
	return func(out any, err error) error {
		if err != nil {
			return outputError(err)
		}
		return outputJSON(c, out)
	}
}

// outputJSON marshals v to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr := errors.As(err); appErr != nil {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// recordFromFlags builds a record from --data, then overlays the named flags that were set.
func recordFromFlags(c *cli.Context, fields ...string) (record.Record, error) {
	rec := record.Record{}
	if raw := c.String("data"); raw != "" {
		if err := json.Unmarshal(jsonc.ToJSON([]byte(raw)), &rec); err != nil {
			return nil, errors.NewValidation(fmt.Sprintf("invalid --data: %v", err))
		}
	}
	for _, f := range fields {
		if c.IsSet(f) {
			rec[f] = c.String(f)
		}
	}
	return rec, nil
}

func overrideString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

// parseFilters turns field=value pairs into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	filters := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewValidation(fmt.Sprintf("invalid filter %q, expected field=value", p))
		}
		filters[key] = value
	}
	return filters, nil
}

// passwordFrom prefers --password and falls back to the first line of piped stdin.
func passwordFrom(c *cli.Context) (string, error) {
	if c.IsSet("password") {
		return c.String("password"), nil
	}
	if !stdinHasData() {
		return "", errors.NewValidation("password must be given with --password or piped via stdin")
	}
	return readStdin(c.App.Reader)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from r.
func readStdin(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return strings.TrimSpace(string(data)), nil
}
