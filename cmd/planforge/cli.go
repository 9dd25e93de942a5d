package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/ops"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, gen ops.PlanGenerator, logger *zap.Logger) *cli.App {
	app := &cli.App{
		Name:    "planforge",
		Usage:   "Generate and manage feature plans",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(db, gen, logger),
			getCmd(db),
			recentCmd(db),
			updateTasksCmd(db),
			exportCmd(db),
			serveCmd(db, cfg, gen, logger),
			healthCmd(db, gen),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// generateCmd creates the generate command.
func generateCmd(db *sql.DB, gen ops.PlanGenerator, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a feature plan from a goal, users, and constraints",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "goal", Aliases: []string{"g"}, Required: true, Usage: "What to build (max 500 chars)"},
			&cli.StringSliceFlag{Name: "user", Aliases: []string{"u"}, Usage: "Target user persona (repeat for multiple, 1-10)"},
			&cli.StringSliceFlag{Name: "constraint", Aliases: []string{"c"}, Usage: "Project constraint (repeat for multiple, 1-10)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Generate(c.Context, db, gen, logger, ops.GenerateInput{
				Goal:        c.String("goal"),
				Users:       c.StringSlice("user"),
				Constraints: c.StringSlice("constraint"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a stored plan by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Get(db, id)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently created plans, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Number of plans to return, 1-20 (default 5)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Recent(db, c.Int("limit"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"plans": output})
		},
	}
}

// updateTasksCmd creates the update-tasks command.
func updateTasksCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "update-tasks",
		Usage:     "Replace a plan's engineering tasks (reads the task map as JSON from stdin)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c)
			if err != nil {
				return outputError(err)
			}

			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("engineering_tasks JSON must be piped via stdin"))
			}
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			var tasks map[string][]plan.EngineeringTask
			if err := json.Unmarshal(data, &tasks); err != nil {
				return outputError(errors.NewInvalidRequest("stdin must be a JSON object mapping category to task array"))
			}

			output, err := ops.UpdateTasks(db, ops.UpdateTasksInput{
				ID:               id,
				EngineeringTasks: tasks,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Render a stored plan as markdown",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c)
			if err != nil {
				return outputError(err)
			}

			md, err := ops.Export(db, id)
			if err != nil {
				return outputError(err)
			}
			fmt.Fprint(os.Stdout, md)
			return nil
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, gen ops.PlanGenerator, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.WebBind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := cfg.WebPort
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(db, gen, logger, bind, port)
			return web.Run(srv, logger)
		},
	}
}

// healthCmd creates the health command.
func healthCmd(db *sql.DB, gen ops.PlanGenerator) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Probe database and completion-service availability",
		Action: func(c *cli.Context) error {
			output := ops.Health(c.Context, db, gen)
			if err := outputJSON(output); err != nil {
				return err
			}
			if !output.Healthy() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// Helper functions

// parseID reads the positional plan id argument.
func parseID(c *cli.Context) (int64, error) {
	if c.NArg() < 1 {
		return 0, errors.NewInvalidRequest("plan id argument is required")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest("id must be a positive integer")
	}
	return id, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if planErr, ok := err.(*errors.PlanError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", planErr.Code, planErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
