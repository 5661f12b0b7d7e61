// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in to the attendance tracker",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "admin",
						Usage: "Log in against the admin endpoint",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Log out and clear stored credentials",
				Action: r.AuthLogout,
			},
			{
				Name:    "status",
				Aliases: []string{"whoami"},
				Usage:   "Show the current session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// attendanceCommand handles day-to-day time tracking operations
func attendanceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "attendance",
		Aliases: []string{"att"},
		Usage:   "Time in, time out and review attendance logs",
		Commands: []*cli.Command{
			{
				Name:  "in",
				Usage: "Time in for a task",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Task type (f2f or async)",
						Value:   "f2f",
					},
				},
				Action: r.AttendanceIn,
			},
			{
				Name:   "out",
				Usage:  "Time out of the current task",
				Action: r.AttendanceOut,
			},
			{
				Name:  "logs",
				Usage: "List attendance logs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AttendanceLogs,
			},
			{
				Name:  "export",
				Usage: "Export your attendance logs to CSV with a summary",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base path for the generated files",
					},
				},
				Action: r.AttendanceExport,
			},
			{
				Name:   "status",
				Usage:  "Show the current attendance state",
				Action: r.AttendanceStatus,
			},
		},
	}
}

// adminCommand handles administrator operations
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrator operations",
		Commands: []*cli.Command{
			{
				Name:  "interns",
				Usage: "List interns",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AdminInterns,
			},
			{
				Name:  "export",
				Usage: "Export every intern's attendance logs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "API requests per second",
						Value: 5.0,
					},
				},
				Action: r.AdminExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive attendance tracking.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for attendance tracking",
		Action:  r.TUI,
	}
}
