package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/kdlcruz/tito/internal/attendance"
	"github.com/kdlcruz/tito/internal/repositories"
	"github.com/kdlcruz/tito/internal/services"
	"github.com/kdlcruz/tito/internal/session"
	"github.com/kdlcruz/tito/internal/shared"
	"github.com/kdlcruz/tito/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config        *shared.Config
	baseTransport http.RoundTripper
	logger        *log.Logger
	output        io.Writer

	db        *sql.DB
	creds     *repositories.CredentialRepository
	snapshots *repositories.AttendanceRepository
	watcher   *repositories.StoreWatcher
	transport *services.AuthTransport
	tracker   *services.TrackerService
	manager   *session.Manager
	engine    *tasks.AttendanceEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config        *shared.Config
	BaseTransport http.RoundTripper
	Logger        *log.Logger
	Output        io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.BaseTransport == nil {
		opts.BaseTransport = http.DefaultTransport
	}

	return &Runner{
		config:        opts.Config,
		baseTransport: opts.BaseTransport,
		logger:        opts.Logger,
		output:        opts.Output,
	}
}

// SetLogger replaces the runner's logger. Commands that redirect logging
// (the TUI) call this before bootstrap so the whole stack inherits it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// bootstrap opens the database and wires the credential store, the auth
// transport, the tracker client, the session manager and the attendance
// engine. Idempotent; commands call it up front and Close on the way out.
func (r *Runner) bootstrap() error {
	if r.engine != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.creds = repositories.NewCredentialRepository(db)
	r.snapshots = repositories.NewAttendanceRepository(db)
	r.watcher = repositories.NewStoreWatcher(r.creds, r.config.Session.WatchInterval(), r.logger)

	r.transport = services.NewAuthTransport(r.baseTransport, r.logger)
	client := &http.Client{Transport: r.transport, Timeout: r.config.API.Timeout()}
	r.tracker = services.NewTrackerService(r.config.API.BaseURL, client)

	manager, err := session.NewManager(r.tracker, r.creds, r.config.Session.IdleTimeout(), r.logger)
	if err != nil {
		db.Close()
		return err
	}
	r.manager = manager
	r.transport.Bind(manager)

	store := attendance.NewStore(manager.Current().UserEmail, r.snapshots, r.config.Attendance, r.logger)
	r.engine = tasks.NewAttendanceEngine(r.tracker, manager, store, r.logger)

	return nil
}

// rebindStore rebuilds the attendance store and engine around the session's
// current email. Login changes identity mid-process, so the store built at
// bootstrap may belong to nobody or to the previous user.
func (r *Runner) rebindStore() {
	store := attendance.NewStore(r.manager.Current().UserEmail, r.snapshots, r.config.Attendance, r.logger)
	r.engine = tasks.NewAttendanceEngine(r.tracker, r.manager, store, r.logger)
}

// Close releases the runner's database handle and stops the store watcher.
func (r *Runner) Close() {
	if r.watcher != nil {
		r.watcher.Stop()
	}
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, attendanceCommand, adminCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
