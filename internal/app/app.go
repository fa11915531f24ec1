// Package app builds a ready-to-use editing session from the configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"tilecfg/internal/backup"
	"tilecfg/internal/config"
	"tilecfg/internal/core"
	"tilecfg/internal/database"
	"tilecfg/internal/encryption"
	"tilecfg/internal/fs"
	"tilecfg/internal/reload"
	"tilecfg/internal/session"
	"tilecfg/internal/vault"
	"tilecfg/internal/watch"
)

// Options adjust how an App is built.
type Options struct {
	// Verbose also copies info and debug records to stderr.
	Verbose bool
}

// App is the layer between the CLI and the session. It constructs every
// dependency from config and releases them on Close.
type App struct {
	cfg       *config.Config
	editor    *session.Editor
	journal   core.Journal
	encryptor core.Encryptor
	logger    core.Logger
	logFile   *os.File
	clock     core.Clock
	op        *Operation
	watcher   *watch.Watcher
}

// New wires an App and loads both tracked files. operation names the CLI
// command being run and args its arguments; both are logged.
func New(ctx context.Context, cfg *config.Config, operation, args string, opts Options) (*App, error) {
	clock := core.RealClock{}
	op := NewOperation(operation, args, core.UUIDGenerator{}, clock)

	stderrLevel := slog.LevelWarn
	if opts.Verbose {
		stderrLevel = slog.LevelDebug
	}
	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, stderrLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	journal, err := database.NewJournalFromConfig(cfg.Database, clock)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	v, err := vault.NewVaultFromConfig(ctx, cfg.Archive)
	if err != nil {
		journal.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating archive vault: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		journal.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	settings := core.NewSettingsHandle(cfg.Settings())
	var reloader core.Reloader = reload.NopReloader{}
	if cfg.Reload.Enabled {
		reloader = reload.NewCommandReloader(cfg.Reload.PrimaryCommand, cfg.Reload.HotkeysCommand)
	}

	editor := session.New(session.Paths{
		Primary: cfg.Files.Primary,
		Hotkeys: cfg.Files.Hotkeys,
	}, session.Deps{
		Files:     fs.NewOSFileStore(),
		Backups:   backup.NewStore(clock, settings, logger),
		Settings:  settings,
		Reloader:  reloader,
		Journal:   journal,
		Vault:     v,
		Encryptor: enc,
		Logger:    logger,
	})

	a := &App{
		cfg:       cfg,
		editor:    editor,
		journal:   journal,
		encryptor: enc,
		logger:    logger,
		logFile:   logFile,
		clock:     clock,
		op:        op,
	}
	logger.Debug("operation started", "operation", op.Name, "args", op.Args)

	if err := editor.Load(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Editor() *session.Editor { return a.editor }

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Logger() core.Logger { return a.logger }

// Encryptor returns the configured encryptor, or nil when encryption is off.
func (a *App) Encryptor() core.Encryptor { return a.encryptor }

// Fail records err as the outcome of the operation.
func (a *App) Fail(err error) {
	a.op.Err = err
}

// Watch reports edits that other programs make to the tracked files.
func (a *App) Watch(onChange func(watch.Change)) error {
	w, err := watch.New(a.editor.Known, onChange, a.logger)
	if err != nil {
		return err
	}
	if err := w.Add(core.TargetPrimary, a.cfg.Files.Primary); err != nil {
		w.Close()
		return err
	}
	if err := w.Add(core.TargetHotkeys, a.cfg.Files.Hotkeys); err != nil {
		w.Close()
		return err
	}
	a.watcher = w
	return nil
}

// Close stops the session without flushing pending edits, then closes the
// journal and the log. Callers that want edits kept call SaveNow first.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watcher: %w", err))
		}
	}
	a.editor.Close()
	if err := a.journal.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing journal: %w", err))
	}

	a.logger.Debug("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status(),
		"elapsed", a.op.Elapsed(a.clock))
	if a.logFile != nil {
		a.logFile.Close()
	}
	return errors.Join(errs...)
}
