// Package app wires the ulam tool together: it parses the configuration and
// dispatches to shell completion, calibration, the HTTP server, the REPL or a
// generation run.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/agbru/ulam/internal/calibration"
	"github.com/agbru/ulam/internal/cli"
	"github.com/agbru/ulam/internal/config"
	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/export"
	"github.com/agbru/ulam/internal/logging"
	"github.com/agbru/ulam/internal/orchestration"
	"github.com/agbru/ulam/internal/server"
	"github.com/agbru/ulam/internal/spiral"
	"github.com/agbru/ulam/internal/ui"
)

// Application is one invocation of the tool.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// ErrWriter receives diagnostics. In generate mode it also receives the
	// progress display and the summary when coordinates go to stdout.
	ErrWriter io.Writer
	// In feeds the REPL.
	In io.Reader

	isTerminal func(io.Writer) bool
}

// New parses args (program name first) into an Application.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "ulam"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:     cfg,
		ErrWriter:  errWriter,
		In:         os.Stdin,
		isTerminal: isTerminal,
	}, nil
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Respects --no-color and NO_COLOR.
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	if a.Config.ServerMode {
		return a.runServer(ctx, out)
	}
	if a.Config.Interactive {
		return a.runREPL(out)
	}
	return a.runGenerate(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, export.Formats); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	return calibration.RunCalibration(ctx, out, calibration.Options{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
		Format:      a.Config.Format,
	})
}

func (a *Application) runServer(ctx context.Context, out io.Writer) int {
	logger := logging.NewLeveledLogger(out, "server", a.Config.LogLevel)

	subject := spiral.NewProgressSubject()
	subject.Register(spiral.NewMetricsObserver())

	srv := server.NewServer(a.Config,
		server.WithLogger(logger),
		server.WithProgressSubject(subject),
		server.WithVersionInfo(GetVersionInfo()),
	)
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitSuccess
}

func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(cli.REPLConfig{})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runGenerate writes the first N coordinates to the configured sinks.
func (a *Application) runGenerate(ctx context.Context, out io.Writer) int {
	cfg := a.Config

	ctx, lifecycle := SetupLifecycle(ctx, cfg.Timeout)
	defer lifecycle.Cleanup()

	if p := startProfile(cfg); p != nil {
		defer p.Stop()
	}

	// Coordinates own stdout unless they go to a file; status goes elsewhere.
	status := a.ErrWriter
	if cfg.OutputFile != "" {
		status = out
	}

	level := cfg.LogLevel
	if cfg.Quiet {
		level = "error"
	}
	logger := logging.NewConsoleLogger(a.ErrWriter, level, ui.GetCurrentTheme().Name == ui.NoColorTheme.Name)

	if tuned, ok := calibration.ApplyCachedBatchSize(cfg); ok {
		logger.Debug("using calibrated batch size", logging.Int("batch_size", tuned.BatchSize))
		cfg = tuned
	}

	sink, err := openSinks(cfg, out)
	if err != nil {
		return apperrors.HandleGenerationError(err, 0, a.ErrWriter, ui.ErrorColors{})
	}

	subject := spiral.NewProgressSubject()
	subject.Register(spiral.NewLoggingObserver(logger.Zerolog()))

	var wg sync.WaitGroup
	var progress chan spiral.ProgressUpdate
	if !cfg.Quiet && a.isTerminal(status) {
		progress = make(chan spiral.ProgressUpdate, 16)
		subject.Register(spiral.NewChannelObserver(progress))
		wg.Add(1)
		go cli.DisplayProgress(&wg, progress, status)
	}

	summary, err := orchestration.Generate(ctx, spiral.New[int64](), sink, orchestration.Options{
		Count:     uint64(cfg.N),
		BatchSize: cfg.BatchSize,
		Subject:   subject,
		Logger:    logger,
	})
	if progress != nil {
		close(progress)
		wg.Wait()
	}
	if err != nil {
		return apperrors.HandleGenerationError(err, summary.Duration, a.ErrWriter, ui.ErrorColors{})
	}

	if !cfg.Quiet {
		cli.DisplaySummary(status, summary, cfg.Details)
		if cfg.OutputFile != "" {
			cli.PrintSaved(status, "Coordinates", cfg.OutputFile)
		}
		if cfg.DBPath != "" {
			cli.PrintSaved(status, "SQLite database", cfg.DBPath)
		}
	}
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err means -help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
