// Package config turns command-line flags and ULAM_* environment variables
// into a validated AppConfig. Flags win over the environment, which wins over
// the built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/export"
	"github.com/agbru/ulam/internal/logging"
)

// EnvPrefix is the prefix shared by every environment override.
const EnvPrefix = "ULAM_"

// Default configuration values.
const (
	// DefaultN is the number of coordinates produced when -n is not given:
	// rings 0 through 2, a 5x5 square.
	DefaultN = 25
	// DefaultFormat is the output encoding.
	DefaultFormat = export.FormatText
	// DefaultTimeout bounds a single generation run.
	DefaultTimeout = time.Minute
	// DefaultPort is the HTTP port in server mode.
	DefaultPort = "8080"
	// DefaultMaxN caps the count a single HTTP request may ask for.
	DefaultMaxN = 1_000_000
	// DefaultBatchSize is the number of coordinates handed to a sink at once.
	DefaultBatchSize = 1024
	// DefaultLogLevel is the minimum level of structured logs.
	DefaultLogLevel = "info"
	// DefaultProfileDir receives profiles written by -profile.
	DefaultProfileDir = "."
	// MaxGridCount bounds the grid format, which holds every cell in memory
	// until the run ends.
	MaxGridCount = 10_000
)

// Profile modes accepted by -profile.
const (
	ProfileNone = ""
	ProfileCPU  = "cpu"
	ProfileMem  = "mem"
)

// AppConfig aggregates every setting that controls a run.
type AppConfig struct {
	// N is the number of coordinates to generate.
	N int
	// Format is the output encoding (text, json, csv, yaml, grid).
	Format string
	// OutputFile, if set, receives the coordinates instead of stdout.
	OutputFile string
	// DBPath, if set, also stores the coordinates in a SQLite database.
	DBPath string
	// Timeout is the maximum duration of a generation run.
	Timeout time.Duration
	// BatchSize is the number of coordinates per pipeline batch.
	BatchSize int

	// ServerMode starts the HTTP API instead of a one-shot run.
	ServerMode bool
	// Port is the HTTP listen port in server mode.
	Port string
	// MaxN caps the count accepted by GET /spiral.
	MaxN int

	// Interactive starts the REPL.
	Interactive bool
	// Completion prints a completion script for the named shell and exits.
	Completion string

	// Quiet prints coordinates only: no progress, no summary.
	Quiet bool
	// Details adds ring statistics to the summary.
	Details bool
	// NoColor disables colored output. NO_COLOR is honored as well.
	NoColor bool
	// LogLevel is the minimum structured log level.
	LogLevel string

	// Calibrate benchmarks candidate batch sizes instead of generating.
	Calibrate bool
	// CalibrationProfile is where calibration results are saved and read
	// back. Empty means the default path in the home directory.
	CalibrationProfile string

	// Profile enables cpu or mem profiling of the run.
	Profile string
	// ProfileDir is where profile files are written.
	ProfileDir string
}

// needsCount reports whether the configured mode generates a fixed count.
func (c AppConfig) needsCount() bool {
	return !c.ServerMode && !c.Interactive && !c.Calibrate && c.Completion == ""
}

// Validate checks the semantic consistency of the configuration and returns
// a ConfigError describing the first problem found.
func (c AppConfig) Validate() error {
	if c.needsCount() && c.N <= 0 {
		return apperrors.NewConfigError("count (-n) must be strictly positive, got %d", c.N)
	}
	if c.N < 0 {
		return apperrors.NewConfigError("count (-n) cannot be negative: %d", c.N)
	}
	if !slices.Contains(export.Formats, c.Format) {
		return apperrors.NewConfigError("unrecognized format: '%s'. Valid formats are: [%s]", c.Format, strings.Join(export.Formats, ", "))
	}
	if c.Format == export.FormatGrid && c.N > MaxGridCount {
		return apperrors.NewConfigError("grid format is limited to %d coordinates, got %d", MaxGridCount, c.N)
	}
	if c.Calibrate && c.Format == export.FormatGrid {
		return apperrors.NewConfigError("the grid format cannot be calibrated")
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.BatchSize <= 0 {
		return apperrors.NewConfigError("batch size must be strictly positive, got %d", c.BatchSize)
	}
	if c.MaxN <= 0 {
		return apperrors.NewConfigError("max-n must be strictly positive, got %d", c.MaxN)
	}
	switch c.Profile {
	case ProfileNone, ProfileCPU, ProfileMem:
	default:
		return apperrors.NewConfigError("unrecognized profile mode: '%s'. Valid modes are: [cpu, mem]", c.Profile)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid log level '%s': %v", c.LogLevel, err)
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies ULAM_* overrides for
// flags not given on the command line and validates the result.
//
// Parameters:
//   - programName: The name shown in the usage message.
//   - args: The command-line arguments, without the program name.
//   - errorWriter: Receives parse errors and the usage text.
//
// Returns:
//   - AppConfig: The populated configuration.
//   - error: flag.ErrHelp for -h, a parse error, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.IntVar(&config.N, "n", DefaultN, "Number of spiral coordinates to generate.")
	fs.StringVar(&config.Format, "format", DefaultFormat, fmt.Sprintf("Output format: one of [%s].", strings.Join(export.Formats, ", ")))
	fs.StringVar(&config.OutputFile, "output", "", "Write coordinates to this file instead of stdout.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.StringVar(&config.DBPath, "db", "", "Also store coordinates in this SQLite database.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for a generation run.")
	fs.IntVar(&config.BatchSize, "batch-size", DefaultBatchSize, "Coordinates handed to the output per batch.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxN, "max-n", DefaultMaxN, "Largest count a single HTTP request may ask for.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Benchmark batch sizes and save the fastest one.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.ulam_calibration.json).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - coordinates only, for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Details, "details", false, "Display ring statistics after the run.")
	fs.BoolVar(&config.Details, "d", false, "Alias for -details.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Minimum log level (debug, info, warn, error).")
	fs.StringVar(&config.Profile, "profile", ProfileNone, "Profile the run: cpu or mem.")
	fs.StringVar(&config.ProfileDir, "profile-dir", DefaultProfileDir, "Directory receiving profile files.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Format = strings.ToLower(config.Format)
	config.Profile = strings.ToLower(config.Profile)
	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
