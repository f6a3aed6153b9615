package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// envOverride binds one ULAM_* variable to the flags it stands in for.
// apply is only called when none of the flags was set on the command line
// and the variable is non-empty; values that fail to parse are ignored.
type envOverride struct {
	key   string
	flags []string
	apply func(c *AppConfig, val string)
}

var envOverrides = []envOverride{
	{"N", []string{"n"}, func(c *AppConfig, v string) { c.N = parseInt(v, c.N) }},
	{"FORMAT", []string{"format"}, func(c *AppConfig, v string) { c.Format = v }},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) { c.OutputFile = v }},
	{"DB", []string{"db"}, func(c *AppConfig, v string) { c.DBPath = v }},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) { c.Timeout = parseDuration(v, c.Timeout) }},
	{"BATCH_SIZE", []string{"batch-size"}, func(c *AppConfig, v string) { c.BatchSize = parseInt(v, c.BatchSize) }},
	{"SERVER", []string{"server"}, func(c *AppConfig, v string) { c.ServerMode = parseBool(v, c.ServerMode) }},
	{"PORT", []string{"port"}, func(c *AppConfig, v string) { c.Port = v }},
	{"MAX_N", []string{"max-n"}, func(c *AppConfig, v string) { c.MaxN = parseInt(v, c.MaxN) }},
	{"INTERACTIVE", []string{"interactive"}, func(c *AppConfig, v string) { c.Interactive = parseBool(v, c.Interactive) }},
	{"CALIBRATE", []string{"calibrate"}, func(c *AppConfig, v string) { c.Calibrate = parseBool(v, c.Calibrate) }},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig, v string) { c.CalibrationProfile = v }},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) { c.Quiet = parseBool(v, c.Quiet) }},
	{"DETAILS", []string{"details", "d"}, func(c *AppConfig, v string) { c.Details = parseBool(v, c.Details) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) { c.NoColor = parseBool(v, c.NoColor) }},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},
	{"PROFILE", []string{"profile"}, func(c *AppConfig, v string) { c.Profile = v }},
	{"PROFILE_DIR", []string{"profile-dir"}, func(c *AppConfig, v string) { c.ProfileDir = v }},
}

// applyEnvOverrides implements the priority CLI flags > environment > defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	for _, o := range envOverrides {
		if anySet(o.flags, set) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.key); val != "" {
			o.apply(config, val)
		}
	}
}

func anySet(names []string, set map[string]bool) bool {
	for _, n := range names {
		if set[n] {
			return true
		}
	}
	return false
}

func parseInt(val string, fallback int) int {
	if parsed, err := strconv.Atoi(strings.ReplaceAll(val, "_", "")); err == nil {
		return parsed
	}
	return fallback
}

// parseBool accepts true/1/yes and false/0/no, case-insensitively.
func parseBool(val string, fallback bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

// parseDuration accepts Go durations such as "30s" or "1h30m".
func parseDuration(val string, fallback time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	return fallback
}
