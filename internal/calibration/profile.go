package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/ulam/internal/config"
)

// Profile stores the outcome of a calibration run together with the machine
// it was measured on, so that a cached result is only reused where it holds.
type Profile struct {
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`

	// BatchSize is the fastest batch size measured.
	BatchSize int `json:"batch_size"`
	// Format is the output encoding the measurement used.
	Format string `json:"format"`

	CalibratedAt     time.Time `json:"calibrated_at"`
	CalibrationCount uint64    `json:"calibration_count"`
	CalibrationTime  string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

const (
	// CurrentProfileVersion is bumped on breaking changes to Profile.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the profile file name in the home directory.
	DefaultProfileFileName = ".ulam_calibration.json"

	// MaxProfileAge is how long a saved profile is trusted.
	MaxProfileAge = 30 * 24 * time.Hour
)

// GetDefaultProfilePath returns the profile path in the user's home
// directory, or in the current directory when there is none.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func resolvePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// NewProfile returns a Profile stamped with the current machine.
func NewProfile() *Profile {
	return &Profile{
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// LoadProfile reads a profile from path (the default path when empty).
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes p to path (the default path when empty).
func (p *Profile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(resolvePath(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether p was measured on a machine like this one and
// holds a usable batch size.
func (p *Profile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.BatchSize > 0
}

// IsStale reports whether p is older than maxAge.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a one-line summary of p.
func (p *Profile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("Profile{CPU: %s-%d-cores, BatchSize: %d, Format: %s, Calibrated: %s}",
		p.GOARCH, p.NumCPU, p.BatchSize, p.Format, p.CalibratedAt.Format(time.RFC3339))
}

// ApplyCachedBatchSize replaces the default batch size of cfg with the one
// from a valid, fresh profile. An explicit -batch-size is left alone.
//
// Returns:
//   - config.AppConfig: cfg, possibly with a new BatchSize.
//   - bool: True if the profile was applied.
func ApplyCachedBatchSize(cfg config.AppConfig) (config.AppConfig, bool) {
	if cfg.BatchSize != config.DefaultBatchSize {
		return cfg, false
	}
	profile, err := LoadProfile(cfg.CalibrationProfile)
	if err != nil || !profile.IsValid() || profile.IsStale(MaxProfileAge) {
		return cfg, false
	}
	cfg.BatchSize = profile.BatchSize
	return cfg, true
}
