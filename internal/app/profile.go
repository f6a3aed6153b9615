package app

import (
	"github.com/pkg/profile"

	"github.com/agbru/ulam/internal/config"
)

// stopper is returned by profile.Start.
type stopper interface {
	Stop()
}

// startProfile starts the profiler selected by -profile, or returns nil.
// Profiles are written to cfg.ProfileDir when the run ends.
func startProfile(cfg config.AppConfig) stopper {
	var mode func(*profile.Profile)
	switch cfg.Profile {
	case config.ProfileCPU:
		mode = profile.CPUProfile
	case config.ProfileMem:
		mode = profile.MemProfile
	default:
		return nil
	}
	return profile.Start(mode, profile.ProfilePath(cfg.ProfileDir), profile.Quiet, profile.NoShutdownHook)
}
