package app

import (
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/agbru/ulam/pkg/models"
)

// Build information, stamped at link time:
//
//	go build -ldflags="-X github.com/agbru/ulam/internal/app.Version=v1.2.3 -X github.com/agbru/ulam/internal/app.Commit=abc123 -X github.com/agbru/ulam/internal/app.BuildDate=2026-01-01T00:00:00Z" ./cmd/ulam
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown" // ISO 8601
)

// HasVersionFlag reports whether any argument asks for the version, so that
// "ulam -server --version" prints it too.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" || arg == "-V" {
			return true
		}
	}
	return false
}

// GetVersionInfo returns the build information as served by GET /version.
func GetVersionInfo() models.VersionResponse {
	return models.VersionResponse{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes the build information to out, one field per line.
func PrintVersion(out io.Writer) {
	v := GetVersionInfo()
	tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ulam %s\n", v.Version)
	fmt.Fprintf(tw, "  Commit:\t%s\n", v.Commit)
	fmt.Fprintf(tw, "  Built:\t%s\n", v.BuildDate)
	fmt.Fprintf(tw, "  Go version:\t%s\n", v.GoVersion)
	fmt.Fprintf(tw, "  OS/Arch:\t%s/%s\n", v.OS, v.Arch)
	tw.Flush()
}
