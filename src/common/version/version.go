// Package version provides build info and version strings
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables - set via ldflags
var (
	// ProjectName is the binary name used in the User-Agent
	ProjectName = "catalog"

	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

// Info contains all version information
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get returns the current version info
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String returns a one-line version string
func (i Info) String() string {
	return fmt.Sprintf("%s v%s (%s) built %s", ProjectName, i.Version, i.ShortCommit(), i.BuildDate)
}

// Full returns a detailed version string
func (i Info) Full() string {
	var sb strings.Builder
	sb.WriteString(i.String() + "\n\n")
	sb.WriteString("Build Info:\n")
	sb.WriteString(fmt.Sprintf("  Go: %s\n", i.GoVersion))
	sb.WriteString(fmt.Sprintf("  OS/Arch: %s/%s\n", i.OS, i.Arch))
	sb.WriteString(fmt.Sprintf("  Commit: %s\n", i.Commit))
	sb.WriteString(fmt.Sprintf("  Date: %s\n", i.BuildDate))
	if IsDev() {
		sb.WriteString("  Channel: development\n")
	} else {
		sb.WriteString("  Channel: release\n")
	}
	return sb.String()
}

// ShortCommit returns the first 7 characters of the commit hash
func (i Info) ShortCommit() string {
	if len(i.Commit) >= 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// UserAgent returns the User-Agent sent with every catalog request
func UserAgent() string {
	return fmt.Sprintf("%s-cli/%s", ProjectName, Version)
}

// IsDev returns true if this is a development build
func IsDev() bool {
	return Version == "dev" || Version == "" || strings.HasSuffix(Version, "-dev")
}
