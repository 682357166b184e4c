// Package version provides centralized version management for webshell.
// It supports semantic versioning, build-time injection, and parsing of engine versions.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

// Info represents comprehensive version information
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetBaseVersion returns the base version (major.minor.patch) without build metadata
func GetBaseVersion() string {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	return fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch())
}

// GetInfo returns comprehensive version information
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}

	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  Platform(),
		SemVer:    sv,
	}, nil
}

// Platform returns GOOS/GOARCH.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

// GetFormattedVersion returns a nicely formatted version string
func GetFormattedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("webshell v%s (invalid version)", Version)
	}

	parts := []string{fmt.Sprintf("webshell v%s", info.Version)}

	if info.GitCommit != "unknown" && info.GitCommit != "" {
		shortCommit := info.GitCommit
		if len(shortCommit) > 7 {
			shortCommit = shortCommit[:7]
		}
		parts = append(parts, fmt.Sprintf("commit %s", shortCommit))
	}

	if info.BuildDate != "unknown" && info.BuildDate != "" {
		parts = append(parts, fmt.Sprintf("built %s", info.BuildDate))
	}

	return strings.Join(parts, ", ")
}

// ValidateVersion validates that the current version is a valid semantic version
func ValidateVersion() error {
	_, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return nil
}

// IsDevelopment returns true if this appears to be a development build
func IsDevelopment() bool {
	return GitCommit == "unknown" || BuildDate == "unknown"
}

// SetBuildInfo sets build information (used for testing)
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}

// EngineVersion is the major/minor/micro triple of the rendering engine.
type EngineVersion struct {
	Major int64
	Minor int64
	Micro int64
}

// ParseEngineVersion parses versions such as "2.40.1", "120.0.6099.28" or
// "HeadlessChrome/120.0.6099.28". Anything past the third component is ignored.
func ParseEngineVersion(text string) (EngineVersion, error) {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndexByte(text, '/'); idx >= 0 {
		text = text[idx+1:]
	}

	parts := strings.SplitN(text, ".", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}

	sv, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return EngineVersion{}, fmt.Errorf("invalid engine version '%s': %w", text, err)
	}

	return EngineVersion{
		Major: int64(sv.Major()),
		Minor: int64(sv.Minor()),
		Micro: int64(sv.Patch()),
	}, nil
}
