// Package version reports build metadata for the leaderboard binary along
// with the styling engine versions the payload codec works with.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/conneroisu/leaderboard/pkg/leaderboard"
	"github.com/conneroisu/leaderboard/pkg/styler"
)

// Set with -ldflags "-X github.com/conneroisu/leaderboard/internal/version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version           string    `json:"version"`
	GitCommit         string    `json:"git_commit"`
	BuildTime         time.Time `json:"build_time"`
	GoVersion         string    `json:"go_version"`
	Platform          string    `json:"platform"`
	StylingVersion    string    `json:"styling_version"`
	MinStylingVersion string    `json:"min_styling_version"`
}

// GetBuildInfo collects the build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:           GetVersion(),
		GitCommit:         GetGitCommit(),
		BuildTime:         parseTime(BuildTime),
		GoVersion:         runtime.Version(),
		Platform:          runtime.GOOS + "/" + runtime.GOARCH,
		StylingVersion:    styler.Version,
		MinStylingVersion: leaderboard.MinStylingVersion,
	}
}

// GetVersion returns the linked version, the module version or "dev".
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetGitCommit returns the linked commit or the VCS revision recorded by the
// Go toolchain.
func GetGitCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}
	if v := buildSetting("vcs.revision"); v != "" {
		return v
	}
	return "unknown"
}

// GetShortVersion returns "v1.2.3 (abcdef0)", "dev-abcdef0" or the bare
// version when no commit is known.
func GetShortVersion() string {
	v := GetVersion()
	commit := GetGitCommit()
	if commit == "unknown" || len(commit) < 7 {
		return v
	}
	if v == "dev" {
		return "dev-" + commit[:7]
	}
	return fmt.Sprintf("%s (%s)", v, commit[:7])
}

// GetDetailedVersion returns a multi-line report for the version command.
func GetDetailedVersion() string {
	info := GetBuildInfo()

	lines := []string{"Version: " + info.Version}
	if info.GitCommit != "unknown" {
		lines = append(lines, "Commit: "+info.GitCommit)
	}
	if !info.BuildTime.IsZero() {
		lines = append(lines, "Built: "+info.BuildTime.Format(time.RFC3339))
	}
	lines = append(lines,
		"Go: "+info.GoVersion,
		"Platform: "+info.Platform,
		fmt.Sprintf("Styling: %s (requires %s)", info.StylingVersion, info.MinStylingVersion),
	)
	return strings.Join(lines, "\n")
}

// IsRelease reports whether the version is a semantic version without a
// prerelease suffix.
func IsRelease() bool {
	v := GetVersion()
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
