package version

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })
}

func TestShortVersion(t *testing.T) {
	withVersion(t, "v1.2.3", "abcdef0123", "unknown")
	assert.Equal(t, "v1.2.3 (abcdef0)", GetShortVersion())

	withVersion(t, "dev", "abcdef0123", "unknown")
	assert.Equal(t, "dev-abcdef0", GetShortVersion())
}

func TestBuildInfo(t *testing.T) {
	withVersion(t, "v2.0.0", "1234567", "2026-01-02T03:04:05Z")
	info := GetBuildInfo()

	assert.Equal(t, "v2.0.0", info.Version)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Equal(t, "v1.5.0", info.StylingVersion)
	assert.Equal(t, "v1.5.0", info.MinStylingVersion)

	detailed := GetDetailedVersion()
	assert.True(t, strings.HasPrefix(detailed, "Version: v2.0.0\nCommit: 1234567\nBuilt: 2026-01-02T03:04:05Z"))
	assert.Contains(t, detailed, "Styling: v1.5.0 (requires v1.5.0)")
}

func TestIsRelease(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"v1.0.0", true},
		{"v1.0.0-rc.1", false},
		{"dev", false},
		{"1.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			withVersion(t, tt.version, "unknown", "unknown")
			assert.Equal(t, tt.want, IsRelease())
		})
	}
}

func TestParseTimeFallsBackToZero(t *testing.T) {
	assert.True(t, parseTime("unknown").IsZero())
	assert.False(t, parseTime("2026-01-02 03:04:05").IsZero())
}
