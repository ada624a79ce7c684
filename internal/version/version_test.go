package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestBanner(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "vanadium 0.1.0-dev"},
		{"1.2.3", "abc123", "", "vanadium 1.2.3 (abc123)"},
		{"1.2.3", "abc123", "2026-01-15", "vanadium 1.2.3 (abc123, 2026-01-15)"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := Banner(false); got != tt.want {
			t.Errorf("Banner(false) = %q, want %q", got, tt.want)
		}
	}
}

func TestColorVersion(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })

	got := colorVersion("1.2.3-rc.1")
	if got == "1.2.3-rc.1" {
		t.Error("colorVersion should add escapes when color is enabled")
	}
	if colorVersion("nightly") != "nightly" {
		t.Error("non-semver versions stay plain")
	}
}
