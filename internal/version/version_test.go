package version

import "testing"

func TestVersionHasDefaultValue(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestVersionCanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2026-08-01T00:00:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if BuildDate != "2026-08-01T00:00:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2026-08-01T00:00:00Z")
	}
}

func TestOptionalFieldsMayBeEmpty(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "", ""
	if GitCommit != "" || BuildDate != "" {
		t.Errorf("GitCommit/BuildDate = %q/%q, want both empty", GitCommit, BuildDate)
	}
}
