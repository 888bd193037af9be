package verbiage

import (
	"strings"
	"testing"
)

func TestVersionInfo(t *testing.T) {
	if !strings.HasSuffix(RepositoryURL, "/"+Name) {
		t.Errorf("RepositoryURL = %q, want it to end with /%s", RepositoryURL, Name)
	}
	if got := UserAgent(); got != Name+"/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestFullVersion(t *testing.T) {
	orig := GitCommit
	defer func() { GitCommit = orig }()

	GitCommit = "unknown"
	if got := FullVersion(); got != Version {
		t.Errorf("FullVersion() = %q, want %q", got, Version)
	}

	GitCommit = "abcdef1234567"
	if got := FullVersion(); got != Version+"+abcdef1" {
		t.Errorf("FullVersion() = %q", got)
	}
}
