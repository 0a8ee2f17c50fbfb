package version

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	origVersion, origSHA := Version, GitSHA
	defer func() { Version, GitSHA = origVersion, origSHA }()

	tests := []struct {
		name    string
		version string
		sha     string
		want    string
	}{
		{"release version wins", "v1.2.0", "abcdef1234", "v1.2.0"},
		{"dev build falls back to truncated sha", "dev", "abcdef1234", "abcdef1"},
		{"short sha kept", "dev", "abc", "abc"},
		{"nothing injected", "dev", "unknown", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitSHA = tt.version, tt.sha
			if got := Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if s := String(); !strings.HasPrefix(s, "ledviz ") {
		t.Errorf("String() = %q, want ledviz prefix", s)
	}
}
