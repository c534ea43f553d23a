package cmd

import (
	"testing"

	"github.com/textlens/textlens/internal/analysis"
)

// Explicit names must resolve without touching the interactive prompt; the
// prompt path only fires on an empty value.
func TestSelectModeWithExplicitName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect analysis.Mode
	}{
		{name: "full", input: "full", expect: analysis.ModeFull},
		{name: "quick", input: "quick", expect: analysis.ModeQuick},
		{name: "case insensitive", input: "  Quick ", expect: analysis.ModeQuick},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := selectMode(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, mode)
			}
		})
	}

	if _, err := selectMode("thorough"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSelectProfileWithExplicitName(t *testing.T) {
	profile, err := selectProfile("movie-review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "movie-review" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := selectProfile("novel"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
