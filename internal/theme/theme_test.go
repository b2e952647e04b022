package theme

import (
	"testing"

	"charm.land/lipgloss/v2"
)

func TestDisabledUsesFallbacks(t *testing.T) {
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize(\"\") = %v", err)
	}
	if IsEnabled() {
		t.Fatal("theming should be disabled")
	}
	if Current() != nil {
		t.Error("Current() should be nil when disabled")
	}
	if got := ColorToString(BorderFocused()); got != "#afffff" {
		t.Errorf("BorderFocused() = %s, want #afffff", got)
	}
}

func TestFocusOverride(t *testing.T) {
	defer SetFocusColor("")
	SetFocusColor("#ff0000")
	if got := ColorToString(BorderFocused()); got != "#ff0000" {
		t.Errorf("BorderFocused() = %s, want #ff0000", got)
	}
}

func TestColorToString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#000000", "#000000"},
		{"#AABBCC", "#aabbcc"},
		{"#123456", "#123456"},
	}
	for _, tc := range tests {
		if got := ColorToString(lipgloss.Color(tc.in)); got != tc.want {
			t.Errorf("ColorToString(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if got := ColorToString(nil); got != "#000000" {
		t.Errorf("ColorToString(nil) = %s", got)
	}
}
