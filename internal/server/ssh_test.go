package server

import "testing"

func TestLayoutKey(t *testing.T) {
	tests := []struct {
		user string
		want string
	}{
		{"alice", "ssh-alice"},
		{"  bob ", "ssh-bob"},
		{"", "ssh-anonymous"},
	}
	for _, tt := range tests {
		if got := LayoutKey(tt.user); got != tt.want {
			t.Errorf("LayoutKey(%q) = %q, want %q", tt.user, got, tt.want)
		}
	}
}
