package api

import "testing"

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "10.0.0.1:52114", "10.0.0.1"},
		{"ipv6 loopback with port", "[::1]:8080", "::1"},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1"},
		{"no port", "10.0.0.1", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clientIP(tt.remoteAddr); got != tt.want {
				t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
			}
		})
	}
}
