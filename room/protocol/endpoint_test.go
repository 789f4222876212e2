package protocol

import (
	"errors"
	"testing"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		room     string
		expected string
	}{
		{
			name:     "default scheme",
			endpoint: Endpoint{Host: "0.0.0.0", Port: 6040, Namespace: "dssn"},
			room:     "abdan",
			expected: "ws://0.0.0.0:6040/api/room/join/dssn/abdan",
		},
		{
			name:     "secure scheme",
			endpoint: Endpoint{Scheme: "wss", Host: "rooms.example.com", Port: 443, Namespace: "dssn"},
			room:     "room-1",
			expected: "wss://rooms.example.com:443/api/room/join/dssn/room-1",
		},
		{
			name:     "no port",
			endpoint: Endpoint{Host: "localhost", Namespace: "dssn"},
			room:     "r",
			expected: "ws://localhost/api/room/join/dssn/r",
		},
		{
			name:     "escaped room",
			endpoint: Endpoint{Host: "localhost", Port: 6040, Namespace: "dssn"},
			room:     "a b/c",
			expected: "ws://localhost:6040/api/room/join/dssn/a%20b%2Fc",
		},
		{
			name:     "ipv6 host",
			endpoint: Endpoint{Host: "::1", Port: 6040, Namespace: "dssn"},
			room:     "r",
			expected: "ws://[::1]:6040/api/room/join/dssn/r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JoinURL(tt.endpoint, tt.room)
			if err != nil {
				t.Fatalf("JoinURL failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestJoinURLErrors(t *testing.T) {
	valid := Endpoint{Host: "localhost", Port: 6040, Namespace: "dssn"}

	tests := []struct {
		name     string
		endpoint Endpoint
		room     string
	}{
		{"empty room", valid, ""},
		{"empty host", Endpoint{Port: 6040, Namespace: "dssn"}, "r"},
		{"empty namespace", Endpoint{Host: "localhost", Port: 6040}, "r"},
		{"slash namespace", Endpoint{Host: "localhost", Namespace: "a/b"}, "r"},
		{"http scheme", Endpoint{Scheme: "http", Host: "localhost", Namespace: "dssn"}, "r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JoinURL(tt.endpoint, tt.room)
			if !errors.Is(err, ErrInvalidEndpoint) {
				t.Errorf("Expected ErrInvalidEndpoint, got %v", err)
			}
		})
	}
}
