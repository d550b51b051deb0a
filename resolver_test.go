package smbsh

import (
	"context"
	"testing"
	"time"
)

func TestDNSResolver_localhost(t *testing.T) {
	r := NewDNSResolver()

	addrs, err := r.QueryName(context.Background(), "localhost", 2*time.Second)
	if err != nil {
		t.Fatalf("QueryName(localhost) error = %v", err)
	}
	if len(addrs) == 0 {
		t.Error("QueryName(localhost) returned no addresses")
	}
}

func TestDNSResolver_notFound(t *testing.T) {
	r := NewDNSResolver()

	addrs, err := r.QueryName(context.Background(), "no-such-host.invalid", 2*time.Second)
	if err != nil {
		t.Fatalf("QueryName(unknown) error = %v, want nil with zero results", err)
	}
	if len(addrs) != 0 {
		t.Errorf("QueryName(unknown) = %v, want no results", addrs)
	}
}

func TestIsIPLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"192.168.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"server", false},
		{"server.example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isIPLiteral(tt.in); got != tt.want {
			t.Errorf("isIPLiteral(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
