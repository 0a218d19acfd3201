package redisx

import (
	"testing"
	"time"
)

func TestNewWithoutAddrReturnsNil(t *testing.T) {
	if c := New(""); c != nil {
		t.Fatal("expected nil client for empty addr")
	}
}

// A slow Redis must not stall sale posting, so every call is bounded.
func TestNewBoundsCommandTimeouts(t *testing.T) {
	c := New("localhost:6379")
	if c == nil {
		t.Fatal("expected a client")
	}
	defer c.Close()

	opts := c.Options()
	want := 2 * time.Second
	if opts.DialTimeout != want {
		t.Errorf("dial timeout = %v, want %v", opts.DialTimeout, want)
	}
	if opts.ReadTimeout != want {
		t.Errorf("read timeout = %v, want %v", opts.ReadTimeout, want)
	}
	if opts.WriteTimeout != want {
		t.Errorf("write timeout = %v, want %v", opts.WriteTimeout, want)
	}
}
