package logging

import "testing"

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !l.Core().Enabled(-1) {
		t.Fatalf("debug must be enabled")
	}
	if _, err := NewLogger("loud"); err == nil {
		t.Fatalf("unknown level must fail")
	}
	if l, err := NewLogger(""); err != nil || l.Core().Enabled(-1) {
		t.Fatalf("default level must be info, err=%v", err)
	}
}
