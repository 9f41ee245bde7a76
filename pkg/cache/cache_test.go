package cache

import "testing"

func TestKey(t *testing.T) {
	if Key("¿Hay stock?") != Key("  ¿Hay stock?\n") {
		t.Error("Expected surrounding whitespace to be ignored")
	}
	if Key("¿Hay stock?") == Key("¿Cuánto cuesta?") {
		t.Error("Expected different questions to have different keys")
	}
	if len(Key("x")) != 64 {
		t.Errorf("Expected hex sha256 key, got %q", Key("x"))
	}
}
