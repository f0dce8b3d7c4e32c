package log

import "testing"

func TestSetDefaultLogger(t *testing.T) {
	original := defaultLogger.Load()
	defer defaultLogger.Store(original)

	custom := Discard()
	SetDefaultLogger(custom)

	if got := DefaultLogger(); got != custom {
		t.Error("DefaultLogger did not return the custom logger")
	}
}

func TestDefaultLogger_CreatesWhenUnset(t *testing.T) {
	original := defaultLogger.Load()
	defer defaultLogger.Store(original)

	SetDefaultLogger(nil)

	first := DefaultLogger()
	if first == nil {
		t.Fatal("DefaultLogger returned nil when no default was set")
	}
	if second := DefaultLogger(); second != first {
		t.Error("DefaultLogger should reuse the lazily created logger")
	}
	if first.Config().Level != LevelWarn {
		t.Errorf("expected default level WARN, got %v", first.Config().Level)
	}
}
