package log

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "json"},
		{FormatText, "text"},
		{Format(999), "json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Errorf("Format.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"console", FormatText},
		{"invalid", FormatJSON},
		{"", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputWriter(t *testing.T) {
	var buf bytes.Buffer
	if NewOutput(&buf).Writer() != &buf {
		t.Error("NewOutput should wrap the given writer")
	}
	if OutputStderr().Writer() != os.Stderr {
		t.Error("OutputStderr should write to stderr")
	}
	if OutputDiscard().Writer() != io.Discard {
		t.Error("OutputDiscard should write to io.Discard")
	}
	if (Output{}).Writer() != os.Stderr {
		t.Error("zero Output should fall back to stderr")
	}
}

func TestDefaultConfig(t *testing.T) {
	def := DefaultConfig()
	if def.Level != LevelWarn || def.Format != FormatText || def.ServiceName != "pressdesk" {
		t.Errorf("unexpected default config: %+v", def)
	}
}
