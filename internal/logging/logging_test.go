package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		logger := New(tt.level, "json")
		if logger.GetLevel() != tt.want {
			t.Fatalf("New(%q) level = %v, want %v", tt.level, logger.GetLevel(), tt.want)
		}
	}
}
