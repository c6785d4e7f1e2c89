package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/rustyeddy/backtester/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		level   zapcore.Level
		wantErr bool
	}{
		{"defaults", config.LoggingConfig{}, zapcore.InfoLevel, false},
		{"debug json", config.LoggingConfig{Level: "DEBUG", Encoding: "json"}, zapcore.DebugLevel, false},
		{"warn console", config.LoggingConfig{Level: "warn", Encoding: "console"}, zapcore.WarnLevel, false},
		{"bad level", config.LoggingConfig{Level: "loud"}, 0, true},
		{"bad encoding", config.LoggingConfig{Encoding: "xml"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.level-1))
			}
		})
	}
}
