package logging

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger_VerbosityLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{name: "quiet defaults to warn", verbosity: 0, wantLevel: zerolog.WarnLevel},
		{name: "v is info", verbosity: 1, wantLevel: zerolog.InfoLevel},
		{name: "vv is debug", verbosity: 2, wantLevel: zerolog.DebugLevel},
		{name: "vvv is trace", verbosity: 3, wantLevel: zerolog.TraceLevel},
		{name: "anything higher is trace", verbosity: 9, wantLevel: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupLogger(tt.verbosity)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestGetLogger_ReturnsNamedLogger(t *testing.T) {
	logger := GetLogger("engine")
	assert.NotNil(t, logger)
}

func TestGetLogFilePath(t *testing.T) {
	path := getLogFilePath()
	assert.True(t, strings.HasSuffix(path, "modforge.log"))
	assert.Contains(t, path, "modforge")
}
