package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_AppliesConfiguredLevel(t *testing.T) {
	logger := NewLogger(LoggerConfig{Level: "error", Format: "json"})
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())

	logger = NewLogger(LoggerConfig{Level: "debug", Format: "console"})
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := NewLogger(LoggerConfig{Level: "", Format: "json"})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
