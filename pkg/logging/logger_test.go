/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for the logging system. Verifies config validation, level parsing,
and the timestamped per-run log file.
*/

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := &Config{Level: "debug", Format: LogFormatJSON}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&Config{Level: "loud", Format: LogFormatText}).Validate())
	assert.Error(t, (&Config{Level: "info", Format: "xml"}).Validate())
}

func TestNewLoggerDefaults(t *testing.T) {
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLoggerSetsLevel(t *testing.T) {
	logger, err := NewLogger(&Config{Level: "debug", Format: LogFormatJSON})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewLoggerWritesRunFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(&Config{Level: "info", Format: LogFormatText, OutputDir: dir})
	require.NoError(t, err)

	logger.Info("hello from the run")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "templater_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the run")
}
