package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrkit/lrkit/grammar"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lrkit.toml")
	err := os.WriteFile(path, []byte(`
class = "SLR(1)"
log_level = "debug"
color = false
trace = true
`), 0600)
	require.NoError(t, err)

	c, err := loadConfig(path)
	require.NoError(t, err)
	require.NoError(t, c.validate())
	assert.Equal(t, grammar.ClassSLR1, c.class())
	assert.Equal(t, "debug", c.LogLevel)
	assert.False(t, c.Color)
	assert.True(t, c.Trace)
}

func TestLoadConfig_KeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lrkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(`trace = true`), 0600))

	c, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, grammar.ClassLALR1, c.class())
	assert.Equal(t, "warn", c.LogLevel)
	assert.True(t, c.Color)
}

func TestConfig_Validate(t *testing.T) {
	c := defaultConfig()
	c.Class = "lr2"
	assert.Error(t, c.validate())

	c = defaultConfig()
	c.LogLevel = "loud"
	assert.Error(t, c.validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}

func TestDefaultReportPath(t *testing.T) {
	assert.Equal(t, "cc-report.json", defaultReportPath("cc", ""))
	assert.Equal(t, filepath.Join("out", "cc-report.json"), defaultReportPath("cc", filepath.Join("out", "cc.json")))
}
