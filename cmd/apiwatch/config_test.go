package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APIWATCH_CONFIG", "")
	c, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	o := c.ScanOptions()
	assert.True(t, o.SkipModuleInfo)
	assert.Equal(t, 4096, o.CacheSize)
}

func TestLoadConfigFile(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "apiwatch.yaml", []byte(`
indexes:
  - a.idx
  - b.idx
workers: 3
cache_size: 0
min_major_version: 52
include_descriptors: true
fail_on_usage: true
log_level: debug
`))
	c, err := LoadConfig(p, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.idx", "b.idx"}, c.Indexes)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 0, c.CacheSize)
	assert.Equal(t, uint16(52), c.MinMajorVersion)
	assert.True(t, c.FailOnUsage)
	assert.Equal(t, "debug", c.LogLevel)

	o := c.ScanOptions()
	assert.False(t, o.SkipModuleInfo)
	assert.Equal(t, uint16(52), o.MinMajorVersion)
	assert.Equal(t, 3, o.Workers)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "apiwatch.yaml", []byte("workers: 3\nindexes: [a.idx]\n"))
	t.Setenv("APIWATCH_WORKERS", "7")
	t.Setenv("APIWATCH_INDEX", "x.idx, y.idx,")
	t.Setenv("APIWATCH_FAIL_ON_USAGE", "true")

	c, err := LoadConfig(p, "")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Workers)
	assert.Equal(t, []string{"x.idx", "y.idx"}, c.Indexes)
	assert.True(t, c.FailOnUsage)
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "custom.yaml", []byte("baseline: accepted.txt\n"))
	t.Setenv("APIWATCH_CONFIG", p)

	c, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, "accepted.txt", c.Baseline)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err, "an explicit config path must exist")

	bad := writeTestFile(t, dir, "bad.yaml", []byte("workers: [1, 2\n"))
	_, err = LoadConfig(bad, "")
	assert.Error(t, err)

	t.Setenv("APIWATCH_CONFIG", "")
	t.Setenv("APIWATCH_WORKERS", "many")
	_, err = LoadConfig("", "")
	assert.ErrorContains(t, err, "APIWATCH_WORKERS")
}

func TestLoadConfigEnvFile(t *testing.T) {
	const name = "APIWATCH_METRICS_FILE"
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))

	envPath := writeTestFile(t, t.TempDir(), ".env", []byte(name+"=scan.prom\n"))
	t.Setenv("APIWATCH_CONFIG", "")

	c, err := LoadConfig("", envPath)
	require.NoError(t, err)
	assert.Equal(t, "scan.prom", c.MetricsFile)

	// A missing env file is not an error.
	_, err = LoadConfig("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}
