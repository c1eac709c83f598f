package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_ReproducesFixedNames(t *testing.T) {
	d := Default()
	assert.Equal(t, "population_data.csv", d.Input)
	assert.Equal(t, "ukraine_population_analysis.csv", d.Output)
	assert.Equal(t, "en", d.Lang)
	assert.Equal(t, BackendNone, d.Metrics.Backend)
	assert.Empty(t, ValidateRun(d))
}

func TestLoad_YAMLOverlaysBase(t *testing.T) {
	path := writeConfigFile(t, "run.yaml", `
input: data/in.csv
lang: uk
metrics:
  backend: pushgateway
  pushgateway_url: http://gw:9091
`)

	got, err := Load(path, Default())
	require.NoError(t, err)

	assert.Equal(t, "data/in.csv", got.Input)
	assert.Equal(t, "uk", got.Lang)
	assert.Equal(t, BackendPushgateway, got.Metrics.Backend)
	assert.Equal(t, "http://gw:9091", got.Metrics.PushgatewayURL)

	// Keys the file does not mention keep their defaults.
	assert.Equal(t, DefaultOutput, got.Output)
	assert.Equal(t, DefaultJob, got.Job)
	assert.Equal(t, "127.0.0.1:8125", got.Metrics.StatsdAddr)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfigFile(t, "run.json", `{"output": "summary.csv", "verbose": true}`)

	got, err := Load(path, Default())
	require.NoError(t, err)
	assert.Equal(t, "summary.csv", got.Output)
	assert.True(t, got.Verbose)
	assert.Equal(t, DefaultInput, got.Input)
}

func TestLoad_MissingFile(t *testing.T) {
	base := Default()
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), base)
	require.Error(t, err)
	assert.Equal(t, base, got)
}
