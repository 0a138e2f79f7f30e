package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gregorian", cfg.Calendar)
	assert.Equal(t, "1d", cfg.Step)
	assert.True(t, cfg.RightOpen)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second load reads the file that was just written.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{
		Calendar:  "noleap",
		Step:      "6h",
		LeftOpen:  true,
		ICSOutput: "/tmp/out.ics",
		Cron:      "0 * * * *",
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNormalize(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()
	assert.Equal(t, "gregorian", cfg.Calendar)
	assert.Equal(t, "1d", cfg.Step)

	cfg = &Config{Calendar: "lunar"}
	cfg.Normalize()
	assert.Equal(t, "gregorian", cfg.Calendar)

	cfg = &Config{Calendar: "360_day", Step: "1c"}
	cfg.Normalize()
	assert.Equal(t, "360_day", cfg.Calendar)
	assert.Equal(t, "1c", cfg.Step)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar: [unterminated"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
