package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "userconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("USERCONSOLE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, Load(""))

	assert.Equal(t, "http://localhost:3001", API().BaseURL)
	assert.Equal(t, ProfileConfirmed, Submit().Profile)
	assert.Equal(t, "info", Logger().Level)
	assert.Equal(t, "json", Logger().Format)
	assert.Equal(t, "0.0.0.0:3000", Http().Addr())
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
common:
  api:
    base_url: http://users.internal:8080
  submit:
    profile: silent
`)

	require.NoError(t, Load(path))

	assert.Equal(t, "http://users.internal:8080", API().BaseURL)
	assert.Equal(t, ProfileSilent, Submit().Profile)
	// untouched sections keep their defaults
	assert.Equal(t, 3000, Http().Port)
	assert.Equal(t, "info", Logger().Level)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
common:
  api:
    base_url: http://from-file:1
  http:
    port: 4000
`)
	t.Setenv("USERCONSOLE_API_URL", "http://from-env:2")
	t.Setenv("USERCONSOLE_HTTP_PORT", "4100")
	t.Setenv("USERCONSOLE_SUBMIT_PROFILE", "SILENT")
	t.Setenv("USERCONSOLE_LOG_LEVEL", "debug")

	require.NoError(t, Load(path))

	assert.Equal(t, "http://from-env:2", API().BaseURL)
	assert.Equal(t, 4100, Http().Port)
	assert.Equal(t, ProfileSilent, Submit().Profile)
	assert.Equal(t, "debug", Logger().Level)
}

func TestInvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("USERCONSOLE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("USERCONSOLE_HTTP_PORT", "not-a-port")

	require.NoError(t, Load(""))
	assert.Equal(t, 3000, Http().Port)
}

func TestLoadRejectsUnknownProfile(t *testing.T) {
	path := writeConfigFile(t, `
common:
  submit:
    profile: noisy
`)

	err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noisy")
}

func TestLoadFromFileParseError(t *testing.T) {
	path := writeConfigFile(t, "common: [not, a, map")

	err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSetProfile(t *testing.T) {
	LoadDefault()

	require.NoError(t, SetProfile(ProfileSilent))
	assert.Equal(t, ProfileSilent, Submit().Profile)

	require.Error(t, SetProfile("loud"))
	assert.Equal(t, ProfileSilent, Submit().Profile, "invalid profile must not replace the previous one")
}

func TestGettersPanicBeforeLoad(t *testing.T) {
	_loaded = nil
	t.Cleanup(LoadDefault)

	assert.Panics(t, func() { API() })
	assert.Panics(t, func() { Get() })
}
