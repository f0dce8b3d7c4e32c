package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pressdesk/internal/config"
	"github.com/felixgeelhaar/pressdesk/internal/exitcode"
)

func TestConfigPathAndView(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, config.FileName), strings.TrimSpace(out))

	out, err = execute(t, home, "", "config", "view", "--json")
	require.NoError(t, err)
	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, config.DefaultAPIURL, values["api_url"])
	assert.Equal(t, "notty", values["render_style"], "environment overrides the default")
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "", "config", "set", "timeout", "45s")
	require.NoError(t, err)
	assert.Contains(t, out, "Set timeout = 45s")
	assert.FileExists(t, filepath.Join(home, config.FileName))

	out, err = execute(t, home, "", "config", "get", "timeout")
	require.NoError(t, err)
	assert.Equal(t, "45s", strings.TrimSpace(out))

	// Environment values are not written back to the file.
	fileCfg, err := config.LoadFile(home)
	require.NoError(t, err)
	assert.Equal(t, "auto", fileCfg.RenderStyle)
}

func TestConfigSetRejectsInvalidValues(t *testing.T) {
	home := t.TempDir()

	_, err := execute(t, home, "", "config", "set", "log_format", "xml")
	require.Error(t, err)
	assert.Equal(t, exitcode.UsageError, exitcode.DetermineExitCode(err))

	_, err = execute(t, home, "", "config", "set", "nope", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_url")

	_, err = execute(t, home, "", "config", "get")
	require.Error(t, err)
	assert.Equal(t, exitcode.UsageError, exitcode.DetermineExitCode(err))
}

func TestStatusCommand(t *testing.T) {
	backend := newFakeBackend(t)

	out, err := execute(t, t.TempDir(), backend.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend.URL+" is up")
	assert.Contains(t, out, "PressDesk API")
	assert.Contains(t, out, "1.0.0")

	out, err = execute(t, t.TempDir(), backend.URL, "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "healthy"`)
}

func TestStatusUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	t.Setenv("PRESSDESK_HEALTH_RETRIES", "0")
	_, err := execute(t, t.TempDir(), url, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reach API at "+url)
	assert.Equal(t, exitcode.NetworkError, exitcode.DetermineExitCode(err))
}

func TestDashboardPlain(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()

	_, err := execute(t, home, backend.URL, "dashboard", "--plain")
	require.Error(t, err)
	assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))

	signIn(t, home)
	out, err := execute(t, home, backend.URL, "dashboard", "--plain", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Welcome back, Ada Lovelace")
	assert.Contains(t, out, "| PR briefs | 2 |")
	assert.Contains(t, out, "No activity yet")
}
