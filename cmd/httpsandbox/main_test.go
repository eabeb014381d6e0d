package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/alside/httpsandbox/pkg/config"
	"github.com/alside/httpsandbox/pkg/sandbox"
)

func TestGlobalFlags_loadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
github:
  auth_mode: none
database:
  driver: sqlite
`), 0o600))

	app := kingpin.New("test", "")
	f := registerFlags(app)
	_, err := app.Parse([]string{
		"--config.file", path,
		"--log.level", "debug",
		"--placeholder.base-url", "http://localhost:3000",
		"--database.dsn", "file::memory:",
	})
	require.NoError(t, err)

	cfg, err := f.loadConfig()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "http://localhost:3000", cfg.Placeholder.BaseURL)
	require.Equal(t, config.AuthModeNone, cfg.GitHub.AuthMode)
	require.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	require.Equal(t, "file::memory:", cfg.Database.DSN.String())
	require.Equal(t, ":8080", cfg.Server.ListenAddress)
}

func TestGlobalFlags_loadConfig_Invalid(t *testing.T) {
	f := &globalFlags{authMode: "oauth"}
	_, err := f.loadConfig()
	require.EqualError(t, err, `invalid configuration: unknown github auth mode "oauth"`)
}

func Test_newLogger(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "error"} {
		_, err := newLogger(lvl)
		require.NoError(t, err, lvl)
	}

	_, err := newLogger("trace")
	require.EqualError(t, err, `unknown log level "trace"`)
}

func Test_printModes(t *testing.T) {
	var buf bytes.Buffer
	printModes(&buf)

	out := buf.String()
	require.Contains(t, out, "MODE")
	for _, m := range sandbox.Modes() {
		require.Contains(t, out, m.Mode)
	}
}

func Test_sealTokenCmd(t *testing.T) {
	key := "16_byte_key_XXXX"

	var buf bytes.Buffer
	require.NoError(t, sealTokenCmd(&buf, "ghp_secret", key))

	token, err := sandbox.OpenToken(strings.TrimSpace(buf.String()), []byte(key))
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", token.AccessToken)

	require.Error(t, sealTokenCmd(&buf, "ghp_secret", "short"))
}
