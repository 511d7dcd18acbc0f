package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `envconfig:"NAME" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
	Limit   int           `envconfig:"LIMIT" default:"3"`
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewReadsExplicitEnvFile(t *testing.T) {
	path := writeEnvFile(t, "CFGTEST_NAME=from-file\nCFGTEST_LIMIT=9\n")
	t.Setenv("CFGTEST_NAME", "")
	os.Unsetenv("CFGTEST_NAME")
	os.Unsetenv("CFGTEST_LIMIT")
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_LIMIT")
		SetEnvFile("")
	})

	SetEnvFile(path)
	conf, err := New[testConfig]("CFGTEST")
	require.NoError(t, err)
	require.Equal(t, "from-file", conf.Name)
	require.Equal(t, 9, conf.Limit)
	require.Equal(t, 5*time.Second, conf.Timeout)
}

func TestNewEnvironmentWinsOverFile(t *testing.T) {
	path := writeEnvFile(t, "CFGTEST_NAME=from-file\n")
	t.Setenv("CFGTEST_NAME", "from-env")
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(path)
	conf, err := New[testConfig]("CFGTEST")
	require.NoError(t, err)
	require.Equal(t, "from-env", conf.Name)
}

func TestNewMissingExplicitFile(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	_, err := New[testConfig]("CFGTEST")
	require.Error(t, err)
}
